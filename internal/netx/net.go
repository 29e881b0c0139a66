// Package netx contains transport helpers used by the request pipeline.
package netx

import (
	"context"
	"io"
	"sync/atomic"
)

// ProgressReader counts bytes read from R and reports the integer
// percentage of Total consumed so far on Progress. Only increases are
// reported, so the stream is monotonically non-decreasing even when the
// underlying reader is rewound and replayed.
//
// Sends block until the receiver takes the value or Ctx is done.
type ProgressReader struct {
	R        io.Reader
	Total    int64
	Progress chan<- int
	Ctx      context.Context

	// Ceiling caps the reported percentage when positive. Callers that
	// only know the payload was accepted later report the rest with Report.
	Ceiling int

	read     int64
	reported *atomic.Int64
}

// NewProgressReader wraps r. last carries the highest percentage already
// reported and may be shared between successive readers over the same
// payload; pass nil to start from scratch.
func NewProgressReader(ctx context.Context, r io.Reader, total int64, progress chan<- int, last *atomic.Int64) *ProgressReader {
	if last == nil {
		last = &atomic.Int64{}
		last.Store(-1)
	}
	return &ProgressReader{R: r, Total: total, Progress: progress, Ctx: ctx, reported: last}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.R.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report(Percent(p.read, p.Total))
	}
	if err == io.EOF {
		p.report(100)
	}
	return n, err
}

func (p *ProgressReader) report(pct int) {
	if p.Ceiling > 0 && pct > p.Ceiling {
		pct = p.Ceiling
	}
	Report(p.Ctx, p.Progress, p.reported, pct)
}

// Report sends pct on progress if it is higher than the value held in last,
// which it then updates. A nil channel is a no-op.
func Report(ctx context.Context, progress chan<- int, last *atomic.Int64, pct int) {
	if progress == nil {
		return
	}
	for {
		prev := last.Load()
		if int64(pct) <= prev {
			return
		}
		if last.CompareAndSwap(prev, int64(pct)) {
			break
		}
	}
	select {
	case progress <- pct:
	case <-ctx.Done():
	}
}

// Percent returns round(done*100/total) clamped to [0, 100]. An unknown or
// zero total yields 0 until the stream ends.
func Percent(done, total int64) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return int((done*100 + total/2) / total)
}
