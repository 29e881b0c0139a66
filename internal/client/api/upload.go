package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/thonhub/thonhub/internal/netx"
)

var errUploadDone = errors.New("upload attempt finished")

// UploadFile streams r as the multipart field `field` and sends it through
// the pipeline, so an expired token is refreshed and the upload replayed
// like any other request.
//
// When progress is non-nil it receives integer percentages of the file sent,
// never decreasing across a replay. Writing the file tops out at 99; 100 is
// sent only once the server has answered with a 2xx. The caller must drain
// it; it is closed when UploadFile returns.
func (p *Pipeline) UploadFile(ctx context.Context, path, field, filename string, r io.Reader, size int64, progress chan<- int) (*Response, error) {

	if progress != nil {
		defer close(progress)
	}

	src, size, err := replayable(r, size)
	if err != nil {
		return nil, otherError(err)
	}

	uctx, cancel := context.WithCancel(ctx)
	body := &multipartBody{
		ctx:      uctx,
		src:      src,
		size:     size,
		field:    field,
		filename: filename,
		boundary: multipart.NewWriter(io.Discard).Boundary(),
		progress: progress,
	}
	body.last.Store(-1)
	defer func() {
		cancel()
		body.stop()
	}()

	req := &Request{
		Method:  http.MethodPost,
		Path:    path,
		Header:  http.Header{"Content-Type": {"multipart/form-data; boundary=" + body.boundary}},
		GetBody: body.open,
	}
	resp, err := p.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	// The writer may still be handing over its last value.
	body.stop()
	netx.Report(ctx, progress, &body.last, 100)
	return resp, nil
}

func replayable(r io.Reader, size int64) (io.ReadSeeker, int64, error) {
	if r == nil {
		return nil, 0, errors.New("nil upload reader")
	}
	if s, ok := r.(io.ReadSeeker); ok {
		if size <= 0 {
			end, err := s.Seek(0, io.SeekEnd)
			if err != nil {
				return nil, 0, fmt.Errorf("size upload: %w", err)
			}
			size = end
		}
		return s, size, nil
	}
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read upload: %w", err)
	}
	return bytes.NewReader(buf), int64(len(buf)), nil
}

// multipartBody writes the form through a pipe, one writer goroutine per
// attempt. open waits for the previous attempt's writer before rewinding.
type multipartBody struct {
	ctx      context.Context
	src      io.ReadSeeker
	size     int64
	field    string
	filename string
	boundary string
	progress chan<- int
	last     atomic.Int64

	wg sync.WaitGroup
	pr *io.PipeReader
}

func (b *multipartBody) open() (io.Reader, error) {

	b.stop()

	if _, err := b.src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	pr, pw := io.Pipe()
	b.pr = pr

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		pw.CloseWithError(b.write(pw))
	}()

	return pr, nil
}

func (b *multipartBody) write(w io.Writer) error {

	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(b.boundary); err != nil {
		return err
	}

	part, err := mw.CreateFormFile(b.field, b.filename)
	if err != nil {
		return err
	}

	src := netx.NewProgressReader(b.ctx, b.src, b.size, b.progress, &b.last)
	src.Ceiling = 99
	if _, err := io.Copy(part, src); err != nil {
		return err
	}

	return mw.Close()
}

func (b *multipartBody) stop() {
	if b.pr != nil {
		b.pr.CloseWithError(errUploadDone)
	}
	b.wg.Wait()
}
