package api

import (
	"context"
	"slices"
	"time"
)

// SessionEvent reports that the stored credentials were discarded after an
// irrecoverable refresh failure. The host decides how to re-authenticate.
type SessionEvent struct {
	Reason string
	At     time.Time
}

const sessionBuffer = 4

// SessionExpired subscribes to session-expired events until ctx is done,
// after which the channel is closed. Each subscriber gets its own buffered
// channel; events are dropped for subscribers that fall behind.
func (p *Pipeline) SessionExpired(ctx context.Context) <-chan SessionEvent {
	ch := make(chan SessionEvent, sessionBuffer)

	p.subsMu.Lock()
	p.subs = append(p.subs, ch)
	p.subsMu.Unlock()

	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			p.unsubscribe(ch)
		}()
	}

	return ch
}

func (p *Pipeline) unsubscribe(ch chan SessionEvent) {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()

	p.subs = slices.DeleteFunc(p.subs, func(c chan SessionEvent) bool { return c == ch })
	close(ch)
}

func (p *Pipeline) emit(ev SessionEvent) {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()

	for _, ch := range p.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
