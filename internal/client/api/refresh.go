package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/thonhub/thonhub/internal/client/tokenstore"
	"github.com/thonhub/thonhub/internal/common"
)

type refreshResult struct {
	token string
	err   error
}

// pending is a request parked behind an in-flight refresh.
type pending struct {
	ch chan refreshResult
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

var errMissingAccessToken = errors.New("refresh response has no access_token")

// Refresh exchanges the stored refresh token for a new pair and returns the
// new access token. If a refresh is already running the call waits for it
// instead of starting another.
func (p *Pipeline) Refresh(ctx context.Context) (string, error) {
	return p.awaitToken(ctx)
}

// Refreshing reports whether a refresh call is in flight.
func (p *Pipeline) Refreshing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshing
}

func (p *Pipeline) awaitToken(ctx context.Context) (string, error) {

	p.mu.Lock()
	if p.refreshing {
		w := &pending{ch: make(chan refreshResult, 1)}
		p.queue = append(p.queue, w)
		waiting := len(p.queue)
		p.mu.Unlock()

		p.log.Debug(ctx, "waiting for token refresh", "position", waiting)

		select {
		case res := <-w.ch:
			return res.token, res.err
		case <-ctx.Done():
			return "", otherError(ctx.Err())
		}
	}
	p.refreshing = true
	p.mu.Unlock()

	// Waiters depend on this call finishing, so the leader's cancellation
	// must not abort it. The client timeout still applies.
	token, err := p.refresh(context.WithoutCancel(ctx))
	p.settle(token, err)

	if err != nil {
		return "", err
	}
	return token, nil
}

// refresh calls the refresh endpoint and updates the store. Failures clear
// the store and emit a session event before returning, unless the store was
// already empty.
func (p *Pipeline) refresh(ctx context.Context) (string, error) {

	pair, err := p.exchange(ctx)
	if err == nil {
		if err = p.store.SetPair(ctx, pair); err != nil {
			err = refreshError(fmt.Errorf("store tokens: %w", err))
		}
	}

	if errors.Is(err, ErrNoRefreshToken) {
		// Nothing left to discard once the store is empty.
		if access, aerr := p.store.AccessToken(ctx); aerr == nil && access == "" {
			p.log.Debug(ctx, "no stored session to refresh")
			return "", err
		}
	}

	if err != nil {
		p.log.Warn(ctx, "token refresh failed, clearing session", "error", err)
		if cerr := p.store.Clear(ctx); cerr != nil {
			p.log.Error(ctx, "failed to clear credentials", "error", cerr)
		}
		p.emit(SessionEvent{Reason: err.Error(), At: p.now()})
		return "", err
	}

	p.log.Info(ctx, "access token refreshed")
	return pair.AccessToken, nil
}

func (p *Pipeline) exchange(ctx context.Context) (tokenstore.Pair, error) {

	current, err := p.store.RefreshToken(ctx)
	if err != nil {
		return tokenstore.Pair{}, refreshError(fmt.Errorf("read refresh token: %w", err))
	}
	if current == "" {
		return tokenstore.Pair{}, refreshError(ErrNoRefreshToken)
	}

	req := &Request{
		Method:  http.MethodPost,
		Path:    common.RefreshPath,
		JSON:    refreshRequest{RefreshToken: current},
		retried: true,
	}
	body, contentType, err := req.prepare()
	if err != nil {
		return tokenstore.Pair{}, refreshError(err)
	}

	// Sent without the expired bearer token and never routed through the
	// 401 handler.
	resp, err := p.send(ctx, req, "", body, contentType)
	if err != nil {
		return tokenstore.Pair{}, refreshError(err)
	}
	if !resp.ok() {
		return tokenstore.Pair{}, refreshError(httpError(resp))
	}

	var out refreshResponse
	if err := resp.Decode(&out); err != nil {
		return tokenstore.Pair{}, refreshError(err)
	}
	if out.AccessToken == "" {
		return tokenstore.Pair{}, refreshError(errMissingAccessToken)
	}

	pair := tokenstore.Pair{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
	if pair.RefreshToken == "" {
		pair.RefreshToken = current
	}
	return pair, nil
}

// settle ends the refresh and releases the queued waiters in FIFO order.
func (p *Pipeline) settle(token string, err error) {

	p.mu.Lock()
	p.refreshing = false
	queue := p.queue
	p.queue = nil
	p.mu.Unlock()

	for _, w := range queue {
		w.ch <- refreshResult{token: token, err: err}
	}
}
