// Package api is the authenticated HTTP request pipeline.
//
// Every request carries the stored access token as a bearer credential. A 401
// on a request that has not been retried triggers a token refresh; at most
// one refresh is in flight per Pipeline and every request that hits a 401
// while it runs waits for its outcome instead of starting another. Each
// logical request is retried at most once.
//
// All failures are reported as *Error.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thonhub/thonhub/internal/client/tokenstore"
	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/logging"
)

const DefaultTimeout = 20 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Option func(*Pipeline)

// WithHTTPClient replaces the default client. Its Timeout bounds every send
// including the refresh call.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) { p.client = c }
}

func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

type Pipeline struct {
	client  *http.Client
	base    *url.URL
	baseErr error
	store   tokenstore.Store
	log     logging.Logger
	now     func() time.Time

	mu         sync.Mutex
	refreshing bool
	queue      []*pending

	subsMu sync.Mutex
	subs   []chan SessionEvent
}

func New(cfg Config, store tokenstore.Store, opts ...Option) *Pipeline {

	p := &Pipeline{
		store: store,
		log:   logging.Nop{},
		now:   time.Now,
	}

	p.base, p.baseErr = parseBaseURL(cfg.BaseURL)

	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		jar, _ := cookiejar.New(nil)
		p.client = &http.Client{Timeout: timeout, Jar: jar}
	}

	return p
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		raw = common.DefaultAPIBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", raw)
	}
	return u, nil
}

// BaseURL returns the configured base URL, or "" when it is invalid.
func (p *Pipeline) BaseURL() string {
	if p.base == nil {
		return ""
	}
	return p.base.String()
}

// Store returns the credential store the pipeline reads tokens from.
func (p *Pipeline) Store() tokenstore.Store {
	return p.store
}

// Do sends req, recovering once from an expired access token. Non-2xx
// responses are returned as *Error with the decoded body in Data.
func (p *Pipeline) Do(ctx context.Context, req *Request) (*Response, error) {

	if req == nil {
		return nil, otherError(errors.New("nil request"))
	}
	if req.NoRefresh {
		req.retried = true
	}

	body, contentType, err := req.prepare()
	if err != nil {
		return nil, otherError(err)
	}

	token, err := p.store.AccessToken(ctx)
	if err != nil {
		return nil, otherError(fmt.Errorf("read access token: %w", err))
	}

	for {
		resp, err := p.send(ctx, req, token, body, contentType)
		if err != nil {
			return nil, err
		}

		if resp.ok() {
			return resp, nil
		}
		if resp.StatusCode != http.StatusUnauthorized || req.retried {
			return nil, httpError(resp)
		}

		req.retried = true

		// Another request already refreshed while this one was on the wire.
		if cur, err := p.store.AccessToken(ctx); err == nil && cur != "" && cur != token {
			token = cur
			continue
		}

		token, err = p.awaitToken(ctx)
		if err != nil {
			// Without a session there is nothing to recover; keep the
			// server's own 401.
			if errors.Is(err, ErrNoRefreshToken) {
				return nil, httpError(resp)
			}
			return nil, err
		}
	}
}

// DoJSON sends req and decodes a successful JSON response into out. A nil
// out discards the body.
func (p *Pipeline) DoJSON(ctx context.Context, req *Request, out any) error {
	resp, err := p.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		return otherError(err)
	}
	return nil
}

func (p *Pipeline) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return p.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

func (p *Pipeline) Post(ctx context.Context, path string, body any) (*Response, error) {
	return p.Do(ctx, &Request{Method: http.MethodPost, Path: path, JSON: body})
}

func (p *Pipeline) Put(ctx context.Context, path string, body any) (*Response, error) {
	return p.Do(ctx, &Request{Method: http.MethodPut, Path: path, JSON: body})
}

func (p *Pipeline) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return p.Do(ctx, &Request{Method: http.MethodPatch, Path: path, JSON: body})
}

func (p *Pipeline) Delete(ctx context.Context, path string) (*Response, error) {
	return p.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (p *Pipeline) resolve(path string, query url.Values) (string, error) {
	if p.baseErr != nil {
		return "", p.baseErr
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	if ref.IsAbs() {
		return "", fmt.Errorf("path %q must be relative to the base url", path)
	}

	u := *p.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")

	q := ref.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// send performs one attempt. It returns a *Response for any status and an
// *Error only when no response was obtained.
func (p *Pipeline) send(ctx context.Context, req *Request, token string, body bodyFunc, contentType string) (*Response, error) {

	if err := ctx.Err(); err != nil {
		return nil, otherError(err)
	}

	target, err := p.resolve(req.Path, req.Query)
	if err != nil {
		return nil, otherError(err)
	}

	r, err := body()
	if err != nil {
		return nil, otherError(err)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, r)
	if err != nil {
		return nil, otherError(err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(common.RequestIDHeader, requestID)
	httpReq.Header.Set(common.RequestTimeHeader, strconv.FormatInt(p.now().UnixMilli(), 10))
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	log := p.log.With("method", method, "path", req.Path, "request_id", requestID)
	log.Debug(ctx, "api request", "authenticated", token != "", "retried", req.retried)

	res, err := p.client.Do(httpReq)
	if err != nil {
		log.Error(ctx, "no response from server", "error", err)
		return nil, networkError(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		log.Error(ctx, "failed to read response body", "error", err)
		return nil, networkError(err)
	}

	resp := &Response{StatusCode: res.StatusCode, Header: res.Header, Body: data}
	logStatus(ctx, log, resp)

	return resp, nil
}

func logStatus(ctx context.Context, log logging.Logger, resp *Response) {

	if resp.ok() {
		log.Debug(ctx, "api response", "status", resp.StatusCode, "bytes", len(resp.Body))
		return
	}

	msg := errorMessage(resp.StatusCode, decodeErrorBody(resp.Body))

	switch resp.StatusCode {
	case http.StatusBadRequest:
		log.Warn(ctx, "bad request", "message", msg)
	case http.StatusUnauthorized:
		log.Warn(ctx, "unauthorized", "message", msg)
	case http.StatusForbidden:
		log.Warn(ctx, "forbidden: permission denied", "message", msg)
	case http.StatusNotFound:
		log.Warn(ctx, "resource not found", "message", msg)
	case http.StatusInternalServerError:
		log.Error(ctx, "server error", "message", msg)
	case http.StatusServiceUnavailable:
		log.Error(ctx, "service unavailable: server is down", "message", msg)
	default:
		log.Warn(ctx, "request failed", "status", resp.StatusCode, "message", msg)
	}
}
