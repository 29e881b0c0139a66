package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Request describes one logical API call. A Request may be sent twice: once
// with the stored token and, after a 401 and a successful refresh, once more
// with the refreshed token. Bodies are therefore replayable.
type Request struct {
	Method string
	// Path is resolved against the pipeline base URL.
	Path   string
	Query  url.Values
	Header http.Header

	// JSON is encoded as the request body when Body and GetBody are nil.
	JSON any
	// Body is buffered (or rewound when it is an io.Seeker) before each send.
	Body io.Reader
	// GetBody, when set, produces a fresh body for every attempt.
	GetBody func() (io.Reader, error)

	// NoRefresh sends the request without 401 recovery. Used for login.
	NoRefresh bool

	retried bool
}

// Retried reports whether the request has already been reissued after a 401.
func (r *Request) Retried() bool {
	return r.retried
}

type bodyFunc func() (io.Reader, error)

func noBody() (io.Reader, error) { return nil, nil }

// prepare returns a replayable body source and the content type it implies.
func (r *Request) prepare() (bodyFunc, string, error) {

	switch {
	case r.GetBody != nil:
		return r.GetBody, "", nil

	case r.Body != nil:
		if s, ok := r.Body.(io.ReadSeeker); ok {
			return func() (io.Reader, error) {
				if _, err := s.Seek(0, io.SeekStart); err != nil {
					return nil, fmt.Errorf("rewind body: %w", err)
				}
				return s, nil
			}, "", nil
		}
		buf, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, "", fmt.Errorf("read body: %w", err)
		}
		return func() (io.Reader, error) { return bytes.NewReader(buf), nil }, "", nil

	case r.JSON != nil:
		buf, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return func() (io.Reader, error) { return bytes.NewReader(buf), nil }, "application/json", nil
	}

	return noBody, "", nil
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("decode response: empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (r *Response) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
