package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport marks failures where the request was sent but no
	// response came back.
	ErrTransport = errors.New("network error")
	// ErrHTTPStatus marks responses with a non-2xx status.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrRefreshFailed marks an irrecoverable token refresh. The credential
	// store has been cleared by the time a caller sees it.
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrNoRefreshToken is returned (wrapped in ErrRefreshFailed) when a
	// refresh is needed but no refresh token is stored.
	ErrNoRefreshToken = errors.New("no refresh token")
)

const networkErrorMessage = "network error"

// Error is the only error type returned by the pipeline.
type Error struct {
	IsNetworkError bool
	Status         int
	Data           any
	Message        string

	kind  error
	cause error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the classification sentinel and the underlying cause
// to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// AsError extracts the normalized error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if e, ok := AsError(err); ok {
		return e.Status
	}
	return 0
}

func networkError(cause error) *Error {
	return &Error{
		IsNetworkError: true,
		Message:        networkErrorMessage,
		kind:           ErrTransport,
		cause:          cause,
	}
}

func otherError(cause error) *Error {
	if e, ok := AsError(cause); ok {
		return e
	}
	return &Error{Message: cause.Error(), cause: cause}
}

func httpError(resp *Response) *Error {
	data := decodeErrorBody(resp.Body)
	return &Error{
		Status:  resp.StatusCode,
		Data:    data,
		Message: errorMessage(resp.StatusCode, data),
		kind:    ErrHTTPStatus,
	}
}

// refreshError classifies cause as a refresh failure, keeping the status,
// data and message of a response-bearing cause.
func refreshError(cause error) *Error {
	e := &Error{kind: ErrRefreshFailed, cause: cause}
	if inner, ok := AsError(cause); ok {
		e.IsNetworkError = inner.IsNetworkError
		e.Status = inner.Status
		e.Data = inner.Data
		e.Message = inner.Message
		return e
	}
	e.Message = fmt.Sprintf("%s: %s", ErrRefreshFailed, cause)
	return e
}

func decodeErrorBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}

func errorMessage(status int, data any) string {
	if m, ok := data.(map[string]any); ok {
		for _, key := range []string{"message", "error"} {
			if s, ok := m[key].(string); ok && s != "" {
				return s
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("http status %d", status)
}
