// Package services contains the typed ThonHub API operations used by the
// terminal client. Every call goes through the authenticated request
// pipeline, so an expired access token is refreshed transparently and
// failures surface as *api.Error.
package services

import (
	"context"
	"io"

	"github.com/thonhub/thonhub/internal/client/api"
	"github.com/thonhub/thonhub/internal/client/tokenstore"
)

// Requester is the part of *api.Pipeline the services depend on.
type Requester interface {
	DoJSON(ctx context.Context, req *api.Request, out any) error
	Put(ctx context.Context, path string, body any) (*api.Response, error)
	Patch(ctx context.Context, path string, body any) (*api.Response, error)
	Delete(ctx context.Context, path string) (*api.Response, error)
	UploadFile(ctx context.Context, path, field, filename string, r io.Reader, size int64, progress chan<- int) (*api.Response, error)
	Store() tokenstore.Store
}
