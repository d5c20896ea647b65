package port

import (
	"context"
	"io"
)

// MediaPrefix is the leading byte range of a remote media resource.
type MediaPrefix struct {
	Body       []byte
	StatusCode int
}

// MediaDownload is a streaming handle on a remote media resource. The caller
// owns Body and must close it.
type MediaDownload struct {
	Body        io.ReadCloser
	StatusCode  int
	Status      string
	ContentType string
}

// MediaFetcherPort wraps raw media I/O against remote hosts.
type MediaFetcherPort interface {
	// FetchPrefix requests at most maxBytes leading bytes via a Range header.
	FetchPrefix(ctx context.Context, url string, maxBytes int64) (MediaPrefix, error)

	// Download opens the full resource for streaming.
	Download(ctx context.Context, url string) (MediaDownload, error)

	// FetchImage downloads an image resource fully into memory; non-success
	// statuses are returned as errors.
	FetchImage(ctx context.Context, url string) ([]byte, error)
}
