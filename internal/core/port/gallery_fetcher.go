package port

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
)

// GalleryFetcherPort issues a single paginated request to the remote gallery
// API and normalizes the response shape.
//
// Upstream failures (non-success status, undecodable body, network error) are
// fail-soft: the implementation returns an empty page whose Note carries the
// diagnostic and whose NextCursor is empty, which the aggregator treats as
// end-of-pagination. An error is returned only when the context is done or
// the request could not be constructed.
type GalleryFetcherPort interface {
	FetchPage(ctx context.Context, params domain.FetchParams, cursor string) (domain.GalleryPage, error)
}
