package usecases_port

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
)

// ListFavoritesUseCasePort returns the full favorites mapping keyed by id.
type ListFavoritesUseCasePort interface {
	Execute(ctx context.Context) (map[string]domain.Item, error)
}
