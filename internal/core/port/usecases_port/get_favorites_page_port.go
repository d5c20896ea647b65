package usecases_port

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
)

// GetFavoritesPageUseCasePort returns one 1-indexed page over the favorites
// store in insertion order.
type GetFavoritesPageUseCasePort interface {
	Execute(ctx context.Context, page, limit int) (domain.FavoritesPage, error)
}
