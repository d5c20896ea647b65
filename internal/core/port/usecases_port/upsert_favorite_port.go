package usecases_port

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
)

// UpsertFavoriteUseCasePort unconditionally overwrites the stored record by
// item id.
type UpsertFavoriteUseCasePort interface {
	Execute(ctx context.Context, item domain.Item) error
}
