package usecase

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

type UpsertFavoriteUseCase struct {
	repo port.FavoritesRepositoryPort
}

func NewUpsertFavoriteUseCase(repo port.FavoritesRepositoryPort) *UpsertFavoriteUseCase {
	return &UpsertFavoriteUseCase{repo: repo}
}

// Execute stores the item verbatim under its id, overwriting any prior
// record. Unlike toggle, no normalization is applied.
func (uc *UpsertFavoriteUseCase) Execute(ctx context.Context, item domain.Item) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "UpsertFavorite"})

	id := item.ID()
	if id == "" {
		return domain.ErrValidation
	}

	// A write failure keeps the prior file intact thanks to the atomic
	// replace; the operation degrades to a no-op instead of failing the
	// request.
	if err := uc.repo.Put(ctx, id, item); err != nil {
		logger.Error("Failed to persist favorite", err, port.Fields{"item_id": id})
	}
	logger.Info("Favorite upserted", port.Fields{"item_id": id})
	return nil
}
