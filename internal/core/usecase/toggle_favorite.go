package usecase

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port/usecases_port"
)

type ToggleFavoriteUseCase struct {
	repo port.FavoritesRepositoryPort
}

func NewToggleFavoriteUseCase(repo port.FavoritesRepositoryPort) *ToggleFavoriteUseCase {
	return &ToggleFavoriteUseCase{repo: repo}
}

func (uc *ToggleFavoriteUseCase) Execute(ctx context.Context, item domain.Item) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ToggleFavorite"})

	id := item.ID()
	if id == "" {
		return "", domain.ErrValidation
	}
	ucLogger := logger.WithFields(port.Fields{"item_id": id})

	_, found, err := uc.repo.Get(ctx, id)
	if err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return "", err
	}

	if found {
		// A write failure keeps the prior file intact thanks to the atomic
		// replace, so the operation degrades to a no-op instead of failing
		// the request.
		if err := uc.repo.Delete(ctx, id); err != nil {
			ucLogger.Error("Failed to persist favorite removal", err, nil)
		}
		ucLogger.Info("Favorite removed", nil)
		return usecases_port.StatusRemoved, nil
	}

	if err := uc.repo.Put(ctx, id, domain.NormalizeFavorite(item)); err != nil {
		ucLogger.Error("Failed to persist favorite", err, nil)
	}
	ucLogger.Info("Favorite added", nil)
	return usecases_port.StatusAdded, nil
}
