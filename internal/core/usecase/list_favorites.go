package usecase

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

type ListFavoritesUseCase struct {
	repo port.FavoritesRepositoryPort
}

func NewListFavoritesUseCase(repo port.FavoritesRepositoryPort) *ListFavoritesUseCase {
	return &ListFavoritesUseCase{repo: repo}
}

func (uc *ListFavoritesUseCase) Execute(ctx context.Context) (map[string]domain.Item, error) {
	records, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Item, len(records))
	for _, rec := range records {
		out[rec.ID()] = rec
	}
	return out, nil
}
