package usecase

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

type GetFavoritesPageUseCase struct {
	repo port.FavoritesRepositoryPort
}

func NewGetFavoritesPageUseCase(repo port.FavoritesRepositoryPort) *GetFavoritesPageUseCase {
	return &GetFavoritesPageUseCase{repo: repo}
}

// Execute slices the insertion-ordered favorites list. page and limit arrive
// already clamped by the handler.
func (uc *GetFavoritesPageUseCase) Execute(ctx context.Context, page, limit int) (domain.FavoritesPage, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetFavoritesPage",
		"page":     page,
		"limit":    limit,
	})

	records, err := uc.repo.List(ctx)
	if err != nil {
		logger.Error("Repository returned an error", err, nil)
		return domain.FavoritesPage{}, err
	}

	total := len(records)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return domain.FavoritesPage{
		Items:       records[start:end],
		TotalItems:  total,
		CurrentPage: page,
		PageSize:    limit,
		TotalPages:  (total + limit - 1) / limit,
	}, nil
}
