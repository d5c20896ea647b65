package usecase

import (
	"context"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

type ListFavoriteTagsUseCase struct {
	repo     port.FavoritesRepositoryPort
	collator *collate.Collator
}

func NewListFavoriteTagsUseCase(repo port.FavoritesRepositoryPort) *ListFavoriteTagsUseCase {
	return &ListFavoriteTagsUseCase{
		repo:     repo,
		collator: collate.New(language.Und, collate.IgnoreCase),
	}
}

// Execute collects every tag across favorites, trimmed and deduplicated, in
// case-insensitive sort order.
func (uc *ListFavoriteTagsUseCase) Execute(ctx context.Context) ([]string, error) {
	records, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, rec := range records {
		for _, t := range rec.Tags() {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}

	uc.collator.SortStrings(tags)
	return tags, nil
}
