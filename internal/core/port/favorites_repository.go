package port

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
)

// FavoritesRepositoryPort is the durable mapping from item id to saved item.
// List preserves insertion order. SetTags fails with domain.ErrNotFound when
// the id is absent.
type FavoritesRepositoryPort interface {
	Get(ctx context.Context, id string) (domain.Item, bool, error)
	List(ctx context.Context) ([]domain.Item, error)
	Put(ctx context.Context, id string, record domain.Item) error
	Delete(ctx context.Context, id string) error
	SetTags(ctx context.Context, id string, tags []string) error
}
