package usecases_port

import "context"

// UpdateFavoriteTagsUseCasePort replaces the tag list of a stored favorite.
// Returns domain.ErrNotFound when the id is not favorited.
type UpdateFavoriteTagsUseCasePort interface {
	Execute(ctx context.Context, id string, tags []string) error
}
