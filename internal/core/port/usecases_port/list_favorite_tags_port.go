package usecases_port

import "context"

// ListFavoriteTagsUseCasePort returns every tag used across favorites,
// deduplicated and sorted case-insensitively.
type ListFavoriteTagsUseCasePort interface {
	Execute(ctx context.Context) ([]string, error)
}
