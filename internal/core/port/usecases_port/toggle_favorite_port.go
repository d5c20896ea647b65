package usecases_port

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
)

// Toggle statuses reported back to the client.
const (
	StatusAdded   = "added"
	StatusRemoved = "removed"
)

// ToggleFavoriteUseCasePort removes the item when it is already favorited,
// otherwise normalizes and adds it.
type ToggleFavoriteUseCasePort interface {
	Execute(ctx context.Context, item domain.Item) (string, error)
}
