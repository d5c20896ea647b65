package usecases_port

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
)

// ResolveSelectionUseCasePort turns a selected gallery item into the four
// node-graph outputs: positive prompt, negative prompt, materialized image
// and the remaining metadata as formatted JSON.
type ResolveSelectionUseCasePort interface {
	Execute(ctx context.Context, sel domain.Selection) (domain.SelectionResult, error)
}
