package usecases_port

import (
	"context"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
)

// CheckWorkflowUseCasePort probes the leading bytes of a remote media file
// for an embedded workflow/prompt marker.
type CheckWorkflowUseCasePort interface {
	Execute(ctx context.Context, url string) (domain.WorkflowProbe, error)
}
