package usecase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

// workflowProbeBytes bounds the prefix fetched when probing for embedded
// generation data: 4 MiB is enough to cover the metadata atoms of the media
// files the upstream serves.
const workflowProbeBytes = 4 << 20

var workflowMarkers = [][]byte{
	[]byte(`"workflow":`),
	[]byte(`"prompt":`),
}

type CheckWorkflowUseCase struct {
	media port.MediaFetcherPort
}

func NewCheckWorkflowUseCase(media port.MediaFetcherPort) *CheckWorkflowUseCase {
	return &CheckWorkflowUseCase{media: media}
}

func (uc *CheckWorkflowUseCase) Execute(ctx context.Context, url string) (domain.WorkflowProbe, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "CheckWorkflow"})

	prefix, err := uc.media.FetchPrefix(ctx, url, workflowProbeBytes)
	if err != nil {
		logger.Error("Failed to fetch media prefix", err, port.Fields{"url": url})
		return domain.WorkflowProbe{}, err
	}

	// 416 means the file is smaller than the requested range; servers still
	// include the body, so the probe proceeds.
	if prefix.StatusCode >= 400 && prefix.StatusCode != http.StatusRequestedRangeNotSatisfiable {
		return domain.WorkflowProbe{
			Note: fmt.Sprintf("failed to fetch media chunk, status: %d", prefix.StatusCode),
		}, nil
	}

	for _, marker := range workflowMarkers {
		if bytes.Contains(prefix.Body, marker) {
			return domain.WorkflowProbe{HasWorkflow: true}, nil
		}
	}
	return domain.WorkflowProbe{}, nil
}
