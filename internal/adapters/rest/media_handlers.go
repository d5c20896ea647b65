package rest

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port/usecases_port"
)

const fallbackDownloadName = "video_with_workflow.mp4"

// MediaHandler serves the media probe and download proxy endpoints.
type MediaHandler struct {
	checkUC usecases_port.CheckWorkflowUseCasePort
	media   port.MediaFetcherPort
}

func NewMediaHandler(checkUC usecases_port.CheckWorkflowUseCasePort, media port.MediaFetcherPort) *MediaHandler {
	return &MediaHandler{checkUC: checkUC, media: media}
}

// CheckWorkflow handles POST /media/check_workflow.
func (h *MediaHandler) CheckWorkflow(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CheckWorkflow"})

	doc, err := decodeBody(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	url := domain.StringifyScalar(doc["url"])
	if url == "" {
		RespondWithJSON(w, http.StatusBadRequest, WorkflowCheckResponse{Error: "URL is missing"})
		return
	}

	probe, err := h.checkUC.Execute(r.Context(), url)
	if err != nil {
		logger.Error("Check workflow use case failed", err, port.Fields{"url": url})
		RespondWithJSON(w, http.StatusInternalServerError, WorkflowCheckResponse{Error: err.Error()})
		return
	}

	RespondWithJSON(w, http.StatusOK, WorkflowCheckResponse{
		HasWorkflow: probe.HasWorkflow,
		Error:       probe.Note,
	})
}

// downloadFilename derives the attachment name from the URL's last path
// segment, stripped of any query suffix.
func downloadFilename(url string) string {
	parts := strings.Split(url, "/")
	name := parts[len(parts)-1]
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return fallbackDownloadName
	}
	return name
}

// DownloadMedia handles GET /media/download.
func (h *MediaHandler) DownloadMedia(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DownloadMedia"})

	url := r.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "Missing media URL", http.StatusBadRequest)
		return
	}

	download, err := h.media.Download(r.Context(), url)
	if err != nil {
		logger.Error("Failed to open media download", err, port.Fields{"url": url})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer download.Body.Close()

	if download.StatusCode != http.StatusOK {
		http.Error(w, fmt.Sprintf("Failed to fetch media from source: %s", download.Status), download.StatusCode)
		return
	}

	if download.ContentType != "" {
		w.Header().Set("Content-Type", download.ContentType)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadFilename(url)))

	if _, err := io.Copy(w, download.Body); err != nil {
		// Headers are already out; all we can do is log the broken stream.
		logger.Warn("Media stream interrupted", port.Fields{"url": url, "error": err.Error()})
	}
}
