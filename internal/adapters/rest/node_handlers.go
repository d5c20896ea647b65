package rest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port/usecases_port"
)

// NodeHandler serves the node-graph boundary. The raw request payload is the
// sole cache-invalidation key: its digest becomes the response ETag, and an
// If-None-Match hit short-circuits without recomputing anything.
type NodeHandler struct {
	selectionUC usecases_port.ResolveSelectionUseCasePort
}

func NewNodeHandler(selectionUC usecases_port.ResolveSelectionUseCasePort) *NodeHandler {
	return &NodeHandler{selectionUC: selectionUC}
}

// ResolveSelection handles POST /node/selection.
func (h *NodeHandler) ResolveSelection(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ResolveSelection"})

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	etag := fmt.Sprintf("%q", hex.EncodeToString(sha256sum(body)))
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	// A malformed or empty payload degrades to an empty selection, mirroring
	// the graph node's tolerance for whatever the UI hands it.
	sel := decodeSelection(body)

	result, err := h.selectionUC.Execute(r.Context(), sel)
	if err != nil {
		logger.Error("Resolve selection use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to resolve selection")
		return
	}

	w.Header().Set("ETag", etag)
	RespondWithJSON(w, http.StatusOK, SelectionResponse{
		PositivePrompt: result.PositivePrompt,
		NegativePrompt: result.NegativePrompt,
		ImagePNG:       result.ImagePNG,
		Info:           result.Info,
	})
}

func decodeSelection(body []byte) domain.Selection {
	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return domain.Selection{Item: domain.Item{}}
	}

	item, _ := doc["item"].(map[string]any)
	if item == nil {
		item = map[string]any{}
	}
	download, _ := doc["download_image"].(bool)
	return domain.Selection{Item: domain.Item(item), DownloadImage: download}
}

func sha256sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
