package rest

import (
	"errors"
	"net/http"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contracts"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port/usecases_port"
)

// FavoritesHandler serves the favorites surface.
type FavoritesHandler struct {
	listUC    usecases_port.ListFavoritesUseCasePort
	toggleUC  usecases_port.ToggleFavoriteUseCasePort
	upsertUC  usecases_port.UpsertFavoriteUseCasePort
	pageUC    usecases_port.GetFavoritesPageUseCasePort
	setTagsUC usecases_port.UpdateFavoriteTagsUseCasePort
	allTagsUC usecases_port.ListFavoriteTagsUseCasePort
}

func NewFavoritesHandler(
	listUC usecases_port.ListFavoritesUseCasePort,
	toggleUC usecases_port.ToggleFavoriteUseCasePort,
	upsertUC usecases_port.UpsertFavoriteUseCasePort,
	pageUC usecases_port.GetFavoritesPageUseCasePort,
	setTagsUC usecases_port.UpdateFavoriteTagsUseCasePort,
	allTagsUC usecases_port.ListFavoriteTagsUseCasePort,
) *FavoritesHandler {
	return &FavoritesHandler{
		listUC:    listUC,
		toggleUC:  toggleUC,
		upsertUC:  upsertUC,
		pageUC:    pageUC,
		setTagsUC: setTagsUC,
		allTagsUC: allTagsUC,
	}
}

// GetAllFavorites handles GET /favorites.
func (h *FavoritesHandler) GetAllFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetAllFavorites"})

	favorites, err := h.listUC.Execute(r.Context())
	if err != nil {
		logger.Error("List favorites use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve favorites")
		return
	}
	RespondWithJSON(w, http.StatusOK, favorites)
}

// itemFromBody validates a mutation payload against the favorite_item schema
// and extracts the item object.
func itemFromBody(r *http.Request) (domain.Item, error) {
	doc, err := decodeBody(r)
	if err != nil {
		return nil, err
	}
	if err := contracts.Validate("favorite_item", map[string]any(doc)); err != nil {
		return nil, err
	}
	item, _ := doc["item"].(map[string]any)
	return domain.Item(item), nil
}

// ToggleFavorite handles POST /favorites/toggle.
func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ToggleFavorite"})

	item, err := itemFromBody(r)
	if err != nil {
		logger.Warn("Invalid toggle payload", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid item data")
		return
	}

	status, err := h.toggleUC.Execute(r.Context(), item)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			WriteJSONError(w, http.StatusBadRequest, "Invalid item data")
			return
		}
		logger.Error("Toggle favorite use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to toggle favorite")
		return
	}
	RespondWithJSON(w, http.StatusOK, StatusResponse{Status: status})
}

// UpsertFavorite handles POST /favorites/upsert.
func (h *FavoritesHandler) UpsertFavorite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpsertFavorite"})

	item, err := itemFromBody(r)
	if err != nil {
		logger.Warn("Invalid upsert payload", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid item data")
		return
	}

	if err := h.upsertUC.Execute(r.Context(), item); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			WriteJSONError(w, http.StatusBadRequest, "Invalid item data")
			return
		}
		logger.Error("Upsert favorite use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to save favorite")
		return
	}
	RespondWithJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}

// GetFavoritesPage handles GET /favorites/page.
func (h *FavoritesHandler) GetFavoritesPage(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetFavoritesPage"})

	page := clampInt(r.URL.Query().Get("page"), 1, 1_000_000, 1)
	limit := clampInt(r.URL.Query().Get("limit"), 1, 200, 50)

	result, err := h.pageUC.Execute(r.Context(), page, limit)
	if err != nil {
		logger.Error("Get favorites page use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve favorites")
		return
	}

	RespondWithJSON(w, http.StatusOK, FavoritesPageResponse{
		Items: result.Items,
		Metadata: PageMetadata{
			TotalItems:  result.TotalItems,
			CurrentPage: result.CurrentPage,
			PageSize:    result.PageSize,
			TotalPages:  result.TotalPages,
		},
	})
}

// UpdateFavoriteTags handles POST /favorites/tags.
func (h *FavoritesHandler) UpdateFavoriteTags(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateFavoriteTags"})

	doc, err := decodeBody(r)
	if err != nil {
		logger.Warn("Failed to decode tags payload", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := domain.StringifyScalar(doc["id"])
	if id == "" {
		WriteJSONError(w, http.StatusBadRequest, "Missing item id")
		return
	}

	// Non-list tags coerce to an empty list; non-string entries are skipped.
	tags := make([]string, 0)
	if raw, ok := doc["tags"].([]any); ok {
		for _, t := range raw {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
	}

	if err := h.setTagsUC.Execute(r.Context(), id, tags); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Item not in favorites")
			return
		}
		logger.Error("Update favorite tags use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to update tags")
		return
	}
	RespondWithJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}

// GetAllFavoriteTags handles GET /favorites/tags/all.
func (h *FavoritesHandler) GetAllFavoriteTags(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetAllFavoriteTags"})

	tags, err := h.allTagsUC.Execute(r.Context())
	if err != nil {
		logger.Error("List favorite tags use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve tags")
		return
	}
	RespondWithJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}
