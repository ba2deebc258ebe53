package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type languageActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

func (h *Handlers) ListLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newListResponse(h.Languages.Active(), toLanguageResponse))
}

func (h *Handlers) ReloadLanguages(w http.ResponseWriter, r *http.Request) {
	if err := h.Languages.Load(r.Context()); err != nil {
		h.writeServiceError(w, r, "languages.reload", err)
		return
	}
	active := h.Languages.Active()
	h.logFor(r).Info("languages.reload: snapshot replaced", "count", len(active))
	writeJSON(w, http.StatusOK, newListResponse(active, toLanguageResponse))
}

func (h *Handlers) SetLanguageActive(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var req languageActiveRequest
	if err := decodeJSON(r, &req); err != nil || req.IsActive == nil {
		writeInvalidRequest(w, "isActive is required")
		return
	}

	if err := h.Languages.SetActive(r.Context(), code, *req.IsActive); err != nil {
		h.writeServiceError(w, r, "languages.set_active", err, "code", code)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(h.Languages.Active(), toLanguageResponse))
}
