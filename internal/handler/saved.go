package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/toolscope/internal/model"
	"github.com/sakif/toolscope/internal/service"
)

// SavedHandler serves the user's saved tools.
type SavedHandler struct {
	saved  *service.SavedService
	logger *slog.Logger
	now    func() time.Time
}

// NewSavedHandler creates a new SavedHandler.
func NewSavedHandler(saved *service.SavedService, logger *slog.Logger) *SavedHandler {
	return &SavedHandler{saved: saved, logger: logger, now: time.Now}
}

type savedListResponse struct {
	Tools []model.Tool `json:"tools"`
	Count int          `json:"count"`
}

// HandleList returns the saved tools that still exist.
//
// HTTP: GET /api/saved
func (h *SavedHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tools, err := h.saved.SavedTools(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, savedListResponse{Tools: tools, Count: len(tools)})
}

// HandleToggle flips one tool in or out of the saved set.
//
// HTTP: POST /api/saved/{id}/toggle
func (h *SavedHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	result, err := h.saved.Toggle(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleClear empties the saved set.
//
// HTTP: DELETE /api/saved
func (h *SavedHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.saved.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport downloads the saved tools as a JSON file.
//
// HTTP: GET /api/saved/export
func (h *SavedHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.saved.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, service.ExportFilename(h.now())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write export", slog.String("error", err.Error()))
	}
}
