package settings

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mobileshop/billing/internal/platform/httpx"
	"github.com/mobileshop/billing/internal/shared"
)

// Handler exposes settings over JSON.
type Handler struct {
	logger *slog.Logger
	store  *Store
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, store *Store) *Handler {
	return &Handler{logger: logger, store: store}
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Put("/", h.update)
	r.Put("/paths", h.updatePaths)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.store.Current())
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var next Settings
	if err := httpx.DecodeJSON(r, &next); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	saved, err := h.store.Save(r.Context(), next)
	if err != nil {
		h.logger.Error("save settings failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}

func (h *Handler) updatePaths(w http.ResponseWriter, r *http.Request) {
	var paths InvoicePaths
	if err := httpx.DecodeJSON(r, &paths); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	saved, err := h.store.SavePaths(r.Context(), paths)
	if err != nil {
		h.logger.Error("save invoice paths failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}
