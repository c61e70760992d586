package invoices

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mobileshop/billing/internal/platform/httpx"
	"github.com/mobileshop/billing/internal/shared"
)

// Handler exposes invoices over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.save)
	r.Post("/number", h.nextNumber)
	r.Post("/number/reset", h.resetNumber)
	r.Get("/{number}", h.show)
	r.Get("/{number}/print", h.print)
	r.Delete("/{number}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list invoices failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if invoices == nil {
		invoices = []Invoice{}
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var inv Invoice
	if err := httpx.DecodeJSON(r, &inv); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	result, err := h.service.Save(r.Context(), inv)
	if err != nil {
		h.logger.Error("save invoice failed", slog.String("invoice", inv.Number), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	inv, err := h.service.Get(r.Context(), number)
	if err != nil {
		h.logger.Warn("get invoice failed", slog.String("invoice", number), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) print(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	view, err := h.service.PrintView(r.Context(), number)
	if err != nil {
		h.logger.Warn("print view failed", slog.String("invoice", number), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if err := h.service.Delete(r.Context(), number); err != nil {
		h.logger.Error("delete invoice failed", slog.String("invoice", number), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) nextNumber(w http.ResponseWriter, r *http.Request) {
	number, err := h.service.NextNumber(r.Context())
	if err != nil {
		h.logger.Error("next invoice number failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"invoiceNumber": number})
}

func (h *Handler) resetNumber(w http.ResponseWriter, r *http.Request) {
	number, err := h.service.ResetNumber(r.Context())
	if err != nil {
		h.logger.Error("reset invoice number failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"invoiceNumber": number})
}
