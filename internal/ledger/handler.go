package ledger

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mobileshop/billing/internal/platform/httpx"
	"github.com/mobileshop/billing/internal/shared"
)

// Handler serves ledger queries and exports.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	r.Get("/invoices/{number}", h.byInvoice)
	r.Get("/export.csv", h.exportCSV)
	r.Get("/export.xlsx", h.exportXLSX)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, ok := h.records(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	if !q.Has("page") && !q.Has("perPage") {
		httpx.JSON(w, http.StatusOK, records)
		return
	}
	page := shared.ParsePagination(q.Get("page"), q.Get("perPage"), len(records))
	start, end := page.Bounds()
	httpx.JSON(w, http.StatusOK, pagedRecords{Records: records[start:end], Pagination: page})
}

type pagedRecords struct {
	Records    []Record          `json:"records"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	sum, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		h.logger.Error("ledger summary failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func (h *Handler) byInvoice(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	records, err := h.service.ListByInvoice(r.Context(), number)
	if err != nil {
		h.logger.Error("ledger lookup failed", slog.String("invoice", number), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []Record{}
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	records, ok := h.records(w, r)
	if !ok {
		return
	}
	httpx.Attachment(w, "text/csv; charset=utf-8", exportName("csv"))
	if err := WriteCSV(w, records); err != nil {
		h.logger.Error("ledger csv export failed", slog.Any("error", err))
	}
}

func (h *Handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	records, ok := h.records(w, r)
	if !ok {
		return
	}
	httpx.Attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", exportName("xlsx"))
	if err := WriteXLSX(w, records); err != nil {
		h.logger.Error("ledger xlsx export failed", slog.Any("error", err))
	}
}

func (h *Handler) records(w http.ResponseWriter, r *http.Request) ([]Record, bool) {
	filter, err := parseFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return nil, false
	}
	records, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("ledger list failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return nil, false
	}
	if records == nil {
		records = []Record{}
	}
	return records, true
}

func parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	return ParseFilter(q.Get("from"), q.Get("to"), q.Get("customer"))
}

func exportName(ext string) string {
	return fmt.Sprintf("gst-ledger-%s.%s", time.Now().Format("20060102"), ext)
}
