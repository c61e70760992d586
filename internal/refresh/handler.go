package refresh

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mobileshop/billing/internal/platform/httpx"
	"github.com/mobileshop/billing/internal/shared"
)

type observeResponse struct {
	Changed bool       `json:"changed"`
	Updated *time.Time `json:"updated,omitempty"`
}

// Handler lets polling clients ask whether GST data changed since they last
// looked.
type Handler struct {
	logger *slog.Logger
	signal *Signal
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, signal *Signal) *Handler {
	return &Handler{logger: logger, signal: signal}
}

// ServeHTTP answers GET /api/refresh?since=<RFC3339>.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: since must be RFC 3339", shared.ErrValidation))
			return
		}
		since = parsed
	}
	changed, at, err := h.signal.Observe(r.Context(), since)
	if err != nil {
		h.logger.Error("refresh observe failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	resp := observeResponse{Changed: changed}
	if !at.IsZero() {
		resp.Updated = &at
	}
	httpx.JSON(w, http.StatusOK, resp)
}
