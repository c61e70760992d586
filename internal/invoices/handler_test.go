package invoices

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/mobileshop/billing/internal/ledger"
)

func newInvoiceRouter(t *testing.T) (http.Handler, *memoryRepo, *ledgerRepo) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemoryRepo()
	lrepo := &ledgerRepo{failProducts: map[string]bool{}}
	svc := NewService(repo, ServiceDeps{
		Ledger: ledger.NewService(lrepo, logger, nil),
		Now:    func() time.Time { return time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC) },
	}, logger)
	r := chi.NewRouter()
	r.Route("/api/invoices", NewHandler(logger, svc).MountRoutes)
	return r, repo, lrepo
}

const savePayload = `{
	"invoiceNumber": "INV-007-2024",
	"customer": {"name": "Asha Traders", "phone": "9800000000"},
	"items": [
		{"id": 1, "name": "Phone case", "price": "999", "quantity": 1},
		{"id": "manual-4f0c", "name": "Fitting", "price": "249", "quantity": 2}
	],
	"discount": "10",
	"isGstInvoice": true,
	"tax": "0.18"
}`

func TestHandlerSaveAndPrint(t *testing.T) {
	router, repo, lrepo := newInvoiceRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(savePayload)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result SaveResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, "1347.3", result.Invoice.GrandTotal.String())
	require.Len(t, result.Ledger.Written, 2)
	require.Contains(t, repo.invoices, "INV-007-2024")
	require.Len(t, lrepo.records, 2)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoices/INV-007-2024/print", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var view PrintView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "Invoice Generator", view.ShopName)
	require.True(t, view.Invoice.Items[1].Ref.IsManual())
}

func TestHandlerErrors(t *testing.T) {
	router, _, _ := newInvoiceRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoices/INV-404-2024/print", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(`{"invoiceNumber":"INV-1-2024","items":[]}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/invoices/number", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerSaveWithoutTaxUsesDefaultRate(t *testing.T) {
	router, repo, _ := newInvoiceRouter(t)
	payload := strings.Replace(savePayload, `,
	"tax": "0.18"`, "", 1)
	require.NotContains(t, payload, `"tax"`)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(payload)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result SaveResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, "228.36", result.Invoice.TaxAmount.StringFixed(2))
	require.Equal(t, "1268.64", result.Invoice.SubtotalExclTax.StringFixed(2))
	require.Equal(t, "228.36", repo.invoices["INV-007-2024"].TaxAmount.StringFixed(2))
}

func TestHandlerRejectsItemWithoutID(t *testing.T) {
	router, repo, _ := newInvoiceRouter(t)
	payload := strings.Replace(savePayload, `"id": 1, `, "", 1)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(payload)))
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	require.Empty(t, repo.invoices)
}
