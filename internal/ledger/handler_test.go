package ledger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newLedgerRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(newMemoryRepo(), logger, nil)
	_, err := svc.RecordInvoice(context.Background(),
		gstInvoice("INV-020-2024", line("Phone case", 999, 1), line("Charger", 249, 2)))
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Route("/api/ledger", NewHandler(logger, svc).MountRoutes)
	return r
}

func TestHandlerByInvoice(t *testing.T) {
	router := newLedgerRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ledger/invoices/INV-020-2024", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var records []Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ledger/invoices/INV-999-2024", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandlerSummaryRejectsBadDate(t *testing.T) {
	router := newLedgerRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ledger/summary?from=14-03-2024", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ledger/summary?from=2024-03-01&to=2024-03-31", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var sum Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	require.Equal(t, 2, sum.Records)
}

func TestHandlerExports(t *testing.T) {
	router := newLedgerRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ledger/export.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	require.Contains(t, rec.Body.String(), "INV-020-2024")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ledger/export.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	require.True(t, rec.Body.Len() > 0)
}

func TestHandlerListPages(t *testing.T) {
	router := newLedgerRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ledger/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var all []Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 2)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ledger/?page=2&perPage=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var paged struct {
		Records    []Record `json:"records"`
		Pagination struct {
			Page       int `json:"page"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paged))
	require.Len(t, paged.Records, 1)
	require.Equal(t, all[1].ProductName, paged.Records[0].ProductName)
	require.Equal(t, 2, paged.Pagination.Page)
	require.Equal(t, 2, paged.Pagination.TotalPages)
}

func TestHandlerListHugePageValues(t *testing.T) {
	router := newLedgerRouter(t)
	for _, query := range []string{
		"?page=2&perPage=9223372036854775807",
		"?page=922337203685477580&perPage=20",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ledger/"+query, nil))
		require.Equal(t, http.StatusOK, rec.Code, query)
		var paged struct {
			Records []Record `json:"records"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paged), query)
		require.Empty(t, paged.Records, query)
	}
}
