package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecords(t *testing.T) []Record {
	t.Helper()
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	_, err := svc.RecordInvoice(context.Background(),
		gstInvoice("INV-010-2024", line("Phone case", 999, 1), line("Charger", 249, 2)))
	require.NoError(t, err)
	return repo.records
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, exportHeader, rows[0])
	require.Equal(t, "INV-010-2024", rows[1][1])
	require.Equal(t, "76.19", rows[1][9])
	require.Equal(t, "TOTAL", rows[3][4])
	require.Equal(t, "1497.00", rows[3][11])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRecords(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "Invoice", rows[0][1])
	require.Equal(t, "Charger", rows[2][4])
	require.Equal(t, "TOTAL", rows[3][4])
	require.Equal(t, "1497", rows[3][11])
}
