package ledger

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName   = "GST Ledger"
	dateLayout  = "2006-01-02"
	exportScale = 2
)

var exportHeader = []string{
	"Date", "Invoice", "Customer", "GSTIN", "Product", "Price", "Qty",
	"Taxable", "Rate %", "CGST", "SGST", "Total",
}

func exportRow(r Record) []string {
	return []string{
		r.Date.Format(dateLayout),
		r.InvoiceNumber,
		r.CustomerName,
		r.CustomerGSTIN,
		r.ProductName,
		r.Price.StringFixed(exportScale),
		strconv.Itoa(r.Quantity),
		r.Subtotal.StringFixed(exportScale),
		strconv.Itoa(r.TaxRate),
		r.CGST.StringFixed(exportScale),
		r.SGST.StringFixed(exportScale),
		r.Total.StringFixed(exportScale),
	}
}

// WriteCSV streams records as CSV, followed by a totals row.
func WriteCSV(w io.Writer, records []Record) error {
	buf := bufio.NewWriter(w)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write(exportRow(r)); err != nil {
			return err
		}
	}
	sum := Summarize(records)
	totals := []string{"", "", "", "", "TOTAL", "", "",
		sum.Taxable.StringFixed(exportScale), "",
		sum.CGST.StringFixed(exportScale),
		sum.SGST.StringFixed(exportScale),
		sum.Total.StringFixed(exportScale),
	}
	if err := writer.Write(totals); err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return buf.Flush()
}

// WriteXLSX renders records into a single-sheet workbook.
func WriteXLSX(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("ledger: xlsx sheet: %w", err)
	}
	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("ledger: xlsx header: %w", err)
	}
	for i, r := range records {
		row := []interface{}{
			r.Date.Format(dateLayout),
			r.InvoiceNumber,
			r.CustomerName,
			r.CustomerGSTIN,
			r.ProductName,
			r.Price.Round(exportScale).InexactFloat64(),
			r.Quantity,
			r.Subtotal.Round(exportScale).InexactFloat64(),
			r.TaxRate,
			r.CGST.Round(exportScale).InexactFloat64(),
			r.SGST.Round(exportScale).InexactFloat64(),
			r.Total.Round(exportScale).InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("ledger: xlsx row %d: %w", i+2, err)
		}
	}
	sum := Summarize(records)
	totalRow := len(records) + 2
	cell, err := excelize.CoordinatesToCellName(5, totalRow)
	if err != nil {
		return err
	}
	totals := []interface{}{"TOTAL", nil, nil,
		sum.Taxable.Round(exportScale).InexactFloat64(), nil,
		sum.CGST.Round(exportScale).InexactFloat64(),
		sum.SGST.Round(exportScale).InexactFloat64(),
		sum.Total.Round(exportScale).InexactFloat64(),
	}
	if err := f.SetSheetRow(sheetName, cell, &totals); err != nil {
		return fmt.Errorf("ledger: xlsx totals: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("ledger: xlsx panes: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("ledger: write xlsx: %w", err)
	}
	return nil
}
