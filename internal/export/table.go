// Package export serializes normalized invoices, customers and products to
// CSV and XLSX files.
package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"businessathi/internal/csvexport"
	"businessathi/internal/domain"
)

const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Date layouts. Invoice CSV uses dd/MM/yyyy and invoice XLSX dd-MM-yyyy;
// customer and product created dates use dd/MM/yyyy in both formats.
const (
	csvDateLayout  = "02/01/2006"
	xlsxDateLayout = "02-01-2006"
)

type column struct {
	header string
	width  float64
}

// table is a rendered sheet: headers, rows and presentation hints.
type table struct {
	entity  domain.Entity
	base    string
	sheet   string
	columns []column
	rows    [][]string
}

func (t table) headers() []string {
	h := make([]string, len(t.columns))
	for i, c := range t.columns {
		h[i] = c.header
	}
	return h
}

func toCSV(t table, at time.Time) (*domain.ExportFile, error) {
	if len(t.rows) == 0 {
		return nil, &domain.NothingToExportError{Entity: t.entity}
	}
	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	if err := w.WriteAll(t.headers(), t.rows); err != nil {
		return nil, fmt.Errorf("export.toCSV: %w", err)
	}
	return &domain.ExportFile{
		Content:     buf.Bytes(),
		Filename:    csvexport.BuildFilename(t.base, at, "csv"),
		ContentType: ContentTypeCSV,
		Rows:        len(t.rows),
	}, nil
}

func toXLSX(t table, at time.Time) (*domain.ExportFile, error) {
	if len(t.rows) == 0 {
		return nil, &domain.NothingToExportError{Entity: t.entity}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), t.sheet); err != nil {
		return nil, fmt.Errorf("export.toXLSX: renaming sheet: %w", err)
	}

	if err := setRow(f, t.sheet, 1, t.headers()); err != nil {
		return nil, err
	}
	for i, r := range t.rows {
		if err := setRow(f, t.sheet, i+2, r); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("export.toXLSX: header style: %w", err)
	}
	if err := f.SetRowStyle(t.sheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("export.toXLSX: header style: %w", err)
	}

	for i, c := range t.columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("export.toXLSX: %w", err)
		}
		if err := f.SetColWidth(t.sheet, name, name, c.width); err != nil {
			return nil, fmt.Errorf("export.toXLSX: column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export.toXLSX: writing workbook: %w", err)
	}
	return &domain.ExportFile{
		Content:     buf.Bytes(),
		Filename:    csvexport.BuildFilename(t.base, at, "xlsx"),
		ContentType: ContentTypeXLSX,
		Rows:        len(t.rows),
	}, nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export.setRow: %w", err)
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("export.setRow: row %d: %w", row, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
