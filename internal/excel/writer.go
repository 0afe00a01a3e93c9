package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nandapratama/wablast/internal/core"
)

// ExportFileName is the download name of the rendered workbook.
const ExportFileName = "hasil_template.xlsx"

// ContentType is the MIME type for .xlsx downloads.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportHeader is the fixed 3-column header of the rendered workbook.
var exportHeader = []any{"nama", "template", "copy_template"}

// Column widths chosen for readability: narrow name, wide text columns.
const (
	widthName       = 20
	widthTemplate   = 50
	widthSingleLine = 60
)

// WriteRendered serializes the rendered rows into a workbook, preserving
// input order. An empty input still produces a valid workbook containing
// only the header row.
func WriteRendered(rows []core.ExportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		values := []any{row.Name, row.Full, row.SingleLine}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", widthName); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", widthTemplate); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "C", "C", widthSingleLine); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	return f.WriteToBuffer()
}

// RenderRows produces one ExportRow per name using the compiled template.
func RenderRows(renderer *core.Renderer, names []string) []core.ExportRow {
	rows := make([]core.ExportRow, len(names))
	for i, name := range names {
		msg := renderer.Render(name)
		rows[i] = core.ExportRow{Name: name, Full: msg.Full, SingleLine: msg.SingleLine}
	}
	return rows
}
