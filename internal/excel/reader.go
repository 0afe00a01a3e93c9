// Package excel reads recipient rosters from uploaded workbooks and writes
// rendered mail-merge output back out, using the first sheet in both
// directions.
package excel

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nandapratama/wablast/internal/core"
)

// ColumnMap says which cell index holds which recipient field, so a layout
// change in the uploaded file is a configuration edit rather than a code
// change.
type ColumnMap struct {
	Name  int
	Phone int
}

// DefaultColumnMap matches the documented upload layout: name in the first
// column, phone in the second.
func DefaultColumnMap() ColumnMap {
	return ColumnMap{Name: 0, Phone: 1}
}

// ReadRecipients extracts name+phone entries from the first sheet of the
// workbook in r. The header row is discarded. Rows whose name cell is blank
// after trimming are dropped entirely; a blank phone is preserved as an
// empty string. Output order matches the input rows.
func ReadRecipients(r io.Reader, m ColumnMap) ([]core.Entry, error) {
	rows, err := dataRows(r)
	if err != nil {
		return nil, err
	}

	entries := make([]core.Entry, 0, len(rows))
	for _, row := range rows {
		name := cell(row, m.Name)
		if name == "" {
			continue
		}
		entries = append(entries, core.Entry{Name: name, Phone: cell(row, m.Phone)})
	}
	return entries, nil
}

// ReadNames extracts only the name column, dropping blank rows. This is the
// name-only extraction mode used by the stateless generate flow.
func ReadNames(r io.Reader, m ColumnMap) ([]string, error) {
	rows, err := dataRows(r)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := cell(row, m.Name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// dataRows opens the workbook and returns the first sheet's rows without
// the header. A payload that is not a workbook at all fails with a
// ParseError; individually short rows are the caller's concern.
func dataRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &core.ParseError{Message: "not a readable workbook", Err: err}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, &core.ParseError{Message: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &core.ParseError{Message: "could not read sheet rows", Err: err}
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

// cell returns the trimmed value at idx, or "" when the row is too short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
