// Package importer turns spreadsheet rows into projects.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptySheet is returned when a file has no header row.
	ErrEmptySheet = errors.New("sheet has no header row")
)

// Record is one data row keyed by header name. Line is the 1-based row
// number in the source sheet, header included.
type Record struct {
	Line   int
	Fields map[string]string
}

// Value returns the trimmed cell under header, or "".
func (r Record) Value(header string) string {
	return strings.TrimSpace(r.Fields[header])
}

// Read dispatches on the file extension.
func Read(filename string, r io.Reader) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ReadCSV reads a header row followed by data rows.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return toRecords(rows)
}

// ReadXLSX reads the first sheet of a workbook. Cells are read raw so date
// cells arrive as serial numbers rather than locale-formatted text.
func ReadXLSX(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return toRecords(rows)
}

func toRecords(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		fields := make(map[string]string, len(headers))
		for j, h := range headers {
			if h == "" || j >= len(row) {
				continue
			}
			fields[h] = row[j]
		}
		records = append(records, Record{Line: i + 2, Fields: fields})
	}
	return records, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
