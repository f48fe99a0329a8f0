package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadTable parses a CSV, TSV or XLSX file. The first row is the header.
func LoadTable(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", "":
		return loadDelimited(path, ',')
	case ".tsv":
		return loadDelimited(path, '\t')
	case ".xlsx":
		return loadExcel(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func loadDelimited(path string, comma rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDelimited(f, comma)
}

// ReadDelimited parses delimited text with a header row. Ragged rows and
// bad quoting are parse errors.
func ReadDelimited(r io.Reader, comma rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.ReuseRecord = false

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) == 0 {
		return nil, ErrEmptyTable
	}

	headers := allRows[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	return NewTable(headers, allRows[1:])
}

// metadataSheets are skipped when picking the data sheet of a workbook.
var metadataSheets = map[string]bool{
	"info":     true,
	"metadata": true,
	"about":    true,
	"readme":   true,
	"notes":    true,
}

func loadExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in Excel file %s", path)
	}

	var sheetName string
	for _, sheet := range sheets {
		if !metadataSheets[strings.ToLower(sheet)] {
			sheetName = sheet
			break
		}
	}
	// If all sheets are metadata, use the last one
	if sheetName == "" {
		sheetName = sheets[len(sheets)-1]
	}

	allRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(allRows) == 0 {
		return nil, ErrEmptyTable
	}

	headers := allRows[0]
	rows := allRows[1:]
	// GetRows drops trailing empty cells, so pad or trim to the header width
	for i, row := range rows {
		if len(row) < len(headers) {
			rows[i] = append(row, make([]string, len(headers)-len(row))...)
		} else if len(row) > len(headers) {
			rows[i] = row[:len(headers)]
		}
	}
	return NewTable(headers, rows)
}
