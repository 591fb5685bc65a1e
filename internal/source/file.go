package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/heat-stress-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

// File reads a cached local dataset, either CSV (with encoding fallback) or
// a spreadsheet-origin XLSX.
type File struct {
	path string
}

// NewFile creates a local file source.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string { return "file:" + f.path }

// Fetch reads and parses the file. A missing file is a defined failure that
// moves the resolver on to the next candidate.
func (f *File) Fetch(_ context.Context) (domain.RawTable, error) {
	if strings.EqualFold(filepath.Ext(f.path), ".xlsx") {
		return f.fetchXLSX()
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read %s: %w", f.path, err)
	}
	return parseCSVTable(f.Name(), data)
}

// fetchXLSX reads the first sheet of a spreadsheet, first row as header.
// XLSX cell values arrive already decoded, so the encoding fallback does not
// apply here.
func (f *File) fetchXLSX() (domain.RawTable, error) {
	wb, err := excelize.OpenFile(f.path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return domain.RawTable{}, fmt.Errorf("%s: workbook has no sheets", f.path)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return domain.RawTable{Source: f.Name()}, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	return domain.RawTable{
		Source:  f.Name(),
		Columns: header,
		Rows:    rows[1:],
	}, nil
}
