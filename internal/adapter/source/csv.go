package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/epiwatch/hfmd-dashboard/internal/domain"
)

// ParseCSV decodes a CSV stream into a RawTable. The first record is the
// header; ragged rows are tolerated because the normalizer treats absent
// cells as missing values.
func ParseCSV(r io.Reader) (domain.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return domain.RawTable{}, fmt.Errorf("read csv: empty input")
	}

	header := records[0]
	if len(header) > 0 {
		// Strip a UTF-8 BOM some spreadsheet exports prepend.
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	return domain.RawTable{Columns: header, Rows: records[1:]}, nil
}

// FileLoader reads a dataset from the local filesystem.
type FileLoader struct {
	path   string
	format Format
}

// NewFileLoader creates a loader for a local dataset file.
func NewFileLoader(path string, format Format) *FileLoader {
	return &FileLoader{path: path, format: format}
}

func (l *FileLoader) Load(_ context.Context) (domain.RawTable, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	table, err := Parse(f, l.format)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse %s: %w", l.path, err)
	}
	return table, nil
}
