// Package source loads raw tabular HFMD datasets from files and URLs in the
// formats the dataset circulates in (CSV export and the original
// spreadsheet). Loaders hand the pipeline an uninterpreted domain.RawTable;
// all validation happens downstream in the normalizer.
package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/epiwatch/hfmd-dashboard/internal/domain"
)

// Format identifies a supported dataset encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format string from configuration or a filename
// extension.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported dataset format %q (want csv or xlsx)", s)
	}
}

// Loader supplies raw tabular input to the pipeline.
type Loader interface {
	Load(ctx context.Context) (domain.RawTable, error)
}

// Parse decodes a dataset stream in the given format.
func Parse(r io.Reader, format Format) (domain.RawTable, error) {
	switch format {
	case FormatXLSX:
		return ParseXLSX(r)
	default:
		return ParseCSV(r)
	}
}
