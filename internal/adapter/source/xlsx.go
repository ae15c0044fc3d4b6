package source

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/epiwatch/hfmd-dashboard/internal/domain"
)

// ParseXLSX decodes the first sheet of a workbook into a RawTable. The
// first row is the header. Cell values come back as excelize renders them,
// which for the surveillance workbook means plain numerals and dd/mm/yyyy
// date strings.
func ParseXLSX(r io.Reader) (domain.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.RawTable{}, fmt.Errorf("open workbook: no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return domain.RawTable{}, fmt.Errorf("read sheet %q: empty sheet", sheets[0])
	}

	return domain.RawTable{Columns: rows[0], Rows: rows[1:]}, nil
}
