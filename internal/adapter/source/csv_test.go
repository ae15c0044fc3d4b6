package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Date,Southern,Northern,Central,East Coast,Borneo,Temp C,Rain C,RH C
05/01/2020,10,0,0,0,0,28,2,75
20/01/2020,20,0,0,0,0,30,4,85
`

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Southern", "Northern", "Central", "East Coast", "Borneo", "Temp C", "Rain C", "RH C"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "05/01/2020", table.Rows[0][0])
	assert.Equal(t, "10", table.Rows[0][1])
}

func TestParseCSV_StripsBOM(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("\uFEFFDate,Southern\n05/01/2020,1\n"))
	require.NoError(t, err)
	assert.Equal(t, "Date", table.Columns[0])
}

func TestParseCSV_RaggedRows(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("Date,Southern,Northern\n05/01/2020,1\n06/01/2020,1,2,3\n"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Len(t, table.Rows[0], 2)
	assert.Len(t, table.Rows[1], 4)
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty input")
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hfmd.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	table, err := NewFileLoader(path, FormatCSV).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestFileLoader_MissingFile(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.csv"), FormatCSV).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Format
		wantErr  bool
	}{
		{"csv", "csv", FormatCSV, false},
		{"xlsx", "xlsx", FormatXLSX, false},
		{"case and space tolerant", " CSV ", FormatCSV, false},
		{"unsupported", "parquet", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}
