package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// StatusGiziSheet is the sheet name of the district export
const StatusGiziSheet = "STATUS GIZI"

// DefaultTitle carries the 2025-03-15 08:30 report timestamp
const DefaultTitle = "LAPORAN STATUS GIZI BALITA PER 2025-03-15 08:30:00"

// Workbook describes a status gizi workbook to build in memory. Data rows
// start on sheet row 6; an empty row slice leaves that sheet row blank.
type Workbook struct {
	Sheet string
	// Title is written as-is, so a time.Time gives a date-typed title cell
	Title  any
	Rows   [][]any
	Footer bool
}

// NewWorkbook returns a workbook with the standard sheet name, title and footer
func NewWorkbook(rows ...[]any) Workbook {
	return Workbook{Sheet: StatusGiziSheet, Title: DefaultTitle, Rows: rows, Footer: true}
}

// Build writes the workbook as XLSX: a banner, the title, three header rows,
// the data rows and a total row.
func (w Workbook) Build(t *testing.T) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", w.Sheet))
	require.NoError(t, f.SetCellValue(w.Sheet, "A1", "DINAS KESEHATAN KABUPATEN KUNINGAN"))
	if w.Title != nil && w.Title != "" {
		require.NoError(t, f.SetCellValue(w.Sheet, "A2", w.Title))
	}
	require.NoError(t, f.SetCellValue(w.Sheet, "A3", "No"))
	require.NoError(t, f.SetCellValue(w.Sheet, "B3", "Puskesmas"))
	require.NoError(t, f.SetCellValue(w.Sheet, "C3", "KECMATAN"))
	require.NoError(t, f.SetCellValue(w.Sheet, "D4", "BB/U"))
	require.NoError(t, f.SetCellValue(w.Sheet, "D5", "Sangat Kurang"))

	for i, row := range w.Rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, 6+i)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(w.Sheet, cell, &r))
	}

	if w.Footer {
		cell, err := excelize.CoordinatesToCellName(1, 6+len(w.Rows))
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(w.Sheet, cell, "JUMLAH"))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

// Save writes the workbook into dir and returns its path
func (w Workbook) Save(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, w.Build(t).Bytes(), 0o644))
	return path
}

// DataRow builds a 20-column row from the number, facility, region and up
// to 17 counts. Missing counts are filled with 0.
func DataRow(no int, puskesmas, kecamatan string, counts ...any) []any {
	row := []any{no, puskesmas, kecamatan}
	row = append(row, counts...)
	for len(row) < 20 {
		row = append(row, 0)
	}
	return row
}

// CigugurRow has 100 children weighed: 10 underweight, 15 stunted, 5 wasted
func CigugurRow() []any {
	return DataRow(1, "1. PKM Cigugur ", "CIGUGUR",
		2, 8, 80, 5, 5,
		5, 10, 80, 3, 2,
		1, 4, 85, 5, 3, 1, 1)
}

// KuninganRow weighs nobody and carries one non-numeric count
func KuninganRow() []any {
	return DataRow(2, "2. pkm kuningan", "KUNINGAN",
		0, 0, 0, 0, 0,
		"abc", 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0)
}

// DarmaRow has 50 children weighed: 5 underweight, 12 stunted, 2 wasted
func DarmaRow() []any {
	return DataRow(3, "3. PKM Darma", "DARMA",
		1, 4, 40, 3, 2,
		4, 8, 36, 1, 1,
		0, 2, 44, 2, 1, 1, 0)
}
