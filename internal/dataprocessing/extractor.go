package dataprocessing

import (
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gizietl/pkg/contracts/domain"
)

// Extraction is the raw content of the status gizi sheet
type Extraction struct {
	SheetName string
	Title     string
	Rows      []domain.RawRow

	// SheetRows is the number of rows excelize reported for the sheet
	SheetRows int
	// BlankRows counts data-block rows skipped because every cell was empty
	BlankRows int
	Padded    int
	Truncated int
	// MaxWidth is the widest data row seen before reconciliation
	MaxWidth int
}

// OpenWorkbook reads an XLSX workbook from r
func OpenWorkbook(r io.Reader) (*excelize.File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, newETLError(StageOpen, err, "failed to open workbook")
	}
	return f, nil
}

// FindSheet returns the sheet whose name equals name exactly
func FindSheet(f *excelize.File, name string) (string, error) {
	for _, sheet := range f.GetSheetList() {
		if sheet == name {
			return sheet, nil
		}
	}
	return "", newETLError(StageExtract, ErrSheetNotFound, "sheet %q not found (available: %s)",
		name, strings.Join(f.GetSheetList(), ", "))
}

// PadOrTruncateColumns returns a copy of row with exactly n cells: short rows
// are padded with empty cells and long rows lose their trailing cells.
func PadOrTruncateColumns(row []string, n int) []string {
	out := make([]string, n)
	copy(out, row)
	return out
}

// ExtractSheet reads the title cell and the data block of the configured sheet.
// A title cell holding an Excel date is rendered as "YYYY-MM-DD HH:MM:SS";
// data cells are read raw so numbers keep full precision.
func ExtractSheet(f *excelize.File, opts Options, logger *slog.Logger) (*Extraction, error) {
	if logger == nil {
		logger = discardLogger()
	}

	sheet, err := FindSheet(f, opts.SheetName)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, newETLError(StageExtract, err, "failed to read rows of sheet %q", sheet)
	}

	ext := &Extraction{SheetName: sheet, SheetRows: len(rows)}

	if len(rows) < opts.TitleRow+1 {
		return nil, newETLError(StageHeader, ErrTitleRowMissing,
			"sheet %q has %d rows, title expected on row %d", sheet, len(rows), opts.TitleRow+1)
	}

	cell, err := excelize.CoordinatesToCellName(opts.TitleColumn+1, opts.TitleRow+1)
	if err != nil {
		return nil, newETLError(StageHeader, err, "invalid title cell position")
	}
	title, err := readTitleCell(f, sheet, cell)
	if err != nil {
		return nil, newETLError(StageHeader, err, "failed to read title cell %s", cell)
	}
	ext.Title = title

	ext.Rows = readRawRows(rows, opts, ext)

	logger.Info("Sheet extracted",
		slog.String("sheet", sheet),
		slog.Int("sheet_rows", ext.SheetRows),
		slog.Int("data_rows", len(ext.Rows)),
		slog.Int("blank_rows", ext.BlankRows))

	switch {
	case ext.MaxWidth > domain.SourceColumnCount:
		logger.Warn("Data rows wider than expected, extra columns dropped",
			slog.Int("expected", domain.SourceColumnCount),
			slog.Int("observed", ext.MaxWidth),
			slog.Int("rows_truncated", ext.Truncated))
	case len(ext.Rows) > 0 && ext.MaxWidth < domain.SourceColumnCount:
		logger.Warn("Data rows narrower than expected, missing columns left empty",
			slog.Int("expected", domain.SourceColumnCount),
			slog.Int("observed", ext.MaxWidth),
			slog.Int("rows_padded", ext.Padded),
			slog.String("missing_columns", strings.Join(domain.SourceColumnNames()[ext.MaxWidth:], ", ")))
	}

	return ext, nil
}

// titleTimeLayout is how a date-typed title cell is rendered for parsing
const titleTimeLayout = "2006-01-02 15:04:05"

// readTitleCell returns the title text. Date cells, either typed as dates or
// numeric with a date number format, are converted from their serial value
// instead of the display format, which rarely matches the title pattern.
func readTitleCell(f *excelize.File, sheet, cell string) (string, error) {
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return "", err
	}

	switch typ {
	case excelize.CellTypeDate, excelize.CellTypeNumber, excelize.CellTypeUnset:
		raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
		if err != nil {
			return "", err
		}
		if typ == excelize.CellTypeDate {
			if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
				return t.Format(titleTimeLayout), nil
			}
		}
		if typ == excelize.CellTypeDate || isDateStyled(f, sheet, cell) {
			if serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				t, err := excelize.ExcelDateToTime(serial, uses1904(f))
				if err == nil {
					return t.Round(time.Second).Format(titleTimeLayout), nil
				}
			}
		}
	}
	return f.GetCellValue(sheet, cell)
}

// isDateStyled reports whether the cell's number format displays a date or time
func isDateStyled(f *excelize.File, sheet, cell string) bool {
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	switch n := style.NumFmt; {
	case n >= 14 && n <= 22, n >= 45 && n <= 47:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format has date or time
// tokens outside quoted literals and bracketed sections
func isDateFormatCode(code string) bool {
	var quoted, bracket bool
	for _, r := range code {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		case strings.ContainsRune("yYmMdDhHsS", r):
			return true
		}
	}
	return false
}

func uses1904(f *excelize.File) bool {
	props, err := f.GetWorkbookProps()
	return err == nil && props.Date1904 != nil && *props.Date1904
}

// readRawRows slices the data block out of the sheet rows, skipping blank
// rows and reconciling each remaining row to the fixed source width.
func readRawRows(rows [][]string, opts Options, ext *Extraction) []domain.RawRow {
	end := len(rows) - opts.FooterRows
	if opts.SkipRows >= end {
		return []domain.RawRow{}
	}

	out := make([]domain.RawRow, 0, end-opts.SkipRows)
	for i := opts.SkipRows; i < end; i++ {
		row := rows[i]
		if isBlankRow(row) {
			ext.BlankRows++
			continue
		}

		if len(row) > ext.MaxWidth {
			ext.MaxWidth = len(row)
		}
		switch {
		case len(row) < domain.SourceColumnCount:
			ext.Padded++
		case len(row) > domain.SourceColumnCount:
			ext.Truncated++
		}

		cells := PadOrTruncateColumns(row, domain.SourceColumnCount)
		raw := domain.RawRow{
			Line:      i + 1,
			No:        cells[domain.ColumnNo],
			Puskesmas: cells[domain.ColumnPuskesmas],
			Kecamatan: cells[domain.ColumnKecamatan],
		}
		copy(raw.Cells[:], cells[domain.FirstCountColumn:])
		out = append(out, raw)
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
