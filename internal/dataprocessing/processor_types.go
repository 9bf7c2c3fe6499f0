package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
)

// JoinMode controls what happens to fact rows that find no region dimension entry
type JoinMode string

const (
	// JoinLenient drops unmatched rows, logging and counting each one
	JoinLenient JoinMode = "lenient"
	// JoinStrict fails the run on the first unmatched row
	JoinStrict JoinMode = "strict"
)

// ParseJoinMode converts a configuration string to a JoinMode
func ParseJoinMode(s string) (JoinMode, error) {
	switch JoinMode(s) {
	case JoinLenient, JoinStrict:
		return JoinMode(s), nil
	case "":
		return JoinLenient, nil
	default:
		return "", fmt.Errorf("unknown join mode %q (want %q or %q)", s, JoinLenient, JoinStrict)
	}
}

// Layout constants of the status gizi export
const (
	DefaultSheetName   = "STATUS GIZI"
	DefaultTitleRow    = 1 // 0-based, i.e. the second sheet row
	DefaultTitleColumn = 0
	DefaultSkipRows    = 5
	DefaultFooterRows  = 1
	DefaultYear        = 2025
)

// Options configures the sheet layout and join policy of a Processor
type Options struct {
	// SheetName must match the workbook sheet exactly
	SheetName string

	// TitleRow and TitleColumn locate the title cell, 0-based
	TitleRow    int
	TitleColumn int

	// SkipRows leading rows and FooterRows trailing rows are not data
	SkipRows   int
	FooterRows int

	// DefaultYear is used when the title carries no timestamp
	DefaultYear int

	JoinMode JoinMode
}

// DefaultOptions returns the layout of the standard export
func DefaultOptions() Options {
	return Options{
		SheetName:   DefaultSheetName,
		TitleRow:    DefaultTitleRow,
		TitleColumn: DefaultTitleColumn,
		SkipRows:    DefaultSkipRows,
		FooterRows:  DefaultFooterRows,
		DefaultYear: DefaultYear,
		JoinMode:    JoinLenient,
	}
}

// Validate checks that the options describe a readable layout
func (o Options) Validate() error {
	if o.SheetName == "" {
		return fmt.Errorf("%w: sheet name is required", ErrInvalidOptions)
	}
	if o.TitleRow < 0 || o.TitleColumn < 0 {
		return fmt.Errorf("%w: title cell position must not be negative", ErrInvalidOptions)
	}
	if o.SkipRows < 0 || o.FooterRows < 0 {
		return fmt.Errorf("%w: skip and footer rows must not be negative", ErrInvalidOptions)
	}
	if _, err := ParseJoinMode(string(o.JoinMode)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// discardLogger returns a logger that drops everything
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
