package dataprocessing

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step an error came from
type Stage string

const (
	StageOpen      Stage = "open"
	StageExtract   Stage = "extract"
	StageHeader    Stage = "header"
	StageTransform Stage = "transform"
	StageJoin      Stage = "join"
	StageFinalize  Stage = "finalize"
)

var (
	// ErrSheetNotFound is returned when no sheet carries the configured name
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrTitleRowMissing is returned when the sheet ends before the title row
	ErrTitleRowMissing = errors.New("title row missing")

	// ErrUnmatchedRegion is returned by a strict join when a fact row has no region entry
	ErrUnmatchedRegion = errors.New("fact row has no matching region")

	// ErrNonFiniteValue is returned when a fact value is NaN or infinite
	ErrNonFiniteValue = errors.New("non-finite value in fact table")

	// ErrInvalidOptions is returned for unusable processor options
	ErrInvalidOptions = errors.New("invalid processor options")
)

// ETLError is a stage-tagged pipeline failure
type ETLError struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *ETLError) Error() string {
	if e == nil {
		return "unknown etl error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

// Unwrap returns the underlying error
func (e *ETLError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newETLError(stage Stage, cause error, format string, args ...any) *ETLError {
	return &ETLError{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// StageOf returns the stage of an ETLError anywhere in err's chain
func StageOf(err error) (Stage, bool) {
	var etlErr *ETLError
	if errors.As(err, &etlErr) {
		return etlErr.Stage, true
	}
	return "", false
}
