package services

import (
	"errors"

	"gizietl/internal/exporter"
)

// ETL service errors
var (
	// ErrNoUpload is returned when a request carries no workbook
	ErrNoUpload = errors.New("no workbook uploaded")

	// ErrUnknownTable is returned for an export of a table that does not exist
	ErrUnknownTable = exporter.ErrUnknownTable

	// ErrInvalidRankMetric is returned for a ranking column outside the supported set
	ErrInvalidRankMetric = errors.New("invalid ranking column")

	// ErrInvalidCategory is returned for an unknown stunting category filter
	ErrInvalidCategory = errors.New("invalid stunting category")

	// ErrRenderFailed is returned when a table cannot be rendered as CSV
	ErrRenderFailed = errors.New("table render failed")
)
