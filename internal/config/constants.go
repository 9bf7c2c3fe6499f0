package config

import (
	"time"

	"gizietl/pkg/contracts"
)

// Application constants
const (
	AppName    = "gizi-etl"
	AppVersion = contracts.Version

	// File paths, relative to the working directory
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "logs/app.log"

	// DefaultInputFile is what the processor reads when --in is not given
	DefaultInputFile = "raw_status_gizi.xlsx"

	// Upload and request limits
	DefaultMaxUploadBytes = 20 << 20 // 20MB
	DefaultETLTimeout     = 2 * time.Minute

	// Rankings
	DefaultTopN = 5
	MinTopN     = 5
	MaxTopN     = 32
)
