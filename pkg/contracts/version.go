package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application
	Version = "1.0.0"

	// DataFormatVersion is the version of the exported CSV layout. Bump it
	// when a column of the fact, dimension or report tables changes.
	DataFormatVersion = "v1"

	// APIVersion is the version of the HTTP JSON contract
	APIVersion = "v1"
)

var (
	// BuildTime is set during build using ldflags
	BuildTime = ""

	// GitCommit is set during build using ldflags
	GitCommit = ""
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time,omitempty"`
	GitCommit    string `json:"git_commit,omitempty"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	DataFormat   string `json:"data_format"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		DataFormat:   DataFormatVersion,
		APIVersion:   APIVersion,
	}
}

// GetVersionString returns a formatted version string
func GetVersionString() string {
	return fmt.Sprintf("gizi-etl v%s", Version)
}

// GetFullVersionString returns a detailed version string
func GetFullVersionString() string {
	info := GetVersionInfo()
	s := fmt.Sprintf("%s (go: %s, os: %s/%s, data format: %s)",
		GetVersionString(), info.GoVersion, info.OS, info.Architecture, info.DataFormat)
	if info.GitCommit != "" {
		s += " commit " + info.GitCommit
	}
	return s
}
