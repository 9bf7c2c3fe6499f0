package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute directories used by a run
type Paths struct {
	WorkDir    string
	ReportsDir string
	LogsDir    string
	LogFile    string
}

// ResolvePaths makes the configured paths absolute against the working directory
func ResolvePaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return resolvePathsFrom(wd, cfg), nil
}

func resolvePathsFrom(base string, cfg *Config) *Paths {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	p := &Paths{
		WorkDir:    base,
		ReportsDir: abs(cfg.Export.OutputDir),
		LogFile:    abs(cfg.Logging.FilePath),
	}
	if p.LogFile != "" {
		p.LogsDir = filepath.Dir(p.LogFile)
	}
	return p
}

// EnsureDirectories creates the report and log directories if missing
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReportPath returns the path of a report file inside the reports directory
func (p *Paths) ReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// FileExists checks if a regular file exists at path
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LogPathResolution logs the resolved directories at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("work", p.WorkDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.String("log_file", p.LogFile))
}
