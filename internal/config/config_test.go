package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gizietl/internal/dataprocessing"
)

var managedEnv = []string{
	"GIZI_SERVER_PORT", "GIZI_SERVER_READ_TIMEOUT", "GIZI_SERVER_MAX_UPLOAD_BYTES",
	"GIZI_SECURITY_ALLOWED_ORIGINS", "GIZI_SECURITY_ENABLE_CORS", "GIZI_SECURITY_RATE_LIMIT_RPS",
	"GIZI_LOGGING_LEVEL", "GIZI_LOGGING_FORMAT", "GIZI_LOGGING_OUTPUT",
	"GIZI_TELEMETRY_SAMPLE_RATIO",
	"GIZI_ETL_SHEET_NAME", "GIZI_ETL_SKIP_ROWS", "GIZI_ETL_JOIN_MODE", "GIZI_ETL_DEFAULT_YEAR",
	"GIZI_EXPORT_OUTPUT_DIR", "GIZI_EXPORT_BOM",
	"GIZI_CONFIG_FILE",
}

// clearEnv unsets every managed variable and restores them when the test ends
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedEnv {
		if val, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, val) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		fileContent string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env and no file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Server.MaxUploadBytes)
				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, "STATUS GIZI", cfg.ETL.SheetName)
				assert.Equal(t, 1, cfg.ETL.TitleRow)
				assert.Equal(t, 0, cfg.ETL.TitleColumn)
				assert.Equal(t, 5, cfg.ETL.SkipRows)
				assert.Equal(t, 1, cfg.ETL.FooterRows)
				assert.Equal(t, 2025, cfg.ETL.DefaultYear)
				assert.Equal(t, "lenient", cfg.ETL.JoinMode)

				assert.Equal(t, "data/reports", cfg.Export.OutputDir)
				assert.Equal(t, 5, cfg.Export.TopN)
			},
		},
		{
			name: "environment overrides",
			setupEnv: func(t *testing.T) {
				os.Setenv("GIZI_SERVER_PORT", "9090")
				os.Setenv("GIZI_SERVER_READ_TIMEOUT", "45s")
				os.Setenv("GIZI_SECURITY_ALLOWED_ORIGINS", "http://a.test,https://b.test")
				os.Setenv("GIZI_LOGGING_FORMAT", "CONSOLE")
				os.Setenv("GIZI_ETL_JOIN_MODE", "strict")
				os.Setenv("GIZI_ETL_DEFAULT_YEAR", "2026")
				os.Setenv("GIZI_EXPORT_BOM", "true")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://a.test", "https://b.test"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "console", cfg.Logging.Format)
				assert.Equal(t, "strict", cfg.ETL.JoinMode)
				assert.Equal(t, 2026, cfg.ETL.DefaultYear)
				assert.True(t, cfg.Export.BOM)
				// untouched fields keep defaults
				assert.Equal(t, "STATUS GIZI", cfg.ETL.SheetName)
			},
		},
		{
			name: "file values overlay defaults",
			fileContent: `
server:
  port: 7000
etl:
  sheet_name: "STATUS GIZI 2"
  skip_rows: 6
export:
  output_dir: out
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7000, cfg.Server.Port)
				assert.Equal(t, "STATUS GIZI 2", cfg.ETL.SheetName)
				assert.Equal(t, 6, cfg.ETL.SkipRows)
				assert.Equal(t, 1, cfg.ETL.FooterRows)
				assert.Equal(t, "out", cfg.Export.OutputDir)
			},
		},
		{
			name: "environment wins over file",
			setupEnv: func(t *testing.T) {
				os.Setenv("GIZI_SERVER_PORT", "9191")
			},
			fileContent: "server:\n  port: 7000\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9191, cfg.Server.Port)
			},
		},
		{
			name: "invalid port",
			setupEnv: func(t *testing.T) {
				os.Setenv("GIZI_SERVER_PORT", "99999")
			},
			wantErr: "invalid server port",
		},
		{
			name: "unparsable env value",
			setupEnv: func(t *testing.T) {
				os.Setenv("GIZI_ETL_SKIP_ROWS", "five")
			},
			wantErr: "failed to load config from env",
		},
		{
			name: "unknown join mode",
			setupEnv: func(t *testing.T) {
				os.Setenv("GIZI_ETL_JOIN_MODE", "fuzzy")
			},
			wantErr: "unknown join mode",
		},
		{
			name:        "empty sheet name",
			fileContent: "etl:\n  sheet_name: \"\"\n",
			wantErr:     "sheet name is required",
		},
		{
			name: "invalid logging output",
			setupEnv: func(t *testing.T) {
				os.Setenv("GIZI_LOGGING_OUTPUT", "syslog")
			},
			wantErr: "invalid logging output",
		},
		{
			name: "sample ratio out of range",
			setupEnv: func(t *testing.T) {
				os.Setenv("GIZI_TELEMETRY_SAMPLE_RATIO", "1.5")
			},
			wantErr: "sample ratio",
		},
		{
			name:        "malformed yaml",
			fileContent: "server: [",
			wantErr:     "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}

			path := ""
			if tt.fileContent != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.fileContent), 0o644))
			}

			cfg, err := LoadFile(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gizi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export:\n  top_n: 10\n"), 0o644))
	os.Setenv("GIZI_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Export.TopN)
}

func TestETLConfigOptions(t *testing.T) {
	opts, err := Default().ETL.Options()
	require.NoError(t, err)
	assert.Equal(t, dataprocessing.DefaultOptions(), opts)

	etl := Default().ETL
	etl.JoinMode = "strict"
	opts, err = etl.Options()
	require.NoError(t, err)
	assert.Equal(t, dataprocessing.JoinStrict, opts.JoinMode)

	etl.SkipRows = -1
	_, err = etl.Options()
	assert.ErrorIs(t, err, dataprocessing.ErrInvalidOptions)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.validate())
}
