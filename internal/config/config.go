package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"gizietl/internal/dataprocessing"
)

// EnvPrefix namespaces every environment variable, e.g. GIZI_SERVER_PORT
const EnvPrefix = "GIZI"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	ETL       ETLConfig       `yaml:"etl" envconfig:"ETL"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	// MaxUploadBytes caps the size of an uploaded workbook
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	// ETLTimeout bounds a single ETL request
	ETLTimeout time.Duration `yaml:"etl_timeout" envconfig:"ETL_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LEVEL"`
	// Format is "json" or "console" (colored, human readable)
	Format string `yaml:"format" envconfig:"FORMAT"`
	// Output is "console", "file" or "both"
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`   // stdout, none
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"` // prometheus, none
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// ETLConfig describes the layout of the status gizi workbook
type ETLConfig struct {
	SheetName   string `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	TitleRow    int    `yaml:"title_row" envconfig:"TITLE_ROW"`
	TitleColumn int    `yaml:"title_column" envconfig:"TITLE_COLUMN"`
	SkipRows    int    `yaml:"skip_rows" envconfig:"SKIP_ROWS"`
	FooterRows  int    `yaml:"footer_rows" envconfig:"FOOTER_ROWS"`
	DefaultYear int    `yaml:"default_year" envconfig:"DEFAULT_YEAR"`
	// JoinMode is "lenient" (drop unmatched rows) or "strict" (fail)
	JoinMode string `yaml:"join_mode" envconfig:"JOIN_MODE"`
}

// ExportConfig controls CSV output
type ExportConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	// BOM prefixes files with a UTF-8 byte order mark for spreadsheet tools
	BOM bool `yaml:"bom" envconfig:"BOM"`
	// TopN is the number of regions shown in rankings
	TopN int `yaml:"top_n" envconfig:"TOP_N"`
}

// Options converts the ETL section to processor options
func (c ETLConfig) Options() (dataprocessing.Options, error) {
	mode, err := dataprocessing.ParseJoinMode(c.JoinMode)
	if err != nil {
		return dataprocessing.Options{}, err
	}
	opts := dataprocessing.Options{
		SheetName:   c.SheetName,
		TitleRow:    c.TitleRow,
		TitleColumn: c.TitleColumn,
		SkipRows:    c.SkipRows,
		FooterRows:  c.FooterRows,
		DefaultYear: c.DefaultYear,
		JoinMode:    mode,
	}
	return opts, opts.Validate()
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching variable keep their file or default value
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file
// leave cfg untouched
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration and normalizes enum-like fields
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	c.Logging.Format = strings.ToLower(c.Logging.Format)
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}

	c.Logging.Output = strings.ToLower(c.Logging.Output)
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q", c.Logging.Output)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample ratio must be within [0,1]")
	}

	if _, err := c.ETL.Options(); err != nil {
		return fmt.Errorf("etl: %w", err)
	}

	if c.Export.OutputDir == "" {
		return fmt.Errorf("export output directory is required")
	}

	return nil
}

// getConfigFilePath returns the path to the config file, or "" when none exists
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	etl := dataprocessing.DefaultOptions()

	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  DefaultMaxUploadBytes,
			ETLTimeout:      DefaultETLTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
		ETL: ETLConfig{
			SheetName:   etl.SheetName,
			TitleRow:    etl.TitleRow,
			TitleColumn: etl.TitleColumn,
			SkipRows:    etl.SkipRows,
			FooterRows:  etl.FooterRows,
			DefaultYear: etl.DefaultYear,
			JoinMode:    string(etl.JoinMode),
		},
		Export: ExportConfig{
			OutputDir: DefaultReportsDir,
			BOM:       false,
			TopN:      DefaultTopN,
		},
	}
}
