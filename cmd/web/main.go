package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"gizietl/internal/app"
	"gizietl/internal/config"
	"gizietl/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (default: $GIZI_CONFIG_FILE, then ./config.yaml or ./configs/config.yaml)")
	port := flag.Int("port", 0, "HTTP port (default: server.port)")
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	application, err := app.NewApplication(cfg, nil)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads path, or searches the default locations when it is empty
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
