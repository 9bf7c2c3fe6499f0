// Package app wires the status gizi ETL service together and manages its
// lifecycle.
//
// NewApplication builds every component from a *config.Config in order:
//
//  1. Logger (slog, tint on the console, JSON to the log file)
//  2. Resolved paths and the reports directory
//  3. OpenTelemetry tracing and the Prometheus metric exporter
//  4. ETL and health services
//  5. chi router, middleware chain and handlers
//  6. http.Server
//
// Run serves until SIGINT or SIGTERM and then drains in-flight requests
// within Server.ShutdownTimeout before flushing telemetry.
//
//	application, err := app.NewApplication(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
package app
