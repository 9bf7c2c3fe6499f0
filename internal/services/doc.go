// Package services implements the business logic layer between the HTTP
// handlers and the ETL core.
//
// ETLService turns an uploaded workbook into a Report: the three ETL tables
// plus the per-kecamatan aggregates, summary statistics and category totals
// derived from them. It also serves rankings, single-table CSV renders and
// the full CSV export. Each call runs the ETL from scratch.
//
//	svc, err := services.NewETLService(cfg, paths, metrics, logger)
//	report, err := svc.Process(ctx, upload, "upload")
//
// A failed run returns the stage-tagged error from the dataprocessing
// package unchanged so that the transport layer can map it to a 422 response.
//
// HealthService reports liveness, readiness (coordinate table loaded, reports
// directory writable) and version information.
package services
