// Package http implements the HTTP handlers of the status gizi ETL service.
//
// Handlers only parse requests and shape responses. The work happens in the
// services package, and every error goes through the shared RFC 7807
// ErrorHandler.
//
// # Endpoints
//
//	POST /api/etl                  multipart field "file" -> ETL tables and analytics as JSON
//	POST /api/etl/export/{table}   same upload -> one table as a CSV attachment
//	POST /api/etl/ranking          same upload, ?by=&order=&limit= -> ranked kecamatan
//	GET  /api/regions              kecamatan coordinate reference table
//	GET  /api/health[/ready|/live|/version]
//	GET  /metrics                  Prometheus exposition
//
// A workbook the ETL rejects is answered with 422 and error_code ETL_FAILED.
// The detail member carries the pipeline message and the details member
// carries the failing stage plus remediation hints.
//
// # Testing
//
// Handlers depend on ETLServiceInterface so that tests can substitute a
// testify mock and drive the handlers through a chi router with httptest.
package http
