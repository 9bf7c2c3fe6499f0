// Package config loads the application configuration.
//
// # Configuration Sources
//
// Values are resolved in the following order, later sources winning:
//
//  1. Default() values
//  2. A YAML file: the path in GIZI_CONFIG_FILE, or config.yaml / configs/config.yaml
//  3. Environment variables
//
// # Environment Variables
//
// Every variable is prefixed with GIZI and follows the section layout:
//
//	GIZI_SERVER_PORT=8080
//	GIZI_LOGGING_FORMAT=console
//	GIZI_ETL_SHEET_NAME="STATUS GIZI"
//	GIZI_ETL_JOIN_MODE=strict
//	GIZI_EXPORT_OUTPUT_DIR=data/reports
//
// # ETL Section
//
// The ETL section describes the workbook layout. Its defaults reproduce the
// district export exactly, so an empty environment needs no configuration.
// ETLConfig.Options converts it to dataprocessing.Options.
package config
