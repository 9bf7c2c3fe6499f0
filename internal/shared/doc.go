// Package shared holds helpers used by more than one internal package.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger for asserting on log output
//   - Workbook, an in-memory builder for status gizi XLSX fixtures
//   - Canned data rows (CigugurRow, KuninganRow, DarmaRow) with known totals
//
// Example usage:
//
//	func TestRun(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    buf := testutil.NewWorkbook(testutil.CigugurRow()).Build(t)
//	    // run the ETL on buf, then inspect handler
//	}
//
// Nothing in this package may import business packages.
package shared
