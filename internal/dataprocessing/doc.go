// Package dataprocessing turns a "STATUS GIZI" workbook into a small star
// schema: a fact table of per-facility nutrition counts, a region dimension
// and a single-row time dimension.
//
// # Architecture
//
// One run is a fixed sequence of stages, each in its own file:
//
// 1. Extractor (extractor.go): finds the sheet by exact name, reads the title
// cell and slices the data block between the header and the footer
// 2. Header parser (header.go): pulls the report timestamp out of the title
// 3. Transform (transform.go): cleans facility names, coerces counts,
// derives the prevalence metrics and builds the region dimension
// 4. Schema (schema.go): normalizes column names and validates the fact table
//
// Processor (pipeline.go) chains the stages and converts any failure into an
// unsuccessful ETLResult that carries no tables.
//
// # Usage
//
//	p, err := dataprocessing.NewProcessor(dataprocessing.DefaultOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	res, err := p.ProcessFile(ctx, "raw_status_gizi.xlsx")
//	if err != nil {
//	    fmt.Println(res.Message)
//	}
//
// # Self-healing
//
// Irregular input is repaired rather than rejected. Rows are padded or
// truncated to twenty columns, unparsable counts become zero and a title
// without a timestamp yields default time values. Each repair is logged at
// WARN and counted in ETLStats.
//
// # Analytics
//
// analytics.go works on finished fact rows only: regional roll-ups, stunting
// categories, rankings and summary statistics. It never feeds back into the
// ETL tables.
package dataprocessing
