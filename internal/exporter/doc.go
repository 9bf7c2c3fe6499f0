// Package exporter renders ETL output as CSV.
//
// Tables are rendered from a Bundle (the fact table, both dimensions and the
// regional analytics) into string records first. Rendering fails on any
// NaN or infinite numeric value, so a written file never holds one.
//
//	writer := exporter.NewCSVWriter(paths, logger)
//	written, err := writer.ExportAll(ctx, bundle, exporter.ExportOptions{BOM: true})
//
// ExportAll writes fact_gizi_balita.csv, dim_wilayah.csv, dim_waktu.csv,
// data_agregat_kecamatan.csv and ringkasan_statistik.csv concurrently.
// Each file is written to a temporary name and renamed into place.
// WriteTable streams a single table to any io.Writer, which is how the HTTP
// download endpoint serves it.
package exporter
