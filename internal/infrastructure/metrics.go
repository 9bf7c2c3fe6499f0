package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"gizietl/pkg/contracts/domain"
)

// Outcome labels for ETL runs
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ETLMetrics holds the instruments recorded for every ETL run and HTTP request
type ETLMetrics struct {
	RunsTotal     metric.Int64Counter
	RunDuration   metric.Float64Histogram
	RowsProcessed metric.Int64Counter
	RowsDropped   metric.Int64Counter
	CellsCoerced  metric.Int64Counter
	BlankRows     metric.Int64Counter
	ExportsTotal  metric.Int64Counter
	HTTPRequests  metric.Int64Counter
	HTTPDuration  metric.Float64Histogram
	HTTPActive    metric.Int64UpDownCounter
}

// NewETLMetrics creates the ETL instruments on meter
func NewETLMetrics(meter metric.Meter) (*ETLMetrics, error) {
	m := &ETLMetrics{}
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.RunsTotal, "etl_runs_total", "Total number of ETL runs by outcome"},
		{&m.RowsProcessed, "etl_rows_processed_total", "Data rows that reached the fact table"},
		{&m.RowsDropped, "etl_rows_dropped_total", "Data rows dropped by the region join"},
		{&m.CellsCoerced, "etl_cells_coerced_total", "Non-blank count cells that were not numeric"},
		{&m.BlankRows, "etl_blank_rows_total", "Blank rows skipped inside the data block"},
		{&m.ExportsTotal, "etl_exports_total", "CSV tables exported"},
		{&m.HTTPRequests, "http_requests_total", "Total number of HTTP requests"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("create %s: %w", c.name, err)
		}
	}

	if m.RunDuration, err = meter.Float64Histogram(
		"etl_run_duration_seconds",
		metric.WithDescription("ETL run duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create etl_run_duration_seconds: %w", err)
	}

	if m.HTTPDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create http_request_duration_seconds: %w", err)
	}

	if m.HTTPActive, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("create http_active_requests: %w", err)
	}

	return m, nil
}

// RecordETLRun records the outcome of one ETL run. A nil receiver is a no-op.
func (m *ETLMetrics) RecordETLRun(ctx context.Context, source string, result *domain.ETLResult) {
	if m == nil || result == nil {
		return
	}

	outcome := OutcomeSuccess
	if !result.Success {
		outcome = OutcomeFailure
	}
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	)

	m.RunsTotal.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, result.Duration.Seconds(), attrs)

	if !result.Success {
		return
	}
	src := metric.WithAttributes(attribute.String("source", source))
	m.RowsProcessed.Add(ctx, int64(result.Stats.DataRows-result.Stats.RowsDropped), src)
	m.RowsDropped.Add(ctx, int64(result.Stats.RowsDropped), src)
	m.CellsCoerced.Add(ctx, int64(result.Stats.CellsCoerced), src)
	m.BlankRows.Add(ctx, int64(result.Stats.BlankRowsSkipped), src)
}

// RecordExport counts one exported table
func (m *ETLMetrics) RecordExport(ctx context.Context, table string) {
	if m == nil {
		return
	}
	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("table", table)))
}

// RecordHTTPRequest records one completed HTTP request
func (m *ETLMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequests.Add(ctx, 1, attrs)
	m.HTTPDuration.Record(ctx, elapsed.Seconds(), attrs)
}
