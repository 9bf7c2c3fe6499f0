package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gizietl/pkg/contracts/domain"
)

// Result messages reported to callers
const (
	MessageSuccess     = "Proses ETL berhasil!"
	messageErrorPrefix = "Error: "
)

const tracerName = "gizietl/dataprocessing"

// Processor runs the status gizi ETL. It holds no per-run state and may be
// shared between goroutines.
type Processor struct {
	opts   Options
	logger *slog.Logger
	tracer trace.Tracer
}

// NewProcessor validates opts and returns a Processor
func NewProcessor(opts Options, logger *slog.Logger) (*Processor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.JoinMode == "" {
		opts.JoinMode = JoinLenient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		opts:   opts,
		logger: logger.With(slog.String("component", "etl")),
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Options returns the processor configuration
func (p *Processor) Options() Options {
	return p.opts
}

// Process runs the ETL and reports the outcome only through the result
func (p *Processor) Process(ctx context.Context, r io.Reader) *domain.ETLResult {
	res, _ := p.Run(ctx, r)
	return res
}

// ProcessFile runs the ETL on the workbook at path
func (p *Processor) ProcessFile(ctx context.Context, path string) (*domain.ETLResult, error) {
	file, err := os.Open(path)
	if err != nil {
		err = newETLError(StageOpen, err, "failed to open %s", path)
		return failedResult(err, 0), err
	}
	defer file.Close()

	return p.Run(ctx, file)
}

// Run reads a workbook from r and builds the fact, region and time tables.
// The returned result is never nil; on failure it carries no tables and the
// error is returned alongside it.
func (p *Processor) Run(ctx context.Context, r io.Reader) (*domain.ETLResult, error) {
	start := time.Now()

	f, err := OpenWorkbook(r)
	if err != nil {
		p.logger.Error("ETL failed", slog.String("stage", string(StageOpen)), slog.String("error", err.Error()))
		return failedResult(err, time.Since(start)), err
	}
	defer f.Close()

	return p.RunWorkbook(ctx, f)
}

// RunWorkbook runs the ETL on an already opened workbook
func (p *Processor) RunWorkbook(ctx context.Context, f *excelize.File) (res *domain.ETLResult, err error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "etl.process",
		trace.WithAttributes(attribute.String("etl.sheet", p.opts.SheetName)))
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("etl panic: %v", rec)
			res = nil
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			stage, _ := StageOf(err)
			p.logger.ErrorContext(ctx, "ETL failed",
				slog.String("stage", string(stage)),
				slog.String("error", err.Error()))
			res = failedResult(err, time.Since(start))
			return
		}
		res.Duration = time.Since(start)
		span.SetStatus(codes.Ok, "")
	}()

	return p.run(ctx, span, f)
}

func (p *Processor) run(ctx context.Context, span trace.Span, f *excelize.File) (*domain.ETLResult, error) {
	var stats domain.ETLStats

	ext, err := ExtractSheet(f, p.opts, p.logger)
	if err != nil {
		return nil, err
	}
	stats.SheetRows = ext.SheetRows
	stats.DataRows = len(ext.Rows)
	stats.BlankRowsSkipped = ext.BlankRows
	stats.RowsPadded = ext.Padded
	stats.RowsTruncated = ext.Truncated
	span.AddEvent("extracted", trace.WithAttributes(
		attribute.Int("etl.data_rows", stats.DataRows),
		attribute.Int("etl.blank_rows", stats.BlankRowsSkipped)))
	if err := ctx.Err(); err != nil {
		return nil, newETLError(StageExtract, err, "cancelled")
	}

	timeDim, found := ParseTimestampOrDefault(ext.Title, p.opts.DefaultYear)
	stats.TimestampFound = found
	if !found {
		p.logger.WarnContext(ctx, "No timestamp in title, using defaults",
			slog.String("title", ext.Title),
			slog.Int("tahun", timeDim.Tahun),
			slog.String("bulan", timeDim.Bulan))
	}

	tr := TransformRows(ext.Rows, p.logger)
	stats.CellsCoerced = tr.CellsCoerced
	regions := BuildRegionDimension(tr.Rows)
	span.AddEvent("transformed", trace.WithAttributes(
		attribute.Int("etl.cells_coerced", stats.CellsCoerced),
		attribute.Int("etl.regions", len(regions))))
	if err := ctx.Err(); err != nil {
		return nil, newETLError(StageTransform, err, "cancelled")
	}

	facts, unmatched, err := JoinRegions(tr.Rows, regions, p.opts.JoinMode)
	if err != nil {
		return nil, err
	}
	for _, u := range unmatched {
		p.logger.WarnContext(ctx, "Row dropped, no matching region", slog.String("row", u.String()))
	}
	stats.RowsDropped = len(unmatched)

	table, err := FinalizeFacts(facts)
	if err != nil {
		return nil, err
	}
	span.AddEvent("finalized", trace.WithAttributes(attribute.Int("etl.fact_rows", table.Len())))

	p.logger.InfoContext(ctx, "ETL completed",
		slog.Int("fact_rows", table.Len()),
		slog.Int("regions", len(regions)),
		slog.Int("rows_dropped", stats.RowsDropped),
		slog.Int("cells_coerced", stats.CellsCoerced))

	return &domain.ETLResult{
		Success: true,
		Message: MessageSuccess,
		Fact:    table,
		Regions: regions,
		Time:    []domain.TimeDimension{timeDim},
		Stats:   stats,
	}, nil
}

// failedResult builds the result reported for a failed run: no tables and a
// message that embeds the cause.
func failedResult(err error, elapsed time.Duration) *domain.ETLResult {
	return &domain.ETLResult{
		Success:  false,
		Message:  messageErrorPrefix + err.Error(),
		Duration: elapsed,
	}
}
