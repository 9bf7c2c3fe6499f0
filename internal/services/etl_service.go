package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"gizietl/internal/config"
	"gizietl/internal/dataprocessing"
	apierrors "gizietl/internal/errors"
	"gizietl/internal/exporter"
	"gizietl/internal/geo"
	"gizietl/internal/infrastructure"
	"gizietl/pkg/contracts/domain"
)

// ETLService runs the status gizi ETL and derives the regional analytics
// from its output. Every call is an independent run; nothing is cached.
type ETLService struct {
	processor *dataprocessing.Processor
	regions   *geo.Table
	writer    *exporter.CSVWriter
	metrics   *infrastructure.ETLMetrics
	bom       bool
	topN      int
	logger    *slog.Logger
}

// Report is one ETL run plus everything derived from its fact table
type Report struct {
	Result     *domain.ETLResult
	Aggregates []domain.RegionAggregate
	Summary    domain.Summary
	Categories []domain.FamilyTotals
	Kategori   map[domain.StuntingCategory]int
}

// Bundle returns the exportable view of the report
func (r *Report) Bundle() *exporter.Bundle {
	return &exporter.Bundle{Result: r.Result, Aggregates: r.Aggregates, Summary: r.Summary}
}

// RankingQuery selects and orders region aggregates
type RankingQuery struct {
	By        domain.RankMetric
	Ascending bool
	// Limit <= 0 uses the configured top N
	Limit int
	// Search keeps kecamatan whose name contains it, case-insensitively
	Search string
	// Kategori keeps only regions in that stunting category when set. It
	// takes a short key ("tinggi") or a full label.
	Kategori string
}

// NewETLService creates the service from the ETL and export configuration.
// metrics may be nil.
func NewETLService(cfg *config.Config, paths *config.Paths, metrics *infrastructure.ETLMetrics, logger *slog.Logger) (*ETLService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts, err := cfg.ETL.Options()
	if err != nil {
		return nil, fmt.Errorf("invalid etl configuration: %w", err)
	}
	processor, err := dataprocessing.NewProcessor(opts, logger)
	if err != nil {
		return nil, err
	}

	topN := cfg.Export.TopN
	if topN <= 0 {
		topN = config.DefaultTopN
	}

	logger.Info("ETLService initialized",
		slog.String("sheet", opts.SheetName),
		slog.String("join_mode", string(opts.JoinMode)),
		slog.String("reports_dir", paths.ReportsDir))

	return &ETLService{
		processor: processor,
		regions:   geo.Default(),
		writer:    exporter.NewCSVWriter(paths, logger),
		metrics:   metrics,
		bom:       cfg.Export.BOM,
		topN:      topN,
		logger:    logger.With(slog.String("component", "etl_service")),
	}, nil
}

// Process runs the ETL on the workbook in r. A failed run returns the
// stage-tagged ETL error; source labels the run in metrics.
func (s *ETLService) Process(ctx context.Context, r io.Reader, source string) (*Report, error) {
	if r == nil {
		return nil, ErrNoUpload
	}

	res, err := s.processor.Run(ctx, r)
	s.metrics.RecordETLRun(ctx, source, res)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, res), nil
}

// ProcessFile runs the ETL on the workbook at path
func (s *ETLService) ProcessFile(ctx context.Context, path string) (*Report, error) {
	res, err := s.processor.ProcessFile(ctx, path)
	s.metrics.RecordETLRun(ctx, "file", res)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, res), nil
}

func (s *ETLService) analyze(ctx context.Context, res *domain.ETLResult) *Report {
	aggs := dataprocessing.AggregateByRegion(res.Fact.Rows, s.regions)
	report := &Report{
		Result:     res,
		Aggregates: aggs,
		Summary:    dataprocessing.Summarize(aggs),
		Categories: dataprocessing.CategoryTotals(res.Fact.Rows),
		Kategori:   dataprocessing.CountCategories(aggs),
	}

	infrastructure.AddSpanEvent(ctx, "analytics.computed",
		attribute.Int("kecamatan", len(aggs)),
		attribute.Float64("persentase_stunting_global", report.Summary.PersentaseStuntingGlobal))
	s.logger.InfoContext(ctx, "Analytics computed",
		slog.Int("kecamatan", len(aggs)),
		slog.Float64("persentase_stunting_global", report.Summary.PersentaseStuntingGlobal),
		slog.String("kecamatan_tertinggi", report.Summary.KecamatanTertinggi))
	return report
}

// ExportTable runs the ETL and renders one table for download
func (s *ETLService) ExportTable(ctx context.Context, r io.Reader, source, table string) (*exporter.Table, error) {
	name, err := exporter.ParseTableName(table)
	if err != nil {
		return nil, err
	}

	report, err := s.Process(ctx, r, source)
	if err != nil {
		return nil, err
	}

	t, err := report.Bundle().Build(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}
	s.metrics.RecordExport(ctx, string(name))
	return t, nil
}

// Ranking runs the ETL and returns the region aggregates ordered by q
func (s *ETLService) Ranking(ctx context.Context, r io.Reader, source string, q RankingQuery) ([]domain.RegionAggregate, error) {
	if q.By == "" {
		q.By = domain.RankByStuntingPct
	}
	if !q.By.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRankMetric, q.By)
	}
	var kategori domain.StuntingCategory
	if q.Kategori != "" {
		cat, ok := domain.ParseStuntingCategory(q.Kategori)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, q.Kategori)
		}
		kategori = cat
	}
	limit := q.Limit
	if limit <= 0 {
		limit = s.topN
	}

	report, err := s.Process(ctx, r, source)
	if err != nil {
		return nil, err
	}
	aggs := dataprocessing.FilterRegions(report.Aggregates, q.Search)
	if kategori != domain.StuntingUncategorized {
		aggs = dataprocessing.RegionsInCategory(aggs, kategori)
	}
	return dataprocessing.TopRegions(aggs, q.By, limit, q.Ascending), nil
}

// Regions returns the kecamatan coordinate reference table
func (s *ETLService) Regions() []geo.Entry {
	return s.regions.Entries()
}

// TopN is the configured ranking size
func (s *ETLService) TopN() int {
	return s.topN
}

// ExportAll writes every table of the report into the reports directory
func (s *ETLService) ExportAll(ctx context.Context, report *Report) (map[exporter.TableName]string, error) {
	written, err := s.writer.ExportAll(ctx, report.Bundle(), exporter.ExportOptions{
		BOM: s.bom,
		OnWritten: func(ctx context.Context, name exporter.TableName) {
			s.metrics.RecordExport(ctx, string(name))
		},
	})
	if err != nil {
		infrastructure.WithError(s.logger, err).ErrorContext(ctx, "Export failed",
			slog.String("dir", s.writer.Dir()))
		return written, apierrors.NewStorageError("export tables", err).WithContext("dir", s.writer.Dir())
	}
	return written, nil
}
