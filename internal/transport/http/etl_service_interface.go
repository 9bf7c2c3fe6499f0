package http

import (
	"context"
	"io"

	"gizietl/internal/exporter"
	"gizietl/internal/geo"
	"gizietl/internal/services"
	"gizietl/pkg/contracts/domain"
)

// ETLServiceInterface defines the ETL operations the handlers need
type ETLServiceInterface interface {
	Process(ctx context.Context, r io.Reader, source string) (*services.Report, error)
	ExportTable(ctx context.Context, r io.Reader, source, table string) (*exporter.Table, error)
	Ranking(ctx context.Context, r io.Reader, source string, q services.RankingQuery) ([]domain.RegionAggregate, error)
	Regions() []geo.Entry
}
