package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ExportOptions controls ExportAll
type ExportOptions struct {
	BOM bool
	// Tables limits the export; empty means every table
	Tables []TableName
	// OnWritten is called once per written table
	OnWritten func(ctx context.Context, name TableName)
}

// ExportAll writes each table of the bundle to its report file in parallel
// and returns the written paths keyed by table. Either every table is
// rendered successfully or nothing is written.
func (w *CSVWriter) ExportAll(ctx context.Context, bundle *Bundle, opts ExportOptions) (map[TableName]string, error) {
	names := opts.Tables
	if len(names) == 0 {
		names = TableNames()
	}

	// Render everything first so a non-finite value aborts before any file
	// is touched.
	tables := make([]*Table, len(names))
	for i, name := range names {
		t, err := bundle.Build(name)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		tables[i] = t
	}

	start := time.Now()
	var (
		mu      sync.Mutex
		written = make(map[TableName]string, len(tables))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tables {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := w.WriteCSV(t.Name.FileName(), WriteOptions{
				Headers:   t.Header,
				Records:   t.Records,
				BOMPrefix: opts.BOM,
			})
			if err != nil {
				return fmt.Errorf("write %s: %w", t.Name, err)
			}

			mu.Lock()
			written[t.Name] = path
			mu.Unlock()

			if opts.OnWritten != nil {
				opts.OnWritten(gctx, t.Name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return written, err
	}

	w.logger.InfoContext(ctx, "Export complete",
		slog.Int("tables", len(written)),
		slog.Duration("duration", time.Since(start)))
	return written, nil
}
