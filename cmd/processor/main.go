package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/olekukonko/tablewriter"
	flag "github.com/spf13/pflag"

	"gizietl/internal/config"
	"gizietl/internal/dataprocessing"
	"gizietl/internal/exporter"
	"gizietl/internal/infrastructure"
	"gizietl/internal/services"
	"gizietl/internal/validation"
	"gizietl/pkg/contracts/domain"
)

// cliOptions are the command line flags of one run
type cliOptions struct {
	In         string
	Out        string
	ConfigFile string
	StrictJoin bool
	Top        int
	Quiet      bool
}

func main() {
	os.Exit(execute())
}

// execute runs the command and returns the process exit code
func execute() int {
	var opts cliOptions
	flag.StringVar(&opts.In, "in", config.DefaultInputFile, "status gizi workbook (.xlsx) to process")
	flag.StringVar(&opts.Out, "out", "", "directory for the CSV tables (default: export.output_dir)")
	flag.StringVar(&opts.ConfigFile, "config", "", "YAML config file (default: $GIZI_CONFIG_FILE, then ./config.yaml or ./configs/config.yaml)")
	flag.BoolVar(&opts.StrictJoin, "strict-join", false, "fail the run when a data row has no region dimension entry instead of dropping it")
	flag.IntVar(&opts.Top, "top", 0, "number of kecamatan in the ranking table (default: export.top_n)")
	flag.BoolVarP(&opts.Quiet, "quiet", "q", false, "only print errors")
	flag.Parse()

	cfg, err := loadConfig(opts.ConfigFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, etlMessage(err))
		return 1
	}
	applyFlags(cfg, opts)

	// stdout carries the report tables, so logs go to stderr
	logger, logFile, err := infrastructure.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, etlMessage(err))
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger = infrastructure.WithComponent(logger, "processor")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	var out io.Writer = os.Stdout
	if opts.Quiet {
		out = io.Discard
	}
	if err := run(ctx, cfg, opts.In, out, logger); err != nil {
		fmt.Fprintln(os.Stderr, etlMessage(err))
		return 1
	}
	return 0
}

// loadConfig reads path, or searches the default locations when it is empty
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

// applyFlags overrides the loaded configuration with explicit flags
func applyFlags(cfg *config.Config, opts cliOptions) {
	if opts.Out != "" {
		cfg.Export.OutputDir = opts.Out
	}
	if opts.StrictJoin {
		cfg.ETL.JoinMode = string(dataprocessing.JoinStrict)
	}
	if opts.Top > 0 {
		cfg.Export.TopN = opts.Top
	}
}

// run processes one workbook, writes the CSV tables and prints the report
func run(ctx context.Context, cfg *config.Config, in string, out io.Writer, logger *slog.Logger) error {
	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		return err
	}
	paths.LogPathResolution(logger)

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateWorkbook(in); err != nil {
		return err
	}
	if err := validator.ValidateOutputDirectory(paths.ReportsDir); err != nil {
		return err
	}

	svc, err := services.NewETLService(cfg, paths, nil, logger)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Processing workbook",
		slog.String("input", in),
		slog.String("output_dir", paths.ReportsDir),
		slog.String("join_mode", cfg.ETL.JoinMode))

	report, err := svc.ProcessFile(ctx, in)
	if err != nil {
		return err
	}

	written, err := svc.ExportAll(ctx, report)
	if err != nil {
		return err
	}

	printReport(out, report, svc.TopN(), written)
	return nil
}

// etlMessage is the user-facing failure line
func etlMessage(err error) string {
	return "Error: " + err.Error()
}

// printReport renders the run summary, the top-N ranking and the files written
func printReport(out io.Writer, report *services.Report, topN int, written map[exporter.TableName]string) {
	res := report.Result
	fmt.Fprintln(out, res.Message)
	fmt.Fprintf(out, "Fakta: %d baris, wilayah: %d, waktu: %d\n\n",
		len(res.Fact.Rows), len(res.Regions), len(res.Time))

	summary := tablewriter.NewWriter(out)
	summary.SetAutoFormatHeaders(false)
	summary.SetHeader([]string{"Indikator", "Nilai"})
	for _, row := range report.Summary.Rows() {
		summary.Append([]string{row.Indikator, row.Nilai})
	}
	summary.Render()
	fmt.Fprintln(out)

	top := dataprocessing.TopRegions(report.Aggregates, domain.RankByStuntingPct, topN, false)
	if len(top) > 0 {
		fmt.Fprintf(out, "Top %d kecamatan dengan persentase stunting tertinggi\n", len(top))
		ranking := tablewriter.NewWriter(out)
		ranking.SetAutoFormatHeaders(false)
		ranking.SetHeader([]string{"#", "Kecamatan", "Ditimbang", "Stunting", "% Stunting", "Kategori"})
		for i, a := range top {
			ranking.Append([]string{
				fmt.Sprintf("%d", i+1),
				a.NamaKecamatan,
				fmt.Sprintf("%.0f", a.JumlahBalitaDitimbang),
				fmt.Sprintf("%.0f", a.JumlahBalitaStunting),
				fmt.Sprintf("%.2f", a.PersentaseStunting),
				string(a.Kategori),
			})
		}
		ranking.Render()
		fmt.Fprintln(out)
	}

	names := make([]string, 0, len(written))
	for name := range written {
		names = append(names, string(name))
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", written[exporter.TableName(name)])
	}
}
