package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gizietl/internal/config"
	"gizietl/internal/dataprocessing"
	"gizietl/internal/shared/testutil"
	"gizietl/internal/validation"
)

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	applyFlags(cfg, cliOptions{Out: "out", StrictJoin: true, Top: 3})

	assert.Equal(t, "out", cfg.Export.OutputDir)
	assert.Equal(t, string(dataprocessing.JoinStrict), cfg.ETL.JoinMode)
	assert.Equal(t, 3, cfg.Export.TopN)

	cfg = config.Default()
	applyFlags(cfg, cliOptions{})
	assert.Equal(t, config.DefaultReportsDir, cfg.Export.OutputDir)
	assert.Equal(t, config.DefaultTopN, cfg.Export.TopN)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gizi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export:\n  top_n: 7\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Export.TopN)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := testutil.NewWorkbook(testutil.CigugurRow(), testutil.DarmaRow()).Save(t, dir, "raw_status_gizi.xlsx")

	cfg := config.Default()
	cfg.Export.OutputDir = filepath.Join(dir, "reports")
	cfg.Export.TopN = 1
	logger, handler := testutil.NewTestLogger(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, in, &out, logger))

	text := out.String()
	assert.Contains(t, text, dataprocessing.MessageSuccess)
	assert.Contains(t, text, "Top 1 kecamatan")
	assert.Contains(t, text, "DARMA")
	assert.Contains(t, text, "Total Balita Ditimbang")
	assert.Contains(t, text, "150")

	for _, name := range []string{
		"fact_gizi_balita.csv",
		"dim_wilayah.csv",
		"dim_waktu.csv",
		"data_agregat_kecamatan.csv",
		"ringkasan_statistik.csv",
	} {
		assert.FileExists(t, filepath.Join(dir, "reports", name))
		assert.Contains(t, text, name)
	}

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Processing workbook")
}

func TestRun_ETLFailure(t *testing.T) {
	dir := t.TempDir()
	wb := testutil.NewWorkbook(testutil.CigugurRow())
	wb.Sheet = "Sheet1"
	in := wb.Save(t, dir, "wrong_sheet.xlsx")

	cfg := config.Default()
	cfg.Export.OutputDir = filepath.Join(dir, "reports")
	logger, _ := testutil.NewTestLogger(t)

	var out bytes.Buffer
	err := run(context.Background(), cfg, in, &out, logger)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataprocessing.ErrSheetNotFound)
	assert.Contains(t, etlMessage(err), "Error: ")
	assert.Empty(t, out.String())

	_, statErr := os.Stat(filepath.Join(dir, "reports", "fact_gizi_balita.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_StrictJoinUnknownKecamatan(t *testing.T) {
	dir := t.TempDir()
	in := testutil.NewWorkbook(
		testutil.CigugurRow(),
		testutil.DataRow(2, "PKM ANTAH", "ANTAH BERANTAH", 10, 1, 1, 1),
	).Save(t, dir, "unmatched.xlsx")

	cfg := config.Default()
	cfg.Export.OutputDir = filepath.Join(dir, "reports")
	applyFlags(cfg, cliOptions{StrictJoin: true})
	logger, _ := testutil.NewTestLogger(t)

	// Every row has its own region dimension entry; a kecamatan missing from
	// the coordinate table only gets (0, 0)
	require.NoError(t, run(context.Background(), cfg, in, &bytes.Buffer{}, logger))

	agg, err := os.ReadFile(filepath.Join(dir, "reports", "data_agregat_kecamatan.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(agg), "ANTAH BERANTAH")
	assert.Contains(t, string(agg), "CIGUGUR")
}

func TestRun_MissingInput(t *testing.T) {
	cfg := config.Default()
	cfg.Export.OutputDir = t.TempDir()
	logger, _ := testutil.NewTestLogger(t)

	err := run(context.Background(), cfg, filepath.Join(t.TempDir(), "missing.xlsx"), &bytes.Buffer{}, logger)
	assert.Error(t, err)
}

func TestRun_NotAWorkbook(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "status.csv")
	require.NoError(t, os.WriteFile(in, []byte("a,b\n"), 0o644))

	cfg := config.Default()
	cfg.Export.OutputDir = filepath.Join(dir, "reports")
	logger, _ := testutil.NewTestLogger(t)

	err := run(context.Background(), cfg, in, &bytes.Buffer{}, logger)
	assert.ErrorIs(t, err, validation.ErrNotWorkbook)
}
