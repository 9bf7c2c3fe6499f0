package testutil

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
		assert.True(t, handler.ContainsAttr("code", int64(500)))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("derived loggers share the buffer", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		component := logger.With(slog.String("component", "etl"))
		component.WithGroup("stats").Info("done", slog.Int("rows", 3))

		require.Equal(t, 1, handler.Count())
		assert.True(t, handler.ContainsAttr("component", "etl"))
		assert.True(t, handler.ContainsAttr("stats.rows", int64(3)))
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("message 1")
		logger.Info("message 2")
		assert.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("important message", slog.String("component", "test"))
		logger.Warn("warning message", slog.Int("retry", 3))

		AssertLogContains(t, handler, slog.LevelInfo, "important")
		AssertLogAttr(t, handler, "component", "test")
		AssertNoErrors(t, handler)
	})
}

func TestWorkbookBuild(t *testing.T) {
	buf := NewWorkbook(CigugurRow(), nil, DarmaRow()).Build(t)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{StatusGiziSheet}, f.GetSheetList())

	title, err := f.GetCellValue(StatusGiziSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, title)

	rows, err := f.GetRows(StatusGiziSheet)
	require.NoError(t, err)
	// banner, title, three header rows, three data rows (one blank), footer
	require.Len(t, rows, 9)
	assert.Len(t, rows[5], 20)
	assert.Empty(t, rows[6])
	assert.Equal(t, "JUMLAH", rows[8][0])
}

func TestSave(t *testing.T) {
	path := NewWorkbook(DarmaRow()).Save(t, t.TempDir(), "raw.xlsx")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(StatusGiziSheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "3. PKM Darma", v)
}
