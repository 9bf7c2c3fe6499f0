package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gizietl/internal/config"
	"gizietl/internal/shared/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Export.OutputDir = filepath.Join(dir, "reports")
	cfg.Logging.Output = "console"
	cfg.Logging.FilePath = ""
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	application, err := NewApplication(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = application.OTelProviders.Shutdown(context.Background())
	})
	return application
}

func upload(t *testing.T, target string, wb testutil.Workbook) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "status_gizi.xlsx")
	require.NoError(t, err)
	_, err = part.Write(wb.Build(t).Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(app *Application, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func TestNewApplication(t *testing.T) {
	cfg := testConfig(t)
	app := newTestApp(t, cfg)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.ETLService)
	assert.NotNil(t, app.HealthService)
	assert.NotNil(t, app.Metrics)
	assert.Equal(t, ":0", app.Server.Addr)
	assert.Equal(t, cfg.Server.ReadTimeout, app.Server.ReadTimeout)
	assert.DirExists(t, app.Paths.ReportsDir)
}

func TestNewApplication_NilConfig(t *testing.T) {
	_, err := NewApplication(nil, nil)
	assert.Error(t, err)
}

func TestNewApplication_InvalidETLConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.ETL.JoinMode = "fuzzy"

	logger, _ := testutil.NewTestLogger(t)
	_, err := NewApplication(cfg, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize services")
}

func TestApplication_ETLEndToEnd(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	w := serve(app, upload(t, "/api/etl", testutil.NewWorkbook(testutil.CigugurRow(), testutil.DarmaRow())))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Fact    []map[string]interface{} `json:"fact"`
			Wilayah []map[string]interface{} `json:"wilayah"`
			Waktu   []map[string]interface{} `json:"waktu"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "Proses ETL berhasil!", body.Message)
	assert.Len(t, body.Data.Fact, 2)
	assert.Len(t, body.Data.Wilayah, 2)
	assert.Len(t, body.Data.Waktu, 1)
}

func TestApplication_ETLFailure(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	wb := testutil.NewWorkbook(testutil.CigugurRow())
	wb.Sheet = "Sheet1"
	w := serve(app, upload(t, "/api/etl", wb))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "ETL_FAILED")
	assert.Contains(t, w.Body.String(), "STATUS GIZI")
}

func TestApplication_ExportCSV(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	w := serve(app, upload(t, "/api/etl/export/wilayah", testutil.NewWorkbook(testutil.CigugurRow())))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "dim_wilayah.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "id_wilayah,nama_puskesmas,nama_kecamatan"))
	assert.Contains(t, w.Body.String(), "CIGUGUR")
}

func TestApplication_Ranking(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	w := serve(app, upload(t, "/api/etl/ranking?limit=1",
		testutil.NewWorkbook(testutil.CigugurRow(), testutil.DarmaRow())))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Count int `json:"count"`
		Data  []struct {
			NamaKecamatan string `json:"nama_kecamatan"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "DARMA", body.Data[0].NamaKecamatan)
}

func TestApplication_PayloadTooLarge(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.MaxUploadBytes = 256
	app := newTestApp(t, cfg)

	w := serve(app, upload(t, "/api/etl", testutil.NewWorkbook(testutil.CigugurRow())))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		contains string
	}{
		{"health", http.MethodGet, "/api/health", http.StatusOK, `"status":"ok"`},
		{"ready", http.MethodGet, "/api/health/ready", http.StatusOK, `"status":"ready"`},
		{"version", http.MethodGet, "/api/health/version", http.StatusOK, config.AppVersion},
		{"regions", http.MethodGet, "/api/regions", http.StatusOK, "CIGUGUR"},
		{"not found", http.MethodGet, "/api/unknown", http.StatusNotFound, "Not Found"},
		{"method not allowed", http.MethodGet, "/api/etl", http.StatusMethodNotAllowed, "Method Not Allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(app, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestApplication_Metrics(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	w := serve(app, upload(t, "/api/etl", testutil.NewWorkbook(testutil.CigugurRow())))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "etl_runs_total")
	assert.Contains(t, w.Body.String(), "etl_rows_processed_total")
}

func TestApplication_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.MetricExporter = "none"
	app := newTestApp(t, cfg)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestApplication_CORS(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/etl", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(app, req)

	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplication_StartStop(t *testing.T) {
	cfg := testConfig(t)
	app := newTestApp(t, cfg)
	app.Server.Addr = "127.0.0.1:0"

	errCh := app.Start(context.Background())
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, app.Stop(context.Background()))

	select {
	case err, ok := <-errCh:
		if ok {
			assert.NoError(t, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
