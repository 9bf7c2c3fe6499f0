package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gizietl/internal/dataprocessing"
	"gizietl/internal/shared/testutil"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_ErrorToProblem(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	r := httptest.NewRequest(http.MethodPost, "/api/etl", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"canceled wrapped", fmt.Errorf("run: %w", context.Canceled), http.StatusGatewayTimeout, TypeTimeout},
		{"upload too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, TypePayloadTooLarge},
		{"api error", ErrMissingUpload, http.StatusBadRequest, TypeValidation},
		{"unsupported media", ErrUnsupportedMedia, http.StatusUnsupportedMediaType, TypeUnsupportedMedia},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests, TypeRateLimit},
		{
			"etl error",
			&dataprocessing.ETLError{Stage: dataprocessing.StageHeader, Message: "title", Cause: dataprocessing.ErrTitleRowMissing},
			http.StatusUnprocessableEntity, TypeETLFailed,
		},
		{"app storage", NewStorageError("disk", errors.New("full")), http.StatusInternalServerError, TypeInternal},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, r)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/etl", problem.Instance)
		})
	}
}

func TestErrorHandler_HandleError(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)
		assert.Equal(t, 0, w.Body.Len())
	})

	t.Run("etl failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := &dataprocessing.ETLError{Stage: dataprocessing.StageExtract, Message: "missing", Cause: dataprocessing.ErrSheetNotFound}
		h.HandleError(w, httptest.NewRequest(http.MethodPost, "/api/etl", nil), err)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeProblem(t, w)
		assert.Equal(t, CodeETLFailed, body["error_code"])
		assert.True(t, strings.HasPrefix(body["detail"].(string), "Error: [extract]"))
		details := body["details"].(map[string]any)
		assert.Equal(t, "extract", details["stage"])
		assert.Contains(t, body, "trace_id")
		assert.NotContains(t, body, "stack")

		testutil.AssertLogContains(t, handler, slog.LevelWarn, "request failed")
	})

	t.Run("server errors log at error", func(t *testing.T) {
		handler.Clear()
		w := httptest.NewRecorder()
		h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		testutil.AssertLogContains(t, handler, slog.LevelError, "request failed")
	})
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), true)
	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))
	assert.Contains(t, decodeProblem(t, w), "stack")
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	h.HandlePanic(w, httptest.NewRequest(http.MethodGet, "/api/etl", nil), "nil map write")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, body, "panic")
	testutil.AssertLogContains(t, handler, slog.LevelError, "panic recovered")
}

func TestErrorHandler_NotFoundAndMethod(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)

	w := httptest.NewRecorder()
	h.NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, w)["type"])

	w = httptest.NewRecorder()
	h.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/etl", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, decodeProblem(t, w)["detail"], "DELETE")
}

func TestErrorHandler_JSON(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	w := httptest.NewRecorder()
	h.JSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusAccepted, map[string]string{"a": "b"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"a":"b"}`, w.Body.String())
}
