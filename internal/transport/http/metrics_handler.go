package http

import (
	"net/http"

	apierrors "gizietl/internal/errors"
)

// MetricsHandler serves the Prometheus scrape endpoint
type MetricsHandler struct {
	exporter     http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler wraps the exporter's HTTP handler. A nil exporter means
// metrics are disabled and the endpoint answers 503.
func NewMetricsHandler(exporter http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter, errorHandler: errorHandler}
}

// Enabled reports whether a metrics exporter is configured
func (h *MetricsHandler) Enabled() bool {
	return h.exporter != nil
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusServiceUnavailable,
			apierrors.CodeUnavailable,
			"Metrics exporter is disabled",
			map[string]string{"metric_exporter": "none"},
		))
		return
	}
	h.exporter.ServeHTTP(w, r)
}
