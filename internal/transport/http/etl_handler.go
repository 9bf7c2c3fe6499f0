package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/attribute"

	apierrors "gizietl/internal/errors"
	"gizietl/internal/exporter"
	"gizietl/internal/middleware"
	"gizietl/internal/services"
	api "gizietl/pkg/contracts/api/v1"
	"gizietl/pkg/contracts/domain"
)

// UploadField is the multipart field carrying the workbook
const UploadField = "file"

// uploadSource labels HTTP runs in metrics
const uploadSource = "upload"

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temporary file
const multipartMemory = 8 << 20

// ETLHandler handles workbook uploads with RFC 7807 errors
type ETLHandler struct {
	service      ETLServiceInterface
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	bom          bool
	logger       *slog.Logger
}

// NewETLHandler creates a new ETL handler. bom prefixes CSV downloads with a
// UTF-8 byte order mark.
func NewETLHandler(service ETLServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, bom bool, logger *slog.Logger) *ETLHandler {
	return &ETLHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		bom:          bom,
		logger:       logger.With(slog.String("component", "etl_handler")),
	}
}

// Routes returns the ETL routes
func (h *ETLHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"))

	r.Post("/", h.Process)
	r.Post("/ranking", h.Ranking)
	r.Post("/export/{table}", h.ExportTable)
	return r
}

// Process handles POST /api/etl
func (h *ETLHandler) Process(w http.ResponseWriter, r *http.Request) {
	file, name, err := h.upload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer file.Close()

	middleware.AddSpanAttributes(r, attribute.String("upload.filename", name))
	h.logger.InfoContext(r.Context(), "processing upload",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("filename", name))

	report, err := h.service.Process(r.Context(), file, uploadSource)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res := report.Result
	render.JSON(w, r, api.ProcessResponse{
		Status:  api.StatusSuccess,
		Message: res.Message,
		Data: api.ProcessData{
			Fact:       res.Fact,
			Wilayah:    res.Regions,
			Waktu:      res.Time,
			Agregat:    report.Aggregates,
			Ringkasan:  report.Summary.Rows(),
			Statistik:  report.Summary,
			Kategori:   report.Kategori,
			Distribusi: report.Categories,
			Stats:      res.Stats,
		},
	})
}

// ExportTable handles POST /api/etl/export/{table} and streams the table as CSV
func (h *ETLHandler) ExportTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if _, err := exporter.ParseTableName(table); err != nil {
		h.fail(w, r, err)
		return
	}

	file, _, err := h.upload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer file.Close()

	t, err := h.service.ExportTable(r.Context(), file, uploadSource, table)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.Name.FileName()))
	w.WriteHeader(http.StatusOK)
	if err := exporter.WriteTable(w, t, h.bom); err != nil {
		// Headers are already sent
		h.logger.ErrorContext(r.Context(), "failed to stream table",
			slog.String("table", table),
			slog.String("error", err.Error()))
	}
}

// Ranking handles POST /api/etl/ranking?by=&order=&limit=&q=&kategori=
func (h *ETLHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	q := api.DefaultRankingRequest()
	if err := h.validator.BindQuery(r.URL.Query(), &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	file, _, err := h.upload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer file.Close()

	rows, err := h.service.Ranking(r.Context(), file, uploadSource, services.RankingQuery{
		By:        domain.RankMetric(q.By),
		Ascending: q.Ascending(),
		Limit:     q.Limit,
		Search:    q.Search,
		Kategori:  q.Kategori,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.JSON(w, r, api.RankingResponse{
		Status: api.StatusSuccess,
		Data:   rows,
		Count:  len(rows),
		By:     q.By,
		Order:  q.Order,
	})
}

// Regions handles GET /api/regions
func (h *ETLHandler) Regions(w http.ResponseWriter, r *http.Request) {
	entries := h.service.Regions()
	regions := make([]api.Region, 0, len(entries))
	for _, e := range entries {
		regions = append(regions, api.Region{NamaKecamatan: e.NamaKecamatan, Lat: e.Lat, Lon: e.Lon})
	}
	render.JSON(w, r, api.RegionsResponse{
		Status: api.StatusSuccess,
		Data:   regions,
		Count:  len(regions),
	})
}

// upload returns the workbook of the multipart field "file"
func (h *ETLHandler) upload(r *http.Request) (multipart.File, string, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, "", apierrors.ErrUnsupportedMedia
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, "", err
		}
		return nil, "", apierrors.InvalidRequestWithError(err)
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", services.ErrNoUpload
		}
		return nil, "", apierrors.InvalidRequestWithError(err)
	}
	if err := h.validator.ValidateVar(UploadField, header.Filename, "filename,xlsx"); err != nil {
		file.Close()
		return nil, "", err
	}
	return file, header.Filename, nil
}

// fail maps service errors to API errors. ETL failures pass through and
// become 422 responses in the error handler.
func (h *ETLHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNoUpload):
		err = apierrors.ErrMissingUpload
	case errors.Is(err, services.ErrUnknownTable):
		err = apierrors.NotFoundError(fmt.Sprintf("table %q", chi.URLParam(r, "table")))
	case errors.Is(err, services.ErrInvalidRankMetric):
		err = apierrors.ErrValidation("by", err.Error())
	case errors.Is(err, services.ErrInvalidCategory):
		err = apierrors.ErrValidation("kategori", err.Error())
	case errors.Is(err, services.ErrRenderFailed):
		err = apierrors.ExportFailed(chi.URLParam(r, "table"), err)
	}
	h.errorHandler.HandleError(w, r, err)
}
