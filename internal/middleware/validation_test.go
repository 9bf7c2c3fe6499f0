package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "gizietl/internal/errors"
	"gizietl/internal/shared/testutil"
)

type rankingQuery struct {
	By    string `query:"by" validate:"required,oneof=persentase_stunting nama_kecamatan"`
	Order string `query:"order" validate:"oneof=asc desc"`
	Limit int    `query:"limit" validate:"gte=0,lte=32"`
	Raw   bool   `query:"raw"`
}

func TestValidator_BindQuery(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		query     string
		want      rankingQuery
		wantField string
	}{
		{
			name:  "defaults kept",
			query: "by=nama_kecamatan",
			want:  rankingQuery{By: "nama_kecamatan", Order: "desc", Limit: 5},
		},
		{
			name:  "all set",
			query: "by=persentase_stunting&order=asc&limit=10&raw=true",
			want:  rankingQuery{By: "persentase_stunting", Order: "asc", Limit: 10, Raw: true},
		},
		{name: "bad enum", query: "by=wasting", wantField: "by"},
		{name: "limit too large", query: "by=nama_kecamatan&limit=99", wantField: "limit"},
		{name: "limit not a number", query: "by=nama_kecamatan&limit=ten", wantField: "limit"},
		{name: "bad bool", query: "by=nama_kecamatan&raw=maybe", wantField: "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got := rankingQuery{Order: "desc", Limit: 5}
			err = v.BindQuery(values, &got)

			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			apiErr, ok := apierrors.AsAPIError(err)
			require.True(t, ok, "want *APIError, got %v", err)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			switch d := apiErr.Details.(type) {
			case apierrors.ValidationErrors:
				require.NotEmpty(t, d.Errors)
				assert.Equal(t, tt.wantField, d.Errors[0].Field)
			case apierrors.ValidationError:
				assert.Equal(t, tt.wantField, d.Field)
			default:
				t.Fatalf("unexpected details %T", d)
			}
		})
	}

	assert.Error(t, v.BindQuery(url.Values{}, rankingQuery{}))
}

func TestValidator_ValidateVar(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateVar("file", "status_gizi.XLSX", "required,xlsx,filename"))

	err := v.ValidateVar("file", "report.csv", "required,xlsx")
	apiErr, ok := apierrors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "file must be an .xlsx workbook", apiErr.Details.(apierrors.ValidationError).Message)

	assert.Error(t, v.ValidateVar("file", "../x.xlsx", "filename"))
	assert.Error(t, v.ValidateVar("file", "", "required"))
}

func TestContentTypeValidator(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := ContentTypeValidator(apierrors.NewErrorHandler(logger, false), "multipart/form-data")(okHandler())

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"multipart accepted", http.MethodPost, "multipart/form-data; boundary=xyz", http.StatusOK},
		{"json rejected", http.MethodPost, "application/json", http.StatusUnsupportedMediaType},
		{"missing rejected", http.MethodPost, "", http.StatusUnsupportedMediaType},
		{"get skipped", http.MethodGet, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/api/etl", nil)
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
