// Package api contains the HTTP contract of the status gizi ETL service.
// Version v1 is the current API version.
package api

import (
	"gizietl/pkg/contracts/domain"
)

// Response statuses
const (
	StatusSuccess = "success"
)

// Ranking orders
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// RankingRequest holds the query parameters of POST /api/etl/ranking
type RankingRequest struct {
	By    string `json:"by" query:"by" validate:"omitempty,oneof=nama_kecamatan persentase_stunting jumlah_balita_stunting jumlah_balita_ditimbang"`
	Order string `json:"order" query:"order" validate:"omitempty,oneof=asc desc"`
	Limit int    `json:"limit" query:"limit" validate:"gte=0,lte=32"`

	// Search filters kecamatan names by substring
	Search string `json:"q,omitempty" query:"q" validate:"omitempty,max=64"`
	// Kategori filters by stunting category, e.g. "tinggi" or "sangat_tinggi"
	Kategori string `json:"kategori,omitempty" query:"kategori" validate:"omitempty,max=32"`
}

// DefaultRankingRequest ranks by stunting prevalence, highest first
func DefaultRankingRequest() RankingRequest {
	return RankingRequest{By: string(domain.RankByStuntingPct), Order: OrderDesc}
}

// Ascending reports whether the ranking is lowest first
func (r RankingRequest) Ascending() bool {
	return r.Order == OrderAsc
}

// ProcessData is the payload of a successful POST /api/etl
type ProcessData struct {
	Fact       *domain.FactTable               `json:"fact"`
	Wilayah    []domain.RegionDimension        `json:"wilayah"`
	Waktu      []domain.TimeDimension          `json:"waktu"`
	Agregat    []domain.RegionAggregate        `json:"agregat"`
	Ringkasan  []domain.SummaryRow             `json:"ringkasan"`
	Statistik  domain.Summary                  `json:"statistik"`
	Kategori   map[domain.StuntingCategory]int `json:"kategori"`
	Distribusi []domain.FamilyTotals           `json:"distribusi"`
	Stats      domain.ETLStats                 `json:"stats"`
}

// ProcessResponse is the body of a successful POST /api/etl
type ProcessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    ProcessData `json:"data"`
}

// RankingResponse is the body of a successful POST /api/etl/ranking
type RankingResponse struct {
	Status string                   `json:"status"`
	Data   []domain.RegionAggregate `json:"data"`
	Count  int                      `json:"count"`
	By     string                   `json:"by"`
	Order  string                   `json:"order"`
}

// Region is one kecamatan of the coordinate reference table
type Region struct {
	NamaKecamatan string  `json:"nama_kecamatan"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
}

// RegionsResponse is the body of GET /api/regions
type RegionsResponse struct {
	Status string   `json:"status"`
	Data   []Region `json:"data"`
	Count  int      `json:"count"`
}
