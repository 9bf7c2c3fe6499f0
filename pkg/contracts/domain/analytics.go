package domain

import (
	"fmt"
	"strings"
)

// StuntingCategory buckets a region by its stunting prevalence
type StuntingCategory string

const (
	StuntingRendah        StuntingCategory = "Rendah (<5%)"
	StuntingSedang        StuntingCategory = "Sedang (5-10%)"
	StuntingTinggi        StuntingCategory = "Tinggi (10-20%)"
	StuntingSangatTinggi  StuntingCategory = "Sangat Tinggi (>20%)"
	StuntingUncategorized StuntingCategory = ""
)

// StuntingCategories returns the categories from lowest to highest prevalence
func StuntingCategories() []StuntingCategory {
	return []StuntingCategory{StuntingRendah, StuntingSedang, StuntingTinggi, StuntingSangatTinggi}
}

// stuntingCategoryKeys are the short query names of each category
var stuntingCategoryKeys = map[string]StuntingCategory{
	"rendah":        StuntingRendah,
	"sedang":        StuntingSedang,
	"tinggi":        StuntingTinggi,
	"sangat_tinggi": StuntingSangatTinggi,
}

// ParseStuntingCategory accepts a short key such as "sangat_tinggi" or a full
// label such as "Tinggi (10-20%)". Matching ignores case.
func ParseStuntingCategory(s string) (StuntingCategory, bool) {
	s = strings.TrimSpace(s)
	if cat, ok := stuntingCategoryKeys[strings.ToLower(s)]; ok {
		return cat, true
	}
	for _, cat := range StuntingCategories() {
		if strings.EqualFold(string(cat), s) {
			return cat, true
		}
	}
	return StuntingUncategorized, false
}

// RegionAggregate is the per-kecamatan roll-up of the fact table
type RegionAggregate struct {
	NamaKecamatan          string           `json:"nama_kecamatan"`
	JumlahPuskesmas        int              `json:"jumlah_puskesmas"`
	JumlahBalitaDitimbang  float64          `json:"jumlah_balita_ditimbang"`
	JumlahBalitaKurangGizi float64          `json:"jumlah_balita_kurang_gizi"`
	JumlahBalitaStunting   float64          `json:"jumlah_balita_stunting"`
	JumlahBalitaWasting    float64          `json:"jumlah_balita_wasting"`
	PersentaseKurangGizi   float64          `json:"persentase_kurang_gizi"`
	PersentaseStunting     float64          `json:"persentase_stunting"`
	PersentaseWasting      float64          `json:"persentase_wasting"`
	Lat                    float64          `json:"lat"`
	Lon                    float64          `json:"lon"`
	Kategori               StuntingCategory `json:"kategori_stunting,omitempty"`
}

// RankMetric selects the column used to order region aggregates
type RankMetric string

const (
	RankByName        RankMetric = "nama_kecamatan"
	RankByStuntingPct RankMetric = "persentase_stunting"
	RankByStunting    RankMetric = "jumlah_balita_stunting"
	RankByDitimbang   RankMetric = "jumlah_balita_ditimbang"
)

// Valid reports whether m is a supported ranking column
func (m RankMetric) Valid() bool {
	switch m {
	case RankByName, RankByStuntingPct, RankByStunting, RankByDitimbang:
		return true
	}
	return false
}

// CategoryTotal is the summed count of one category over all fact rows
type CategoryTotal struct {
	Category Category `json:"-"`
	Kategori string   `json:"kategori"`
	Jumlah   float64  `json:"jumlah"`
}

// FamilyTotals groups category totals by measurement family
type FamilyTotals struct {
	Family     Family          `json:"family"`
	Total      float64         `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}

// Summary is the headline statistics block of a run
type Summary struct {
	TotalBalitaDitimbang     float64 `json:"total_balita_ditimbang"`
	TotalStunting            float64 `json:"total_stunting"`
	TotalKurangGizi          float64 `json:"total_kurang_gizi"`
	TotalWasting             float64 `json:"total_wasting"`
	RataRataStunting         float64 `json:"rata_rata_persentase_stunting"`
	MedianStunting           float64 `json:"median_persentase_stunting"`
	MaxStunting              float64 `json:"max_persentase_stunting"`
	JumlahKecamatan          int     `json:"jumlah_kecamatan"`
	KecamatanTertinggi       string  `json:"kecamatan_tertinggi,omitempty"`
	PersentaseStuntingGlobal float64 `json:"persentase_stunting_global"`
}

// SummaryRow is one Indikator/Nilai line of the summary report
type SummaryRow struct {
	Indikator string `json:"indikator"`
	Nilai     string `json:"nilai"`
}

// Rows renders the summary as report lines. Counts are whole numbers.
func (s Summary) Rows() []SummaryRow {
	return []SummaryRow{
		{"Total Balita Ditimbang", fmt.Sprintf("%d", int64(s.TotalBalitaDitimbang))},
		{"Total Stunting", fmt.Sprintf("%d", int64(s.TotalStunting))},
		{"Persentase Stunting Rata-rata", fmt.Sprintf("%.2f%%", s.RataRataStunting)},
		{"Total Kurang Gizi", fmt.Sprintf("%d", int64(s.TotalKurangGizi))},
		{"Total Wasting", fmt.Sprintf("%d", int64(s.TotalWasting))},
		{"Jumlah Kecamatan", fmt.Sprintf("%d", s.JumlahKecamatan)},
	}
}

// Coordinate is a WGS84 point
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
