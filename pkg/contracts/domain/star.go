package domain

import (
	"encoding/json"
	"time"
)

// TimeKey is the surrogate key of the single time-dimension row produced per run
const TimeKey = 1

// TimeDimension is the report snapshot time parsed from the sheet title
type TimeDimension struct {
	IDWaktu int    `json:"id_waktu"`
	Tahun   int    `json:"tahun"`
	Bulan   string `json:"bulan"`
	Tanggal int    `json:"tanggal"`
	Jam     int    `json:"jam"`
	Menit   int    `json:"menit"`
}

// RegionDimension is one distinct (facility, region) pair
type RegionDimension struct {
	IDWilayah     int    `json:"id_wilayah"`
	NamaPuskesmas string `json:"nama_puskesmas"`
	NamaKecamatan string `json:"nama_kecamatan"`
}

// RegionKey is the natural key shared by the region dimension and the fact rows
type RegionKey struct {
	Puskesmas string
	Kecamatan string
}

// Key returns the natural key of the region
func (r RegionDimension) Key() RegionKey {
	return RegionKey{Puskesmas: r.NamaPuskesmas, Kecamatan: r.NamaKecamatan}
}

// NutritionMetrics are the values derived from a row's category counts
type NutritionMetrics struct {
	JumlahBalitaDitimbang  float64 `json:"jumlah_balita_ditimbang"`
	JumlahBalitaKurangGizi float64 `json:"jumlah_balita_kurang_gizi"`
	PersentaseKurangGizi   float64 `json:"persentase_kurang_gizi"`
	JumlahBalitaStunting   float64 `json:"jumlah_balita_stunting"`
	PersentaseStunting     float64 `json:"persentase_stunting"`
	JumlahBalitaWasting    float64 `json:"jumlah_balita_wasting"`
	PersentaseWasting      float64 `json:"persentase_wasting"`
}

// Values returns the metrics in fact-table column order
func (m NutritionMetrics) Values() []float64 {
	return []float64{
		m.JumlahBalitaDitimbang,
		m.JumlahBalitaKurangGizi,
		m.PersentaseKurangGizi,
		m.JumlahBalitaStunting,
		m.PersentaseStunting,
		m.JumlahBalitaWasting,
		m.PersentaseWasting,
	}
}

// FactRow is one facility row joined to its region and time keys
type FactRow struct {
	NamaKecamatan string
	IDWaktu       int
	NutritionMetrics
	Counts Counts

	// IDWilayah links the row to its region dimension entry. It is not part
	// of the exported column set.
	IDWilayah int
}

// Values returns the row in fact-table column order
func (f FactRow) Values() []any {
	out := make([]any, 0, 2+7+NumCategories)
	out = append(out, f.NamaKecamatan, f.IDWaktu)
	for _, v := range f.NutritionMetrics.Values() {
		out = append(out, v)
	}
	for _, v := range f.Counts {
		out = append(out, v)
	}
	return out
}

// FactTable is the finalized fact table with its normalized column names
type FactTable struct {
	Columns []string
	Rows    []FactRow
}

// Len returns the number of rows
func (t *FactTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// MarshalJSON encodes the table column-oriented so that column order survives:
// {"columns":[...],"rows":[[...],...]}
func (t *FactTable) MarshalJSON() ([]byte, error) {
	rows := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Values()
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}{Columns: t.Columns, Rows: rows})
}

// ETLStats summarizes the self-healing events of one run
type ETLStats struct {
	SheetRows        int  `json:"sheet_rows"`
	DataRows         int  `json:"data_rows"`
	BlankRowsSkipped int  `json:"blank_rows_skipped"`
	RowsPadded       int  `json:"rows_padded"`
	RowsTruncated    int  `json:"rows_truncated"`
	CellsCoerced     int  `json:"cells_coerced"`
	RowsDropped      int  `json:"rows_dropped"`
	TimestampFound   bool `json:"timestamp_found"`
}

// ETLResult is the outcome of one ETL invocation. On failure Success is false,
// Message carries the cause and the three tables are all nil.
type ETLResult struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Fact     *FactTable        `json:"fact,omitempty"`
	Regions  []RegionDimension `json:"wilayah,omitempty"`
	Time     []TimeDimension   `json:"waktu,omitempty"`
	Stats    ETLStats          `json:"stats"`
	Duration time.Duration     `json:"duration_ns"`
}

// HasTables reports whether all three output tables are present
func (r *ETLResult) HasTables() bool {
	return r != nil && r.Fact != nil && r.Regions != nil && r.Time != nil
}
