package dataprocessing

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"gizietl/pkg/contracts/domain"
)

var (
	separatorPattern  = regexp.MustCompile(`[\s()\-]`)
	underscoreRunning = regexp.MustCompile(`_+`)
)

// NormalizeColumnName turns a source label into a lowercase, underscore
// separated identifier: "BB/U Sangat Kurang" becomes "bb_per_u_sangat_kurang".
// Applying it to its own output returns the same string.
func NormalizeColumnName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "/", "_per_")
	name = strings.ReplaceAll(name, "%", "persen")
	name = separatorPattern.ReplaceAllString(name, "_")
	name = underscoreRunning.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// Fact table column names that are not derived from a category label
const (
	ColNamaKecamatan          = "nama_kecamatan"
	ColIDWaktu                = "id_waktu"
	ColJumlahBalitaDitimbang  = "jumlah_balita_ditimbang"
	ColJumlahBalitaKurangGizi = "jumlah_balita_kurang_gizi"
	ColPersentaseKurangGizi   = "persentase_kurang_gizi"
	ColJumlahBalitaStunting   = "jumlah_balita_stunting"
	ColPersentaseStunting     = "persentase_stunting"
	ColJumlahBalitaWasting    = "jumlah_balita_wasting"
	ColPersentaseWasting      = "persentase_wasting"
)

// CategoryColumn returns the normalized fact column name of a category
func CategoryColumn(c domain.Category) string {
	return NormalizeColumnName(c.SourceLabel())
}

// FactColumns returns the ordered column names of the fact table: the two
// keys, the seven derived metrics, then the seventeen category counts.
func FactColumns() []string {
	cols := []string{
		ColNamaKecamatan,
		ColIDWaktu,
		ColJumlahBalitaDitimbang,
		ColJumlahBalitaKurangGizi,
		ColPersentaseKurangGizi,
		ColJumlahBalitaStunting,
		ColPersentaseStunting,
		ColJumlahBalitaWasting,
		ColPersentaseWasting,
	}
	for _, c := range domain.Categories() {
		cols = append(cols, CategoryColumn(c))
	}
	return cols
}

// FinalizeFacts projects joined rows onto the fact schema. Every numeric
// value must be finite.
func FinalizeFacts(rows []domain.FactRow) (*domain.FactTable, error) {
	cols := FactColumns()
	for _, r := range rows {
		for i, v := range r.Values() {
			f, ok := v.(float64)
			if !ok {
				continue
			}
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, newETLError(StageFinalize, ErrNonFiniteValue,
					"%s = %s in kecamatan %q", cols[i], fmt.Sprint(f), r.NamaKecamatan)
			}
		}
	}

	out := make([]domain.FactRow, len(rows))
	copy(out, rows)
	return &domain.FactTable{Columns: cols, Rows: out}, nil
}
