package dataprocessing

import (
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gizietl/internal/shared/testutil"
	"gizietl/pkg/contracts/domain"
)

func TestCleanFacilityName(t *testing.T) {
	tests := map[string]string{
		"1. Cigugur":      "CIGUGUR",
		"12.Kuningan ":    "KUNINGAN",
		"  ciawigebang":   "CIAWIGEBANG",
		"3.   pkm darma":  "PKM DARMA",
		"PKM 2. Luragung": "PKM 2. LURAGUNG",
		"":                "",
		"4. ":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanFacilityName(in), "input %q", in)
	}
}

func TestCoerceNumericOrZero(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"12", 12, true},
		{" 7 ", 7, true},
		{"3.5", 3.5, true},
		{"1e2", 100, true},
		{"-4", -4, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"1,234", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-Infinity", 0, false},
	}
	for _, tt := range tests {
		got, ok := CoerceNumericOrZero(tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
	}
}

func TestSafePercent(t *testing.T) {
	assert.Equal(t, 0.0, SafePercent(5, 0))
	assert.Equal(t, 0.0, SafePercent(0, 0))
	assert.Equal(t, 25.0, SafePercent(1, 4))
	assert.Equal(t, 0.0, SafePercent(math.Inf(1), 4))
	assert.Equal(t, 0.0, SafePercent(math.NaN(), 4))
	assert.InDelta(t, 33.333, SafePercent(1, 3), 0.001)
}

func TestDeriveMetrics(t *testing.T) {
	var c domain.Counts
	c[domain.BBUSangatKurang] = 2
	c[domain.BBUKurang] = 8
	c[domain.BBUNormal] = 80
	c[domain.BBURisikoLebih] = 5
	c[domain.BBUOutlier] = 5
	c[domain.TBUSangatPendek] = 5
	c[domain.TBUPendek] = 10
	c[domain.BBTBGiziBuruk] = 1
	c[domain.BBTBGiziKurang] = 4

	m := DeriveMetrics(c)
	assert.Equal(t, 100.0, m.JumlahBalitaDitimbang)
	assert.Equal(t, 10.0, m.JumlahBalitaKurangGizi)
	assert.Equal(t, 10.0, m.PersentaseKurangGizi)
	assert.Equal(t, 15.0, m.JumlahBalitaStunting)
	assert.Equal(t, 15.0, m.PersentaseStunting)
	assert.Equal(t, 5.0, m.JumlahBalitaWasting)
	assert.Equal(t, 5.0, m.PersentaseWasting)
}

func TestDeriveMetrics_ZeroWeighed(t *testing.T) {
	var c domain.Counts
	c[domain.TBUSangatPendek] = 3
	c[domain.BBTBGiziKurang] = 2

	m := DeriveMetrics(c)
	assert.Equal(t, 0.0, m.JumlahBalitaDitimbang)
	assert.Equal(t, 3.0, m.JumlahBalitaStunting)
	assert.Equal(t, 0.0, m.PersentaseStunting)
	assert.Equal(t, 0.0, m.PersentaseWasting)
	assert.Equal(t, 0.0, m.PersentaseKurangGizi)
}

func rawRow(line int, puskesmas, kecamatan string, cells ...string) domain.RawRow {
	r := domain.RawRow{Line: line, Puskesmas: puskesmas, Kecamatan: kecamatan}
	copy(r.Cells[:], cells)
	return r
}

func TestTransformRows(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	res := TransformRows([]domain.RawRow{
		rawRow(6, "1. Cigugur", "CIGUGUR", "10", "x", " 5 "),
		rawRow(7, "2. kuningan ", " Kuningan ", "", "4"),
	}, logger)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, 1, res.CellsCoerced)

	first := res.Rows[0]
	assert.Equal(t, domain.RegionKey{Puskesmas: "CIGUGUR", Kecamatan: "CIGUGUR"}, first.Key)
	assert.Equal(t, 10.0, first.Counts[domain.BBUSangatKurang])
	assert.Equal(t, 0.0, first.Counts[domain.BBUKurang])
	assert.Equal(t, 5.0, first.Counts[domain.BBUNormal])
	assert.Equal(t, 15.0, first.Metrics.JumlahBalitaDitimbang)

	// region names are kept verbatim
	assert.Equal(t, " Kuningan ", res.Rows[1].Key.Kecamatan)
	assert.Equal(t, "KUNINGAN", res.Rows[1].Key.Puskesmas)

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Non-numeric count coerced to zero")
	assert.True(t, handler.ContainsAttr("column", "BB/U Kurang"))
}

func TestBuildRegionDimension(t *testing.T) {
	rows := []EnrichedRow{
		{Key: domain.RegionKey{Puskesmas: "A", Kecamatan: "K1"}},
		{Key: domain.RegionKey{Puskesmas: "B", Kecamatan: "K1"}},
		{Key: domain.RegionKey{Puskesmas: "A", Kecamatan: "K1"}},
		{Key: domain.RegionKey{Puskesmas: "A", Kecamatan: "K2"}},
	}

	regions := BuildRegionDimension(rows)
	assert.Equal(t, []domain.RegionDimension{
		{IDWilayah: 1, NamaPuskesmas: "A", NamaKecamatan: "K1"},
		{IDWilayah: 2, NamaPuskesmas: "B", NamaKecamatan: "K1"},
		{IDWilayah: 3, NamaPuskesmas: "A", NamaKecamatan: "K2"},
	}, regions)

	// same input, same keys
	assert.Equal(t, regions, BuildRegionDimension(rows))
}

func TestBuildRegionDimension_Empty(t *testing.T) {
	regions := BuildRegionDimension(nil)
	assert.NotNil(t, regions)
	assert.Empty(t, regions)
}

func TestJoinRegions(t *testing.T) {
	rows := []EnrichedRow{
		{Line: 6, Key: domain.RegionKey{Puskesmas: "A", Kecamatan: "K1"}, Metrics: domain.NutritionMetrics{JumlahBalitaDitimbang: 10}},
		{Line: 7, Key: domain.RegionKey{Puskesmas: "B", Kecamatan: "K2"}},
		{Line: 8, Key: domain.RegionKey{Puskesmas: "A", Kecamatan: "K1"}},
	}

	t.Run("every row matches", func(t *testing.T) {
		facts, unmatched, err := JoinRegions(rows, BuildRegionDimension(rows), JoinLenient)
		require.NoError(t, err)
		assert.Empty(t, unmatched)
		require.Len(t, facts, 3)
		assert.Equal(t, "K1", facts[0].NamaKecamatan)
		assert.Equal(t, domain.TimeKey, facts[0].IDWaktu)
		assert.Equal(t, 1, facts[0].IDWilayah)
		assert.Equal(t, 2, facts[1].IDWilayah)
		assert.Equal(t, 1, facts[2].IDWilayah)
		assert.Equal(t, 10.0, facts[0].JumlahBalitaDitimbang)
	})

	incomplete := []domain.RegionDimension{{IDWilayah: 1, NamaPuskesmas: "A", NamaKecamatan: "K1"}}

	t.Run("lenient drops unmatched rows", func(t *testing.T) {
		facts, unmatched, err := JoinRegions(rows, incomplete, JoinLenient)
		require.NoError(t, err)
		assert.Len(t, facts, 2)
		require.Len(t, unmatched, 1)
		assert.Equal(t, 7, unmatched[0].Line)
	})

	t.Run("strict fails on unmatched rows", func(t *testing.T) {
		facts, _, err := JoinRegions(rows, incomplete, JoinStrict)
		require.Error(t, err)
		assert.Nil(t, facts)
		assert.True(t, errors.Is(err, ErrUnmatchedRegion))
		stage, ok := StageOf(err)
		assert.True(t, ok)
		assert.Equal(t, StageJoin, stage)
		assert.Contains(t, err.Error(), "row 7")
	})
}
