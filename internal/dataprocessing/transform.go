package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gizietl/pkg/contracts/domain"
)

// leadingNumbering matches list prefixes such as "12. " in facility names
var leadingNumbering = regexp.MustCompile(`^\d+\.\s*`)

// CleanFacilityName strips a leading "N." prefix, trims and upper-cases the name
func CleanFacilityName(name string) string {
	name = leadingNumbering.ReplaceAllString(name, "")
	return strings.ToUpper(strings.TrimSpace(name))
}

// CoerceNumericOrZero parses a count cell. Blank, unparsable and non-finite
// values become 0 and report false.
func CoerceNumericOrZero(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// SafePercent returns part/whole*100, or 0 when whole is 0 or the result is not finite
func SafePercent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	pct := part / whole * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}

// DeriveMetrics computes the weighed total and the three prevalence indicators
func DeriveMetrics(c domain.Counts) domain.NutritionMetrics {
	ditimbang := c.Sum(domain.FamilyCategories(domain.FamilyWeightForAge)...)
	kurangGizi := c.Sum(domain.BBUSangatKurang, domain.BBUKurang)
	stunting := c.Sum(domain.TBUSangatPendek, domain.TBUPendek)
	wasting := c.Sum(domain.BBTBGiziBuruk, domain.BBTBGiziKurang)

	return domain.NutritionMetrics{
		JumlahBalitaDitimbang:  ditimbang,
		JumlahBalitaKurangGizi: kurangGizi,
		PersentaseKurangGizi:   SafePercent(kurangGizi, ditimbang),
		JumlahBalitaStunting:   stunting,
		PersentaseStunting:     SafePercent(stunting, ditimbang),
		JumlahBalitaWasting:    wasting,
		PersentaseWasting:      SafePercent(wasting, ditimbang),
	}
}

// EnrichedRow is a data row with clean keys, numeric counts and derived metrics
type EnrichedRow struct {
	Line    int
	Key     domain.RegionKey
	Counts  domain.Counts
	Metrics domain.NutritionMetrics
}

// TransformResult carries the enriched rows and the number of coerced cells
type TransformResult struct {
	Rows         []EnrichedRow
	CellsCoerced int
}

// TransformRows cleans names, coerces counts and derives metrics for every row.
// Cells that were non-empty but could not be parsed are logged and counted.
func TransformRows(raw []domain.RawRow, logger *slog.Logger) TransformResult {
	if logger == nil {
		logger = discardLogger()
	}

	res := TransformResult{Rows: make([]EnrichedRow, 0, len(raw))}
	for _, r := range raw {
		var counts domain.Counts
		for _, cat := range domain.Categories() {
			cell := r.Cells[cat]
			v, ok := CoerceNumericOrZero(cell)
			if !ok && strings.TrimSpace(cell) != "" {
				res.CellsCoerced++
				logger.Warn("Non-numeric count coerced to zero",
					slog.Int("line", r.Line),
					slog.String("column", cat.SourceLabel()),
					slog.String("value", cell))
			}
			counts[cat] = v
		}

		res.Rows = append(res.Rows, EnrichedRow{
			Line: r.Line,
			Key: domain.RegionKey{
				Puskesmas: CleanFacilityName(r.Puskesmas),
				Kecamatan: r.Kecamatan,
			},
			Counts:  counts,
			Metrics: DeriveMetrics(counts),
		})
	}
	return res
}

// BuildRegionDimension assigns 1-based ids to the distinct region keys in
// order of first appearance.
func BuildRegionDimension(rows []EnrichedRow) []domain.RegionDimension {
	seen := make(map[domain.RegionKey]struct{}, len(rows))
	regions := make([]domain.RegionDimension, 0)
	for _, r := range rows {
		if _, ok := seen[r.Key]; ok {
			continue
		}
		seen[r.Key] = struct{}{}
		regions = append(regions, domain.RegionDimension{
			IDWilayah:     len(regions) + 1,
			NamaPuskesmas: r.Key.Puskesmas,
			NamaKecamatan: r.Key.Kecamatan,
		})
	}
	return regions
}

// JoinRegions inner-joins rows to regions on the natural key, keeping row
// order. In lenient mode unmatched rows are returned separately; in strict
// mode the first unmatched row fails the join.
func JoinRegions(rows []EnrichedRow, regions []domain.RegionDimension, mode JoinMode) ([]domain.FactRow, []EnrichedRow, error) {
	index := make(map[domain.RegionKey]int, len(regions))
	for _, reg := range regions {
		if _, dup := index[reg.Key()]; !dup {
			index[reg.Key()] = reg.IDWilayah
		}
	}

	facts := make([]domain.FactRow, 0, len(rows))
	var unmatched []EnrichedRow
	for _, r := range rows {
		id, ok := index[r.Key]
		if !ok {
			if mode == JoinStrict {
				return nil, nil, newETLError(StageJoin, ErrUnmatchedRegion, "%s", r)
			}
			unmatched = append(unmatched, r)
			continue
		}
		facts = append(facts, domain.FactRow{
			NamaKecamatan:    r.Key.Kecamatan,
			IDWaktu:          domain.TimeKey,
			NutritionMetrics: r.Metrics,
			Counts:           r.Counts,
			IDWilayah:        id,
		})
	}
	return facts, unmatched, nil
}

func (r EnrichedRow) String() string {
	return fmt.Sprintf("row %d (%s / %s)", r.Line, r.Key.Puskesmas, r.Key.Kecamatan)
}
