package dataprocessing

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"gizietl/pkg/contracts/domain"
)

// CoordinateLookup resolves a kecamatan name to its map position
type CoordinateLookup interface {
	Lookup(name string) (domain.Coordinate, bool)
}

// AggregateByRegion rolls fact rows up per kecamatan, sorted by name.
// Percentages are recomputed from the summed counts. Rows with a blank
// kecamatan belong to no region and are left out. Regions missing from
// coords get (0, 0); coords may be nil.
func AggregateByRegion(facts []domain.FactRow, coords CoordinateLookup) []domain.RegionAggregate {
	byName := make(map[string]*domain.RegionAggregate)
	facilities := make(map[string]map[int]struct{})

	for _, f := range facts {
		if f.NamaKecamatan == "" {
			continue
		}
		agg, ok := byName[f.NamaKecamatan]
		if !ok {
			agg = &domain.RegionAggregate{NamaKecamatan: f.NamaKecamatan}
			byName[f.NamaKecamatan] = agg
			facilities[f.NamaKecamatan] = make(map[int]struct{})
		}
		agg.JumlahBalitaDitimbang += f.JumlahBalitaDitimbang
		agg.JumlahBalitaKurangGizi += f.JumlahBalitaKurangGizi
		agg.JumlahBalitaStunting += f.JumlahBalitaStunting
		agg.JumlahBalitaWasting += f.JumlahBalitaWasting
		facilities[f.NamaKecamatan][f.IDWilayah] = struct{}{}
	}

	out := make([]domain.RegionAggregate, 0, len(byName))
	for name, agg := range byName {
		agg.JumlahPuskesmas = len(facilities[name])
		agg.PersentaseKurangGizi = SafePercent(agg.JumlahBalitaKurangGizi, agg.JumlahBalitaDitimbang)
		agg.PersentaseStunting = SafePercent(agg.JumlahBalitaStunting, agg.JumlahBalitaDitimbang)
		agg.PersentaseWasting = SafePercent(agg.JumlahBalitaWasting, agg.JumlahBalitaDitimbang)
		agg.Kategori = ClassifyStunting(agg.PersentaseStunting)
		if coords != nil {
			if c, ok := coords.Lookup(name); ok {
				agg.Lat, agg.Lon = c.Lat, c.Lon
			}
		}
		out = append(out, *agg)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].NamaKecamatan < out[j].NamaKecamatan })
	return out
}

// ClassifyStunting buckets a stunting percentage into right-closed bins
// (0,5], (5,10], (10,20], (20,100]. Values outside (0,100] are uncategorized.
func ClassifyStunting(pct float64) domain.StuntingCategory {
	switch {
	case pct <= 0 || pct > 100:
		return domain.StuntingUncategorized
	case pct <= 5:
		return domain.StuntingRendah
	case pct <= 10:
		return domain.StuntingSedang
	case pct <= 20:
		return domain.StuntingTinggi
	default:
		return domain.StuntingSangatTinggi
	}
}

// CountCategories returns how many regions fall into each stunting category.
// Every category is present in the map, uncategorized regions are not counted.
func CountCategories(aggs []domain.RegionAggregate) map[domain.StuntingCategory]int {
	counts := make(map[domain.StuntingCategory]int, 4)
	for _, c := range domain.StuntingCategories() {
		counts[c] = 0
	}
	for _, a := range aggs {
		if a.Kategori != domain.StuntingUncategorized {
			counts[a.Kategori]++
		}
	}
	return counts
}

// RegionsInCategory returns the regions of one category ordered by stunting
// percentage, highest first.
func RegionsInCategory(aggs []domain.RegionAggregate, cat domain.StuntingCategory) []domain.RegionAggregate {
	var out []domain.RegionAggregate
	for _, a := range aggs {
		if a.Kategori == cat {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PersentaseStunting > out[j].PersentaseStunting })
	return out
}

// TopRegions orders a copy of aggs by metric and returns the first n.
// Ties keep name order. n <= 0 returns every region.
func TopRegions(aggs []domain.RegionAggregate, by domain.RankMetric, n int, ascending bool) []domain.RegionAggregate {
	out := make([]domain.RegionAggregate, len(aggs))
	copy(out, aggs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].NamaKecamatan < out[j].NamaKecamatan })

	if by != domain.RankByName {
		key := rankValue(by)
		sort.SliceStable(out, func(i, j int) bool {
			if ascending {
				return key(out[i]) < key(out[j])
			}
			return key(out[i]) > key(out[j])
		})
	} else if !ascending {
		sort.SliceStable(out, func(i, j int) bool { return out[i].NamaKecamatan > out[j].NamaKecamatan })
	}

	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

func rankValue(by domain.RankMetric) func(domain.RegionAggregate) float64 {
	switch by {
	case domain.RankByStunting:
		return func(a domain.RegionAggregate) float64 { return a.JumlahBalitaStunting }
	case domain.RankByDitimbang:
		return func(a domain.RegionAggregate) float64 { return a.JumlahBalitaDitimbang }
	default:
		return func(a domain.RegionAggregate) float64 { return a.PersentaseStunting }
	}
}

// FilterRegions keeps the regions whose name contains term, ignoring case
func FilterRegions(aggs []domain.RegionAggregate, term string) []domain.RegionAggregate {
	term = strings.ToUpper(strings.TrimSpace(term))
	if term == "" {
		out := make([]domain.RegionAggregate, len(aggs))
		copy(out, aggs)
		return out
	}
	var out []domain.RegionAggregate
	for _, a := range aggs {
		if strings.Contains(strings.ToUpper(a.NamaKecamatan), term) {
			out = append(out, a)
		}
	}
	return out
}

// CategoryTotals sums each category over all fact rows, grouped by family.
// Outlier columns are measurement artefacts and are left out of the breakdown.
func CategoryTotals(facts []domain.FactRow) []domain.FamilyTotals {
	var sum domain.Counts
	for _, f := range facts {
		sum = sum.Add(f.Counts)
	}

	out := make([]domain.FamilyTotals, 0, len(domain.Families()))
	for _, fam := range domain.Families() {
		ft := domain.FamilyTotals{Family: fam}
		for _, c := range domain.FamilyCategories(fam) {
			if c.ShortLabel() == "Outlier" {
				continue
			}
			ft.Categories = append(ft.Categories, domain.CategoryTotal{
				Category: c,
				Kategori: c.ShortLabel(),
				Jumlah:   sum[c],
			})
			ft.Total += sum[c]
		}
		out = append(out, ft)
	}
	return out
}

// Summarize computes the headline statistics over the regional aggregates
func Summarize(aggs []domain.RegionAggregate) domain.Summary {
	s := domain.Summary{JumlahKecamatan: len(aggs)}
	if len(aggs) == 0 {
		return s
	}

	pcts := make(stats.Float64Data, 0, len(aggs))
	highest := aggs[0]
	for _, a := range aggs {
		s.TotalBalitaDitimbang += a.JumlahBalitaDitimbang
		s.TotalStunting += a.JumlahBalitaStunting
		s.TotalKurangGizi += a.JumlahBalitaKurangGizi
		s.TotalWasting += a.JumlahBalitaWasting
		pcts = append(pcts, a.PersentaseStunting)
		if a.PersentaseStunting > highest.PersentaseStunting {
			highest = a
		}
	}

	// stats only errors on empty input, which is ruled out above
	s.RataRataStunting, _ = stats.Mean(pcts)
	s.MedianStunting, _ = stats.Median(pcts)
	s.MaxStunting, _ = stats.Max(pcts)
	s.KecamatanTertinggi = highest.NamaKecamatan
	s.PersentaseStuntingGlobal = SafePercent(s.TotalStunting, s.TotalBalitaDitimbang)
	return s
}
