package exporter

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gizietl/pkg/contracts/domain"
)

// TableName identifies one exportable table
type TableName string

const (
	TableFact      TableName = "fact"
	TableWilayah   TableName = "wilayah"
	TableWaktu     TableName = "waktu"
	TableAgregat   TableName = "agregat"
	TableRingkasan TableName = "ringkasan"
)

// ErrUnknownTable is returned for a table name outside TableNames
var ErrUnknownTable = errors.New("unknown table")

// ErrNoData is returned when the bundle holds no ETL output
var ErrNoData = errors.New("no ETL output to export")

var fileNames = map[TableName]string{
	TableFact:      "fact_gizi_balita.csv",
	TableWilayah:   "dim_wilayah.csv",
	TableWaktu:     "dim_waktu.csv",
	TableAgregat:   "data_agregat_kecamatan.csv",
	TableRingkasan: "ringkasan_statistik.csv",
}

// TableNames lists the exportable tables in export order
func TableNames() []TableName {
	return []TableName{TableFact, TableWilayah, TableWaktu, TableAgregat, TableRingkasan}
}

// ParseTableName validates s
func ParseTableName(s string) (TableName, error) {
	name := TableName(s)
	if _, ok := fileNames[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTable, s)
	}
	return name, nil
}

// FileName is the report file the table is written to
func (n TableName) FileName() string {
	return fileNames[n]
}

// Table is a rendered header plus string records
type Table struct {
	Name    TableName
	Header  []string
	Records [][]string
}

// Bundle is everything a run can export: the three ETL tables plus the
// regional analytics derived from them
type Bundle struct {
	Result     *domain.ETLResult
	Aggregates []domain.RegionAggregate
	Summary    domain.Summary
}

// Build renders the named table from the bundle
func (b *Bundle) Build(name TableName) (*Table, error) {
	if b == nil || b.Result == nil || !b.Result.HasTables() {
		return nil, ErrNoData
	}

	switch name {
	case TableFact:
		return FactRecords(b.Result.Fact)
	case TableWilayah:
		return RegionRecords(b.Result.Regions), nil
	case TableWaktu:
		return TimeRecords(b.Result.Time), nil
	case TableAgregat:
		return AggregateRecords(b.Aggregates)
	case TableRingkasan:
		return SummaryRecords(b.Summary), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
}

// FactRecords renders the fact table with its normalized column names
func FactRecords(fact *domain.FactTable) (*Table, error) {
	if fact == nil {
		return nil, ErrNoData
	}

	t := &Table{Name: TableFact, Header: fact.Columns, Records: make([][]string, 0, fact.Len())}
	for i, row := range fact.Rows {
		values := row.Values()
		record := make([]string, len(values))
		for j, v := range values {
			cell, err := formatCell(v)
			if err != nil {
				return nil, fmt.Errorf("fact row %d column %s: %w", i, columnName(fact.Columns, j), err)
			}
			record[j] = cell
		}
		t.Records = append(t.Records, record)
	}
	return t, nil
}

func columnName(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return strconv.Itoa(i)
}

// RegionRecords renders dim_wilayah
func RegionRecords(regions []domain.RegionDimension) *Table {
	t := &Table{
		Name:    TableWilayah,
		Header:  []string{"id_wilayah", "nama_puskesmas", "nama_kecamatan"},
		Records: make([][]string, 0, len(regions)),
	}
	for _, r := range regions {
		t.Records = append(t.Records, []string{formatInt(int64(r.IDWilayah)), r.NamaPuskesmas, r.NamaKecamatan})
	}
	return t
}

// TimeRecords renders dim_waktu
func TimeRecords(times []domain.TimeDimension) *Table {
	t := &Table{
		Name:    TableWaktu,
		Header:  []string{"id_waktu", "tahun", "bulan", "tanggal", "jam", "menit"},
		Records: make([][]string, 0, len(times)),
	}
	for _, d := range times {
		t.Records = append(t.Records, []string{
			formatInt(int64(d.IDWaktu)),
			formatInt(int64(d.Tahun)),
			d.Bulan,
			formatInt(int64(d.Tanggal)),
			formatInt(int64(d.Jam)),
			formatInt(int64(d.Menit)),
		})
	}
	return t
}

// AggregateRecords renders the per-kecamatan roll-up. Percentages carry two
// decimals; counts are whole numbers.
func AggregateRecords(aggs []domain.RegionAggregate) (*Table, error) {
	t := &Table{
		Name: TableAgregat,
		Header: []string{
			"nama_kecamatan", "jumlah_puskesmas",
			"jumlah_balita_ditimbang", "jumlah_balita_kurang_gizi",
			"jumlah_balita_stunting", "jumlah_balita_wasting",
			"persentase_kurang_gizi", "persentase_stunting", "persentase_wasting",
			"kategori_stunting", "lat", "lon",
		},
		Records: make([][]string, 0, len(aggs)),
	}

	for _, a := range aggs {
		record := []string{a.NamaKecamatan, formatInt(int64(a.JumlahPuskesmas))}
		for _, v := range []float64{a.JumlahBalitaDitimbang, a.JumlahBalitaKurangGizi, a.JumlahBalitaStunting, a.JumlahBalitaWasting} {
			s, err := formatNumber(v)
			if err != nil {
				return nil, fmt.Errorf("aggregate %s: %w", a.NamaKecamatan, err)
			}
			record = append(record, s)
		}
		for _, v := range []float64{a.PersentaseKurangGizi, a.PersentaseStunting, a.PersentaseWasting} {
			s, err := formatFloat(v)
			if err != nil {
				return nil, fmt.Errorf("aggregate %s: %w", a.NamaKecamatan, err)
			}
			record = append(record, s)
		}
		record = append(record, string(a.Kategori))
		for _, v := range []float64{a.Lat, a.Lon} {
			s, err := formatNumber(v)
			if err != nil {
				return nil, fmt.Errorf("aggregate %s: %w", a.NamaKecamatan, err)
			}
			record = append(record, s)
		}
		t.Records = append(t.Records, record)
	}
	return t, nil
}

// SummaryRecords renders ringkasan_statistik
func SummaryRecords(s domain.Summary) *Table {
	rows := s.Rows()
	t := &Table{
		Name:    TableRingkasan,
		Header:  []string{"Indikator", "Nilai"},
		Records: make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Records = append(t.Records, []string{r.Indikator, r.Nilai})
	}
	return t
}

// WriteTable streams t as CSV to out
func WriteTable(out io.Writer, t *Table, bom bool) error {
	return writeRecords(out, WriteOptions{Headers: t.Header, Records: t.Records, BOMPrefix: bom})
}
