// Package geo holds the reference coordinates of the kecamatan of
// Kabupaten Kuningan used to place regional aggregates on a map.
package geo

import (
	"sort"

	"gizietl/pkg/contracts/domain"
)

// Table is a read-only name to coordinate lookup. Names match exactly, so a
// kecamatan spelled differently from the table gets no coordinate.
type Table struct {
	coords map[string]domain.Coordinate
}

// NewTable builds a table from name/coordinate pairs
func NewTable(entries map[string]domain.Coordinate) *Table {
	t := &Table{coords: make(map[string]domain.Coordinate, len(entries))}
	for name, c := range entries {
		t.coords[name] = c
	}
	return t
}

var defaultTable = NewTable(map[string]domain.Coordinate{
	"CIAWIGEBANG":   {Lat: -6.94139, Lon: 108.58000},
	"CIBEUREUM":     {Lat: -7.0542423389, Lon: 108.7335485111},
	"CIBINGBIN":     {Lat: -7.0620274806, Lon: 108.7574305306},
	"CIDAHU":        {Lat: -6.9807440111, Lon: 108.6430066694},
	"CIGANDAMEKAR":  {Lat: -6.8816537806, Lon: 108.5276942889},
	"CIGUGUR":       {Lat: -6.96667, Lon: 108.43306},
	"CILEBAK":       {Lat: -7.1364884306, Lon: 108.5866935611},
	"CILIMUS":       {Lat: -6.8671659, Lon: 108.5023500111},
	"CIMAHI":        {Lat: -6.98692555, Lon: 108.6930708306},
	"CINIRU":        {Lat: -7.0426375806, Lon: 108.4998609806},
	"CIPICUNG":      {Lat: -6.9423001194, Lon: 108.5367464806},
	"CIWARU":        {Lat: -7.09250, Lon: 108.65167},
	"DARMA":         {Lat: -7.02667, Lon: 108.40444},
	"GARAWANGI":     {Lat: -6.99527306, Lon: 108.55040389},
	"HANTARA":       {Lat: -7.0586109889, Lon: 108.4594966806},
	"JALAKSANA":     {Lat: -6.90333, Lon: 108.48417},
	"JAPARA":        {Lat: -6.8962436111, Lon: 108.519557},
	"KADUGEDE":      {Lat: -6.99968035, Lon: 108.4568345306},
	"KALIMANGGIS":   {Lat: -6.9614633389, Lon: 108.6121274},
	"KARANGKANCANA": {Lat: -7.0957940806, Lon: 108.6601490194},
	"KRAMATMULYA":   {Lat: -6.94250, Lon: 108.49389},
	"KUNINGAN":      {Lat: -6.9766048, Lon: 108.4849021},
	"LEBAKWANGI":    {Lat: -7.04083, Lon: 108.57361},
	"LURAGUNG":      {Lat: -7.0186099306, Lon: 108.6376317611},
	"MALEBER":       {Lat: -7.0286144194, Lon: 108.5728650306},
	"MANDIRANCAN":   {Lat: -6.8094092889, Lon: 108.4686848694},
	"NUSAHERANG":    {Lat: -7.0053324806, Lon: 108.4415909889},
	"PANCALANG":     {Lat: -6.82113125, Lon: 108.4878855611},
	"PASAWAHAN":     {Lat: -6.80722, Lon: 108.42917},
	"SELAJAMBE":     {Lat: -7.10417, Lon: 108.47111},
	"SINDANGAGUNG":  {Lat: -6.9782077611, Lon: 108.5416392389},
	"SUBANG":        {Lat: -7.13139, Lon: 108.55917},
})

// Default returns the Kuningan reference table
func Default() *Table {
	return defaultTable
}

// Lookup returns the coordinate of a kecamatan
func (t *Table) Lookup(name string) (domain.Coordinate, bool) {
	c, ok := t.coords[name]
	return c, ok
}

// Len returns the number of known kecamatan
func (t *Table) Len() int {
	return len(t.coords)
}

// Names returns the known kecamatan sorted by name
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.coords))
	for name := range t.coords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry is one row of the reference table
type Entry struct {
	NamaKecamatan string  `json:"nama_kecamatan"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
}

// Entries returns the table sorted by name
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.coords))
	for _, name := range t.Names() {
		c := t.coords[name]
		out = append(out, Entry{NamaKecamatan: name, Lat: c.Lat, Lon: c.Lon})
	}
	return out
}
