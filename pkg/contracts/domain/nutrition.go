package domain

// Family groups the nutritional-status categories by anthropometric index
type Family string

const (
	FamilyWeightForAge    Family = "BB/U"  // berat badan menurut umur
	FamilyHeightForAge    Family = "TB/U"  // tinggi badan menurut umur
	FamilyWeightForHeight Family = "BB/TB" // berat badan menurut tinggi badan
)

// Families returns the three measurement families in source order
func Families() []Family {
	return []Family{FamilyWeightForAge, FamilyHeightForAge, FamilyWeightForHeight}
}

// Category identifies one of the numeric count columns of the status gizi sheet.
// The zero value is the first count column; the ordering matches the sheet.
type Category int

const (
	BBUSangatKurang Category = iota
	BBUKurang
	BBUNormal
	BBURisikoLebih
	BBUOutlier
	TBUSangatPendek
	TBUPendek
	TBUNormal
	TBUTinggi
	TBUOutlier
	BBTBGiziBuruk
	BBTBGiziKurang
	BBTBNormal
	BBTBRisikoGiziLebih
	BBTBGiziLebih
	BBTBObesitas
	BBTBOutlier
)

// NumCategories is the number of count columns per row
const NumCategories = 17

type categoryInfo struct {
	family Family
	label  string
}

var categoryTable = [NumCategories]categoryInfo{
	{FamilyWeightForAge, "Sangat Kurang"},
	{FamilyWeightForAge, "Kurang"},
	{FamilyWeightForAge, "Normal"},
	{FamilyWeightForAge, "Risiko Lebih"},
	{FamilyWeightForAge, "Outlier"},
	{FamilyHeightForAge, "Sangat Pendek"},
	{FamilyHeightForAge, "Pendek"},
	{FamilyHeightForAge, "Normal"},
	{FamilyHeightForAge, "Tinggi"},
	{FamilyHeightForAge, "Outlier"},
	{FamilyWeightForHeight, "Gizi Buruk"},
	{FamilyWeightForHeight, "Gizi Kurang"},
	{FamilyWeightForHeight, "Normal"},
	{FamilyWeightForHeight, "Risiko Gizi Lebih"},
	{FamilyWeightForHeight, "Gizi Lebih"},
	{FamilyWeightForHeight, "Obesitas"},
	{FamilyWeightForHeight, "Outlier"},
}

// Categories returns every category in sheet column order
func Categories() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// FamilyCategories returns the categories belonging to a family, in sheet order
func FamilyCategories(f Family) []Category {
	var out []Category
	for i, info := range categoryTable {
		if info.family == f {
			out = append(out, Category(i))
		}
	}
	return out
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	return c >= 0 && int(c) < NumCategories
}

// Family returns the measurement family of the category
func (c Category) Family() Family {
	return categoryTable[c].family
}

// ShortLabel is the category name without its family prefix, e.g. "Sangat Kurang"
func (c Category) ShortLabel() string {
	return categoryTable[c].label
}

// SourceLabel is the column header used by the spreadsheet, e.g. "BB/U Sangat Kurang"
func (c Category) SourceLabel() string {
	info := categoryTable[c]
	return string(info.family) + " " + info.label
}

// String implements fmt.Stringer
func (c Category) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return c.SourceLabel()
}

// Counts holds one numeric value per category, indexed by Category
type Counts [NumCategories]float64

// Get returns the value for a category
func (c Counts) Get(cat Category) float64 {
	return c[cat]
}

// Sum adds up the values of the given categories
func (c Counts) Sum(cats ...Category) float64 {
	var total float64
	for _, cat := range cats {
		total += c[cat]
	}
	return total
}

// Add returns the element-wise sum of c and other
func (c Counts) Add(other Counts) Counts {
	for i := range c {
		c[i] += other[i]
	}
	return c
}

// Source column layout of the data block: identifier, facility, region, then the counts
const (
	ColumnNo         = 0
	ColumnPuskesmas  = 1
	ColumnKecamatan  = 2
	FirstCountColumn = 3

	// SourceColumnCount is the fixed width of the data block
	SourceColumnCount = FirstCountColumn + NumCategories
)

// SourceColumnNames returns the 20 ordered column names of the data block.
// "KECMATAN" reproduces the sheet's own spelling.
func SourceColumnNames() []string {
	names := make([]string, 0, SourceColumnCount)
	names = append(names, "No", "Puskesmas", "KECMATAN")
	for _, c := range Categories() {
		names = append(names, c.SourceLabel())
	}
	return names
}

// RawRow is one data row of the sheet after column reconciliation.
// Cells keep the text exactly as read; numeric coercion happens in the transform stage.
type RawRow struct {
	Line      int                   `json:"line"` // 1-based sheet row number
	No        string                `json:"no"`
	Puskesmas string                `json:"puskesmas"`
	Kecamatan string                `json:"kecamatan"`
	Cells     [NumCategories]string `json:"cells"`
}
