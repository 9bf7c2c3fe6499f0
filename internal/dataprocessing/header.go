package dataprocessing

import (
	"regexp"
	"strconv"

	"gizietl/pkg/contracts/domain"
)

// UnknownMonth is the month name used when no valid month could be parsed
const UnknownMonth = "TIDAK DIKETAHUI"

var monthNames = [12]string{
	"JANUARI", "FEBRUARI", "MARET", "APRIL", "MEI", "JUNI",
	"JULI", "AGUSTUS", "SEPTEMBER", "OKTOBER", "NOVEMBER", "DESEMBER",
}

// timestampPattern finds "YYYY-MM-DD HH:MM:SS" anywhere in the title
var timestampPattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})\s+(\d{2}):(\d{2}):(\d{2})`)

// MonthName maps 1..12 to the Indonesian month name, anything else to UnknownMonth
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return UnknownMonth
	}
	return monthNames[month-1]
}

// ParseTimestampOrDefault extracts the report time from the sheet title.
// When no timestamp is present the defaults are returned: defaultYear,
// UnknownMonth, day 1, 00:00. Seconds are matched but discarded. The second
// return value reports whether a timestamp was found.
func ParseTimestampOrDefault(title string, defaultYear int) (domain.TimeDimension, bool) {
	td := domain.TimeDimension{
		IDWaktu: domain.TimeKey,
		Tahun:   defaultYear,
		Bulan:   UnknownMonth,
		Tanggal: 1,
		Jam:     0,
		Menit:   0,
	}

	m := timestampPattern.FindStringSubmatch(title)
	if m == nil {
		return td, false
	}

	// Each group is a fixed run of ASCII digits, so Atoi cannot fail
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	td.Tahun = year
	td.Bulan = MonthName(month)
	td.Tanggal = day
	td.Jam = hour
	td.Menit = minute
	return td, true
}
