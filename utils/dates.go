// utils/dates.go
package utils

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// RouteDateLayout is the textual layout of setup and takedown dates.
const RouteDateLayout = "02.01.2006"

var routeDateRegex = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)

// ParseRouteDate parses a DD.MM.YYYY date into local midnight.
// Day must be 1-31 and month 1-12; month length is not cross-checked, so
// "31.02.2025" rolls over into March the way the panel always did.
// ok is false for anything that does not match.
func ParseRouteDate(s string) (t time.Time, ok bool) {
	m := routeDateRegex.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

// DaysSince returns the number of whole calendar days from date to now, using
// now's location. Dates in the future yield negative values.
func DaysSince(date, now time.Time) int {
	loc := now.Location()
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	// Round instead of truncating so DST shifts don't lose a day.
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// FormatRouteDate renders t as DD.MM.YYYY.
func FormatRouteDate(t time.Time) string {
	return t.Format(RouteDateLayout)
}
