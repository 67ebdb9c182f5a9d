package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/utils"
)

// DifficultyMatch selects how the difficulty criterion is compared.
type DifficultyMatch string

const (
	// MatchExact compares grades for equality once icon decoration is stripped
	// and case is folded.
	MatchExact DifficultyMatch = "exact"
	// MatchContains accepts any route whose stripped grade contains the selected one,
	// so "6a" also selects "6a+".
	MatchContains DifficultyMatch = "contains"
)

// ParseDifficultyMatch validates a configured strategy name. Empty means MatchExact.
func ParseDifficultyMatch(s string) (DifficultyMatch, error) {
	switch DifficultyMatch(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchContains:
		return MatchContains, nil
	default:
		return "", fmt.Errorf("unknown difficulty match strategy %q (want %q or %q)", s, MatchExact, MatchContains)
	}
}

func matchesDifficulty(routeDifficulty, wanted string, strategy DifficultyMatch) bool {
	have := utils.NormalizeDifficulty(routeDifficulty)
	want := utils.NormalizeDifficulty(wanted)
	if strategy == MatchContains {
		return strings.Contains(have, want)
	}
	return have == want
}

// MatchesDateFilter reports whether a route set up on setupDate falls in the
// window named by dateFilter, relative to now. An empty or unknown window
// imposes no constraint; a missing or unparseable setup date never matches a
// known window.
func MatchesDateFilter(setupDate, dateFilter string, now time.Time) bool {
	window := DateRange(strings.TrimSpace(dateFilter))
	if window == "" {
		return true
	}
	maxDays, bounded := dateRangeDays[window]
	if window != DateToday && !bounded {
		return true
	}

	date, ok := utils.ParseRouteDate(strings.TrimSpace(setupDate))
	if !ok {
		return false
	}
	days := utils.DaysSince(date, now)
	if window == DateToday {
		return days == 0
	}
	return days <= maxDays
}

// Matches reports whether route satisfies every active criterion.
func Matches(route models.Route, c Criteria, strategy DifficultyMatch, now time.Time) bool {
	c = c.Normalize()
	if c.Difficulty != "" && !matchesDifficulty(route.Difficulty, c.Difficulty, strategy) {
		return false
	}
	if c.Lane != "" && route.TrackLane != c.Lane {
		return false
	}
	if c.Author != "" && route.Author != c.Author {
		return false
	}
	if c.Color != "" && route.Color != c.Color {
		return false
	}
	if c.DateFilter != "" && !MatchesDateFilter(route.SetupDate, c.DateFilter, now) {
		return false
	}
	if c.SearchText != "" && !strings.Contains(strings.ToLower(route.Name), strings.ToLower(c.SearchText)) {
		return false
	}
	return true
}

// Apply returns the routes matching c, preserving order. The result never
// shares its backing array with routes.
func Apply(routes []models.Route, c Criteria, strategy DifficultyMatch, now time.Time) []models.Route {
	out := make([]models.Route, 0, len(routes))
	for _, r := range routes {
		if Matches(r, c, strategy, now) {
			out = append(out, r)
		}
	}
	return out
}
