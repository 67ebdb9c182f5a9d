package filter

import "github.com/gewnthar/routeboard/models"

// ViewMode tells the panel which table to show.
type ViewMode string

const (
	// ViewRaw shows the full route table untouched.
	ViewRaw ViewMode = "RAW"
	// ViewSynthesized shows a results table built from the filtered routes,
	// or an empty-state message listing the active criteria.
	ViewSynthesized ViewMode = "SYNTHESIZED"
)

// DecideViewMode returns ViewSynthesized as soon as any criterion is active,
// even when every route matches.
func DecideViewMode(c Criteria) ViewMode {
	if c.IsEmpty() {
		return ViewRaw
	}
	return ViewSynthesized
}

// Result is a snapshot of one filter evaluation.
type Result struct {
	Mode          ViewMode       `json:"mode"`
	Criteria      Criteria       `json:"criteria"`
	ActiveFilters []string       `json:"active_filters"`
	Total         int            `json:"total"`
	Shown         int            `json:"shown"`
	Routes        []models.Route `json:"routes"`
}

// Empty reports whether a synthesized view has nothing to show.
func (r Result) Empty() bool {
	return r.Mode == ViewSynthesized && r.Shown == 0
}

func newResult(c Criteria, total int, routes []models.Route) Result {
	active := c.Summary()
	if active == nil {
		active = []string{}
	}
	return Result{
		Mode:          DecideViewMode(c),
		Criteria:      c,
		ActiveFilters: active,
		Total:         total,
		Shown:         len(routes),
		Routes:        routes,
	}
}
