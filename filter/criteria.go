package filter

import (
	"net/url"
	"strings"
)

// DateRange is the recency window selected in the date filter control.
type DateRange string

const (
	DateToday   DateRange = "today"
	DateWeek    DateRange = "week"
	DateMonth   DateRange = "month"
	Date3Months DateRange = "3months"
	Date6Months DateRange = "6months"
	DateYear    DateRange = "year"
)

// DateRanges lists the recognised date filter values in control order.
var DateRanges = []DateRange{DateToday, DateWeek, DateMonth, Date3Months, Date6Months, DateYear}

// maximum elapsed days since setup for each window; today is handled separately
var dateRangeDays = map[DateRange]int{
	DateWeek:    7,
	DateMonth:   30,
	Date3Months: 90,
	Date6Months: 180,
	DateYear:    365,
}

// Criteria is the combined state of the six filter controls.
// Empty fields impose no constraint.
type Criteria struct {
	Difficulty string `json:"difficulty,omitempty"`
	Lane       string `json:"lane,omitempty"`
	Author     string `json:"author,omitempty"`
	Color      string `json:"color,omitempty"`
	DateFilter string `json:"date,omitempty"`
	SearchText string `json:"search,omitempty"`
}

// Query parameter names of the filter controls.
const (
	ParamDifficulty = "difficulty"
	ParamLane       = "lane"
	ParamAuthor     = "author"
	ParamColor      = "color"
	ParamDate       = "date"
	ParamSearch     = "search"
)

// CriteriaFromQuery reads criteria from URL query values.
func CriteriaFromQuery(q url.Values) Criteria {
	return Criteria{
		Difficulty: q.Get(ParamDifficulty),
		Lane:       q.Get(ParamLane),
		Author:     q.Get(ParamAuthor),
		Color:      q.Get(ParamColor),
		DateFilter: q.Get(ParamDate),
		SearchText: q.Get(ParamSearch),
	}.Normalize()
}

// Values encodes the non-empty criteria as query values.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set(ParamDifficulty, c.Difficulty)
	set(ParamLane, c.Lane)
	set(ParamAuthor, c.Author)
	set(ParamColor, c.Color)
	set(ParamDate, c.DateFilter)
	set(ParamSearch, c.SearchText)
	return v
}

// Normalize trims surrounding whitespace from every field. A control holding
// only spaces counts as empty.
func (c Criteria) Normalize() Criteria {
	return Criteria{
		Difficulty: strings.TrimSpace(c.Difficulty),
		Lane:       strings.TrimSpace(c.Lane),
		Author:     strings.TrimSpace(c.Author),
		Color:      strings.TrimSpace(c.Color),
		DateFilter: strings.TrimSpace(c.DateFilter),
		SearchText: strings.TrimSpace(c.SearchText),
	}
}

// IsEmpty reports whether no criterion is active.
func (c Criteria) IsEmpty() bool {
	return c.Normalize() == Criteria{}
}

// Summary lists the active criteria as "Label: value" in control order,
// for the "no matches" message of the panel.
func (c Criteria) Summary() []string {
	c = c.Normalize()
	var active []string
	if c.Difficulty != "" {
		active = append(active, "Сложность: "+c.Difficulty)
	}
	if c.Lane != "" {
		active = append(active, "Дорожка: "+c.Lane)
	}
	if c.Author != "" {
		active = append(active, "Автор: "+c.Author)
	}
	if c.DateFilter != "" {
		active = append(active, "Дата: "+c.DateFilter)
	}
	if c.SearchText != "" {
		active = append(active, `Поиск: "`+c.SearchText+`"`)
	}
	if c.Color != "" {
		active = append(active, "Цвет: "+c.Color)
	}
	return active
}
