// Package render draws the routes admin page. Rendering is a pure function of
// the data passed in.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/gewnthar/routeboard/filter"
	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// DescriptionLimit is how many characters of a description the tables show.
const DescriptionLimit = 50

var funcMap = template.FuncMap{
	"truncate":        func(s string) string { return utils.Truncate(s, DescriptionLimit) },
	"difficultyClass": DifficultyClass,
	"colorClass":      ColorClass,
	"join":            strings.Join,
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("02.01.2006 15:04")
	},
}

var pageTemplate = template.Must(template.New("routes.html").Funcs(funcMap).ParseFS(templateFS, "templates/routes.html"))

// Option is one entry of a filter select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Control is a filter select. ID is the element id, Param the query parameter.
type Control struct {
	ID      string
	Param   string
	Label   string
	Options []Option
}

// PageData is everything the routes page shows.
type PageData struct {
	Controls    []Control
	Search      string
	Result      filter.Result
	AllRoutes   []models.Route
	Message     *models.StatusMessage
	CSRFField   template.HTML
	Source      string
	CollectedAt time.Time
}

// Raw reports whether the page shows the untouched routes table.
func (d PageData) Raw() bool { return d.Result.Mode != filter.ViewSynthesized }

// ExportURL links the download of the shown routes as csv or xlsx.
func (d PageData) ExportURL(format string) template.URL {
	u := "/api/routes/export." + format
	if q := d.Result.Criteria.Values().Encode(); q != "" {
		u += "?" + q
	}
	return template.URL(u)
}

// VocabularyFunc returns the values of a filterable field.
type VocabularyFunc func(filter.Field) []string

var dateLabels = map[filter.DateRange]string{
	filter.DateToday:   "Сегодня",
	filter.DateWeek:    "За неделю",
	filter.DateMonth:   "За месяц",
	filter.Date3Months: "За 3 месяца",
	filter.Date6Months: "За 6 месяцев",
	filter.DateYear:    "За год",
}

// BuildControls builds the five filter selects, marking the values of c as selected.
func BuildControls(vocab VocabularyFunc, c filter.Criteria) []Control {
	selects := []struct {
		id, param, label string
		field            filter.Field
		current          string
	}{
		{"difficultyFilter", filter.ParamDifficulty, "Сложность", filter.FieldDifficulty, c.Difficulty},
		{"laneFilter", filter.ParamLane, "Дорожка", filter.FieldLane, c.Lane},
		{"authorFilter", filter.ParamAuthor, "Автор", filter.FieldAuthor, c.Author},
		{"colorFilter", filter.ParamColor, "Цвет", filter.FieldColor, c.Color},
	}

	controls := make([]Control, 0, len(selects)+1)
	for _, s := range selects {
		ctl := Control{ID: s.id, Param: s.param, Label: s.label}
		for _, v := range vocab(s.field) {
			ctl.Options = append(ctl.Options, Option{Value: v, Label: v, Selected: v == s.current})
		}
		controls = append(controls, ctl)
	}

	date := Control{ID: "dateFilter", Param: filter.ParamDate, Label: "Дата накрутки"}
	for _, dr := range filter.DateRanges {
		date.Options = append(date.Options, Option{
			Value:    string(dr),
			Label:    dateLabels[dr],
			Selected: string(dr) == c.DateFilter,
		})
	}
	return append(controls, date)
}

// DifficultyClass returns the CSS class of a grade badge, e.g. "difficulty-6a-plus".
func DifficultyClass(grade string) string {
	g := utils.NormalizeDifficulty(grade)
	switch g {
	case "", "-":
		return "difficulty-none"
	}
	g = strings.ReplaceAll(g, "+", "-plus")
	g = strings.ReplaceAll(g, " ", "-")
	return "difficulty-" + g
}

// ColorClass returns the CSS class of a hold-color badge. Color names are
// compared case-insensitively.
func ColorClass(color string) string {
	c := strings.ToLower(utils.CollapseSpace(color))
	if c == "" {
		return "color-none"
	}
	return "color-" + strings.ReplaceAll(c, " ", "-")
}

// Page writes the routes admin page.
func Page(w io.Writer, data PageData) error {
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render routes page: %w", err)
	}
	return nil
}
