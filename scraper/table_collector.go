// scraper/table_collector.go
package scraper

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/utils"
	"github.com/sirupsen/logrus"
)

// RowSelector matches the body rows of the routes table in both page layouts.
const RowSelector = "#routes-table tbody tr, #routes-table-body tr"

// Column positions of the routes table.
const (
	colLane = iota
	colName
	colDifficulty
	colColor
	colAuthor
	colSetupDate
	colDescription
	colTakedownDate
)

const minCells = colDescription + 1

// emptyStateMarkers identify the placeholder row rendered when there are no routes.
var emptyStateMarkers = []string{"Нет трасс", "No routes"}

// ParseRoutesTable reads the server-rendered routes table and returns its projectable rows.
// Rows with fewer than seven cells or showing the empty-state placeholder are skipped.
func ParseRoutesTable(r io.Reader) ([]models.Route, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse routes page: %w", err)
	}

	var routes []models.Route
	skipped := 0
	doc.Find(RowSelector).Each(func(i int, row *goquery.Selection) {
		if isEmptyStateRow(row) {
			return
		}
		cells := row.Find("td")
		if cells.Length() < minCells {
			skipped++
			return
		}
		route := routeFromRow(i, row, cells)
		if !route.Projectable() {
			skipped++
			return
		}
		routes = append(routes, route)
	})

	if skipped > 0 {
		logrus.WithField("component", "scraper").WithField("skipped", skipped).Debug("Skipped unusable table rows")
	}
	if routes == nil {
		routes = []models.Route{}
	}
	return routes, nil
}

// isEmptyStateRow matches only a lone (or spanning) cell whose whole text is a
// marker, so route descriptions mentioning the phrase are kept.
func isEmptyStateRow(row *goquery.Selection) bool {
	cells := row.Find("td")
	if cells.Length() == 0 {
		return false
	}
	if _, spans := cells.First().Attr("colspan"); cells.Length() > 1 && !spans {
		return false
	}
	text := utils.CollapseSpace(cells.Text())
	for _, marker := range emptyStateMarkers {
		if text == marker {
			return true
		}
	}
	return false
}

func routeFromRow(index int, row, cells *goquery.Selection) models.Route {
	cell := func(n int) string {
		if n >= cells.Length() {
			return ""
		}
		return utils.CollapseSpace(cells.Eq(n).Text())
	}

	id, ok := row.Attr("data-route-id")
	if !ok || strings.TrimSpace(id) == "" {
		id = "route_" + strconv.Itoa(index)
	}

	route := models.Route{
		ID:           strings.TrimSpace(id),
		TrackLane:    cell(colLane),
		Name:         cell(colName),
		Difficulty:   cell(colDifficulty),
		Color:        cell(colColor),
		Author:       cell(colAuthor),
		SetupDate:    cell(colSetupDate),
		Description:  cell(colDescription),
		TakedownDate: cell(colTakedownDate),
	}
	// The panel truncates long descriptions and keeps the full text in an attribute.
	if full, ok := cells.Eq(colDescription).Attr("data-description"); ok {
		route.Description = utils.CollapseSpace(full)
	}
	if route.TakedownDate == "-" {
		route.TakedownDate = ""
	}
	if number, ok := row.Attr("data-route-number"); ok {
		route.RouteNumber = strings.TrimSpace(number)
	}

	switch strings.ToLower(strings.TrimSpace(row.AttrOr("data-status", ""))) {
	case "active":
		route.IsActive = true
	case "inactive":
		route.IsActive = false
	default:
		route.IsActive = models.DeriveActive(route.TakedownDate)
	}
	return route
}
