// models/route.go
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Route is the admin panel's read-only projection of a climbing route.
// The upstream server owns the authoritative record.
type Route struct {
	ID           string `json:"id"`
	RouteNumber  string `json:"route_number,omitempty"`
	TrackLane    string `json:"track_lane"`
	Name         string `json:"name"`
	Difficulty   string `json:"difficulty"`
	Color        string `json:"color"`
	Author       string `json:"author"`
	SetupDate    string `json:"setup_date"`              // DD.MM.YYYY
	TakedownDate string `json:"takedown_date,omitempty"` // DD.MM.YYYY, empty while the route is up
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"is_active"`
}

// Projectable reports whether the route can be part of the projection.
// Rows without a name (or with the "-" placeholder) or without a lane are dropped.
func (r Route) Projectable() bool {
	name := strings.TrimSpace(r.Name)
	return name != "" && name != "-" && strings.TrimSpace(r.TrackLane) != ""
}

// DeriveActive returns the activity flag implied by the takedown date.
func DeriveActive(takedownDate string) bool {
	return strings.TrimSpace(takedownDate) == ""
}

// Difficulties is the ordered grade vocabulary used by the gym (French system).
// "-" marks an ungraded route.
var Difficulties = []string{
	"4", "4-5", "5", "5+",
	"6a", "6a+", "6b", "6b+", "6c", "6c+",
	"7a", "7a+", "7b", "7b+", "7c", "7c+",
	"8a", "8a+", "8b", "8b+", "8c",
	"9a",
	"-",
}

// IsKnownDifficulty reports whether grade belongs to the vocabulary, ignoring case.
func IsKnownDifficulty(grade string) bool {
	grade = strings.ToLower(strings.TrimSpace(grade))
	for _, d := range Difficulties {
		if d == grade {
			return true
		}
	}
	return false
}

// FlexString accepts either a JSON string or a JSON number and keeps its text form.
// The upstream API serializes ids and lane numbers as integers while the
// spreadsheet bridge returns them as strings.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*f = FlexString(num.String())
	return nil
}

// RoutePayload is a route as returned by the upstream REST API and the spreadsheet bridge.
type RoutePayload struct {
	ID           FlexString `json:"id"`
	RouteNumber  FlexString `json:"route_number"`
	TrackLane    FlexString `json:"track_lane"`
	TrackNumber  FlexString `json:"track_number"` // older templates and the sheet bridge use this name
	Name         string     `json:"name"`
	Difficulty   string     `json:"difficulty"`
	Color        string     `json:"color"`
	Author       string     `json:"author"`
	SetupDate    string     `json:"setup_date"`
	TakedownDate *string    `json:"takedown_date"`
	Description  *string    `json:"description"`
	IsActive     *bool      `json:"is_active"`
}

// ToRoute converts the payload to a projection entry. index is used to build a
// stable fallback id for payloads without one.
func (p RoutePayload) ToRoute(index int) Route {
	lane := string(p.TrackLane)
	if lane == "" {
		lane = string(p.TrackNumber)
	}
	id := string(p.ID)
	if id == "" {
		id = "route_" + strconv.Itoa(index)
	}

	r := Route{
		ID:          id,
		RouteNumber: string(p.RouteNumber),
		TrackLane:   strings.TrimSpace(lane),
		Name:        strings.TrimSpace(p.Name),
		Difficulty:  strings.TrimSpace(p.Difficulty),
		Color:       strings.TrimSpace(p.Color),
		Author:      strings.TrimSpace(p.Author),
		SetupDate:   strings.TrimSpace(p.SetupDate),
	}
	if p.TakedownDate != nil {
		r.TakedownDate = strings.TrimSpace(*p.TakedownDate)
	}
	if p.Description != nil {
		r.Description = strings.TrimSpace(*p.Description)
	}
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	} else {
		r.IsActive = DeriveActive(r.TakedownDate)
	}
	return r
}

// RoutesFromPayloads converts payloads and drops entries that cannot be projected.
func RoutesFromPayloads(payloads []RoutePayload) []Route {
	routes := make([]Route, 0, len(payloads))
	for i, p := range payloads {
		r := p.ToRoute(i)
		if !r.Projectable() {
			continue
		}
		routes = append(routes, r)
	}
	return routes
}

// RouteInput is the body sent to the upstream API to create or fully update a route.
type RouteInput struct {
	RouteNumber  int    `json:"route_number"`
	TrackLane    int    `json:"track_lane"`
	Name         string `json:"name"`
	Difficulty   string `json:"difficulty"`
	Color        string `json:"color"`
	Author       string `json:"author"`
	SetupDate    string `json:"setup_date"`
	TakedownDate string `json:"takedown_date,omitempty"`
	Description  string `json:"description"`
	IsActive     bool   `json:"is_active"`
}

// CSVRoute is the row shape used for CSV export and import.
type CSVRoute struct {
	RouteNumber  string `csv:"route_number"`
	TrackLane    string `csv:"track_lane"`
	Name         string `csv:"name"`
	Difficulty   string `csv:"difficulty"`
	Color        string `csv:"color"`
	Author       string `csv:"author"`
	SetupDate    string `csv:"setup_date"`
	TakedownDate string `csv:"takedown_date,omitempty"`
	Description  string `csv:"description,omitempty"`
	IsActive     string `csv:"is_active,omitempty"`
}

// ToCSV converts a route to its CSV row.
func (r Route) ToCSV() CSVRoute {
	active := "false"
	if r.IsActive {
		active = "true"
	}
	return CSVRoute{
		RouteNumber:  r.RouteNumber,
		TrackLane:    r.TrackLane,
		Name:         r.Name,
		Difficulty:   r.Difficulty,
		Color:        r.Color,
		Author:       r.Author,
		SetupDate:    r.SetupDate,
		TakedownDate: r.TakedownDate,
		Description:  r.Description,
		IsActive:     active,
	}
}
