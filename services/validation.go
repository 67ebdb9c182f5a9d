// services/validation.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gewnthar/routeboard/config"
	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/utils"
)

// ErrInvalidRoute is wrapped by every ValidationError.
var ErrInvalidRoute = errors.New("invalid route")

const (
	minRouteNumber = 1
	maxRouteNumber = 140
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRoute }

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Rules bounds the values accepted for a route.
type Rules struct {
	MinLane int
	MaxLane int
	MinYear int
	MaxYear int
}

// RulesFromConfig converts the validation config section.
func RulesFromConfig(c config.ValidationConfig) Rules {
	return Rules{MinLane: c.MinLane, MaxLane: c.MaxLane, MinYear: c.MinYear, MaxYear: c.MaxYear}
}

// DefaultRules matches config.Default.
func DefaultRules() Rules {
	return RulesFromConfig(config.Default().Validation)
}

// ValidateRoute checks r and converts it to the upstream request body.
// Grades are sent lowercased.
func ValidateRoute(r models.Route, rules Rules) (models.RouteInput, error) {
	required := []struct {
		field, value string
	}{
		{"route_number", r.RouteNumber},
		{"track_lane", r.TrackLane},
		{"name", r.Name},
		{"difficulty", r.Difficulty},
		{"color", r.Color},
		{"author", r.Author},
		{"setup_date", r.SetupDate},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return models.RouteInput{}, invalid(f.field, "is required")
		}
	}

	number, err := strconv.Atoi(strings.TrimSpace(r.RouteNumber))
	if err != nil {
		return models.RouteInput{}, invalid("route_number", "must be a number, got %q", r.RouteNumber)
	}
	if number < minRouteNumber || number > maxRouteNumber {
		return models.RouteInput{}, invalid("route_number", "must be between %d and %d", minRouteNumber, maxRouteNumber)
	}

	lane, err := strconv.Atoi(strings.TrimSpace(r.TrackLane))
	if err != nil {
		return models.RouteInput{}, invalid("track_lane", "must be a number, got %q", r.TrackLane)
	}
	if lane < rules.MinLane || lane > rules.MaxLane {
		return models.RouteInput{}, invalid("track_lane", "must be between %d and %d", rules.MinLane, rules.MaxLane)
	}

	difficulty := strings.ToLower(strings.TrimSpace(r.Difficulty))
	if !models.IsKnownDifficulty(difficulty) {
		return models.RouteInput{}, invalid("difficulty", "unknown grade %q", r.Difficulty)
	}

	setup, err := checkDate("setup_date", r.SetupDate, rules)
	if err != nil {
		return models.RouteInput{}, err
	}
	takedownDate := strings.TrimSpace(r.TakedownDate)
	if takedownDate != "" {
		takedown, err := checkDate("takedown_date", takedownDate, rules)
		if err != nil {
			return models.RouteInput{}, err
		}
		if takedown.Before(setup) {
			return models.RouteInput{}, invalid("takedown_date", "must not be before the setup date")
		}
	}

	return models.RouteInput{
		RouteNumber:  number,
		TrackLane:    lane,
		Name:         utils.CollapseSpace(r.Name),
		Difficulty:   difficulty,
		Color:        strings.TrimSpace(r.Color),
		Author:       strings.TrimSpace(r.Author),
		SetupDate:    strings.TrimSpace(r.SetupDate),
		TakedownDate: takedownDate,
		Description:  strings.TrimSpace(r.Description),
		IsActive:     r.IsActive,
	}, nil
}

func checkDate(field, value string, rules Rules) (time.Time, error) {
	parsed, ok := utils.ParseRouteDate(strings.TrimSpace(value))
	if !ok {
		return time.Time{}, invalid(field, "must be a DD.MM.YYYY date, got %q", value)
	}
	if parsed.Year() < rules.MinYear || parsed.Year() > rules.MaxYear {
		return time.Time{}, invalid(field, "year must be between %d and %d", rules.MinYear, rules.MaxYear)
	}
	return parsed, nil
}
