package services_test

import (
	"errors"
	"testing"

	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/services"
	"github.com/stretchr/testify/require"
)

func validRoute() models.Route {
	return models.Route{
		RouteNumber: "12",
		TrackLane:   "2",
		Name:        "  Blue   Moon ",
		Difficulty:  "6A+",
		Color:       "Blue",
		Author:      "Ivan",
		SetupDate:   "01.06.2025",
		IsActive:    true,
	}
}

func TestValidateRoute_OK(t *testing.T) {
	in, err := services.ValidateRoute(validRoute(), services.DefaultRules())
	require.NoError(t, err)
	require.Equal(t, 12, in.RouteNumber)
	require.Equal(t, 2, in.TrackLane)
	require.Equal(t, "Blue Moon", in.Name)
	require.Equal(t, "6a+", in.Difficulty)
	require.Empty(t, in.TakedownDate)
}

func TestValidateRoute_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.Route)
		field  string
	}{
		{"missing name", func(r *models.Route) { r.Name = " " }, "name"},
		{"missing color", func(r *models.Route) { r.Color = "" }, "color"},
		{"route number not numeric", func(r *models.Route) { r.RouteNumber = "A1" }, "route_number"},
		{"route number too high", func(r *models.Route) { r.RouteNumber = "141" }, "route_number"},
		{"lane out of range", func(r *models.Route) { r.TrackLane = "4" }, "track_lane"},
		{"unknown grade", func(r *models.Route) { r.Difficulty = "10z" }, "difficulty"},
		{"bad date", func(r *models.Route) { r.SetupDate = "2025-06-01" }, "setup_date"},
		{"year out of range", func(r *models.Route) { r.SetupDate = "01.06.2019" }, "setup_date"},
		{"takedown before setup", func(r *models.Route) { r.TakedownDate = "31.05.2025" }, "takedown_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRoute()
			tt.mutate(&r)
			_, err := services.ValidateRoute(r, services.DefaultRules())
			require.Error(t, err)
			require.True(t, errors.Is(err, services.ErrInvalidRoute))

			var verr *services.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateRoute_ConfiguredLanes(t *testing.T) {
	r := validRoute()
	r.TrackLane = "30"
	rules := services.DefaultRules()
	rules.MaxLane = 35
	_, err := services.ValidateRoute(r, rules)
	require.NoError(t, err)
}
