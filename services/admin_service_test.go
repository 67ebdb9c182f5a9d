package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/services"
	"github.com/gewnthar/routeboard/spreadsheet"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateRoute_ResyncsAfterSuccess(t *testing.T) {
	api := &mockRouteAPI{}
	store := &mockResyncer{}
	ctx := context.Background()

	api.On("CreateRoute", ctx, mock.MatchedBy(func(in models.RouteInput) bool {
		return in.Name == "Blue Moon" && in.Difficulty == "6a+"
	})).Return(models.RoutePayload{ID: "42", TrackLane: "2", Name: "Blue Moon"}, nil).Once()
	store.On("Collect", ctx).Return(nil).Once()

	svc := services.NewAdminService(api, store, services.DefaultRules())
	res, err := svc.CreateRoute(ctx, validRoute())
	require.NoError(t, err)
	require.True(t, res.Resynced)
	require.Equal(t, "42", res.Route.ID)

	api.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestCreateRoute_InvalidNeverCallsUpstream(t *testing.T) {
	api := &mockRouteAPI{}
	store := &mockResyncer{}

	r := validRoute()
	r.Difficulty = "hard"
	svc := services.NewAdminService(api, store, services.DefaultRules())
	_, err := svc.CreateRoute(context.Background(), r)
	require.ErrorIs(t, err, services.ErrInvalidRoute)

	api.AssertNotCalled(t, "CreateRoute", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Collect", mock.Anything)
}

func TestMutation_UpstreamErrorSkipsResync(t *testing.T) {
	api := &mockRouteAPI{}
	store := &mockResyncer{}
	ctx := context.Background()
	upstreamErr := errors.New("upstream returned status 403")

	api.On("DeleteRoute", ctx, "7").Return(upstreamErr).Once()

	svc := services.NewAdminService(api, store, services.DefaultRules())
	_, err := svc.DeleteRoute(ctx, "7")
	require.ErrorIs(t, err, upstreamErr)
	store.AssertNotCalled(t, "Collect", mock.Anything)
}

func TestSetActive_ReportsResyncFailure(t *testing.T) {
	api := &mockRouteAPI{}
	store := &mockResyncer{}
	ctx := context.Background()

	api.On("SetRouteActive", ctx, "7", false).
		Return(models.RoutePayload{ID: "7", TrackLane: "1", Name: "X"}, nil).Once()
	store.On("Collect", ctx).Return(errors.New("source down")).Once()

	svc := services.NewAdminService(api, store, services.DefaultRules())
	res, err := svc.SetActive(ctx, "7", false)
	require.NoError(t, err, "the mutation itself succeeded")
	require.False(t, res.Resynced)
	require.Equal(t, "source down", res.ResyncError)
}

func TestUpdateRoute_RequiresID(t *testing.T) {
	svc := services.NewAdminService(&mockRouteAPI{}, &mockResyncer{}, services.DefaultRules())
	_, err := svc.UpdateRoute(context.Background(), " ", validRoute())
	require.ErrorIs(t, err, services.ErrInvalidRoute)
}

func TestImportRoutes_ResyncsOnce(t *testing.T) {
	api := &mockRouteAPI{}
	store := &mockResyncer{}
	ctx := context.Background()

	bad := validRoute()
	bad.TrackLane = "9"
	rejected := validRoute()
	rejected.Name = "Duplicate"

	api.On("CreateRoute", ctx, mock.MatchedBy(func(in models.RouteInput) bool { return in.Name == "Blue Moon" })).
		Return(models.RoutePayload{ID: "1"}, nil).Once()
	api.On("CreateRoute", ctx, mock.MatchedBy(func(in models.RouteInput) bool { return in.Name == "Duplicate" })).
		Return(models.RoutePayload{}, errors.New("route number taken")).Once()
	store.On("Collect", ctx).Return(nil).Once()

	svc := services.NewAdminService(api, store, services.DefaultRules())
	summary, err := svc.ImportRoutes(ctx, spreadsheet.ParseResult{
		Records: []spreadsheet.Record{
			{Row: 2, Route: validRoute()},
			{Row: 3, Route: bad},
			{Row: 4, Route: rejected},
		},
		Skipped: 1,
	})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Imported)
	require.Equal(t, 1, summary.Skipped)
	require.True(t, summary.Resynced)
	require.Len(t, summary.Errors, 2)
	require.Equal(t, 3, summary.Errors[0].Row)
	require.Contains(t, summary.Errors[0].Fields, "track_lane")
	require.Equal(t, "route number taken", summary.Errors[1].Error)

	api.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "Collect", 1)
}

func TestImportRoutes_NothingImportedNoResync(t *testing.T) {
	store := &mockResyncer{}
	svc := services.NewAdminService(&mockRouteAPI{}, store, services.DefaultRules())
	summary, err := svc.ImportRoutes(context.Background(), spreadsheet.ParseResult{})
	require.NoError(t, err)
	require.Zero(t, summary.Imported)
	require.False(t, summary.Resynced)
	store.AssertNotCalled(t, "Collect", mock.Anything)
}
