package services_test

import (
	"context"

	"github.com/gewnthar/routeboard/models"
	"github.com/stretchr/testify/mock"
)

type mockRouteAPI struct{ mock.Mock }

func (m *mockRouteAPI) CreateRoute(ctx context.Context, in models.RouteInput) (models.RoutePayload, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.RoutePayload), args.Error(1)
}

func (m *mockRouteAPI) UpdateRoute(ctx context.Context, id string, in models.RouteInput) (models.RoutePayload, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(models.RoutePayload), args.Error(1)
}

func (m *mockRouteAPI) SetRouteActive(ctx context.Context, id string, active bool) (models.RoutePayload, error) {
	args := m.Called(ctx, id, active)
	return args.Get(0).(models.RoutePayload), args.Error(1)
}

func (m *mockRouteAPI) DeleteRoute(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockResyncer struct{ mock.Mock }

func (m *mockResyncer) Collect(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockSheetsAPI struct{ mock.Mock }

func (m *mockSheetsAPI) ExportToSheets(ctx context.Context) (models.SheetsResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.SheetsResult), args.Error(1)
}

func (m *mockSheetsAPI) ImportFromSheets(ctx context.Context) (models.SheetsResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.SheetsResult), args.Error(1)
}

func (m *mockSheetsAPI) SheetsStatus(ctx context.Context) (models.SheetsStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.SheetsStatus), args.Error(1)
}

func (m *mockSheetsAPI) SheetsRoutes(ctx context.Context) (models.SheetsRoutes, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.SheetsRoutes), args.Error(1)
}
