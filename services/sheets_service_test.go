package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSheetsExport(t *testing.T) {
	ctx := context.Background()
	api := &mockSheetsAPI{}
	api.On("ExportToSheets", ctx).Return(models.SheetsResult{ExportedCount: 12}, nil).Once()

	svc := services.NewSheetsService(api, nil)
	msg := svc.Export(ctx)
	require.True(t, msg.OK)
	require.Equal(t, models.LevelSuccess, msg.Level)
	require.Equal(t, 12, msg.Count)

	api.On("ExportToSheets", ctx).Return(models.SheetsResult{}, errors.New("quota")).Once()
	msg = svc.Export(ctx)
	require.False(t, msg.OK)
	require.Equal(t, models.LevelDanger, msg.Level)
	require.Contains(t, msg.Message, "quota")
}

func TestSheetsImport_ResyncsAndWarnsOnRejectedRows(t *testing.T) {
	ctx := context.Background()
	api := &mockSheetsAPI{}
	store := &mockResyncer{}
	api.On("ImportFromSheets", ctx).Return(models.SheetsResult{
		Message:       "Imported 3",
		ImportedCount: 3,
		Errors:        []models.ImportError{{Route: "X"}},
	}, nil).Once()
	store.On("Collect", ctx).Return(nil).Once()

	msg := services.NewSheetsService(api, store).Import(ctx)
	require.True(t, msg.OK)
	require.Equal(t, models.LevelWarning, msg.Level)
	require.Equal(t, "Imported 3; 1 rows rejected", msg.Message)
	store.AssertExpectations(t)
}

func TestSheetsImport_FailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	api := &mockSheetsAPI{}
	store := &mockResyncer{}
	api.On("ImportFromSheets", ctx).Return(models.SheetsResult{}, errors.New("boom")).Once()

	msg := services.NewSheetsService(api, store).Import(ctx)
	require.False(t, msg.OK)
	require.Equal(t, models.LevelDanger, msg.Level)
	store.AssertNotCalled(t, "Collect", mock.Anything)
}

func TestSheetsStatusLevels(t *testing.T) {
	ctx := context.Background()
	for status, level := range map[string]string{
		"connected":    models.LevelSuccess,
		"disconnected": models.LevelWarning,
		"error":        models.LevelDanger,
	} {
		api := &mockSheetsAPI{}
		api.On("SheetsStatus", ctx).Return(models.SheetsStatus{Status: status, Message: "m"}, nil)
		require.Equal(t, level, services.NewSheetsService(api, nil).Status(ctx).Level, status)
	}
}

func TestSheetsRoutes_Empty(t *testing.T) {
	ctx := context.Background()
	api := &mockSheetsAPI{}
	api.On("SheetsRoutes", ctx).Return(models.SheetsRoutes{Routes: []models.RoutePayload{}, Message: "Нет данных"}, nil)

	routes, msg := services.NewSheetsService(api, nil).Routes(ctx)
	require.Empty(t, routes)
	require.Equal(t, models.LevelWarning, msg.Level)
	require.Equal(t, "Нет данных", msg.Message)
}
