// services/sheets_service.go
package services

import (
	"context"
	"fmt"

	"github.com/gewnthar/routeboard/models"
	"github.com/sirupsen/logrus"
)

// SheetsAPI is the upstream spreadsheet bridge.
type SheetsAPI interface {
	ExportToSheets(ctx context.Context) (models.SheetsResult, error)
	ImportFromSheets(ctx context.Context) (models.SheetsResult, error)
	SheetsStatus(ctx context.Context) (models.SheetsStatus, error)
	SheetsRoutes(ctx context.Context) (models.SheetsRoutes, error)
}

// SheetsService turns bridge calls into status messages. Bridge failures are
// never fatal for the panel.
type SheetsService struct {
	api   SheetsAPI
	store Resyncer
	log   *logrus.Entry
}

func NewSheetsService(api SheetsAPI, store Resyncer) *SheetsService {
	return &SheetsService{api: api, store: store, log: logrus.WithField("component", "sheets")}
}

func danger(format string, err error) models.StatusMessage {
	return models.StatusMessage{OK: false, Level: models.LevelDanger, Message: fmt.Sprintf(format, err)}
}

// Export pushes every upstream route to the spreadsheet.
func (s *SheetsService) Export(ctx context.Context) models.StatusMessage {
	res, err := s.api.ExportToSheets(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Sheets export failed")
		return danger("Export to spreadsheet failed: %v", err)
	}
	msg := res.Message
	if msg == "" {
		msg = fmt.Sprintf("Exported %d routes to the spreadsheet", res.ExportedCount)
	}
	return models.StatusMessage{OK: true, Level: models.LevelSuccess, Message: msg, Count: res.ExportedCount}
}

// Import creates upstream routes from the spreadsheet and resynchronizes when
// anything was imported.
func (s *SheetsService) Import(ctx context.Context) models.StatusMessage {
	res, err := s.api.ImportFromSheets(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Sheets import failed")
		return danger("Import from spreadsheet failed: %v", err)
	}

	out := models.StatusMessage{OK: true, Level: models.LevelSuccess, Count: res.ImportedCount, Message: res.Message}
	if out.Message == "" {
		out.Message = fmt.Sprintf("Imported %d routes from the spreadsheet", res.ImportedCount)
	}
	if len(res.Errors) > 0 {
		out.Level = models.LevelWarning
		out.Message = fmt.Sprintf("%s; %d rows rejected", out.Message, len(res.Errors))
	}
	if res.ImportedCount > 0 && s.store != nil {
		if err := s.store.Collect(ctx); err != nil {
			s.log.WithError(err).Warn("Resync after sheets import failed")
			out.Level = models.LevelWarning
			out.Message += "; refresh failed: " + err.Error()
		}
	}
	return out
}

// Status reports whether the bridge can reach the spreadsheet.
func (s *SheetsService) Status(ctx context.Context) models.StatusMessage {
	st, err := s.api.SheetsStatus(ctx)
	if err != nil {
		return danger("Spreadsheet status unavailable: %v", err)
	}
	switch st.Status {
	case "connected":
		return models.StatusMessage{OK: true, Level: models.LevelSuccess, Message: st.Message}
	case "disconnected":
		return models.StatusMessage{OK: false, Level: models.LevelWarning, Message: st.Message}
	default:
		return models.StatusMessage{OK: false, Level: models.LevelDanger, Message: st.Message}
	}
}

// Routes returns the routes held in the spreadsheet as projection entries.
func (s *SheetsService) Routes(ctx context.Context) ([]models.Route, models.StatusMessage) {
	res, err := s.api.SheetsRoutes(ctx)
	if err != nil {
		return []models.Route{}, danger("Loading routes from the spreadsheet failed: %v", err)
	}
	routes := models.RoutesFromPayloads(res.Routes)
	if len(routes) == 0 {
		msg := res.Message
		if msg == "" {
			msg = "The spreadsheet has no routes"
		}
		return routes, models.StatusMessage{OK: true, Level: models.LevelWarning, Message: msg}
	}
	return routes, models.StatusMessage{
		OK:      true,
		Level:   models.LevelSuccess,
		Message: fmt.Sprintf("Loaded %d routes from the spreadsheet", len(routes)),
		Count:   len(routes),
	}
}
