// services/admin_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/spreadsheet"
	"github.com/sirupsen/logrus"
)

// RouteAPI performs route mutations on the upstream server.
type RouteAPI interface {
	CreateRoute(ctx context.Context, in models.RouteInput) (models.RoutePayload, error)
	UpdateRoute(ctx context.Context, id string, in models.RouteInput) (models.RoutePayload, error)
	SetRouteActive(ctx context.Context, id string, active bool) (models.RoutePayload, error)
	DeleteRoute(ctx context.Context, id string) error
}

// Resyncer rebuilds the local projection from its source.
type Resyncer interface {
	Collect(ctx context.Context) error
}

// AdminService validates route edits, forwards them upstream and resynchronizes
// the projection after every successful mutation.
type AdminService struct {
	api   RouteAPI
	store Resyncer
	rules Rules
	log   *logrus.Entry
}

func NewAdminService(api RouteAPI, store Resyncer, rules Rules) *AdminService {
	return &AdminService{
		api:   api,
		store: store,
		rules: rules,
		log:   logrus.WithField("component", "service"),
	}
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("id", "is required")
	}
	return nil
}

// CreateRoute validates r and creates it upstream.
func (s *AdminService) CreateRoute(ctx context.Context, r models.Route) (models.MutationResult, error) {
	in, err := ValidateRoute(r, s.rules)
	if err != nil {
		return models.MutationResult{}, err
	}
	created, err := s.api.CreateRoute(ctx, in)
	if err != nil {
		return models.MutationResult{}, err
	}
	s.log.WithField("name", in.Name).WithField("lane", in.TrackLane).Info("Route created")
	return s.afterMutation(ctx, &created), nil
}

// UpdateRoute validates r and replaces route id upstream.
func (s *AdminService) UpdateRoute(ctx context.Context, id string, r models.Route) (models.MutationResult, error) {
	if err := requireID(id); err != nil {
		return models.MutationResult{}, err
	}
	in, err := ValidateRoute(r, s.rules)
	if err != nil {
		return models.MutationResult{}, err
	}
	updated, err := s.api.UpdateRoute(ctx, id, in)
	if err != nil {
		return models.MutationResult{}, err
	}
	s.log.WithField("id", id).Info("Route updated")
	return s.afterMutation(ctx, &updated), nil
}

// SetActive toggles route id between active and taken down.
func (s *AdminService) SetActive(ctx context.Context, id string, active bool) (models.MutationResult, error) {
	if err := requireID(id); err != nil {
		return models.MutationResult{}, err
	}
	updated, err := s.api.SetRouteActive(ctx, id, active)
	if err != nil {
		return models.MutationResult{}, err
	}
	s.log.WithField("id", id).WithField("active", active).Info("Route status changed")
	return s.afterMutation(ctx, &updated), nil
}

// DeleteRoute removes route id upstream.
func (s *AdminService) DeleteRoute(ctx context.Context, id string) (models.MutationResult, error) {
	if err := requireID(id); err != nil {
		return models.MutationResult{}, err
	}
	if err := s.api.DeleteRoute(ctx, id); err != nil {
		return models.MutationResult{}, err
	}
	s.log.WithField("id", id).Info("Route deleted")
	return s.afterMutation(ctx, nil), nil
}

// afterMutation resynchronizes the projection. A failed resync does not undo
// the mutation; it is reported alongside the result.
func (s *AdminService) afterMutation(ctx context.Context, payload *models.RoutePayload) models.MutationResult {
	res := models.MutationResult{}
	if payload != nil {
		r := payload.ToRoute(0)
		res.Route = &r
	}
	if err := s.resync(ctx); err != nil {
		res.ResyncError = err.Error()
		return res
	}
	res.Resynced = true
	return res
}

func (s *AdminService) resync(ctx context.Context) error {
	if s.store == nil {
		return errors.New("no store to resynchronize")
	}
	if err := s.store.Collect(ctx); err != nil {
		s.log.WithError(err).Warn("Resync after mutation failed")
		return err
	}
	return nil
}

// ImportRoutes validates and creates every parsed record, then resynchronizes
// once. Invalid or rejected rows are reported and do not stop the import.
func (s *AdminService) ImportRoutes(ctx context.Context, parsed spreadsheet.ParseResult) (models.ImportSummary, error) {
	summary := models.ImportSummary{Skipped: parsed.Skipped, Errors: []models.ImportError{}}

	for _, rec := range parsed.Records {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("import interrupted after %d routes: %w", summary.Imported, err)
		}
		in, err := ValidateRoute(rec.Route, s.rules)
		if err != nil {
			summary.Errors = append(summary.Errors, importError(rec, err))
			continue
		}
		if _, err := s.api.CreateRoute(ctx, in); err != nil {
			summary.Errors = append(summary.Errors, importError(rec, err))
			continue
		}
		summary.Imported++
	}

	s.log.WithFields(logrus.Fields{
		"imported": summary.Imported,
		"skipped":  summary.Skipped,
		"errors":   len(summary.Errors),
	}).Info("Import finished")

	if summary.Imported > 0 {
		summary.Resynced = s.resync(ctx) == nil
	}
	return summary, nil
}

func importError(rec spreadsheet.Record, err error) models.ImportError {
	e := models.ImportError{Row: rec.Row, Route: rec.Route.Name, Error: err.Error()}
	var verr *ValidationError
	if errors.As(err, &verr) {
		e.Fields = map[string][]string{verr.Field: {verr.Message}}
	}
	return e
}
