// Package filter keeps the admin panel's projection of routes and evaluates
// the filter controls against it.
package filter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gewnthar/routeboard/models"
	"github.com/sirupsen/logrus"
)

// Source yields the current set of routes, e.g. from the upstream API.
type Source interface {
	FetchRoutes(ctx context.Context) ([]models.Route, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]models.Route, error)

func (f SourceFunc) FetchRoutes(ctx context.Context) ([]models.Route, error) { return f(ctx) }

// Field names a route attribute that has a filter vocabulary.
type Field string

const (
	FieldDifficulty Field = "difficulty"
	FieldLane       Field = "lane"
	FieldAuthor     Field = "author"
	FieldColor      Field = "color"
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for date filters.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDifficultyMatch selects the difficulty comparison strategy.
func WithDifficultyMatch(m DifficultyMatch) Option {
	return func(s *Store) { s.difficultyMatch = m }
}

// Store owns allRoutes (the projection) and filteredRoutes (the current view).
// It is safe for concurrent use; writes are applied in arrival order.
type Store struct {
	source          Source
	now             func() time.Time
	difficultyMatch DifficultyMatch
	log             *logrus.Entry

	mu             sync.RWMutex
	allRoutes      []models.Route
	filteredRoutes []models.Route
	criteria       Criteria
	collectedAt    time.Time
	lastErr        error
}

// NewStore creates an empty store backed by source. source may be nil, in
// which case Collect always yields an empty projection.
func NewStore(source Source, opts ...Option) *Store {
	s := &Store{
		source:          source,
		now:             time.Now,
		difficultyMatch: MatchExact,
		log:             logrus.WithField("component", "filter"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collect rebuilds the projection from the source. Rows without a name or lane
// are dropped, the filtered view is reset to every route and the criteria are
// cleared. If the source fails the projection is left empty and the error is
// returned.
func (s *Store) Collect(ctx context.Context) error {
	var (
		routes []models.Route
		err    error
	)
	if s.source != nil {
		routes, err = s.source.FetchRoutes(ctx)
	}
	if err != nil {
		s.Load(nil)
		s.setLastErr(err)
		s.log.WithError(err).Warn("Collect failed, projection is empty")
		return fmt.Errorf("failed to collect routes: %w", err)
	}
	n := s.Load(routes)
	s.setLastErr(nil)
	s.log.WithField("routes", n).Info("Collected routes")
	return nil
}

// Load replaces the projection with routes and returns how many were kept.
func (s *Store) Load(routes []models.Route) int {
	kept := make([]models.Route, 0, len(routes))
	for _, r := range routes {
		if r.Projectable() {
			kept = append(kept, r)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.allRoutes = kept
	s.filteredRoutes = cloneRoutes(kept)
	s.criteria = Criteria{}
	s.collectedAt = s.now()
	return len(kept)
}

// AllRoutes returns a copy of the projection.
func (s *Store) AllRoutes() []models.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRoutes(s.allRoutes)
}

// FilteredRoutes returns a copy of the current view.
func (s *Store) FilteredRoutes() []models.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRoutes(s.filteredRoutes)
}

// Criteria returns the criteria of the last ApplyFilters call.
func (s *Store) Criteria() Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

// Len returns the size of the projection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.allRoutes)
}

// CollectedAt returns when the projection was last rebuilt.
func (s *Store) CollectedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectedAt
}

func (s *Store) setLastErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// LastCollectError returns the error of the most recent failed Collect, or nil
// once a later Collect succeeds.
func (s *Store) LastCollectError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Vocabulary returns the sorted distinct non-empty values of field across the
// projection. It is computed on every call so it always follows the latest Collect.
func (s *Store) Vocabulary(field Field) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	values := []string{}
	for _, r := range s.allRoutes {
		v, ok := fieldValue(r, field)
		if !ok {
			return []string{}
		}
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func fieldValue(r models.Route, field Field) (string, bool) {
	switch field {
	case FieldDifficulty:
		return r.Difficulty, true
	case FieldLane:
		return r.TrackLane, true
	case FieldAuthor:
		return r.Author, true
	case FieldColor:
		return r.Color, true
	default:
		return "", false
	}
}

// ApplyFilters narrows the view to the routes matching every active criterion
// and remembers c as the current criteria.
func (s *Store) ApplyFilters(c Criteria) Result {
	c = c.Normalize()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
	s.filteredRoutes = Apply(s.allRoutes, c, s.difficultyMatch, now)
	return newResult(c, len(s.allRoutes), cloneRoutes(s.filteredRoutes))
}

// Query evaluates c against the projection without touching the store's view.
func (s *Store) Query(c Criteria) Result {
	c = c.Normalize()
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return newResult(c, len(s.allRoutes), Apply(s.allRoutes, c, s.difficultyMatch, now))
}

// Clear resets the criteria and shows every route again.
func (s *Store) Clear() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = Criteria{}
	s.filteredRoutes = cloneRoutes(s.allRoutes)
	return newResult(s.criteria, len(s.allRoutes), cloneRoutes(s.filteredRoutes))
}

// Current returns the store's view as of the last ApplyFilters or Clear.
func (s *Store) Current() Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newResult(s.criteria, len(s.allRoutes), cloneRoutes(s.filteredRoutes))
}

// DecideViewMode reports which table the current criteria call for.
func (s *Store) DecideViewMode() ViewMode {
	return DecideViewMode(s.Criteria())
}

func cloneRoutes(routes []models.Route) []models.Route {
	out := make([]models.Route, len(routes))
	copy(out, routes)
	return out
}
