// database/route_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/utils"
)

const DefaultRoutesTable = "routes_route"

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RouteStore reads routes straight from the upstream server's database.
// It never writes; all mutations go through the upstream API.
type RouteStore struct {
	db    *sql.DB
	table string
}

// NewRouteStore returns a store reading from table (DefaultRoutesTable when empty).
func NewRouteStore(db *sql.DB, table string) (*RouteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	if table == "" {
		table = DefaultRoutesTable
	}
	if !tableNameRegex.MatchString(table) {
		return nil, fmt.Errorf("invalid routes table name %q", table)
	}
	return &RouteStore{db: db, table: table}, nil
}

func (s *RouteStore) selectQuery() string {
	return fmt.Sprintf(`
		SELECT id, route_number, track_lane, name, difficulty, color, author,
		       setup_date, takedown_date, description, is_active
		FROM %s
		ORDER BY track_lane, route_number`, s.table)
}

// GetAllRoutes returns every projectable route in the table.
func (s *RouteStore) GetAllRoutes(ctx context.Context) ([]models.Route, error) {
	rows, err := s.db.QueryContext(ctx, s.selectQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	routes := []models.Route{}
	for rows.Next() {
		var (
			id                      int64
			routeNumber, trackLane  sql.NullInt64
			name, difficulty, color sql.NullString
			author, description     sql.NullString
			setupDate, takedownDate sql.NullTime
			isActive                sql.NullBool
		)
		if err := rows.Scan(&id, &routeNumber, &trackLane, &name, &difficulty, &color, &author,
			&setupDate, &takedownDate, &description, &isActive); err != nil {
			return nil, fmt.Errorf("failed to scan route row: %w", err)
		}

		r := models.Route{
			ID:          strconv.FormatInt(id, 10),
			Name:        strings.TrimSpace(name.String),
			Difficulty:  strings.TrimSpace(difficulty.String),
			Color:       strings.TrimSpace(color.String),
			Author:      strings.TrimSpace(author.String),
			Description: strings.TrimSpace(description.String),
		}
		if routeNumber.Valid {
			r.RouteNumber = strconv.FormatInt(routeNumber.Int64, 10)
		}
		if trackLane.Valid {
			r.TrackLane = strconv.FormatInt(trackLane.Int64, 10)
		}
		if setupDate.Valid {
			r.SetupDate = utils.FormatRouteDate(setupDate.Time)
		}
		if takedownDate.Valid {
			r.TakedownDate = utils.FormatRouteDate(takedownDate.Time)
		}
		if isActive.Valid {
			r.IsActive = isActive.Bool
		} else {
			r.IsActive = models.DeriveActive(r.TakedownDate)
		}

		if !r.Projectable() {
			continue
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating route rows: %w", err)
	}
	return routes, nil
}
