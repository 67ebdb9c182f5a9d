package database_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gewnthar/routeboard/config"
	"github.com/gewnthar/routeboard/database"
	"github.com/stretchr/testify/require"
)

var routeColumns = []string{
	"id", "route_number", "track_lane", "name", "difficulty", "color", "author",
	"setup_date", "takedown_date", "description", "is_active",
}

func TestRouteStore_GetAllRoutes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	setup := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	takedown := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)

	rows := sqlmock.NewRows(routeColumns).
		AddRow(1, 12, 1, "Blue Moon", "6a", "Blue", "Ivan", setup, nil, "Slab", true).
		AddRow(2, 13, 2, "Old Crimp", "7a", "Red", "Olga", setup, takedown, nil, nil).
		AddRow(3, 14, nil, "No Lane", "5", "Green", "Petr", setup, nil, nil, true).
		AddRow(4, 15, 3, "-", "5", "Green", "Petr", setup, nil, nil, true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM routes_route")).WillReturnRows(rows)

	store, err := database.NewRouteStore(db, "")
	require.NoError(t, err)

	routes, err := store.GetAllRoutes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 2)

	require.Equal(t, "1", routes[0].ID)
	require.Equal(t, "12", routes[0].RouteNumber)
	require.Equal(t, "01.06.2025", routes[0].SetupDate)
	require.Empty(t, routes[0].TakedownDate)
	require.True(t, routes[0].IsActive)

	require.Equal(t, "10.06.2025", routes[1].TakedownDate)
	require.False(t, routes[1].IsActive, "derived from the takedown date when the flag is NULL")
	require.Empty(t, routes[1].Description)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouteStore_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM gym_routes")).WillReturnError(errors.New("connection reset"))

	store, err := database.NewRouteStore(db, "gym_routes")
	require.NoError(t, err)

	_, err = store.GetAllRoutes(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")
}

func TestNewRouteStore_Validation(t *testing.T) {
	_, err := database.NewRouteStore(nil, "")
	require.Error(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = database.NewRouteStore(db, "routes; DROP TABLE x")
	require.Error(t, err)
}

func TestDSN(t *testing.T) {
	dsn := database.DSN(config.DatabaseConfig{
		Host: "db", Port: "3306", User: "u", Password: "p", DBName: "climbing",
	})
	require.Equal(t, "u:p@tcp(db:3306)/climbing?parseTime=true&loc=Local", dsn)
}
