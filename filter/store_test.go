package filter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gewnthar/routeboard/filter"
	"github.com/gewnthar/routeboard/models"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.June, 15, 14, 30, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

func sampleRoutes() []models.Route {
	return []models.Route{
		{ID: "1", TrackLane: "1", Name: "Red Arete", Difficulty: "6a", Color: "Red", Author: "Ann", SetupDate: "15.06.2025", IsActive: true},
		{ID: "2", TrackLane: "1", Name: "Blue Slab", Difficulty: "6a+", Color: "Blue", Author: "Bob", SetupDate: "08.06.2025", IsActive: true},
		{ID: "3", TrackLane: "2", Name: "Green Roof", Difficulty: "7b", Color: "Green", Author: "Ann", SetupDate: "07.06.2025", IsActive: true},
		{ID: "4", TrackLane: "3", Name: "Old Crimp", Difficulty: "5+", Color: "Red", Author: "Cid", SetupDate: "31.13.2025", IsActive: false, TakedownDate: "01.01.2025"},
	}
}

func staticSource(routes []models.Route) filter.Source {
	return filter.SourceFunc(func(ctx context.Context) ([]models.Route, error) {
		return routes, nil
	})
}

func newStore(t *testing.T, routes []models.Route, opts ...filter.Option) *filter.Store {
	t.Helper()
	opts = append([]filter.Option{filter.WithClock(clock)}, opts...)
	s := filter.NewStore(staticSource(routes), opts...)
	require.NoError(t, s.Collect(context.Background()))
	return s
}

func TestCollect_Idempotent(t *testing.T) {
	s := newStore(t, sampleRoutes())
	first := s.AllRoutes()

	require.NoError(t, s.Collect(context.Background()))
	require.Equal(t, first, s.AllRoutes())
	require.Len(t, first, 4)
}

func TestCollect_DropsRowsWithoutNameOrLane(t *testing.T) {
	routes := append(sampleRoutes(),
		models.Route{ID: "5", TrackLane: "1", Name: ""},
		models.Route{ID: "6", TrackLane: "1", Name: "-"},
		models.Route{ID: "7", TrackLane: "", Name: "Laneless"},
	)
	s := newStore(t, routes)
	require.Equal(t, 4, s.Len())
	for _, r := range s.AllRoutes() {
		require.NotEmpty(t, r.Name)
		require.NotEmpty(t, r.TrackLane)
	}
}

func TestCollect_EmptySourceIsValid(t *testing.T) {
	s := newStore(t, nil)
	require.Equal(t, 0, s.Len())
	require.Empty(t, s.FilteredRoutes())
	require.Equal(t, filter.ViewRaw, s.DecideViewMode())
}

func TestCollect_SourceErrorLeavesEmptyProjection(t *testing.T) {
	calls := 0
	src := filter.SourceFunc(func(ctx context.Context) ([]models.Route, error) {
		calls++
		if calls == 1 {
			return sampleRoutes(), nil
		}
		return nil, errors.New("upstream down")
	})
	s := filter.NewStore(src, filter.WithClock(clock))
	require.NoError(t, s.Collect(context.Background()))
	require.Equal(t, 4, s.Len())
	require.NoError(t, s.LastCollectError())

	err := s.Collect(context.Background())
	require.Error(t, err)
	require.Equal(t, 0, s.Len())
	require.Empty(t, s.FilteredRoutes())
	require.EqualError(t, s.LastCollectError(), "upstream down")
}

func TestCollect_NilSource(t *testing.T) {
	s := filter.NewStore(nil)
	require.NoError(t, s.Collect(context.Background()))
	require.Equal(t, 0, s.Len())
}

func TestCollect_ResetsFilters(t *testing.T) {
	s := newStore(t, sampleRoutes())
	s.ApplyFilters(filter.Criteria{Author: "Ann"})
	require.Len(t, s.FilteredRoutes(), 2)

	require.NoError(t, s.Collect(context.Background()))
	require.Equal(t, s.AllRoutes(), s.FilteredRoutes())
	require.True(t, s.Criteria().IsEmpty())
}

func TestApplyFilters_Subset(t *testing.T) {
	s := newStore(t, sampleRoutes())
	all := s.AllRoutes()

	cases := []filter.Criteria{
		{},
		{Difficulty: "6a"},
		{Lane: "1"},
		{Author: "Ann", Color: "Red"},
		{DateFilter: "week"},
		{SearchText: "slab"},
		{Difficulty: "9a"},
		{DateFilter: "fortnight"},
	}
	for _, c := range cases {
		res := s.ApplyFilters(c)
		for _, r := range res.Routes {
			require.Contains(t, all, r)
		}
		require.Equal(t, res.Routes, s.FilteredRoutes())
	}
}

func TestApplyFilters_ANDCombination(t *testing.T) {
	a := models.Route{ID: "a", TrackLane: "1", Name: "A", Difficulty: "6A", Author: "X"}
	b := models.Route{ID: "b", TrackLane: "1", Name: "B", Difficulty: "6A", Author: "Y"}
	s := newStore(t, []models.Route{a, b})

	res := s.ApplyFilters(filter.Criteria{Difficulty: "6A", Author: "X"})
	require.Equal(t, []models.Route{a}, res.Routes)
	require.Equal(t, 2, res.Total)
	require.Equal(t, 1, res.Shown)
}

func TestApplyFilters_SearchIsCaseInsensitiveOnNameOnly(t *testing.T) {
	s := newStore(t, sampleRoutes())

	res := s.ApplyFilters(filter.Criteria{SearchText: "ROOF"})
	require.Len(t, res.Routes, 1)
	require.Equal(t, "3", res.Routes[0].ID)

	res = s.ApplyFilters(filter.Criteria{SearchText: "Ann"})
	require.Empty(t, res.Routes)
}

func TestApplyFilters_ExactFieldsAreCaseSensitive(t *testing.T) {
	s := newStore(t, sampleRoutes())
	require.Empty(t, s.ApplyFilters(filter.Criteria{Color: "red"}).Routes)
	require.Len(t, s.ApplyFilters(filter.Criteria{Color: "Red"}).Routes, 2)
	require.Len(t, s.ApplyFilters(filter.Criteria{Lane: "1"}).Routes, 2)
}

func TestApplyFilters_DateWeekBoundary(t *testing.T) {
	s := newStore(t, sampleRoutes())

	res := s.ApplyFilters(filter.Criteria{DateFilter: "week"})
	ids := routeIDs(res.Routes)
	require.Contains(t, ids, "2", "7 days before today is within a week")
	require.NotContains(t, ids, "3", "8 days before today is outside a week")
	require.Contains(t, ids, "1")
}

func TestApplyFilters_MalformedDateNeverMatches(t *testing.T) {
	s := newStore(t, sampleRoutes())
	for _, window := range filter.DateRanges {
		res := s.ApplyFilters(filter.Criteria{DateFilter: string(window)})
		require.NotContains(t, routeIDs(res.Routes), "4", window)
	}
}

func TestApplyFilters_UnknownDateFilterPassesThrough(t *testing.T) {
	s := newStore(t, sampleRoutes())
	res := s.ApplyFilters(filter.Criteria{DateFilter: "fortnight"})
	require.Len(t, res.Routes, 4)
	require.Equal(t, filter.ViewSynthesized, res.Mode)
}

func TestApplyFilters_DifficultyStrategies(t *testing.T) {
	routes := []models.Route{
		{ID: "1", TrackLane: "1", Name: "Plain", Difficulty: "6A"},
		{ID: "2", TrackLane: "1", Name: "Plus", Difficulty: "6A+"},
		{ID: "3", TrackLane: "1", Name: "Iconic", Difficulty: "🔥 6a"},
	}

	exact := newStore(t, routes)
	require.Equal(t, []string{"1", "3"}, routeIDs(exact.ApplyFilters(filter.Criteria{Difficulty: "6a"}).Routes))

	contains := newStore(t, routes, filter.WithDifficultyMatch(filter.MatchContains))
	require.Equal(t, []string{"1", "2", "3"}, routeIDs(contains.ApplyFilters(filter.Criteria{Difficulty: "6A"}).Routes))
}

func TestVocabulary_SortedAndDeduplicated(t *testing.T) {
	routes := []models.Route{
		{ID: "1", TrackLane: "2", Name: "a", Author: "Bob", Color: "Red", Difficulty: "6b"},
		{ID: "2", TrackLane: "1", Name: "b", Author: "Ann", Color: "Blue", Difficulty: "6a"},
		{ID: "3", TrackLane: "1", Name: "c", Author: "Ann", Color: "", Difficulty: "6a"},
	}
	s := newStore(t, routes)

	require.Equal(t, []string{"Ann", "Bob"}, s.Vocabulary(filter.FieldAuthor))
	require.Equal(t, []string{"Blue", "Red"}, s.Vocabulary(filter.FieldColor))
	require.Equal(t, []string{"6a", "6b"}, s.Vocabulary(filter.FieldDifficulty))
	require.Equal(t, []string{"1", "2"}, s.Vocabulary(filter.FieldLane))
	require.Empty(t, s.Vocabulary(filter.Field("setter")))
}

func TestVocabulary_RefreshesAfterCollect(t *testing.T) {
	current := []models.Route{{ID: "1", TrackLane: "1", Name: "a", Author: "Ann"}}
	src := filter.SourceFunc(func(ctx context.Context) ([]models.Route, error) { return current, nil })
	s := filter.NewStore(src)
	require.NoError(t, s.Collect(context.Background()))
	require.Equal(t, []string{"Ann"}, s.Vocabulary(filter.FieldAuthor))

	current = []models.Route{{ID: "2", TrackLane: "1", Name: "b", Author: "Zoe"}}
	require.NoError(t, s.Collect(context.Background()))
	require.Equal(t, []string{"Zoe"}, s.Vocabulary(filter.FieldAuthor))
}

func TestClear_RestoresAllRoutes(t *testing.T) {
	s := newStore(t, sampleRoutes())
	s.ApplyFilters(filter.Criteria{Author: "Ann", DateFilter: "month"})
	require.NotEqual(t, s.AllRoutes(), s.FilteredRoutes())

	res := s.Clear()
	require.Equal(t, s.AllRoutes(), s.FilteredRoutes())
	require.Equal(t, filter.ViewRaw, res.Mode)
	require.True(t, s.Criteria().IsEmpty())
}

func TestDecideViewMode(t *testing.T) {
	s := newStore(t, sampleRoutes())
	require.Equal(t, filter.ViewRaw, s.DecideViewMode())

	s.ApplyFilters(filter.Criteria{})
	require.Equal(t, filter.ViewRaw, s.DecideViewMode())

	// matches every route, still synthesized
	s.ApplyFilters(filter.Criteria{DateFilter: "decade"})
	require.Len(t, s.FilteredRoutes(), 4)
	require.Equal(t, filter.ViewSynthesized, s.DecideViewMode())

	s.Clear()
	require.Equal(t, filter.ViewRaw, s.DecideViewMode())
}

func TestQuery_DoesNotMutateStore(t *testing.T) {
	s := newStore(t, sampleRoutes())
	res := s.Query(filter.Criteria{Author: "Bob"})
	require.Len(t, res.Routes, 1)
	require.Len(t, s.FilteredRoutes(), 4)
	require.True(t, s.Criteria().IsEmpty())
}

func TestResult_EmptyListsActiveFilters(t *testing.T) {
	s := newStore(t, sampleRoutes())
	res := s.ApplyFilters(filter.Criteria{Difficulty: "9a", SearchText: "moon"})
	require.True(t, res.Empty())
	require.Equal(t, []string{"Сложность: 9a", `Поиск: "moon"`}, res.ActiveFilters)
}

func routeIDs(routes []models.Route) []string {
	ids := make([]string, 0, len(routes))
	for _, r := range routes {
		ids = append(ids, r.ID)
	}
	return ids
}
