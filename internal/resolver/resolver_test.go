package resolver_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/postarr/internal/resolver"
	"github.com/vmunix/postarr/internal/resolver/mocks"
	"github.com/vmunix/postarr/internal/tmdb"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFindMatch_PrefersTargetYear(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	mockSearcher.EXPECT().
		Search(gomock.Any(), tmdb.KindTV, "Dark").
		Return([]tmdb.SearchResult{
			{ID: 1, Name: "Dark", FirstAirDate: "2018-01-01"},
			{ID: 2, Name: "Dark", FirstAirDate: "2019-03-01"},
		}, nil)

	r := resolver.New(mockSearcher, testLogger())
	got, err := r.FindMatch(context.Background(), tmdb.KindTV, resolver.Query{Text: "Dark", Year: 2019})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestFindMatch_PrefersTargetYear_RegardlessOfOrder(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	mockSearcher.EXPECT().
		Search(gomock.Any(), tmdb.KindMovie, "Dark").
		Return([]tmdb.SearchResult{
			{ID: 2, Title: "Dark", ReleaseDate: "2019-03-01"},
			{ID: 1, Title: "Dark", ReleaseDate: "2018-01-01"},
		}, nil)

	r := resolver.New(mockSearcher, testLogger())
	got, err := r.FindMatch(context.Background(), tmdb.KindMovie, resolver.Query{Text: "Dark", Year: 2019})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestFindMatch_YearInQueryText(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	// Parenthesized year is stripped before searching but still used as tie-breaker.
	mockSearcher.EXPECT().
		Search(gomock.Any(), tmdb.KindMovie, "Dune").
		Return([]tmdb.SearchResult{
			{ID: 841, Title: "Dune", ReleaseDate: "1984-12-14"},
			{ID: 438631, Title: "Dune", ReleaseDate: "2021-09-15"},
		}, nil)

	r := resolver.New(mockSearcher, testLogger())
	got, err := r.FindMatch(context.Background(), tmdb.KindMovie, resolver.Query{Text: "Dune (2021)"})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(438631), got.ID)
}

func TestFindMatch_NoYearReturnsFirst(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	mockSearcher.EXPECT().
		Search(gomock.Any(), tmdb.KindMovie, "Dune").
		Return([]tmdb.SearchResult{
			{ID: 841, Title: "Dune", ReleaseDate: "1984-12-14"},
			{ID: 438631, Title: "Dune", ReleaseDate: "2021-09-15"},
		}, nil)

	r := resolver.New(mockSearcher, testLogger())
	got, err := r.FindMatch(context.Background(), tmdb.KindMovie, resolver.Query{Text: "Dune"})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(841), got.ID)
}

func TestFindMatch_YearWithoutMatchReturnsFirst(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	mockSearcher.EXPECT().
		Search(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]tmdb.SearchResult{
			{ID: 10, Title: "Dune", ReleaseDate: "1984-12-14"},
			{ID: 11, Title: "Dune", ReleaseDate: ""},
		}, nil)

	r := resolver.New(mockSearcher, testLogger())
	got, err := r.FindMatch(context.Background(), tmdb.KindMovie, resolver.Query{Text: "Dune", Year: 2030})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.ID)
}

func TestFindMatch_NoResults(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	mockSearcher.EXPECT().
		Search(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	r := resolver.New(mockSearcher, testLogger())
	got, err := r.FindMatch(context.Background(), tmdb.KindTV, resolver.Query{Text: "Nothing"})

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindMatch_EmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSearcher := mocks.NewMockSearcher(ctrl) // no calls expected

	r := resolver.New(mockSearcher, testLogger())
	_, err := r.FindMatch(context.Background(), tmdb.KindTV, resolver.Query{Text: " (2020) "})

	assert.ErrorIs(t, err, resolver.ErrEmptyQuery)
}

func TestLookup_FullQueryMatches(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	mockSearcher.EXPECT().
		Search(gomock.Any(), tmdb.KindTV, "Peacemaker").
		Return([]tmdb.SearchResult{{ID: 110492, Name: "Peacemaker", FirstAirDate: "2022-01-13"}}, nil).
		Times(1)

	r := resolver.New(mockSearcher, testLogger())
	m, err := r.Lookup(context.Background(), tmdb.KindTV, "Peacemaker (2022) S01 [1080p]")

	require.NoError(t, err)
	assert.Equal(t, int64(110492), m.Result.ID)
	assert.Equal(t, tmdb.KindTV, m.Kind)
	assert.Equal(t, "Peacemaker", m.Query)
	assert.False(t, m.Fallback)
	assert.InDelta(t, 1.0, m.Similarity, 0.001)
}

func TestLookup_FallbackAttemptedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	gomock.InOrder(
		mockSearcher.EXPECT().
			Search(gomock.Any(), tmdb.KindTV, "Alice in Borderland Extended").
			Return([]tmdb.SearchResult{}, nil).
			Times(1),
		mockSearcher.EXPECT().
			Search(gomock.Any(), tmdb.KindTV, "Alice").
			Return([]tmdb.SearchResult{
				{ID: 1, Name: "Alice", FirstAirDate: "2009-12-06"},
				{ID: 110316, Name: "Alice in Borderland", FirstAirDate: "2020-12-10"},
			}, nil).
			Times(1),
	)

	r := resolver.New(mockSearcher, testLogger())
	m, err := r.Lookup(context.Background(), tmdb.KindTV, "Alice in Borderland Extended (2020) S01 [WEB]")

	require.NoError(t, err)
	assert.True(t, m.Fallback)
	assert.Equal(t, "Alice", m.Query)
	assert.Equal(t, int64(110316), m.Result.ID, "year tie-break applies to fallback too")
}

func TestLookup_NoMatchAfterFallback(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	mockSearcher.EXPECT().
		Search(gomock.Any(), tmdb.KindTV, "Unknown Show").
		Return(nil, nil).
		Times(1)
	mockSearcher.EXPECT().
		Search(gomock.Any(), tmdb.KindTV, "Unknown").
		Return(nil, nil).
		Times(1)

	r := resolver.New(mockSearcher, testLogger())
	m, err := r.Lookup(context.Background(), tmdb.KindTV, "Unknown Show")

	assert.Nil(t, m)
	assert.ErrorIs(t, err, resolver.ErrNoMatch)
}

func TestLookup_SearchErrorNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	mockSearcher.EXPECT().
		Search(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, tmdb.ErrUnauthorized).
		Times(1)

	r := resolver.New(mockSearcher, testLogger())
	_, err := r.Lookup(context.Background(), tmdb.KindMovie, "Some Movie")

	assert.ErrorIs(t, err, tmdb.ErrUnauthorized)
}

func TestLookup_EmptyTitle(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSearcher := mocks.NewMockSearcher(ctrl)

	r := resolver.New(mockSearcher, testLogger())
	_, err := r.Lookup(context.Background(), tmdb.KindMovie, "[1080p]")

	assert.True(t, errors.Is(err, resolver.ErrEmptyQuery))
}

func TestLookup_EmptyFallbackTokenIsNoMatch(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	mockSearcher.EXPECT().
		Search(gomock.Any(), tmdb.KindMovie, "Days of Summer").
		Return(nil, nil).
		Times(1)

	r := resolver.New(mockSearcher, testLogger())
	m, err := r.Lookup(context.Background(), tmdb.KindMovie, "(500) Days of Summer")

	assert.Nil(t, m)
	assert.ErrorIs(t, err, resolver.ErrNoMatch)
	assert.NotErrorIs(t, err, resolver.ErrEmptyQuery)
}

func TestLookupTitle_NoFallback(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	mockSearcher.EXPECT().
		Search(gomock.Any(), tmdb.KindMovie, "Peacemaker 2022").
		Return(nil, nil).
		Times(1)

	r := resolver.New(mockSearcher, testLogger())
	_, err := r.LookupTitle(context.Background(), tmdb.KindMovie, "Peacemaker 2022")

	assert.ErrorIs(t, err, resolver.ErrNoMatch)
}

func TestLookupFallback_UsesFirstToken(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockSearcher := mocks.NewMockSearcher(ctrl)
	mockSearcher.EXPECT().
		Search(gomock.Any(), tmdb.KindTV, "Alice").
		Return([]tmdb.SearchResult{{ID: 110316, Name: "Alice in Borderland"}}, nil).
		Times(1)

	r := resolver.New(mockSearcher, testLogger())
	m, err := r.LookupFallback(context.Background(), tmdb.KindTV, "Alice in Borderland S01")

	require.NoError(t, err)
	assert.True(t, m.Fallback)
	assert.Equal(t, "Alice", m.Query)
}
