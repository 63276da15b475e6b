package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"movie-catalog-api/internal/domain"
)

type stubIDStore struct {
	ids           []int
	err           error
	calls         int
	lastPredicate domain.Predicate
}

func (s *stubIDStore) FindMovieIDsByQuery(_ context.Context, predicate domain.Predicate) ([]int, error) {
	s.calls++
	s.lastPredicate = predicate
	if s.err != nil {
		return nil, s.err
	}
	return s.ids, nil
}

type testStores struct {
	movies  *stubIDStore
	credits *stubIDStore
	ratings *stubIDStore
}

func newTestBuilder() (*Builder, testStores) {
	stores := testStores{
		movies:  &stubIDStore{},
		credits: &stubIDStore{},
		ratings: &stubIDStore{},
	}
	builder := NewBuilder(NewResolver(stores.movies, stores.credits, stores.ratings))
	builder.now = func() time.Time {
		return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
	return builder, stores
}

func (s testStores) totalCalls() int {
	return s.movies.calls + s.credits.calls + s.ratings.calls
}

func TestBuildRejectsEmptyFilters(t *testing.T) {
	builder, _ := newTestBuilder()

	_, err := builder.Build(context.Background(), domain.ResourceMovie, domain.Filters{})

	var missing *domain.MissingFilterError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFilterError, got %v", err)
	}
	if missing.Resource != domain.ResourceMovie {
		t.Fatalf("expected movie resource, got %s", missing.Resource)
	}
}

func TestBuildRejectsUnknownFieldsWithoutResolving(t *testing.T) {
	builder, stores := newTestBuilder()

	filters := domain.Filters{"title": "Heat", "director": "Mann", "budget": "big"}
	_, err := builder.Build(context.Background(), domain.ResourceMovie, filters)

	var invalid *domain.InvalidFieldsError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFieldsError, got %v", err)
	}
	if len(invalid.Fields) != 2 || invalid.Fields[0] != "budget" || invalid.Fields[1] != "director" {
		t.Fatalf("unexpected invalid fields: %v", invalid.Fields)
	}
	if stores.totalCalls() != 0 {
		t.Fatalf("expected no store round trips, got %d", stores.totalCalls())
	}
}

func TestBuildValidatesValuesBeforeResolving(t *testing.T) {
	builder, stores := newTestBuilder()

	// The actor filter would normally cost a credits round trip; the bad
	// year must stop the build before that happens.
	filters := domain.Filters{"actor": "Tom Hanks", "year": "1899"}
	_, err := builder.Build(context.Background(), domain.ResourceMovie, filters)

	var invalid *domain.InvalidValueError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidValueError, got %v", err)
	}
	if invalid.Field != "year" {
		t.Fatalf("expected year to be rejected, got %s", invalid.Field)
	}
	if stores.totalCalls() != 0 {
		t.Fatalf("expected no store round trips, got %d", stores.totalCalls())
	}
}

func TestBuildRejectsNumericActor(t *testing.T) {
	builder, stores := newTestBuilder()

	for _, value := range []string{"42", "4.5", "-1"} {
		_, err := builder.Build(context.Background(), domain.ResourceMovie, domain.Filters{"actor": value})

		var invalid *domain.InvalidValueError
		if !errors.As(err, &invalid) {
			t.Fatalf("actor %q: expected InvalidValueError, got %v", value, err)
		}
		if invalid.Field != "actor" {
			t.Fatalf("actor %q: expected actor field, got %s", value, invalid.Field)
		}
	}
	if stores.totalCalls() != 0 {
		t.Fatalf("expected no store round trips, got %d", stores.totalCalls())
	}
}

func TestBuildYearBounds(t *testing.T) {
	builder, _ := newTestBuilder()

	cases := []struct {
		value string
		valid bool
	}{
		{"1899", false},
		{"1900", true},
		{"2024", true},
		{"2025", false},
		{"abc", false},
	}
	for _, tc := range cases {
		_, err := builder.Build(context.Background(), domain.ResourceMovie, domain.Filters{"year": tc.value})
		if tc.valid && err != nil {
			t.Fatalf("year %q: unexpected error %v", tc.value, err)
		}
		if !tc.valid {
			var invalid *domain.InvalidValueError
			if !errors.As(err, &invalid) {
				t.Fatalf("year %q: expected InvalidValueError, got %v", tc.value, err)
			}
		}
	}
}

func TestBuildYearWidensToCalendarRange(t *testing.T) {
	builder, _ := newTestBuilder()

	predicate, err := builder.Build(context.Background(), domain.ResourceMovie, domain.Filters{"year": "1995"})
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	if len(predicate.Terms) != 1 {
		t.Fatalf("expected 1 term, got %d", len(predicate.Terms))
	}

	rangeTerm, ok := predicate.Terms[0].(domain.RangeTerm)
	if !ok {
		t.Fatalf("expected RangeTerm, got %T", predicate.Terms[0])
	}
	if rangeTerm.Field != "release_date" {
		t.Fatalf("expected release_date field, got %s", rangeTerm.Field)
	}
	wantFrom := time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(1995, time.December, 31, 23, 59, 59, 0, time.UTC)
	if !rangeTerm.From.Equal(wantFrom) || !rangeTerm.To.Equal(wantTo) {
		t.Fatalf("unexpected range: %v .. %v", rangeTerm.From, rangeTerm.To)
	}
}

func TestBuildActorOnMoviesResolvesThroughCredits(t *testing.T) {
	builder, stores := newTestBuilder()
	stores.credits.ids = []int{862, 597, 862}

	predicate, err := builder.Build(context.Background(), domain.ResourceMovie, domain.Filters{"actor": "Tom Hanks"})
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}

	if stores.credits.calls != 1 {
		t.Fatalf("expected exactly 1 credits round trip, got %d", stores.credits.calls)
	}
	resolved, ok := stores.credits.lastPredicate.Terms[0].(domain.ContainsTerm)
	if !ok || resolved.Field != "cast.name" {
		t.Fatalf("expected cast.name contains term, got %+v", stores.credits.lastPredicate.Terms[0])
	}

	inTerm, ok := predicate.Terms[0].(domain.InTerm)
	if !ok {
		t.Fatalf("expected InTerm, got %T", predicate.Terms[0])
	}
	if inTerm.Field != "movie_id" {
		t.Fatalf("expected movie_id field, got %s", inTerm.Field)
	}
	if len(inTerm.IDs) != 2 || inTerm.IDs[0] != 597 || inTerm.IDs[1] != 862 {
		t.Fatalf("expected deduplicated sorted ids, got %v", inTerm.IDs)
	}
}

func TestBuildActorOnActorSearchStaysLocal(t *testing.T) {
	builder, stores := newTestBuilder()

	predicate, err := builder.Build(context.Background(), domain.ResourceActor, domain.Filters{"actor": "Hanks"})
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	if stores.totalCalls() != 0 {
		t.Fatalf("expected no store round trips, got %d", stores.totalCalls())
	}

	contains, ok := predicate.Terms[0].(domain.ContainsTerm)
	if !ok || contains.Field != "cast.name" || contains.Value != "Hanks" {
		t.Fatalf("unexpected term: %+v", predicate.Terms[0])
	}
}

func TestBuildEmptyResolutionKeepsMatchNothingTerm(t *testing.T) {
	builder, stores := newTestBuilder()
	stores.credits.ids = nil

	predicate, err := builder.Build(context.Background(), domain.ResourceMovie, domain.Filters{"actor": "Nobody"})
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}

	inTerm, ok := predicate.Terms[0].(domain.InTerm)
	if !ok {
		t.Fatalf("expected InTerm, got %T", predicate.Terms[0])
	}
	if inTerm.IDs == nil || len(inTerm.IDs) != 0 {
		t.Fatalf("expected empty non-nil id set, got %v", inTerm.IDs)
	}
}

func TestBuildGenreResolvesThroughMovies(t *testing.T) {
	builder, stores := newTestBuilder()
	stores.movies.ids = []int{11, 12}

	predicate, err := builder.Build(context.Background(), domain.ResourceMovie, domain.Filters{"genre": "Drama"})
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	if stores.movies.calls != 1 {
		t.Fatalf("expected exactly 1 movies round trip, got %d", stores.movies.calls)
	}

	resolved, ok := stores.movies.lastPredicate.Terms[0].(domain.ContainsTerm)
	if !ok || resolved.Field != "genres.name" {
		t.Fatalf("expected genres.name contains term, got %+v", stores.movies.lastPredicate.Terms[0])
	}
	inTerm, ok := predicate.Terms[0].(domain.InTerm)
	if !ok || len(inTerm.IDs) != 2 {
		t.Fatalf("unexpected term: %+v", predicate.Terms[0])
	}
}

func TestBuildRatingDependsOnResource(t *testing.T) {
	builder, stores := newTestBuilder()
	stores.ratings.ids = []int{31}

	// On the ratings collection the threshold applies in place.
	predicate, err := builder.Build(context.Background(), domain.ResourceRating, domain.Filters{"rating": "4.5"})
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	ge, ok := predicate.Terms[0].(domain.GreaterOrEqualTerm)
	if !ok || ge.Field != "rating" || ge.Value != 4.5 {
		t.Fatalf("unexpected term: %+v", predicate.Terms[0])
	}
	if stores.totalCalls() != 0 {
		t.Fatalf("expected no store round trips, got %d", stores.totalCalls())
	}

	// On movies it resolves to the ids of sufficiently rated movies.
	predicate, err = builder.Build(context.Background(), domain.ResourceMovie, domain.Filters{"rating": "4.5"})
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	if stores.ratings.calls != 1 {
		t.Fatalf("expected exactly 1 ratings round trip, got %d", stores.ratings.calls)
	}
	inTerm, ok := predicate.Terms[0].(domain.InTerm)
	if !ok || len(inTerm.IDs) != 1 || inTerm.IDs[0] != 31 {
		t.Fatalf("unexpected term: %+v", predicate.Terms[0])
	}
}

func TestBuildRatingBounds(t *testing.T) {
	builder, _ := newTestBuilder()

	for _, value := range []string{"-0.5", "5.1", "five"} {
		_, err := builder.Build(context.Background(), domain.ResourceRating, domain.Filters{"rating": value})
		var invalid *domain.InvalidValueError
		if !errors.As(err, &invalid) {
			t.Fatalf("rating %q: expected InvalidValueError, got %v", value, err)
		}
	}
	for _, value := range []string{"0", "5", "3.5"} {
		if _, err := builder.Build(context.Background(), domain.ResourceRating, domain.Filters{"rating": value}); err != nil {
			t.Fatalf("rating %q: unexpected error %v", value, err)
		}
	}
}

func TestBuildMergesFieldsConjunctively(t *testing.T) {
	builder, stores := newTestBuilder()
	stores.movies.ids = []int{11}

	filters := domain.Filters{"title": "story", "genre": "Animation", "year": "1995"}
	predicate, err := builder.Build(context.Background(), domain.ResourceMovie, filters)
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	if len(predicate.Terms) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(predicate.Terms))
	}

	// Fields translate in lexical order: genre, title, year.
	if _, ok := predicate.Terms[0].(domain.InTerm); !ok {
		t.Fatalf("expected InTerm first, got %T", predicate.Terms[0])
	}
	title, ok := predicate.Terms[1].(domain.ContainsTerm)
	if !ok || title.Field != "title" {
		t.Fatalf("expected title contains term, got %+v", predicate.Terms[1])
	}
	if _, ok := predicate.Terms[2].(domain.RangeTerm); !ok {
		t.Fatalf("expected RangeTerm last, got %T", predicate.Terms[2])
	}
}

func TestBuildDescriptionSearchesOverview(t *testing.T) {
	builder, _ := newTestBuilder()

	predicate, err := builder.Build(context.Background(), domain.ResourceMovie, domain.Filters{"description": "heist"})
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	contains, ok := predicate.Terms[0].(domain.ContainsTerm)
	if !ok || contains.Field != "overview" || contains.Value != "heist" {
		t.Fatalf("unexpected term: %+v", predicate.Terms[0])
	}
}

func TestBuildWrapsStoreFaults(t *testing.T) {
	builder, stores := newTestBuilder()
	stores.credits.err = errors.New("connection reset")

	_, err := builder.Build(context.Background(), domain.ResourceMovie, domain.Filters{"actor": "Tom Hanks"})

	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if !errors.Is(err, stores.credits.err) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
