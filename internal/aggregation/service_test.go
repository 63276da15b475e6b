package aggregation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"

	"movie-catalog-api/internal/domain"
)

// memoryAggregator evaluates pipeline specs over an in-memory record set
// with the same semantics the store gives them: match, unwind array
// fields, group by (value, gender), then fold the groups per value.
type memoryAggregator struct {
	records []domain.GenderRecord
	err     error
	calls   int
}

type memoryRow struct {
	record domain.GenderRecord
	value  any
}

func (m *memoryAggregator) RunAggregation(_ context.Context, spec domain.PipelineSpec) ([]domain.GenderStatistic, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	rows := make([]memoryRow, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, memoryRow{record: r})
	}

	for _, stage := range spec.Stages {
		switch s := stage.(type) {
		case domain.MatchStage:
			rows = matchRows(rows, s)
		case domain.UnwindStage:
			rows = unwindRows(rows, s.Field)
		case domain.GroupStage:
			for i := range rows {
				if rows[i].value == nil {
					values := recordField(rows[i].record, s.Field)
					if len(values) > 0 {
						rows[i].value = values[0]
					}
				}
			}
		case domain.RegroupStage, domain.ProjectStage:
			// Folded below once all row-level stages have run.
		}
	}

	return foldRows(rows), nil
}

func matchRows(rows []memoryRow, stage domain.MatchStage) []memoryRow {
	var kept []memoryRow
	for _, row := range rows {
		if stage.RequireExists && len(recordField(row.record, stage.Field)) == 0 {
			continue
		}
		if stage.Genders != nil && !genderKnown(row.record.Gender, stage.Genders) {
			continue
		}
		if stage.Value != nil {
			if row.value != nil {
				if row.value != stage.Value {
					continue
				}
			} else if !containsValue(recordField(row.record, stage.Field), stage.Value) {
				continue
			}
		}
		kept = append(kept, row)
	}
	return kept
}

func unwindRows(rows []memoryRow, field string) []memoryRow {
	var out []memoryRow
	for _, row := range rows {
		for _, value := range recordField(row.record, field) {
			out = append(out, memoryRow{record: row.record, value: value})
		}
	}
	return out
}

func foldRows(rows []memoryRow) []domain.GenderStatistic {
	totals := map[string]int{}
	counts := map[string]map[domain.Gender]int{}
	rawValues := map[string]any{}

	for _, row := range rows {
		if row.value == nil {
			continue
		}
		k := fmt.Sprintf("%v", row.value)
		rawValues[k] = row.value
		totals[k]++
		if counts[k] == nil {
			counts[k] = map[domain.Gender]int{}
		}
		counts[k][row.record.Gender]++
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stats := make([]domain.GenderStatistic, 0, len(keys))
	for _, k := range keys {
		stat := domain.GenderStatistic{Value: rawValues[k], TotalCount: totals[k]}
		for _, gender := range domain.KnownGenders {
			count, ok := counts[k][gender]
			if !ok {
				continue
			}
			stat.Breakdown = append(stat.Breakdown, domain.GenderBreakdown{
				Gender:     gender,
				Count:      count,
				Percentage: float64(count) / float64(totals[k]) * 100,
			})
		}
		stats = append(stats, stat)
	}
	return stats
}

func recordField(r domain.GenderRecord, field string) []any {
	switch field {
	case "countries":
		return anySlice(r.Countries)
	case "companies":
		return anySlice(r.Companies)
	case "genres":
		return anySlice(r.Genres)
	case "department":
		if r.Department == "" {
			return nil
		}
		return []any{r.Department}
	case "year":
		if r.Year == 0 {
			return nil
		}
		return []any{r.Year}
	default:
		return nil
	}
}

func anySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func containsValue(values []any, want any) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func genderKnown(g domain.Gender, known []domain.Gender) bool {
	for _, k := range known {
		if g == k {
			return true
		}
	}
	return false
}

func fixtureRecords() []domain.GenderRecord {
	// One US movie with three credited people, one French movie with one.
	return []domain.GenderRecord{
		{MovieID: 1, Countries: []string{"United States of America"}, Department: "Acting", Gender: domain.GenderFemale},
		{MovieID: 1, Countries: []string{"United States of America"}, Department: "Acting", Gender: domain.GenderMale},
		{MovieID: 1, Countries: []string{"United States of America"}, Department: "Directing", Gender: domain.GenderMale},
		{MovieID: 2, Countries: []string{"France"}, Department: "Acting", Gender: domain.GenderFemale},
	}
}

func TestDistributionByCountry(t *testing.T) {
	store := &memoryAggregator{records: fixtureRecords()}
	service := NewService(store)

	stats, err := service.Distribution(context.Background(), domain.DimensionCountry, "")
	if err != nil {
		t.Fatalf("distribution returned error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 countries, got %d", len(stats))
	}
	if store.calls != 1 {
		t.Fatalf("expected a single aggregation round trip, got %d", store.calls)
	}

	byValue := map[any]domain.GenderStatistic{}
	for _, stat := range stats {
		byValue[stat.Value] = stat
	}

	us := byValue["United States of America"]
	if us.TotalCount != 3 {
		t.Fatalf("expected 3 US records, got %d", us.TotalCount)
	}
	fr := byValue["France"]
	if fr.TotalCount != 1 {
		t.Fatalf("expected 1 French record, got %d", fr.TotalCount)
	}

	for _, stat := range stats {
		countSum := 0
		pctSum := 0.0
		for _, b := range stat.Breakdown {
			countSum += b.Count
			pctSum += b.Percentage
		}
		if countSum != stat.TotalCount {
			t.Fatalf("%v: breakdown counts sum to %d, total is %d", stat.Value, countSum, stat.TotalCount)
		}
		if math.Abs(pctSum-100) > 1e-9 {
			t.Fatalf("%v: percentages sum to %v", stat.Value, pctSum)
		}
	}

	wantUS := map[domain.Gender]int{domain.GenderFemale: 1, domain.GenderMale: 2}
	for _, b := range us.Breakdown {
		if wantUS[b.Gender] != b.Count {
			t.Fatalf("US gender %d: expected %d, got %d", b.Gender, wantUS[b.Gender], b.Count)
		}
	}
}

func TestDistributionNarrowedToOneValue(t *testing.T) {
	records := fixtureRecords()
	// A co-production: unwinding it must not leak the sibling country
	// into a narrowed aggregation.
	records = append(records, domain.GenderRecord{
		MovieID:   3,
		Countries: []string{"United States of America", "France"},
		Gender:    domain.GenderFemale,
	})
	service := NewService(&memoryAggregator{records: records})

	stats, err := service.Distribution(context.Background(), domain.DimensionCountry, "France")
	if err != nil {
		t.Fatalf("distribution returned error: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected a single row, got %d", len(stats))
	}
	if stats[0].Value != "France" || stats[0].TotalCount != 2 {
		t.Fatalf("unexpected row: %+v", stats[0])
	}
}

func TestDistributionByYearKeepsNumericValues(t *testing.T) {
	records := []domain.GenderRecord{
		{MovieID: 1, Year: 1995, Gender: domain.GenderMale},
		{MovieID: 1, Year: 1995, Gender: domain.GenderFemale},
		{MovieID: 2, Year: 2003, Gender: domain.GenderMale},
	}
	service := NewService(&memoryAggregator{records: records})

	stats, err := service.Distribution(context.Background(), domain.DimensionYear, "1995")
	if err != nil {
		t.Fatalf("distribution returned error: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected a single row, got %d", len(stats))
	}
	if stats[0].Value != 1995 || stats[0].TotalCount != 2 {
		t.Fatalf("unexpected row: %+v", stats[0])
	}
}

func TestDistributionWithNoMatchesYieldsNoRows(t *testing.T) {
	service := NewService(&memoryAggregator{})

	stats, err := service.Distribution(context.Background(), domain.DimensionGenre, "")
	if err != nil {
		t.Fatalf("distribution returned error: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("expected no rows, got %d", len(stats))
	}
}

func TestDistributionWrapsStoreFaults(t *testing.T) {
	store := &memoryAggregator{err: errors.New("cursor timeout")}
	service := NewService(store)

	_, err := service.Distribution(context.Background(), domain.DimensionCountry, "")

	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if !errors.Is(err, store.err) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestDistributionRejectsBadValueBeforeStore(t *testing.T) {
	store := &memoryAggregator{}
	service := NewService(store)

	_, err := service.Distribution(context.Background(), domain.DimensionYear, "soon")

	var invalid *domain.InvalidValueError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidValueError, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("expected no store round trips, got %d", store.calls)
	}
}
