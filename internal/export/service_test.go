package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"movie-catalog-api/internal/aggregation"
	"movie-catalog-api/internal/domain"
)

type stubRunner struct {
	stats []domain.GenderStatistic
	err   error
}

func (s *stubRunner) RunAggregation(context.Context, domain.PipelineSpec) ([]domain.GenderStatistic, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func fixtureStats() []domain.GenderStatistic {
	return []domain.GenderStatistic{{
		Value:      "France",
		TotalCount: 2,
		Breakdown: []domain.GenderBreakdown{
			{Gender: domain.GenderFemale, Count: 1, Percentage: 50},
			{Gender: domain.GenderMale, Count: 1, Percentage: 50},
		},
	}}
}

func TestWriteCSV(t *testing.T) {
	service := NewService(aggregation.NewService(&stubRunner{stats: fixtureStats()}))

	var buf bytes.Buffer
	if err := service.WriteCSV(context.Background(), domain.DimensionCountry, "", &buf); err != nil {
		t.Fatalf("write returned error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "value" || records[0][4] != "percentage" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][0] != "France" || records[1][1] != "2" || records[1][2] != "1" {
		t.Fatalf("unexpected first row: %v", records[1])
	}
}

func TestWriteXLSX(t *testing.T) {
	service := NewService(aggregation.NewService(&stubRunner{stats: fixtureStats()}))

	var buf bytes.Buffer
	if err := service.WriteXLSX(context.Background(), domain.DimensionCountry, "", &buf); err != nil {
		t.Fatalf("write returned error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "France" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
}

func TestWriteCSVPropagatesErrors(t *testing.T) {
	runner := &stubRunner{err: errors.New("cursor timeout")}
	service := NewService(aggregation.NewService(runner))

	err := service.WriteCSV(context.Background(), domain.DimensionCountry, "", &bytes.Buffer{})

	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
}
