package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"movie-catalog-api/internal/aggregation"
	"movie-catalog-api/internal/domain"
)

var headers = []string{"value", "total_count", "gender", "count", "percentage"}

// Service renders gender distributions as downloadable files. One row is
// written per (dimension value, gender) pair so the output stays flat.
type Service struct {
	stats *aggregation.Service
}

// NewService creates an export service over the statistics service.
func NewService(stats *aggregation.Service) *Service {
	return &Service{stats: stats}
}

// WriteCSV streams the distribution for one dimension as CSV.
func (s *Service) WriteCSV(ctx context.Context, dimension domain.Dimension, value string, w io.Writer) error {
	rows, err := s.stats.Distribution(ctx, dimension, value)
	if err != nil {
		return err
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, stat := range rows {
		for _, cells := range flattenStatistic(stat) {
			record := make([]string, len(cells))
			for i, cell := range cells {
				record[i] = fmt.Sprintf("%v", cell)
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteXLSX writes the distribution for one dimension as a single-sheet
// workbook.
func (s *Service) WriteXLSX(ctx context.Context, dimension domain.Dimension, value string, w io.Writer) error {
	rows, err := s.stats.Distribution(ctx, dimension, value)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rowIdx := 2
	for _, stat := range rows {
		for _, cells := range flattenStatistic(stat) {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
			rowIdx++
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func flattenStatistic(stat domain.GenderStatistic) [][]any {
	if len(stat.Breakdown) == 0 {
		return [][]any{{stat.Value, stat.TotalCount, "", 0, 0.0}}
	}
	rows := make([][]any, 0, len(stat.Breakdown))
	for _, b := range stat.Breakdown {
		rows = append(rows, []any{stat.Value, stat.TotalCount, int(b.Gender), b.Count, b.Percentage})
	}
	return rows
}
