package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WorkbookWriter writes all reports into one XLSX file, one sheet each
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	return &WorkbookWriter{logger: logger.With(slog.String("component", "workbook_writer"))}
}

// Write saves reports to path. Missing values are left as blank cells.
func (w *WorkbookWriter) Write(ctx context.Context, reports []Report, path string) error {
	if len(reports) == 0 {
		return fmt.Errorf("no reports to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, r := range reports {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), r.Sheet); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", r.Sheet, err)
			}
		} else if _, err := f.NewSheet(r.Sheet); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", r.Sheet, err)
		}

		if err := writeSheet(f, r, headerStyle); err != nil {
			return fmt.Errorf("sheet %q: %w", r.Sheet, err)
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.InfoContext(ctx, "workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(reports)))
	return nil
}

func writeSheet(f *excelize.File, r Report, headerStyle int) error {
	header := make([]any, len(r.Headers))
	for i, h := range r.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(r.Sheet, "A1", &header); err != nil {
		return err
	}

	if len(r.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(r.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(r.Sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for i, row := range r.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		if err := f.SetSheetRow(r.Sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
