package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/genius/internal/spaced_repetition"
	"github.com/example/genius/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ReviewAppender stores imported reviews
type ReviewAppender interface {
	Append(ctx context.Context, factID string, rec models.ReviewRecord) (int64, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath        string // Path to the Excel or CSV file
	FactColumn      string // Column with the fact id
	TimestampColumn string // Column with the review time
	QualityColumn   string // Column with the recall quality
	SheetName       string // Name of the sheet to import
	StartRow        int    // The row to start importing from (1-based index)
	Grades          bool   // Quality column holds SM-2 grades 0-5 instead of [0, 1]
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		FactColumn:      "A",
		TimestampColumn: "B",
		QualityColumn:   "C",
		SheetName:       "Sheet1",
		StartRow:        2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	FactIDs        []string // Distinct facts that received reviews, in first-seen order
	Errors         []string
}

// ImportHistory imports review history from an Excel or CSV file.
// Rows that fail validation are reported in Errors and skipped; a storage
// failure aborts the import.
func ImportHistory(ctx context.Context, config ImportConfig, repo ReviewAppender) (*ImportResult, error) {
	cols, err := config.columnIndexes()
	if err != nil {
		return nil, err
	}

	var rows [][]string
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	seen := make(map[string]bool)

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		if isBlank(row) {
			continue
		}
		result.TotalProcessed++

		factID, rec, err := parseRow(row, cols, config.Grades)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		if _, err := repo.Append(ctx, factID, rec); err != nil {
			return result, fmt.Errorf("row %d: %w", i+1, err)
		}
		result.Imported++
		if !seen[factID] {
			seen[factID] = true
			result.FactIDs = append(result.FactIDs, factID)
		}
	}

	return result, nil
}

type columns struct{ fact, timestamp, quality int }

// columnIndexes converts the configured column letters to 0-based indexes
func (c ImportConfig) columnIndexes() (columns, error) {
	var cols columns
	for _, it := range []struct {
		name string
		dst  *int
	}{
		{c.FactColumn, &cols.fact},
		{c.TimestampColumn, &cols.timestamp},
		{c.QualityColumn, &cols.quality},
	} {
		n, err := excelize.ColumnNameToNumber(it.name)
		if err != nil {
			return columns{}, fmt.Errorf("invalid column %q: %w", it.name, err)
		}
		*it.dst = n - 1
	}
	return cols, nil
}

// readExcel returns all rows of a sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(row []string, cols columns, grades bool) (string, models.ReviewRecord, error) {
	factID := cell(row, cols.fact)
	if factID == "" {
		return "", models.ReviewRecord{}, fmt.Errorf("empty fact id")
	}

	at, err := parseTimestamp(cell(row, cols.timestamp))
	if err != nil {
		return "", models.ReviewRecord{}, err
	}

	quality, err := parseQuality(cell(row, cols.quality), grades)
	if err != nil {
		return "", models.ReviewRecord{}, err
	}

	rec, err := models.NewReviewRecord(at, quality)
	if err != nil {
		return "", models.ReviewRecord{}, err
	}
	return factID, rec, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimestamp accepts RFC3339 and a few common layouts (read as UTC), or
// an Excel serial date number.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func parseQuality(s string, grades bool) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quality %q", s)
	}
	if !grades {
		return v, nil
	}
	if v != math.Trunc(v) || v < float64(spaced_repetition.QualityBlackout) || v > float64(spaced_repetition.QualityPerfect) {
		return 0, fmt.Errorf("%w: %q", spaced_repetition.ErrInvalidGrade, s)
	}
	return spaced_repetition.QualityResponse(v).Quality()
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
