package excel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/genius/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type appended struct {
	factID string
	rec    models.ReviewRecord
}

type memoryRepo struct {
	rows []appended
	err  error
}

func (m *memoryRepo) Append(_ context.Context, factID string, rec models.ReviewRecord) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.rows = append(m.rows, appended{factID, rec})
	return int64(len(m.rows)), nil
}

func writeXLSX(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "history.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportHistoryExcel(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"fact", "reviewed_at", "quality"},
		{"hola", "2025-06-15T10:00:00Z", 0.9},
		{"hola", "2025-06-22 10:00:00", 1},
		{"adios", "2025-06-16", 0.25},
		{"", "2025-06-16", 0.5},
		{"adios", "yesterday", 0.5},
		{"adios", "2025-06-17", 1.5},
		{},
		{"gracias", 45823.5, 0},
	})
	repo := &memoryRepo{}
	cfg := DefaultImportConfig()
	cfg.FilePath = path

	res, err := ImportHistory(context.Background(), cfg, repo)
	require.NoError(t, err)

	assert.Equal(t, 7, res.TotalProcessed)
	assert.Equal(t, 4, res.Imported)
	assert.Equal(t, 3, res.Skipped)
	assert.Len(t, res.Errors, 3)
	assert.Equal(t, []string{"hola", "adios", "gracias"}, res.FactIDs)

	require.Len(t, repo.rows, 4)
	assert.Equal(t, "hola", repo.rows[0].factID)
	assert.True(t, repo.rows[0].rec.Timestamp().Equal(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0.9, repo.rows[0].rec.Quality())
	assert.True(t, repo.rows[2].rec.Timestamp().Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)))
	assert.WithinDuration(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), repo.rows[3].rec.Timestamp(), time.Second)
}

func TestImportHistoryCSVGrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	content := "fact,when,grade\n" +
		"x,2025-06-15T10:00:00Z,5\n" +
		"x,2025-06-16T10:00:00Z, 3\n" +
		"y,2025-06-16T10:00:00Z,2.5\n" +
		"y,2025-06-16T10:00:00Z,7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo := &memoryRepo{}
	cfg := DefaultImportConfig()
	cfg.FilePath = path
	cfg.Grades = true

	res, err := ImportHistory(context.Background(), cfg, repo)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, repo.rows, 2)
	assert.Equal(t, 1.0, repo.rows[0].rec.Quality())
	assert.InDelta(t, 0.6, repo.rows[1].rec.Quality(), 1e-12)
}

func TestImportHistoryCustomColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte("0.5,2025-06-15T10:00:00Z,note,z\n"), 0o644))

	repo := &memoryRepo{}
	cfg := ImportConfig{FilePath: path, FactColumn: "D", TimestampColumn: "B", QualityColumn: "A", StartRow: 1}

	res, err := ImportHistory(context.Background(), cfg, repo)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, "z", repo.rows[0].factID)
}

func TestImportHistoryStorageFailureAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte("h\na,2025-06-15,1\nb,2025-06-15,1\n"), 0o644))

	boom := errors.New("disk full")
	cfg := DefaultImportConfig()
	cfg.FilePath = path

	res, err := ImportHistory(context.Background(), cfg, &memoryRepo{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, res.Imported)
}

func TestImportHistoryBadInput(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "missing.xlsx")
	_, err := ImportHistory(context.Background(), cfg, &memoryRepo{})
	assert.Error(t, err)

	cfg.QualityColumn = "1"
	_, err = ImportHistory(context.Background(), cfg, &memoryRepo{})
	assert.Error(t, err)
}
