package csvfile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge/load-forecast-prep/internal/pipeline"
	"github.com/gridforge/load-forecast-prep/internal/timeseries"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSourceExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.csv")
	content := "Datetime,PJME_MW\n2012-10-20 00:00:00,30125.0\n2012-10-20 01:00:00,29456.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	src := NewSource(path, discardLogger())
	series, err := src.Extract(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, series.Len())
	assert.Equal(t, 30125.0, series.Values[0])
}

func TestSourceExtract_MissingFile(t *testing.T) {
	src := NewSource(filepath.Join(t.TempDir(), "nope.csv"), discardLogger())

	_, err := src.Extract(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data file not found")
}

func TestWriterLoad(t *testing.T) {
	base := time.Date(2012, time.October, 20, 0, 0, 0, 0, time.UTC)
	clean, err := timeseries.New(
		[]time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)},
		[]float64{30125, 29456.5, 30000},
	)
	require.NoError(t, err)

	res := &pipeline.Result{
		RunID:      "prep-test",
		CleanTrain: clean,
		Masked:     []bool{false, true, false},
		Outliers:   []bool{false, false, true},
	}

	// Nested path exercises directory creation.
	path := filepath.Join(t.TempDir(), "clean", "train_clean.csv")
	w := NewWriter(path, discardLogger())
	require.NoError(t, w.Load(context.Background(), res))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "ds,y,is_outlier,is_masked\n" +
		"2012-10-20 00:00:00,30125,0,0\n" +
		"2012-10-20 01:00:00,29456.5,0,1\n" +
		"2012-10-20 02:00:00,30000,1,0\n"
	assert.Equal(t, want, string(got))
}

func TestWriterLoad_OverwritesExisting(t *testing.T) {
	base := time.Date(2012, time.October, 20, 0, 0, 0, 0, time.UTC)
	clean, err := timeseries.New([]time.Time{base}, []float64{100})
	require.NoError(t, err)

	res := &pipeline.Result{
		CleanTrain: clean,
		Masked:     []bool{false},
		Outliers:   []bool{false},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0o600))

	w := NewWriter(path, discardLogger())
	require.NoError(t, w.Load(context.Background(), res))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ds,y,is_outlier,is_masked\n2012-10-20 00:00:00,100,0,0\n", string(got))
}
