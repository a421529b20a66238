// Package csvfile adapts the pipeline's Source and Loader interfaces to
// CSV files on local disk.
package csvfile

import (
	"context"
	"log/slog"

	"github.com/gridforge/load-forecast-prep/internal/timeseries"
)

// Source reads the raw hourly load CSV. It implements pipeline.Source.
type Source struct {
	path   string
	logger *slog.Logger
}

// NewSource creates a CSV source for the given path. Relative paths are
// resolved against the project root.
func NewSource(path string, logger *slog.Logger) *Source {
	return &Source{path: path, logger: logger}
}

// Extract loads the series from disk.
func (s *Source) Extract(_ context.Context) (timeseries.Series, error) {
	series, err := timeseries.LoadCSV(s.path)
	if err != nil {
		return timeseries.Series{}, err
	}
	s.logger.Info("loaded source csv", "path", s.path, "rows", series.Len(), "missing", series.MissingCount())
	return series, nil
}
