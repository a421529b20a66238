package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gridforge/load-forecast-prep/internal/pipeline"
)

const timestampLayout = "2006-01-02 15:04:05"

// Writer persists the cleaned training set as a CSV with ds, y, and the
// per-point flag columns. It implements pipeline.Loader.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a CSV sink writing to the given path. Parent
// directories are created on demand.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Load writes the result's cleaned rows. The file is replaced atomically
// enough for a one-shot batch tool: written in full, then closed.
func (w *Writer) Load(_ context.Context, res *pipeline.Result) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", w.path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"ds", "y", "is_outlier", "is_masked"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range res.Rows() {
		record := []string{
			row.DS.Format(timestampLayout),
			strconv.FormatFloat(row.Y, 'f', -1, 64),
			strconv.Itoa(row.IsOutlier),
			strconv.Itoa(row.IsMasked),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", w.path, err)
	}

	w.logger.Info("wrote cleaned training csv", "path", w.path, "rows", res.CleanTrain.Len(), "run_id", res.RunID)
	return nil
}
