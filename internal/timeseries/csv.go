package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Source CSV column names. Datetime maps to the canonical ds column and
// the load column maps to y.
const (
	colDatetime = "Datetime"
	colLoad     = "PJME_MW"
)

// timestampLayouts are tried in order when parsing the Datetime column.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

// ProjectRoot returns the absolute path of the repository root, anchored
// two directories above this package (internal/timeseries -> internal -> root).
func ProjectRoot() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	return filepath.Dir(filepath.Dir(filepath.Dir(file)))
}

// LoadCSV reads an hourly load CSV into a Series, renaming Datetime -> ds
// and PJME_MW -> y. Relative paths are resolved against ProjectRoot. A
// missing file fails with an error naming the resolved absolute path.
// Blank or unparseable value cells become NaN (missing); the cleaner is
// responsible for imputing them.
func LoadCSV(path string) (Series, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(ProjectRoot(), path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Series{}, fmt.Errorf("data file not found at: %s", path)
		}
		return Series{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return Series{}, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(rows) < 2 {
		return Series{}, fmt.Errorf("no data rows in %s", path)
	}

	dsIdx, yIdx, err := locateColumns(rows[0])
	if err != nil {
		return Series{}, fmt.Errorf("%s: %w", path, err)
	}

	times := make([]time.Time, 0, len(rows)-1)
	values := make([]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if dsIdx >= len(row) || yIdx >= len(row) {
			return Series{}, fmt.Errorf("%s line %d: short row", path, i+2)
		}
		ts, err := parseTimestamp(row[dsIdx])
		if err != nil {
			return Series{}, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		times = append(times, ts)
		values = append(values, parseValueOrNaN(row[yIdx]))
	}

	return New(times, values)
}

// locateColumns finds the Datetime column and the value column. The value
// column is PJME_MW when present, otherwise the first non-Datetime column.
func locateColumns(header []string) (dsIdx, yIdx int, err error) {
	dsIdx, yIdx = -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case colDatetime:
			dsIdx = i
		case colLoad:
			yIdx = i
		}
	}
	if dsIdx == -1 {
		return 0, 0, fmt.Errorf("missing %s column", colDatetime)
	}
	if yIdx == -1 {
		for i := range header {
			if i != dsIdx {
				yIdx = i
				break
			}
		}
	}
	if yIdx == -1 {
		return 0, 0, errors.New("no value column")
	}
	return dsIdx, yIdx, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

func parseValueOrNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
