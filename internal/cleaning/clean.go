package cleaning

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/gridforge/load-forecast-prep/internal/timeseries"
)

// Result holds the cleaned series together with the per-point flags and the
// expanded anomaly calendar, for downstream reporting and metrics.
type Result struct {
	Cleaned timeseries.Series
	Windows []AnomalyWindow

	// Masked marks points whose date fell inside a hurricane window.
	Masked []bool
	// Outliers marks points whose original value broke the rolling
	// median +/- multiplier*IQR band. Masked points are never flagged;
	// masking takes precedence.
	Outliers []bool
}

// MaskedCount returns the number of hurricane-masked points.
func (r *Result) MaskedCount() int { return countTrue(r.Masked) }

// OutlierCount returns the number of points flagged as outliers.
func (r *Result) OutlierCount() int { return countTrue(r.Outliers) }

// Clean masks hurricane periods and imputes statistical outliers in a
// training series. The input is never mutated; the returned series has the
// same length and timestamps, and its value column contains no NaN.
//
// Steps:
//  1. NaN out every point whose calendar date falls within
//     +/- params.HurricaneWindowDays of an anomaly date.
//  2. Forward/back-fill a temporary copy to stabilize rolling statistics.
//  3. Compute a centered rolling median and IQR over the temporary copy.
//  4. Flag points whose masked value falls strictly outside
//     median +/- multiplier*IQR.
//  5. Replace flagged and missing points with the rolling median, then
//     forward/back-fill residual gaps (series boundaries where the rolling
//     window is undefined).
func Clean(series timeseries.Series, params Params, anomalyDates []time.Time) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, timeseries.ErrEmpty
	}

	s := series.Copy()
	masked := maskAnomalies(s, anomalyDates, params.HurricaneWindowDays)

	temp := make([]float64, len(s.Values))
	copy(temp, s.Values)
	forwardFill(temp)
	backwardFill(temp)

	medians, iqrs := rollingMedianIQR(temp, params.WindowSize)

	outliers := make([]bool, s.Len())
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue // masked or originally missing: not compared against the band
		}
		upper := medians[i] + params.IQRMultiplier*iqrs[i]
		lower := medians[i] - params.IQRMultiplier*iqrs[i]
		// NaN band (undefined window near the boundary) never flags.
		if v > upper || v < lower {
			outliers[i] = true
		}
	}

	for i := range s.Values {
		if outliers[i] || math.IsNaN(s.Values[i]) {
			s.Values[i] = medians[i]
		}
	}
	forwardFill(s.Values)
	backwardFill(s.Values)

	return &Result{
		Cleaned:  s,
		Windows:  ExpandWindows(anomalyDates, params.HurricaneWindowDays),
		Masked:   masked,
		Outliers: outliers,
	}, nil
}

// maskAnomalies NaNs out values inside the hurricane day ranges, in place,
// and returns the mask.
func maskAnomalies(s timeseries.Series, dates []time.Time, days int) []bool {
	masked := make([]bool, s.Len())
	if len(dates) == 0 {
		return masked
	}
	union := maskedDates(dates, days)
	for i, t := range s.Times {
		if _, ok := union[truncateToDay(t)]; ok {
			s.Values[i] = math.NaN()
			masked[i] = true
		}
	}
	return masked
}

// rollingMedianIQR computes a centered rolling median and interquartile
// range of width window. Points without a full window on both sides get
// NaN; the caller resolves them with forward/back fill. The centered label
// offset matches the convention of the training notebooks: the window for
// index i spans [i-(window-1)/2, i+window/2].
func rollingMedianIQR(values []float64, window int) (medians, iqrs []float64) {
	n := len(values)
	medians = make([]float64, n)
	iqrs = make([]float64, n)
	for i := range medians {
		medians[i] = math.NaN()
		iqrs[i] = math.NaN()
	}
	if window > n {
		return medians, iqrs
	}

	offset := (window - 1) / 2
	buf := make([]float64, window)
	for i := offset; i+window-offset-1 < n; i++ {
		copy(buf, values[i-offset:i-offset+window])
		sort.Float64s(buf)
		medians[i] = sortedMedian(buf)
		iqrs[i] = stat.Quantile(0.75, stat.LinInterp, buf, nil) -
			stat.Quantile(0.25, stat.LinInterp, buf, nil)
	}
	return medians, iqrs
}

// sortedMedian returns the median of an already sorted slice.
func sortedMedian(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// forwardFill replaces each NaN with the nearest preceding non-NaN value.
// Leading NaNs are left in place.
func forwardFill(values []float64) {
	last := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = last
			continue
		}
		last = v
	}
}

// backwardFill replaces each NaN with the nearest following non-NaN value.
// Trailing NaNs are left in place.
func backwardFill(values []float64) {
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if math.IsNaN(values[i]) {
			values[i] = next
			continue
		}
		next = values[i]
	}
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
