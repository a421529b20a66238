package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrLengthMismatch indicates the timestamp and value slices differ in length.
	ErrLengthMismatch = errors.New("timestamps and values have different lengths")

	// ErrEmpty indicates a series with no observations.
	ErrEmpty = errors.New("series is empty")

	// ErrNotChronological indicates timestamps that are not strictly increasing.
	// Duplicate timestamps are rejected under the same error.
	ErrNotChronological = errors.New("timestamps are not strictly increasing")
)

// Series is a univariate time series: one observed value per timestamp.
// Missing observations are represented as NaN in Values. Timestamps are
// strictly increasing; construction via New enforces this.
type Series struct {
	Times  []time.Time
	Values []float64
}

// New builds a Series after validating that both slices have the same
// non-zero length and that timestamps are strictly increasing.
func New(times []time.Time, values []float64) (Series, error) {
	if len(times) != len(values) {
		return Series{}, fmt.Errorf("%w: %d timestamps, %d values", ErrLengthMismatch, len(times), len(values))
	}
	if len(times) == 0 {
		return Series{}, ErrEmpty
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return Series{}, fmt.Errorf("%w: index %d (%s) does not advance past %s",
				ErrNotChronological, i, times[i].Format(time.RFC3339), times[i-1].Format(time.RFC3339))
		}
	}
	return Series{Times: times, Values: values}, nil
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Times) }

// Copy returns a deep copy. Cleaning mutates values in place on its own
// copy, so callers keep their original data untouched.
func (s Series) Copy() Series {
	times := make([]time.Time, len(s.Times))
	values := make([]float64, len(s.Values))
	copy(times, s.Times)
	copy(values, s.Values)
	return Series{Times: times, Values: values}
}

// MissingCount returns the number of NaN values.
func (s Series) MissingCount() int {
	n := 0
	for _, v := range s.Values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// SplitAt divides the series at a cutoff timestamp: train holds rows with
// ds strictly before the cutoff, test holds rows on or after it. Together
// they cover every input row exactly once.
func (s Series) SplitAt(cutoff time.Time) (train, test Series) {
	idx := len(s.Times)
	for i, t := range s.Times {
		if !t.Before(cutoff) {
			idx = i
			break
		}
	}
	train = Series{Times: s.Times[:idx], Values: s.Values[:idx]}.Copy()
	test = Series{Times: s.Times[idx:], Values: s.Values[idx:]}.Copy()
	return train, test
}
