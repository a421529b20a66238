// Package features derives calendar and cyclical model features from the
// timestamp column of a load series.
package features

import (
	"math"
	"time"
)

// quarterLabels name the calendar quarters the way the training data
// labels them, keyed by quarter number (1-4).
var quarterLabels = map[int]string{
	1: "Q1_Jan-Mar",
	2: "Q2_Apr-Jun",
	3: "Q3_Jul-Sep",
	4: "Q4_Oct-Dec",
}

// Frame holds the derived feature columns, positionally aligned with the
// timestamps they were derived from.
type Frame struct {
	Hour      []int
	DayOfWeek []int // Monday=0 .. Sunday=6
	IsWeekend []int // 1 for Saturday/Sunday, else 0
	Quarter   []string
	HourSin   []float64
	HourCos   []float64
}

// Len returns the number of feature rows.
func (f Frame) Len() int { return len(f.Hour) }

// Derive computes the temporal features for each timestamp: hour of day,
// day of week, weekend indicator, quarter label, and a sine/cosine
// encoding of the hour over a 24-hour period.
func Derive(times []time.Time) Frame {
	f := Frame{
		Hour:      make([]int, len(times)),
		DayOfWeek: make([]int, len(times)),
		IsWeekend: make([]int, len(times)),
		Quarter:   make([]string, len(times)),
		HourSin:   make([]float64, len(times)),
		HourCos:   make([]float64, len(times)),
	}
	for i, t := range times {
		hour := t.Hour()
		dow := mondayIndexed(t.Weekday())

		f.Hour[i] = hour
		f.DayOfWeek[i] = dow
		if dow >= 5 {
			f.IsWeekend[i] = 1
		}
		f.Quarter[i] = quarterLabels[quarterOf(t.Month())]

		angle := 2 * math.Pi * float64(hour) / 24.0
		f.HourSin[i] = math.Sin(angle)
		f.HourCos[i] = math.Cos(angle)
	}
	return f
}

// mondayIndexed converts Go's Sunday=0 weekday to the Monday=0 convention
// the source data uses.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}
