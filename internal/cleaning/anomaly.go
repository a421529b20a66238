package cleaning

import "time"

// Hurricane landfall dates with a visible demand anomaly in the PJM East
// load history: Sandy (2012) and Irma (2017). Kept here as the well-known
// default calendar; callers pass anomaly dates explicitly so tests can
// substitute synthetic ones.
var defaultAnomalyDates = []time.Time{
	time.Date(2012, time.October, 29, 0, 0, 0, 0, time.UTC),
	time.Date(2017, time.September, 10, 0, 0, 0, 0, time.UTC),
}

// DefaultAnomalyDates returns a copy of the built-in hurricane calendar.
func DefaultAnomalyDates() []time.Time {
	out := make([]time.Time, len(defaultAnomalyDates))
	copy(out, defaultAnomalyDates)
	return out
}

// AnomalyWindow describes one anchor date expanded to its masked day range,
// in the holiday-window shape downstream forecast models consume.
type AnomalyWindow struct {
	Name       string    `json:"holiday"`
	Date       time.Time `json:"ds"`
	LowerDays  int       `json:"lower_window"` // negative offset in days
	UpperDays  int       `json:"upper_window"` // positive offset in days
}

// ExpandWindows pairs each anchor date with its +/- day radius.
func ExpandWindows(dates []time.Time, days int) []AnomalyWindow {
	windows := make([]AnomalyWindow, len(dates))
	for i, d := range dates {
		windows[i] = AnomalyWindow{
			Name:      "hurricane",
			Date:      d,
			LowerDays: -days,
			UpperDays: days,
		}
	}
	return windows
}

// maskedDates returns the union of all masked calendar days, keyed by the
// day truncated to midnight UTC.
func maskedDates(dates []time.Time, days int) map[time.Time]struct{} {
	masked := make(map[time.Time]struct{})
	for _, d := range dates {
		day := truncateToDay(d)
		for off := -days; off <= days; off++ {
			masked[day.AddDate(0, 0, off)] = struct{}{}
		}
	}
	return masked
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
