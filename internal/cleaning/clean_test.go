package cleaning

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge/load-forecast-prep/internal/timeseries"
)

var sandy = time.Date(2012, time.October, 29, 0, 0, 0, 0, time.UTC)

// flatHourly builds an hourly series of constant value.
func flatHourly(t *testing.T, start time.Time, hours int, value float64) timeseries.Series {
	t.Helper()
	times := make([]time.Time, hours)
	values := make([]float64, hours)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Hour)
		values[i] = value
	}
	s, err := timeseries.New(times, values)
	require.NoError(t, err)
	return s
}

func defaultParams() Params {
	return Params{WindowSize: 72, IQRMultiplier: 3.0, HurricaneWindowDays: 3}
}

func TestClean_PreservesLengthAndFillsAllGaps(t *testing.T) {
	start := time.Date(2012, time.October, 20, 0, 0, 0, 0, time.UTC)
	s := flatHourly(t, start, 17*24, 100)
	s.Values[10] = math.NaN() // pre-existing gap

	res, err := Clean(s, defaultParams(), []time.Time{sandy})
	require.NoError(t, err)

	assert.Equal(t, s.Len(), res.Cleaned.Len())
	assert.Equal(t, 0, res.Cleaned.MissingCount())
	assert.Equal(t, s.Times, res.Cleaned.Times)
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	start := time.Date(2012, time.October, 20, 0, 0, 0, 0, time.UTC)
	s := flatHourly(t, start, 17*24, 100)
	s.Values[200] = 900 // inside the hurricane window

	_, err := Clean(s, defaultParams(), []time.Time{sandy})
	require.NoError(t, err)

	assert.Equal(t, 900.0, s.Values[200])
}

func TestClean_MasksHurricaneWindow(t *testing.T) {
	// 2012-10-20 .. 2012-11-05, hurricane 2012-10-29 with +/- 3 days:
	// every point dated 2012-10-26 through 2012-11-01 is replaced.
	start := time.Date(2012, time.October, 20, 0, 0, 0, 0, time.UTC)
	s := flatHourly(t, start, 17*24, 100)

	maskStart := time.Date(2012, time.October, 26, 0, 0, 0, 0, time.UTC)
	maskEnd := time.Date(2012, time.November, 2, 0, 0, 0, 0, time.UTC) // exclusive
	for i, ts := range s.Times {
		if !ts.Before(maskStart) && ts.Before(maskEnd) {
			s.Values[i] = 300 // storm-distorted load
		}
	}

	res, err := Clean(s, defaultParams(), []time.Time{sandy})
	require.NoError(t, err)

	assert.Equal(t, 7*24, res.MaskedCount())
	for i, ts := range res.Cleaned.Times {
		inWindow := !ts.Before(maskStart) && ts.Before(maskEnd)
		assert.Equal(t, inWindow, res.Masked[i], "mask flag at %s", ts)
		if inWindow {
			// Replaced with the rolling median of the surrounding load,
			// never the distorted original.
			assert.Equal(t, 100.0, res.Cleaned.Values[i], "masked value at %s", ts)
			assert.False(t, res.Outliers[i], "masked point flagged as outlier at %s", ts)
		}
	}
}

func TestClean_EndToEndSpikeAndHurricane(t *testing.T) {
	// Flat 100 MW series with a 10x spike on 2012-10-25 14:00. The spike
	// is flagged against the rolling band and imputed with the local
	// median; the hurricane window is masked independently; everything
	// else is untouched.
	start := time.Date(2012, time.October, 20, 0, 0, 0, 0, time.UTC)
	s := flatHourly(t, start, 17*24, 100)

	spikeAt := time.Date(2012, time.October, 25, 14, 0, 0, 0, time.UTC)
	spikeIdx := int(spikeAt.Sub(start) / time.Hour)
	s.Values[spikeIdx] = 1000

	res, err := Clean(s, defaultParams(), []time.Time{sandy})
	require.NoError(t, err)

	assert.True(t, res.Outliers[spikeIdx], "spike not flagged")
	assert.Equal(t, 100.0, res.Cleaned.Values[spikeIdx], "spike not imputed with rolling median")
	assert.Equal(t, 1, res.OutlierCount())

	maskStart := time.Date(2012, time.October, 26, 0, 0, 0, 0, time.UTC)
	maskEnd := time.Date(2012, time.November, 2, 0, 0, 0, 0, time.UTC)
	for i, ts := range res.Cleaned.Times {
		if i == spikeIdx {
			continue
		}
		if !ts.Before(maskStart) && ts.Before(maskEnd) {
			assert.Equal(t, 100.0, res.Cleaned.Values[i])
			continue
		}
		assert.Equal(t, 100.0, res.Cleaned.Values[i], "untouched point changed at %s", ts)
	}
}

func TestClean_TieAtBandEdgeNotFlagged(t *testing.T) {
	// On a constant series the band collapses to [median, median]; values
	// equal to the median sit exactly on the edge and must not be flagged.
	start := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	s := flatHourly(t, start, 10*24, 100)

	res, err := Clean(s, Params{WindowSize: 25, IQRMultiplier: 0.5, HurricaneWindowDays: 0}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.OutlierCount())
	assert.Equal(t, s.Values, res.Cleaned.Values)
}

func TestClean_Deterministic(t *testing.T) {
	start := time.Date(2012, time.October, 20, 0, 0, 0, 0, time.UTC)
	s := flatHourly(t, start, 17*24, 0)
	rng := rand.New(rand.NewSource(7))
	for i := range s.Values {
		s.Values[i] = 100 + 10*rng.NormFloat64()
	}
	s.Values[50] = 5000

	res1, err := Clean(s, defaultParams(), []time.Time{sandy})
	require.NoError(t, err)
	res2, err := Clean(s, defaultParams(), []time.Time{sandy})
	require.NoError(t, err)

	assert.Equal(t, res1.Cleaned.Values, res2.Cleaned.Values)
	assert.Equal(t, res1.Outliers, res2.Outliers)
	assert.Equal(t, res1.Masked, res2.Masked)
}

func TestClean_HugeMultiplierLeavesSeriesUntouched(t *testing.T) {
	start := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	s := flatHourly(t, start, 14*24, 0)
	for i := range s.Values {
		s.Values[i] = 100 + 20*math.Sin(2*math.Pi*float64(i)/24)
	}

	res, err := Clean(s, Params{WindowSize: 73, IQRMultiplier: 1e9, HurricaneWindowDays: 0}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.OutlierCount())
	assert.Equal(t, 0, res.MaskedCount())
	assert.Equal(t, s.Values, res.Cleaned.Values)

	// Cleaning an already-clean series changes nothing.
	res2, err := Clean(res.Cleaned, Params{WindowSize: 73, IQRMultiplier: 1e9, HurricaneWindowDays: 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, res.Cleaned.Values, res2.Cleaned.Values)
}

func TestClean_WindowAsLargeAsSeries(t *testing.T) {
	start := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	s := flatHourly(t, start, 9, 5)
	s.Values[1] = math.NaN()

	res, err := Clean(s, Params{WindowSize: 9, IQRMultiplier: 3, HurricaneWindowDays: 0}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9, res.Cleaned.Len())
	assert.Equal(t, 0, res.Cleaned.MissingCount())
	for _, v := range res.Cleaned.Values {
		assert.Equal(t, 5.0, v)
	}
}

func TestClean_WindowLargerThanSeries(t *testing.T) {
	start := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	s := flatHourly(t, start, 9, 5)
	s.Values[0] = math.NaN()

	res, err := Clean(s, Params{WindowSize: 48, IQRMultiplier: 3, HurricaneWindowDays: 0}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Cleaned.MissingCount())
	assert.Equal(t, 5.0, res.Cleaned.Values[0], "leading gap resolved by backward fill")
}

func TestClean_InvalidParams(t *testing.T) {
	start := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	s := flatHourly(t, start, 24, 5)

	_, err := Clean(s, Params{WindowSize: 1, IQRMultiplier: 3, HurricaneWindowDays: 0}, nil)
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestClean_ReturnsExpandedWindows(t *testing.T) {
	start := time.Date(2012, time.October, 20, 0, 0, 0, 0, time.UTC)
	s := flatHourly(t, start, 17*24, 100)

	irma := time.Date(2017, time.September, 10, 0, 0, 0, 0, time.UTC)
	res, err := Clean(s, defaultParams(), []time.Time{sandy, irma})
	require.NoError(t, err)

	require.Len(t, res.Windows, 2)
	assert.Equal(t, "hurricane", res.Windows[0].Name)
	assert.True(t, res.Windows[0].Date.Equal(sandy))
	assert.Equal(t, -3, res.Windows[0].LowerDays)
	assert.Equal(t, 3, res.Windows[0].UpperDays)
	assert.True(t, res.Windows[1].Date.Equal(irma))
}

func TestRollingMedianIQR(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7}
	medians, iqrs := rollingMedianIQR(values, 3)

	assert.True(t, math.IsNaN(medians[0]))
	assert.True(t, math.IsNaN(medians[6]))
	assert.Equal(t, []float64{2, 3, 4, 5, 6}, medians[1:6])

	for i := 1; i <= 5; i++ {
		assert.False(t, math.IsNaN(iqrs[i]))
		assert.GreaterOrEqual(t, iqrs[i], 0.0)
	}

	// Constant window collapses the IQR to zero.
	mFlat, iqrFlat := rollingMedianIQR([]float64{9, 9, 9, 9, 9}, 3)
	assert.Equal(t, 9.0, mFlat[2])
	assert.Equal(t, 0.0, iqrFlat[2])
}

func TestRollingMedianIQR_EvenWindow(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	medians, _ := rollingMedianIQR(values, 4)

	// Window for index i spans [i-1, i+2]; median of an even window is
	// the mean of the two middle elements.
	assert.True(t, math.IsNaN(medians[0]))
	assert.Equal(t, 2.5, medians[1])
	assert.Equal(t, 3.5, medians[2])
	assert.Equal(t, 4.5, medians[3])
	assert.True(t, math.IsNaN(medians[4]))
	assert.True(t, math.IsNaN(medians[5]))
}

func TestForwardBackwardFill(t *testing.T) {
	nan := math.NaN()

	t.Run("interior gap", func(t *testing.T) {
		v := []float64{1, nan, nan, 4}
		forwardFill(v)
		assert.Equal(t, []float64{1, 1, 1, 4}, v)
	})

	t.Run("leading gap needs backward fill", func(t *testing.T) {
		v := []float64{nan, nan, 3, 4}
		forwardFill(v)
		assert.True(t, math.IsNaN(v[0]))
		backwardFill(v)
		assert.Equal(t, []float64{3, 3, 3, 4}, v)
	})

	t.Run("trailing gap", func(t *testing.T) {
		v := []float64{1, 2, nan, nan}
		forwardFill(v)
		assert.Equal(t, []float64{1, 2, 2, 2}, v)
	})
}
