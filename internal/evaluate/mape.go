// Package evaluate scores forecasts against actuals with mean absolute
// percentage error (MAPE) and per-row absolute residuals.
package evaluate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrLengthMismatch indicates actual and predicted slices of
	// different lengths.
	ErrLengthMismatch = errors.New("actual and predicted have different lengths")

	// ErrEmpty indicates an empty input pair.
	ErrEmpty = errors.New("no values to evaluate")

	// ErrZeroActual indicates an actual value of zero, which would make
	// the percentage error undefined. Callers must filter or guarantee
	// non-zero actuals; this is a precondition, not a recoverable state.
	ErrZeroActual = errors.New("actual value is zero")

	// ErrMissingActual indicates a NaN actual value.
	ErrMissingActual = errors.New("actual value is missing")
)

// MAPE returns the mean absolute percentage error between paired actual and
// predicted values, as a percentage, together with the per-row absolute
// residuals |actual - predicted|.
func MAPE(actual, predicted []float64) (float64, []float64, error) {
	if len(actual) != len(predicted) {
		return 0, nil, fmt.Errorf("%w: %d actual, %d predicted", ErrLengthMismatch, len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return 0, nil, ErrEmpty
	}

	residuals := make([]float64, len(actual))
	pctErrors := make([]float64, len(actual))
	for i, a := range actual {
		if math.IsNaN(a) {
			return 0, nil, fmt.Errorf("%w: index %d", ErrMissingActual, i)
		}
		if a == 0 {
			return 0, nil, fmt.Errorf("%w: index %d", ErrZeroActual, i)
		}
		residuals[i] = math.Abs(a - predicted[i])
		pctErrors[i] = residuals[i] / math.Abs(a)
	}

	return stat.Mean(pctErrors, nil) * 100, residuals, nil
}

// Report holds MAPE and residuals for the train and test sets.
type Report struct {
	TrainMAPE      float64
	TestMAPE       float64
	TrainResiduals []float64
	TestResiduals  []float64
}

// Evaluate computes train and test MAPE in one call, mirroring how the
// training workflow scores both splits of a fitted model.
func Evaluate(trainActual, trainPredicted, testActual, testPredicted []float64) (Report, error) {
	trainMAPE, trainRes, err := MAPE(trainActual, trainPredicted)
	if err != nil {
		return Report{}, fmt.Errorf("train set: %w", err)
	}
	testMAPE, testRes, err := MAPE(testActual, testPredicted)
	if err != nil {
		return Report{}, fmt.Errorf("test set: %w", err)
	}
	return Report{
		TrainMAPE:      trainMAPE,
		TestMAPE:       testMAPE,
		TrainResiduals: trainRes,
		TestResiduals:  testRes,
	}, nil
}
