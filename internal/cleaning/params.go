package cleaning

import (
	"errors"
	"fmt"
)

// Search space bounds for suggested cleaning parameters: window width from
// 3 days to 2 weeks of hourly samples, and 2-5 days masked around each
// hurricane date.
const (
	minWindowSize    = 24 * 3
	maxWindowSize    = 24 * 14
	minIQRMultiplier = 2.0
	maxIQRMultiplier = 5.0
	minStormDays     = 2
	maxStormDays     = 5
)

var (
	// ErrInvalidParams indicates a parameter outside its valid range.
	ErrInvalidParams = errors.New("invalid cleaning parameters")

	// ErrNoParamSource indicates a ParamSource constructed without either
	// fixed parameters or a suggester.
	ErrNoParamSource = errors.New("no parameter source provided")
)

// Params are the resolved cleaning parameters.
type Params struct {
	// WindowSize is the rolling-window width in samples.
	WindowSize int

	// IQRMultiplier scales the outlier threshold around the rolling median.
	IQRMultiplier float64

	// HurricaneWindowDays is the +/- day radius masked around each
	// hurricane date.
	HurricaneWindowDays int
}

// Validate checks each parameter against its contract.
func (p Params) Validate() error {
	if p.WindowSize <= 1 {
		return fmt.Errorf("%w: window size %d must be greater than 1", ErrInvalidParams, p.WindowSize)
	}
	if p.IQRMultiplier <= 0 {
		return fmt.Errorf("%w: iqr multiplier %g must be positive", ErrInvalidParams, p.IQRMultiplier)
	}
	if p.HurricaneWindowDays < 0 {
		return fmt.Errorf("%w: hurricane window %d days must not be negative", ErrInvalidParams, p.HurricaneWindowDays)
	}
	return nil
}

// Suggester supplies parameter values drawn from a search space. It is the
// seam for a hyperparameter-search driver; the cleaner itself never sees it,
// only the Params resolved from it.
type Suggester interface {
	SuggestInt(name string, low, high int) int
	SuggestFloat(name string, low, high float64) float64
}

// ParamSource is a tagged union over the two ways cleaning parameters
// arrive: fixed literal values, or values drawn from a Suggester. It is
// resolved exactly once, before cleaning runs.
type ParamSource struct {
	fixed     *Params
	suggester Suggester
}

// FixedParams wraps literal parameter values.
func FixedParams(p Params) ParamSource {
	return ParamSource{fixed: &p}
}

// SuggestedParams wraps a search-driven parameter source.
func SuggestedParams(s Suggester) ParamSource {
	return ParamSource{suggester: s}
}

// Resolve produces concrete validated Params. Fixed values win when both
// are somehow present; an empty source is an error.
func (ps ParamSource) Resolve() (Params, error) {
	switch {
	case ps.fixed != nil:
		if err := ps.fixed.Validate(); err != nil {
			return Params{}, err
		}
		return *ps.fixed, nil
	case ps.suggester != nil:
		p := Params{
			WindowSize:          ps.suggester.SuggestInt("window_size", minWindowSize, maxWindowSize),
			IQRMultiplier:       ps.suggester.SuggestFloat("iqr_multiplier", minIQRMultiplier, maxIQRMultiplier),
			HurricaneWindowDays: ps.suggester.SuggestInt("hurricane_window", minStormDays, maxStormDays),
		}
		if err := p.Validate(); err != nil {
			return Params{}, err
		}
		return p, nil
	default:
		return Params{}, ErrNoParamSource
	}
}
