// Package search provides a minimal parameter-suggestion trial used to
// drive the cleaning stage from a hyperparameter search. It implements
// cleaning.Suggester; a full search library would plug in at the same seam.
package search

import "math/rand"

// Trial draws parameter values uniformly from their bounds and records what
// it suggested by name. A fixed seed makes a trial fully reproducible.
type Trial struct {
	rng       *rand.Rand
	suggested map[string]float64
}

// NewTrial creates a seeded trial.
func NewTrial(seed int64) *Trial {
	return &Trial{
		rng:       rand.New(rand.NewSource(seed)),
		suggested: make(map[string]float64),
	}
}

// SuggestInt draws an integer uniformly from [low, high], inclusive.
func (t *Trial) SuggestInt(name string, low, high int) int {
	v := low
	if high > low {
		v = low + t.rng.Intn(high-low+1)
	}
	t.suggested[name] = float64(v)
	return v
}

// SuggestFloat draws a float uniformly from [low, high).
func (t *Trial) SuggestFloat(name string, low, high float64) float64 {
	v := low + t.rng.Float64()*(high-low)
	t.suggested[name] = v
	return v
}

// Suggested returns a copy of every value drawn so far, keyed by parameter
// name, for logging and reporting.
func (t *Trial) Suggested() map[string]float64 {
	out := make(map[string]float64, len(t.suggested))
	for k, v := range t.suggested {
		out[k] = v
	}
	return out
}
