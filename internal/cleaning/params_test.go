package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr string
	}{
		{
			name:   "valid",
			params: Params{WindowSize: 168, IQRMultiplier: 3.0, HurricaneWindowDays: 3},
		},
		{
			name:    "window too small",
			params:  Params{WindowSize: 1, IQRMultiplier: 3.0, HurricaneWindowDays: 3},
			wantErr: "window size 1",
		},
		{
			name:    "zero multiplier",
			params:  Params{WindowSize: 168, IQRMultiplier: 0, HurricaneWindowDays: 3},
			wantErr: "iqr multiplier 0",
		},
		{
			name:    "negative multiplier",
			params:  Params{WindowSize: 168, IQRMultiplier: -1.5, HurricaneWindowDays: 3},
			wantErr: "iqr multiplier -1.5",
		},
		{
			name:    "negative hurricane window",
			params:  Params{WindowSize: 168, IQRMultiplier: 3.0, HurricaneWindowDays: -1},
			wantErr: "hurricane window -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidParams)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// stubSuggester returns canned values and records the names and bounds it
// was asked for.
type stubSuggester struct {
	ints   map[string]int
	floats map[string]float64
	calls  []string
}

func (s *stubSuggester) SuggestInt(name string, low, high int) int {
	s.calls = append(s.calls, name)
	v, ok := s.ints[name]
	if !ok {
		return low
	}
	if v < low || v > high {
		panic("stub value outside bounds: " + name)
	}
	return v
}

func (s *stubSuggester) SuggestFloat(name string, low, high float64) float64 {
	s.calls = append(s.calls, name)
	v, ok := s.floats[name]
	if !ok {
		return low
	}
	if v < low || v >= high {
		panic("stub value outside bounds: " + name)
	}
	return v
}

func TestParamSourceResolve(t *testing.T) {
	t.Run("fixed", func(t *testing.T) {
		want := Params{WindowSize: 168, IQRMultiplier: 3.0, HurricaneWindowDays: 3}
		got, err := FixedParams(want).Resolve()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("fixed invalid", func(t *testing.T) {
		_, err := FixedParams(Params{WindowSize: 0, IQRMultiplier: 3.0}).Resolve()
		require.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("suggested", func(t *testing.T) {
		stub := &stubSuggester{
			ints:   map[string]int{"window_size": 120, "hurricane_window": 4},
			floats: map[string]float64{"iqr_multiplier": 2.5},
		}

		got, err := SuggestedParams(stub).Resolve()
		require.NoError(t, err)

		assert.Equal(t, Params{WindowSize: 120, IQRMultiplier: 2.5, HurricaneWindowDays: 4}, got)
		assert.Equal(t, []string{"window_size", "iqr_multiplier", "hurricane_window"}, stub.calls)
	})

	t.Run("suggested bounds produce valid params", func(t *testing.T) {
		// A suggester returning the lower bound of every range still
		// resolves to parameters that pass validation.
		got, err := SuggestedParams(&stubSuggester{}).Resolve()
		require.NoError(t, err)
		require.NoError(t, got.Validate())
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := ParamSource{}.Resolve()
		require.ErrorIs(t, err, ErrNoParamSource)
	})
}
