package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gridforge/load-forecast-prep/internal/cleaning"
	"github.com/gridforge/load-forecast-prep/internal/features"
	"github.com/gridforge/load-forecast-prep/internal/observability"
	"github.com/gridforge/load-forecast-prep/internal/timeseries"
)

// Source provides the raw load series.
type Source interface {
	Extract(ctx context.Context) (timeseries.Series, error)
}

// Loader persists a prep result to a destination (file, topic).
type Loader interface {
	Load(ctx context.Context, res *Result) error
}

// Result is everything one prep run produces.
type Result struct {
	RunID       string
	ProcessedAt time.Time
	Cutoff      time.Time
	Params      cleaning.Params

	// Train is the raw training split; CleanTrain the masked/imputed
	// version with identical timestamps. Test is untouched.
	Train      timeseries.Series
	CleanTrain timeseries.Series
	Test       timeseries.Series

	TrainFeatures features.Frame
	Windows       []cleaning.AnomalyWindow
	Masked        []bool
	Outliers      []bool
}

// Row is one cleaned training observation in sink form.
type Row struct {
	DS        time.Time `json:"ds"`
	Y         float64   `json:"y"`
	IsOutlier int       `json:"is_outlier"`
	IsMasked  int       `json:"is_masked"`
}

// Rows flattens the cleaned training set for sinks.
func (r *Result) Rows() []Row {
	rows := make([]Row, r.CleanTrain.Len())
	for i := range rows {
		rows[i] = Row{
			DS: r.CleanTrain.Times[i],
			Y:  r.CleanTrain.Values[i],
		}
		if r.Outliers[i] {
			rows[i].IsOutlier = 1
		}
		if r.Masked[i] {
			rows[i].IsMasked = 1
		}
	}
	return rows
}

// Pipeline runs the extract-clean-load pass once per invocation.
type Pipeline struct {
	source       Source
	loaders      []Loader
	paramSource  cleaning.ParamSource
	anomalyDates []time.Time
	cutoff       time.Time
	logger       *slog.Logger
	metrics      *observability.Metrics
	ready        atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(source Source, loaders []Loader, ps cleaning.ParamSource, anomalyDates []time.Time, cutoff time.Time, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:       source,
		loaders:      loaders,
		paramSource:  ps,
		anomalyDates: anomalyDates,
		cutoff:       cutoff,
		logger:       logger,
		metrics:      metrics,
	}
}

// CheckReadiness returns nil once the pipeline has completed a run, or an
// error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a prep run yet")
	}
	return nil
}

// Run executes one extract-clean-load pass and returns the result.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.metrics.RunsTotal.Inc()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	start := time.Now()
	res, err := p.run(ctx)
	if err != nil {
		p.metrics.RunsFailed.Inc()
		return nil, err
	}
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	p.logger.Info("prep run complete",
		"run_id", res.RunID,
		"rows", res.Train.Len()+res.Test.Len(),
		"train_rows", res.Train.Len(),
		"test_rows", res.Test.Len(),
		"masked", countTrue(res.Masked),
		"outliers", countTrue(res.Outliers),
		"window_size", res.Params.WindowSize,
		"iqr_multiplier", res.Params.IQRMultiplier,
		"hurricane_window_days", res.Params.HurricaneWindowDays,
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	series, err := p.source.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	p.metrics.RowsLoaded.Add(float64(series.Len()))

	train, test := series.SplitAt(p.cutoff)
	if train.Len() == 0 {
		return nil, fmt.Errorf("no training rows before cutoff %s", p.cutoff.Format("2006-01-02"))
	}

	params, err := p.paramSource.Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve cleaning params: %w", err)
	}

	cleanStart := time.Now()
	cleaned, err := cleaning.Clean(train, params, p.anomalyDates)
	if err != nil {
		return nil, fmt.Errorf("clean training data: %w", err)
	}
	p.metrics.CleaningDuration.Observe(time.Since(cleanStart).Seconds())
	p.metrics.PointsMasked.Add(float64(cleaned.MaskedCount()))
	p.metrics.OutliersFlagged.Add(float64(cleaned.OutlierCount()))

	res := &Result{
		RunID:         generateRunID(p.cutoff, params, series),
		ProcessedAt:   clock.Now().UTC(),
		Cutoff:        p.cutoff,
		Params:        params,
		Train:         train,
		CleanTrain:    cleaned.Cleaned,
		Test:          test,
		TrainFeatures: features.Derive(train.Times),
		Windows:       cleaned.Windows,
		Masked:        cleaned.Masked,
		Outliers:      cleaned.Outliers,
	}

	for _, loader := range p.loaders {
		if err := loader.Load(ctx, res); err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
	}
	p.metrics.RowsPublished.Add(float64(res.CleanTrain.Len()))

	return res, nil
}

// generateRunID produces a deterministic ID from the run's key inputs.
// Reprocessing the same series with the same cutoff and parameters yields
// the same ID, so downstream consumers can deduplicate replays.
func generateRunID(cutoff time.Time, params cleaning.Params, s timeseries.Series) string {
	input := fmt.Sprintf("%s|%d|%g|%d|%d|%s|%s",
		cutoff.Format(time.RFC3339),
		params.WindowSize, params.IQRMultiplier, params.HurricaneWindowDays,
		s.Len(),
		s.Times[0].Format(time.RFC3339),
		s.Times[s.Len()-1].Format(time.RFC3339),
	)
	hash := sha256.Sum256([]byte(input))
	return "prep-" + hex.EncodeToString(hash[:8])
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
