package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/gravsim/internal/nbody"
)

// Epoch is the timestamp of frame 0 on the synthetic clock.
var Epoch = time.Unix(0, 0).UTC()

// Runner drives an engine headlessly at a fixed frame rate. Its synthetic
// clock starts at Epoch and carries over between calls to Run, so the
// engine never sees time go backwards.
type Runner struct {
	eng       *nbody.Engine
	metrics   []Metric
	observers []Observer
	elapsed   time.Duration
}

func New(eng *nbody.Engine) *Runner {
	return &Runner{
		eng:       eng,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Elapsed is the synthetic time of the next frame, measured from Epoch.
func (r *Runner) Elapsed() time.Duration { return r.elapsed }

// Run advances the engine cfg.Frames times. On cancellation it returns the
// partial result together with ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Times:   make([]float64, 0, cfg.Frames),
		Series:  make(map[string][]float64),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	interval := cfg.Interval()
	size := cfg.Size
	resetsBefore := r.eng.Resets()

	var snap nbody.Snapshot
	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			r.finish(result, snap, resetsBefore)
			return result, ctx.Err()
		default:
		}

		if s, ok := cfg.Resizes[i]; ok {
			size = s
		}

		now := Epoch.Add(r.elapsed)
		t := r.elapsed.Seconds()
		snap = r.eng.Advance(now, size)
		r.elapsed += interval
		result.StepsTaken++
		result.Times = append(result.Times, t)

		for _, m := range r.metrics {
			m.Observe(snap, t)
			if sm, ok := m.(Sampler); ok {
				result.Series[m.Name()] = append(result.Series[m.Name()], sm.Sample())
			}
		}
		for _, obs := range r.observers {
			obs.OnFrame(i, snap, t)
		}

		if cfg.ValidateState && !snap.Finite() {
			result.Errors = append(result.Errors, &FrameError{Frame: i, Time: t, Err: nbody.ErrNonFinite})
			break
		}
	}

	r.finish(result, snap, resetsBefore)
	return result, nil
}

func (r *Runner) finish(result *Result, snap nbody.Snapshot, resetsBefore int) {
	result.Final = snap.Clone()
	result.Resets = r.eng.Resets() - resetsBefore
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", cfg.FPS)
	}
	if cfg.Size.Width < 0 || cfg.Size.Height < 0 {
		return fmt.Errorf("viewport must be non-negative, got %.0fx%.0f", cfg.Size.Width, cfg.Size.Height)
	}
	return nil
}
