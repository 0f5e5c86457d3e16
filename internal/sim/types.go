package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/gravsim/internal/nbody"
)

type Metric interface {
	Name() string
	Observe(s nbody.Snapshot, t float64)
	Value() float64
	Reset()
}

// Sampler is implemented by metrics that also expose a per-frame value.
// The runner records samples into Result.Series.
type Sampler interface {
	Sample() float64
}

type Observer interface {
	OnFrame(frame int, s nbody.Snapshot, t float64)
}

type Config struct {
	Frames        int
	FPS           int
	Size          nbody.Size
	ValidateState bool
	// Resizes changes the viewport at the given frame index.
	Resizes map[int]nbody.Size
}

func DefaultConfig() Config {
	return Config{
		Frames:        600,
		FPS:           60,
		Size:          nbody.Size{Width: 800, Height: 600},
		ValidateState: true,
	}
}

// Interval is the synthetic wall-clock gap between frames.
func (c Config) Interval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

type Result struct {
	Times      []float64
	Series     map[string][]float64
	Metrics    map[string]float64
	Final      []nbody.Body
	StepsTaken int
	Resets     int
	Errors     []error
}

// FrameError wraps an error with the frame it was detected on.
type FrameError struct {
	Frame int
	Time  float64
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
