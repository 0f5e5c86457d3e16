package nbody

import (
	"errors"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

var t0 = time.Date(2022, 2, 4, 12, 0, 0, 0, time.UTC)

func frameAt(i int, fps float64) time.Time {
	return t0.Add(time.Duration(float64(i) / fps * float64(time.Second)))
}

func mustEngine(t testing.TB, p Params) *Engine {
	t.Helper()
	e, err := New(p)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

func TestNewInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"zero bodies", func(p *Params) { p.Bodies = 0 }},
		{"negative bodies", func(p *Params) { p.Bodies = -3 }},
		{"nan g", func(p *Params) { p.G = math.NaN() }},
		{"inf g", func(p *Params) { p.G = math.Inf(1) }},
		{"zero mass", func(p *Params) { p.Mass = 0 }},
		{"negative orbit fraction", func(p *Params) { p.OrbitFraction = -0.1 }},
		{"nan speed fraction", func(p *Params) { p.SpeedFraction = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			_, err := New(p)
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Bodies != 400 {
		t.Errorf("expected 400 bodies, got %d", p.Bodies)
	}
	if p.G != 10.0 {
		t.Errorf("expected G 10, got %f", p.G)
	}
	if p.OrbitFraction != 0.55 || p.SpeedFraction != 0.01 {
		t.Errorf("unexpected reset fractions: %f, %f", p.OrbitFraction, p.SpeedFraction)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("default params invalid: %v", err)
	}
}

func TestAdvancePopulation(t *testing.T) {
	e := mustEngine(t, DefaultParams())
	sizes := []Size{{800, 600}, {800, 600}, {1024, 768}, {1024, 768}, {0, 0}}

	for i, size := range sizes {
		snap := e.Advance(frameAt(i, 60), size)
		if snap.Len() != 400 {
			t.Fatalf("frame %d: expected 400 bodies, got %d", i, snap.Len())
		}
	}
	if e.Frame() != uint64(len(sizes)) {
		t.Errorf("expected frame %d, got %d", len(sizes), e.Frame())
	}
}

func TestResetContainment(t *testing.T) {
	sizes := []Size{{800, 600}, {300, 900}, {1, 1}}

	for _, size := range sizes {
		e := mustEngine(t, DefaultParams())
		e.Advance(t0, size)

		// The reset state survives in the previous buffer of the first frame.
		center := size.Center()
		limit := 0.55 * size.Min()
		for i, b := range e.previous() {
			if d := r2.Norm(r2.Sub(b.Position, center)); d > limit+1e-9 {
				t.Errorf("size %v body %d: distance %f exceeds %f", size, i, d, limit)
			}
			if b.Velocity != (r2.Vec{}) || b.Acceleration != (r2.Vec{}) {
				t.Errorf("size %v body %d: expected zero velocity and acceleration, got %v %v", size, i, b.Velocity, b.Acceleration)
			}
			if b.Mass != 1.0 {
				t.Errorf("size %v body %d: expected mass 1, got %f", size, i, b.Mass)
			}
		}
	}
}

func TestFirstAdvanceZeroDt(t *testing.T) {
	e := mustEngine(t, DefaultParams())
	snap := e.Advance(t0, Size{800, 600})

	reset := e.previous()
	for i, b := range snap.All() {
		if b.Position != reset[i].Position {
			t.Errorf("body %d moved on first frame: %v -> %v", i, reset[i].Position, b.Position)
		}
		if b.Velocity != (r2.Vec{}) {
			t.Errorf("body %d gained velocity on first frame: %v", i, b.Velocity)
		}
	}
}

func TestTwoBodyScenario(t *testing.T) {
	const g = 2.0
	p := DefaultParams()
	p.Bodies = 2
	p.G = g
	e := mustEngine(t, p)

	size := Size{10, 10}
	err := e.SetState(size, []Body{
		{Position: r2.Vec{X: 0, Y: 0}, Mass: 1},
		{Position: r2.Vec{X: 1, Y: 0}, Mass: 1},
	})
	if err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	snap := e.Advance(t0, size)
	a0, a1 := snap.At(0).Acceleration, snap.At(1).Acceleration
	if a0 != (r2.Vec{X: g}) {
		t.Errorf("body 0 acceleration: got %v, want {%v 0}", a0, g)
	}
	if a1 != (r2.Vec{X: -g}) {
		t.Errorf("body 1 acceleration: got %v, want {%v 0}", a1, -g)
	}
	if e.Resets() != 0 {
		t.Errorf("expected no reset after SetState, got %d", e.Resets())
	}

	// dt = 1: s1 = s + a*dt*dt, v1 = 0.5*(a + a1)*dt with a == a1.
	snap = e.Advance(t0.Add(time.Second), size)
	b0, b1 := snap.At(0), snap.At(1)
	if b0.Position != (r2.Vec{X: g}) || b1.Position != (r2.Vec{X: 1 - g}) {
		t.Errorf("positions after dt=1: got %v %v", b0.Position, b1.Position)
	}
	if b0.Velocity != (r2.Vec{X: g}) || b1.Velocity != (r2.Vec{X: -g}) {
		t.Errorf("velocities after dt=1: got %v %v", b0.Velocity, b1.Velocity)
	}
	if b0.Acceleration != (r2.Vec{X: g}) || b1.Acceleration != (r2.Vec{X: -g}) {
		t.Errorf("accelerations after dt=1: got %v %v", b0.Acceleration, b1.Acceleration)
	}
}

func TestSetStateMismatch(t *testing.T) {
	p := DefaultParams()
	p.Bodies = 3
	e := mustEngine(t, p)

	err := e.SetState(Size{1, 1}, make([]Body, 2))
	if !errors.Is(err, ErrPopulationMismatch) {
		t.Errorf("expected ErrPopulationMismatch, got %v", err)
	}
}

func TestBufferAlternation(t *testing.T) {
	p := DefaultParams()
	p.Bodies = 50
	e := mustEngine(t, p)
	size := Size{640, 480}

	snap := e.Advance(t0, size)
	for i := 1; i < 10; i++ {
		returned := &snap.bodies[0]
		snap = e.Advance(frameAt(i, 60), size)
		if &e.previous()[0] != returned {
			t.Fatalf("frame %d: previous buffer is not the buffer returned at frame %d", i, i-1)
		}
		if &snap.bodies[0] == returned {
			t.Fatalf("frame %d: snapshot reused the previous buffer", i)
		}
	}
}

func TestResizeResets(t *testing.T) {
	p := DefaultParams()
	p.Bodies = 40
	e := mustEngine(t, p)

	e.Advance(t0, Size{100, 100})
	e.Advance(frameAt(1, 60), Size{100, 100})
	if e.Resets() != 1 {
		t.Fatalf("expected 1 reset, got %d", e.Resets())
	}

	snap := e.Advance(frameAt(2, 60), Size{400, 200})
	if e.Resets() != 2 {
		t.Fatalf("expected 2 resets, got %d", e.Resets())
	}
	if e.Size() != (Size{400, 200}) {
		t.Errorf("expected size recorded, got %v", e.Size())
	}

	center := r2.Vec{X: 200, Y: 100}
	for i, b := range e.previous() {
		if d := r2.Norm(r2.Sub(b.Position, center)); d > 0.55*200+1e-9 {
			t.Errorf("body %d outside new reset disk: %f", i, d)
		}
	}
	if snap.Len() != 40 {
		t.Errorf("expected 40 bodies, got %d", snap.Len())
	}
}

func runFrames(t testing.TB, p Params, frames int) []Body {
	t.Helper()
	e := mustEngine(t, p)
	var snap Snapshot
	for i := 0; i < frames; i++ {
		snap = e.Advance(frameAt(i, 60), Size{800, 600})
	}
	return snap.Clone()
}

func TestDeterminism(t *testing.T) {
	p := DefaultParams()
	p.Bodies = 120
	p.Seed = 42

	tests := []struct {
		name     string
		workersA int
		workersB int
	}{
		{"serial", 1, 1},
		{"parallel", 4, 4},
		{"serial vs parallel", 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pa, pb := p, p
			pa.Workers, pb.Workers = tt.workersA, tt.workersB
			a := runFrames(t, pa, 30)
			b := runFrames(t, pb, 30)
			for i := range a {
				if math.Float64bits(a[i].Position.X) != math.Float64bits(b[i].Position.X) ||
					math.Float64bits(a[i].Position.Y) != math.Float64bits(b[i].Position.Y) ||
					math.Float64bits(a[i].Velocity.X) != math.Float64bits(b[i].Velocity.X) ||
					math.Float64bits(a[i].Velocity.Y) != math.Float64bits(b[i].Velocity.Y) {
					t.Fatalf("body %d diverged: %+v vs %+v", i, a[i], b[i])
				}
			}
		})
	}
}

func TestSeedChangesLayout(t *testing.T) {
	p := DefaultParams()
	p.Bodies = 10
	p.Seed = 1
	a := runFrames(t, p, 1)
	p.Seed = 2
	b := runFrames(t, p, 1)
	if a[0].Position == b[0].Position {
		t.Error("different seeds produced identical layouts")
	}
}

func TestMomentumBounded(t *testing.T) {
	p := DefaultParams()
	p.Bodies = 24
	p.Seed = 7
	e := mustEngine(t, p)

	size := Size{400, 400}
	scale := 0.0
	var snap Snapshot
	for i := 0; i < 300; i++ {
		snap = e.Advance(frameAt(i, 60), size)
		if !snap.Finite() {
			t.Fatalf("frame %d: non-finite state", i)
		}
		sum := 0.0
		for _, b := range snap.All() {
			sum += b.Mass * r2.Norm(b.Velocity)
		}
		scale = math.Max(scale, sum)
	}

	pm := r2.Norm(Momentum(snap))
	if pm > 1e-6*scale+1e-9 {
		t.Errorf("momentum drifted: |P| = %g, scale %g", pm, scale)
	}
}

func TestCoincidentBodiesProduceNonFinite(t *testing.T) {
	p := DefaultParams()
	p.Bodies = 2
	e := mustEngine(t, p)

	size := Size{10, 10}
	same := Body{Position: r2.Vec{X: 5, Y: 5}, Mass: 1}
	if err := e.SetState(size, []Body{same, same}); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	snap := e.Advance(t0, size)
	if snap.Finite() {
		t.Error("expected non-finite acceleration for coincident bodies")
	}
}

func TestSnapshotClone(t *testing.T) {
	p := DefaultParams()
	p.Bodies = 8
	e := mustEngine(t, p)

	snap := e.Advance(t0, Size{100, 100})
	kept := snap.Clone()
	before := kept[0]

	e.Advance(frameAt(1, 60), Size{100, 100})
	e.Advance(frameAt(2, 60), Size{100, 100})
	if kept[0] != before {
		t.Error("Clone aliased engine memory")
	}

	positions := snap.Positions(nil)
	if len(positions) != 8 {
		t.Errorf("expected 8 positions, got %d", len(positions))
	}
}

func TestParallelForCoversRange(t *testing.T) {
	tests := []struct {
		n, workers int
	}{
		{0, 4},
		{1, 4},
		{31, 4},
		{400, 1},
		{400, 3},
		{400, 64},
		{1000, 7},
	}

	for _, tt := range tests {
		hits := make([]int, tt.n)
		parallelFor(tt.n, tt.workers, func(start, end int) {
			for i := start; i < end; i++ {
				hits[i]++
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Errorf("n=%d workers=%d: index %d visited %d times", tt.n, tt.workers, i, h)
			}
		}
	}
}
