package export

import (
	"math"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/nbody"
)

func snapshotOf(t *testing.T, size nbody.Size, positions ...r2.Vec) nbody.Snapshot {
	t.Helper()
	p := nbody.DefaultParams()
	p.Bodies = len(positions)
	p.Workers = 1
	eng, err := nbody.New(p)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	bodies := make([]nbody.Body, len(positions))
	for i, pos := range positions {
		bodies[i] = nbody.Body{Position: pos, Mass: 1}
	}
	if err := eng.SetState(size, bodies); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	return eng.Advance(time.Unix(0, 0), size)
}

func TestSnapshotToSVG(t *testing.T) {
	size := nbody.Size{Width: 200, Height: 100}
	s := snapshotOf(t, size,
		r2.Vec{X: 10, Y: 20},
		r2.Vec{X: 150, Y: 80},
		r2.Vec{X: math.NaN(), Y: 5},
	)

	svg := SnapshotToSVG(s, size, 2)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if !strings.Contains(svg, `width="200" height="100"`) {
		t.Error("missing viewport dimensions")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 circles, got %d", n)
	}
	if !strings.Contains(svg, `cx="10.00" cy="20.00" r="2.0"`) {
		t.Error("missing first body")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("non-finite body leaked into output")
	}
}

func TestPathToSVG(t *testing.T) {
	tests := []struct {
		name   string
		points []r2.Vec
		empty  bool
	}{
		{"too short", []r2.Vec{{X: 1, Y: 1}}, true},
		{"only one finite", []r2.Vec{{X: 1, Y: 1}, {X: math.Inf(1), Y: 0}}, true},
		{"line", []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}, false},
		{"stationary", []r2.Vec{{X: 3, Y: 3}, {X: 3, Y: 3}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := PathToSVG(tt.points, 100, 100, "#00ff00")
			if tt.empty {
				if svg != "" {
					t.Errorf("expected empty output, got %q", svg)
				}
				return
			}
			if !strings.Contains(svg, `stroke="#00ff00"`) {
				t.Error("missing stroke color")
			}
			if got := strings.Count(svg, " L"); got != len(tt.points)-1 {
				t.Errorf("expected %d segments, got %d", len(tt.points)-1, got)
			}
		})
	}
}
