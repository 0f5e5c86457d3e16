package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/nbody"
)

// SnapshotToSVG draws one dot per body in viewport coordinates.
// Bodies with non-finite positions are skipped.
func SnapshotToSVG(s nbody.Snapshot, size nbody.Size, radius float64) string {
	if radius <= 0 {
		radius = 1
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#ffd75f">
`, size.Width, size.Height, size.Width, size.Height))

	for _, b := range s.All() {
		if !finite(b.Position) {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.1f"/>
`, b.Position.X, b.Position.Y, radius))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PathToSVG creates an SVG polyline from a sequence of points, scaled to fit
// width x height with 10% padding. Non-finite points are dropped.
func PathToSVG(points []r2.Vec, width, height int, strokeColor string) string {
	pts := make([]r2.Vec, 0, len(points))
	for _, p := range points {
		if finite(p) {
			pts = append(pts, p)
		}
	}
	if len(pts) < 2 {
		return ""
	}

	lo, hi := pts[0], pts[0]
	for _, p := range pts {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}

	span := r2.Sub(hi, lo)
	if span.X == 0 {
		span.X = 1
	}
	if span.Y == 0 {
		span.Y = 1
	}
	lo = r2.Sub(lo, r2.Scale(0.1, span))
	span = r2.Scale(1.2, span)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range pts {
		x := (p.X - lo.X) / span.X * float64(width)
		y := (p.Y - lo.Y) / span.Y * float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func finite(p r2.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
