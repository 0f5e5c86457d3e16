// Package nbody implements a fixed-population 2D gravitational N-body engine.
//
// The package centres on three types:
//
//   - [Engine]: owns the bodies, advances them one frame at a time
//   - [Snapshot]: read-only view over the frame just computed
//   - [Params]: construction-time constants (population, G, reset shape)
//
// # Example
//
//	eng, _ := nbody.New(nbody.DefaultParams())
//	for t := range frames {
//		snap := eng.Advance(t, nbody.Size{Width: 800, Height: 600})
//		for _, b := range snap.All() {
//			draw(b.Position)
//		}
//	}
//
// # Buffers
//
// The engine keeps two equally sized buffers. Each Advance reads the previous
// buffer and writes the current one, then the roles swap on the next call.
// A [Snapshot] is a view over the current buffer and is only valid until the
// next Advance.
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. Advance must run to completion before
// the next call. Internally the force pass may be split across goroutines;
// each worker owns a disjoint index range, so results do not depend on the
// worker count.
package nbody
