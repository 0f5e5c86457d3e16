// Package viz renders a running N-body engine in the terminal.
//
// The package implements a live view using the Bubble Tea framework:
//
//   - [Model]: feeds wall-clock ticks and the terminal size to the engine
//   - [Canvas]: Braille-based pixel canvas, one dot per body
//   - Theme selection with 3 built-in color schemes
//
// The viewport handed to the engine is the canvas size in sub-pixels, so
// body positions map directly onto dots. Resizing the terminal changes the
// viewport and therefore re-initializes the bodies.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
