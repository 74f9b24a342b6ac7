// Package tui renders a running scene in the terminal.
//
// The view is a Bubble Tea program drawing particles and rigid bodies on a
// braille [Canvas], with a kinetic energy chart underneath.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scene from its configuration
//	+/-   - Change steps per frame
//	Q     - Quit
package tui
