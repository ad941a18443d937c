// Package viz renders a running spin ensemble in the terminal.
//
// The live program is a Bubble Tea [Model] that ticks the simulation at a
// fixed frame rate and draws:
//
//   - an [ArrowField] of every spin on a braille [Canvas], seen through an
//     orbiting [Camera]
//   - a [StripChart] of the transverse sum and echo magnitude
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset spins, clock and charts
//	P     - Fire a 180° pulse about x now
//	V     - Toggle fixed 180° / variable flip angle
//	+/-   - Flip angle up/down by 5°
//	x y z - Rotate camera (shift reverses)
//	[ ]   - Zoom
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// A tick that fails halts the program and shows the error until reset.
package viz
