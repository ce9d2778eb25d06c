// Package viz draws pursuit states in the terminal.
//
// A [Canvas] is a grid of Braille cells with 2x4 sub-pixels each. A [Scene]
// rasterizes the starting circle, the initial polygon and every trajectory
// onto it, and [Model] is the Bubble Tea program behind `snails live`.
//
// # Key Bindings
//
//	Space - Run/pause iterative stepping
//	N     - Single step
//	S     - Solve in closed form
//	M     - Toggle iterative/closed-form mode
//	R     - Reset to the starting circle
//	+/-   - Body count
//	]/[   - Radius
//	./,   - Speed
//	>/<   - Steps per frame
//	Z     - Toggle zoom that follows the bodies
//	T     - Cycle colour themes
//	Q     - Quit
package viz
