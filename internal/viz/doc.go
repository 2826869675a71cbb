// Package viz provides the terminal live view of a running simulation.
//
// Particles are drawn on a braille [Canvas] (2x4 dots per character) with
// +y pointing up, next to a stats panel and a kinetic-energy chart. The
// [Model] is a Bubble Tea program that drives an experiment.Session.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	S     - Single step while paused
//	R     - Reset to initial state
//	+/-   - Steps per frame
//	G     - Toggle GIF recording
//	?     - Show help
//
// # Recording
//
// GIF recordings use the full-resolution particle render rather than the
// braille canvas and are written to simulation.gif unless overridden.
package viz
