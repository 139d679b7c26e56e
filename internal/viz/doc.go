// Package viz renders simulation progress in the terminal.
//
// [Live] is a Bubble Tea model that steps a world on a timer and shows every
// island as one glyph:
//
//	●  awake
//	◐  awake, some members ready to sleep
//	○  asleep
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Single step while paused
//	W     - Wake every sleeping island
//	Q     - Quit
package viz
