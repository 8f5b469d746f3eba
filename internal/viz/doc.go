// Package viz is the terminal frontend. It draws the cloth as a braille
// wireframe with Bubble Tea and lets the mouse grab and drag nodes.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset the cloth
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
//
// # Recording
//
// While recording, every few frames the textured cloth is painted offscreen
// and appended to an animation. Stopping the recording writes the GIF to the
// configured path (clothsim.gif by default).
package viz
