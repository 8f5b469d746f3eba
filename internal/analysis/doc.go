// Package analysis inspects recorded node trajectories.
//
//   - [FlutterSpectrum]: power spectrum and dominant frequency of a node's
//     horizontal motion
//   - [NewPortrait]: 2D path of a node, with an ASCII renderer
//
// # Flutter
//
// The x coordinate of a free node oscillates under wind. Its spectrum shows
// the flutter frequency:
//
//	s := analysis.FlutterSpectrum(xs, dt)
//	fmt.Printf("dominant %.2f Hz\n", s.Dominant)
package analysis
