// Package viz draws cable experiments in the terminal.
//
// Recorded runs are plotted with asciigraph ([PlotCoordinate],
// [PlotForces], [PlotEnsemble]). The live view is a Bubble Tea program
// that steps a simulator and draws the point mass, its anchors and the
// cables on a braille [Canvas]. Slack cables are drawn dashed.
//
// # Key Bindings
//
//	Space      - Pause/Resume
//	R          - Rebuild the experiment and restart
//	Tab        - Select the next cable
//	Arrows/hjkl - Rotate the 3D view
//	+/-        - Zoom
//	?          - Show help
//	Q          - Quit
package viz
