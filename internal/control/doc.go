// Package control provides the cable length controllers.
//
// A [Controller] turns the measured length of one cable into the rest
// length commanded to that cable for the current step:
//
//   - [OpenLoop]: a constant, independent of the measurement
//   - [AffineFeedback]: κ(ℓ - ℓ̄) + v̄
//
// Controllers are pure functions of the measurement and their constants,
// so the simulator may call them from several goroutines at once.
//
// # Usage
//
//	ctrl := control.NewAffineFeedback(0.95, 0.7433, 0.6919)
//	u := ctrl.Control(length)
package control
