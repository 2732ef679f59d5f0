// Package analysis post-processes recorded simulation histories.
//
// Nothing here feeds back into a run. The functions read the state and
// force histories of a completed [sim.Result]:
//
//   - [SlackIntervals], [SlackCounts]: when each cable carried no tension
//   - [ExitedBox], [EquilibriumError]: where the point mass went
//   - [LyapunovHistory]: closed-loop energy along the trajectory
//   - [PhasePortrait]: position against velocity on one axis
//
// # Slackness
//
// A cable is slack at a step when its recorded scalar force is at or below
// a small bound, 1e-10 by default:
//
//	intervals := analysis.SlackIntervals(result.Forces, result.Tags, 1e-10)
//	for tag, iv := range intervals {
//	    fmt.Println(tag, iv)
//	}
//
// # Lyapunov Candidates
//
// [LyapunovHistory] sums body energy with the closed-loop cable potential
// k/(2(1-κ))·s². The candidate is only defined while every cable is taut
// and has not been verified as a true Lyapunov function.
package analysis
