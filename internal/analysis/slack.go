package analysis

import "fmt"

// Interval is a half-open range [Start, End) of step indices.
type Interval struct {
	Start int
	End   int
}

func (iv Interval) Len() int { return iv.End - iv.Start }

func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d)", iv.Start, iv.End)
}

// SlackIntervals returns, per tag, the maximal runs of steps whose force
// is at or below bound. Tags without slack steps map to an empty slice.
func SlackIntervals(forces []map[string]float64, tags []string, bound float64) map[string][]Interval {
	out := make(map[string][]Interval, len(tags))
	for _, tag := range tags {
		intervals := []Interval{}
		start := -1
		for i, f := range forces {
			slack := f[tag] <= bound
			switch {
			case slack && start < 0:
				start = i
			case !slack && start >= 0:
				intervals = append(intervals, Interval{Start: start, End: i})
				start = -1
			}
		}
		if start >= 0 {
			intervals = append(intervals, Interval{Start: start, End: len(forces)})
		}
		out[tag] = intervals
	}
	return out
}

// SlackCounts returns the number of slack steps per tag.
func SlackCounts(forces []map[string]float64, tags []string, bound float64) map[string]int {
	counts := make(map[string]int, len(tags))
	for _, tag := range tags {
		counts[tag] = 0
	}
	for _, f := range forces {
		for _, tag := range tags {
			if f[tag] <= bound {
				counts[tag]++
			}
		}
	}
	return counts
}

// AnySlack reports whether any cable was slack at any step.
func AnySlack(forces []map[string]float64, tags []string, bound float64) bool {
	for _, n := range SlackCounts(forces, tags, bound) {
		if n > 0 {
			return true
		}
	}
	return false
}
