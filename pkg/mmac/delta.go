package mmac

import (
	"fmt"
	"math"
)

// Delta is the effect of a candidate move: the change in the bottleneck
// surrogate and the change in the summed per-edge crossing counts.
// Deltas compare lexicographically; Bottleneck dominates.
type Delta struct {
	Bottleneck int
	Crossings  int
}

// worstDelta compares greater than any delta a move can produce.
var worstDelta = Delta{Bottleneck: math.MaxInt, Crossings: math.MaxInt}

// Compare returns -1, 0 or +1 as d is better than, equal to, or worse than o.
func (d Delta) Compare(o Delta) int {
	switch {
	case d.Bottleneck < o.Bottleneck:
		return -1
	case d.Bottleneck > o.Bottleneck:
		return 1
	case d.Crossings < o.Crossings:
		return -1
	case d.Crossings > o.Crossings:
		return 1
	}
	return 0
}

// Improving reports whether d is lexicographically negative. A delta that
// raises the bottleneck surrogate is never improving, whatever it does to
// the crossings.
func (d Delta) Improving() bool {
	return d.Bottleneck < 0 || d.Bottleneck == 0 && d.Crossings < 0
}

func (d Delta) String() string {
	return fmt.Sprintf("dM: %d, dC: %d", d.Bottleneck, d.Crossings)
}

// bottleneckDelta converts the change of one edge's crossing count from
// prev to next into its contribution to the bottleneck surrogate, given the
// current bottleneck m:
//
//   - +1 when the edge newly reaches m
//   - penalty·(next−m) when the edge rises above m
//   - −1 when an edge at m drops below it
//
// Counting edges at the bottleneck lets a sequence of moves drain the top
// level one edge at a time before m itself drops.
func bottleneckDelta(prev, next, m, penalty int) int {
	switch {
	case prev < m && next == m:
		return 1
	case prev <= m && next > m:
		return penalty * (next - m)
	case prev == m && next < m:
		return -1
	}
	return 0
}
