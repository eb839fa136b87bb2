package mmac

import "github.com/matzehuels/mmac/pkg/layered"

// Tracker maintains, for every node, the worst crossing count among its
// incident edges, and the maximum of those values (the bottleneck).
//
// Node values are kept in a bucket histogram indexed by crossing count with a
// pointer to the highest non-empty bucket. Counts are small bounded integers,
// so updates are O(1) and the bottleneck query is O(1) amortised, without
// re-sorting nodes after every move.
//
// After changing edge counts, [Tracker.Touch] every node whose incident edges
// changed and call [Tracker.Flush].
type Tracker struct {
	g        *layered.Graph
	maxCross []int  // node -> worst incident crossing count
	buckets  []int  // count -> number of nodes with that worst count
	top      int    // highest non-empty bucket
	dirty    []int  // touched nodes awaiting Flush
	marked   []bool // node -> already in dirty
}

// NewTracker creates a tracker for g from the graph's cached edge counts.
func NewTracker(g *layered.Graph) *Tracker {
	t := &Tracker{
		g:        g,
		maxCross: make([]int, g.NodeCount()),
		marked:   make([]bool, g.NodeCount()),
	}
	t.Rebuild()
	return t
}

// Rebuild recomputes every node value from the graph's cached edge counts.
// Use it after a full recount.
func (t *Tracker) Rebuild() {
	clear(t.buckets)
	t.top = 0
	for i := range t.maxCross {
		v := t.nodeWorst(i)
		t.maxCross[i] = v
		t.add(v)
	}
	for _, n := range t.dirty {
		t.marked[n] = false
	}
	t.dirty = t.dirty[:0]
}

// Bottleneck returns the current maximum crossing count over all edges.
func (t *Tracker) Bottleneck() int { return t.top }

// NodeMax returns the tracked worst incident crossing count of node i.
func (t *Tracker) NodeMax(i int) int { return t.maxCross[i] }

// Touch marks node i for recomputation at the next Flush.
func (t *Tracker) Touch(i int) {
	if !t.marked[i] {
		t.marked[i] = true
		t.dirty = append(t.dirty, i)
	}
}

// Flush recomputes the values of touched nodes and restores the bottleneck.
func (t *Tracker) Flush() {
	for _, i := range t.dirty {
		t.marked[i] = false
		next := t.nodeWorst(i)
		if prev := t.maxCross[i]; prev != next {
			t.buckets[prev]--
			t.maxCross[i] = next
			t.add(next)
		}
	}
	t.dirty = t.dirty[:0]
	for t.top > 0 && t.buckets[t.top] == 0 {
		t.top--
	}
}

// Ranking returns node indices ordered by worst incident crossing count,
// highest first; ties keep index order. The first node carries the
// bottleneck.
func (t *Tracker) Ranking() []int {
	start := make([]int, len(t.buckets)+1)
	for v := len(t.buckets) - 1; v >= 0; v-- {
		start[v] = start[v+1] + t.buckets[v]
	}
	// start[v+1] is the first slot for value v when filling highest first.
	ranking := make([]int, len(t.maxCross))
	for i, v := range t.maxCross {
		ranking[start[v+1]] = i
		start[v+1]++
	}
	return ranking
}

func (t *Tracker) add(v int) {
	for v >= len(t.buckets) {
		t.buckets = append(t.buckets, 0)
	}
	t.buckets[v]++
	t.top = max(t.top, v)
}

// nodeWorst scans the incident edges of node i.
func (t *Tracker) nodeWorst(i int) int {
	n := t.g.Node(i)
	worst := 0
	for _, e := range n.Out {
		worst = max(worst, t.g.Edge(e).Cross)
	}
	for _, e := range n.In {
		worst = max(worst, t.g.Edge(e).Cross)
	}
	return worst
}
