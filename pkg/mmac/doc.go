// Package mmac computes layer orderings that minimise the maximum number of
// crossings on any single edge of a layered graph (the min-max arc crossing
// problem).
//
// # The Bottleneck Objective
//
// Classic crossing reduction minimises the total number of crossings, and
// barycenter or median sweeps are good at that. Here the score is the worst
// edge: one badly placed edge dominates the objective no matter how clean the
// rest of the drawing is. Sweeps that improve the sum freely make individual
// edges worse, so this package uses an iterated local search instead.
//
// # Algorithm
//
// A run goes through these stages:
//
//  1. Construct an initial order, either uniformly at random or with a
//     semi-greedy (GRASP) barycenter placement ([Construction]).
//  2. Count every edge's crossings from scratch and derive the bottleneck.
//  3. Local search: relocate one node inside its layer, within a bounded
//     window, choosing the lexicographically best (Δbottleneck, Δcrossings)
//     move. Moves that would push an edge above the bottleneck are never
//     candidates, and only lexicographically negative moves are applied.
//     Moves are evaluated by sliding the node one slot at a time and
//     summing the crossing changes of each adjacent swap, so a candidate never
//     triggers a recount of the layer.
//  4. At a local optimum, shuffle a random contiguous slice of every layer,
//     recount, and search again.
//  5. Stop when the time budget is spent, the context is cancelled, the step
//     limit is reached, or no edge crosses any other.
//
// The best state seen is captured as a [Solution] after the incremental
// bookkeeping has been checked against a from-scratch recount ([Verify]).
//
// # Usage
//
//	opts := mmac.DefaultOptions()
//	opts.Seed = 42
//	opts.TimeBudget = 30 * time.Second
//	sol, err := mmac.Solve(ctx, g, opts)
//	if err != nil {
//	    return err
//	}
//	fmt.Println("bottleneck:", sol.Objective)
//
// Solve works on a private copy of the graph. Runs are deterministic for a
// seed up to the number of steps they complete, so independent seeds can be
// run concurrently on the same input graph.
package mmac
