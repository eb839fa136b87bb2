// Package io reads and writes min-max crossing instances and solutions.
//
// # Instance Format
//
// Instances are plain text, whitespace separated integers:
//
//	7 8 3
//	2 3 2
//	1 3
//	1 4
//	2 4
//	2 5
//	3 6
//	4 6
//	4 7
//	5 7
//
// The header gives the node, edge and layer counts. The second line lists
// the size of every layer; node IDs 1..n are assigned in layer order, so the
// example puts nodes 1-2 in layer 0, 3-5 in layer 1 and 6-7 in layer 2. Each
// following line is one directed edge by source and sink ID.
//
// [ReadInstance] and [LoadInstance] reject instances whose counts disagree,
// whose edges skip or reverse layers, or that contain isolated nodes. All of
// these are reported with ErrCodeInvalidInstance and the offending line.
//
// # Solution Format
//
// A solution record names its instance, the time and iteration at which it
// was found, its objective and the node order of every layer:
//
//	example.txt
//	Time: 0.125 seconds
//	Iteration: 14
//	Objective: 1
//	Solution:
//	2 1
//	5 4 3
//	7 6
//
// [WriteSolution] and [ReadSolution] handle the text form. Records without
// an Iteration line are accepted. [MarshalSolution] and [UnmarshalSolution]
// provide a JSON form used by the best-known solution cache.
//
// A record's claimed objective is not trusted by this package; evaluate it
// against the instance with [mmac.Evaluate].
//
// [mmac.Evaluate]: github.com/matzehuels/mmac/pkg/mmac.Evaluate
package io
