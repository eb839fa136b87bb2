// Package pkg holds the libraries behind the mmac command.
//
// # Overview
//
// mmac solves the min-max arc crossing problem: order the nodes of every
// layer of a layered graph so that the edge crossed most often is crossed
// as rarely as possible. The packages are:
//
//  1. [layered] - the layered graph with per-edge crossing counts
//  2. [mmac] - construction, local search, perturbation and verification
//  3. [io] - instance and solution text formats
//  4. [cache] - best known solutions on disk or in Redis
//  5. [render] - Graphviz DOT and SVG drawings of an ordered instance
//  6. [errors], [observability], [buildinfo] - shared infrastructure
//
// # Quick Start
//
//	g, err := io.LoadInstance("instances/noug3-rnd-001.txt")
//	if err != nil {
//	    return err
//	}
//	sol, err := mmac.Solve(ctx, g, mmac.Options{Seed: 1, TimeBudget: 10 * time.Second})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(sol.Objective, sol.Layers)
//
// [layered]: github.com/matzehuels/mmac/pkg/layered
// [mmac]: github.com/matzehuels/mmac/pkg/mmac
// [io]: github.com/matzehuels/mmac/pkg/io
// [cache]: github.com/matzehuels/mmac/pkg/cache
// [render]: github.com/matzehuels/mmac/pkg/render
// [errors]: github.com/matzehuels/mmac/pkg/errors
// [observability]: github.com/matzehuels/mmac/pkg/observability
// [buildinfo]: github.com/matzehuels/mmac/pkg/buildinfo
package pkg
