package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mmac/pkg/observability"
)

// debugHooks logs solver and cache events at debug level.
type debugHooks struct {
	logger *log.Logger
}

var (
	_ observability.SolverHooks = debugHooks{}
	_ observability.CacheHooks  = debugHooks{}
)

func (h debugHooks) OnSolveStart(_ context.Context, instance string, nodes, edges int) {
	h.logger.Debug("solve start", "instance", instance, "nodes", nodes, "edges", edges)
}

func (h debugHooks) OnImprovement(_ context.Context, instance string, objective, iteration int, elapsed time.Duration) {
	h.logger.Debug("improvement", "instance", instance, "objective", objective, "iteration", iteration, "elapsed", elapsed)
}

func (h debugHooks) OnPerturb(_ context.Context, instance string, round, objective int) {
	h.logger.Debug("perturb", "instance", instance, "round", round, "objective", objective)
}

func (h debugHooks) OnSolveComplete(_ context.Context, instance string, objective, iterations int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("solve failed", "instance", instance, "iterations", iterations, "elapsed", d, "err", err)
		return
	}
	h.logger.Debug("solve complete", "instance", instance, "objective", objective, "iterations", iterations, "elapsed", d)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// registerHooks routes observability events to the CLI logger.
func (c *CLI) registerHooks() {
	h := debugHooks{logger: c.Logger}
	observability.SetSolverHooks(h)
	observability.SetCacheHooks(h)
}
