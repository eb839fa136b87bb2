package cache

import (
	"context"

	mmacio "github.com/matzehuels/mmac/pkg/io"
	"github.com/matzehuels/mmac/pkg/layered"
	"github.com/matzehuels/mmac/pkg/mmac"
	"github.com/matzehuels/mmac/pkg/observability"
)

const keyTypeBest = "best"

// BestStore records the best known solution per instance.
type BestStore struct {
	cache Cache
	keyer Keyer
}

// NewBestStore stores solutions in c, keyed by keyer (default keyer if nil).
func NewBestStore(c Cache, keyer Keyer) *BestStore {
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &BestStore{cache: c, keyer: keyer}
}

// Lookup returns the best known solution for g. An entry that no longer
// decodes, or that does not fit g, is treated as a miss.
func (s *BestStore) Lookup(ctx context.Context, g *layered.Graph) (*mmac.Solution, bool, error) {
	data, ok, err := s.cache.Get(ctx, s.keyer.BestKey(InstanceHash(g)))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, keyTypeBest)
		return nil, false, nil
	}
	sol, err := mmacio.UnmarshalSolution(data)
	if err != nil || len(sol.Layers) != g.LayerCount() {
		observability.Cache().OnCacheMiss(ctx, keyTypeBest)
		return nil, false, nil
	}
	observability.Cache().OnCacheHit(ctx, keyTypeBest)
	return sol, true, nil
}

// Record stores sol if no solution is known for g or sol's objective is
// strictly lower. It reports whether the entry changed.
//
// The comparison and the write are not atomic; two writers racing on one
// instance may both succeed, and the later one wins.
func (s *BestStore) Record(ctx context.Context, g *layered.Graph, sol *mmac.Solution) (bool, error) {
	known, ok, err := s.Lookup(ctx, g)
	if err != nil {
		return false, err
	}
	if ok && known.Objective <= sol.Objective {
		return false, nil
	}
	data, err := mmacio.MarshalSolution(sol)
	if err != nil {
		return false, err
	}
	if err := s.cache.Set(ctx, s.keyer.BestKey(InstanceHash(g)), data, 0); err != nil {
		return false, err
	}
	observability.Cache().OnCacheSet(ctx, keyTypeBest, len(data))
	return true, nil
}

// Forget removes the entry for g.
func (s *BestStore) Forget(ctx context.Context, g *layered.Graph) error {
	return s.cache.Delete(ctx, s.keyer.BestKey(InstanceHash(g)))
}
