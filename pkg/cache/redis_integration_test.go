//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/mmac/pkg/mmac"
)

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("MMAC_REDIS_ADDR")
	if addr == "" {
		t.Skip("MMAC_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()

	key := "mmac-test:" + t.Name()
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get() = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Errorf("Get() after Delete = hit %v, err %v", hit, err)
	}

	store := NewBestStore(c, NewScopedKeyer(nil, "mmac-test:"))
	g := testGraph(t)
	defer store.Forget(ctx, g)
	if _, err := store.Record(ctx, g, &mmac.Solution{Objective: 1, Layers: [][]int{{1, 2}, {3, 4}}}); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
}
