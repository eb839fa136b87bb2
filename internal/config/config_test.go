package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/mmac/pkg/errors"
	"github.com/matzehuels/mmac/pkg/mmac"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Solver.Construction != "greedy" {
		t.Errorf("Construction = %q, want greedy", cfg.Solver.Construction)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %q, want file", cfg.Cache.Backend)
	}
	budget, err := cfg.TimeBudget()
	if err != nil || budget != mmac.DefaultTimeBudget {
		t.Errorf("TimeBudget() = %v, %v; want %v", budget, err, mmac.DefaultTimeBudget)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[solver]
time = "1m30s"
construction = "random"
move_distance = 0
verify = true

[cache]
backend = "redis"
redis_addr = "cache:6379"
prefix = "lab:"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	opts, err := cfg.SolverOptions()
	if err != nil {
		t.Fatalf("SolverOptions: %v", err)
	}
	if opts.TimeBudget != 90*time.Second {
		t.Errorf("TimeBudget = %v, want 1m30s", opts.TimeBudget)
	}
	if opts.Construction != mmac.ConstructRandom || opts.MoveDistance != 0 || !opts.VerifyLocalOptima {
		t.Errorf("SolverOptions() = %+v", opts)
	}
	// Keys absent from the file keep their defaults.
	if opts.PerturbFraction != mmac.DefaultPerturbFraction || cfg.Bench.Runs != 10 {
		t.Errorf("defaults lost: perturb %v, runs %d", opts.PerturbFraction, cfg.Bench.Runs)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.Prefix != "lab:" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[solver\n"},
		{"unknown key", "[solver]\nspeed = 3\n"},
		{"bad duration", "[solver]\ntime = \"soon\"\n"},
		{"zero duration", "[solver]\ntime = \"0s\"\n"},
		{"bad construction", "[solver]\nconstruction = \"spiral\"\n"},
		{"bad perturb", "[solver]\nperturb = 2.0\n"},
		{"bad backend", "[cache]\nbackend = \"s3\"\n"},
		{"bad runs", "[bench]\nruns = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("LoadFrom() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Solver.Time = "45s"
	cfg.Bench.Parallel = 4

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Solver.Time != "45s" || loaded.Bench.Parallel != 4 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("MMAC_CONFIG", "/etc/mmac.toml")
	if got, _ := DefaultPath(); got != "/etc/mmac.toml" {
		t.Errorf("DefaultPath() = %q, want MMAC_CONFIG value", got)
	}

	t.Setenv("MMAC_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got, _ := DefaultPath(); got != filepath.Join("/xdg", "mmac", "config.toml") {
		t.Errorf("DefaultPath() = %q, want XDG location", got)
	}
}

func TestCacheDir(t *testing.T) {
	cfg := Default()
	t.Setenv("XDG_CACHE_HOME", "/xdgcache")
	if got, _ := cfg.CacheDir(); got != filepath.Join("/xdgcache", "mmac") {
		t.Errorf("CacheDir() = %q", got)
	}

	cfg.Cache.Dir = "/var/cache/mmac"
	if got, _ := cfg.CacheDir(); got != "/var/cache/mmac" {
		t.Errorf("CacheDir() = %q, want configured dir", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	tests := []struct{ in, want string }{
		{"~/x", filepath.Join(home, "x")},
		{"/abs", "/abs"},
		{"~user/x", "~user/x"},
	}
	for _, tt := range tests {
		if got, _ := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
