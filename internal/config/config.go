// Package config loads the mmac configuration file.
//
// The file is TOML, read from $MMAC_CONFIG if set, else
// $XDG_CONFIG_HOME/mmac/config.toml (~/.config/mmac/config.toml). A missing
// file yields the defaults. Command-line flags override file values.
//
//	[solver]
//	time = "30s"
//	construction = "greedy"
//	move_distance = 10
//	perturb = 0.25
//
//	[bench]
//	runs = 20
//
//	[cache]
//	backend = "redis"
//	redis_addr = "lab-cache:6379"
//	prefix = "thesis:"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mmac/pkg/errors"
	"github.com/matzehuels/mmac/pkg/mmac"
)

const appName = "mmac"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds every configurable setting.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Bench  BenchConfig  `toml:"bench"`
	Cache  CacheConfig  `toml:"cache"`
}

// SolverConfig holds solver defaults.
type SolverConfig struct {
	Time         string  `toml:"time"` // Go duration, e.g. "10s"
	Construction string  `toml:"construction"`
	MoveDistance int     `toml:"move_distance"`
	Perturb      float64 `toml:"perturb"`
	Penalty      int     `toml:"penalty"`
	Verify       bool    `toml:"verify"`
}

// BenchConfig holds benchmark defaults.
type BenchConfig struct {
	Runs     int `toml:"runs"`
	Parallel int `toml:"parallel"` // 0 means one worker per CPU
}

// CacheConfig selects where best known solutions are kept.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir,omitempty"` // Empty selects the XDG cache dir
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
	Prefix        string `toml:"prefix,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			Time:         mmac.DefaultTimeBudget.String(),
			Construction: string(mmac.ConstructGreedy),
			MoveDistance: mmac.DefaultMoveDistance,
			Perturb:      mmac.DefaultPerturbFraction,
			Penalty:      mmac.DefaultPenalty,
		},
		Bench: BenchConfig{Runs: 10},
		Cache: CacheConfig{Backend: BackendFile, RedisAddr: "localhost:6379"},
	}
}

// DefaultPath returns the config file location.
func DefaultPath() (string, error) {
	if p := os.Getenv("MMAC_CONFIG"); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config from the default path.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads config from path on top of the defaults. A missing file
// is not an error. Unknown keys and invalid values return
// ErrCodeInvalidConfig.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the config to path, creating directories as needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Validate checks value ranges and choices.
func (c *Config) Validate() error {
	if _, err := c.TimeBudget(); err != nil {
		return err
	}
	if err := errors.ValidateChoice("solver.construction", c.Solver.Construction, mmac.Constructions...); err != nil {
		return asConfigError(err)
	}
	if err := errors.ValidateFraction("solver.perturb", c.Solver.Perturb); err != nil {
		return asConfigError(err)
	}
	if err := errors.ValidatePositive("solver.penalty", c.Solver.Penalty); err != nil {
		return asConfigError(err)
	}
	if err := errors.ValidatePositive("bench.runs", c.Bench.Runs); err != nil {
		return asConfigError(err)
	}
	if err := errors.ValidateNonNegative("bench.parallel", c.Bench.Parallel); err != nil {
		return asConfigError(err)
	}
	if err := errors.ValidateChoice("cache.backend", c.Cache.Backend, BackendFile, BackendRedis, BackendNone); err != nil {
		return asConfigError(err)
	}
	return nil
}

// TimeBudget parses solver.time.
func (c *Config) TimeBudget() (time.Duration, error) {
	d, err := time.ParseDuration(c.Solver.Time)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "solver.time %q", c.Solver.Time)
	}
	if d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "solver.time must be positive, got %s", d)
	}
	return d, nil
}

// SolverOptions converts the solver section to solver options.
func (c *Config) SolverOptions() (mmac.Options, error) {
	budget, err := c.TimeBudget()
	if err != nil {
		return mmac.Options{}, err
	}
	return mmac.Options{
		TimeBudget:        budget,
		Construction:      mmac.Construction(c.Solver.Construction),
		MoveDistance:      c.Solver.MoveDistance,
		PerturbFraction:   c.Solver.Perturb,
		Penalty:           c.Solver.Penalty,
		VerifyLocalOptima: c.Solver.Verify,
	}, nil
}

// CacheDir returns the file cache directory: cache.dir if set, else
// $XDG_CACHE_HOME/mmac (~/.cache/mmac).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return ExpandPath(c.Cache.Dir)
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func asConfigError(err error) error {
	return errors.New(errors.ErrCodeInvalidConfig, "%s", errors.UserMessage(err))
}
