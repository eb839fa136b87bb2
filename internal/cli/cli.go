// Package cli implements the mmac command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mmac/internal/config"
	"github.com/matzehuels/mmac/pkg/buildinfo"
	"github.com/matzehuels/mmac/pkg/cache"
)

// appName is the application name used for display.
const appName = "mmac"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "mmac minimizes the largest number of crossings on any edge of a layered graph",
		Long: `mmac orders the nodes of every layer of a layered graph so that the edge
with the most crossings has as few as possible (min-max arc crossing).

It runs an iterated local search within a time budget and remembers the best
known solution of every instance in a cache.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			c.registerHooks()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mmac/config.toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.bestCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		path, perr := config.ExpandPath(c.configPath)
		if perr != nil {
			return perr
		}
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the configured cache backend. A backend that cannot be
// reached degrades to a NullCache with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}

	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache()
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			c.Logger.Warn("Cache disabled", "backend", cfg.Backend, "err", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		dir, err := c.Config.CacheDir()
		if err != nil {
			c.Logger.Warn("Cache disabled", "backend", cfg.Backend, "err", err)
			return cache.NewNullCache()
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("Cache disabled", "backend", cfg.Backend, "err", err)
			return cache.NewNullCache()
		}
		return fc
	}
}

// openBestStore returns the best known solution store and a function that
// releases its backend.
func (c *CLI) openBestStore(ctx context.Context, noCache bool) (*cache.BestStore, func()) {
	ch := c.newCache(ctx, noCache)
	store := cache.NewBestStore(ch, cache.NewScopedKeyer(nil, c.Config.Cache.Prefix))
	return store, func() {
		if err := ch.Close(); err != nil {
			c.Logger.Debug("close cache", "err", err)
		}
	}
}
