// Package cli implements the bibnet command-line interface.
//
// # Commands
//
//   - build: turn bibliographic records into a citation or co-authorship graph
//   - analyze: test a graph's core set against null distributions
//   - render: draw a graph as SVG, PNG or PDF
//   - reports: list, show and delete stored reports
//   - serve: run the report API
//   - cache: manage the sample cache
//
// # Configuration
//
// Settings are read from a TOML file (--config, default
// $XDG_CONFIG_HOME/bibnet/config.toml when present). Flags override it.
//
// # Logging
//
// All commands log to stderr through charmbracelet/log; --verbose (-v)
// enables debug output.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bibnet/pkg/buildinfo"
	"github.com/matzehuels/bibnet/pkg/cache"
	"github.com/matzehuels/bibnet/pkg/observability"
	"github.com/matzehuels/bibnet/pkg/pipeline"
	"github.com/matzehuels/bibnet/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "bibnet"

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
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Config: DefaultConfig()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "bibnet tests whether a set of papers forms a community",
		Long: `bibnet builds citation and co-authorship networks from bibliographic records
and tests whether a core set of papers or authors is more modular or insular
than random subsets and optimized partitions of the same network.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.reportsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one
// when it exists, and installs the logging hooks.
func (c *CLI) loadConfig() error {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		if dir, err := configDir(); err == nil {
			path = filepath.Join(dir, "config.toml")
		}
	}
	if path != "" {
		cfg, err := LoadConfig(path, explicit)
		if err != nil {
			return err
		}
		c.Config = cfg
	}
	observability.SetPipelineHooks(&logHooks{logger: c.Logger})
	observability.SetCacheHooks(&logHooks{logger: c.Logger})
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if ns := c.Config.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(nil, ns+":")
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache opens Redis when a URL is configured, the file cache otherwise.
// An unreachable Redis falls back to the file cache with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if url := c.Config.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// newStore opens MongoDB when a URI is configured, the file store otherwise.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if uri := c.Config.Store.MongoURI; uri != "" {
		return store.NewMongoStore(ctx, uri, c.Config.Store.Database)
	}
	dir := c.Config.Store.Dir
	if dir == "" {
		d, err := dataDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(d, "reports")
	}
	return store.NewFileStore(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bibnet/).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// dataDir returns the data directory (~/.local/share/bibnet/).
func dataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// configDir returns the config directory (~/.config/bibnet/).
func configDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
