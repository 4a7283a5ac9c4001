package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/authorsphere/pkg/buildinfo"
	"github.com/matzehuels/authorsphere/pkg/cache"
	apperr "github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/graph/mongostore"
	"github.com/matzehuels/authorsphere/pkg/integrations/inspire"
	"github.com/matzehuels/authorsphere/pkg/observability/prom"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "authorsphere"

	// defaultCacheTTL is how long INSPIRE responses are reused.
	defaultCacheTTL = 24 * time.Hour
)

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

	global  globalFlags
	metrics *prom.Server
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string

	storePath string
	mongoURI  string
	storeName string

	noCache   bool
	refresh   bool
	cacheTTL  time.Duration
	redisAddr string

	metricsAddr string
	inspireURL  string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
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
		Short: "Authorsphere maps and draws co-authorship networks",
		Long: `Authorsphere crawls the INSPIRE-HEP literature database outward from one
author, keeps the discovered co-authorship graph between runs, and lays it out
with an annealed force simulation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyConfigFile(cmd); err != nil {
				return err
			}
			if err := apperr.ValidateURL(c.global.inspireURL); err != nil {
				return fmt.Errorf("--inspire-url: %w", err)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.startMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.global.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/authorsphere/config.toml)")
	pf.StringVar(&c.global.storePath, "store", "", "graph store file (default: $XDG_DATA_HOME/authorsphere/graph.json)")
	pf.StringVar(&c.global.mongoURI, "mongo-uri", "", "keep the graph store in MongoDB instead of a file")
	pf.StringVar(&c.global.storeName, "store-name", mongostore.DefaultName, "graph name inside MongoDB")
	pf.BoolVar(&c.global.noCache, "no-cache", false, "disable the HTTP response cache")
	pf.BoolVar(&c.global.refresh, "refresh", false, "ignore cached responses and fetch again")
	pf.DurationVar(&c.global.cacheTTL, "cache-ttl", defaultCacheTTL, "how long cached responses stay valid")
	pf.StringVar(&c.global.redisAddr, "redis-addr", "", "use the Redis server at this address as response cache")
	pf.StringVar(&c.global.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	pf.StringVar(&c.global.inspireURL, "inspire-url", inspire.DefaultBaseURL, "INSPIRE-HEP API root")
	_ = pf.MarkHidden("inspire-url")

	// Register all subcommands
	root.AddCommand(c.crawlCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Close releases resources started by the command, such as the metrics
// server. It is safe to call more than once.
func (c *CLI) Close() error {
	if c.metrics == nil {
		return nil
	}
	err := c.metrics.Close()
	c.metrics = nil
	return err
}

// =============================================================================
// Factories
// =============================================================================

func (c *CLI) startMetrics() error {
	if c.global.metricsAddr == "" || c.metrics != nil {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom.New(reg).Install()

	srv, err := prom.Start(c.global.metricsAddr, reg, c.Logger)
	if err != nil {
		return err
	}
	c.metrics = srv
	c.Logger.Info("serving metrics", "url", "http://"+srv.Addr()+"/metrics")
	return nil
}

// newCache returns the response cache selected by the flags. A cache that
// cannot be opened is not fatal: the run continues uncached.
func (c *CLI) newCache(ctx context.Context) cache.Cache {
	if c.global.noCache {
		return cache.NewNullCache()
	}
	if c.global.redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: c.global.redisAddr})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "addr", c.global.redisAddr, "err", err)
			return cache.NewNullCache()
		}
		return rc
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, continuing without cache", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// newSource creates the INSPIRE client used as crawl data source.
func (c *CLI) newSource(backend cache.Cache, interval time.Duration) *inspire.Client {
	return inspire.NewClient(backend, c.global.cacheTTL, inspire.Options{
		BaseURL:  c.global.inspireURL,
		Interval: interval,
		Refresh:  c.global.refresh,
	})
}

// closer is implemented by persisters holding a connection.
type closer interface {
	Close(ctx context.Context) error
}

// openStore returns the persister selected by the flags and a release func.
func (c *CLI) openStore(ctx context.Context) (graph.Persister, func(), error) {
	if c.global.mongoURI != "" {
		p, err := mongostore.Open(ctx, mongostore.Options{URI: c.global.mongoURI, Name: c.global.storeName})
		if err != nil {
			return nil, nil, err
		}
		return p, func() { closePersister(p, c.Logger) }, nil
	}
	path := c.global.storePath
	if path == "" {
		var err error
		if path, err = storePath(); err != nil {
			return nil, nil, err
		}
	}
	return graph.NewFilePersister(path), func() {}, nil
}

func closePersister(p any, logger *log.Logger) {
	cl, ok := p.(closer)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cl.Close(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Debug("closing graph store", "err", err)
	}
}
