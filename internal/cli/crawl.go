package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/authorsphere/pkg/crawl"
	"github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/httputil"
)

// defaultRoot is the author the original map was drawn around.
const defaultRoot = "1006450"

// Accepted ranges of the crawl flags. Each level multiplies the number of
// queries, so deep crawls are refused rather than left to run for days.
const (
	maxDepth     = 8
	maxDegreeCap = 10000
	maxSince     = 9999
)

// crawlFlags are the crawl parameters shared by crawl, view and layout.
type crawlFlags struct {
	root      string
	depth     int
	since     int
	degreeCap int
	policy    string
	interval  time.Duration
	offline   bool
}

func (f *crawlFlags) register(cmd *cobra.Command, withOffline bool) {
	fl := cmd.Flags()
	fl.StringVar(&f.root, "root", defaultRoot, "INSPIRE author id to start from")
	fl.IntVarP(&f.depth, "depth", "d", crawl.DefaultMaxDepth, "co-author levels to expand below the root")
	fl.IntVar(&f.since, "since", crawl.DefaultSince, "only count records dated in or after this year (0: all)")
	fl.IntVar(&f.degreeCap, "degree-cap", crawl.DefaultDegreeCap, "ignore records with more authors than this")
	fl.StringVar(&f.policy, "policy", crawl.PolicyAbort.String(), "on a failed query: abort (keep nothing) or skip (drop the author)")
	fl.DurationVar(&f.interval, "interval", httputil.DefaultInterval, "minimum delay before every INSPIRE request")
	if withOffline {
		fl.BoolVar(&f.offline, "offline", false, "use the stored graph without crawling")
	}
}

// rootID returns the root from the first argument or --root.
func (f *crawlFlags) rootID(args []string) (graph.NodeID, error) {
	s := f.root
	if len(args) > 0 {
		s = args[0]
	}
	return graph.ParseNodeID(s)
}

func (f *crawlFlags) options() (crawl.Options, error) {
	for _, r := range []struct {
		name      string
		v, lo, hi int
	}{
		{"--depth", f.depth, 0, maxDepth},
		{"--degree-cap", f.degreeCap, 1, maxDegreeCap},
		{"--since", f.since, 0, maxSince},
	} {
		if err := errors.ValidateRange(r.name, r.v, r.lo, r.hi); err != nil {
			return crawl.Options{}, err
		}
	}
	policy, err := crawl.ParsePolicy(f.policy)
	if err != nil {
		return crawl.Options{}, err
	}
	return crawl.Options{
		MaxDepth:  f.depth,
		Since:     f.since,
		DegreeCap: f.degreeCap,
		Policy:    policy,
	}, nil
}

// crawlCommand creates the crawl command.
func (c *CLI) crawlCommand() *cobra.Command {
	var flags crawlFlags

	cmd := &cobra.Command{
		Use:   "crawl [author-id]",
		Short: "Discover the co-authorship graph around an author",
		Long: `Discover the co-authorship graph around an author.

Starting from the root author, crawl queries INSPIRE-HEP for each author's
name and co-authors and expands level by level up to --depth. The graph is
loaded from and saved back to the store, so authors already explored deeply
enough are not queried again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := flags.rootID(args)
			if err != nil {
				return err
			}
			store, err := c.loadAndCrawl(cmd.Context(), root, flags)
			if err != nil {
				return err
			}
			printStoreSummary(store)
			printNextStep("Open the viewer", fmt.Sprintf("%s view %s --offline", appName, root))
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}

// loadAndCrawl loads the persisted store, crawls around root unless
// flags.offline is set, and saves the result.
func (c *CLI) loadAndCrawl(ctx context.Context, root graph.NodeID, flags crawlFlags) (*graph.Store, error) {
	logger := loggerFromContext(ctx)
	p, release, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	store := graph.LoadOrEmpty(ctx, p, logger)
	logger.Debug("loaded graph store", "location", p.Location(), "nodes", store.Len())
	if flags.offline {
		return store, nil
	}

	opts, err := flags.options()
	if err != nil {
		return nil, err
	}
	opts.Logger = logger

	backend := c.newCache(ctx)
	defer backend.Close()
	crawler := crawl.New(c.newSource(backend, flags.interval), opts)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Crawling around %s (depth %d)...", root, opts.MaxDepth))
	spinner.Start()
	prog := newProgress(logger)
	next, report, err := crawler.Crawl(ctx, root, store)
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("crawl %s: %w", root, err)
	}
	prog.done(fmt.Sprintf("Crawled %d authors with %d queries", report.Fetched, report.Queries))

	for _, skipped := range report.Skipped {
		printWarning("skipped %s: %v", skipped.ID, skipped.Err)
	}
	graph.SaveBestEffort(ctx, p, next, logger)
	return next, nil
}
