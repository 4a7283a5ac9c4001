package crawl

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/observability"
)

// DataSource answers the two questions the crawler asks about a node.
//
// Implementations are responsible for caching and for the minimum delay
// between external requests. They are called sequentially.
type DataSource interface {
	// FetchIdentity returns the display name of id.
	FetchIdentity(ctx context.Context, id graph.NodeID) (string, error)
	// FetchRelated returns the weighted neighbors of id, counting only
	// records dated in or after since with at most degreeCap participants.
	// The result never contains id.
	FetchRelated(ctx context.Context, id graph.NodeID, since, degreeCap int) (map[graph.NodeID]int, error)
}

// Report summarizes one crawl.
type Report struct {
	RunID    string
	Root     graph.NodeID
	Fetched  int           // Nodes fetched during this run
	Queries  int           // Data source calls issued
	Memoized int           // Visits answered from the store alone
	Skipped  []*CrawlError // Failures dropped under PolicySkip
	Duration time.Duration
}

// Crawler performs memoized, depth-bounded, depth-first traversals of a
// [DataSource]. A Crawler is not safe for concurrent use.
type Crawler struct {
	src  DataSource
	opts Options
}

// New creates a crawler for src.
func New(src DataSource, opts Options) *Crawler {
	return &Crawler{src: src, opts: opts.WithDefaults()}
}

// Options returns the effective options.
func (c *Crawler) Options() Options { return c.opts }

// Crawl expands the graph around root up to MaxDepth levels and returns the
// updated store. The input store is never modified.
//
// Nodes already explored with at least the remaining depth budget are not
// queried again; their recorded depth is still lowered when reached by a
// shorter path. With PolicyAbort, any data source failure returns a nil
// store and a *CrawlError. A cancelled context returns a nil store and the
// context error.
func (c *Crawler) Crawl(ctx context.Context, root graph.NodeID, store *graph.Store) (*graph.Store, *Report, error) {
	report := &Report{RunID: uuid.NewString(), Root: root}
	if c.opts.MaxDepth < 0 {
		return nil, report, errors.New(errors.ErrCodeInvalidInput, "max depth must be >= 0, got %d", c.opts.MaxDepth)
	}
	if store == nil {
		store = graph.NewStore()
	}

	start := time.Now()
	hooks := observability.Crawl()
	hooks.OnCrawlStart(ctx, root.String(), c.opts.MaxDepth)

	r := &run{
		ctx:    ctx,
		src:    c.src,
		opts:   c.opts,
		store:  store.Clone(),
		report: report,
		log:    c.opts.Logger.With("run", report.RunID[:8]),
		hooks:  hooks,
		failed: make(map[graph.NodeID]bool),
	}
	r.log.Debug("crawl started", "root", root, "depth", c.opts.MaxDepth,
		"since", c.opts.Since, "cap", c.opts.DegreeCap, "policy", c.opts.Policy)

	err := r.visit(root, 0)
	report.Duration = time.Since(start)
	hooks.OnCrawlComplete(ctx, root.String(), report.Fetched, report.Duration, err)

	if err != nil {
		r.log.Debug("crawl aborted", "root", root, "err", err)
		return nil, report, err
	}
	r.log.Debug("crawl finished", "fetched", report.Fetched, "queries", report.Queries,
		"memoized", report.Memoized, "skipped", len(report.Skipped), "took", report.Duration)
	return r.store, report, nil
}

// run carries the state of one Crawl call.
type run struct {
	ctx    context.Context
	src    DataSource
	opts   Options
	store  *graph.Store
	report *Report
	log    *log.Logger
	hooks  observability.CrawlHooks

	// failed holds nodes skipped during this run; they are not queried twice.
	failed map[graph.NodeID]bool
	// skips counts skipped visits, including repeated visits to failed nodes.
	skips int
}

func (r *run) visit(id graph.NodeID, level int) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	budget := r.opts.MaxDepth - level

	node, fetched := r.store.Node(id)
	if fetched && r.store.Explored(id) >= budget {
		r.store.TightenDepth(id, level)
		r.memoized(id, level)
		return nil
	}

	if !fetched {
		if r.failed[id] {
			r.skips++
			return nil
		}
		n, cerr := r.fetch(id)
		if cerr != nil {
			if r.opts.Policy == PolicySkip && r.ctx.Err() == nil {
				r.skip(cerr)
				return nil
			}
			return cerr
		}
		node = n
		r.store.AddNode(id, node, level)
		r.report.Fetched++
		r.hooks.OnNodeFetched(r.ctx, id.String(), level, node.Degree())
		r.log.Debug("fetched", "id", id, "name", node.Name, "depth", level, "neighbors", node.Degree())
	} else {
		r.store.TightenDepth(id, level)
		r.memoized(id, level)
	}

	if budget <= 0 {
		return nil
	}

	// The mark is set before descending so cycles back to id are memoized.
	// A subtree that lost nodes to skips is not complete, so the previous
	// budget is restored and a later crawl retries the missing nodes.
	prev, skips := r.store.Explored(id), r.skips
	r.store.MarkExplored(id, budget)
	for _, next := range node.Neighbors() {
		if err := r.visit(next, level+1); err != nil {
			return err
		}
	}
	if r.skips > skips {
		r.store.SetExplored(id, prev)
	}
	return nil
}

// fetch queries identity and neighbors of id.
func (r *run) fetch(id graph.NodeID) (*graph.Node, *CrawlError) {
	r.report.Queries++
	name, err := r.src.FetchIdentity(r.ctx, id)
	if err != nil {
		return nil, &CrawlError{ID: id, Op: OpIdentity, Err: err}
	}

	r.report.Queries++
	related, err := r.src.FetchRelated(r.ctx, id, r.opts.Since, r.opts.DegreeCap)
	if err != nil {
		return nil, &CrawlError{ID: id, Op: OpRelated, Err: err}
	}

	node := graph.NewNode(name)
	for other, w := range related {
		if other != id {
			node.AddEdge(other, w)
		}
	}
	return node, nil
}

func (r *run) memoized(id graph.NodeID, level int) {
	r.report.Memoized++
	r.hooks.OnNodeMemoized(r.ctx, id.String(), level)
}

func (r *run) skip(err *CrawlError) {
	r.skips++
	r.failed[err.ID] = true
	r.report.Skipped = append(r.report.Skipped, err)
	r.hooks.OnNodeSkipped(r.ctx, err.ID.String(), err.Err)
	r.log.Warn("skipping node", "id", err.ID, "op", err.Op, "code", errors.GetCode(err.Err), "err", errors.UserMessage(err.Err))
}
