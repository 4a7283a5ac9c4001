package inspire

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/authorsphere/pkg/cache"
	apperr "github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/httputil"
	"github.com/matzehuels/authorsphere/pkg/integrations"
)

const (
	// DefaultBaseURL is the public INSPIRE-HEP REST API.
	DefaultBaseURL = "https://inspirehep.net/api"

	// DefaultPageSize is the number of literature records requested per page.
	DefaultPageSize = 250

	maxPages = 200
)

// Client queries INSPIRE-HEP for author identities and co-authorships.
// It satisfies crawl.DataSource.
//
// Every HTTP request is preceded by the client's throttle delay; cached
// responses issue no request and do not wait.
type Client struct {
	*integrations.Client
	baseURL  string
	pageSize int
	refresh  bool
}

// Options configures [NewClient].
type Options struct {
	// BaseURL overrides [DefaultBaseURL].
	BaseURL string
	// PageSize overrides [DefaultPageSize].
	PageSize int
	// Interval is the delay before every request. Zero means
	// [httputil.DefaultInterval]; negative disables the delay.
	Interval time.Duration
	// Refresh bypasses cached responses (they are still rewritten).
	Refresh bool
	// Keyer scopes cache keys; nil means keys are scoped by the API host.
	Keyer cache.Keyer
}

// NewClient creates an INSPIRE client using backend for response caching.
func NewClient(backend cache.Cache, cacheTTL time.Duration, opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	interval := opts.Interval
	if interval == 0 {
		interval = httputil.DefaultInterval
	}
	keyer := opts.Keyer
	if keyer == nil {
		host := base
		if u, err := url.Parse(base); err == nil && u.Host != "" {
			host = u.Host
		}
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), host+":")
	}

	hc := integrations.NewClient(backend, "inspire:", cacheTTL, map[string]string{
		"Accept": "application/json",
	})
	hc.WithThrottle(httputil.NewThrottle(interval)).WithKeyer(keyer)

	return &Client{Client: hc, baseURL: base, pageSize: size, refresh: opts.Refresh}
}

// BaseURL returns the API root this client queries.
func (c *Client) BaseURL() string { return c.baseURL }

// AuthorRef returns the canonical record reference of an author, as used in
// literature queries and returned in author lists.
func (c *Client) AuthorRef(id graph.NodeID) string {
	return c.baseURL + "/authors/" + url.PathEscape(id.String())
}

// FetchIdentity returns the display name of author id: the preferred name,
// falling back to the plain name value.
//
// Returns NOT_FOUND for unknown authors and MALFORMED_RESPONSE when the
// record carries no name.
func (c *Client) FetchIdentity(ctx context.Context, id graph.NodeID) (string, error) {
	var ident identity
	err := c.Cached(ctx, "author:"+id.String(), c.refresh, &ident, func() error {
		var resp authorResponse
		if err := c.Get(ctx, c.AuthorRef(id), &resp); err != nil {
			return err
		}
		name := resp.Metadata.Name.PreferredName
		if name == "" {
			name = resp.Metadata.Name.Value
		}
		if name == "" {
			return apperr.New(apperr.ErrCodeMalformedResponse, "author %s has no name", id)
		}
		ident = identity{Name: name}
		return nil
	})
	if err != nil {
		return "", err
	}
	return ident.Name, nil
}

// FetchRelated returns the co-authors of id on records dated since or later,
// weighted by the number of shared records. Records with more than degreeCap
// authors contribute nothing. id itself never appears in the result.
//
// An author entry without a resolvable record reference on a counted record
// yields MISSING_NEIGHBOR_REFERENCE.
func (c *Client) FetchRelated(ctx context.Context, id graph.NodeID, since, degreeCap int) (map[graph.NodeID]int, error) {
	key := fmt.Sprintf("related:%s:%d:%d", id, since, degreeCap)
	var rel related
	err := c.Cached(ctx, key, c.refresh, &rel, func() error {
		weights, records, err := c.fetchRelated(ctx, id, since, degreeCap)
		if err != nil {
			return err
		}
		rel = related{Weights: weights, Records: records}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[graph.NodeID]int, len(rel.Weights))
	for k, w := range rel.Weights {
		out[graph.NodeID(k)] = w
	}
	return out, nil
}

func (c *Client) fetchRelated(ctx context.Context, id graph.NodeID, since, degreeCap int) (map[string]int, int, error) {
	weights := make(map[string]int)
	records := 0
	self := id.String()

	next := c.literatureURL(id, since)
	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return nil, 0, apperr.New(apperr.ErrCodeMalformedResponse, "literature query for %s exceeded %d pages", id, maxPages)
		}
		var resp literatureResponse
		if err := c.Get(ctx, next, &resp); err != nil {
			return nil, 0, err
		}
		for _, hit := range resp.Hits.Hits {
			authors := hit.Metadata.Authors
			if len(authors) > degreeCap {
				continue
			}
			records++
			for _, a := range authors {
				other := integrations.LastPathSegment(a.ref())
				if other == "" {
					return nil, 0, apperr.New(apperr.ErrCodeMissingNeighborReference,
						"record co-authored by %s lists an author without a record reference", id)
				}
				if other != self {
					weights[other]++
				}
			}
		}
		next = resp.Links.Next
	}
	return weights, records, nil
}

// literatureURL builds the first page of the co-author query.
func (c *Client) literatureURL(id graph.NodeID, since int) string {
	q := url.Values{}
	q.Set("q", fmt.Sprintf(`de >= %d and authors.record.$ref:"%s"`, since, c.AuthorRef(id)))
	q.Set("size", strconv.Itoa(c.pageSize))
	q.Set("fields", "authors.record")
	return c.baseURL + "/literature?" + q.Encode()
}
