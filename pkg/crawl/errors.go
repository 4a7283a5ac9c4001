package crawl

import (
	"fmt"

	"github.com/matzehuels/authorsphere/pkg/graph"
)

// Data source operations named in a [CrawlError].
const (
	OpIdentity = "identity"
	OpRelated  = "related"
)

// CrawlError identifies the node and data source operation that failed.
// The underlying error keeps its code (see package errors).
type CrawlError struct {
	ID  graph.NodeID
	Op  string
	Err error
}

func (e *CrawlError) Error() string {
	return fmt.Sprintf("crawl %s: %s: %v", e.ID, e.Op, e.Err)
}

func (e *CrawlError) Unwrap() error { return e.Err }
