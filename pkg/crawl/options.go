package crawl

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/authorsphere/pkg/errors"
)

// Default crawl parameters.
const (
	DefaultMaxDepth  = 3
	DefaultSince     = 2019
	DefaultDegreeCap = 10
)

// Policy decides what happens when the data source fails for a node.
type Policy int

const (
	// PolicyAbort stops the crawl at the first failure and discards all
	// progress of the run.
	PolicyAbort Policy = iota
	// PolicySkip drops the failing node, records the error in the report
	// and keeps crawling.
	PolicySkip
)

// String returns "abort" or "skip".
func (p Policy) String() string {
	if p == PolicySkip {
		return "skip"
	}
	return "abort"
}

// ParsePolicy parses "abort" or "skip".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "abort", "":
		return PolicyAbort, nil
	case "skip":
		return PolicySkip, nil
	}
	return PolicyAbort, errors.New(errors.ErrCodeInvalidInput, "unknown failure policy %q (want abort or skip)", s)
}

// Options configures a [Crawler].
type Options struct {
	MaxDepth  int         // Expansion levels below the root; 0 fetches the root only
	Since     int         // Only records dated in or after this year count (0: all)
	DegreeCap int         // Records with more participants are ignored (default: 10)
	Policy    Policy      // Failure handling (default: PolicyAbort)
	Logger    *log.Logger // Progress logging (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
// MaxDepth is left alone: zero is a valid depth.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.DegreeCap <= 0 {
		opts.DegreeCap = DefaultDegreeCap
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}
