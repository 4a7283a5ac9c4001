package render

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/layout"
)

// RunOptions configures [Run].
type RunOptions struct {
	MaxFrames int         // Stop after this many frames; 0 runs until quit
	Style     Style       // Zero value means DefaultStyle
	Logger    *log.Logger // Optional
}

// Run drives the frame loop on c until a quit event, MaxFrames or context
// cancellation, and returns the last drawn positions. A draw failure ends the
// run with a RENDER_FAILED error; cancellation returns ctx.Err().
func Run(ctx context.Context, c Canvas, e *layout.Engine, store *graph.Store, opts RunOptions) (map[graph.NodeID]layout.Point, error) {
	style := opts.Style
	if style == (Style{}) {
		style = DefaultStyle()
	}

	var last map[graph.NodeID]layout.Point
	for frame := 0; opts.MaxFrames <= 0 || frame < opts.MaxFrames; frame++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		pos, quit, err := Frame(ctx, c, e, store, style)
		if err != nil {
			return last, err
		}
		if quit {
			if opts.Logger != nil {
				opts.Logger.Debug("frame loop quit", "frames", frame, "t", e.Time())
			}
			return last, nil
		}
		last = pos
	}
	if opts.Logger != nil {
		opts.Logger.Debug("frame loop finished", "frames", opts.MaxFrames, "visible", len(last))
	}
	return last, nil
}
