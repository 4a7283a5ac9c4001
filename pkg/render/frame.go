package render

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/layout"
	"github.com/matzehuels/authorsphere/pkg/observability"
)

// Style holds the colors of a frame.
type Style struct {
	Background Color
	Edge       Color
	Node       Color
}

// DefaultStyle draws black on white.
func DefaultStyle() Style {
	return Style{Background: White, Edge: Black, Node: Black}
}

// Segments returns one segment per directed edge whose endpoints are both
// positioned, in a stable order.
func Segments(store *graph.Store, positions map[graph.NodeID]layout.Point) []Segment {
	var segs []Segment
	for _, id := range sortedIDs(positions) {
		n, ok := store.Node(id)
		if !ok {
			continue
		}
		from := positions[id]
		for _, other := range n.Neighbors() {
			if to, ok := positions[other]; ok {
				segs = append(segs, Segment{From: from, To: to})
			}
		}
	}
	return segs
}

// Points returns the positions in a stable order.
func Points(positions map[graph.NodeID]layout.Point) []layout.Point {
	ids := sortedIDs(positions)
	pts := make([]layout.Point, len(ids))
	for i, id := range ids {
		pts[i] = positions[id]
	}
	return pts
}

func sortedIDs(positions map[graph.NodeID]layout.Point) []graph.NodeID {
	ids := make([]graph.NodeID, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// DrawFrame draws one frame: background, edges, nodes, present.
// Failures are reported as RENDER_FAILED.
func DrawFrame(c Canvas, store *graph.Store, positions map[graph.NodeID]layout.Point, style Style) error {
	steps := []struct {
		op string
		fn func() error
	}{
		{"set background", func() error { return c.SetColor(style.Background) }},
		{"clear", c.Clear},
		{"set edge color", func() error { return c.SetColor(style.Edge) }},
		{"draw lines", func() error { return c.DrawLines(Segments(store, positions)) }},
		{"set node color", func() error { return c.SetColor(style.Node) }},
		{"draw points", func() error { return c.DrawPoints(Points(positions)) }},
		{"present", c.Present},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, err, "%s", s.op)
		}
	}
	return nil
}

// Frame runs one iteration of the frame loop: drain pending events, advance
// the engine, draw. quit is true when a quit event was seen; the engine is
// not advanced in that case.
func Frame(ctx context.Context, c Canvas, e *layout.Engine, store *graph.Store, style Style) (positions map[graph.NodeID]layout.Point, quit bool, err error) {
	for {
		ev, ok := c.PollEvent()
		if !ok {
			break
		}
		if ev.Kind == EventQuit {
			return nil, true, nil
		}
	}

	start := time.Now()
	positions = e.Step()
	if err := DrawFrame(c, store, positions, style); err != nil {
		return nil, false, err
	}
	observability.Layout().OnFrame(ctx, len(positions), time.Since(start))
	return positions, false, nil
}
