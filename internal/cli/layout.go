package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/layout"
	"github.com/matzehuels/authorsphere/pkg/render"
	"github.com/matzehuels/authorsphere/pkg/render/nodelink"
	"github.com/matzehuels/authorsphere/pkg/render/raster"
)

// Output formats of the layout command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
	formatText = "txt"
)

const (
	defaultWidth  = 1800
	defaultHeight = 900
	defaultFrames = 1000
)

// layoutFlags configure the engine and the canvas size.
type layoutFlags struct {
	width, height int
	seed          uint64
	symmetry      string
	spread        float64
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.width, "width", defaultWidth, "canvas width in pixels")
	fl.IntVar(&f.height, "height", defaultHeight, "canvas height in pixels")
	fl.Uint64Var(&f.seed, "seed", 0, "random seed for the initial scatter (0: time based)")
	fl.StringVar(&f.symmetry, "symmetry", string(layout.SymmetryDirected), "edge weight between two authors: directed, max or sum")
	fl.Float64Var(&f.spread, "spread", layout.DefaultConfig().Spread, "initial scatter is size/spread around the center")
}

func (f *layoutFlags) engine(store *graph.Store, root graph.NodeID) (*layout.Engine, error) {
	sym, err := layout.ParseSymmetry(f.symmetry)
	if err != nil {
		return nil, err
	}
	cfg := layout.DefaultConfig()
	cfg.Seed = f.seed
	cfg.Symmetry = sym
	cfg.Spread = f.spread
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	size, err := f.size()
	if err != nil {
		return nil, err
	}
	return layout.New(store, size, root, cfg), nil
}

func (f *layoutFlags) size() (layout.Size, error) {
	size := layout.Size{W: f.width, H: f.height}
	if err := size.Validate(); err != nil {
		return layout.Size{}, err
	}
	return size, nil
}

// layoutCommand creates the headless layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		crawlOpts crawlFlags
		opts      layoutFlags
		frames    int
		output    string
		format    string
		detailed  bool
	)

	cmd := &cobra.Command{
		Use:   "layout [author-id]",
		Short: "Run the force layout without a window and export the result",
		Long: `Run the force layout without a window and export the result.

The graph around the root is crawled (unless --offline), the simulation runs
for --frames steps, and the final positions are written as JSON, Graphviz DOT,
SVG, PNG or a plain-text preview. SVG and PNG are drawn by Graphviz with every
author pinned at its simulated position.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := crawlOpts.rootID(args)
			if err != nil {
				return err
			}
			store, err := c.loadAndCrawl(cmd.Context(), root, crawlOpts)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), store, root, opts, frames, format, output, detailed)
		},
	}

	crawlOpts.register(cmd, true)
	opts.register(cmd)
	cmd.Flags().IntVar(&frames, "frames", defaultFrames, "simulation steps to run")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: json, dot, svg, png, txt")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with id and depth (dot, svg, png)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, store *graph.Store, root graph.NodeID, opts layoutFlags, frames int, format, output string, detailed bool) error {
	if frames <= 0 {
		return fmt.Errorf("--frames must be positive, got %d", frames)
	}
	e, err := opts.engine(store, root)
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	preview := raster.New(previewCols, previewCols*e.Size().H/e.Size().W/2, e.Size())
	prog := newProgress(logger)
	positions, err := render.Run(ctx, preview, e, store, render.RunOptions{MaxFrames: frames, Logger: logger})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Simulated %d frames, %d of %d authors visible", frames, len(positions), store.Len()))

	data, err := encodeLayout(ctx, format, store, e, positions, preview, detailed)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Layout written")
	printFile(output)
	return nil
}

// previewCols is the width of the text preview.
const previewCols = 120

func encodeLayout(ctx context.Context, format string, store *graph.Store, e *layout.Engine, positions map[graph.NodeID]layout.Point, preview *raster.Canvas, detailed bool) ([]byte, error) {
	switch format {
	case formatJSON:
		return json.MarshalIndent(newLayoutDocument(store, e, positions), "", "  ")
	case formatText:
		return []byte(preview.String() + "\n"), nil
	}

	dot := nodelink.ToDOT(store, positions, nodelink.Options{Size: e.Size(), Detailed: detailed})
	switch format {
	case formatDOT:
		return []byte(dot), nil
	case formatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case formatPNG:
		return nodelink.Render(ctx, dot, nodelink.FormatPNG)
	}
	return nil, fmt.Errorf("unknown format %q (want json, dot, svg, png or txt)", format)
}

// layoutDocument is the JSON export of a finished layout.
type layoutDocument struct {
	Width  int                 `json:"width"`
	Height int                 `json:"height"`
	Root   graph.NodeID        `json:"root"`
	Time   float64             `json:"t"`
	Nodes  []layoutDocumentPos `json:"nodes"`
}

type layoutDocumentPos struct {
	ID    graph.NodeID `json:"id"`
	Name  string       `json:"name"`
	Depth int          `json:"depth"`
	X     int          `json:"x"`
	Y     int          `json:"y"`
}

func newLayoutDocument(store *graph.Store, e *layout.Engine, positions map[graph.NodeID]layout.Point) layoutDocument {
	doc := layoutDocument{Width: e.Size().W, Height: e.Size().H, Root: e.Root(), Time: e.Time()}
	for _, id := range store.IDs() {
		p, ok := positions[id]
		if !ok {
			continue
		}
		n, _ := store.Node(id)
		depth, _ := store.Depth(id)
		doc.Nodes = append(doc.Nodes, layoutDocumentPos{ID: id, Name: n.Name, Depth: depth, X: p.X, Y: p.Y})
	}
	return doc
}
