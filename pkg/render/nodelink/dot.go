package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/layout"
)

// Options configures DOT export.
type Options struct {
	// Size is the layout canvas. Y coordinates are flipped against its
	// height because Graphviz puts the origin bottom-left.
	Size layout.Size

	// Detailed adds the identifier and depth below each name.
	Detailed bool
}

// ToDOT converts positioned nodes to an undirected Graphviz graph with every
// node pinned at its layout position. Nodes without a position are left out.
//
// The two directed weights of a pair become one edge whose pen width grows
// with the larger weight.
func ToDOT(store *graph.Store, positions map[graph.NodeID]layout.Point, opts Options) string {
	ids := make([]graph.NodeID, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=black, fontcolor=black, fontsize=10, width=0.12, fixedsize=true, labelloc=b];\n")
	buf.WriteString("  edge [color=\"#00000080\"];\n")
	buf.WriteString("\n")

	for _, id := range ids {
		p := positions[id]
		attrs := []string{
			fmt.Sprintf("xlabel=%q", fmtLabel(store, id, opts.Detailed)),
			"label=\"\"",
			fmt.Sprintf("pos=\"%d,%d!\"", p.X, opts.Size.H-p.Y),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", string(id), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range pairs(store, ids) {
		fmt.Fprintf(&buf, "  %q -- %q [penwidth=%s];\n", string(e.a), string(e.b), penwidth(e.w))
	}

	buf.WriteString("}\n")
	return buf.String()
}

type pair struct {
	a, b graph.NodeID
	w    int
}

// pairs returns one entry per unordered pair of positioned nodes with an
// edge in either direction, carrying the larger of the two weights.
func pairs(store *graph.Store, ids []graph.NodeID) []pair {
	var out []pair
	for i, a := range ids {
		na, _ := store.Node(a)
		for _, b := range ids[i+1:] {
			nb, _ := store.Node(b)
			w := max(weight(na, b), weight(nb, a))
			if w > 0 {
				out = append(out, pair{a, b, w})
			}
		}
	}
	return out
}

func weight(n *graph.Node, id graph.NodeID) int {
	if n == nil {
		return 0
	}
	return n.Weight(id)
}

func penwidth(w int) string {
	return strconv.FormatFloat(math.Min(1+math.Log2(float64(w)), 6), 'f', 2, 64)
}

func fmtLabel(store *graph.Store, id graph.NodeID, detailed bool) string {
	name := string(id)
	if n, ok := store.Node(id); ok && n.Name != "" {
		name = n.Name
	}
	if !detailed {
		return name
	}
	depth, _ := store.Depth(id)
	return fmt.Sprintf("%s\n%s\ndepth: %d", name, id, depth)
}

// Format is a Graphviz output format supported by [Render].
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// RenderSVG renders a DOT graph to SVG, keeping the pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := Render(ctx, dot, FormatSVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// Render renders a DOT graph with the neato engine, which honors the
// pinned node positions. Failures are reported as RENDER_FAILED.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported render format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
