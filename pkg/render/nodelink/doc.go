// Package nodelink exports a finished layout as a Graphviz node-link diagram.
//
// # Usage
//
// Convert the final positions to DOT, then render:
//
//	dot := nodelink.ToDOT(store, positions, nodelink.Options{Size: size})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Every node carries a pinned pos attribute, so rendering with the neato
// engine reproduces the force layout instead of computing a new one. Edges
// are undirected; pen width grows with the larger of the two directed
// weights.
//
// # DOT Format
//
// The [ToDOT] output can be rendered via [Render] or saved and processed
// with external Graphviz tools (neato -n2).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering.
package nodelink
