// Package render draws laid-out graphs.
//
// # Overview
//
// The frame loop is written against the [Canvas] interface:
//
//	e := layout.New(store, size, root, layout.DefaultConfig())
//	last, err := render.Run(ctx, canvas, e, store, render.RunOptions{})
//
// Each frame drains input events, advances the layout engine by one step and
// draws background, edges and nodes before presenting. A quit event ends the
// loop; any draw failure ends it with a RENDER_FAILED error.
//
// Implementations:
//
//   - [raster]: an in-memory character grid, shown by the terminal viewer
//   - [nodelink]: not a canvas; exports final positions as DOT or SVG
//
// [raster]: github.com/matzehuels/authorsphere/pkg/render/raster
// [nodelink]: github.com/matzehuels/authorsphere/pkg/render/nodelink
package render
