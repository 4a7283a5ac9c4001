// Package raster implements a [render.Canvas] on a character grid.
//
// World coordinates are scaled onto cols×rows cells. Nodes are drawn as
// filled circles and edges as dotted lines. The grid is double-buffered:
// nothing drawn becomes visible until Present. The terminal viewer shows
// [Canvas.Render] and feeds key presses in with [Canvas.Push].
package raster
