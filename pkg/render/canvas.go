package render

import (
	"fmt"

	"github.com/matzehuels/authorsphere/pkg/layout"
)

// Color is an 8-bit RGBA color.
type Color struct{ R, G, B, A uint8 }

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Common colors.
var (
	White = Color{255, 255, 255, 255}
	Black = Color{0, 0, 0, 255}
)

// Segment is a straight line between two canvas points.
type Segment struct{ From, To layout.Point }

// EventKind classifies input events.
type EventKind int

const (
	EventNone EventKind = iota
	EventQuit           // Close the window / leave the viewer
	EventKey            // Any other key press; Key holds its name
)

// Event is one input event delivered by a canvas.
type Event struct {
	Kind EventKind
	Key  string
}

// Canvas is a drawing surface driven by the frame loop.
//
// Draw calls go to a back buffer that becomes visible on Present. Any error
// from a draw call is fatal to the run.
type Canvas interface {
	Clear() error
	SetColor(Color) error
	DrawPoints([]layout.Point) error
	DrawLines([]Segment) error
	// PollEvent returns the next queued event without blocking.
	PollEvent() (Event, bool)
	Present() error
}
