package raster

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/authorsphere/pkg/layout"
	"github.com/matzehuels/authorsphere/pkg/render"
)

// Glyphs used for drawing.
const (
	NodeGlyph = '●'
	EdgeGlyph = '·'
	Blank     = ' '
)

type cell struct {
	r     rune
	color render.Color
}

// Canvas is a character grid that maps a world of World() pixels onto
// cols×rows cells. It implements [render.Canvas].
type Canvas struct {
	cols, rows int
	world      layout.Size

	color  render.Color
	bg     render.Color
	back   []cell
	front  []cell
	events []render.Event
}

var _ render.Canvas = (*Canvas)(nil)

// New creates a canvas of cols×rows cells showing a world of the given size.
func New(cols, rows int, world layout.Size) *Canvas {
	c := &Canvas{world: world, color: render.Black, bg: render.White}
	c.Resize(cols, rows)
	return c
}

// Resize changes the grid dimensions and blanks both buffers.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 1), max(rows, 1)
	c.back = make([]cell, c.cols*c.rows)
	c.front = make([]cell, c.cols*c.rows)
	c.fill(c.back)
	c.fill(c.front)
}

// Cols returns the grid width.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the grid height.
func (c *Canvas) Rows() int { return c.rows }

// World returns the size of the drawn world.
func (c *Canvas) World() layout.Size { return c.world }

func (c *Canvas) fill(buf []cell) {
	for i := range buf {
		buf[i] = cell{r: Blank, color: c.bg}
	}
}

// Clear blanks the back buffer with the current color as background.
func (c *Canvas) Clear() error {
	c.bg = c.color
	c.fill(c.back)
	return nil
}

// SetColor sets the color for subsequent draw calls.
func (c *Canvas) SetColor(col render.Color) error {
	c.color = col
	return nil
}

// DrawPoints marks every point's cell with a node glyph.
func (c *Canvas) DrawPoints(pts []layout.Point) error {
	for _, p := range pts {
		x, y := c.toGrid(p)
		c.set(x, y, NodeGlyph)
	}
	return nil
}

// DrawLines rasterizes each segment onto the grid. Cells already holding a
// node are left alone.
func (c *Canvas) DrawLines(segs []render.Segment) error {
	for _, s := range segs {
		x0, y0 := c.toGrid(s.From)
		x1, y1 := c.toGrid(s.To)
		line(x0, y0, x1, y1, func(x, y int) {
			if c.at(x, y).r != NodeGlyph {
				c.set(x, y, EdgeGlyph)
			}
		})
	}
	return nil
}

// Present makes the back buffer visible.
func (c *Canvas) Present() error {
	c.front, c.back = c.back, c.front
	return nil
}

// Push queues an input event for the next PollEvent.
func (c *Canvas) Push(ev render.Event) { c.events = append(c.events, ev) }

// PollEvent pops the oldest queued event.
func (c *Canvas) PollEvent() (render.Event, bool) {
	if len(c.events) == 0 {
		return render.Event{}, false
	}
	ev := c.events[0]
	c.events = c.events[1:]
	return ev, true
}

// Rune returns the visible glyph at column x, row y.
func (c *Canvas) Rune(x, y int) rune {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return Blank
	}
	return c.front[y*c.cols+x].r
}

// String returns the visible grid as plain text, one line per row.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.cols; x++ {
			b.WriteRune(c.front[y*c.cols+x].r)
		}
	}
	return b.String()
}

// Render returns the visible grid with colors applied through lipgloss.
// Runs of cells with the same colors share one style.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := c.front[y*c.cols : (y+1)*c.cols]
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && row[end].color == row[start].color {
				end++
			}
			var run strings.Builder
			for _, cl := range row[start:end] {
				run.WriteRune(cl.r)
			}
			b.WriteString(c.style(row[start].color).Render(run.String()))
			start = end
		}
	}
	return b.String()
}

func (c *Canvas) style(fg render.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg.Hex())).
		Background(lipgloss.Color(c.bg.Hex()))
}

func (c *Canvas) toGrid(p layout.Point) (int, int) {
	return scale(p.X, c.world.W, c.cols), scale(p.Y, c.world.H, c.rows)
}

// scale maps v in [0,span] onto [0,cells-1], clamping outliers.
func scale(v, span, cells int) int {
	if span <= 0 || cells <= 1 {
		return 0
	}
	i := (v*(cells-1) + span/2) / span
	return min(max(i, 0), cells-1)
}

func (c *Canvas) at(x, y int) cell {
	return c.back[y*c.cols+x]
}

func (c *Canvas) set(x, y int, r rune) {
	c.back[y*c.cols+x] = cell{r: r, color: c.color}
}

// line visits every cell on the segment using Bresenham's algorithm.
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
