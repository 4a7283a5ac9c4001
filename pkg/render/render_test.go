package render

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/layout"
	"github.com/matzehuels/authorsphere/pkg/observability"
)

type fakeCanvas struct {
	calls    []string
	colors   []Color
	lines    [][]Segment
	points   [][]layout.Point
	events   []Event
	failOn   string
	presents int
}

func (f *fakeCanvas) record(op string) error {
	f.calls = append(f.calls, op)
	if op == f.failOn {
		return stderrors.New("boom")
	}
	return nil
}

func (f *fakeCanvas) Clear() error { return f.record("clear") }

func (f *fakeCanvas) SetColor(c Color) error {
	f.colors = append(f.colors, c)
	return f.record("color")
}

func (f *fakeCanvas) DrawPoints(p []layout.Point) error {
	f.points = append(f.points, p)
	return f.record("points")
}

func (f *fakeCanvas) DrawLines(s []Segment) error {
	f.lines = append(f.lines, s)
	return f.record("lines")
}

func (f *fakeCanvas) PollEvent() (Event, bool) {
	if len(f.events) == 0 {
		return Event{}, false
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, true
}

func (f *fakeCanvas) Present() error {
	f.presents++
	return f.record("present")
}

// triangle returns R-A-B with edges R<->A, A<->B and a one-sided R->B.
func triangle() *graph.Store {
	s := graph.NewStore()
	r := graph.NewNode("Root")
	r.AddEdge("A", 2)
	r.AddEdge("B", 1)
	a := graph.NewNode("Alice")
	a.AddEdge("R", 2)
	a.AddEdge("B", 1)
	b := graph.NewNode("Bob")
	b.AddEdge("A", 1)
	s.AddNode("R", r, 0)
	s.AddNode("A", a, 1)
	s.AddNode("B", b, 1)
	return s
}

func TestSegments(t *testing.T) {
	store := triangle()
	pos := map[graph.NodeID]layout.Point{
		"R": {X: 0, Y: 0},
		"A": {X: 10, Y: 0},
	}
	got := Segments(store, pos)
	want := []Segment{
		{From: pos["A"], To: pos["R"]},
		{From: pos["R"], To: pos["A"]},
	}
	if len(got) != len(want) {
		t.Fatalf("segments = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	pos["B"] = layout.Point{X: 5, Y: 5}
	if n := len(Segments(store, pos)); n != 5 {
		t.Errorf("with all visible got %d segments, want one per directed edge (5)", n)
	}
}

func TestDrawFrame_Order(t *testing.T) {
	c := &fakeCanvas{}
	style := Style{Background: White, Edge: Color{1, 2, 3, 255}, Node: Color{4, 5, 6, 255}}
	pos := map[graph.NodeID]layout.Point{"R": {X: 1, Y: 1}}

	if err := DrawFrame(c, triangle(), pos, style); err != nil {
		t.Fatalf("DrawFrame: %v", err)
	}
	want := []string{"color", "clear", "color", "lines", "color", "points", "present"}
	if len(c.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", c.calls, want)
	}
	for i := range want {
		if c.calls[i] != want[i] {
			t.Errorf("call[%d] = %s, want %s", i, c.calls[i], want[i])
		}
	}
	if c.colors[0] != style.Background || c.colors[1] != style.Edge || c.colors[2] != style.Node {
		t.Errorf("colors = %v", c.colors)
	}
}

func TestDrawFrame_FailureIsRenderFailed(t *testing.T) {
	for _, op := range []string{"clear", "lines", "points", "present"} {
		t.Run(op, func(t *testing.T) {
			c := &fakeCanvas{failOn: op}
			err := DrawFrame(c, triangle(), nil, DefaultStyle())
			if !errors.Is(err, errors.ErrCodeRenderFailed) {
				t.Fatalf("err = %v, want RENDER_FAILED", err)
			}
		})
	}
}

func newEngine(store *graph.Store) *layout.Engine {
	cfg := layout.DefaultConfig()
	cfg.Seed = 7
	return layout.New(store, layout.Size{W: 400, H: 200}, "R", cfg)
}

func TestRun_MaxFrames(t *testing.T) {
	store := triangle()
	c := &fakeCanvas{}
	last, err := Run(context.Background(), c, newEngine(store), store, RunOptions{MaxFrames: 4})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.presents != 4 {
		t.Errorf("presents = %d, want 4", c.presents)
	}
	if got := last["R"]; got != (layout.Point{X: 200, Y: 100}) {
		t.Errorf("root at %v, want center", got)
	}
}

func TestRun_QuitEvent(t *testing.T) {
	store := triangle()
	c := &fakeCanvas{events: []Event{{Kind: EventKey, Key: "x"}, {Kind: EventQuit}}}
	e := newEngine(store)
	last, err := Run(context.Background(), c, e, store, RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if last != nil || c.presents != 0 {
		t.Errorf("quit before first frame drew %d frames", c.presents)
	}
	if e.Time() != 0 {
		t.Errorf("engine advanced to t=%v after quit", e.Time())
	}
}

func TestRun_DrawFailureIsFatal(t *testing.T) {
	store := triangle()
	c := &fakeCanvas{failOn: "present"}
	_, err := Run(context.Background(), c, newEngine(store), store, RunOptions{MaxFrames: 10})
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Fatalf("err = %v, want RENDER_FAILED", err)
	}
	if c.presents != 1 {
		t.Errorf("presents = %d, want 1", c.presents)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	store := triangle()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, &fakeCanvas{}, newEngine(store), store, RunOptions{})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

type frameCounter struct {
	observability.NoopLayoutHooks
	frames  int
	visible int
}

func (f *frameCounter) OnFrame(_ context.Context, visible int, _ time.Duration) {
	f.frames++
	f.visible = visible
}

func TestRun_FrameHooks(t *testing.T) {
	hooks := &frameCounter{}
	observability.SetLayoutHooks(hooks)
	t.Cleanup(observability.Reset)

	store := triangle()
	if _, err := Run(context.Background(), &fakeCanvas{}, newEngine(store), store, RunOptions{MaxFrames: 3}); err != nil {
		t.Fatal(err)
	}
	if hooks.frames != 3 {
		t.Errorf("frames = %d, want 3", hooks.frames)
	}
	if hooks.visible != 3 {
		t.Errorf("visible = %d, want 3", hooks.visible)
	}
}

func TestColorHex(t *testing.T) {
	if got := (Color{255, 16, 0, 255}).Hex(); got != "#ff1000" {
		t.Errorf("Hex = %s", got)
	}
}
