package layout

import (
	"fmt"
	"testing"

	"github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/graph"
)

func star(n int) *graph.Store {
	s := graph.NewStore()
	root := graph.NewNode("root")
	for i := range n {
		id := graph.NodeID(fmt.Sprintf("n%d", i))
		root.AddEdge(id, i%3+1)
		leaf := graph.NewNode(string(id))
		leaf.AddEdge("root", i%3+1)
		if i > 0 {
			leaf.AddEdge(graph.NodeID(fmt.Sprintf("n%d", i-1)), 1)
		}
		s.AddNode(id, leaf, 1)
	}
	s.AddNode("root", root, 0)
	return s
}

func TestEngine_RootPinned(t *testing.T) {
	sizes := []Size{{1800, 900}, {640, 480}, {101, 57}}
	for _, size := range sizes {
		t.Run(fmt.Sprintf("%dx%d", size.W, size.H), func(t *testing.T) {
			e := New(star(12), size, "root", Config{Seed: 7})
			want := Point{size.W / 2, size.H / 2}
			for i := range 200 {
				pos := e.Step()
				if pos["root"] != want {
					t.Fatalf("step %d: root at %v, want %v", i, pos["root"], want)
				}
			}
		})
	}
}

func TestEngine_Containment(t *testing.T) {
	size := Size{300, 200}
	// Strong repulsion and no centering push nodes against the walls.
	cfg := Config{Seed: 3, RepelStrength: 50, CenterStrength: 1e-9}
	e := New(star(30), size, "root", cfg)
	for i := range 300 {
		for id, p := range e.Step() {
			if p.X < 0 || p.X > size.W || p.Y < 0 || p.Y > size.H {
				t.Fatalf("step %d: %s at %v outside %v", i, id, p, size)
			}
		}
	}
}

func TestEngine_SeedingRegion(t *testing.T) {
	size := Size{1800, 900}
	e := New(star(50), size, "root", Config{Seed: 11})
	e.seed()
	rx, ry := float64(size.W)/4, float64(size.H)/4
	for id, p := range e.pos {
		if p.x < 900-rx || p.x >= 900+rx || p.y < 450-ry || p.y >= 450+ry {
			t.Errorf("%s seeded at %v outside the central region", id, p)
		}
	}
	if e.pos["root"] != (vec{900, 450}) {
		t.Errorf("root seeded at %v", e.pos["root"])
	}
}

func TestEngine_DeterministicWithSeed(t *testing.T) {
	run := func() map[graph.NodeID]Point {
		e := New(star(10), Size{800, 600}, "root", Config{Seed: 42})
		var pos map[graph.NodeID]Point
		for range 50 {
			pos = e.Step()
		}
		return pos
	}
	a, b := run(), run()
	for id, p := range a {
		if b[id] != p {
			t.Errorf("%s: %v vs %v", id, p, b[id])
		}
	}
}

func TestEngine_ResetRestarts(t *testing.T) {
	e := New(star(8), Size{800, 600}, "root", Config{Seed: 5})
	first := e.Step()
	for range 10 {
		e.Step()
	}
	if e.Time() != 11 {
		t.Errorf("Time() = %v, want 11", e.Time())
	}

	e.Reset()
	if e.Time() != 0 {
		t.Errorf("Time() after Reset = %v", e.Time())
	}
	again := e.Step()
	for id, p := range first {
		if again[id] != p {
			t.Errorf("%s: first run %v, after reset %v", id, p, again[id])
		}
	}
}

func TestEngine_IsolatedNodesHidden(t *testing.T) {
	s := star(3)
	s.AddNode("loner", graph.NewNode("loner"), 1)
	// "ghost" points at a node that was never fetched.
	ghost := graph.NewNode("ghost")
	ghost.AddEdge("unfetched", 2)
	s.AddNode("ghost", ghost, 2)

	e := New(s, Size{400, 400}, "root", Config{Seed: 1})
	for range 5 {
		pos := e.Step()
		for _, id := range []graph.NodeID{"loner", "ghost", "unfetched"} {
			if _, ok := pos[id]; ok {
				t.Errorf("%s should be hidden", id)
			}
		}
		if len(pos) != 4 {
			t.Errorf("visible = %d, want 4", len(pos))
		}
	}
}

func TestEngine_IsolatedRootStays(t *testing.T) {
	s := graph.NewStore()
	s.AddNode("root", graph.NewNode("root"), 0)
	e := New(s, Size{100, 100}, "root", Config{Seed: 1})
	pos := e.Step()
	if len(pos) != 1 || pos["root"] != (Point{50, 50}) {
		t.Errorf("Step() = %v", pos)
	}
}

func TestEngine_EmptyStore(t *testing.T) {
	e := New(graph.NewStore(), Size{100, 100}, "root", Config{Seed: 1})
	if pos := e.Step(); len(pos) != 0 {
		t.Errorf("Step() on empty store = %v", pos)
	}
}

func TestEngine_InvalidSize(t *testing.T) {
	for _, size := range []Size{{0, 0}, {-5, 100}, {100, 0}, {MaxExtent + 1, 10}} {
		t.Run(fmt.Sprintf("%dx%d", size.W, size.H), func(t *testing.T) {
			if err := size.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Validate() = %v, want INVALID_INPUT", err)
			}
			e := New(star(4), size, "root", Config{Seed: 1})
			if pos := e.Step(); len(pos) != 0 {
				t.Errorf("Step() = %v, want no positions", pos)
			}
		})
	}
	if err := (Size{1, 1}).Validate(); err != nil {
		t.Errorf("1x1 should be valid: %v", err)
	}
}

func TestEngine_WeightsCachedPerEngine(t *testing.T) {
	s := star(3)
	e := New(s, Size{200, 200}, "root", Config{Seed: 2})
	before := e.weight("root", "n1")

	// Later changes to the store are not seen by an existing engine.
	n, _ := s.Node("root")
	n.AddEdge("n1", 10)
	if got := e.weight("root", "n1"); got != before {
		t.Errorf("weight(root,n1) = %v after store change, want %v", got, before)
	}
	if got := New(s, Size{200, 200}, "root", Config{Seed: 2}).weight("root", "n1"); got != before+10 {
		t.Errorf("new engine weight = %v, want %v", got, before+10)
	}
}

func TestEngine_SnapshotIndependence(t *testing.T) {
	e := New(star(6), Size{500, 500}, "root", Config{Seed: 9})
	pos := e.Step()
	before := e.Positions()

	// Mutating the returned map must not leak into the engine.
	for id := range pos {
		pos[id] = Point{-1, -1}
	}
	after := e.Positions()
	for id, p := range before {
		if after[id] != p {
			t.Errorf("%s changed from %v to %v", id, p, after[id])
		}
	}
}

func TestWeightSymmetry(t *testing.T) {
	s := graph.NewStore()
	a := graph.NewNode("a")
	a.AddEdge("b", 3)
	b := graph.NewNode("b")
	b.AddEdge("a", 1)
	s.AddNode("a", a, 0)
	s.AddNode("b", b, 1)

	tests := []struct {
		sym    Symmetry
		ab, ba float64
	}{
		{SymmetryDirected, 3, 1},
		{SymmetryMax, 3, 3},
		{SymmetrySum, 4, 4},
	}
	s.AddNode("c", graph.NewNode("c"), 1)
	one := graph.NewNode("d")
	one.AddEdge("c", 2)
	s.AddNode("d", one, 1)
	for _, tt := range tests {
		t.Run(string(tt.sym), func(t *testing.T) {
			e := New(s, Size{10, 10}, "a", Config{Symmetry: tt.sym, Seed: 1})
			if got := e.weight("a", "b"); got != tt.ab {
				t.Errorf("weight(a,b) = %v, want %v", got, tt.ab)
			}
			if got := e.weight("b", "a"); got != tt.ba {
				t.Errorf("weight(b,a) = %v, want %v", got, tt.ba)
			}
			// c has no edge to d, so only the symmetric modes see one.
			want := 2.0
			if tt.sym == SymmetryDirected {
				want = 0
			}
			if got := e.weight("c", "d"); got != want {
				t.Errorf("weight(c,d) = %v, want %v", got, want)
			}
		})
	}
}

func TestParseSymmetry(t *testing.T) {
	for in, want := range map[string]Symmetry{"": SymmetryDirected, "MAX": SymmetryMax, " sum ": SymmetrySum} {
		if got, err := ParseSymmetry(in); err != nil || got != want {
			t.Errorf("ParseSymmetry(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseSymmetry("mean"); err == nil {
		t.Error("ParseSymmetry(mean) should fail")
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{RepelPower: 2}.WithDefaults()
	if cfg.RepelPower != 2 || cfg.Spread != 4 || cfg.SofteningTime != 1000 {
		t.Errorf("WithDefaults() = %+v", cfg)
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
	bad := DefaultConfig()
	bad.DampingSpread = 1
	if bad.Validate() == nil {
		t.Error("damping spread 1 should be rejected")
	}
}
