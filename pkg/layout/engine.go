package layout

import (
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/graph"
)

// Point is a position on the canvas in pixels.
type Point struct{ X, Y int }

// Size is the canvas size in pixels.
type Size struct{ W, H int }

// MaxExtent bounds each canvas dimension.
const MaxExtent = 1 << 16

// Validate reports a canvas the simulation cannot run on. Both dimensions
// must lie in [1, MaxExtent].
func (s Size) Validate() error {
	if err := errors.ValidateRange("canvas width", s.W, 1, MaxExtent); err != nil {
		return err
	}
	return errors.ValidateRange("canvas height", s.H, 1, MaxExtent)
}

type vec struct{ x, y float64 }

// Engine runs the force simulation for one graph on a fixed canvas.
//
// The engine starts uninitialized. The first [Engine.Step] scatters every
// fetched node around the center and pins the root there; every later step
// advances the simulation by one frame. Each frame is computed from the
// previous frame only, so the result does not depend on iteration order.
//
// Engine only reads the store and is not safe for concurrent use.
type Engine struct {
	store *graph.Store
	size  Size
	root  graph.NodeID
	cfg   Config

	// weights holds the positive pair weights under cfg.Symmetry. The store
	// does not change during the engine's lifetime, so it is built once.
	weights map[graph.NodeID]map[graph.NodeID]float64

	rng *rand.Rand
	t   float64
	pos map[graph.NodeID]vec // nil until the first Step
}

// New creates an engine. Zero fields of cfg take their defaults.
//
// The store must not be modified while the engine is in use. A size that
// fails [Size.Validate] yields an engine whose steps produce no positions.
func New(store *graph.Store, size Size, root graph.NodeID, cfg Config) *Engine {
	e := &Engine{store: store, size: size, root: root, cfg: cfg.WithDefaults()}
	e.weights = e.pairWeights()
	e.Reset()
	return e
}

// Reset returns the engine to its uninitialized state. With a fixed seed,
// the next run repeats the previous one exactly.
func (e *Engine) Reset() {
	seed := e.cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	e.t = 0
	e.pos = nil
}

// Time returns the elapsed simulation time.
func (e *Engine) Time() float64 { return e.t }

// Size returns the canvas size.
func (e *Engine) Size() Size { return e.size }

// Root returns the pinned node.
func (e *Engine) Root() graph.NodeID { return e.root }

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Step advances the simulation by one frame and returns the positions of
// all visible nodes. The returned map is owned by the caller.
func (e *Engine) Step() map[graph.NodeID]Point {
	if e.size.Validate() != nil {
		return map[graph.NodeID]Point{}
	}
	if e.pos == nil {
		e.seed()
	}
	e.advance()
	return e.Positions()
}

// Positions returns the current positions without advancing.
func (e *Engine) Positions() map[graph.NodeID]Point {
	out := make(map[graph.NodeID]Point, len(e.pos))
	for id, p := range e.pos {
		out[id] = Point{X: int(math.Round(p.x)), Y: int(math.Round(p.y))}
	}
	return out
}

func (e *Engine) center() vec {
	return vec{float64(e.size.W / 2), float64(e.size.H / 2)}
}

// seed scatters every fetched node uniformly around the center.
func (e *Engine) seed() {
	c := e.center()
	rx := float64(e.size.W) / e.cfg.Spread
	ry := float64(e.size.H) / e.cfg.Spread

	e.pos = make(map[graph.NodeID]vec, e.store.Len())
	for _, id := range e.store.IDs() {
		e.pos[id] = vec{
			x: c.x - rx + 2*rx*e.rng.Float64(),
			y: c.y - ry + 2*ry*e.rng.Float64(),
		}
	}
	if _, ok := e.store.Node(e.root); ok {
		e.pos[e.root] = c
	}
}

// weight returns the edge weight between a and b under the configured symmetry.
func (e *Engine) weight(a, b graph.NodeID) float64 {
	return e.weights[a][b]
}

// pairWeights tabulates every positive weight under the configured symmetry.
func (e *Engine) pairWeights() map[graph.NodeID]map[graph.NodeID]float64 {
	out := make(map[graph.NodeID]map[graph.NodeID]float64, e.store.Len())
	set := func(a, b graph.NodeID) {
		w := e.edgeWeight(a, b)
		if w <= 0 || a == b {
			return
		}
		if out[a] == nil {
			out[a] = make(map[graph.NodeID]float64)
		}
		out[a][b] = w
	}
	for _, a := range e.store.IDs() {
		na, _ := e.store.Node(a)
		for b := range na.Edges {
			set(a, b)
			if e.cfg.Symmetry != SymmetryDirected {
				set(b, a)
			}
		}
	}
	return out
}

func (e *Engine) edgeWeight(a, b graph.NodeID) float64 {
	na, _ := e.store.Node(a)
	ab := na.Weight(b)
	if e.cfg.Symmetry == SymmetryDirected {
		return float64(ab)
	}
	nb, _ := e.store.Node(b)
	ba := nb.Weight(a)
	if e.cfg.Symmetry == SymmetrySum {
		return float64(ab + ba)
	}
	return float64(max(ab, ba))
}

func (e *Engine) advance() {
	cfg := e.cfg
	prev := e.pos
	ids := slices.Sorted(maps.Keys(prev))

	e.t += cfg.Step
	soft := math.Exp(-e.t / cfg.SofteningTime)
	damp := 1 - cfg.DampingSpread*math.Pow(soft, cfg.DampingPower)
	scale := cfg.Step / damp
	noise := cfg.Jitter * soft / math.Sqrt(damp)

	w, h := float64(e.size.W), float64(e.size.H)
	diag := math.Hypot(w, h)
	c := e.center()

	// Visible-neighbor counts from the previous frame. Nodes without any
	// disappear for good; the root always stays.
	degree := make(map[graph.NodeID]int, len(ids))
	visible := make([]graph.NodeID, 0, len(ids))
	for _, a := range ids {
		k := 0
		for b := range e.weights[a] {
			if _, ok := prev[b]; ok {
				k++
			}
		}
		if k > 0 || a == e.root {
			degree[a] = k
			visible = append(visible, a)
		}
	}

	crowd := cfg.RepelStrength / math.Pow(cfg.RepelCrowd*float64(max(len(visible), 1)), cfg.RepelCrowdPower)
	attractDamp := 1 - cfg.AttractSoftening*soft*soft

	next := make(map[graph.NodeID]vec, len(visible))
	for _, a := range visible {
		pa := prev[a]
		k := float64(degree[a])
		sat := k * cfg.Saturation / (cfg.Saturation + k)

		var d vec
		for _, b := range visible {
			if a == b {
				continue
			}
			x := vec{prev[b].x - pa.x, prev[b].y - pa.y}
			dist := math.Hypot(x.x, x.y)
			if dist == 0 {
				continue
			}
			rel := dist / diag
			wab := e.weight(a, b)

			shield := 1.0
			if wab == 0 {
				shield = 1 - soft
			}
			f := -crowd * sat * shield / math.Pow(rel, cfg.RepelPower)
			if wab > 0 && k > 0 {
				strength := cfg.AttractStrength * math.Pow(wab, cfg.AttractWeightPower) /
					(math.Pow(k, cfg.AttractWeightPower) * attractDamp)
				f += strength * math.Pow(rel, cfg.AttractPower) / diag
			}
			d.x += scale * f * x.x
			d.y += scale * f * x.y
		}

		p := vec{
			x: pa.x + d.x + (e.rng.Float64()-0.5)*noise,
			y: pa.y + d.y + (e.rng.Float64()-0.5)*noise,
		}
		p.x -= scale * cfg.CenterStrength * (p.x - c.x) * math.Pow(math.Abs(p.x-c.x)/w, cfg.CenterPower)
		p.y -= scale * cfg.CenterStrength * (p.y - c.y) * math.Pow(math.Abs(p.y-c.y)/h, cfg.CenterPower)
		p.x = clamp(p.x, 0, w)
		p.y = clamp(p.y, 0, h)
		next[a] = p
	}

	if _, ok := e.store.Node(e.root); ok {
		next[e.root] = c
	}
	e.pos = next
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return (lo + hi) / 2
	}
	return math.Min(math.Max(v, lo), hi)
}
