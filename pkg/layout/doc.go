// Package layout computes 2D positions for a co-authorship graph with an
// annealed force simulation.
//
// # Model
//
// Every frame, each visible node feels:
//
//   - repulsion from every other visible node, falling off with
//     (distance/diagonal)^2.8 and weakened as the population grows
//   - attraction towards co-authors, growing with shared-record weight
//     relative to the node's visible degree
//   - a pull towards the canvas center
//   - random jitter
//
// Two annealing factors shape the run. Softening decays as exp(-t/1000) and
// scales noise and the early relaxation of repulsion between strangers.
// Damping rises from 0.1 towards 1, so early frames take large steps and
// later frames settle.
//
// The root is pinned to the canvas center. Nodes without any visible
// co-author are hidden. All positions stay inside the canvas.
//
// # Usage
//
//	e := layout.New(store, layout.Size{W: 1800, H: 900}, root, layout.DefaultConfig())
//	for range 600 {
//	    positions := e.Step()
//	    draw(positions)
//	}
//
// Runs are reproducible with a fixed [Config.Seed].
package layout
