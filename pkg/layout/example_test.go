package layout_test

import (
	"fmt"

	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/layout"
)

func ExampleEngine_Step() {
	s := graph.NewStore()
	root := graph.NewNode("Stephen W. Hawking")
	root.AddEdge("987332", 3)
	peer := graph.NewNode("Thomas Hertog")
	peer.AddEdge("1006450", 3)
	s.AddNode("1006450", root, 0)
	s.AddNode("987332", peer, 1)

	e := layout.New(s, layout.Size{W: 1800, H: 900}, "1006450", layout.Config{Seed: 1})
	var pos map[graph.NodeID]layout.Point
	for range 100 {
		pos = e.Step()
	}
	fmt.Println("root:", pos["1006450"])
	fmt.Println("visible:", len(pos))
	// Output:
	// root: {900 450}
	// visible: 2
}
