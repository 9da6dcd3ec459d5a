package autodiff

// Mark is a position in the graph's node arena, taken with Graph.Mark.
//
// Nodes are appended in creation order, so the arena doubles as a tape of
// the forward pass. A training loop creates its parameters once, takes a
// Mark, and releases everything after it at the end of every step:
//
//	params := ...            // leaves, created once
//	mark := g.Mark()
//	for step := range steps {
//	    loss := forward(g, params)
//	    g.Backward(loss, nil)
//	    optimizer.Step()
//	    g.Release(mark)      // drop this step's intermediate nodes
//	}
type Mark int

// Mark returns the current end of the arena.
func (g *Graph) Mark() Mark {
	return Mark(len(g.nodes))
}

// Release drops every node created after m.
//
// No node created before m can reference a later node, so the surviving part
// of the graph stays consistent. Ids of released nodes become invalid and
// may be handed out again. Gradients accumulated on surviving nodes are kept.
func (g *Graph) Release(m Mark) {
	if m < 0 || int(m) >= len(g.nodes) {
		return
	}
	clear(g.nodes[m:])
	g.nodes = g.nodes[:m]
}

// Reset removes every node and restarts diagnostic labels from zero.
// Afterwards the graph behaves like one returned by NewGraph.
func (g *Graph) Reset() {
	clear(g.nodes)
	g.nodes = g.nodes[:0]
	g.names.Reset()
}
