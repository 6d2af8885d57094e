package nn

// NodeKind categorises a graph node.
type NodeKind string

// Node categories.
const (
	NodeInput  NodeKind = "input"
	NodeHidden NodeKind = "hidden"
	NodeOutput NodeKind = "output"
)

// Node is one neuron of the network graph.
type Node struct {
	ID    int      `json:"id"`
	Layer int      `json:"layer"` // 0 is the input layer
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Kind  NodeKind `json:"kind"`
}

// Edge is a directed connection between neurons of consecutive layers.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Graph is a read-only structural description of an MLP, meant for
// external renderers.
type Graph struct {
	Sizes []int  `json:"sizes"` // neurons per layer, input layer first
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Graph derives the network graph from the layer sequence.
//
// Node ids are assigned layer by layer starting at 0. Every node of layer
// l has an edge to every node of layer l+1. Node positions put layer l at
// x = l and centre each layer vertically against the widest one.
func (m *MLP) Graph() Graph {
	if len(m.layers) == 0 {
		return Graph{}
	}

	sizes := make([]int, 0, len(m.layers)+1)
	sizes = append(sizes, m.layers[0].InputDim())
	for _, l := range m.layers {
		sizes = append(sizes, l.OutputDim())
	}

	widest := 0
	for _, n := range sizes {
		widest = max(widest, n)
	}

	g := Graph{Sizes: sizes}
	start := make([]int, len(sizes))
	id := 0
	for layer, n := range sizes {
		start[layer] = id
		kind := NodeHidden
		switch layer {
		case 0:
			kind = NodeInput
		case len(sizes) - 1:
			kind = NodeOutput
		}
		for i := 0; i < n; i++ {
			g.Nodes = append(g.Nodes, Node{
				ID:    id,
				Layer: layer,
				X:     float64(layer),
				Y:     float64(i) + 0.5*float64(widest-n),
				Kind:  kind,
			})
			id++
		}
	}

	for layer := 0; layer < len(sizes)-1; layer++ {
		for from := start[layer]; from < start[layer]+sizes[layer]; from++ {
			for to := start[layer+1]; to < start[layer+1]+sizes[layer+1]; to++ {
				g.Edges = append(g.Edges, Edge{From: from, To: to})
			}
		}
	}
	return g
}
