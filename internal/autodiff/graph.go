// Package autodiff implements reverse-mode automatic differentiation over a
// dynamically built graph of two-dimensional arrays.
//
// Architecture:
//   - Graph: an arena of nodes addressed by stable integer NodeIDs
//   - Node: forward value, ordered parent ids, producing operator, gradient
//   - ops.Kind: closed set of operators, each with a forward and backward rule
//   - Backward: recursive depth-first propagation from an output node
//
// Usage:
//
//	g := autodiff.NewGraph()
//	x, _ := g.Leaf(3.5, "x")
//	twoX, _ := g.Mul(2.0, x)
//	arg, _ := g.Add(twoX, 0.5)
//	z, _ := g.Sin(arg)
//	_ = g.Backward(z, nil)
//	grad, _ := g.Grad(x) // 2·cos(7.5)
//
// A Graph is not safe for concurrent use.
package autodiff

import (
	"fmt"

	"github.com/born-ml/gradflow/internal/autodiff/ops"
	"github.com/born-ml/gradflow/internal/names"
	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrUnknownNode = errors.New("unknown node")
	ErrNotScalar   = tensor.ErrNotScalar
	ErrArity       = ops.ErrArity
)

// NodeID addresses a node inside its Graph.
type NodeID int

// InvalidNode is returned alongside errors.
const InvalidNode NodeID = -1

// node is one value in the computation graph.
//
// Parents always have smaller ids than the node itself, which keeps the
// graph acyclic by construction.
type node struct {
	values       *tensor.Array
	grad         *tensor.Array // running sum of delivered gradients, nil until the first delivery
	parents      []NodeID
	op           ops.Kind
	requiresGrad bool
	label        string
}

// NodeConfig holds the optional fields of a new node.
type NodeConfig struct {
	Name    string   // Diagnostic label
	NoGrad  bool     // Stop backward propagation at this node
	Parents []NodeID // Nodes this one was computed from, in operand order
	Op      ops.Kind // Producing operator (ops.None for leaves)
}

// Graph owns every node of one computation and the registry that labels them.
type Graph struct {
	nodes []node
	names *names.Registry
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make([]node, 0, 64),
		names: names.NewRegistry(),
	}
}

// NewNode adds a node holding value, which may be anything tensor.From
// accepts.
//
// When cfg.Op is set, cfg.Parents must match the operator's arity and value
// must have the shape the operator would produce from the parents.
func (g *Graph) NewNode(value any, cfg NodeConfig) (NodeID, error) {
	arr, err := ownedArray(value)
	if err != nil {
		return InvalidNode, errors.Wrap(err, "new node")
	}
	for _, p := range cfg.Parents {
		if !g.has(p) {
			return InvalidNode, errors.Wrapf(ErrUnknownNode, "new node: parent %d", p)
		}
	}
	if cfg.Op != ops.None {
		shape, err := ops.OutputShape(cfg.Op, g.shapes(cfg.Parents)...)
		if err != nil {
			return InvalidNode, errors.Wrap(err, "new node")
		}
		if shape != arr.Shape() {
			return InvalidNode, errors.Wrapf(tensor.ErrShapeMismatch,
				"new node: %s of parents gives %s, value is %s", cfg.Op, shape, arr.Shape())
		}
	}
	parents := make([]NodeID, len(cfg.Parents))
	copy(parents, cfg.Parents)
	return g.push(node{
		values:       arr,
		parents:      parents,
		op:           cfg.Op,
		requiresGrad: !cfg.NoGrad,
		label:        cfg.Name,
	}), nil
}

// Leaf adds a trainable input node.
func (g *Graph) Leaf(value any, name string) (NodeID, error) {
	return g.NewNode(value, NodeConfig{Name: name})
}

// Const adds a node that never receives gradients.
func (g *Graph) Const(value any) (NodeID, error) {
	return g.NewNode(value, NodeConfig{Name: g.names.Next("const"), NoGrad: true})
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Values returns the forward value of a node, or nil for unknown ids.
// The returned array is shared with the graph and must not be modified;
// use SetValues instead.
func (g *Graph) Values(id NodeID) *tensor.Array {
	if !g.has(id) {
		return nil
	}
	return g.nodes[id].values
}

// Item returns the value of a 1×1 node.
func (g *Graph) Item(id NodeID) (float64, error) {
	if !g.has(id) {
		return 0, errors.Wrapf(ErrUnknownNode, "item: %d", id)
	}
	return g.nodes[id].values.Item()
}

// Grad returns the accumulated gradient of a node. The second result is
// false when no gradient has been delivered (or the id is unknown).
// The returned array is shared with the graph and must not be modified.
func (g *Graph) Grad(id NodeID) (*tensor.Array, bool) {
	if !g.has(id) || g.nodes[id].grad == nil {
		return nil, false
	}
	return g.nodes[id].grad, true
}

// Parents returns a copy of a node's parent ids.
func (g *Graph) Parents(id NodeID) []NodeID {
	if !g.has(id) {
		return nil
	}
	out := make([]NodeID, len(g.nodes[id].parents))
	copy(out, g.nodes[id].parents)
	return out
}

// Op returns the producing operator of a node (ops.None for leaves).
func (g *Graph) Op(id NodeID) ops.Kind {
	if !g.has(id) {
		return ops.None
	}
	return g.nodes[id].op
}

// RequiresGrad reports whether backward propagation passes through a node.
func (g *Graph) RequiresGrad(id NodeID) bool {
	return g.has(id) && g.nodes[id].requiresGrad
}

// Label returns a node's diagnostic label.
func (g *Graph) Label(id NodeID) string {
	if !g.has(id) {
		return ""
	}
	return g.nodes[id].label
}

// Describe renders a node as "label = op(parent labels) shape" for tracing.
func (g *Graph) Describe(id NodeID) string {
	if !g.has(id) {
		return fmt.Sprintf("<unknown node %d>", id)
	}
	n := &g.nodes[id]
	name := n.label
	if name == "" {
		name = fmt.Sprintf("#%d", id)
	}
	if n.op == ops.None {
		return fmt.Sprintf("%s %s", name, n.values.Shape())
	}
	args := ""
	for i, p := range n.parents {
		if i > 0 {
			args += ", "
		}
		args += g.Label(p)
	}
	return fmt.Sprintf("%s = %s(%s) %s", name, n.op, args, n.values.Shape())
}

// ownedArray converts value with tensor.From. Arrays passed in by the caller
// are copied so that later changes on the caller's side cannot reach the graph.
func ownedArray(value any) (*tensor.Array, error) {
	arr, err := tensor.From(value)
	if err != nil {
		return nil, err
	}
	if _, shared := value.(*tensor.Array); shared {
		arr = arr.Clone()
	}
	return arr, nil
}

func (g *Graph) has(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

func (g *Graph) push(n node) NodeID {
	g.nodes = append(g.nodes, n)
	return NodeID(len(g.nodes) - 1)
}

func (g *Graph) shapes(ids []NodeID) []tensor.Shape {
	out := make([]tensor.Shape, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id].values.Shape()
	}
	return out
}

func (g *Graph) values(ids []NodeID) []*tensor.Array {
	out := make([]*tensor.Array, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id].values
	}
	return out
}
