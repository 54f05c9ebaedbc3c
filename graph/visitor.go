package graph

import (
	"github.com/lanternml/lantern/types"
)

// Visitor dispatches on node kinds with pre/post hooks and handler chaining.
//
// For each node the dispatch tries, in order: the per-kind handler, the group
// handler (Storage for Variable/Placeholder, Operator for everything else)
// and finally Default. Users fill in only the handlers they care about; a
// kind handler can chain up explicitly with VisitStorage / VisitOperator.
// The kind set is closed, so dispatching a node with an unlisted kind fails
// with ErrUnknownKind.
type Visitor struct {
	// Pre and Post hooks run before and after the kind handler of each
	// visited node.
	Pre  func(n *Node)
	Post func(n *Node)

	// Per-kind handlers.
	Variable                   func(v *Visitor, n *Node)
	Placeholder                func(v *Visitor, n *Node)
	Convolution                func(v *Visitor, n *Node)
	Pool                       func(v *Visitor, n *Node)
	FullyConnected             func(v *Visitor, n *Node)
	Relu                       func(v *Visitor, n *Node)
	Sigmoid                    func(v *Visitor, n *Node)
	Tanh                       func(v *Visitor, n *Node)
	SoftMax                    func(v *Visitor, n *Node)
	Regression                 func(v *Visitor, n *Node)
	Transpose                  func(v *Visitor, n *Node)
	Reshape                    func(v *Visitor, n *Node)
	Concat                     func(v *Visitor, n *Node)
	BatchNormalization         func(v *Visitor, n *Node)
	LocalResponseNormalization func(v *Visitor, n *Node)
	Arithmetic                 func(v *Visitor, n *Node)

	// Group handlers, used when the per-kind handler is nil.
	Storage  func(v *Visitor, n *Node)
	Operator func(v *Visitor, n *Node)

	// Default handler, used when both the per-kind and group handlers are nil.
	Default func(v *Visitor, n *Node)
}

// Visit dispatches one node through the visitor.
func (v *Visitor) Visit(n *Node) {
	n.AssertValid()
	if v.Pre != nil {
		v.Pre(n)
	}
	switch n.kind {
	case KindVariable:
		v.dispatch(v.Variable, v.Storage, n)
	case KindPlaceholder:
		v.dispatch(v.Placeholder, v.Storage, n)
	case KindConvolution:
		v.dispatch(v.Convolution, v.Operator, n)
	case KindPool:
		v.dispatch(v.Pool, v.Operator, n)
	case KindFullyConnected:
		v.dispatch(v.FullyConnected, v.Operator, n)
	case KindRelu:
		v.dispatch(v.Relu, v.Operator, n)
	case KindSigmoid:
		v.dispatch(v.Sigmoid, v.Operator, n)
	case KindTanh:
		v.dispatch(v.Tanh, v.Operator, n)
	case KindSoftMax:
		v.dispatch(v.SoftMax, v.Operator, n)
	case KindRegression:
		v.dispatch(v.Regression, v.Operator, n)
	case KindTranspose:
		v.dispatch(v.Transpose, v.Operator, n)
	case KindReshape:
		v.dispatch(v.Reshape, v.Operator, n)
	case KindConcat:
		v.dispatch(v.Concat, v.Operator, n)
	case KindBatchNormalization:
		v.dispatch(v.BatchNormalization, v.Operator, n)
	case KindLocalResponseNormalization:
		v.dispatch(v.LocalResponseNormalization, v.Operator, n)
	case KindArithmetic:
		v.dispatch(v.Arithmetic, v.Operator, n)
	default:
		raisef(ErrUnknownKind, "visitor cannot dispatch node %q of kind %s", n.name, n.kind)
	}
	if v.Post != nil {
		v.Post(n)
	}
}

func (v *Visitor) dispatch(kindHandler, groupHandler func(*Visitor, *Node), n *Node) {
	switch {
	case kindHandler != nil:
		kindHandler(v, n)
	case groupHandler != nil:
		groupHandler(v, n)
	case v.Default != nil:
		v.Default(v, n)
	}
}

// VisitStorage chains a node to the Storage group handler (or Default).
// Kind handlers that wrap the group behavior call it explicitly.
func (v *Visitor) VisitStorage(n *Node) {
	v.dispatch(nil, v.Storage, n)
}

// VisitOperator chains a node to the Operator group handler (or Default).
func (v *Visitor) VisitOperator(n *Node) {
	v.dispatch(nil, v.Operator, n)
}

// VisitAll dispatches every node of the module through the visitor, in
// canonical (construction) order.
func (m *Module) VisitAll(v *Visitor) {
	m.AssertValid()
	for _, n := range m.nodes {
		v.Visit(n)
	}
}

// Walk traverses the operand DAG depth-first from the given roots, calling
// visit exactly once per reachable node, children (operands) before their
// consumers. The resulting order is a post-order, i.e. a topological order of
// the operand DAG, suitable for bottom-up rewrites.
func Walk(visit func(n *Node), roots ...*Node) {
	visited := types.MakeSet[*Node]()
	var recurse func(n *Node)
	recurse = func(n *Node) {
		if visited.Has(n) {
			return
		}
		visited.Insert(n)
		for _, operand := range n.operands {
			recurse(operand.node)
		}
		visit(n)
	}
	for _, root := range roots {
		root.AssertValid()
		recurse(root)
	}
}

// WalkPreOrder traverses like Walk but calls visit on each node before its
// operands, for top-down passes.
func WalkPreOrder(visit func(n *Node), roots ...*Node) {
	visited := types.MakeSet[*Node]()
	var recurse func(n *Node)
	recurse = func(n *Node) {
		if visited.Has(n) {
			return
		}
		visited.Insert(n)
		visit(n)
		for _, operand := range n.operands {
			recurse(operand.node)
		}
	}
	for _, root := range roots {
		root.AssertValid()
		recurse(root)
	}
}
