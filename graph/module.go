// Package graph implements the typed, in-memory representation of the
// high-level operator graph of a neural-network model: the structure a
// front-end builds, an optimizer rewrites and a lowering pass translates into
// a lower-level instruction IR.
//
// The main elements of the package are:
//
//   - Module: the arena that owns every node and every interned Type. All
//     construction goes through the module's factory methods (NewVariable,
//     NewConvolution, NewRelu, ...), which run shape inference before the node
//     is registered, so a module never holds half-constructed nodes.
//
//   - Node: a vertex of the operand DAG, discriminated by its closed Kind tag.
//     A node has one or more typed results; most operators have exactly one.
//
//   - NodeValue: a cheap by-value handle (producer node, result index) used
//     everywhere an operand is taken. Factories return the NodeValue for
//     result 0 of the node they create.
//
//   - Visitor / Walk: kind-switched dispatch with pre/post hooks and group
//     chaining, and a deduplicating depth-first walker over the operand DAG.
//
// ## Error handling
//
// Factories and mutators panic on invalid inputs with an error wrapping one of
// the sentinels ErrInvalidOperand, ErrShapeMismatch, ErrTypeMismatch,
// ErrDanglingUse or ErrUnknownKind (the panic value carries a stack trace).
// Recover at pass boundaries with exceptions.TryCatch[error] and classify with
// errors.Is. A failed operation never leaves the module partially mutated.
//
// ## Concurrency
//
// A Module is single-threaded by contract: it offers no internal
// synchronization, and all construction, rewriting and visiting must be
// serialized by the caller. Parallelism, if desired, goes across different
// modules.
package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// NodeID is the unique id of a node within its Module. It is also the node's
// position in the module's canonical (construction-ordered) node sequence
// until nodes are erased.
type NodeID int

// InvalidNodeID marks a node that was erased or never registered.
const InvalidNodeID = NodeID(-1)

// Module owns a computation graph: the nodes, in construction order, and the
// interned Type descriptors. Nodes and types live until the module is
// finalized; NodeValue edges are borrowed handles and never own anything,
// which keeps replace-all-uses and erasure straightforward.
type Module struct {
	name   string
	nodes  []*Node
	types  map[string]*Type
	nextID NodeID
}

// New creates an empty Module with the given (advisory) name.
func New(name string) *Module {
	return &Module{
		name:  name,
		types: make(map[string]*Type),
	}
}

// Name of the module, set at construction.
func (m *Module) Name() string { return m.name }

// NumNodes returns the number of live nodes in the module.
func (m *Module) NumNodes() int { return len(m.nodes) }

// Nodes returns the live nodes in canonical (construction) order. The
// returned slice is owned by the module and must not be modified.
func (m *Module) Nodes() []*Node { return m.nodes }

// NumTypes returns the number of distinct interned types.
func (m *Module) NumTypes() int { return len(m.types) }

// AssertValid panics if the module is nil or was finalized.
func (m *Module) AssertValid() {
	if m == nil {
		exceptions.Panicf("Module is nil")
	}
	if m.types == nil {
		exceptions.Panicf("Module %q was finalized and can no longer be used", m.name)
	}
}

// registerNode appends a freshly constructed node to the canonical order and
// wires the use-lists of its operand producers. All semantic validation
// (operand checks, shape inference) must have happened before this point.
func (m *Module) registerNode(n *Node) {
	n.id = m.nextID
	m.nextID++
	m.nodes = append(m.nodes, n)
	for ii, operand := range n.operands {
		operand.node.users = append(operand.node.users, Use{Consumer: n, OperandIndex: ii})
	}
}

// newNode validates the operands, builds the node and registers it. results
// must be non-empty; operands must be valid handles into this module.
func (m *Module) newNode(kind Kind, name string, attrs nodeAttrs, results []*Type, operands ...NodeValue) *Node {
	m.AssertValid()
	if len(results) == 0 {
		exceptions.Panicf("node %q (%s) constructed without results", name, kind)
	}
	for ii, operand := range operands {
		if !operand.IsValid() {
			raisef(ErrInvalidOperand, "operand #%d of node %q (%s) is invalid", ii, name, kind)
		}
		if operand.node.module != m {
			raisef(ErrInvalidOperand, "operand #%d of node %q (%s) belongs to module %q, not %q",
				ii, name, kind, operand.node.module.name, m.name)
		}
	}
	n := &Node{
		module:   m,
		kind:     kind,
		name:     name,
		results:  results,
		operands: slices.Clone(operands),
		attrs:    attrs,
	}
	m.registerNode(n)
	return n
}

// EraseNode removes a node from the module. The node must have no remaining
// uses -- erasing a node with live consumers fails with ErrDanglingUse.
// The erased node releases its operand edges and becomes invalid.
func (m *Module) EraseNode(n *Node) {
	m.AssertValid()
	n.AssertValid()
	if n.module != m {
		raisef(ErrInvalidOperand, "cannot erase node %q: it belongs to module %q, not %q",
			n.name, n.module.name, m.name)
	}
	if len(n.users) > 0 {
		raisef(ErrDanglingUse, "cannot erase node %q (%s): it still has %d use(s)",
			n.name, n.kind, len(n.users))
	}
	for ii, operand := range n.operands {
		operand.node.removeUse(n, ii)
	}
	pos := slices.Index(m.nodes, n)
	if pos < 0 {
		exceptions.Panicf("node %q (%s) not found in its own module %q", n.name, n.kind, m.name)
	}
	m.nodes = slices.Delete(m.nodes, pos, pos+1)
	klog.V(2).Infof("graph: erased node %q (%s) from module %q", n.name, n.kind, m.name)
	n.module = nil
	n.id = InvalidNodeID
	n.operands = nil
}

// Finalize destroys the module: all nodes and interned types become invalid.
// The module is left in an unusable state.
func (m *Module) Finalize() {
	if m == nil {
		return
	}
	for _, n := range m.nodes {
		n.module = nil
		n.id = InvalidNodeID
		n.operands = nil
		n.users = nil
	}
	m.nodes = nil
	m.types = nil
}

// String dumps the module: one line per node, in canonical order.
func (m *Module) String() string {
	if m == nil {
		return "Module(nil)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Module %q: %d nodes, %d types", m.name, len(m.nodes), len(m.types))
	for ii, n := range m.nodes {
		fmt.Fprintf(&b, "\n#%d\t%s", ii, n)
	}
	return b.String()
}
