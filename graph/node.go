package graph

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/lanternml/lantern/types/dtypes"
	"github.com/lanternml/lantern/types/shapes"
)

// Node is a vertex in the computation graph. It carries a closed Kind tag, an
// advisory name, one or more interned result types (frozen after
// construction) and its operand edges as NodeValues.
//
// Nodes are created by the Module factory methods and owned by the module;
// use-lists are maintained eagerly, so rewrites (ReplaceOperand,
// ReplaceAllUsesWith) and erasure are cheap.
type Node struct {
	module   *Module
	id       NodeID
	kind     Kind
	name     string
	results  []*Type
	operands []NodeValue
	attrs    nodeAttrs
	users    []Use
}

// nodeAttrs is the per-kind attribute payload of a node. The interface is
// closed: only the attribute structs in this package implement it.
type nodeAttrs interface {
	kindOf() Kind
	// hashInto writes the attribute bytes; floats are written by bit pattern.
	hashInto(w io.Writer)
	// clone returns a deep copy, so cloned nodes don't share mutable state.
	clone() nodeAttrs
	fmt.Stringer
}

// Use records one operand site consuming a node's result:
// Consumer.Operand(OperandIndex) is a NodeValue whose producer is the used node.
type Use struct {
	Consumer     *Node
	OperandIndex int
}

// Kind returns the closed tag discriminating the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the node's descriptive name. Names are advisory: they are used
// for debugging and export and need not be unique.
func (n *Node) Name() string { return n.name }

// Module that owns this node, or nil if the node was erased.
func (n *Node) Module() *Module { return n.module }

// ID is the unique id of this node within its module.
func (n *Node) ID() NodeID { return n.id }

// NumResults returns the number of typed results the node produces. It is at
// least 1 for every live node.
func (n *Node) NumResults() int { return len(n.results) }

// ResultType returns the interned type handle of result i.
func (n *Node) ResultType(i int) *Type {
	if i < 0 || i >= len(n.results) {
		exceptions.Panicf("Node.ResultType(%d) out-of-bounds: node %q (%s) has %d result(s)",
			i, n.name, n.kind, len(n.results))
	}
	return n.results[i]
}

// Result returns the NodeValue handle for result i.
func (n *Node) Result(i int) NodeValue {
	_ = n.ResultType(i) // Bounds check.
	return NodeValue{node: n, index: i}
}

// Value returns the NodeValue handle for result 0, the value factories return.
func (n *Node) Value() NodeValue { return n.Result(0) }

// Type is a shortcut for ResultType(0).
func (n *Node) Type() *Type { return n.ResultType(0) }

// Shape of result 0. Implements the shapes.HasShape interface.
func (n *Node) Shape() shapes.Shape { return n.Type().Shape() }

// DType is the element kind of result 0.
func (n *Node) DType() dtypes.DType { return n.Type().DType() }

// Dims returns the dimensions of result 0. The slice must not be modified.
func (n *Node) Dims() []int { return n.Type().Dims() }

// NumOperands returns the number of operand edges of the node.
func (n *Node) NumOperands() int { return len(n.operands) }

// Operand returns the i-th operand edge.
func (n *Node) Operand(i int) NodeValue {
	if i < 0 || i >= len(n.operands) {
		exceptions.Panicf("Node.Operand(%d) out-of-bounds: node %q (%s) has %d operand(s)",
			i, n.name, n.kind, len(n.operands))
	}
	return n.operands[i]
}

// Operands returns a copy of the node's operand edges.
func (n *Node) Operands() []NodeValue { return slices.Clone(n.operands) }

// HasSideEffects reports whether the node must be preserved even when its
// results are unused. It is false for every kind in this core.
func (n *Node) HasSideEffects() bool { return false }

// AssertValid panics if n is nil or was erased from its module.
func (n *Node) AssertValid() {
	if n == nil {
		exceptions.Panicf("Node is nil")
	}
	if n.module == nil || n.id == InvalidNodeID {
		exceptions.Panicf("node %q (%s) was erased and can no longer be used", n.name, n.kind)
	}
}

// Uses returns a copy of all operand sites consuming any of this node's
// results.
func (n *Node) Uses() []Use { return slices.Clone(n.users) }

// UsesOfResult returns the operand sites consuming the given result.
func (n *Node) UsesOfResult(resultIdx int) []Use {
	var uses []Use
	for _, u := range n.users {
		if u.Consumer.operands[u.OperandIndex].index == resultIdx {
			uses = append(uses, u)
		}
	}
	return uses
}

// NumUses returns the number of operand sites consuming this node.
func (n *Node) NumUses() int { return len(n.users) }

// HasUses reports whether any live node consumes this node.
func (n *Node) HasUses() bool { return len(n.users) > 0 }

// removeUse drops the (consumer, operandIdx) record from the use-list.
func (n *Node) removeUse(consumer *Node, operandIdx int) {
	for ii, u := range n.users {
		if u.Consumer == consumer && u.OperandIndex == operandIdx {
			n.users = slices.Delete(n.users, ii, ii+1)
			return
		}
	}
	exceptions.Panicf("use (%q, operand #%d) not found on node %q (%s)",
		consumer.name, operandIdx, n.name, n.kind)
}

// ReplaceOperand rewires operand i to newValue. The new value must have the
// same interned type as the current operand (ErrTypeMismatch otherwise) and
// belong to the same module.
func (n *Node) ReplaceOperand(i int, newValue NodeValue) {
	n.AssertValid()
	if i < 0 || i >= len(n.operands) {
		raisef(ErrInvalidOperand, "node %q (%s) has %d operand(s), cannot replace operand #%d",
			n.name, n.kind, len(n.operands), i)
	}
	if !newValue.IsValid() || newValue.node.module != n.module {
		raisef(ErrInvalidOperand, "replacement for operand #%d of node %q (%s) is invalid or from another module",
			i, n.name, n.kind)
	}
	old := n.operands[i]
	if newValue.Type() != old.Type() {
		raisef(ErrTypeMismatch, "cannot replace operand #%d of node %q (%s): operand type is %s, replacement has type %s",
			i, n.name, n.kind, old.Type(), newValue.Type())
	}
	if newValue == old {
		return
	}
	old.node.removeUse(n, i)
	n.operands[i] = newValue
	newValue.node.users = append(newValue.node.users, Use{Consumer: n, OperandIndex: i})
}

// ReplaceAllUsesWith redirects every consumer of this node's result 0 to
// newValue. The replacement must have the same interned type as result 0
// (ErrTypeMismatch otherwise) and must not be a result of this same node.
// The rewrite is atomic: the type check happens before any consumer is
// touched, and afterwards no live node consumes result 0 of this node.
func (n *Node) ReplaceAllUsesWith(newValue NodeValue) {
	n.AssertValid()
	if !newValue.IsValid() || newValue.node.module != n.module {
		raisef(ErrInvalidOperand, "replacement for uses of node %q (%s) is invalid or from another module",
			n.name, n.kind)
	}
	if newValue.node == n {
		raisef(ErrInvalidOperand, "cannot replace uses of node %q (%s) with one of its own results",
			n.name, n.kind)
	}
	if newValue.Type() != n.ResultType(0) {
		raisef(ErrTypeMismatch, "cannot replace uses of node %q (%s): result type is %s, replacement has type %s",
			n.name, n.kind, n.ResultType(0), newValue.Type())
	}
	for _, u := range n.UsesOfResult(0) {
		u.Consumer.ReplaceOperand(u.OperandIndex, newValue)
	}
}

// Clone registers a structurally equal copy of this node in the module. The
// clone shares the operand edges; attribute payloads (including a Variable's
// tensor) are deep-copied.
func (n *Node) Clone() *Node {
	n.AssertValid()
	var attrs nodeAttrs
	if n.attrs != nil {
		attrs = n.attrs.clone()
	}
	return n.module.newNode(n.kind, n.name, attrs, slices.Clone(n.results), n.operands...)
}

// Equal reports structural equality. For storage nodes it compares kind,
// name, type, trainability, visibility and (for variables) byte-equality of
// the payloads, per the storage contract. For operator nodes it is identity.
func (n *Node) Equal(other *Node) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil || n.kind != other.kind || !n.kind.IsStorage() {
		return false
	}
	if n.name != other.name || !n.ResultType(0).Shape().Equal(other.ResultType(0).Shape()) {
		return false
	}
	switch n.kind {
	case KindVariable:
		a := n.attrs.(*variableAttrs)
		b := other.attrs.(*variableAttrs)
		return a.visibility == b.visibility && a.trainable == b.trainable && a.payload.Equal(b.payload)
	case KindPlaceholder:
		a := n.attrs.(placeholderAttrs)
		b := other.attrs.(placeholderAttrs)
		return a.trainable == b.trainable
	}
	return false
}

// Hash returns a structural hash of the node combining its kind, result
// types, operand producer identities with result indices, and attribute
// bytes. Structurally equal nodes hash equal; floating point attributes are
// hashed by bit pattern.
func (n *Node) Hash() uint64 {
	h := fnv.New64a()
	hashInt(h, int64(n.kind))
	for _, t := range n.results {
		hashInt(h, int64(t.DType()))
		hashInt(h, int64(t.Rank()))
		for _, dim := range t.Dims() {
			hashInt(h, int64(dim))
		}
	}
	for _, operand := range n.operands {
		hashInt(h, int64(operand.node.id))
		hashInt(h, int64(operand.index))
	}
	if n.attrs != nil {
		n.attrs.hashInto(h)
	}
	return h.Sum64()
}

// String implements fmt.Stringer: "name: Kind(operands) -> result types".
func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	if n.module == nil {
		return fmt.Sprintf("%s: %s(erased)", n.name, n.kind)
	}
	operands := make([]string, 0, len(n.operands))
	for _, operand := range n.operands {
		operands = append(operands, operand.String())
	}
	results := make([]string, 0, len(n.results))
	for _, t := range n.results {
		results = append(results, t.String())
	}
	desc := n.kind.String()
	if n.attrs != nil {
		desc = n.attrs.String()
	}
	return fmt.Sprintf("%s: %s(%s) -> %s", n.name, desc,
		strings.Join(operands, ", "), strings.Join(results, ", "))
}

// NodeValue is a by-value handle (producer, result index) for one specific
// result of a node. It has reference semantics: a capability to observe or
// rewire an edge, never ownership. Its type is that of
// producer.ResultType(index).
type NodeValue struct {
	node  *Node
	index int
}

// Node returns the producer node.
func (nv NodeValue) Node() *Node { return nv.node }

// ResultIndex returns which result of the producer this value refers to.
func (nv NodeValue) ResultIndex() int { return nv.index }

// IsValid reports whether the handle points at a live node.
func (nv NodeValue) IsValid() bool {
	return nv.node != nil && nv.node.module != nil && nv.index >= 0 && nv.index < len(nv.node.results)
}

// Type returns the interned type of the referenced result.
func (nv NodeValue) Type() *Type { return nv.node.ResultType(nv.index) }

// DType is the element kind of the referenced result.
func (nv NodeValue) DType() dtypes.DType { return nv.Type().DType() }

// Shape of the referenced result. Implements shapes.HasShape.
func (nv NodeValue) Shape() shapes.Shape { return nv.Type().Shape() }

// Dims returns the dimensions of the referenced result. Must not be modified.
func (nv NodeValue) Dims() []int { return nv.Type().Dims() }

// String implements fmt.Stringer.
func (nv NodeValue) String() string {
	if !nv.IsValid() {
		return "NodeValue(invalid)"
	}
	if nv.index == 0 && len(nv.node.results) == 1 {
		return nv.node.name
	}
	return fmt.Sprintf("%s:%d", nv.node.name, nv.index)
}

// hashInt writes one integer to the hash stream.
func hashInt(w io.Writer, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, _ = w.Write(buf[:])
}

// hashFloat32 writes one float to the hash stream by bit pattern, so that
// e.g. -0.0 and 0.0 hash differently and NaNs hash stably.
func hashFloat32(w io.Writer, v float32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	_, _ = w.Write(buf[:])
}
