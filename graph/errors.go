package graph

import (
	"github.com/lanternml/lantern/graph/shapeinference"
	"github.com/pkg/errors"
)

// The error taxonomy of the graph core. All errors raised by factories and
// mutators wrap one of these sentinels, so callers can classify them with
// errors.Is after recovering with exceptions.TryCatch[error].
var (
	// ErrInvalidOperand indicates a wrong operand count or a malformed
	// attribute (e.g. a non-permutation transpose shuffle).
	ErrInvalidOperand = shapeinference.ErrInvalidOperand

	// ErrShapeMismatch indicates operand shapes that violate the operator's
	// shape rule.
	ErrShapeMismatch = shapeinference.ErrShapeMismatch

	// ErrTypeMismatch indicates disagreeing element kinds, or an Assign,
	// ReplaceOperand or ReplaceAllUsesWith with an incompatible type.
	ErrTypeMismatch = shapeinference.ErrTypeMismatch

	// ErrDanglingUse indicates an attempt to erase a node that still has live
	// consumers.
	ErrDanglingUse = errors.New("dangling use")

	// ErrUnknownKind indicates a visitor dispatched over a kind it does not
	// handle. It is an internal invariant violation.
	ErrUnknownKind = errors.New("unknown node kind")
)

// raisef panics with the given sentinel wrapped in a formatted message and a
// stack trace. Errors are raised at the construction or mutation site and are
// fatal to the caller's pass; the module is never left partially mutated.
func raisef(sentinel error, format string, args ...any) {
	panic(errors.Wrapf(sentinel, format, args...))
}

// raise panics with an error that already carries its classification and
// stack trace (e.g. from the shapeinference package).
func raise(err error) {
	panic(err)
}
