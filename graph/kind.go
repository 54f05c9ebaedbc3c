package graph

// Kind is the closed tag discriminating node variants. Every node carries
// exactly one kind, set at construction and never mutated; runtime dispatch
// (visiting, hashing, printing, lowering) switches on it.
type Kind int

//go:generate go tool enumer -type=Kind -trimprefix=Kind -output=gen_kind_enumer.go kind.go

const (
	KindInvalid Kind = iota

	// Storage kinds.
	KindVariable
	KindPlaceholder

	// Operator kinds.
	KindConvolution
	KindPool
	KindFullyConnected
	KindRelu
	KindSigmoid
	KindTanh
	KindSoftMax
	KindRegression
	KindTranspose
	KindReshape
	KindConcat
	KindBatchNormalization
	KindLocalResponseNormalization
	KindArithmetic
)

// IsStorage returns whether the kind is a storage kind: a Variable (bound to
// a tensor payload) or a Placeholder (bound at execution time).
func (k Kind) IsStorage() bool {
	return k == KindVariable || k == KindPlaceholder
}

// IsOperator returns whether the kind is a (valid) operator kind.
func (k Kind) IsOperator() bool {
	return k > KindPlaceholder && k <= KindArithmetic
}
