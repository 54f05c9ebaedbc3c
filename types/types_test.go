package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := MakeSet[int]()
	require.Empty(t, s)
	require.False(t, s.Has(1))

	s.Insert(1, 2, 3)
	require.Len(t, s, 3)
	require.True(t, s.Has(2))
	require.False(t, s.Has(4))

	// Inserting an existing key is a no-op.
	s.Insert(2)
	require.Len(t, s, 3)
}

func TestSetWith(t *testing.T) {
	s := SetWith("a", "b")
	require.Len(t, s, 2)
	require.True(t, s.Has("a"))
	require.True(t, s.Has("b"))
}

func TestSetEqual(t *testing.T) {
	require.True(t, SetWith(1, 2, 3).Equal(SetWith(3, 2, 1)))
	require.False(t, SetWith(1, 2).Equal(SetWith(1, 2, 3)))
	require.False(t, SetWith(1, 2, 3).Equal(SetWith(1, 2, 4)))
	require.True(t, MakeSet[int]().Equal(MakeSet[int](10)))
}
