package bitset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-labs/tspdrone/bitset"
)

func TestSingletonAndContains(t *testing.T) {
	s := bitset.Singleton(3)
	assert.True(t, bitset.Contains(s, 3))
	assert.False(t, bitset.Contains(s, 0))
	assert.Equal(t, 1, bitset.Popcount(s))
}

func TestFull(t *testing.T) {
	s := bitset.Full(5)
	for i := 0; i < 5; i++ {
		assert.True(t, bitset.Contains(s, i))
	}
	assert.False(t, bitset.Contains(s, 5))
	assert.Equal(t, 5, bitset.Popcount(s))
	assert.Equal(t, bitset.Empty, bitset.Full(0))
}

func TestAddRemoveUnionIntersect(t *testing.T) {
	a := bitset.FromIndices([]int{0, 2, 4})
	b := bitset.FromIndices([]int{2, 3})

	assert.Equal(t, bitset.FromIndices([]int{0, 2, 3, 4}), bitset.Union(a, b))
	assert.Equal(t, bitset.Singleton(2), bitset.Intersect(a, b))
	assert.Equal(t, bitset.FromIndices([]int{2, 4}), bitset.Add(bitset.Singleton(4), 2))
	assert.Equal(t, bitset.FromIndices([]int{0, 4}), bitset.Remove(a, 2))
}

func TestComplement(t *testing.T) {
	a := bitset.FromIndices([]int{0, 2})
	c := bitset.Complement(a, 4)
	assert.Equal(t, bitset.FromIndices([]int{1, 3}), c)
}

func TestIndicesRoundTrip(t *testing.T) {
	idx := []int{1, 3, 7, 8}
	s := bitset.FromIndices(idx)
	require.Equal(t, idx, bitset.Indices(s))
}

func TestSubsetsEnumeratesEveryNonEmptySubsetInDecreasingOrder(t *testing.T) {
	set := bitset.FromIndices([]int{0, 1, 2})
	it := bitset.Subsets(set)

	var seen []bitset.Set
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		seen = append(seen, s)
	}

	// 2^3 - 1 = 7 non-empty subsets.
	assert.Len(t, seen, 7)
	assert.Equal(t, set, seen[0], "first must be the full set")
	for i := 1; i < len(seen); i++ {
		assert.Less(t, seen[i], seen[i-1], "must be strictly decreasing")
		assert.True(t, bitset.IsSubsetOf(seen[i], set))
	}

	want := map[bitset.Set]bool{}
	for _, s := range seen {
		want[s] = true
	}
	assert.Len(t, want, 7, "every subset unique")
}

func TestSubsetsOfEmptySetYieldsNothing(t *testing.T) {
	it := bitset.Subsets(bitset.Empty)
	_, ok := it.Next()
	assert.False(t, ok)
}
