package iheap_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-labs/tspdrone/iheap"
)

type trackedItem struct {
	name string
	idx  int
}

func (t *trackedItem) NotifyHeapIndex(idx int) { t.idx = idx }

func TestInsertAndPeekReturnsMax(t *testing.T) {
	h := iheap.New()
	a := &trackedItem{name: "a"}
	b := &trackedItem{name: "b"}
	h.Insert(1, a)
	h.Insert(5, b)

	k, item, ok := h.Peek()
	require.True(t, ok)
	assert.Equal(t, 5.0, k)
	assert.Same(t, b, item.(*trackedItem))
}

func TestPopMaxDrainsInDescendingOrder(t *testing.T) {
	h := iheap.New()
	keys := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	items := make([]*trackedItem, len(keys))
	for i, k := range keys {
		items[i] = &trackedItem{name: "x"}
		h.Insert(k, items[i])
	}

	var out []float64
	for h.Size() > 0 {
		k, _, ok := h.PopMax()
		require.True(t, ok)
		out = append(out, k)
	}

	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1], out[i])
	}
	assert.Len(t, out, len(keys))
}

func TestNotifyHeapIndexTracksPositionAcrossMutation(t *testing.T) {
	h := iheap.New()
	items := make([]*trackedItem, 20)
	rng := rand.New(rand.NewSource(7))
	for i := range items {
		items[i] = &trackedItem{name: "x"}
		h.Insert(rng.Float64()*100, items[i])
	}
	// Every tracked index must agree with the heap's own view of that slot:
	// removing "by cached index" must always hit the expected item.
	for _, it := range items {
		_, removed := h.RemoveAt(it.idx)
		assert.Same(t, it, removed.(*trackedItem))
		h.Insert(rng.Float64()*100, it)
	}
}

func TestUpdateKeyReordersHeap(t *testing.T) {
	h := iheap.New()
	a := &trackedItem{name: "a"}
	b := &trackedItem{name: "b"}
	c := &trackedItem{name: "c"}
	h.Insert(1, a)
	h.Insert(2, b)
	h.Insert(3, c)

	h.UpdateKey(a.idx, 100)
	k, item, ok := h.Peek()
	require.True(t, ok)
	assert.Equal(t, 100.0, k)
	assert.Same(t, a, item.(*trackedItem))
}

func TestMinHeapPopsAscending(t *testing.T) {
	m := iheap.NewMin()
	keys := []float64{3, 1, 4, 1, 5}
	for _, k := range keys {
		m.Insert(k, &trackedItem{})
	}
	var out []float64
	for m.Size() > 0 {
		k, _, ok := m.PopMin()
		require.True(t, ok)
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, out[i-1], out[i])
	}
}
