// Package iheap implements an indexed binary max-heap: a priority queue
// whose elements are notified of their own current slot so that callers can
// cache the slot and later call UpdateKey/RemoveAt in O(log n) without a
// linear scan to find the element first.
package iheap

// Item is implemented by anything placed in a Heap. NotifyHeapIndex is
// invoked by the heap every time the item's slot changes (insertion,
// removal, or any internal swap during bubbleUp/bubbleDown); implementers
// should simply cache idx for later UpdateKey/RemoveAt calls.
type Item interface {
	NotifyHeapIndex(idx int)
}

type entry struct {
	key  float64
	item Item
}

// Heap is an indexed binary max-heap keyed by float64. It grows
// geometrically (via Go's slice append) and never shrinks its backing
// array.
type Heap struct {
	entries []entry
}

// New returns an empty Heap.
func New() *Heap {
	return &Heap{}
}

// Size returns the number of elements currently in the heap.
func (h *Heap) Size() int {
	return len(h.entries)
}

// Peek returns the maximum key and its item without removing it. ok is
// false when the heap is empty.
func (h *Heap) Peek() (key float64, item Item, ok bool) {
	if len(h.entries) == 0 {
		return 0, nil, false
	}
	return h.entries[0].key, h.entries[0].item, true
}

// Insert adds item under key and returns its initial slot index.
func (h *Heap) Insert(key float64, item Item) int {
	h.entries = append(h.entries, entry{key: key, item: item})
	idx := len(h.entries) - 1
	item.NotifyHeapIndex(idx)
	return h.bubbleUp(idx)
}

// UpdateKey changes the key of the element currently at idx and restores
// the heap property, bubbling it up or down as needed. Returns the
// element's new index.
func (h *Heap) UpdateKey(idx int, newKey float64) int {
	old := h.entries[idx].key
	h.entries[idx].key = newKey
	if newKey > old {
		return h.bubbleUp(idx)
	}
	return h.bubbleDown(idx)
}

// RemoveAt removes and returns the element currently at idx.
func (h *Heap) RemoveAt(idx int) (key float64, item Item) {
	last := len(h.entries) - 1
	removed := h.entries[idx]
	if idx != last {
		h.swap(idx, last)
	}
	h.entries = h.entries[:last]
	if idx < len(h.entries) {
		// The element moved into idx may violate the heap property in
		// either direction; try both (only one can actually move it).
		h.bubbleDown(idx)
		h.bubbleUp(idx)
	}
	return removed.key, removed.item
}

// PopMax removes and returns the maximum element.
func (h *Heap) PopMax() (key float64, item Item, ok bool) {
	if len(h.entries) == 0 {
		return 0, nil, false
	}
	key, item = h.RemoveAt(0)
	return key, item, true
}

func (h *Heap) swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.entries[i].item.NotifyHeapIndex(i)
	h.entries[j].item.NotifyHeapIndex(j)
}

func (h *Heap) bubbleUp(idx int) int {
	for idx > 0 {
		parent := (idx - 1) / 2
		if h.entries[parent].key >= h.entries[idx].key {
			break
		}
		h.swap(parent, idx)
		idx = parent
	}
	return idx
}

func (h *Heap) bubbleDown(idx int) int {
	n := len(h.entries)
	for {
		left, right := 2*idx+1, 2*idx+2
		largest := idx
		if left < n && h.entries[left].key > h.entries[largest].key {
			largest = left
		}
		if right < n && h.entries[right].key > h.entries[largest].key {
			largest = right
		}
		if largest == idx {
			return idx
		}
		h.swap(idx, largest)
		idx = largest
	}
}

// MinHeap is a min-priority queue, implemented by negating keys through a
// single underlying Heap rather than duplicating the bubbling logic.
type MinHeap struct {
	h *Heap
}

// NewMin returns an empty MinHeap.
func NewMin() *MinHeap {
	return &MinHeap{h: New()}
}

func (m *MinHeap) Size() int { return m.h.Size() }

func (m *MinHeap) Peek() (key float64, item Item, ok bool) {
	k, item, ok := m.h.Peek()
	return -k, item, ok
}

func (m *MinHeap) Insert(key float64, item Item) int {
	return m.h.Insert(-key, item)
}

func (m *MinHeap) UpdateKey(idx int, newKey float64) int {
	return m.h.UpdateKey(idx, -newKey)
}

func (m *MinHeap) RemoveAt(idx int) (key float64, item Item) {
	k, item := m.h.RemoveAt(idx)
	return -k, item
}

func (m *MinHeap) PopMin() (key float64, item Item, ok bool) {
	k, item, ok := m.h.PopMax()
	return -k, item, ok
}
