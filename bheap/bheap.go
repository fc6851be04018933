/*
Package bheap implements a small binary min-heap over keyed slots. It
backs the weighted predictor sampling of the candidate scheduler and the
mean ordering of categorical runs.
*/
package bheap

type slotKey struct {
	key  float64
	slot int
}

/*
Heap is a binary min-heap of integer slots ordered by a float64 key.
The zero value is an empty heap ready for use.
*/
type Heap struct {
	items []slotKey
}

/*
Len returns the number of slots in the heap.
*/
func (h *Heap) Len() int {
	return len(h.items)
}

/*
Insert takes a key and a slot and adds the slot to the heap under that
key.
*/
func (h *Heap) Insert(key float64, slot int) {
	h.items = append(h.items, slotKey{key: key, slot: slot})
	i := len(h.items) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[parent].key <= h.items[i].key {
			break
		}
		h.items[parent], h.items[i] = h.items[i], h.items[parent]
		i = parent
	}
}

/*
Pop removes and returns the slot with the smallest key. Popping an empty
heap panics.
*/
func (h *Heap) Pop() int {
	if len(h.items) == 0 {
		panic("bheap: pop from empty heap")
	}
	top := h.items[0].slot
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.items = h.items[:last]
	i := 0
	for {
		left := 2*i + 1
		if left >= len(h.items) {
			break
		}
		least := left
		if right := left + 1; right < len(h.items) && h.items[right].key < h.items[left].key {
			least = right
		}
		if h.items[i].key <= h.items[least].key {
			break
		}
		h.items[i], h.items[least] = h.items[least], h.items[i]
		i = least
	}
	return top
}

/*
Depopulate empties the heap, returning all slots in ascending key order.
*/
func (h *Heap) Depopulate() []int {
	slots := make([]int, 0, len(h.items))
	for h.Len() > 0 {
		slots = append(slots, h.Pop())
	}
	return slots
}
