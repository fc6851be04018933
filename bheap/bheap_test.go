package bheap_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/pbanos/arboretum/bheap"
	"github.com/stretchr/testify/assert"
)

func TestHeapOrdersByKey(t *testing.T) {
	h := &bheap.Heap{}
	h.Insert(0.7, 0)
	h.Insert(0.1, 1)
	h.Insert(0.4, 2)
	h.Insert(0.2, 3)
	assert.Equal(t, 4, h.Len())
	assert.Equal(t, []int{1, 3, 2, 0}, h.Depopulate())
	assert.Equal(t, 0, h.Len())
}

func TestHeapRandomizedMatchesSort(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	keys := make([]float64, 200)
	h := &bheap.Heap{}
	for slot := range keys {
		keys[slot] = rng.Float64()
		h.Insert(keys[slot], slot)
	}
	slots := h.Depopulate()
	assert.Len(t, slots, len(keys))
	assert.True(t, sort.SliceIsSorted(slots, func(i, j int) bool {
		return keys[slots[i]] < keys[slots[j]]
	}))
}

func TestHeapPopEmptyPanics(t *testing.T) {
	h := &bheap.Heap{}
	assert.Panics(t, func() { h.Pop() })
}
