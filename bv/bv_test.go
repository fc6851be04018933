package bv_test

import (
	"testing"

	"github.com/pbanos/arboretum/bv"
	"github.com/stretchr/testify/assert"
)

func TestVectorSetTestClear(t *testing.T) {
	v := bv.New(130)
	assert.Equal(t, uint(130), v.Size())
	for _, pos := range []uint{0, 1, 63, 64, 65, 127, 128, 129} {
		assert.False(t, v.Test(pos))
		v.Set(pos)
		assert.True(t, v.Test(pos))
	}
	v.Clear(64)
	assert.False(t, v.Test(64))
	assert.True(t, v.Test(63))
	assert.True(t, v.Test(65))
}

func TestVectorExtendPreservesBits(t *testing.T) {
	v := bv.New(3)
	v.Set(0)
	v.Set(2)
	base := v.Extend(70)
	assert.Equal(t, uint(3), base)
	assert.Equal(t, uint(73), v.Size())
	assert.True(t, v.Test(0))
	assert.False(t, v.Test(1))
	assert.True(t, v.Test(2))
	for pos := base; pos < v.Size(); pos++ {
		assert.False(t, v.Test(pos))
	}
	v.Set(base + 66)
	assert.True(t, v.Test(69))
}

func TestVectorOutOfRangePanics(t *testing.T) {
	v := bv.New(10)
	assert.Panics(t, func() { v.Set(10) })
	assert.Panics(t, func() { v.Test(10) })
	assert.Panics(t, func() { v.Clear(10) })
}
