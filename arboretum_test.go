package arboretum_test

import (
	"context"
	"testing"

	"github.com/pbanos/arboretum"
	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spreadFixture(t *testing.T) (*frame.Frame, *sample.Set) {
	t.Helper()
	b := frame.NewBuilder(8)
	require.NoError(t, b.Numeric("x", []float64{0, 1, 2, 3, 4, 5, 6, 7}, 0))
	f := b.Frame()
	counts := make([]int, 8)
	for i := range counts {
		counts[i] = 1
	}
	s, err := sample.NewRegression([]float64{0, 1, 2, 3, 4, 5, 6, 7}, counts)
	require.NoError(t, err)
	return f, s
}

func TestGrowDefaults(t *testing.T) {
	f, s := spreadFixture(t)
	pt, err := arboretum.Grow(context.Background(), f, s, arboretum.Config{})
	require.NoError(t, err)
	assert.Equal(t, 8, pt.LeafCount())
	assert.Equal(t, 15, pt.NNodes())
}

func TestGrowAppliesLeafCap(t *testing.T) {
	f, s := spreadFixture(t)
	pt, err := arboretum.Grow(context.Background(), f, s, arboretum.Config{MaxLeaf: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, pt.LeafCount())
	// Only the root split survives the cap.
	assert.False(t, pt.IsLeaf(0))
	assert.True(t, pt.IsLeaf(pt.TrueChild(0)))
	assert.True(t, pt.IsLeaf(pt.TrueChild(0)+1))
	assert.InDelta(t, 1.5, pt.Score(pt.TrueChild(0)), 1e-9)
	assert.InDelta(t, 5.5, pt.Score(pt.TrueChild(0)+1), 1e-9)
}

func TestGrowValidatesConfig(t *testing.T) {
	f, s := spreadFixture(t)
	for _, cfg := range []arboretum.Config{
		{MinRatio: 1.5},
		{SplitQuant: -0.1},
		{PredFixed: 1, PredProb: []float64{0.5}},
		{PredFixed: 2},
		{PredProb: []float64{0.5, 0.5}},
		{PredProb: []float64{1.5}},
		{PredWeight: []float64{1, 2}},
	} {
		_, err := arboretum.Grow(context.Background(), f, s, cfg)
		assert.Error(t, err, "config %+v", cfg)
	}
}

func TestGrowRejectsMismatchedBag(t *testing.T) {
	f, _ := spreadFixture(t)
	s, err := sample.NewRegression([]float64{1, 2}, []int{1, 1})
	require.NoError(t, err)
	_, err = arboretum.Grow(context.Background(), f, s, arboretum.Config{})
	assert.Error(t, err)
}

func TestGrowCancelledContext(t *testing.T) {
	f, s := spreadFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := arboretum.Grow(ctx, f, s, arboretum.Config{})
	assert.Error(t, err)
}
