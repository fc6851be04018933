package ancestor_test

import (
	"testing"

	"github.com/pbanos/arboretum/ancestor"
	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/partition"
	"github.com/pbanos/arboretum/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapFixture stages 8 identity-bagged samples over three predictors:
// x with all ranks distinct, y constant and c alternating between two
// categories.
func mapFixture(t *testing.T, flushFrac float64) (*partition.Partition, *ancestor.Map) {
	t.Helper()
	b := frame.NewBuilder(8)
	require.NoError(t, b.Numeric("x", []float64{0, 1, 2, 3, 4, 5, 6, 7}, 0))
	require.NoError(t, b.Numeric("y", []float64{9, 9, 9, 9, 9, 9, 9, 9}, 0))
	require.NoError(t, b.Categorical("c", []int{0, 1, 0, 1, 0, 1, 0, 1}, 2))
	f := b.Frame()
	s, err := sample.NewRegression(make([]float64, 8), []int{1, 1, 1, 1, 1, 1, 1, 1})
	require.NoError(t, err)
	part, rankCounts := partition.Stage(f, s)
	return part, ancestor.New(part, 3, rankCounts, flushFrac)
}

func TestRootDefinitions(t *testing.T) {
	_, m := mapFixture(t, 0)

	def := m.Reach(0, 0)
	assert.Equal(t, ancestor.Def{BufIdx: 0, Range: partition.Range{Start: 0, Extent: 8}}, def)
	assert.False(t, m.IsSingleton(0, 0))
	assert.True(t, m.IsSingleton(0, 1))
	assert.False(t, m.IsSingleton(0, 2))
	for s := 0; s < 8; s++ {
		assert.True(t, m.Live(s))
	}
}

// splitLowHigh advances the map one level, sending samples below the
// pivot to a true-branch node and the rest to a false-branch node.
func splitLowHigh(m *ancestor.Map, pivot, start, extent int) {
	m.Advance([]ancestor.Succ{
		{Parent: 0, Bit: 0, Range: partition.Range{Start: start, Extent: pivot - start}},
		{Parent: 0, Bit: 1, Range: partition.Range{Start: pivot, Extent: extent - (pivot - start)}},
	}, func(s int) int {
		if s < pivot {
			return 0
		}
		return 1
	})
}

func TestReachRestagesOneLevelBack(t *testing.T) {
	part, m := mapFixture(t, 0)
	splitLowHigh(m, 4, 0, 8)

	def := m.Reach(0, 0)
	assert.Equal(t, ancestor.Def{BufIdx: 1, Range: partition.Range{Start: 0, Extent: 4}}, def)
	// The sibling got defined by the same restage.
	assert.Equal(t, ancestor.Def{BufIdx: 1, Range: partition.Range{Start: 4, Extent: 4}}, m.Reach(1, 0))

	buf := part.Buffer(0, 1)
	for i := 0; i < 8; i++ {
		assert.Equal(t, partition.Obs{SampleIdx: i, Rank: i}, buf[i])
	}
}

func TestSingletonResolvesWithoutRestage(t *testing.T) {
	_, m := mapFixture(t, 0)
	splitLowHigh(m, 4, 0, 8)

	assert.True(t, m.IsSingleton(0, 1))
	assert.True(t, m.IsSingleton(1, 1))
	// The walk must not have moved the definition forward.
	assert.Equal(t, 2, m.Depth())
}

func TestReachRestagesTwoLevelsBack(t *testing.T) {
	part, m := mapFixture(t, 1e-9)
	splitLowHigh(m, 4, 0, 8)

	// Node 0 splits again, node 1 goes terminal.
	m.Advance([]ancestor.Succ{
		{Parent: 0, Bit: 0, Range: partition.Range{Start: 0, Extent: 2}},
		{Parent: 0, Bit: 1, Range: partition.Range{Start: 2, Extent: 2}},
	}, func(s int) int {
		switch {
		case s < 2:
			return 0
		case s < 4:
			return 1
		default:
			return -1
		}
	})
	for s := 4; s < 8; s++ {
		assert.False(t, m.Live(s))
	}

	// The categorical predictor was never touched, so its definition
	// still sits with the root, two levels back.
	def := m.Reach(0, 2)
	assert.Equal(t, ancestor.Def{BufIdx: 1, Range: partition.Range{Start: 0, Extent: 2}}, def)
	assert.Equal(t, ancestor.Def{BufIdx: 1, Range: partition.Range{Start: 2, Extent: 2}}, m.Reach(1, 2))

	buf := part.Buffer(2, 1)
	assert.Equal(t, []partition.Obs{{SampleIdx: 0, Rank: 0}, {SampleIdx: 1, Rank: 1}}, buf[0:2])
	assert.Equal(t, []partition.Obs{{SampleIdx: 2, Rank: 0}, {SampleIdx: 3, Rank: 1}}, buf[2:4])
}

func TestReachAllDeduplicatesSharedAncestors(t *testing.T) {
	_, m := mapFixture(t, 0)
	splitLowHigh(m, 4, 0, 8)

	m.ReachAll([]ancestor.Coord{
		{Node: 0, Pred: 0}, {Node: 1, Pred: 0},
		{Node: 0, Pred: 2}, {Node: 1, Pred: 2},
	}, 2)

	assert.Equal(t, ancestor.Def{BufIdx: 1, Range: partition.Range{Start: 0, Extent: 4}}, m.Reach(0, 0))
	assert.Equal(t, ancestor.Def{BufIdx: 1, Range: partition.Range{Start: 4, Extent: 4}}, m.Reach(1, 2))
}

func TestEagerFlushKeepsSingleLayer(t *testing.T) {
	_, m := mapFixture(t, 1.0)
	splitLowHigh(m, 4, 0, 8)
	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, ancestor.Def{BufIdx: 1, Range: partition.Range{Start: 0, Extent: 4}}, m.Reach(0, 0))
}

func TestLazyDefinitionSurvivesDeepChains(t *testing.T) {
	// Ten samples over one predictor; at each level the lowest sample
	// peels off into a terminal node and the rest carry on, so the
	// lone definition ages until the representable-depth flush moves
	// it forward.
	b := frame.NewBuilder(10)
	column := make([]float64, 10)
	for i := range column {
		column[i] = float64(i)
	}
	require.NoError(t, b.Numeric("x", column, 0))
	f := b.Frame()
	counts := make([]int, 10)
	for i := range counts {
		counts[i] = 1
	}
	s, err := sample.NewRegression(make([]float64, 10), counts)
	require.NoError(t, err)
	part, rankCounts := partition.Stage(f, s)
	m := ancestor.New(part, 1, rankCounts, 1e-9)

	splitLowHigh(m, 1, 0, 10)
	for level := 2; level <= 9; level++ {
		lo := level - 1
		m.Advance([]ancestor.Succ{
			{Parent: 1, Bit: 0, Range: partition.Range{Start: lo, Extent: 1}},
			{Parent: 1, Bit: 1, Range: partition.Range{Start: lo + 1, Extent: 10 - lo - 1}},
		}, func(smp int) int {
			switch {
			case smp < lo:
				return -1
			case smp == lo:
				return 0
			default:
				return 1
			}
		})
	}

	assert.LessOrEqual(t, m.Depth(), ancestor.PathMax+1)
	assert.Equal(t, partition.Range{Start: 8, Extent: 1}, m.Reach(0, 0).Range)
	def := m.Reach(1, 0)
	assert.Equal(t, partition.Range{Start: 9, Extent: 1}, def.Range)
	assert.True(t, def.Singleton)
	for smp := 0; smp < 8; smp++ {
		assert.False(t, m.Live(smp))
	}
}
