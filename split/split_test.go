package split_test

import (
	"testing"

	"github.com/pbanos/arboretum/partition"
	"github.com/pbanos/arboretum/sample"
	"github.com/pbanos/arboretum/split"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ones(n int) []int {
	counts := make([]int, n)
	for i := range counts {
		counts[i] = 1
	}
	return counts
}

// identityObs builds observations with rank == sample index, the
// layout of a fully distinct numeric column over an identity bag.
func identityObs(n int) []partition.Obs {
	obs := make([]partition.Obs, n)
	for i := range obs {
		obs[i] = partition.Obs{SampleIdx: i, Rank: i}
	}
	return obs
}

func regressionCand(t *testing.T, y []float64, obs []partition.Obs, mono int8) split.Cand {
	t.Helper()
	s, err := sample.NewRegression(y, ones(len(y)))
	require.NoError(t, err)
	return split.Cand{
		Obs:     obs,
		Samples: s,
		Sum:     s.Sum(),
		SCount:  s.BagCount(),
		Mono:    mono,
	}
}

func classificationCand(t *testing.T, yCtg []int, nCtg int, obs []partition.Obs, cardinality int) split.Cand {
	t.Helper()
	s, err := sample.NewClassification(yCtg, nCtg, ones(len(yCtg)))
	require.NoError(t, err)
	ctgSum := make([]float64, nCtg)
	for i := 0; i < s.Len(); i++ {
		smp := s.Sample(i)
		ctgSum[smp.Ctg] += smp.YSum
	}
	return split.Cand{
		Obs:         obs,
		Samples:     s,
		Sum:         s.Sum(),
		SCount:      s.BagCount(),
		CtgSum:      ctgSum,
		Cardinality: cardinality,
	}
}

func TestCutFindsStepResponse(t *testing.T) {
	c := regressionCand(t, []float64{1, 1, 1, 1, 5, 5, 5, 5}, identityObs(8), 0)
	best := split.Find(c)

	require.True(t, best.Found)
	assert.InDelta(t, 32.0, best.Info, 1e-9)
	assert.Equal(t, 3, best.RankLo)
	assert.Equal(t, 4, best.RankHi)
	assert.Equal(t, 4, best.TrueExtent)
	assert.Equal(t, 4, best.TrueSCount)
	assert.InDelta(t, 4.0, best.TrueSum, 1e-9)
	assert.Nil(t, best.Bits)
}

func TestCutKeepsEarliestOfTiedBoundaries(t *testing.T) {
	c := regressionCand(t, []float64{1, 2, 1}, identityObs(3), 0)
	best := split.Find(c)

	require.True(t, best.Found)
	assert.Equal(t, 0, best.RankLo)
	assert.Equal(t, 1, best.RankHi)
}

func TestCutHonorsMonotonicity(t *testing.T) {
	decreasing := []float64{5, 5, 5, 1, 1, 1}

	up := split.Find(regressionCand(t, decreasing, identityObs(6), 1))
	assert.False(t, up.Found)

	down := split.Find(regressionCand(t, decreasing, identityObs(6), -1))
	require.True(t, down.Found)
	assert.Equal(t, 2, down.RankLo)
}

func TestCutSkipsTiedRanks(t *testing.T) {
	// Ranks 0,0,1,1: the only boundary sits between positions 1 and 2.
	obs := []partition.Obs{{SampleIdx: 0, Rank: 0}, {SampleIdx: 1, Rank: 0}, {SampleIdx: 2, Rank: 1}, {SampleIdx: 3, Rank: 1}}
	c := regressionCand(t, []float64{1, 9, 1, 9}, obs, 0)
	best := split.Find(c)
	assert.False(t, best.Found)
}

func TestCutClassification(t *testing.T) {
	c := classificationCand(t, []int{0, 0, 0, 1, 1, 1}, 2, identityObs(6), 0)
	best := split.Find(c)

	require.True(t, best.Found)
	assert.InDelta(t, 3.0, best.Info, 1e-9)
	assert.Equal(t, 2, best.RankLo)
	assert.Equal(t, 3, best.RankHi)
	assert.Equal(t, 3, best.TrueExtent)
}

func TestNoGainOnConstantResponse(t *testing.T) {
	c := regressionCand(t, []float64{3, 3, 3, 3}, identityObs(4), 0)
	assert.False(t, split.Find(c).Found)
}

func TestSingleObservationUnsplittable(t *testing.T) {
	c := regressionCand(t, []float64{3}, identityObs(1), 0)
	assert.False(t, split.Find(c).Found)
}

func TestRunPrefixSearchRegression(t *testing.T) {
	// Categories 0, 1 and 3 observed with mean responses 5, 1 and 3;
	// category 2 never observed, so it may not enter the true branch.
	y := []float64{5, 5, 1, 1, 3, 3}
	obs := []partition.Obs{
		{SampleIdx: 0, Rank: 0}, {SampleIdx: 1, Rank: 0},
		{SampleIdx: 2, Rank: 1}, {SampleIdx: 3, Rank: 1},
		{SampleIdx: 4, Rank: 3}, {SampleIdx: 5, Rank: 3},
	}
	c := regressionCand(t, y, obs, 0)
	c.Cardinality = 4
	best := split.Find(c)

	require.True(t, best.Found)
	assert.InDelta(t, 12.0, best.Info, 1e-9)
	assert.Equal(t, []bool{false, true, false, false}, best.Bits)
	assert.Equal(t, 2, best.TrueExtent)
	assert.Equal(t, 2, best.TrueSCount)
	assert.InDelta(t, 2.0, best.TrueSum, 1e-9)
}

func multiwayCand(t *testing.T) split.Cand {
	t.Helper()
	yCtg := []int{0, 0, 1, 1, 0, 0}
	obs := []partition.Obs{
		{SampleIdx: 0, Rank: 0}, {SampleIdx: 1, Rank: 0},
		{SampleIdx: 2, Rank: 1}, {SampleIdx: 3, Rank: 1},
		{SampleIdx: 4, Rank: 2}, {SampleIdx: 5, Rank: 2},
	}
	return classificationCand(t, yCtg, 3, obs, 3)
}

func TestRunSubsetSearchMultiway(t *testing.T) {
	best := split.Find(multiwayCand(t))

	require.True(t, best.Found)
	assert.InDelta(t, 8.0/3.0, best.Info, 1e-9)
	assert.Equal(t, []bool{false, true, false}, best.Bits)
	assert.Equal(t, 2, best.TrueExtent)
}

func TestRunWideFallbackToPrefixes(t *testing.T) {
	c := multiwayCand(t)
	c.MaxWidth = 2
	best := split.Find(c)

	require.True(t, best.Found)
	assert.InDelta(t, 8.0/3.0, best.Info, 1e-9)
	assert.Equal(t, []bool{false, true, false}, best.Bits)
}

func TestRunSingleRunUnsplittable(t *testing.T) {
	obs := []partition.Obs{{SampleIdx: 0, Rank: 2}, {SampleIdx: 1, Rank: 2}}
	c := regressionCand(t, []float64{1, 9}, obs, 0)
	c.Cardinality = 3
	assert.False(t, split.Find(c).Found)
}
