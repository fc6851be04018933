/*
Package split implements the per-candidate split search: given the
rank-ordered observations of one (node, predictor) pair it looks for
the binary partition with the greatest information gain. Numeric
predictors are searched with a single left-to-right walk over rank
boundaries, categorical predictors through their runs, one run per
category observed at the node.
*/
package split

import (
	"github.com/pbanos/arboretum/partition"
	"github.com/pbanos/arboretum/sample"
)

/*
DefaultMaxWidth bounds the exhaustive subset search over categorical
runs: candidates with more runs fall back to the ordered prefix search.
*/
const DefaultMaxWidth = 10

/*
Cand is one splitting candidate: the observations of a (node,
predictor) pair together with the node's response statistics and the
predictor's traits. CtgSum is nil under regression; under
classification it holds the node's per-category response sums.
*/
type Cand struct {
	Obs         []partition.Obs
	Samples     *sample.Set
	Sum         float64
	SCount      int
	CtgSum      []float64
	Cardinality int
	Mono        int8
	MaxWidth    int
}

/*
Split is the outcome of a candidate search. Info is the information
gain of the best partition found; a zero-value Split with Found unset
means no partition improved on the unsplit node. Numeric splits report
the ranks on either side of the cut, categorical splits the set of
ranks routed to the true branch. TrueExtent, TrueSCount and TrueSum
describe the true-branch side.
*/
type Split struct {
	Found      bool
	Info       float64
	RankLo     int
	RankHi     int
	Bits       []bool
	TrueExtent int
	TrueSCount int
	TrueSum    float64
}

/*
Find takes a candidate and returns the best split of its observations,
dispatching on the predictor kind.
*/
func Find(c Cand) Split {
	if len(c.Obs) < 2 {
		return Split{}
	}
	if c.Cardinality > 0 {
		return findRuns(c)
	}
	return findCut(c)
}

/*
preInfo returns the candidate's unsplit information, the baseline any
partition must improve on.
*/
func preInfo(c Cand) float64 {
	if c.CtgSum != nil {
		var ss float64
		for _, s := range c.CtgSum {
			ss += s * s
		}
		return ss / c.Sum
	}
	return c.Sum * c.Sum / float64(c.SCount)
}

/*
gain returns the information gain of a partition of the candidate into
a true side with the given statistics, against the given baseline. The
true side's per-category sums are nil under regression.
*/
func gain(c Cand, base float64, trueSum float64, trueSCount int, trueCtg []float64) float64 {
	if c.CtgSum != nil {
		var ssT, ssF, sumF float64
		for ctg, s := range trueCtg {
			ssT += s * s
			f := c.CtgSum[ctg] - s
			ssF += f * f
			sumF += f
		}
		if trueSum <= 0 || sumF <= 0 {
			return 0
		}
		return ssT/trueSum + ssF/sumF - base
	}
	falseSum := c.Sum - trueSum
	falseSCount := c.SCount - trueSCount
	return trueSum*trueSum/float64(trueSCount) + falseSum*falseSum/float64(falseSCount) - base
}
