package split

import "github.com/pbanos/arboretum/bheap"

/*
run aggregates the candidate's observations of one category: all the
samples sharing one rank.
*/
type run struct {
	rank   int
	extent int
	sCount int
	sum    float64
	ctgSum []float64
}

/*
findRuns searches the candidate's runs for the best binary grouping of
its observed categories. Two-outcome responses, regression included,
admit an ordered prefix search; wider classification responses get an
exhaustive subset search while the run count stays within the
candidate's width bound and fall back to the prefix search beyond it.
Categories unobserved at the node belong to no run and so always land
on the false branch.
*/
func findRuns(c Cand) Split {
	runs := collectRuns(c)
	if len(runs) < 2 {
		return Split{}
	}
	maxWidth := c.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if len(c.CtgSum) > 2 && len(runs) <= maxWidth {
		return searchSubsets(c, runs)
	}
	return searchPrefixes(c, runs)
}

func collectRuns(c Cand) []run {
	var runs []run
	for _, obs := range c.Obs {
		smp := c.Samples.Sample(obs.SampleIdx)
		if len(runs) == 0 || runs[len(runs)-1].rank != obs.Rank {
			r := run{rank: obs.Rank}
			if c.CtgSum != nil {
				r.ctgSum = make([]float64, len(c.CtgSum))
			}
			runs = append(runs, r)
		}
		r := &runs[len(runs)-1]
		r.extent++
		r.sCount += smp.SCount
		r.sum += smp.YSum
		if r.ctgSum != nil {
			r.ctgSum[smp.Ctg] += smp.YSum
		}
	}
	return runs
}

/*
runOrder returns the run slots sorted by mean response: the mean
response value under regression, the second-category proportion under a
two-category response and the first-category proportion beyond that,
where the prefix search is only a heuristic.
*/
func runOrder(c Cand, runs []run) []int {
	h := &bheap.Heap{}
	for slot, r := range runs {
		var mean float64
		switch {
		case c.CtgSum == nil:
			mean = r.sum / float64(r.sCount)
		case len(c.CtgSum) == 2:
			mean = r.ctgSum[1] / r.sum
		default:
			mean = r.ctgSum[0] / r.sum
		}
		h.Insert(mean, slot)
	}
	return h.Depopulate()
}

func searchPrefixes(c Cand, runs []run) Split {
	base := preInfo(c)
	order := runOrder(c, runs)

	var trueCtg []float64
	if c.CtgSum != nil {
		trueCtg = make([]float64, len(c.CtgSum))
	}
	best := Split{}
	bestDepth := 0
	var sumT float64
	scT, extT := 0, 0
	for depth, slot := range order[:len(order)-1] {
		r := &runs[slot]
		sumT += r.sum
		scT += r.sCount
		extT += r.extent
		for ctg, s := range r.ctgSum {
			trueCtg[ctg] += s
		}
		g := gain(c, base, sumT, scT, trueCtg)
		if g > best.Info {
			best = Split{
				Found:      true,
				Info:       g,
				TrueExtent: extT,
				TrueSCount: scT,
				TrueSum:    sumT,
			}
			bestDepth = depth + 1
		}
	}
	if best.Found {
		best.Bits = make([]bool, c.Cardinality)
		for _, slot := range order[:bestDepth] {
			best.Bits[runs[slot].rank] = true
		}
	}
	return best
}

/*
searchSubsets tries every grouping of the runs into two nonempty sides.
The last run is pinned to the false side, halving the enumeration to
one representative per complementary pair.
*/
func searchSubsets(c Cand, runs []run) Split {
	base := preInfo(c)
	trueCtg := make([]float64, len(c.CtgSum))

	best := Split{}
	bestMask := 0
	for mask := 1; mask < 1<<uint(len(runs)-1); mask++ {
		var sumT float64
		scT, extT := 0, 0
		for ctg := range trueCtg {
			trueCtg[ctg] = 0
		}
		for slot := 0; slot < len(runs)-1; slot++ {
			if mask&(1<<uint(slot)) == 0 {
				continue
			}
			r := &runs[slot]
			sumT += r.sum
			scT += r.sCount
			extT += r.extent
			for ctg, s := range r.ctgSum {
				trueCtg[ctg] += s
			}
		}
		g := gain(c, base, sumT, scT, trueCtg)
		if g > best.Info {
			best = Split{
				Found:      true,
				Info:       g,
				TrueExtent: extT,
				TrueSCount: scT,
				TrueSum:    sumT,
			}
			bestMask = mask
		}
	}
	if best.Found {
		best.Bits = make([]bool, c.Cardinality)
		for slot := 0; slot < len(runs)-1; slot++ {
			if bestMask&(1<<uint(slot)) != 0 {
				best.Bits[runs[slot].rank] = true
			}
		}
	}
	return best
}
