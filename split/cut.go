package split

/*
findCut walks the candidate's observations once, left to right in rank
order, evaluating a cut at every rank boundary. The true branch is the
low-rank side. A monotonicity sign on the predictor discards cuts whose
side means violate the declared direction.
*/
func findCut(c Cand) Split {
	base := preInfo(c)
	var trueCtg []float64
	if c.CtgSum != nil {
		trueCtg = make([]float64, len(c.CtgSum))
	}

	best := Split{}
	var sumL float64
	scL := 0
	for i, obs := range c.Obs[:len(c.Obs)-1] {
		// Statistics accumulate before the boundary check so both
		// sides of a cut after position i are populated.
		smp := c.Samples.Sample(obs.SampleIdx)
		sumL += smp.YSum
		scL += smp.SCount
		if trueCtg != nil {
			trueCtg[smp.Ctg] += smp.YSum
		}
		next := c.Obs[i+1]
		if next.Rank == obs.Rank {
			continue
		}
		if !monotonicityHolds(c, sumL, scL) {
			continue
		}
		g := gain(c, base, sumL, scL, trueCtg)
		if g > best.Info {
			best = Split{
				Found:      true,
				Info:       g,
				RankLo:     obs.Rank,
				RankHi:     next.Rank,
				TrueExtent: i + 1,
				TrueSCount: scL,
				TrueSum:    sumL,
			}
		}
	}
	return best
}

func monotonicityHolds(c Cand, sumL float64, scL int) bool {
	if c.Mono == 0 || c.CtgSum != nil {
		return true
	}
	meanL := sumL / float64(scL)
	meanR := (c.Sum - sumL) / float64(c.SCount-scL)
	if c.Mono > 0 {
		return meanR >= meanL
	}
	return meanR <= meanL
}
