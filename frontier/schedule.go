package frontier

import (
	"github.com/pbanos/arboretum/ancestor"
	"github.com/pbanos/arboretum/bheap"
	"github.com/pbanos/arboretum/split"
)

/*
cand is one scheduled (node, predictor) splitting candidate, its
resolved front definition and, once searched, its best split.
*/
type cand struct {
	set  int
	pred int
	def  ancestor.Def
	res  split.Split
}

/*
schedule draws this level's candidates. Nodes are visited in front
order and, within a node, one uniform draw is consumed per predictor
regardless of the outcome, so a given seed always yields the same
candidate stream. Nodes below MinNode and predictors known singleton at
the node are not scheduled.
*/
func (f *Frontier) schedule() []cand {
	var cands []cand
	for si := range f.sets {
		if f.sets[si].rng.Extent < f.cfg.MinNode {
			continue
		}
		switch {
		case f.cfg.PredFixed > 0:
			cands = f.scheduleFixed(si, cands)
		case f.cfg.PredProb != nil:
			cands = f.scheduleProb(si, cands)
		default:
			for pred := 0; pred < f.frame.NPred(); pred++ {
				if !f.amap.IsSingleton(si, pred) {
					cands = append(cands, cand{set: si, pred: pred})
				}
			}
		}
	}
	return cands
}

/*
scheduleFixed draws a weighted priority for every predictor and keeps
the top PredFixed splittable ones. The heap pops the largest weighted
draws first; singletons pop too but do not count toward the quota.
*/
func (f *Frontier) scheduleFixed(si int, cands []cand) []cand {
	h := &bheap.Heap{}
	for pred := 0; pred < f.frame.NPred(); pred++ {
		weight := 1.0
		if f.cfg.PredWeight != nil {
			weight = f.cfg.PredWeight[pred]
		}
		h.Insert(-f.rng.Float64()*weight, pred)
	}
	scheduled := 0
	for h.Len() > 0 && scheduled < f.cfg.PredFixed {
		pred := h.Pop()
		if f.amap.IsSingleton(si, pred) {
			continue
		}
		cands = append(cands, cand{set: si, pred: pred})
		scheduled++
	}
	return cands
}

/*
scheduleProb admits each predictor by an independent draw against its
selection probability.
*/
func (f *Frontier) scheduleProb(si int, cands []cand) []cand {
	for pred := 0; pred < f.frame.NPred(); pred++ {
		draw := f.rng.Float64()
		if draw >= f.cfg.PredProb[pred] || f.amap.IsSingleton(si, pred) {
			continue
		}
		cands = append(cands, cand{set: si, pred: pred})
	}
	return cands
}
