/*
Package frontier implements the level-order growing loop: the set of
tree nodes still being worked, advanced one whole level at a time. Each
level schedules splitting candidates over the live nodes, brings their
observations to the front of the ancestor map, searches every candidate
in parallel and then applies the winning splits, producing the next
level's nodes and the pre-tree records of this one. Levels are strictly
sequential; all parallelism lives inside a level.
*/
package frontier

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pbanos/arboretum/ancestor"
	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/parallel"
	"github.com/pbanos/arboretum/partition"
	"github.com/pbanos/arboretum/pretree"
	"github.com/pbanos/arboretum/sample"
	"github.com/pbanos/arboretum/split"
)

/*
Config carries the growth parameters a frontier honors. NLevels bounds
the number of levels grown, zero meaning unbounded. MinNode is the
smallest node the frontier will try to split. MinRatio scales a
winning split's information into the floor its children must beat.
PredFixed schedules exactly that many predictors per node by weighted
draw; PredProb instead admits each predictor by an independent draw
against its own probability. At most one of the two may be set; with
neither, every predictor is a candidate. PredWeight biases the
PredFixed draws, defaulting to uniform. SplitQuant interpolates the
numeric splitting value between the ranks flanking a cut. MaxWidth
bounds the exhaustive categorical subset search, FlushFrac the ancestor
map's rear flushing, and Workers the per-level parallelism.
*/
type Config struct {
	NLevels    int
	MinNode    int
	MinRatio   float64
	PredFixed  int
	PredProb   []float64
	PredWeight []float64
	SplitQuant float64
	MaxWidth   int
	FlushFrac  float64
	Workers    int
}

/*
indexSet is one live frontier node: its pre-tree id, its observation
range and the response statistics its candidates split against. A
split's children must carry information above minInfo to split in turn.
*/
type indexSet struct {
	ptID    int
	rng     partition.Range
	sum     float64
	sCount  int
	ctgSum  []float64
	minInfo float64
}

/*
criterion is the decision applied to one split node while placing its
samples: low ranks up to rankLo branch true for a numeric predictor,
categories marked in bits for a categorical one. trueNode is the front
index of the true-branch successor; the false-branch successor follows
it.
*/
type criterion struct {
	pred     int
	isFactor bool
	rankLo   int
	bits     []bool
	trueNode int
}

/*
Frontier grows one pre-tree over a ranked frame and a bagged sample
set. Successive calls to Grow are not supported; a Frontier is spent
once grown.
*/
type Frontier struct {
	cfg     Config
	frame   *frame.Frame
	samples *sample.Set
	part    *partition.Partition
	amap    *ancestor.Map
	pt      *pretree.PreTree
	rng     *rand.Rand

	sets       []indexSet
	sampleNode []int
}

/*
New takes a ranked frame, a bagged sample set, a growth configuration
and a seeded random source and returns a Frontier ready to grow: the
partition staged, the ancestor map rooted and the pre-tree holding the
scored root.
*/
func New(f *frame.Frame, s *sample.Set, cfg Config, rng *rand.Rand) *Frontier {
	if cfg.MinNode < 2 {
		cfg.MinNode = 2
	}
	part, rankCounts := partition.Stage(f, s)
	fr := &Frontier{
		cfg:        cfg,
		frame:      f,
		samples:    s,
		part:       part,
		amap:       ancestor.New(part, f.NPred(), rankCounts, cfg.FlushFrac),
		pt:         pretree.New(),
		rng:        rng,
		sampleNode: make([]int, s.Len()),
	}
	root := indexSet{
		rng:    partition.Range{Start: 0, Extent: s.Len()},
		sum:    s.Sum(),
		sCount: s.BagCount(),
	}
	if s.Response() == sample.Classification {
		root.ctgSum = make([]float64, s.NCtg())
		for i := 0; i < s.Len(); i++ {
			smp := s.Sample(i)
			root.ctgSum[smp.Ctg] += smp.YSum
		}
	}
	fr.sets = []indexSet{root}
	fr.pt.SetScore(0, score(&root))
	fr.pt.SetExtent(0, root.rng.Extent)
	return fr
}

/*
score returns the value the set would predict as a leaf: its mean
response under regression, its modal category under classification,
ties going to the lowest category.
*/
func score(set *indexSet) float64 {
	if set.ctgSum == nil {
		return set.sum / float64(set.sCount)
	}
	mode := 0
	for ctg, s := range set.ctgSum {
		if s > set.ctgSum[mode] {
			mode = ctg
		}
	}
	return float64(mode)
}

/*
Grow runs the level loop until the frontier empties or the level cap is
reached, checking the context between levels, and returns the assembled
pre-tree. Nodes no level splits stay terminal with the scores they were
produced with.
*/
func (f *Frontier) Grow(ctx context.Context) (*pretree.PreTree, error) {
	for level := 0; len(f.sets) > 0; level++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("growing tree at level %d: %v", level, err)
		}
		if f.cfg.NLevels > 0 && level >= f.cfg.NLevels {
			break
		}
		if !f.splitLevel() {
			break
		}
	}
	return f.pt, nil
}

/*
splitLevel runs one level end to end and reports whether any node
split. The sets left afterwards are the new level's, indexed like the
ancestor map's front nodes.
*/
func (f *Frontier) splitLevel() bool {
	cands := f.schedule()
	if len(cands) == 0 {
		f.sets = nil
		return false
	}

	coords := make([]ancestor.Coord, len(cands))
	for i, c := range cands {
		coords[i] = ancestor.Coord{Node: c.set, Pred: c.pred}
	}
	f.amap.ReachAll(coords, f.cfg.Workers)
	for i := range cands {
		cands[i].def = f.amap.Reach(cands[i].set, cands[i].pred)
	}

	parallel.For(len(cands), f.cfg.Workers, func(i int) {
		c := &cands[i]
		if c.def.Singleton {
			return
		}
		set := &f.sets[c.set]
		rng := c.def.Range
		c.res = split.Find(split.Cand{
			Obs:         f.part.Buffer(c.pred, c.def.BufIdx)[rng.Start:rng.End()],
			Samples:     f.samples,
			Sum:         set.sum,
			SCount:      set.sCount,
			CtgSum:      set.ctgSum,
			Cardinality: f.frame.Cardinality(c.pred),
			Mono:        f.frame.Mono(c.pred),
			MaxWidth:    f.cfg.MaxWidth,
		})
	})

	// Arbitration: scheduled order, strict improvement, so the
	// earliest candidate keeps a tie.
	winners := make([]int, len(f.sets))
	for i := range winners {
		winners[i] = -1
	}
	for i, c := range cands {
		if !c.res.Found || c.res.Info <= f.sets[c.set].minInfo {
			continue
		}
		if w := winners[c.set]; w < 0 || c.res.Info > cands[w].res.Info {
			winners[c.set] = i
		}
	}

	return f.apply(cands, winners)
}

/*
apply records the winning splits in the pre-tree, places every live
sample into its successor node and advances the ancestor map. It
reports whether any split was applied.
*/
func (f *Frontier) apply(cands []cand, winners []int) bool {
	crits := make([]*criterion, len(f.sets))
	var newSets []indexSet
	var succ []ancestor.Succ
	anySplit := false
	for si := range f.sets {
		w := winners[si]
		if w < 0 {
			continue
		}
		anySplit = true
		set := &f.sets[si]
		c := &cands[w]
		cr := &criterion{pred: c.pred, trueNode: len(newSets)}
		var trueID int
		if f.frame.IsFactor(c.pred) {
			cr.isFactor = true
			cr.bits = c.res.Bits
			trueID = f.pt.AddCriterionBits(set.ptID, c.pred, c.res.Bits, c.res.Info)
		} else {
			cr.rankLo = c.res.RankLo
			cutValue := f.frame.CutValue(c.pred, c.res.RankLo, c.res.RankHi, f.cfg.SplitQuant)
			trueID = f.pt.AddCriterionCut(set.ptID, c.pred, cutValue, c.res.Info)
		}
		crits[si] = cr

		minInfo := f.cfg.MinRatio * c.res.Info
		trueRange := partition.Range{Start: set.rng.Start, Extent: c.res.TrueExtent}
		falseRange := partition.Range{Start: trueRange.End(), Extent: set.rng.Extent - c.res.TrueExtent}
		for b, rng := range []partition.Range{trueRange, falseRange} {
			child := indexSet{ptID: trueID + b, rng: rng, minInfo: minInfo}
			if set.ctgSum != nil {
				child.ctgSum = make([]float64, len(set.ctgSum))
			}
			newSets = append(newSets, child)
			succ = append(succ, ancestor.Succ{Parent: si, Bit: uint8(b), Range: rng})
		}
	}
	if !anySplit {
		f.sets = nil
		return false
	}

	newNode := make([]int, len(f.sampleNode))
	for s := range newNode {
		newNode[s] = -1
		si := f.sampleNode[s]
		if si < 0 || crits[si] == nil || !f.amap.Live(s) {
			continue
		}
		cr := crits[si]
		rank := f.frame.Rank(cr.pred, f.samples.Row(s))
		node := cr.trueNode
		if !branchesTrue(cr, rank) {
			node++
		}
		newNode[s] = node
		smp := f.samples.Sample(s)
		child := &newSets[node]
		child.sum += smp.YSum
		child.sCount += smp.SCount
		if child.ctgSum != nil {
			child.ctgSum[smp.Ctg] += smp.YSum
		}
	}

	counts := make([]int, len(newSets))
	for _, node := range newNode {
		if node >= 0 {
			counts[node]++
		}
	}
	for n := range newSets {
		set := &newSets[n]
		if counts[n] != set.rng.Extent {
			panic(fmt.Sprintf("frontier: node %d received %d samples for extent %d", n, counts[n], set.rng.Extent))
		}
		f.pt.SetScore(set.ptID, score(set))
		f.pt.SetExtent(set.ptID, set.rng.Extent)
	}

	f.amap.Advance(succ, func(s int) int { return newNode[s] })
	f.sampleNode = newNode
	f.sets = newSets
	return true
}

func branchesTrue(cr *criterion, rank int) bool {
	if cr.isFactor {
		return cr.bits[rank]
	}
	return rank <= cr.rankLo
}
