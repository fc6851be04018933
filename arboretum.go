/*
Package arboretum grows decision trees for regression and
classification problems over bagged, rank-encoded training data. The
growing core works breadth first, one frontier level at a time,
restaging observations lazily through an ancestor map; this package is
its entry point, tying a ranked frame, a bagged sample set and an
explicit configuration into a finished pre-tree.
*/
package arboretum

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/frontier"
	"github.com/pbanos/arboretum/pretree"
	"github.com/pbanos/arboretum/sample"
)

/*
Config gathers every growth parameter. The zero value of a field
selects its default, so an empty Config grows an unbounded, unmerged
tree over every predictor.

NLevels caps the number of levels grown, zero meaning unbounded.
MinNode is the smallest node the frontier tries to split, floored at 2.
MinRatio, in [0, 1], scales a split's information into the floor its
children must beat. MaxLeaf caps the number of leaves, zero meaning
uncapped; trees over the cap get their least informative splits merged
back. PredFixed schedules that many predictors per node by weighted
draw, PredWeight biasing the draws; PredProb instead admits each
predictor with its own probability. At most one of PredFixed and
PredProb may be set. SplitQuant, in [0, 1], interpolates the numeric
splitting value between the values flanking a cut, zero selecting the
default 0.5. MaxWidth bounds the exhaustive categorical subset search.
FlushFrac tunes how eagerly old observation layers are restaged
forward. Workers bounds per-level parallelism, zero using every CPU.
Seed fixes the random stream: equal seeds over equal inputs grow equal
trees.
*/
type Config struct {
	NLevels    int
	MinNode    int
	MinRatio   float64
	MaxLeaf    int
	PredFixed  int
	PredProb   []float64
	PredWeight []float64
	SplitQuant float64
	MaxWidth   int
	FlushFrac  float64
	Workers    int
	Seed       int64
}

/*
Validate takes the frame the configuration will grow over and returns
an error describing the first invalid parameter found, or nil.
*/
func (c Config) Validate(f *frame.Frame) error {
	if c.MinRatio < 0 || c.MinRatio > 1 {
		return fmt.Errorf("validating config: min ratio %g out of [0, 1]", c.MinRatio)
	}
	if c.SplitQuant < 0 || c.SplitQuant > 1 {
		return fmt.Errorf("validating config: split quantile %g out of [0, 1]", c.SplitQuant)
	}
	if c.PredFixed > 0 && c.PredProb != nil {
		return fmt.Errorf("validating config: fixed and probabilistic predictor selection are exclusive")
	}
	if c.PredFixed > f.NPred() {
		return fmt.Errorf("validating config: cannot schedule %d of %d predictors", c.PredFixed, f.NPred())
	}
	if c.PredProb != nil && len(c.PredProb) != f.NPred() {
		return fmt.Errorf("validating config: got %d selection probabilities for %d predictors", len(c.PredProb), f.NPred())
	}
	for _, p := range c.PredProb {
		if p < 0 || p > 1 {
			return fmt.Errorf("validating config: selection probability %g out of [0, 1]", p)
		}
	}
	if c.PredWeight != nil && len(c.PredWeight) != f.NPred() {
		return fmt.Errorf("validating config: got %d selection weights for %d predictors", len(c.PredWeight), f.NPred())
	}
	return nil
}

/*
Grow takes a context.Context, a ranked frame, the bagged sample set of
the response and a configuration and grows a tree, returning the
finished pre-tree or an error. Growth stops when no node can split any
further, or at the configured level cap; a leaf cap is applied by
merging after growth. The context is honored between levels.
*/
func Grow(ctx context.Context, f *frame.Frame, s *sample.Set, cfg Config) (*pretree.PreTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("growing tree: %v", err)
	}
	if err := cfg.Validate(f); err != nil {
		return nil, err
	}
	if f.NObs() != s.NObs() {
		return nil, fmt.Errorf("growing tree: frame covers %d rows but the bag covers %d", f.NObs(), s.NObs())
	}
	quant := cfg.SplitQuant
	if quant == 0 {
		quant = 0.5
	}
	fr := frontier.New(f, s, frontier.Config{
		NLevels:    cfg.NLevels,
		MinNode:    cfg.MinNode,
		MinRatio:   cfg.MinRatio,
		PredFixed:  cfg.PredFixed,
		PredProb:   cfg.PredProb,
		PredWeight: cfg.PredWeight,
		SplitQuant: quant,
		MaxWidth:   cfg.MaxWidth,
		FlushFrac:  cfg.FlushFrac,
		Workers:    cfg.Workers,
	}, rand.New(rand.NewSource(cfg.Seed)))
	pt, err := fr.Grow(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.MaxLeaf > 0 {
		pt.LeafMerge(cfg.MaxLeaf)
	}
	return pt, nil
}
