/*
Package frame implements the ranked predictor frame consumed by the tree
growing core. Raw predictor columns are encoded once, up front, into
per-predictor rank codes: numeric columns map each value to its index in
the sorted sequence of distinct values, and categorical columns use the
category code itself as the rank. The core never sees raw values again
except to interpolate numeric cut points.
*/
package frame

import (
	"fmt"
	"sort"
)

type predictor struct {
	name        string
	cardinality int
	ranks       []int
	rankOrder   []int
	values      []float64
	mono        int8
}

/*
Frame holds the rank encoding of a training matrix: one rank per
observation per predictor, the rank-sorted observation order of each
predictor, and for numeric predictors the sorted distinct values the
ranks index into.
*/
type Frame struct {
	nObs       int
	predictors []predictor
}

/*
Builder accumulates raw predictor columns and encodes them into a Frame.
*/
type Builder struct {
	nObs       int
	predictors []predictor
}

/*
NewBuilder takes an observation count and returns a Builder for columns
of that length.
*/
func NewBuilder(nObs int) *Builder {
	return &Builder{nObs: nObs}
}

/*
Numeric takes a predictor name, a raw value column and a monotonicity
sign and adds the column to the builder as a numeric predictor. The sign
must be -1, 0 or 1: a nonzero sign constrains every split on the
predictor to move the response in that direction.
*/
func (b *Builder) Numeric(name string, column []float64, mono int8) error {
	if len(column) != b.nObs {
		return fmt.Errorf("encoding predictor %s: got %d values, want %d", name, len(column), b.nObs)
	}
	if mono < -1 || mono > 1 {
		return fmt.Errorf("encoding predictor %s: monotonicity sign %d out of range", name, mono)
	}
	distinct := make([]float64, len(column))
	copy(distinct, column)
	sort.Float64s(distinct)
	j := 0
	for i := 1; i < len(distinct); i++ {
		if distinct[i] != distinct[j] {
			j++
			distinct[j] = distinct[i]
		}
	}
	distinct = distinct[:j+1]
	ranks := make([]int, len(column))
	for i, v := range column {
		ranks[i] = sort.SearchFloat64s(distinct, v)
	}
	b.predictors = append(b.predictors, predictor{
		name:   name,
		ranks:  ranks,
		values: distinct,
		mono:   mono,
	})
	return nil
}

/*
Categorical takes a predictor name, a column of category codes and the
predictor cardinality and adds the column to the builder as a
categorical predictor. Codes must lie in [0, cardinality).
*/
func (b *Builder) Categorical(name string, column []int, cardinality int) error {
	if len(column) != b.nObs {
		return fmt.Errorf("encoding predictor %s: got %d values, want %d", name, len(column), b.nObs)
	}
	if cardinality < 1 {
		return fmt.Errorf("encoding predictor %s: cardinality %d out of range", name, cardinality)
	}
	ranks := make([]int, len(column))
	for i, code := range column {
		if code < 0 || code >= cardinality {
			return fmt.Errorf("encoding predictor %s: category code %d at row %d out of range [0, %d)", name, code, i, cardinality)
		}
		ranks[i] = code
	}
	b.predictors = append(b.predictors, predictor{
		name:        name,
		cardinality: cardinality,
		ranks:       ranks,
	})
	return nil
}

/*
Frame finalizes the builder, computing the rank-sorted observation order
of each predictor, and returns the encoded Frame. Observations sharing a
rank keep their row order.
*/
func (b *Builder) Frame() *Frame {
	for p := range b.predictors {
		pred := &b.predictors[p]
		order := make([]int, b.nObs)
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return pred.ranks[order[i]] < pred.ranks[order[j]]
		})
		pred.rankOrder = order
	}
	return &Frame{nObs: b.nObs, predictors: b.predictors}
}

/*
NObs returns the number of observations in the frame.
*/
func (f *Frame) NObs() int {
	return f.nObs
}

/*
NPred returns the number of predictors in the frame.
*/
func (f *Frame) NPred() int {
	return len(f.predictors)
}

/*
Name returns the name of the given predictor.
*/
func (f *Frame) Name(pred int) string {
	return f.predictors[pred].name
}

/*
IsFactor returns whether the given predictor is categorical.
*/
func (f *Frame) IsFactor(pred int) bool {
	return f.predictors[pred].cardinality > 0
}

/*
Cardinality returns the number of categories of the given predictor, or
0 if the predictor is numeric.
*/
func (f *Frame) Cardinality(pred int) int {
	return f.predictors[pred].cardinality
}

/*
NumRanks returns the number of distinct rank codes of the given
predictor.
*/
func (f *Frame) NumRanks(pred int) int {
	p := &f.predictors[pred]
	if p.cardinality > 0 {
		return p.cardinality
	}
	return len(p.values)
}

/*
Rank returns the rank code of the given predictor at the given row.
*/
func (f *Frame) Rank(pred, row int) int {
	return f.predictors[pred].ranks[row]
}

/*
RankOrder returns the rows of the frame sorted by ascending rank of the
given predictor, ties kept in row order. The returned slice must not be
modified.
*/
func (f *Frame) RankOrder(pred int) []int {
	return f.predictors[pred].rankOrder
}

/*
Mono returns the monotonicity sign of the given predictor: -1, 0 or 1.
Categorical predictors always report 0.
*/
func (f *Frame) Mono(pred int) int8 {
	return f.predictors[pred].mono
}

/*
CutValue takes a numeric predictor, the ranks on either side of a cut
and an interpolation quantile in [0, 1] and returns the splitting value
quant of the way from the low rank's value to the high rank's value.
*/
func (f *Frame) CutValue(pred, rankLo, rankHi int, quant float64) float64 {
	p := &f.predictors[pred]
	if p.cardinality > 0 {
		panic("frame: cut value on a categorical predictor")
	}
	lo := p.values[rankLo]
	hi := p.values[rankHi]
	return lo + quant*(hi-lo)
}
