/*
Package partition implements the observation partition: per-predictor
sequences of rank-encoded, bagged observations kept grouped by tree
node. Observations are staged once from the frame's rank order and then
restaged level by level, each restage a stable partition of a node's
observations into its successors. Two buffers per predictor alternate
as source and target so a restage never overwrites the range it reads.
*/
package partition

import (
	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/sample"
)

/*
Obs is one staged observation: the sample it belongs to and the rank of
that sample under the staged predictor.
*/
type Obs struct {
	SampleIdx int
	Rank      int
}

/*
Range delimits a contiguous run of observation positions.
*/
type Range struct {
	Start  int
	Extent int
}

/*
End returns the position one past the last of the range.
*/
func (r Range) End() int {
	return r.Start + r.Extent
}

/*
PathSpan receives the observations of one reaching path during a
restage: Start fixes where the path's observations land in the target
buffer, and Restage fills in Count and RankCount as it writes them.
*/
type PathSpan struct {
	Start     int
	Count     int
	RankCount int
	lastRank  int
}

/*
Partition holds the double-buffered observation sequences of every
predictor. Each buffer lays predictors out contiguously, one sample
slot per bagged sample.
*/
type Partition struct {
	buffers  [2][]Obs
	nSamples int
	nPred    int
}

/*
Stage takes a ranked frame and a bagged sample set and returns the
partition with every predictor staged into buffer 0, together with the
per-predictor count of distinct ranks among the staged observations.
Observations are staged in the frame's rank order, ties kept in row
order, so every predictor sequence starts sorted.
*/
func Stage(f *frame.Frame, s *sample.Set) (*Partition, []int) {
	p := &Partition{
		nSamples: s.Len(),
		nPred:    f.NPred(),
	}
	p.buffers[0] = make([]Obs, p.nPred*p.nSamples)
	p.buffers[1] = make([]Obs, p.nPred*p.nSamples)
	rankCounts := make([]int, p.nPred)
	for pred := 0; pred < p.nPred; pred++ {
		out := p.Buffer(pred, 0)
		i := 0
		lastRank := -1
		for _, row := range f.RankOrder(pred) {
			sampleIdx, ok := s.SampleIndex(row)
			if !ok {
				continue
			}
			rank := f.Rank(pred, row)
			out[i] = Obs{SampleIdx: sampleIdx, Rank: rank}
			i++
			if rank != lastRank {
				rankCounts[pred]++
				lastRank = rank
			}
		}
		if i != p.nSamples {
			panic("partition: staged observation count differs from sample count")
		}
	}
	return p, rankCounts
}

/*
NSamples returns the number of observation slots per predictor.
*/
func (p *Partition) NSamples() int {
	return p.nSamples
}

/*
Buffer returns the full observation sequence of the given predictor in
the given buffer.
*/
func (p *Partition) Buffer(pred, bufIdx int) []Obs {
	if bufIdx != 0 && bufIdx != 1 {
		panic("partition: buffer index out of range")
	}
	base := pred * p.nSamples
	return p.buffers[bufIdx][base : base+p.nSamples]
}

/*
Restage takes a predictor, the buffer its ancestor's observations live
in, the ancestor's observation range, a per-sample path lookup and the
target spans of each path, and stably partitions the ancestor's
observations into the other buffer: each observation lands in the span
of its sample's path, order preserved within every path. A negative
path marks an extinct sample, whose observation is dropped. Restage
fills each span's Count and RankCount as it goes.
*/
func (p *Partition) Restage(pred, bufIdx int, rng Range, pathOf func(sampleIdx int) int, spans []PathSpan) {
	src := p.Buffer(pred, bufIdx)[rng.Start:rng.End()]
	dst := p.Buffer(pred, 1-bufIdx)
	for i := range spans {
		spans[i].Count = 0
		spans[i].RankCount = 0
		spans[i].lastRank = -1
	}
	for _, obs := range src {
		path := pathOf(obs.SampleIdx)
		if path < 0 {
			continue
		}
		span := &spans[path]
		dst[span.Start+span.Count] = obs
		span.Count++
		if obs.Rank != span.lastRank {
			span.RankCount++
			span.lastRank = obs.Rank
		}
	}
}
