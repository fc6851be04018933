/*
Package sample implements the bagged training response consumed by the
tree growing core. Rows of the raw training matrix are drawn with
replacement into a bag: each bagged row becomes one sample carrying its
bag multiplicity and its response contribution, and rows left out of the
bag never reach the core.
*/
package sample

import (
	"fmt"
	"math/rand"
)

/*
Response distinguishes the two response kinds a tree can be grown over.
*/
type Response int

const (
	// Regression grows over a numeric response.
	Regression Response = iota
	// Classification grows over a categorical response.
	Classification
)

/*
Sample is one bagged row: its bag multiplicity, its summed response
contribution and, under classification, its response category.
*/
type Sample struct {
	SCount int
	YSum   float64
	Ctg    int
}

/*
Set is the bagged response of a training matrix. Sample indices are
dense over the bagged rows, in row order.
*/
type Set struct {
	response Response
	nCtg     int
	samples  []Sample
	rows     []int
	sampleOf []int
	bagCount int
	sum      float64
}

/*
Bag takes an observation count and a seeded random source and returns a
bag of that many draws with replacement: a per-row multiplicity vector
in which zero marks a row left out of the bag.
*/
func Bag(nObs int, rng *rand.Rand) []int {
	counts := make([]int, nObs)
	for i := 0; i < nObs; i++ {
		counts[rng.Intn(nObs)]++
	}
	return counts
}

/*
NewRegression takes a numeric response column and a bag multiplicity
vector and returns the bagged sample Set for a regression tree, or an
error if their lengths disagree or the bag is empty.
*/
func NewRegression(y []float64, counts []int) (*Set, error) {
	if len(y) != len(counts) {
		return nil, fmt.Errorf("bagging response: got %d multiplicities for %d rows", len(counts), len(y))
	}
	s := &Set{
		response: Regression,
		sampleOf: make([]int, len(y)),
	}
	for row, count := range counts {
		if count <= 0 {
			s.sampleOf[row] = -1
			continue
		}
		ySum := y[row] * float64(count)
		s.sampleOf[row] = len(s.samples)
		s.samples = append(s.samples, Sample{SCount: count, YSum: ySum})
		s.rows = append(s.rows, row)
		s.bagCount += count
		s.sum += ySum
	}
	if len(s.samples) == 0 {
		return nil, fmt.Errorf("bagging response: empty bag")
	}
	return s, nil
}

/*
NewClassification takes a categorical response column, its cardinality
and a bag multiplicity vector and returns the bagged sample Set for a
classification tree, or an error if a category code is out of range,
the lengths disagree or the bag is empty. Each sample's response
contribution is its bag multiplicity, so sums over samples count bagged
rows per category.
*/
func NewClassification(yCtg []int, nCtg int, counts []int) (*Set, error) {
	if len(yCtg) != len(counts) {
		return nil, fmt.Errorf("bagging response: got %d multiplicities for %d rows", len(counts), len(yCtg))
	}
	if nCtg < 2 {
		return nil, fmt.Errorf("bagging response: cardinality %d out of range", nCtg)
	}
	s := &Set{
		response: Classification,
		nCtg:     nCtg,
		sampleOf: make([]int, len(yCtg)),
	}
	for row, count := range counts {
		if count <= 0 {
			s.sampleOf[row] = -1
			continue
		}
		if yCtg[row] < 0 || yCtg[row] >= nCtg {
			return nil, fmt.Errorf("bagging response: category code %d at row %d out of range [0, %d)", yCtg[row], row, nCtg)
		}
		ySum := float64(count)
		s.sampleOf[row] = len(s.samples)
		s.samples = append(s.samples, Sample{SCount: count, YSum: ySum, Ctg: yCtg[row]})
		s.rows = append(s.rows, row)
		s.bagCount += count
		s.sum += ySum
	}
	if len(s.samples) == 0 {
		return nil, fmt.Errorf("bagging response: empty bag")
	}
	return s, nil
}

/*
NObs returns the number of rows of the raw training matrix the bag was
drawn over.
*/
func (s *Set) NObs() int {
	return len(s.sampleOf)
}

/*
Response returns the response kind of the set.
*/
func (s *Set) Response() Response {
	return s.response
}

/*
NCtg returns the response cardinality of a classification set, or 0 for
a regression set.
*/
func (s *Set) NCtg() int {
	return s.nCtg
}

/*
Len returns the number of samples, that is, of distinct bagged rows.
*/
func (s *Set) Len() int {
	return len(s.samples)
}

/*
BagCount returns the total bag multiplicity over all samples.
*/
func (s *Set) BagCount() int {
	return s.bagCount
}

/*
Sum returns the summed response contribution over all samples.
*/
func (s *Set) Sum() float64 {
	return s.sum
}

/*
Sample returns the sample at the given sample index.
*/
func (s *Set) Sample(idx int) Sample {
	return s.samples[idx]
}

/*
Row returns the raw training row of the sample at the given index.
*/
func (s *Set) Row(idx int) int {
	return s.rows[idx]
}

/*
SampleIndex takes a raw training row and returns its sample index and
whether the row is in the bag.
*/
func (s *Set) SampleIndex(row int) (int, bool) {
	idx := s.sampleOf[row]
	return idx, idx >= 0
}
