/*
Package pretree implements the pre-tree: the append-only node sequence
a frontier emits while growing, finished into a decision tree once
growth stops. Splitting a node always allocates both its children at
once, terminal until they split in turn, so the sequence is complete at
every point of growth. Categorical criteria keep their branch
memberships in one shared append-only bit vector, every criterion
claiming a stretch the size of its predictor's cardinality.
*/
package pretree

import (
	"fmt"
	"strings"

	"github.com/pbanos/arboretum/bheap"
	"github.com/pbanos/arboretum/bv"
)

type node struct {
	terminal  bool
	dead      bool
	pred      int
	isFactor  bool
	cutValue  float64
	bitsStart uint
	bitsLen   uint
	trueChild int
	parent    int
	info      float64
	score     float64
	extent    int
}

/*
PreTree is a decision tree under assembly. Node 0 is the root; the two
children of a split occupy consecutive slots, the true branch first.
*/
type PreTree struct {
	nodes     []node
	splitBits *bv.Vector
	leafCount int
}

/*
New returns a PreTree holding a single terminal root.
*/
func New() *PreTree {
	return &PreTree{
		nodes:     []node{{terminal: true, parent: -1}},
		splitBits: bv.New(0),
		leafCount: 1,
	}
}

/*
NNodes returns the number of nodes allocated so far.
*/
func (pt *PreTree) NNodes() int {
	return len(pt.nodes)
}

/*
LeafCount returns the number of terminal nodes.
*/
func (pt *PreTree) LeafCount() int {
	return pt.leafCount
}

/*
AddCriterionCut takes a terminal node, a numeric predictor, the
splitting value and the split's information, makes the node internal
over that criterion and allocates its two terminal children, returning
the true child's id; the false child follows it.
*/
func (pt *PreTree) AddCriterionCut(ptID, pred int, cutValue, info float64) int {
	n := &pt.nodes[ptID]
	pt.checkTerminal(ptID)
	n.terminal = false
	n.pred = pred
	n.isFactor = false
	n.cutValue = cutValue
	n.info = info
	return pt.offspring(ptID)
}

/*
AddCriterionBits takes a terminal node, a categorical predictor, the
predictor's branch memberships indexed by category and the split's
information, makes the node internal over that criterion and allocates
its two terminal children, returning the true child's id; the false
child follows it. Memberships are copied into the shared bit vector.
*/
func (pt *PreTree) AddCriterionBits(ptID, pred int, bits []bool, info float64) int {
	pt.checkTerminal(ptID)
	start := pt.splitBits.Extend(uint(len(bits)))
	for i, b := range bits {
		if b {
			pt.splitBits.Set(start + uint(i))
		}
	}
	n := &pt.nodes[ptID]
	n.terminal = false
	n.pred = pred
	n.isFactor = true
	n.bitsStart = start
	n.bitsLen = uint(len(bits))
	n.info = info
	return pt.offspring(ptID)
}

func (pt *PreTree) checkTerminal(ptID int) {
	if !pt.nodes[ptID].terminal {
		panic(fmt.Sprintf("pretree: criterion added to internal node %d", ptID))
	}
}

func (pt *PreTree) offspring(ptID int) int {
	trueChild := len(pt.nodes)
	pt.nodes[ptID].trueChild = trueChild
	pt.nodes = append(pt.nodes,
		node{terminal: true, parent: ptID},
		node{terminal: true, parent: ptID},
	)
	pt.leafCount++
	return trueChild
}

/*
SetScore takes a node and the value it would predict as a leaf and
records it. Scores are recorded for every node as it is produced, so a
later merge can turn any internal node back into a scored leaf.
*/
func (pt *PreTree) SetScore(ptID int, score float64) {
	pt.nodes[ptID].score = score
}

/*
SetExtent records the number of samples that reached the node.
*/
func (pt *PreTree) SetExtent(ptID, extent int) {
	pt.nodes[ptID].extent = extent
}

/*
IsLeaf returns whether the node is terminal.
*/
func (pt *PreTree) IsLeaf(ptID int) bool {
	return pt.nodes[ptID].terminal
}

/*
Pred returns the splitting predictor of an internal node.
*/
func (pt *PreTree) Pred(ptID int) int {
	return pt.nodes[ptID].pred
}

/*
IsFactor returns whether an internal node splits a categorical
predictor.
*/
func (pt *PreTree) IsFactor(ptID int) bool {
	return pt.nodes[ptID].isFactor
}

/*
CutValue returns the splitting value of an internal node over a numeric
predictor.
*/
func (pt *PreTree) CutValue(ptID int) float64 {
	return pt.nodes[ptID].cutValue
}

/*
Bits returns the branch memberships of an internal node over a
categorical predictor, indexed by category: true routes the category to
the true branch.
*/
func (pt *PreTree) Bits(ptID int) []bool {
	n := &pt.nodes[ptID]
	bits := make([]bool, n.bitsLen)
	for i := range bits {
		bits[i] = pt.splitBits.Test(n.bitsStart + uint(i))
	}
	return bits
}

/*
TrueChild returns the true-branch child of an internal node; the
false-branch child is the slot after it.
*/
func (pt *PreTree) TrueChild(ptID int) int {
	return pt.nodes[ptID].trueChild
}

/*
Score returns the recorded leaf score of the node.
*/
func (pt *PreTree) Score(ptID int) float64 {
	return pt.nodes[ptID].score
}

/*
Info returns the information gain recorded by the node's split.
*/
func (pt *PreTree) Info(ptID int) float64 {
	return pt.nodes[ptID].info
}

/*
Extent returns the number of samples that reached the node.
*/
func (pt *PreTree) Extent(ptID int) int {
	return pt.nodes[ptID].extent
}

/*
LeafMerge takes a leaf cap and, while the tree has more leaves than the
cap, turns the least informative internal node whose children are both
leaves back into a leaf. Merged-away children are removed and the
surviving nodes renumbered, so ids held across a merge go stale.
Merging is idempotent: a tree already within the cap is left alone.
*/
func (pt *PreTree) LeafMerge(maxLeaf int) {
	if maxLeaf < 1 || pt.leafCount <= maxLeaf {
		return
	}
	h := &bheap.Heap{}
	for ptID := range pt.nodes {
		if pt.mergeable(ptID) {
			h.Insert(pt.nodes[ptID].info, ptID)
		}
	}
	for pt.leafCount > maxLeaf {
		if h.Len() == 0 {
			panic("pretree: leaf cap unreachable")
		}
		ptID := h.Pop()
		n := &pt.nodes[ptID]
		pt.nodes[n.trueChild].dead = true
		pt.nodes[n.trueChild+1].dead = true
		n.terminal = true
		pt.leafCount--
		if n.parent >= 0 && pt.mergeable(n.parent) {
			h.Insert(pt.nodes[n.parent].info, n.parent)
		}
	}
	pt.compact()
}

/*
compact drops merged-away nodes and renumbers the survivors. A merge
collapses both children of a split at once, so sibling pairs stay
adjacent and the true child keeps the slot before the false one.
*/
func (pt *PreTree) compact() {
	remap := make([]int, len(pt.nodes))
	live := 0
	for ptID := range pt.nodes {
		if pt.nodes[ptID].dead {
			remap[ptID] = -1
			continue
		}
		remap[ptID] = live
		pt.nodes[live] = pt.nodes[ptID]
		live++
	}
	pt.nodes = pt.nodes[:live]
	for ptID := range pt.nodes {
		n := &pt.nodes[ptID]
		if !n.terminal {
			n.trueChild = remap[n.trueChild]
		}
		if n.parent >= 0 {
			n.parent = remap[n.parent]
		}
	}
}

func (pt *PreTree) mergeable(ptID int) bool {
	n := &pt.nodes[ptID]
	return !n.terminal && pt.nodes[n.trueChild].terminal && pt.nodes[n.trueChild+1].terminal
}

/*
SplitBitWords returns the words backing the shared categorical branch
membership vector, for serialization.
*/
func (pt *PreTree) SplitBitWords() []uint64 {
	return pt.splitBits.Words()
}

/*
String returns a multiline rendering of the tree, one node per line,
children indented under their parent.
*/
func (pt *PreTree) String() string {
	var sb strings.Builder
	pt.subtreeString(&sb, 0, 0, "")
	return sb.String()
}

func (pt *PreTree) subtreeString(sb *strings.Builder, ptID, depth int, branch string) {
	sb.WriteString(strings.Repeat("  ", depth))
	if branch != "" {
		sb.WriteString(branch)
		sb.WriteString(" ")
	}
	n := &pt.nodes[ptID]
	if n.terminal {
		fmt.Fprintf(sb, "leaf score %g (%d samples)\n", n.score, n.extent)
		return
	}
	if n.isFactor {
		fmt.Fprintf(sb, "predictor %d in %v\n", n.pred, pt.trueCategories(ptID))
	} else {
		fmt.Fprintf(sb, "predictor %d <= %g\n", n.pred, n.cutValue)
	}
	pt.subtreeString(sb, n.trueChild, depth+1, "yes:")
	pt.subtreeString(sb, n.trueChild+1, depth+1, "no:")
}

func (pt *PreTree) trueCategories(ptID int) []int {
	var ctgs []int
	for i, b := range pt.Bits(ptID) {
		if b {
			ctgs = append(ctgs, i)
		}
	}
	return ctgs
}
