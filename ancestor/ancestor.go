/*
Package ancestor implements the ancestor map: a deque of per-level
layers recording, for every node and predictor still alive, where that
pair's observations were last restaged. Restaging is lazy, so a front
node's observations for a predictor may still sit with an ancestor
several levels back. The map resolves such references, replays the
branch paths samples took since the ancestor and brings the
observations forward on demand, flushing its rear eagerly only when
keeping old layers would cost more than restaging them.
*/
package ancestor

import (
	"fmt"

	"github.com/pbanos/arboretum/bv"
	"github.com/pbanos/arboretum/parallel"
	"github.com/pbanos/arboretum/partition"
)

/*
PathMax is the number of branch bits a sample path can represent, and
so the deepest layer a definition may live at before it is forcibly
flushed to the front.
*/
const PathMax = 8

/*
DefaultFlushFrac is the work-efficiency fraction used by FlushRear: a
run of rear layers is flushed when the definitions it holds are at most
this fraction of the whole backlog.
*/
const DefaultFlushFrac = 0.15

/*
Def locates the observations of one (node, predictor) pair at the
front: the buffer they sit in, their range within it and whether the
pair is a singleton, that is, all its observations share one rank.
*/
type Def struct {
	BufIdx    int
	Range     partition.Range
	Singleton bool
}

type cell struct {
	bufIdx    int8
	defined   bool
	singleton bool
}

type layer struct {
	splitCount int
	cells      []cell
	ranges     []partition.Range
	reached    []bool
	defCount   int
}

func (l *layer) cell(node, pred, nPred int) *cell {
	return &l.cells[node*nPred+pred]
}

func (l *layer) undefine(node, pred, nPred int) {
	c := l.cell(node, pred, nPred)
	if c.defined {
		c.defined = false
		l.defCount--
	}
}

/*
Succ describes one node of a fresh front level: the front node it
split from and the branch bit that produced it, 0 for the true branch
and 1 for the false branch, together with its observation range.
*/
type Succ struct {
	Parent int
	Bit    uint8
	Range  partition.Range
}

/*
Map tracks reaching definitions over the levels of one growing tree.
The zero back distance is the front level itself; layers behind it are
kept until flushed. Map also owns the per-sample branch paths that
restaging replays.
*/
type Map struct {
	part      *partition.Partition
	nPred     int
	flushFrac float64

	// layers[0] is the front; layers[del] sits del levels back.
	layers []*layer
	// history[del-1][node] is the ancestor of front node at del back.
	history [][]int
	// nodePaths[node] holds the branch bits of front node since the
	// root; its low del bits locate it under its ancestor del back.
	nodePaths []uint8

	paths []uint8
	live  *bv.Vector
}

/*
New takes the staged observation partition, the predictor count, the
per-predictor staged rank counts and a flush fraction and returns the
ancestor map of a tree rooted over the whole bag. The root layer
defines every predictor in buffer 0; predictors staged with a single
rank start out singleton. A non-positive flush fraction falls back to
DefaultFlushFrac.
*/
func New(part *partition.Partition, nPred int, rankCounts []int, flushFrac float64) *Map {
	if flushFrac <= 0 {
		flushFrac = DefaultFlushFrac
	}
	nSamples := part.NSamples()
	root := &layer{
		splitCount: 1,
		cells:      make([]cell, nPred),
		ranges:     []partition.Range{{Start: 0, Extent: nSamples}},
		reached:    []bool{true},
	}
	for pred := 0; pred < nPred; pred++ {
		root.cells[pred] = cell{defined: true, singleton: rankCounts[pred] == 1}
		root.defCount++
	}
	live := bv.New(uint(nSamples))
	for i := 0; i < nSamples; i++ {
		live.Set(uint(i))
	}
	return &Map{
		part:      part,
		nPred:     nPred,
		flushFrac: flushFrac,
		layers:    []*layer{root},
		nodePaths: make([]uint8, 1),
		paths:     make([]uint8, nSamples),
		live:      live,
	}
}

/*
Depth returns the number of retained layers, the front included.
*/
func (m *Map) Depth() int {
	return len(m.layers)
}

/*
Live returns whether the sample at the given index is still reaching
some front node.
*/
func (m *Map) Live(sampleIdx int) bool {
	return m.live.Test(uint(sampleIdx))
}

/*
FrontRange returns the observation range of the given front node.
*/
func (m *Map) FrontRange(node int) partition.Range {
	return m.layers[0].ranges[node]
}

/*
Advance takes the successors chosen for the current front and a sample
placement function and pushes them as the new front level. The
placement function maps a live sample to its new node, or to a negative
node if its old node went terminal; such samples go extinct. Advance
replays every sample's branch bit into its path, rebuilds the ancestor
histories and then flushes the rear per the map's policy.
*/
func (m *Map) Advance(succ []Succ, place func(sampleIdx int) int) {
	for s := 0; s < m.part.NSamples(); s++ {
		if !m.live.Test(uint(s)) {
			continue
		}
		node := place(s)
		if node < 0 {
			m.live.Clear(uint(s))
			continue
		}
		m.paths[s] = m.paths[s]<<1 | succ[node].Bit
	}

	next := &layer{
		splitCount: len(succ),
		cells:      make([]cell, len(succ)*m.nPred),
		ranges:     make([]partition.Range, len(succ)),
		reached:    make([]bool, len(succ)),
	}
	nodePaths := make([]uint8, len(succ))
	for n, sc := range succ {
		next.ranges[n] = sc.Range
		next.reached[n] = true
		nodePaths[n] = m.nodePaths[sc.Parent]<<1 | sc.Bit
	}

	history := make([][]int, len(m.layers))
	history[0] = make([]int, len(succ))
	for n, sc := range succ {
		history[0][n] = sc.Parent
	}
	for del := 1; del < len(m.layers); del++ {
		history[del] = make([]int, len(succ))
		for n, sc := range succ {
			history[del][n] = m.history[del-1][sc.Parent]
		}
	}

	m.layers = append([]*layer{next}, m.layers...)
	m.history = history
	m.nodePaths = nodePaths

	m.flushRear()
}

/*
flushRear trims the deque: definitions past the representable path
depth are flushed unconditionally, definitions no front node reaches
are purged in a backward walk, and then whole rear layers are flushed
while their cumulative definition count stays within the flush fraction
of the backlog. Emptied rear layers are retired.
*/
func (m *Map) flushRear() {
	for del := PathMax; del < len(m.layers); del++ {
		m.flushLayer(del)
	}

	m.markReached()
	for del := len(m.layers) - 1; del >= 1; del-- {
		l := m.layers[del]
		for node := 0; node < l.splitCount; node++ {
			if l.reached[node] {
				continue
			}
			for pred := 0; pred < m.nPred; pred++ {
				l.undefine(node, pred, m.nPred)
			}
		}
	}

	backlog := 0
	for del := 1; del < len(m.layers); del++ {
		backlog += m.layers[del].defCount
	}
	cumulative := 0
	for del := len(m.layers) - 1; del >= 1; del-- {
		cumulative += m.layers[del].defCount
		if float64(cumulative) > m.flushFrac*float64(backlog) {
			break
		}
		m.flushLayer(del)
	}

	for len(m.layers) > 1 && m.layers[len(m.layers)-1].defCount == 0 {
		m.layers = m.layers[:len(m.layers)-1]
		m.history = m.history[:len(m.layers)-1]
	}
}

func (m *Map) markReached() {
	for del := 1; del < len(m.layers); del++ {
		l := m.layers[del]
		for node := range l.reached {
			l.reached[node] = false
		}
		for _, anc := range m.history[del-1] {
			l.reached[anc] = true
		}
	}
}

/*
flushLayer restages every remaining definition of the layer at the
given back distance to the front.
*/
func (m *Map) flushLayer(del int) {
	l := m.layers[del]
	if l.defCount == 0 {
		return
	}
	for node := 0; node < l.splitCount; node++ {
		for pred := 0; pred < m.nPred; pred++ {
			if l.cell(node, pred, m.nPred).defined {
				m.restage(del, node, pred)
			}
		}
	}
}

/*
IsSingleton takes a front node and a predictor and reports whether the
pair's most recent definition is a singleton, without restaging it.
*/
func (m *Map) IsSingleton(node, pred int) bool {
	del, anc := m.reachingDef(node, pred)
	return m.layers[del].cell(anc, pred, m.nPred).singleton
}

/*
Reach takes a front node and a predictor and returns the pair's front
definition, restaging from its most recent ancestor definition first if
the front holds none.
*/
func (m *Map) Reach(node, pred int) Def {
	front := m.layers[0]
	if !front.cell(node, pred, m.nPred).defined {
		del, anc := m.reachingDef(node, pred)
		m.restage(del, anc, pred)
	}
	c := front.cell(node, pred, m.nPred)
	return Def{
		BufIdx:    int(c.bufIdx),
		Range:     front.ranges[node],
		Singleton: c.singleton,
	}
}

/*
Coord names one (front node, predictor) pair.
*/
type Coord struct {
	Node, Pred int
}

/*
ReachAll takes the coordinates of the pairs about to be split and a
worker bound and brings every one of their definitions to the front,
fanning the underlying observation moves over the workers. Distinct
coordinates resolving to the same ancestor definition are restaged
once. After ReachAll returns, Reach on any of the coordinates finds a
front definition without further restaging.
*/
func (m *Map) ReachAll(coords []Coord, workers int) {
	var jobs []*restageJob
	planned := map[[3]int]bool{}
	for _, co := range coords {
		if m.layers[0].cell(co.Node, co.Pred, m.nPred).defined {
			continue
		}
		del, anc := m.reachingDef(co.Node, co.Pred)
		key := [3]int{del, anc, co.Pred}
		if planned[key] {
			continue
		}
		planned[key] = true
		jobs = append(jobs, m.planRestage(del, anc, co.Pred))
	}
	parallel.For(len(jobs), workers, func(i int) {
		m.runRestage(jobs[i])
	})
	for _, job := range jobs {
		m.commitRestage(job)
	}
}

/*
reachingDef walks back from the front and returns the back distance and
ancestor node of the most recent definition of (node, pred). A missing
definition is a bookkeeping fault and panics.
*/
func (m *Map) reachingDef(node, pred int) (int, int) {
	if m.layers[0].cell(node, pred, m.nPred).defined {
		return 0, node
	}
	for del := 1; del < len(m.layers); del++ {
		anc := m.history[del-1][node]
		if m.layers[del].cell(anc, pred, m.nPred).defined {
			return del, anc
		}
	}
	panic(fmt.Sprintf("ancestor: no reaching definition for node %d predictor %d", node, pred))
}

type restageJob struct {
	del, mrra, pred int
	srcBuf          int
	rng             partition.Range
	mask            uint8
	spanOf          []int
	nodes           []int
	spans           []partition.PathSpan
}

/*
restage brings the definition of ancestor node mrra at back distance
del forward for the given predictor, stably partitioning its
observations among the front nodes its samples reach and defining the
pair there. The ancestor's definition is consumed.
*/
func (m *Map) restage(del, mrra, pred int) {
	job := m.planRestage(del, mrra, pred)
	m.runRestage(job)
	m.commitRestage(job)
}

/*
planRestage locates the ancestor definition and lays out the front
spans its observations will land in: one span per descending front
node, keyed by the branch bits separating the node from mrra.
*/
func (m *Map) planRestage(del, mrra, pred int) *restageJob {
	l := m.layers[del]
	c := l.cell(mrra, pred, m.nPred)
	if !c.defined {
		panic("ancestor: restage of an undefined ancestor")
	}
	if del == 0 {
		panic("ancestor: restage of a front definition")
	}
	job := &restageJob{
		del:    del,
		mrra:   mrra,
		pred:   pred,
		srcBuf: int(c.bufIdx),
		rng:    l.ranges[mrra],
		mask:   uint8(1<<uint(del) - 1),
	}
	job.spanOf = make([]int, int(job.mask)+1)
	for i := range job.spanOf {
		job.spanOf[i] = -1
	}
	for n := 0; n < m.layers[0].splitCount; n++ {
		if m.history[del-1][n] != mrra {
			continue
		}
		job.spanOf[m.nodePaths[n]&job.mask] = len(job.spans)
		job.nodes = append(job.nodes, n)
		job.spans = append(job.spans, partition.PathSpan{Start: m.layers[0].ranges[n].Start})
	}
	return job
}

/*
runRestage moves the job's observations to the other buffer. Jobs over
distinct (mrra, predictor) pairs write disjoint ranges, so runRestage
may be called concurrently for them.
*/
func (m *Map) runRestage(job *restageJob) {
	m.part.Restage(job.pred, job.srcBuf, job.rng, func(sampleIdx int) int {
		if !m.live.Test(uint(sampleIdx)) {
			return -1
		}
		span := job.spanOf[m.paths[sampleIdx]&job.mask]
		if span < 0 {
			panic(fmt.Sprintf("ancestor: live sample %d reaches no front node", sampleIdx))
		}
		return span
	}, job.spans)
}

/*
commitRestage records the restaged spans as front definitions and
consumes the ancestor's. Every span must hold exactly its node's
extent, the whole of the node's live samples.
*/
func (m *Map) commitRestage(job *restageJob) {
	front := m.layers[0]
	for i, n := range job.nodes {
		if job.spans[i].Count != front.ranges[n].Extent {
			panic(fmt.Sprintf("ancestor: restaged %d observations into node %d of extent %d", job.spans[i].Count, n, front.ranges[n].Extent))
		}
		fc := front.cell(n, job.pred, m.nPred)
		if fc.defined {
			panic(fmt.Sprintf("ancestor: node %d predictor %d already defined at front", n, job.pred))
		}
		*fc = cell{
			bufIdx:    int8(1 - job.srcBuf),
			defined:   true,
			singleton: job.spans[i].RankCount == 1,
		}
		front.defCount++
	}
	l := m.layers[job.del]
	l.cell(job.mrra, job.pred, m.nPred).defined = false
	l.defCount--
}
