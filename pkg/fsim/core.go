// Package fsim implements the packed-parallel fault simulator: SPSFP
// (single pattern, single fault), SPPFP (single pattern, parallel
// faults), and PPSFP (parallel patterns, parallel faults), all operating
// at FFR granularity against a fsimnet.Network mirror of the circuit.
package fsim

import (
	"github.com/fyerfyer/gatpg/pkg/circuit"
	"github.com/fyerfyer/gatpg/pkg/fault"
	"github.com/fyerfyer/gatpg/pkg/fsimnet"
	"github.com/fyerfyer/gatpg/pkg/value"
)

// Core runs the three simulation modes against a fixed network, fault
// model, and status registry. A Core (and the State/EventQueue it owns)
// is not safe for concurrent use; FsimParallel gives each worker its own.
type Core struct {
	Net      *fsimnet.Network
	Model    *fault.Model
	Status   *fault.StatusRegistry
	order    []int
	state    *fsimnet.State
	queue    *fsimnet.EventQueue
}

// NewCore builds a Core over the given network/model/status triple,
// allocating its own private simulation state.
func NewCore(net *fsimnet.Network, m *fault.Model, status *fault.StatusRegistry) *Core {
	return &Core{
		Net:    net,
		Model:  m,
		Status: status,
		order:  fsimnet.LevelOrder(net.Graph),
		state:  fsimnet.NewState(net),
		queue:  fsimnet.NewEventQueue(net),
	}
}

// loadVectorBroadcast broadcasts tv's PI/DFF bits across every lane (all
// 64 bits identical per node), suitable for SPSFP/SPPFP where only one
// pattern is under test. X bits default to 0.
func (c *Core) loadVectorBroadcast(tv *value.TestVector) {
	for i, id := range c.Net.Graph.PPIList() {
		var bit uint64
		v := piBit(c.Net.Graph, tv, i)
		if v == value.V1 {
			bit = ^uint64(0)
		}
		c.state.SetInput(id, bit)
	}
}

// piBit resolves the i-th PPI's value from tv: DFF-output PPIs read the
// DFF sub-vector and every other PPI reads the PI sub-vector, each in PPI
// list order within its own kind. Without a DFF sub-vector every PPI reads
// the PI sub-vector at its PPI index.
func piBit(g *circuit.Graph, tv *value.TestVector, ppiIdx int) value.Value3 {
	if tv.DFF == nil || tv.DFF.Len() == 0 {
		return tv.PI.Get(ppiIdx)
	}
	ppi := g.PPIList()
	isDFF := g.Node(ppi[ppiIdx]).Kind == circuit.DffOutput
	k := 0
	for _, id := range ppi[:ppiIdx] {
		if (g.Node(id).Kind == circuit.DffOutput) == isDFF {
			k++
		}
	}
	if isDFF {
		return tv.DFF.Get(k)
	}
	return tv.PI.Get(k)
}

func (c *Core) propagateGood() {
	c.state.PropagateAll(c.order)
}

// localObsScalar evaluates a fault's excitation+propagation condition
// against lane 0 only (valid when the state holds a single broadcast
// pattern, as every lane is identical).
func localObsScalar(st *fsimnet.State, f *fault.Fault) bool {
	check := func(a fault.Assign) bool {
		if a.Time != 0 {
			return true
		}
		bit := st.Values[a.Node] & 1
		want := uint64(0)
		if a.Value == value.V1 {
			want = 1
		}
		return bit == want
	}
	for _, a := range f.Excitation {
		if !check(a) {
			return false
		}
	}
	for _, a := range f.FFRPropagate {
		if !check(a) {
			return false
		}
	}
	return true
}

// localObsMask evaluates a fault's excitation+propagation condition
// lane-by-lane, returning a mask of lanes where it holds.
func localObsMask(st *fsimnet.State, f *fault.Fault) uint64 {
	mask := ^uint64(0)
	apply := func(a fault.Assign) {
		if a.Time != 0 {
			return
		}
		if a.Value == value.V1 {
			mask &= st.Values[a.Node]
		} else {
			mask &= ^st.Values[a.Node]
		}
	}
	for _, a := range f.Excitation {
		apply(a)
	}
	for _, a := range f.FFRPropagate {
		apply(a)
	}
	return mask
}

// SPSFP assigns tv's inputs, propagates the good circuit, and checks
// whether the given fault's local propagation condition holds and its
// effect reaches a PO. Returns the PO indices that observed it.
func (c *Core) SPSFP(tv *value.TestVector, f *fault.Fault) *value.DiffBits {
	c.loadVectorBroadcast(tv)
	c.propagateGood()

	if !localObsScalar(c.state, f) {
		return &value.DiffBits{}
	}

	c.queue.PutEvent(f.FFRRoot, 1)
	diff := c.queue.Simulate(c.state)

	out := &value.DiffBits{}
	for _, po := range diff.POs() {
		if diff.Bits(po)&1 != 0 {
			out.POIndices = append(out.POIndices, po)
		}
	}
	return out
}

// SPPFP simulates a single pattern against up to fsimnet's 64-lane width
// worth of FFRs per internal batch, reporting every fault id (restricted
// to faultIDs) that the pattern detects.
func (c *Core) SPPFP(tv *value.TestVector, faultIDs []int) map[int]*value.DiffBits {
	wanted := toSet(faultIDs)
	results := make(map[int]*value.DiffBits)

	c.loadVectorBroadcast(tv)
	c.propagateGood()

	ffrs := c.Net.Graph.FFRList()
	type slot struct {
		ffrIdx int
		faults []int
	}

	flushBatch := func(batch []slot) {
		if len(batch) == 0 {
			return
		}
		for k, s := range batch {
			c.queue.PutEvent(ffrs[s.ffrIdx].Root, uint64(1)<<uint(k))
		}
		diff := c.queue.Simulate(c.state)
		for k, s := range batch {
			bit := uint64(1) << uint(k)
			reached := false
			for _, po := range diff.POs() {
				if diff.Bits(po)&bit != 0 {
					reached = true
					break
				}
			}
			if !reached {
				continue
			}
			for _, fid := range s.faults {
				db, ok := results[fid]
				if !ok {
					db = &value.DiffBits{}
					results[fid] = db
				}
				for _, po := range diff.POs() {
					if diff.Bits(po)&bit != 0 {
						db.POIndices = append(db.POIndices, po)
					}
				}
			}
		}
	}

	var batch []slot
	for ffrIdx := range ffrs {
		var active []int
		for _, fid := range c.Model.FaultsInFFR(ffrIdx) {
			if !wanted[fid] || c.statusBlocks(fid) {
				continue
			}
			f := c.Model.Fault(fid)
			if localObsScalar(c.state, f) {
				active = append(active, fid)
			}
		}
		if len(active) == 0 {
			continue
		}
		batch = append(batch, slot{ffrIdx: ffrIdx, faults: active})
		if len(batch) == value.Width {
			flushBatch(batch)
			batch = nil
		}
	}
	flushBatch(batch)

	return results
}

// PPSFP loads up to value.Width TestVectors into distinct lanes (unused
// lanes stay zero and never detect anything), propagates the good circuit
// per-pattern, and for every undetected fault in faultIDs reports the
// lane mask on which it is detected.
func (c *Core) PPSFP(tvs []*value.TestVector, faultIDs []int) (*value.DiffBitsArray, map[int]uint64) {
	if len(tvs) > value.Width {
		tvs = tvs[:value.Width]
	}
	validMask := uint64(0)
	for i := range tvs {
		validMask |= uint64(1) << uint(i)
	}

	for _, id := range c.Net.Graph.PPIList() {
		c.state.SetInput(id, 0)
	}
	for lane, tv := range tvs {
		for i, id := range c.Net.Graph.PPIList() {
			if piBit(c.Net.Graph, tv, i) == value.V1 {
				c.state.Values[id] |= uint64(1) << uint(lane)
			}
		}
	}
	c.propagateGood()

	out := value.NewDiffBitsArray()
	detect := make(map[int]uint64)

	for ffrIdx, ffr := range c.Net.Graph.FFRList() {
		var req uint64
		faultsHere := make([]int, 0)
		for _, fid := range faultIDs {
			if c.statusBlocks(fid) {
				continue
			}
			f := c.Model.Fault(fid)
			if f.FFRRoot != ffr.Root {
				continue
			}
			faultsHere = append(faultsHere, fid)
			req |= localObsMask(c.state, f)
		}
		req &= validMask
		if req == 0 {
			continue
		}
		c.queue.PutEvent(ffr.Root, req)
		diff := c.queue.Simulate(c.state)
		for _, po := range diff.POs() {
			out.Record(po, diff.Bits(po))
		}
		for _, fid := range faultsHere {
			f := c.Model.Fault(fid)
			got := localObsMask(c.state, f) & diff.Union() & validMask
			if got != 0 {
				detect[fid] |= got
			}
		}
		_ = ffrIdx
	}

	return out, detect
}

func (c *Core) statusBlocks(fid int) bool {
	if c.Status == nil {
		return false
	}
	return c.Status.Skip(fid) || c.Status.Get(fid) != fault.Undetected
}

func toSet(ids []int) map[int]bool {
	m := make(map[int]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
