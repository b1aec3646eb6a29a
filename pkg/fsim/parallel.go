package fsim

import (
	"sync"

	"github.com/fyerfyer/gatpg/pkg/fault"
	"github.com/fyerfyer/gatpg/pkg/fsimnet"
	"github.com/fyerfyer/gatpg/pkg/value"
)

// cmdKind distinguishes the two parallel fault-simulation jobs a worker
// can be handed. There is no cancel kind: once a worker accepts a job it
// runs it to completion before the barrier releases.
type cmdKind int

const (
	cmdPPSFP cmdKind = iota
	cmdSPPFP
	cmdShutdown
)

type command struct {
	kind     cmdKind
	tvs      []*value.TestVector
	faultIDs []int
}

type workerResult struct {
	diff    *value.DiffBitsArray
	detect  map[int]uint64
	perFault map[int]*value.DiffBits
}

type worker struct {
	core   *Core
	cmdCh  chan command
	readyCh chan workerResult
}

// Parallel is a fixed-size pool of Core workers, each with its own private
// Network state, driven by a command/ready/barrier protocol: the caller
// partitions a fault list across workers, posts one command per worker,
// then blocks on the barrier (waiting for every worker's ready signal)
// before merging results and issuing the next command. A worker never
// receives a new command while mid-job.
type Parallel struct {
	workers []*worker
	wg      sync.WaitGroup
}

// NewParallel builds a pool of n workers, each wrapping its own Core over
// the shared (read-only after construction) net/model, and the shared
// StatusRegistry, which is already safe for concurrent access.
func NewParallel(net *fsimnet.Network, m *fault.Model, status *fault.StatusRegistry, n int) *Parallel {
	if n < 1 {
		n = 1
	}
	p := &Parallel{}
	for i := 0; i < n; i++ {
		w := &worker{
			core:    NewCore(net, m, status),
			cmdCh:   make(chan command),
			readyCh: make(chan workerResult, 1),
		}
		p.workers = append(p.workers, w)
		p.wg.Add(1)
		go p.loop(w)
	}
	return p
}

func (p *Parallel) loop(w *worker) {
	defer p.wg.Done()
	for cmd := range w.cmdCh {
		switch cmd.kind {
		case cmdShutdown:
			return
		case cmdPPSFP:
			diff, detect := w.core.PPSFP(cmd.tvs, cmd.faultIDs)
			w.readyCh <- workerResult{diff: diff, detect: detect}
		case cmdSPPFP:
			res := w.core.SPPFP(cmd.tvs[0], cmd.faultIDs)
			w.readyCh <- workerResult{perFault: res}
		}
	}
}

// Shutdown posts the shutdown command to every worker and waits for their
// goroutines to exit.
func (p *Parallel) Shutdown() {
	for _, w := range p.workers {
		w.cmdCh <- command{kind: cmdShutdown}
	}
	p.wg.Wait()
}

// shard splits ids into len(p.workers) contiguous slices, some possibly
// empty if there are fewer ids than workers.
func (p *Parallel) shard(ids []int) [][]int {
	out := make([][]int, len(p.workers))
	if len(ids) == 0 {
		return out
	}
	per := (len(ids) + len(p.workers) - 1) / len(p.workers)
	for i := range out {
		lo := i * per
		if lo >= len(ids) {
			continue
		}
		hi := lo + per
		if hi > len(ids) {
			hi = len(ids)
		}
		out[i] = ids[lo:hi]
	}
	return out
}

// RunPPSFP partitions faultIDs across the pool, has every worker run its
// own independent PPSFP pass over the same pattern batch, then barriers
// on all workers before merging their per-PO diff bits and per-fault
// detection masks.
func (p *Parallel) RunPPSFP(tvs []*value.TestVector, faultIDs []int) (*value.DiffBitsArray, map[int]uint64) {
	shards := p.shard(faultIDs)
	for i, w := range p.workers {
		w.cmdCh <- command{kind: cmdPPSFP, tvs: tvs, faultIDs: shards[i]}
	}

	merged := value.NewDiffBitsArray()
	detect := make(map[int]uint64)
	for _, w := range p.workers {
		res := <-w.readyCh
		if res.diff != nil {
			for _, po := range res.diff.POs() {
				merged.Record(po, res.diff.Bits(po))
			}
		}
		for fid, mask := range res.detect {
			detect[fid] |= mask
		}
	}
	return merged, detect
}

// RunSPPFP partitions faultIDs across the pool for a single-pattern,
// parallel-fault pass, barriers on every worker, then merges the per-fault
// diff-bit results.
func (p *Parallel) RunSPPFP(tv *value.TestVector, faultIDs []int) map[int]*value.DiffBits {
	shards := p.shard(faultIDs)
	for i, w := range p.workers {
		w.cmdCh <- command{kind: cmdSPPFP, tvs: []*value.TestVector{tv}, faultIDs: shards[i]}
	}

	merged := make(map[int]*value.DiffBits)
	for _, w := range p.workers {
		res := <-w.readyCh
		for fid, db := range res.perFault {
			merged[fid] = db
		}
	}
	return merged
}
