package justify

import (
	"github.com/fyerfyer/gatpg/pkg/circuit"
	"github.com/fyerfyer/gatpg/pkg/fault"
	"github.com/fyerfyer/gatpg/pkg/value"
)

// Extractor turns a fault's excitation + FFR-propagation requirements
// into a (possibly partially specified) TestVector by justifying them
// with a Justifier and reading the result back out at the PPI boundary.
// PPI nodes the backtrace never touched are left X: a cheaper substitute
// for DTPG's full SAT solve when only local FFR-level conditioning is
// needed (e.g. the local_obs checks fsim's SPSFP/SPPFP/PPSFP perform do
// not require a fully-specified vector at all).
type Extractor struct {
	graph     *circuit.Graph
	justifier *Justifier
}

// NewExtractor builds an Extractor over g.
func NewExtractor(g *circuit.Graph) *Extractor {
	return &Extractor{graph: g, justifier: NewJustifier(g)}
}

// Extract justifies f's excitation and FFR-propagation conditions and
// returns the resulting TestVector plus whether justification succeeded
// without conflict.
func (e *Extractor) Extract(f *fault.Fault, strategy Strategy) (*value.TestVector, bool) {
	target := append(fault.AssignList{}, f.Excitation...)
	target = target.Merge(f.FFRPropagate)

	partial, ok := e.justifier.Justify(target, strategy)

	ppi := e.graph.PPIList()
	numDFF := 0
	for _, id := range ppi {
		if e.graph.Node(id).Kind == circuit.DffOutput {
			numDFF++
		}
	}
	numPI := len(ppi) - numDFF
	tv := value.NewTestVector(numPI, numDFF, f.Kind == fault.TransitionDelay)

	piIdx, dffIdx := 0, 0
	for _, id := range ppi {
		v, has := partial[id]
		if !has {
			v = value.VX
		}
		if e.graph.Node(id).Kind == circuit.DffOutput {
			tv.DFF.Set(dffIdx, v)
			dffIdx++
		} else {
			tv.PI.Set(piIdx, v)
			piIdx++
		}
	}
	return tv, ok
}
