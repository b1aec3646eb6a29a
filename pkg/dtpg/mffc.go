package dtpg

import "github.com/fyerfyer/gatpg/pkg/fault"

// MFFCBatch generates tests for every fault rooted within a single MFFC by
// building one shared CNF over the MFFC's combined TFO cone (the logic
// outside any individual fault's own FFR is identical across faults in
// the same MFFC, so building it once and re-solving under each fault's
// own assumptions avoids re-encoding it per fault).
func (e *Engine) MFFCBatch(mffcRoot int) []Outcome {
	ids := e.model.FaultsInMFFC(mffcRoot)
	if len(ids) == 0 {
		return nil
	}

	sess := e.buildSession(mffcRoot)
	out := make([]Outcome, len(ids))
	for i, fid := range ids {
		f := e.model.Fault(fid)
		out[i] = sess.testForFault(f)
	}
	return out
}

// GenerateAll runs GenerateTest (or, when the fault's FFR root coincides
// with an MFFC root shared by siblings, the batched MFFC path) for every
// fault in the model, skipping ids the status registry already marks
// resolved.
func (e *Engine) GenerateAll(status *fault.StatusRegistry) map[int]Outcome {
	results := make(map[int]Outcome)
	seen := make(map[int]bool)

	for _, f := range e.model.FaultList() {
		if seen[f.ID] {
			continue
		}
		if status != nil && status.Get(f.ID) != fault.Undetected {
			continue
		}
		mffcRoot := e.graph.Node(f.FFRRoot).MFFCRoot
		siblings := e.model.FaultsInMFFC(mffcRoot)
		if len(siblings) > 1 {
			outs := e.MFFCBatch(mffcRoot)
			for i, fid := range siblings {
				seen[fid] = true
				if status != nil && status.Get(fid) != fault.Undetected {
					continue
				}
				results[fid] = outs[i]
			}
			continue
		}
		results[f.ID] = e.GenerateTest(f)
		seen[f.ID] = true
	}
	return results
}
