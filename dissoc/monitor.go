package dissoc

import (
	"github.com/poiesic/neuroq/core"
)

// Monitor provides hooks to observe a dissociation evaluation.
// Implement this interface to track intermediate stages and results.
// Hooks are called sequentially from the evaluating goroutine.
type Monitor interface {
	Start(a, b core.Predicate)
	AfterMatch(predicate core.Predicate, matches core.MatchSet)
	AfterDifference(ids []core.StudyID, total int)
	AfterWeightBackfill(filled int)
	Finish(result *core.DissociationResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ core.Predicate)                    {}
func (n *noopMonitor) AfterMatch(_ core.Predicate, _ core.MatchSet) {}
func (n *noopMonitor) AfterDifference(_ []core.StudyID, _ int)      {}
func (n *noopMonitor) AfterWeightBackfill(_ int)                    {}
func (n *noopMonitor) Finish(_ *core.DissociationResult)            {}
