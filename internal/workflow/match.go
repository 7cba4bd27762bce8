package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/attest-hq/attest/internal/checklists"
	"github.com/attest-hq/attest/internal/evidence"
)

// MatchNode returns a state node that matches pool artifacts to each
// item's uncovered descriptors using bounded errgroup concurrency. Items
// are matched independently; descriptors already covered by an existing
// link keep their artifact, so a re-run over an unchanged pool produces
// identical assignments.
func MatchNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		popState, err := extractPopState(s)
		if err != nil {
			return s, fmt.Errorf("match: %w", err)
		}

		matches := make([][]checklists.MatchedArtifact, len(popState.Items))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workerCount(len(popState.Items)))

		for i := range popState.Items {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				matches[i] = matchItem(popState.Items[i], popState.Pool, rt.Threshold)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return s, fmt.Errorf("%w: %w", ErrMatchFailed, err)
		}

		var total int
		for _, m := range matches {
			total += len(m)
		}

		rt.Logger.InfoContext(
			ctx, "match node complete",
			"items", len(popState.Items),
			"matched", total,
		)

		popState.Matches = matches
		s = s.Set(KeyPopState, *popState)
		return s, nil
	})
}

// matchItem matches one item's uncovered descriptors against the pool,
// excluding artifacts the item is already linked to.
func matchItem(
	item checklists.AuditChecklistItem,
	pool []evidence.EvidenceArtifact,
	threshold float64,
) []checklists.MatchedArtifact {
	covered := make(map[string]bool, len(item.AutoArtifacts))
	linked := make(map[uuid.UUID]bool, len(item.AutoArtifacts))
	for _, m := range item.AutoArtifacts {
		covered[m.Descriptor] = true
		linked[m.ArtifactID] = true
	}

	var descriptors []string
	for _, d := range item.ExpectedEvidence {
		if !covered[d] {
			descriptors = append(descriptors, d)
		}
	}

	available := make([]evidence.EvidenceArtifact, 0, len(pool))
	for _, a := range pool {
		if !linked[a.ID] {
			available = append(available, a)
		}
	}

	return checklists.MatchArtifacts(descriptors, available, threshold)
}

func extractPopState(s state.State) (*PopulationState, error) {
	val, ok := s.Get(KeyPopState)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyPopState)
	}

	ps, ok := val.(PopulationState)
	if !ok {
		return nil, fmt.Errorf("%s is not PopulationState", KeyPopState)
	}

	return &ps, nil
}
