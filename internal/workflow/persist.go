package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/attest-hq/attest/internal/checklists"
)

// PersistNode returns a state node that upserts the match links for each
// item and recomputes coverage and status. Upserts are keyed on the item
// and artifact pair, so re-running a pass never duplicates links.
func PersistNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		popState, err := extractPopState(s)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}

		outcomes := make([]ItemOutcome, 0, len(popState.Items))
		var matched int

		for i, item := range popState.Items {
			var itemMatches []checklists.MatchedArtifact
			if i < len(popState.Matches) {
				itemMatches = popState.Matches[i]
			}

			updated, err := rt.Checklists.ApplyMatches(ctx, item.ID, itemMatches)
			if err != nil {
				return s, fmt.Errorf("%w: item %s: %w", ErrPersistFailed, item.ID, err)
			}

			matched += len(itemMatches)
			outcomes = append(outcomes, ItemOutcome{
				ID:            updated.ID,
				Title:         updated.Title,
				Matched:       len(itemMatches),
				CoverageScore: updated.CoverageScore,
				Status:        updated.Status,
			})
		}

		rt.Logger.InfoContext(
			ctx, "persist node complete",
			"items", len(outcomes),
			"matched", matched,
		)

		s = s.Set(KeyOutcomes, outcomes)
		return s, nil
	})
}
