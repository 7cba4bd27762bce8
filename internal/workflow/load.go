package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// LoadNode returns a state node that loads the checklist items and the
// evidence artifact pool into the population state.
func LoadNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		items, err := rt.Checklists.Items(ctx)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}

		pool, err := rt.Evidence.Pool(ctx)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "load node complete",
			"items", len(items),
			"pool", len(pool),
		)

		s = s.Set(KeyPopState, PopulationState{
			Items: items,
			Pool:  pool,
		})
		return s, nil
	})
}
