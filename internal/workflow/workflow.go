// Package workflow implements the checklist auto-population pass for
// Attest as a state graph: load the checklist items and the artifact
// pool, match artifacts to uncovered descriptors, persist the links and
// recompute coverage. The pass is idempotent over an unchanged pool.
package workflow

import (
	"context"
	"fmt"
	"runtime"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs a single auto-population pass. It builds the state graph
// (load → match? → persist), executes it, and extracts the PassResult
// from the final state.
func Execute(ctx context.Context, rt *Runtime) (*PassResult, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	finalState, err := graph.Execute(ctx, state.New(nil))
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("attest-populate")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("load", LoadNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("match", MatchNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("persist", PersistNode(rt)); err != nil {
		return nil, err
	}

	// load → match (when there are items and artifacts to work with)
	if err := graph.AddEdge("load", "match", hasWork); err != nil {
		return nil, err
	}

	// load → persist (nothing to match, recompute coverage only)
	if err := graph.AddEdge("load", "persist", state.Not(hasWork)); err != nil {
		return nil, err
	}

	// match → persist (unconditional)
	if err := graph.AddEdge("match", "persist", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("load"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("persist"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State) (*PassResult, error) {
	val, ok := s.Get(KeyOutcomes)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyOutcomes)
	}

	outcomes, ok := val.([]ItemOutcome)
	if !ok {
		return nil, fmt.Errorf("%s is not []ItemOutcome", KeyOutcomes)
	}

	var matched int
	for _, o := range outcomes {
		matched += o.Matched
	}

	return &PassResult{
		ItemsProcessed:   len(outcomes),
		ArtifactsMatched: matched,
		Items:            outcomes,
		CompletedAt:      time.Now(),
	}, nil
}

func hasWork(s state.State) bool {
	val, ok := s.Get(KeyPopState)
	if !ok {
		return false
	}

	ps, ok := val.(PopulationState)
	if !ok {
		return false
	}

	return ps.HasWork()
}

func workerCount(itemCount int) int {
	return max(min(runtime.NumCPU(), itemCount), 1)
}
