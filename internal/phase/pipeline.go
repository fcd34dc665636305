package phase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Pipeline orchestrates the execution of phase commands in dependency order.
type Pipeline struct {
	registry *Registry
}

// NewPipeline creates a pipeline over the given registry.
func NewPipeline(registry *Registry) *Pipeline {
	return &Pipeline{registry: registry}
}

// ExecutionPlan represents the planned execution order of phases.
type ExecutionPlan struct {
	Order []Name
	Graph map[Name][]Name // adjacency list: dependency -> dependents
}

// ExecutionResult collects per-phase outcomes of one pipeline run.
type ExecutionResult struct {
	ExecutedPhases map[Name]Execution
	Plan           *ExecutionPlan
	Canceled       bool
}

// BuildExecutionPlan creates an execution plan based on command dependencies.
// Dependencies are added transitively, so any entry point is safe to invoke
// standalone.
func (p *Pipeline) BuildExecutionPlan(phases []Name) (*ExecutionPlan, error) {
	if len(phases) == 0 {
		return &ExecutionPlan{Order: []Name{}, Graph: make(map[Name][]Name)}, nil
	}

	for _, name := range phases {
		if _, exists := p.registry.Get(name); !exists {
			return nil, fmt.Errorf("phase %s not found in registry", name)
		}
	}

	graph := make(map[Name][]Name)
	inDegree := make(map[Name]int)

	phaseSet := make(map[Name]bool)
	for _, name := range phases {
		phaseSet[name] = true
	}

	// Add dependencies transitively
	var addDependencies func(Name) error
	addDependencies = func(name Name) error {
		cmd, exists := p.registry.Get(name)
		if !exists {
			return fmt.Errorf("dependency %s not found", name)
		}

		for _, dep := range cmd.Dependencies() {
			if !phaseSet[dep] {
				phaseSet[dep] = true
				if err := addDependencies(dep); err != nil {
					return err
				}
			}
			graph[dep] = append(graph[dep], name)
		}
		return nil
	}

	for _, name := range phases {
		if err := addDependencies(name); err != nil {
			return nil, fmt.Errorf("resolving dependencies for %s: %w", name, err)
		}
	}

	for name := range phaseSet {
		inDegree[name] = 0
	}
	for _, dependents := range graph {
		for _, dependent := range dependents {
			inDegree[dependent]++
		}
	}

	// Topological sort with sorted queues for deterministic order
	var order []Name
	queue := make([]Name, 0)
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		dependents := graph[current]
		sort.Slice(dependents, func(i, j int) bool { return dependents[i] < dependents[j] })

		for _, dependent := range dependents {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(phaseSet) {
		return nil, fmt.Errorf("circular dependency detected among phases")
	}

	return &ExecutionPlan{Order: order, Graph: graph}, nil
}

// Execute runs the pipeline for the requested phases. Execution is sequential
// and fail-fast: the first phase failure aborts the run, and later steps are
// never started. Each phase in the plan runs exactly once even when several
// requested phases depend on it.
func (p *Pipeline) Execute(ctx context.Context, bs *BuildState, phases ...Name) (*ExecutionResult, error) {
	plan, err := p.BuildExecutionPlan(phases)
	if err != nil {
		return nil, fmt.Errorf("building execution plan: %w", err)
	}

	slog.Info("Executing pipeline",
		slog.Int("phases", len(plan.Order)),
		slog.Any("order", plan.Order))

	result := &ExecutionResult{
		ExecutedPhases: make(map[Name]Execution),
		Plan:           plan,
	}

	for _, name := range plan.Order {
		select {
		case <-ctx.Done():
			result.ExecutedPhases[name] = Failure(ctx.Err())
			result.Canceled = true
			return result, ctx.Err()
		default:
		}

		cmd, exists := p.registry.Get(name)
		if !exists {
			err := fmt.Errorf("phase %s not found during execution", name)
			result.ExecutedPhases[name] = Failure(err)
			return result, err
		}

		started := time.Now()
		execution := cmd.Execute(ctx, bs)
		execution.Duration = time.Since(started)
		result.ExecutedPhases[name] = execution

		if !execution.IsSuccess() {
			return result, fmt.Errorf("phase %s: %w", name, execution.Err)
		}
	}

	return result, nil
}
