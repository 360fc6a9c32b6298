package migration

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Runner executes an ordered list of operations against one shared Env.
// Execution is strictly sequential: later operations may read deferred
// values that only exist once an earlier operation's receipt was confirmed.
// The first error aborts the run; confirmed transactions are not rolled
// back because they cannot be.
type Runner struct {
	ops []Operation
}

func NewRunner(ops ...Operation) *Runner {
	return &Runner{ops: ops}
}

// Run executes every operation in order, merging each result's deferred
// values into the registry before the next step starts. It returns the
// per-step results in execution order.
func (r *Runner) Run(ctx context.Context, env *Env) ([]Result, error) {
	if env.Registry == nil {
		env.Registry = NewRegistry()
	}

	runID := uuid.New().String()
	env.Logger.Info("starting migration run %s (%d steps)", runID, len(r.ops))

	results := make([]Result, 0, len(r.ops))
	for i, op := range r.ops {
		env.Logger.Info("step %d/%d: %s", i+1, len(r.ops), op.Name())

		res, err := op.Execute(ctx, env)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, op.Name(), err)
		}

		env.Registry.Merge(res)
		results = append(results, res)
	}

	env.Logger.Info("migration run %s complete", runID)
	return results, nil
}
