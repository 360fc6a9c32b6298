package migration

import "context"

// CustomFunc is the signature of user-supplied migration code.
type CustomFunc func(ctx context.Context, env *Env) (Result, error)

// RunCustomCode executes an injected callback with the execution context and
// returns its result unchanged. It is the escape hatch for steps that do not
// fit any of the provided operations; nothing is validated and the callback
// owns all side effects.
type RunCustomCode struct {
	BaseOperation
	name string
	fn   CustomFunc
}

func NewRunCustomCode(name string, fn CustomFunc) *RunCustomCode {
	return &RunCustomCode{name: name, fn: fn}
}

func (op *RunCustomCode) Name() string {
	if op.name != "" {
		return op.name
	}
	return "RunCustomCode"
}

func (op *RunCustomCode) Execute(ctx context.Context, env *Env) (Result, error) {
	return op.fn(ctx, env)
}
