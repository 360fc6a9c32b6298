package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseOperationIsNotExecutable(t *testing.T) {
	var base BaseOperation

	_, err := base.Execute(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestRunCustomCodeForwardsResult(t *testing.T) {
	env := testEnv(newFakeClient())

	var got *Env
	op := NewRunCustomCode("seed-registry", func(_ context.Context, env *Env) (Result, error) {
		got = env
		return Result{"custom": 42}, nil
	})

	res, err := op.Execute(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, Result{"custom": 42}, res)
	assert.Same(t, env, got)
	assert.Equal(t, "seed-registry", op.Name())
}

func TestRunCustomCodeForwardsError(t *testing.T) {
	boom := errors.New("boom")
	op := NewRunCustomCode("", func(context.Context, *Env) (Result, error) {
		return nil, boom
	})

	_, err := op.Execute(context.Background(), testEnv(newFakeClient()))
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, "RunCustomCode", op.Name())
}
