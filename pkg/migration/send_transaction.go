package migration

import (
	"context"
	"time"
)

// SendTransaction submits a raw transaction built from its TxSpec and, unless
// waiting was disabled, blocks until the transaction is confirmed.
type SendTransaction struct {
	BaseOperation
	tx      TxSpec
	timeout time.Duration
}

type SendOption func(*SendTransaction)

// WithSendTimeout overrides the confirmation timeout. Zero disables waiting
// entirely: the operation returns as soon as the transaction is submitted.
func WithSendTimeout(d time.Duration) SendOption {
	return func(op *SendTransaction) { op.timeout = d }
}

func NewSendTransaction(spec TxSpec, opts ...SendOption) *SendTransaction {
	op := &SendTransaction{tx: spec, timeout: DefaultConfirmationTimeout}
	for _, opt := range opts {
		opt(op)
	}
	return op
}

func (op *SendTransaction) Name() string { return "SendTransaction" }

func (op *SendTransaction) Execute(ctx context.Context, env *Env) (Result, error) {
	spec := op.tx.clone()

	tx, err := buildAndSubmit(ctx, env, spec, spec.To, spec.Data)
	if err != nil {
		return nil, err
	}
	env.Logger.Debug("submitted transaction %s", tx.Hash().Hex())

	if op.timeout > 0 {
		if _, err := env.Client.WaitForReceipt(ctx, tx.Hash(), op.timeout); err != nil {
			return nil, &ConfirmationTimeoutError{
				Op:      op.Name(),
				TxHash:  tx.Hash(),
				Timeout: op.timeout,
				Err:     err,
			}
		}
	}

	return Result{ResultTxHash: tx.Hash()}, nil
}
