package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TransactContract submits a state-changing call to a method of an already
// deployed contract. The contract address is resolved by the caller (for
// example from the registry key an earlier DeployContract published); this
// operation takes it as a concrete value.
type TransactContract struct {
	BaseOperation
	contract string
	method   string
	address  common.Address
	tx       TxSpec
	args     []any
	autoGas  bool
	timeout  time.Duration
}

type TransactOption func(*TransactContract)

// WithTransactTx sets caller-supplied transaction fields for the call.
func WithTransactTx(spec TxSpec) TransactOption {
	return func(op *TransactContract) { op.tx = spec }
}

// WithMethodArgs sets the method arguments, in order.
func WithMethodArgs(args ...any) TransactOption {
	return func(op *TransactContract) { op.args = args }
}

// WithTransactManualGas disables automatic gas budgeting for the call. The
// caller's choice is authoritative here: gas budgeting only runs when it was
// actually requested.
func WithTransactManualGas() TransactOption {
	return func(op *TransactContract) { op.autoGas = false }
}

// WithTransactTimeout overrides the confirmation timeout. Zero disables
// waiting.
func WithTransactTimeout(d time.Duration) TransactOption {
	return func(op *TransactContract) { op.timeout = d }
}

func NewTransactContract(contract, method string, address common.Address, opts ...TransactOption) (*TransactContract, error) {
	op := &TransactContract{
		contract: contract,
		method:   method,
		address:  address,
		autoGas:  true,
		timeout:  DefaultConfirmationTimeout,
	}
	for _, opt := range opts {
		opt(op)
	}

	if contract == "" {
		return nil, &ConfigError{Op: op.Name(), Reason: "contract name is required"}
	}
	if method == "" {
		return nil, &ConfigError{Op: op.Name(), Reason: "method name is required"}
	}
	if op.autoGas && op.tx.hasGas() {
		return nil, &ConfigError{Op: op.Name(), Reason: "cannot combine automatic gas budgeting with an explicit gas value"}
	}
	return op, nil
}

func (op *TransactContract) Name() string { return "TransactContract" }

func (op *TransactContract) Execute(ctx context.Context, env *Env) (Result, error) {
	artifact, ok := env.Artifacts[op.contract]
	if !ok {
		return nil, fmt.Errorf("no compiled artifact for contract %q", op.contract)
	}
	factory, err := newContractFactory(op.contract, artifact)
	if err != nil {
		return nil, err
	}

	// fails on an unknown method before anything is submitted
	data, err := factory.packMethod(op.method, op.args...)
	if err != nil {
		return nil, err
	}

	spec := op.tx.clone()

	if op.autoGas {
		gas, err := op.budgetGas(ctx, env, spec, data)
		if err != nil {
			return nil, err
		}
		spec.Gas = gas
	}

	tx, err := buildAndSubmit(ctx, env, spec, &op.address, data)
	if err != nil {
		return nil, fmt.Errorf("transact %s.%s: %w", op.contract, op.method, err)
	}
	env.Logger.Info("calling %s.%s on %s (tx %s)", op.contract, op.method, op.address.Hex(), tx.Hash().Hex())

	if op.timeout > 0 {
		receipt, err := env.Client.WaitForReceipt(ctx, tx.Hash(), op.timeout)
		if err != nil {
			return nil, &ConfirmationTimeoutError{
				Op:      op.Name(),
				TxHash:  tx.Hash(),
				Timeout: op.timeout,
				Err:     err,
			}
		}
		if receipt.Status == types.ReceiptStatusFailed {
			return nil, fmt.Errorf("transact %s.%s: transaction %s reverted", op.contract, op.method, tx.Hash().Hex())
		}
	}

	// key kept aligned with DeployContract so result shapes match
	return Result{ResultDeployTxHash: tx.Hash()}, nil
}

func (op *TransactContract) budgetGas(ctx context.Context, env *Env, spec TxSpec, data []byte) (uint64, error) {
	from := spec.From
	if from == (common.Address{}) {
		from = env.Signer.Address()
	}

	estimate, err := env.Client.EstimateGas(ctx, ethereum.CallMsg{
		From:     from,
		To:       &op.address,
		Value:    spec.Value,
		GasPrice: spec.GasPrice,
		Data:     data,
	})
	if err != nil {
		return 0, fmt.Errorf("transact %s.%s: failed to estimate gas: %w", op.contract, op.method, err)
	}

	limit, err := env.Client.BlockGasLimit(ctx)
	if err != nil {
		return 0, fmt.Errorf("transact %s.%s: failed to fetch block gas limit: %w", op.contract, op.method, err)
	}

	gas, err := BudgetGas(estimate, limit)
	if err != nil {
		return 0, fmt.Errorf("transact %s.%s: %w", op.contract, op.method, err)
	}
	return gas, nil
}
