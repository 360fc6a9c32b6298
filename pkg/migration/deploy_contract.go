package migration

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mellis0303/chainmigrate/pkg/compiler"
)

// DeployContract submits a contract-creation transaction for a named
// artifact, waits for the deployed address and verifies the on-chain code
// against the artifact's runtime bytecode.
type DeployContract struct {
	BaseOperation
	contract string
	tx       TxSpec
	args     []any
	autoGas  bool
	verify   bool
	timeout  time.Duration
}

type DeployOption func(*DeployContract)

// WithDeployTx sets caller-supplied transaction fields for the deployment.
func WithDeployTx(spec TxSpec) DeployOption {
	return func(op *DeployContract) { op.tx = spec }
}

// WithConstructorArgs sets the constructor arguments, in order.
func WithConstructorArgs(args ...any) DeployOption {
	return func(op *DeployContract) { op.args = args }
}

// WithManualGas disables automatic gas budgeting; the TxSpec's gas value is
// used as given.
func WithManualGas() DeployOption {
	return func(op *DeployContract) { op.autoGas = false }
}

// WithoutVerify skips the post-deploy bytecode comparison.
func WithoutVerify() DeployOption {
	return func(op *DeployContract) { op.verify = false }
}

// WithDeployTimeout overrides the confirmation timeout. Zero disables
// waiting, in which case no address is available and verification is
// impossible.
func WithDeployTimeout(d time.Duration) DeployOption {
	return func(op *DeployContract) { op.timeout = d }
}

func NewDeployContract(contract string, opts ...DeployOption) (*DeployContract, error) {
	op := &DeployContract{
		contract: contract,
		autoGas:  true,
		verify:   true,
		timeout:  DefaultConfirmationTimeout,
	}
	for _, opt := range opts {
		opt(op)
	}

	if contract == "" {
		return nil, &ConfigError{Op: op.Name(), Reason: "contract name is required"}
	}
	if op.tx.hasData() || op.tx.hasTo() {
		return nil, &ConfigError{Op: op.Name(), Reason: "transaction must not specify data or to"}
	}
	if op.autoGas && op.tx.hasGas() {
		return nil, &ConfigError{Op: op.Name(), Reason: "cannot combine automatic gas budgeting with an explicit gas value"}
	}
	if op.verify && op.timeout == 0 {
		return nil, &ConfigError{Op: op.Name(), Reason: "verifying a deployment requires a confirmation timeout"}
	}
	return op, nil
}

func (op *DeployContract) Name() string { return "DeployContract" }

func (op *DeployContract) Execute(ctx context.Context, env *Env) (Result, error) {
	return op.executeWith(ctx, env, env.Artifacts)
}

// executeWith runs the deployment against an explicit artifact table so
// DeployRegistrar can substitute a freshly compiled one.
func (op *DeployContract) executeWith(ctx context.Context, env *Env, artifacts compiler.Artifacts) (Result, error) {
	artifact, ok := artifacts[op.contract]
	if !ok {
		return nil, fmt.Errorf("no compiled artifact for contract %q", op.contract)
	}
	factory, err := newContractFactory(op.contract, artifact)
	if err != nil {
		return nil, err
	}

	payload, err := factory.encodeConstructor(op.args...)
	if err != nil {
		return nil, err
	}

	spec := op.tx.clone()

	if op.autoGas {
		gas, err := op.budgetGas(ctx, env, spec, payload)
		if err != nil {
			return nil, err
		}
		spec.Gas = gas
	}

	tx, err := buildAndSubmit(ctx, env, spec, nil, payload)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", op.contract, err)
	}
	env.Logger.Info("deploying %s (tx %s)", op.contract, tx.Hash().Hex())

	if op.timeout == 0 {
		return Result{ResultDeployTxHash: tx.Hash()}, nil
	}

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
		return nil, fmt.Errorf("deploy %s: transaction %s reverted", op.contract, tx.Hash().Hex())
	}

	address := receipt.ContractAddress

	if op.verify {
		code, err := env.Client.CodeAt(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("deploy %s: failed to read code at %s: %w", op.contract, address.Hex(), err)
		}
		if !bytes.Equal(code, artifact.RuntimeBytecode) {
			return nil, &VerificationError{Contract: op.contract, Address: address}
		}
	}

	env.Logger.Info("deployed %s at %s", op.contract, address.Hex())

	return Result{
		ResultContractAddress: address,
		ResultDeployTxHash:    tx.Hash(),
		ResultCanonicalAddress: DeferValue(
			ContractKey(op.contract), address,
		),
	}, nil
}

func (op *DeployContract) budgetGas(ctx context.Context, env *Env, spec TxSpec, payload []byte) (uint64, error) {
	from := spec.From
	if from == (common.Address{}) {
		from = env.Signer.Address()
	}

	estimate, err := env.Client.EstimateGas(ctx, ethereum.CallMsg{
		From:     from,
		Value:    spec.Value,
		GasPrice: spec.GasPrice,
		Data:     payload,
	})
	if err != nil {
		return 0, fmt.Errorf("deploy %s: failed to estimate gas: %w", op.contract, err)
	}

	limit, err := env.Client.BlockGasLimit(ctx)
	if err != nil {
		return 0, fmt.Errorf("deploy %s: failed to fetch block gas limit: %w", op.contract, err)
	}

	gas, err := BudgetGas(estimate, limit)
	if err != nil {
		return 0, fmt.Errorf("deploy %s: %w", op.contract, err)
	}
	return gas, nil
}
