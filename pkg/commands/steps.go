package commands

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/mellis0303/chainmigrate/pkg/common"
	"github.com/mellis0303/chainmigrate/pkg/migration"
)

// buildOperations turns a validated plan into the ordered operation list the
// runner executes.
func buildOperations(plan *common.Plan) ([]migration.Operation, error) {
	ops := make([]migration.Operation, 0, len(plan.Steps))
	for i, step := range plan.Steps {
		op, err := buildStep(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func buildStep(step common.Step) (migration.Operation, error) {
	switch {
	case step.Deploy != nil:
		return buildDeploy(step.Deploy, false)
	case step.DeployRegistrar != nil:
		return buildDeploy(step.DeployRegistrar, true)
	case step.Transact != nil:
		return buildTransact(step.Transact)
	case step.Send != nil:
		return buildSend(step.Send)
	}
	return nil, fmt.Errorf("empty step")
}

func buildDeploy(step *common.DeployStep, registrar bool) (migration.Operation, error) {
	spec, err := txSpecFromFields(step.TxFields)
	if err != nil {
		return nil, err
	}

	opts := []migration.DeployOption{migration.WithDeployTx(spec)}
	if len(step.Args) > 0 {
		opts = append(opts, migration.WithConstructorArgs(coerceArgs(step.Args)...))
	}
	if step.AutoGas != nil && !*step.AutoGas {
		opts = append(opts, migration.WithManualGas())
	}
	if step.Verify != nil && !*step.Verify {
		opts = append(opts, migration.WithoutVerify())
	}
	if step.Timeout != nil {
		opts = append(opts, migration.WithDeployTimeout(time.Duration(*step.Timeout)*time.Second))
	}

	if registrar {
		return migration.NewDeployRegistrar(opts...)
	}
	return migration.NewDeployContract(step.Contract, opts...)
}

func buildTransact(step *common.TransactStep) (migration.Operation, error) {
	spec, err := txSpecFromFields(step.TxFields)
	if err != nil {
		return nil, err
	}

	opts := []migration.TransactOption{migration.WithTransactTx(spec)}
	if len(step.Args) > 0 {
		opts = append(opts, migration.WithMethodArgs(coerceArgs(step.Args)...))
	}
	if step.AutoGas != nil && !*step.AutoGas {
		opts = append(opts, migration.WithTransactManualGas())
	}
	if step.Timeout != nil {
		opts = append(opts, migration.WithTransactTimeout(time.Duration(*step.Timeout)*time.Second))
	}

	if key, ok := strings.CutPrefix(step.Address, "@"); ok {
		// the address is produced by an earlier step; defer construction
		// until the registry holds it
		contract, method := step.Contract, step.Method
		name := fmt.Sprintf("TransactContract(%s.%s)", contract, method)
		return migration.NewRunCustomCode(name, func(ctx context.Context, env *migration.Env) (migration.Result, error) {
			v, err := env.Registry.Resolve(key)
			if err != nil {
				return nil, err
			}
			address, ok := v.(gethcommon.Address)
			if !ok {
				return nil, fmt.Errorf("registry value %q is not an address", key)
			}
			op, err := migration.NewTransactContract(contract, method, address, opts...)
			if err != nil {
				return nil, err
			}
			return op.Execute(ctx, env)
		}), nil
	}

	if !gethcommon.IsHexAddress(step.Address) {
		return nil, fmt.Errorf("transact: invalid contract address %q", step.Address)
	}
	return migration.NewTransactContract(step.Contract, step.Method,
		gethcommon.HexToAddress(step.Address), opts...)
}

func buildSend(step *common.SendStep) (migration.Operation, error) {
	spec, err := txSpecFromFields(step.TxFields)
	if err != nil {
		return nil, err
	}

	if step.To != "" {
		if !gethcommon.IsHexAddress(step.To) {
			return nil, fmt.Errorf("send: invalid recipient %q", step.To)
		}
		to := gethcommon.HexToAddress(step.To)
		spec.To = &to
	}
	if step.Data != "" {
		data, err := hexutil.Decode(step.Data)
		if err != nil {
			return nil, fmt.Errorf("send: invalid data: %w", err)
		}
		spec.Data = data
	}

	var opts []migration.SendOption
	if step.Timeout != nil {
		opts = append(opts, migration.WithSendTimeout(time.Duration(*step.Timeout)*time.Second))
	}
	return migration.NewSendTransaction(spec, opts...), nil
}

func txSpecFromFields(fields common.TxFields) (migration.TxSpec, error) {
	var spec migration.TxSpec

	if fields.From != "" {
		if !gethcommon.IsHexAddress(fields.From) {
			return spec, fmt.Errorf("invalid from address %q", fields.From)
		}
		spec.From = gethcommon.HexToAddress(fields.From)
	}
	if fields.Value != "" {
		value, err := common.ParseETHAmount(fields.Value)
		if err != nil {
			return spec, fmt.Errorf("invalid value: %w", err)
		}
		spec.Value = value
	}
	if fields.GasPrice != "" {
		gasPrice, ok := new(big.Int).SetString(fields.GasPrice, 10)
		if !ok {
			return spec, fmt.Errorf("invalid gas price %q", fields.GasPrice)
		}
		spec.GasPrice = gasPrice
	}
	spec.Gas = fields.Gas

	return spec, nil
}

// coerceArgs maps plain YAML values onto the Go types the ABI encoder
// expects: hex strings become addresses and integers become big integers.
func coerceArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case string:
			if gethcommon.IsHexAddress(v) {
				out[i] = gethcommon.HexToAddress(v)
			} else {
				out[i] = v
			}
		case int:
			out[i] = big.NewInt(int64(v))
		case int64:
			out[i] = big.NewInt(v)
		case uint64:
			out[i] = new(big.Int).SetUint64(v)
		default:
			out[i] = v
		}
	}
	return out
}
