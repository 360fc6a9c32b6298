package migration

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mellis0303/chainmigrate/pkg/compiler"
)

// contractFactory binds a compiled artifact's ABI so operations can encode
// constructor and method calls for it.
type contractFactory struct {
	name     string
	artifact compiler.Artifact
	abi      abi.ABI
}

func newContractFactory(name string, artifact compiler.Artifact) (*contractFactory, error) {
	parsed, err := artifact.ParsedABI()
	if err != nil {
		return nil, fmt.Errorf("contract %s: %w", name, err)
	}
	return &contractFactory{name: name, artifact: artifact, abi: parsed}, nil
}

// encodeConstructor returns the full contract-creation payload: creation
// bytecode followed by the packed constructor arguments.
func (f *contractFactory) encodeConstructor(args ...any) ([]byte, error) {
	packed, err := f.abi.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("contract %s: failed to pack constructor arguments: %w", f.name, err)
	}
	payload := make([]byte, 0, len(f.artifact.Bytecode)+len(packed))
	payload = append(payload, f.artifact.Bytecode...)
	payload = append(payload, packed...)
	return payload, nil
}

// packMethod encodes a method call. The method name is checked against the
// ABI before packing so a typo fails here rather than as a reverted
// transaction on chain.
func (f *contractFactory) packMethod(method string, args ...any) ([]byte, error) {
	if _, ok := f.abi.Methods[method]; !ok {
		return nil, fmt.Errorf("contract %s has no method %q", f.name, method)
	}
	data, err := f.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("contract %s: failed to pack %s arguments: %w", f.name, method, err)
	}
	return data, nil
}

// buildAndSubmit fills in the missing transaction fields from the node,
// signs the result and submits it. to == nil means contract creation. The
// caller's spec is not mutated.
func buildAndSubmit(ctx context.Context, env *Env, spec TxSpec, to *common.Address, payload []byte) (*types.Transaction, error) {
	from := spec.From
	if from == (common.Address{}) {
		from = env.Signer.Address()
	}

	var nonce uint64
	if spec.Nonce != nil {
		nonce = *spec.Nonce
	} else {
		n, err := env.Client.PendingNonceAt(ctx, from)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch nonce for %s: %w", from.Hex(), err)
		}
		nonce = n
	}

	gasPrice := spec.GasPrice
	if gasPrice == nil {
		p, err := env.Client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch gas price: %w", err)
		}
		gasPrice = p
	}

	value := spec.Value
	if value == nil {
		value = new(big.Int)
	}

	gas := spec.Gas
	if gas == 0 {
		// no explicit limit and no budgeter ran; fall back to a plain estimate
		g, err := env.Client.EstimateGas(ctx, ethereum.CallMsg{
			From:     from,
			To:       to,
			Value:    value,
			GasPrice: gasPrice,
			Data:     payload,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}
		gas = g
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       to,
		Value:    value,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     payload,
	})

	signed, err := env.Signer.SignTx(tx)
	if err != nil {
		return nil, err
	}

	if err := env.Client.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to submit transaction: %w", err)
	}
	return signed, nil
}
