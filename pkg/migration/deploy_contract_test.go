package migration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeployContractConfigErrors(t *testing.T) {
	to := common.HexToAddress("0x3333333333333333333333333333333333333333")

	tests := []struct {
		name string
		opts []DeployOption
	}{
		{"data preset", []DeployOption{WithDeployTx(TxSpec{Data: []byte{0x01}})}},
		{"to preset", []DeployOption{WithDeployTx(TxSpec{To: &to})}},
		{"gas preset with auto gas", []DeployOption{WithDeployTx(TxSpec{Gas: 21_000})}},
		{"verify without timeout", []DeployOption{WithDeployTimeout(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDeployContract("Greeter", tt.opts...)

			var cfgErr *ConfigError
			require.Error(t, err)
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestNewDeployContractRequiresName(t *testing.T) {
	_, err := NewDeployContract("")

	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestNewDeployContractAllowsManualGas(t *testing.T) {
	_, err := NewDeployContract("Greeter",
		WithManualGas(),
		WithDeployTx(TxSpec{Gas: 3_000_000}),
	)
	assert.NoError(t, err)
}

func TestDeployContractSuccess(t *testing.T) {
	address := common.HexToAddress("0x4444444444444444444444444444444444444444")

	client := newFakeClient()
	client.receipt = successfulReceipt(address)
	client.code[address] = greeterRuntime

	op, err := NewDeployContract("Greeter", WithDeployTimeout(30*time.Second))
	require.NoError(t, err)

	res, err := op.Execute(context.Background(), testEnv(client))
	require.NoError(t, err)

	assert.Equal(t, address, res[ResultContractAddress])
	assert.NotNil(t, res[ResultDeployTxHash])

	dv, ok := res[ResultCanonicalAddress].(DeferredValue)
	require.True(t, ok)
	assert.Equal(t, "contract/Greeter", dv.Key)
	assert.Equal(t, address, dv.Resolve())

	// gas budget: estimate + safety margin, under the block limit
	require.Len(t, client.sent, 1)
	assert.Equal(t, client.estimate+GasSafetyMargin, client.sent[0].Gas())

	// creation payload starts with the creation bytecode
	assert.Equal(t, greeterBytecode, client.sent[0].Data()[:len(greeterBytecode)])
	assert.Nil(t, client.sent[0].To())
}

func TestDeployContractGasLimitExceeded(t *testing.T) {
	client := newFakeClient()
	client.estimate = client.gasLimit + 1

	op, err := NewDeployContract("Greeter")
	require.NoError(t, err)

	_, err = op.Execute(context.Background(), testEnv(client))
	assert.True(t, errors.Is(err, ErrGasLimitExceeded))
	assert.Empty(t, client.sent, "no transaction may be submitted once budgeting fails")
}

func TestDeployContractVerificationFailure(t *testing.T) {
	address := common.HexToAddress("0x5555555555555555555555555555555555555555")

	client := newFakeClient()
	client.receipt = successfulReceipt(address)
	client.code[address] = []byte{0xde, 0xad} // wrong runtime code

	op, err := NewDeployContract("Greeter")
	require.NoError(t, err)

	_, err = op.Execute(context.Background(), testEnv(client))

	var verifyErr *VerificationError
	require.True(t, errors.As(err, &verifyErr))
	assert.Equal(t, "Greeter", verifyErr.Contract)
	assert.Equal(t, address, verifyErr.Address)
	assert.Len(t, client.sent, 1, "the transaction was confirmed before verification ran")
}

func TestDeployContractConfirmationTimeout(t *testing.T) {
	client := newFakeClient()
	client.waitErr = context.DeadlineExceeded

	op, err := NewDeployContract("Greeter", WithDeployTimeout(time.Second))
	require.NoError(t, err)

	_, err = op.Execute(context.Background(), testEnv(client))

	var timeoutErr *ConfirmationTimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, time.Second, timeoutErr.Timeout)
}

func TestDeployContractWithoutConfirmation(t *testing.T) {
	client := newFakeClient()

	op, err := NewDeployContract("Greeter", WithoutVerify(), WithDeployTimeout(0))
	require.NoError(t, err)

	res, err := op.Execute(context.Background(), testEnv(client))
	require.NoError(t, err)

	// without confirmation there is no address to publish
	assert.NotNil(t, res[ResultDeployTxHash])
	assert.NotContains(t, res, ResultContractAddress)
	assert.NotContains(t, res, ResultCanonicalAddress)
	assert.Zero(t, client.waitCalls)
}

func TestDeployContractUnknownArtifact(t *testing.T) {
	op, err := NewDeployContract("Missing")
	require.NoError(t, err)

	_, err = op.Execute(context.Background(), testEnv(newFakeClient()))
	assert.ErrorContains(t, err, "Missing")
}
