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

var greeterAddress = common.HexToAddress("0x6666666666666666666666666666666666666666")

func TestNewTransactContractConfigErrors(t *testing.T) {
	_, err := NewTransactContract("Greeter", "setGreeting", greeterAddress,
		WithTransactTx(TxSpec{Gas: 100_000}),
	)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))

	_, err = NewTransactContract("", "setGreeting", greeterAddress)
	assert.True(t, errors.As(err, &cfgErr))

	_, err = NewTransactContract("Greeter", "", greeterAddress)
	assert.True(t, errors.As(err, &cfgErr))
}

func TestTransactContractManualGasIsAuthoritative(t *testing.T) {
	client := newFakeClient()
	client.receipt = successfulReceipt(common.Address{})

	op, err := NewTransactContract("Greeter", "setGreeting", greeterAddress,
		WithTransactManualGas(),
		WithTransactTx(TxSpec{Gas: 250_000}),
		WithMethodArgs("Guten Tag"),
	)
	require.NoError(t, err)

	_, err = op.Execute(context.Background(), testEnv(client))
	require.NoError(t, err)

	require.Len(t, client.sent, 1)
	assert.Equal(t, uint64(250_000), client.sent[0].Gas())
	assert.Empty(t, client.estimateCalls, "manual gas must not trigger estimation")
}

func TestTransactContractSuccess(t *testing.T) {
	client := newFakeClient()
	client.receipt = successfulReceipt(common.Address{})

	op, err := NewTransactContract("Greeter", "setGreeting", greeterAddress,
		WithMethodArgs("Guten Tag"),
		WithTransactTimeout(30*time.Second),
	)
	require.NoError(t, err)

	res, err := op.Execute(context.Background(), testEnv(client))
	require.NoError(t, err)

	// hash key matches DeployContract's result shape
	assert.Contains(t, res, ResultDeployTxHash)

	require.Len(t, client.sent, 1)
	sent := client.sent[0]
	require.NotNil(t, sent.To())
	assert.Equal(t, greeterAddress, *sent.To())
	assert.Equal(t, client.estimate+GasSafetyMargin, sent.Gas())

	// estimation targeted the bound contract with the packed call
	require.Len(t, client.estimateCalls, 1)
	assert.Equal(t, &greeterAddress, client.estimateCalls[0].To)
	assert.Equal(t, sent.Data(), client.estimateCalls[0].Data)
}

func TestTransactContractUnknownMethod(t *testing.T) {
	client := newFakeClient()

	op, err := NewTransactContract("Greeter", "setGretting", greeterAddress)
	require.NoError(t, err)

	_, err = op.Execute(context.Background(), testEnv(client))
	assert.ErrorContains(t, err, "setGretting")
	assert.Empty(t, client.sent, "a typoed method must fail before submission")
}

func TestTransactContractGasLimitExceeded(t *testing.T) {
	client := newFakeClient()
	client.estimate = client.gasLimit + 1

	op, err := NewTransactContract("Greeter", "setGreeting", greeterAddress,
		WithMethodArgs("Guten Tag"),
	)
	require.NoError(t, err)

	_, err = op.Execute(context.Background(), testEnv(client))
	assert.True(t, errors.Is(err, ErrGasLimitExceeded))
	assert.Empty(t, client.sent)
}

func TestTransactContractConfirmationTimeout(t *testing.T) {
	client := newFakeClient()
	client.waitErr = context.DeadlineExceeded

	op, err := NewTransactContract("Greeter", "setGreeting", greeterAddress,
		WithMethodArgs("Guten Tag"),
	)
	require.NoError(t, err)

	_, err = op.Execute(context.Background(), testEnv(client))

	var timeoutErr *ConfirmationTimeoutError
	assert.True(t, errors.As(err, &timeoutErr))
}
