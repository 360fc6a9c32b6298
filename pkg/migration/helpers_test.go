package migration

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mellis0303/chainmigrate/pkg/chain"
	"github.com/mellis0303/chainmigrate/pkg/common/logger"
	"github.com/mellis0303/chainmigrate/pkg/compiler"
)

// anvil's first funded dev account
const testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

const greeterABI = `[
	{"inputs":[],"stateMutability":"nonpayable","type":"constructor"},
	{"inputs":[{"internalType":"string","name":"_greeting","type":"string"}],"name":"setGreeting","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[],"name":"greet","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

var (
	greeterBytecode = hexutil.MustDecode("0x6060604052600a600b600c")
	greeterRuntime  = hexutil.MustDecode("0x6060604052aabbccdd")
)

func greeterArtifacts() compiler.Artifacts {
	return compiler.Artifacts{
		"Greeter": {
			ABI:             []byte(greeterABI),
			Bytecode:        greeterBytecode,
			RuntimeBytecode: greeterRuntime,
			Source:          "contract Greeter {}",
		},
	}
}

// fakeClient is an in-memory chain.Client. It records submitted transactions
// and serves canned estimates, receipts and code.
type fakeClient struct {
	chainID     *big.Int
	nonce       uint64
	gasPrice    *big.Int
	estimate    uint64
	estimateErr error
	gasLimit    uint64
	sendErr     error
	receipt     *types.Receipt
	waitErr     error
	code        map[common.Address][]byte

	sent          []*types.Transaction
	estimateCalls []ethereum.CallMsg
	waitCalls     int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		chainID:  big.NewInt(1337),
		gasPrice: big.NewInt(1_000_000_000),
		estimate: 500_000,
		gasLimit: 8_000_000,
		code:     make(map[common.Address][]byte),
	}
}

func (c *fakeClient) ChainID(context.Context) (*big.Int, error) { return c.chainID, nil }

func (c *fakeClient) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return c.nonce, nil
}

func (c *fakeClient) SuggestGasPrice(context.Context) (*big.Int, error) { return c.gasPrice, nil }

func (c *fakeClient) EstimateGas(_ context.Context, call ethereum.CallMsg) (uint64, error) {
	c.estimateCalls = append(c.estimateCalls, call)
	if c.estimateErr != nil {
		return 0, c.estimateErr
	}
	return c.estimate, nil
}

func (c *fakeClient) BlockGasLimit(context.Context) (uint64, error) { return c.gasLimit, nil }

func (c *fakeClient) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, tx)
	return nil
}

func (c *fakeClient) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	if c.waitErr != nil {
		return nil, c.waitErr
	}
	return c.receipt, nil
}

func (c *fakeClient) WaitForReceipt(_ context.Context, _ common.Hash, _ time.Duration) (*types.Receipt, error) {
	c.waitCalls++
	if c.waitErr != nil {
		return nil, c.waitErr
	}
	return c.receipt, nil
}

func (c *fakeClient) CodeAt(_ context.Context, account common.Address) ([]byte, error) {
	return c.code[account], nil
}

// fakeCompiler returns a canned artifact table and records what it was asked
// to compile.
type fakeCompiler struct {
	artifacts compiler.Artifacts
	err       error
	sources   []string
}

func (c *fakeCompiler) Compile(_ context.Context, source string) (compiler.Artifacts, error) {
	c.sources = append(c.sources, source)
	if c.err != nil {
		return nil, c.err
	}
	return c.artifacts, nil
}

func testEnv(client *fakeClient) *Env {
	signer, err := chain.NewSigner(testKeyHex, client.chainID)
	if err != nil {
		panic(err)
	}
	return &Env{
		Client:    client,
		Signer:    signer,
		Artifacts: greeterArtifacts(),
		Registry:  NewRegistry(),
		Logger:    logger.NewNoopLogger(),
	}
}

func successfulReceipt(address common.Address) *types.Receipt {
	return &types.Receipt{
		Status:          types.ReceiptStatusSuccessful,
		ContractAddress: address,
	}
}
