package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ReceiptPollInterval is the delay between receipt lookups while waiting for
// a transaction to be mined.
const ReceiptPollInterval = 2 * time.Second

// Client is the narrow view of an Ethereum node that migration operations
// need. It exists so operations can be exercised against a fake in tests;
// RPCClient is the ethclient-backed implementation.
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	BlockGasLimit(ctx context.Context) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	WaitForReceipt(ctx context.Context, txHash common.Hash, timeout time.Duration) (*types.Receipt, error)
	CodeAt(ctx context.Context, account common.Address) ([]byte, error)
}

// RPCClient implements Client over a JSON-RPC connection.
type RPCClient struct {
	eth *ethclient.Client
}

// Dial connects to an Ethereum JSON-RPC endpoint.
func Dial(rpcURL string) (*RPCClient, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	return NewRPCClient(eth), nil
}

func NewRPCClient(eth *ethclient.Client) *RPCClient {
	return &RPCClient{eth: eth}
}

func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	return c.eth.ChainID(ctx)
}

func (c *RPCClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return c.eth.PendingNonceAt(ctx, account)
}

func (c *RPCClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.eth.SuggestGasPrice(ctx)
}

func (c *RPCClient) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return c.eth.EstimateGas(ctx, call)
}

// BlockGasLimit reads the gas limit of the latest block.
func (c *RPCClient) BlockGasLimit(ctx context.Context) (uint64, error) {
	header, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch latest header: %w", err)
	}
	return header.GasLimit, nil
}

func (c *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return c.eth.SendTransaction(ctx, tx)
}

func (c *RPCClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return c.eth.TransactionReceipt(ctx, txHash)
}

// WaitForReceipt polls for the receipt of txHash until it appears or timeout
// elapses. Only "not found" responses are retried; any other RPC failure is
// returned immediately.
func (c *RPCClient) WaitForReceipt(ctx context.Context, txHash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	attempts := uint(timeout/ReceiptPollInterval) + 1

	receipt, err := retry.DoWithData(
		func() (*types.Receipt, error) {
			return c.eth.TransactionReceipt(ctx, txHash)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(ReceiptPollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ethereum.NotFound)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("waiting for receipt of %s: %w", txHash.Hex(), err)
	}
	return receipt, nil
}

func (c *RPCClient) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return c.eth.CodeAt(ctx, account, nil)
}
