package migration

import (
	"context"
	"time"

	"github.com/mellis0303/chainmigrate/pkg/chain"
	"github.com/mellis0303/chainmigrate/pkg/common/iface"
	"github.com/mellis0303/chainmigrate/pkg/compiler"
)

// DefaultConfirmationTimeout bounds how long an operation waits for its
// transaction to be mined unless the caller overrides it.
const DefaultConfirmationTimeout = 120 * time.Second

// Result keys shared across operations. TransactContract reuses the deploy
// hash key so both transaction-producing operations expose the same shape.
const (
	ResultTxHash           = "transaction-hash"
	ResultDeployTxHash     = "deploy-transaction-hash"
	ResultContractAddress  = "contract-address"
	ResultCanonicalAddress = "canonical-contract-address"
)

// Result maps result names to values produced by one operation execution.
type Result map[string]any

// Env is the execution context shared by every operation in a migration run.
// The client, artifact table and compiler are read-only to operations; the
// registry accumulates deferred values as the run progresses.
type Env struct {
	Client    chain.Client
	Signer    *chain.Signer
	Artifacts compiler.Artifacts
	Compiler  compiler.Compiler
	Registry  *Registry
	Logger    iface.Logger
}

// Operation is a single step of a migration. Operations are constructed once
// (all configuration invariants are checked at construction, before any
// network interaction), executed exactly once, and then discarded. Executing
// an operation twice submits a second transaction.
type Operation interface {
	Name() string
	Execute(ctx context.Context, env *Env) (Result, error)
}

// BaseOperation declares the shared execution contract. Embed it and shadow
// Execute; the base implementation always fails.
type BaseOperation struct{}

func (BaseOperation) Execute(context.Context, *Env) (Result, error) {
	return nil, ErrNotImplemented
}
