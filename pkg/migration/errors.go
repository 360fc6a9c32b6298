package migration

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNotImplemented is returned by BaseOperation.Execute. Every concrete
	// operation must shadow Execute with its own implementation.
	ErrNotImplemented = errors.New("execute must be implemented by each operation")

	// ErrGasLimitExceeded is returned when a gas estimate does not fit within
	// the current block gas limit.
	ErrGasLimitExceeded = errors.New("gas estimate exceeds block gas limit")
)

// ConfigError reports an invalid operation configuration. It is raised at
// construction time, before any network interaction.
type ConfigError struct {
	Op     string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s configuration: %s", e.Op, e.Reason)
}

// ConfirmationTimeoutError reports that a submitted transaction was not
// confirmed within the operation's timeout window.
type ConfirmationTimeoutError struct {
	Op      string
	TxHash  common.Hash
	Timeout time.Duration
	Err     error
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("%s: transaction %s not confirmed within %s: %v",
		e.Op, e.TxHash.Hex(), e.Timeout, e.Err)
}

func (e *ConfirmationTimeoutError) Unwrap() error { return e.Err }

// VerificationError reports a mismatch between the runtime bytecode expected
// for a contract and the code observed on chain after deployment.
type VerificationError struct {
	Contract string
	Address  common.Address
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("deployed code at %s does not match the expected runtime bytecode for %s",
		e.Address.Hex(), e.Contract)
}
