package migration

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxSpec carries caller-supplied transaction fields. A spec is set on an
// operation at construction time and never mutated afterwards; operations
// copy it before filling in derived fields like the gas budget.
type TxSpec struct {
	From     common.Address
	To       *common.Address
	Value    *big.Int
	GasPrice *big.Int
	Gas      uint64
	Nonce    *uint64
	Data     []byte
}

func (s TxSpec) hasGas() bool  { return s.Gas != 0 }
func (s TxSpec) hasTo() bool   { return s.To != nil }
func (s TxSpec) hasData() bool { return len(s.Data) > 0 }

// clone returns a copy of the spec safe to augment without touching the
// operation's validated configuration.
func (s TxSpec) clone() TxSpec {
	c := s
	if s.To != nil {
		to := *s.To
		c.To = &to
	}
	if s.Value != nil {
		c.Value = new(big.Int).Set(s.Value)
	}
	if s.GasPrice != nil {
		c.GasPrice = new(big.Int).Set(s.GasPrice)
	}
	if s.Nonce != nil {
		n := *s.Nonce
		c.Nonce = &n
	}
	if s.Data != nil {
		c.Data = append([]byte(nil), s.Data...)
	}
	return c
}
