package migration

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractKey(t *testing.T) {
	assert.Equal(t, "contract/Greeter", ContractKey("Greeter"))
}

func TestDeferredValueResolvesLazily(t *testing.T) {
	calls := 0
	dv := Defer("contract/Greeter", func() any {
		calls++
		return "resolved"
	})

	assert.Zero(t, calls)
	assert.Equal(t, "resolved", dv.Resolve())
	assert.Equal(t, 1, calls)
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")

	r.Put(ContractKey("Greeter"), addr)

	got, err := r.Resolve("contract/Greeter")
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestRegistryResolveUnknownKey(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("contract/Missing")
	assert.ErrorContains(t, err, "contract/Missing")
}

func TestRegistryMergePicksUpDeferredValues(t *testing.T) {
	r := NewRegistry()
	addr := common.HexToAddress("0x2222222222222222222222222222222222222222")

	r.Merge(Result{
		ResultContractAddress:  addr,
		ResultCanonicalAddress: DeferValue(ContractKey("Greeter"), addr),
	})

	got, err := r.Resolve("contract/Greeter")
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	// plain result entries are not registry keys
	_, err = r.Resolve(ResultContractAddress)
	assert.Error(t, err)
}
