package common

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mellis0303/chainmigrate/pkg/common/logger"
)

func TestParseETHAmount(t *testing.T) {
	tests := []struct {
		input string
		want  *big.Int
	}{
		{"1ETH", big.NewInt(1e18)},
		{"1.5ETH", big.NewInt(15e17)},
		{"5eth", big.NewInt(5e18)},
		{"1000000000000000000", big.NewInt(1e18)},
		{"21000", big.NewInt(21000)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseETHAmount(tt.input)
			require.NoError(t, err)
			assert.Zero(t, tt.want.Cmp(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseETHAmountErrors(t *testing.T) {
	for _, input := range []string{"", "abcETH", "0x1234"} {
		_, err := ParseETHAmount(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestLoggerRoundTripsThroughContext(t *testing.T) {
	l := logger.NewNoopLogger()
	ctx := WithLogger(context.Background(), l)

	got := LoggerFromContext(ctx)
	assert.Same(t, l, got)
}

func TestLoggerFromContextFallback(t *testing.T) {
	got := LoggerFromContext(context.Background())
	assert.NotNil(t, got)
}
