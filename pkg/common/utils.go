package common

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mellis0303/chainmigrate/pkg/common/iface"
	"github.com/mellis0303/chainmigrate/pkg/common/logger"
)

// loggerContextKey is used to store the logger in the context
type loggerContextKey struct{}

// GetLoggerFromCLIContext creates a logger based on the CLI context's
// verbose flag.
func GetLoggerFromCLIContext(cCtx *cli.Context) iface.Logger {
	return logger.NewZapLogger(cCtx.Bool("verbose"))
}

// WithLogger stores the logger in the context
func WithLogger(ctx context.Context, l iface.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, l)
}

// LoggerFromContext retrieves the logger from the context.
// If no logger is found, it returns a non-verbose logger as fallback.
func LoggerFromContext(ctx context.Context) iface.Logger {
	if l, ok := ctx.Value(loggerContextKey{}).(iface.Logger); ok {
		return l
	}
	return logger.NewZapLogger(false)
}

// ParseETHAmount parses amount strings like "5ETH", "10.5ETH" or
// "1000000000000000000" (wei) and returns the amount in wei.
func ParseETHAmount(amountStr string) (*big.Int, error) {
	if amountStr == "" {
		return nil, fmt.Errorf("amount string is empty")
	}

	amountStr = strings.TrimSpace(amountStr)

	if strings.HasSuffix(strings.ToUpper(amountStr), "ETH") {
		ethIndex := strings.LastIndex(strings.ToUpper(amountStr), "ETH")
		numericPart := strings.TrimSpace(amountStr[:ethIndex])

		ethAmount, err := strconv.ParseFloat(numericPart, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ETH amount '%s': %w", numericPart, err)
		}

		// big.Float keeps the 10^18 multiplication exact for the usual
		// amounts
		weiBig := new(big.Float).Mul(big.NewFloat(ethAmount), big.NewFloat(1e18))
		weiInt, _ := weiBig.Int(nil)
		return weiInt, nil
	}

	wei, ok := new(big.Int).SetString(amountStr, 10)
	if !ok {
		return nil, fmt.Errorf("invalid wei amount '%s'", amountStr)
	}
	return wei, nil
}
