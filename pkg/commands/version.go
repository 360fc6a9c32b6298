package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/mellis0303/chainmigrate/pkg/common"
)

// Version is stamped at build time via -ldflags.
var Version = "development"

var VersionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print the chainmigrate version",
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)
		logger.Info("chainmigrate %s", Version)
		return nil
	},
}
