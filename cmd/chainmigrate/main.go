package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mellis0303/chainmigrate/pkg/commands"
	"github.com/mellis0303/chainmigrate/pkg/common"
)

func main() {
	app := &cli.App{
		Name:  "chainmigrate",
		Usage: "Deploy and configure smart contracts with ordered, verified migrations",
		Flags: common.GlobalFlags,
		Before: func(cCtx *cli.Context) error {
			logger := common.GetLoggerFromCLIContext(cCtx)
			cCtx.Context = common.WithLogger(cCtx.Context, logger)
			return nil
		},
		Commands: []*cli.Command{
			commands.InitCommand,
			commands.MigrateCommand,
			commands.VersionCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
