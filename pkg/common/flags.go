package common

import "github.com/urfave/cli/v2"

// GlobalFlags apply to the entire application.
var GlobalFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable verbose logging",
	},
}

// PlanFlag selects the migration plan file.
var PlanFlag = &cli.StringFlag{
	Name:    "plan",
	Aliases: []string{"p"},
	Usage:   "Path to the migration plan",
	Value:   DefaultPlanPath,
}

// RPCURLFlag overrides the RPC endpoint from the plan.
var RPCURLFlag = &cli.StringFlag{
	Name:  "rpc-url",
	Usage: "Ethereum JSON-RPC endpoint (overrides the plan's chain settings)",
}

// EnvFileFlag points at a dotenv file with the deployer key.
var EnvFileFlag = &cli.StringFlag{
	Name:  "env-file",
	Usage: "Load environment variables from this file before running",
}
