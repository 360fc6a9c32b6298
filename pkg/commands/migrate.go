package commands

import (
	"fmt"
	"math/big"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/mellis0303/chainmigrate/pkg/chain"
	"github.com/mellis0303/chainmigrate/pkg/common"
	"github.com/mellis0303/chainmigrate/pkg/compiler"
	"github.com/mellis0303/chainmigrate/pkg/migration"
)

// MigrateCommand runs the plan's operations in order against the configured
// network.
var MigrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Run the migration plan against the configured network",
	Flags: append([]cli.Flag{
		common.PlanFlag,
		common.RPCURLFlag,
		common.EnvFileFlag,
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)

		if envFile := cCtx.String("env-file"); envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}

		plan, err := common.LoadPlan(cCtx.String("plan"))
		if err != nil {
			return err
		}

		rpcURL := plan.Chain.RPCURL
		if override := cCtx.String("rpc-url"); override != "" {
			rpcURL = override
		}
		if rpcURL == "" {
			return fmt.Errorf("no RPC endpoint configured: set chain.rpc_url in the plan or pass --rpc-url")
		}

		client, err := chain.Dial(rpcURL)
		if err != nil {
			return err
		}

		chainID := big.NewInt(plan.Chain.ChainID)
		if plan.Chain.ChainID == 0 {
			chainID, err = client.ChainID(cCtx.Context)
			if err != nil {
				return fmt.Errorf("failed to fetch chain ID: %w", err)
			}
		}

		keyHex := os.Getenv(plan.PrivateKeyEnvName())
		if keyHex == "" {
			return fmt.Errorf("no deployer key: set %s", plan.PrivateKeyEnvName())
		}
		signer, err := chain.NewSigner(keyHex, chainID)
		if err != nil {
			return err
		}

		var artifacts compiler.Artifacts
		if plan.Artifacts != "" {
			artifacts, err = compiler.LoadArtifacts(plan.Artifacts)
			if err != nil {
				return err
			}
		}

		ops, err := buildOperations(plan)
		if err != nil {
			return err
		}

		env := &migration.Env{
			Client:    client,
			Signer:    signer,
			Artifacts: artifacts,
			Compiler:  compiler.NewSolcCompiler(),
			Registry:  migration.NewRegistry(),
			Logger:    logger,
		}

		logger.Title("Migrating via %s (chain %s, deployer %s)", rpcURL, chainID, signer.Address().Hex())

		if _, err := migration.NewRunner(ops...).Run(cCtx.Context, env); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		logger.Info("Migration completed successfully")
		return nil
	},
}
