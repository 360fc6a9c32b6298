package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/mellis0303/chainmigrate/pkg/common"
	"github.com/mellis0303/chainmigrate/pkg/common/iface"
)

const examplePlan = `version: 1.0.0

chain:
  rpc_url: http://localhost:8545
  private_key_env: CHAINMIGRATE_PRIVATE_KEY

artifacts: build/artifacts.json

steps:
  - deploy:
      contract: Greeter
      timeout: 30

  - transact:
      contract: Greeter
      method: setGreeting
      address: "@contract/Greeter"
      args: ["Guten Tag"]
`

const exampleContract = `contract Greeter {
    string public greeting;

    function Greeter() {
        greeting = 'Hello';
    }

    function setGreeting(string _greeting) public {
        greeting = _greeting;
    }

    function greet() constant returns (string) {
        return greeting;
    }
}
`

// InitCommand scaffolds a new migration project in the current directory.
var InitCommand = &cli.Command{
	Name:  "init",
	Usage: "Generate a project layout with an example contract and plan",
	Flags: common.GlobalFlags,
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		return scaffoldProject(cwd, logger)
	},
}

// scaffoldProject writes the starter files, skipping anything that already
// exists so re-running init never clobbers user edits.
func scaffoldProject(dir string, logger iface.Logger) error {
	files := []struct {
		name     string
		contents string
	}{
		{common.DefaultPlanPath, examplePlan},
		{filepath.Join("contracts", "Greeter.sol"), exampleContract},
	}

	for _, f := range files {
		name, contents := f.name, f.contents
		path := filepath.Join(dir, name)

		if _, err := os.Stat(path); err == nil {
			logger.Info("Skipping existing file: %s", name)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(name), err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		logger.Info("Created %s", name)
	}

	return nil
}
