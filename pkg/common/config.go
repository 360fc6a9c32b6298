package common

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPlanPath is where the migrate command looks for a plan unless
	// told otherwise.
	DefaultPlanPath = "chainmigrate.yaml"

	// PlanSchemaMajor is the plan schema major version this build
	// understands. Plans declaring a different major are rejected up front.
	PlanSchemaMajor = 1

	// DefaultPrivateKeyEnv is the environment variable holding the deployer
	// key when the plan does not name one.
	DefaultPrivateKeyEnv = "CHAINMIGRATE_PRIVATE_KEY"
)

// Plan is a parsed migration plan: chain settings, an artifact source and an
// ordered list of steps.
type Plan struct {
	Version   string      `yaml:"version"`
	Chain     ChainConfig `yaml:"chain"`
	Artifacts string      `yaml:"artifacts,omitempty"`
	Steps     []Step      `yaml:"steps"`
}

type ChainConfig struct {
	RPCURL        string `yaml:"rpc_url"`
	ChainID       int64  `yaml:"chain_id,omitempty"`
	PrivateKeyEnv string `yaml:"private_key_env,omitempty"`
}

// Step holds exactly one operation block. Which pointer is non-nil decides
// the operation kind.
type Step struct {
	Deploy          *DeployStep   `yaml:"deploy,omitempty"`
	DeployRegistrar *DeployStep   `yaml:"deploy_registrar,omitempty"`
	Transact        *TransactStep `yaml:"transact,omitempty"`
	Send            *SendStep     `yaml:"send,omitempty"`
}

// TxFields are the caller-suppliable transaction fields shared by all
// transaction-producing steps. Value accepts "1.5ETH" or plain wei.
type TxFields struct {
	From     string `yaml:"from,omitempty"`
	Value    string `yaml:"value,omitempty"`
	GasPrice string `yaml:"gas_price,omitempty"`
	Gas      uint64 `yaml:"gas,omitempty"`
}

type DeployStep struct {
	TxFields `yaml:",inline"`
	Contract string `yaml:"contract"`
	Args     []any  `yaml:"args,omitempty"`
	AutoGas  *bool  `yaml:"auto_gas,omitempty"`
	Verify   *bool  `yaml:"verify,omitempty"`
	// Timeout in seconds; nil means the default, 0 disables waiting.
	Timeout *int `yaml:"timeout,omitempty"`
}

type TransactStep struct {
	TxFields `yaml:",inline"`
	Contract string `yaml:"contract"`
	Method   string `yaml:"method"`
	// Address is a hex address or an "@contract/<name>" registry reference
	// resolved when the step runs.
	Address string `yaml:"address"`
	Args    []any  `yaml:"args,omitempty"`
	AutoGas *bool  `yaml:"auto_gas,omitempty"`
	Timeout *int   `yaml:"timeout,omitempty"`
}

type SendStep struct {
	TxFields `yaml:",inline"`
	To       string `yaml:"to,omitempty"`
	Data     string `yaml:"data,omitempty"`
	Timeout  *int   `yaml:"timeout,omitempty"`
}

// LoadPlan reads and validates a migration plan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return &plan, nil
}

// Validate checks the plan's schema version and that every step names
// exactly one operation.
func (p *Plan) Validate() error {
	if p.Version == "" {
		return fmt.Errorf("missing version")
	}
	version, err := semver.NewVersion(p.Version)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", p.Version, err)
	}
	if version.Major() != PlanSchemaMajor {
		return fmt.Errorf("unsupported plan schema version %s (supported major: %d)",
			p.Version, PlanSchemaMajor)
	}

	if len(p.Steps) == 0 {
		return fmt.Errorf("plan has no steps")
	}

	for i, step := range p.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Step) validate() error {
	count := 0
	if s.Deploy != nil {
		count++
		if s.Deploy.Contract == "" {
			return fmt.Errorf("deploy: missing contract name")
		}
	}
	if s.DeployRegistrar != nil {
		count++
	}
	if s.Transact != nil {
		count++
		switch {
		case s.Transact.Contract == "":
			return fmt.Errorf("transact: missing contract name")
		case s.Transact.Method == "":
			return fmt.Errorf("transact: missing method name")
		case s.Transact.Address == "":
			return fmt.Errorf("transact: missing contract address")
		}
	}
	if s.Send != nil {
		count++
	}

	if count != 1 {
		return fmt.Errorf("each step must contain exactly one of deploy, deploy_registrar, transact or send")
	}
	return nil
}

// PrivateKeyEnvName returns the environment variable carrying the deployer
// key for this plan.
func (p *Plan) PrivateKeyEnvName() string {
	if p.Chain.PrivateKeyEnv != "" {
		return p.Chain.PrivateKeyEnv
	}
	return DefaultPrivateKeyEnv
}
