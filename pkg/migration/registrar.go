package migration

import (
	"context"
	"fmt"
)

// RegistrarContractName is the fixed artifact name DeployRegistrar deploys.
const RegistrarContractName = "Registrar"

// RegistrarSource is the bundled source of the framework's address
// registrar: a minimal owner-gated name-to-address store used to record
// where migrations deployed each contract.
const RegistrarSource = `contract Registrar {
    address public owner;

    mapping (bytes32 => address) entries;

    function Registrar() {
        owner = msg.sender;
    }

    function set(bytes32 key, address value) public {
        if (msg.sender != owner) throw;
        entries[key] = value;
    }

    function get(bytes32 key) constant returns (address) {
        return entries[key];
    }
}
`

// DeployRegistrar deploys the framework-bundled registrar contract. Unlike
// DeployContract it does not read the run's artifact table: the registrar
// source is compiled at execute time into a one-entry table of its own.
// Every other configuration knob passes through to DeployContract.
type DeployRegistrar struct {
	deploy *DeployContract
}

func NewDeployRegistrar(opts ...DeployOption) (*DeployRegistrar, error) {
	deploy, err := NewDeployContract(RegistrarContractName, opts...)
	if err != nil {
		return nil, err
	}
	return &DeployRegistrar{deploy: deploy}, nil
}

func (op *DeployRegistrar) Name() string { return "DeployRegistrar" }

func (op *DeployRegistrar) Execute(ctx context.Context, env *Env) (Result, error) {
	if env.Compiler == nil {
		return nil, fmt.Errorf("deploy registrar: no compiler configured")
	}

	artifacts, err := env.Compiler.Compile(ctx, RegistrarSource)
	if err != nil {
		return nil, fmt.Errorf("deploy registrar: failed to compile registrar source: %w", err)
	}
	if _, ok := artifacts[RegistrarContractName]; !ok {
		return nil, fmt.Errorf("deploy registrar: compiler output is missing the %s contract", RegistrarContractName)
	}

	return op.deploy.executeWith(ctx, env, artifacts)
}
