package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Compiler turns contract source text into an artifact table.
type Compiler interface {
	Compile(ctx context.Context, source string) (Artifacts, error)
}

// SolcCompiler shells out to the solc binary.
type SolcCompiler struct {
	// Path to the solc binary. Empty means "solc" on PATH.
	Path string
}

func NewSolcCompiler() *SolcCompiler {
	return &SolcCompiler{}
}

func (c *SolcCompiler) Compile(ctx context.Context, source string) (Artifacts, error) {
	path := c.Path
	if path == "" {
		path = "solc"
	}

	cmd := exec.CommandContext(ctx, path, "--combined-json", "abi,bin,bin-runtime", "-")
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("solc failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	artifacts, err := parseCombinedJSON(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	for name, artifact := range artifacts {
		artifact.Source = source
		artifacts[name] = artifact
	}
	return artifacts, nil
}

// combinedContract is one entry of solc's combined-json output. Depending on
// the solc version the abi field is either inline JSON or a JSON string
// containing JSON.
type combinedContract struct {
	ABI        json.RawMessage `json:"abi"`
	Bin        string          `json:"bin"`
	BinRuntime string          `json:"bin-runtime"`
}

func parseCombinedJSON(data []byte) (Artifacts, error) {
	var out struct {
		Contracts map[string]combinedContract `json:"contracts"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode combined-json output: %w", err)
	}

	artifacts := make(Artifacts, len(out.Contracts))
	for key, contract := range out.Contracts {
		// keys look like "<stdin>:Greeter" or "contracts/Greeter.sol:Greeter"
		name := key
		if idx := strings.LastIndex(key, ":"); idx >= 0 {
			name = key[idx+1:]
		}

		abiJSON, err := normalizeABI(contract.ABI)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", name, err)
		}

		code, err := hexutil.Decode(ensureHexPrefix(contract.Bin))
		if err != nil {
			return nil, fmt.Errorf("contract %s: invalid bytecode: %w", name, err)
		}
		runtime, err := hexutil.Decode(ensureHexPrefix(contract.BinRuntime))
		if err != nil {
			return nil, fmt.Errorf("contract %s: invalid runtime bytecode: %w", name, err)
		}

		artifacts[name] = Artifact{
			ABI:             abiJSON,
			Bytecode:        code,
			RuntimeBytecode: runtime,
		}
	}
	return artifacts, nil
}

func normalizeABI(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("missing ABI")
	}
	if trimmed[0] != '"' {
		return trimmed, nil
	}
	// double-encoded: the string itself contains the ABI JSON
	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		return nil, fmt.Errorf("invalid ABI encoding: %w", err)
	}
	return json.RawMessage(inner), nil
}

func ensureHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") {
		return s
	}
	return "0x" + s
}
