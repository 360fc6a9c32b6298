package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"sigs.k8s.io/yaml"
)

// Artifact is the compiled output of one contract: its interface description
// and both bytecode forms. RuntimeBytecode is what a node returns from a code
// lookup once the contract is deployed, which makes it the reference for
// post-deploy verification.
type Artifact struct {
	ABI             json.RawMessage `json:"abi"`
	Bytecode        hexutil.Bytes   `json:"bytecode"`
	RuntimeBytecode hexutil.Bytes   `json:"runtimeBytecode"`
	Source          string          `json:"sourceText,omitempty"`
}

// Artifacts maps contract name to compiled artifact. The table is read-only
// to migration operations.
type Artifacts map[string]Artifact

// ParsedABI parses the artifact's ABI description.
func (a Artifact) ParsedABI() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return parsed, nil
}

// LoadArtifacts reads an artifact table from disk. Both JSON and YAML
// manifests are accepted; YAML is converted to JSON before decoding. A solc
// combined-json file (recognised by its top-level "contracts" key) is
// accepted as well.
func LoadArtifacts(path string) (Artifacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifacts file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s to JSON: %w", path, err)
		}
	}

	return ParseArtifactsJSON(data)
}

// ParseArtifactsJSON decodes an artifact table from JSON.
func ParseArtifactsJSON(data []byte) (Artifacts, error) {
	var probe struct {
		Contracts map[string]json.RawMessage `json:"contracts"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Contracts != nil {
		return parseCombinedJSON(data)
	}

	var table Artifacts
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to decode artifact table: %w", err)
	}
	return table, nil
}
