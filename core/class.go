package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"
)

var (
	// Sierra 1.x.x is the only contract class layout accepted for declaration.
	sierraVersionConstraint, _ = semver.NewConstraint(">= 0.1.0, < 2.0.0")

	compiledClassPrefix = new(felt.Felt).SetBytes([]byte("COMPILED_CLASS_V1"))
)

type SierraEntryPoint struct {
	Index    uint64     `json:"function_idx"`
	Selector *felt.Felt `json:"selector"`
}

type SierraEntryPoints struct {
	Constructor []SierraEntryPoint `json:"CONSTRUCTOR"`
	External    []SierraEntryPoint `json:"EXTERNAL"`
	L1Handler   []SierraEntryPoint `json:"L1_HANDLER"`
}

// SierraClass is a flattened contract class: the abi is kept as its JSON text.
type SierraClass struct {
	Program     []*felt.Felt      `json:"sierra_program"`
	Version     string            `json:"contract_class_version"`
	EntryPoints SierraEntryPoints `json:"entry_points_by_type"`
	Abi         string            `json:"abi"`
}

// ParseSierraClass reads a contract class artifact. The artifact abi may be
// either a JSON string or an inline JSON array.
func ParseSierraClass(data []byte) (*SierraClass, error) {
	var raw struct {
		Program     []*felt.Felt      `json:"sierra_program"`
		Version     string            `json:"contract_class_version"`
		EntryPoints SierraEntryPoints `json:"entry_points_by_type"`
		Abi         json.RawMessage   `json:"abi"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse sierra class: %w", err)
	}
	if len(raw.Program) == 0 {
		return nil, errors.New("parse sierra class: empty sierra_program")
	}

	version, err := semver.NewVersion(raw.Version)
	if err != nil {
		return nil, fmt.Errorf("parse sierra class: contract_class_version %q: %w", raw.Version, err)
	}
	if !sierraVersionConstraint.Check(version) {
		return nil, fmt.Errorf("parse sierra class: unsupported contract_class_version %s", raw.Version)
	}

	abi, err := flattenAbi(raw.Abi)
	if err != nil {
		return nil, fmt.Errorf("parse sierra class: %w", err)
	}

	return &SierraClass{
		Program:     raw.Program,
		Version:     raw.Version,
		EntryPoints: raw.EntryPoints,
		Abi:         abi,
	}, nil
}

func flattenAbi(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var abi string
		if err := json.Unmarshal(raw, &abi); err != nil {
			return "", err
		}
		return abi, nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return "", fmt.Errorf("abi: %w", err)
	}
	return compact.String(), nil
}

// Hash computes the class hash.
func (c *SierraClass) Hash() *felt.Felt {
	return crypto.PoseidonArray(
		new(felt.Felt).SetBytes([]byte("CONTRACT_CLASS_V"+c.Version)),
		crypto.PoseidonArray(flattenSierraEntryPoints(c.EntryPoints.External)...),
		crypto.PoseidonArray(flattenSierraEntryPoints(c.EntryPoints.L1Handler)...),
		crypto.PoseidonArray(flattenSierraEntryPoints(c.EntryPoints.Constructor)...),
		StarknetKeccak([]byte(c.Abi)),
		crypto.PoseidonArray(c.Program...),
	)
}

func flattenSierraEntryPoints(entryPoints []SierraEntryPoint) []*felt.Felt {
	result := make([]*felt.Felt, len(entryPoints)*2)
	for i, entryPoint := range entryPoints {
		// It is important that Selector is first because the order
		// influences the class hash.
		result[2*i] = entryPoint.Selector
		result[2*i+1] = new(felt.Felt).SetUint64(entryPoint.Index)
	}
	return result
}

type SegmentLengths struct {
	Children []SegmentLengths
	Length   uint64
}

func (n *SegmentLengths) UnmarshalJSON(data []byte) error {
	var err error
	n.Length, err = strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return json.Unmarshal(data, &n.Children)
	}
	return err
}

func (n SegmentLengths) MarshalJSON() ([]byte, error) {
	if len(n.Children) > 0 {
		return json.Marshal(n.Children)
	}
	return json.Marshal(n.Length)
}

type CompiledEntryPoint struct {
	Selector *felt.Felt `json:"selector"`
	Offset   uint64     `json:"offset"`
	Builtins []string   `json:"builtins"`
}

// CasmClass is the compiled class produced for a Sierra class.
type CasmClass struct {
	Prime                  string          `json:"prime"`
	CompilerVersion        string          `json:"compiler_version"`
	Bytecode               []*felt.Felt    `json:"bytecode"`
	BytecodeSegmentLengths *SegmentLengths `json:"bytecode_segment_lengths,omitempty"`
	EntryPoints            struct {
		External    []CompiledEntryPoint `json:"EXTERNAL"`
		L1Handler   []CompiledEntryPoint `json:"L1_HANDLER"`
		Constructor []CompiledEntryPoint `json:"CONSTRUCTOR"`
	} `json:"entry_points_by_type"`
}

func ParseCasmClass(data []byte) (*CasmClass, error) {
	class := new(CasmClass)
	if err := json.Unmarshal(data, class); err != nil {
		return nil, fmt.Errorf("parse casm class: %w", err)
	}
	if len(class.Bytecode) == 0 {
		return nil, errors.New("parse casm class: empty bytecode")
	}
	if class.CompilerVersion != "" {
		if _, err := semver.NewVersion(class.CompilerVersion); err != nil {
			return nil, fmt.Errorf("parse casm class: compiler_version %q: %w", class.CompilerVersion, err)
		}
	}
	return class, nil
}

// Hash computes the compiled class hash.
func (c *CasmClass) Hash() (*felt.Felt, error) {
	var bytecodeHash *felt.Felt
	if c.BytecodeSegmentLengths == nil || len(c.BytecodeSegmentLengths.Children) == 0 {
		bytecodeHash = crypto.PoseidonArray(c.Bytecode...)
	} else {
		var err error
		bytecodeHash, err = SegmentedBytecodeHash(c.Bytecode, c.BytecodeSegmentLengths.Children)
		if err != nil {
			return nil, err
		}
	}

	return crypto.PoseidonArray(
		compiledClassPrefix,
		crypto.PoseidonArray(flattenCompiledEntryPoints(c.EntryPoints.External)...),
		crypto.PoseidonArray(flattenCompiledEntryPoints(c.EntryPoints.L1Handler)...),
		crypto.PoseidonArray(flattenCompiledEntryPoints(c.EntryPoints.Constructor)...),
		bytecodeHash,
	), nil
}

func flattenCompiledEntryPoints(entryPoints []CompiledEntryPoint) []*felt.Felt {
	result := make([]*felt.Felt, len(entryPoints)*3)
	for i, entryPoint := range entryPoints {
		// It is important that Selector is first because the order
		// influences the class hash.
		result[3*i] = entryPoint.Selector
		result[3*i+1] = new(felt.Felt).SetUint64(entryPoint.Offset)
		builtins := make([]*felt.Felt, len(entryPoint.Builtins))
		for idx, builtin := range entryPoint.Builtins {
			builtins[idx] = new(felt.Felt).SetBytes([]byte(builtin))
		}
		result[3*i+2] = crypto.PoseidonArray(builtins...)
	}
	return result
}

// SegmentedBytecodeHash hashes bytecode split into (possibly nested) segments.
// Every inner node hashes to poseidon(len_0, hash_0, ..., len_n, hash_n) + 1.
func SegmentedBytecodeHash(bytecode []*felt.Felt, segmentLengths []SegmentLengths) (*felt.Felt, error) {
	var offset uint64
	var digestNode func(children []SegmentLengths) (uint64, *felt.Felt, error)
	digestNode = func(children []SegmentLengths) (uint64, *felt.Felt, error) {
		var total uint64
		flat := make([]*felt.Felt, 0, 2*len(children))
		for _, segment := range children {
			var (
				length uint64
				hash   *felt.Felt
			)
			if len(segment.Children) == 0 {
				end := offset + segment.Length
				if end > uint64(len(bytecode)) {
					return 0, nil, fmt.Errorf("bytecode segment [%d, %d) exceeds bytecode length %d", offset, end, len(bytecode))
				}
				length, hash = segment.Length, crypto.PoseidonArray(bytecode[offset:end]...)
				offset = end
			} else {
				var err error
				if length, hash, err = digestNode(segment.Children); err != nil {
					return 0, nil, err
				}
			}
			flat = append(flat, new(felt.Felt).SetUint64(length), hash)
			total += length
		}
		return total, new(felt.Felt).Add(crypto.PoseidonArray(flat...), new(felt.Felt).SetUint64(1)), nil
	}

	_, hash, err := digestNode(segmentLengths)
	if err != nil {
		return nil, err
	}
	if offset != uint64(len(bytecode)) {
		return nil, fmt.Errorf("bytecode segments cover %d of %d felts", offset, len(bytecode))
	}
	return hash, nil
}
