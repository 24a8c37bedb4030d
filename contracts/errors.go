package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Selector is the 4-byte identifier of a function or error signature.
type Selector [4]byte

func (s Selector) String() string {
	return hexutil.Encode(s[:])
}

// SelectorOf hashes a canonical signature such as "ServiceNodeDoesntExist(uint64)".
func SelectorOf(signature string) Selector {
	var s Selector
	copy(s[:], crypto.Keccak256([]byte(signature))[:4])
	return s
}

// CanonicalSignature renders name(type1,type2,...) with canonical ABI types, tuples expanded.
func CanonicalSignature(name string, inputs abi.Arguments) string {
	types := make([]string, len(inputs))
	for i, input := range inputs {
		types[i] = input.Type.String()
	}
	return fmt.Sprintf("%v(%v)", name, strings.Join(types, ","))
}

// ErrorDef is a declared contract error.
type ErrorDef struct {
	Name      string
	Signature string
	Selector  Selector
	Inputs    abi.Arguments
	// InternalTypes holds the Solidity source type of each input, such as
	// "struct BN256G1.G1Point". Entries may be empty.
	InternalTypes []string
}

// Friendly renders the definition the way it reads in contract source. Inputs without a
// source type fall back to their ABI type.
func (d ErrorDef) Friendly() string {
	params := make([]string, len(d.Inputs))
	for i, input := range d.Inputs {
		typ := input.Type.String()
		if i < len(d.InternalTypes) && d.InternalTypes[i] != "" {
			typ = d.InternalTypes[i]
		}
		params[i] = strings.TrimSpace(typ + " " + input.Name)
	}
	return fmt.Sprintf("error %v(%v)", d.Name, strings.Join(params, ", "))
}

// ErrorTable maps error selectors to their definitions. It is immutable after construction.
type ErrorTable struct {
	defs map[Selector]ErrorDef
}

func NewErrorTable(contractAbi abi.ABI) *ErrorTable {
	t := &ErrorTable{defs: make(map[Selector]ErrorDef, len(contractAbi.Errors))}
	for _, e := range contractAbi.Errors {
		sig := CanonicalSignature(e.Name, e.Inputs)
		def := ErrorDef{
			Name:      e.Name,
			Signature: sig,
			Selector:  SelectorOf(sig),
			Inputs:    e.Inputs,
		}
		t.defs[def.Selector] = def
	}
	return t
}

// abiEntry is the part of a JSON ABI entry that abi.ABI drops.
type abiEntry struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Inputs []struct {
		InternalType string `json:"internalType"`
	} `json:"inputs"`
}

// NewErrorTableFromJSON builds the table from a JSON ABI, keeping the source types of error
// inputs for Friendly.
func NewErrorTableFromJSON(definition string) (*ErrorTable, error) {
	contractAbi, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		return nil, err
	}
	var entries []abiEntry
	if err := json.Unmarshal([]byte(definition), &entries); err != nil {
		return nil, err
	}
	t := NewErrorTable(contractAbi)
	for _, entry := range entries {
		if entry.Type != "error" {
			continue
		}
		internal := make([]string, len(entry.Inputs))
		for i, input := range entry.Inputs {
			internal[i] = input.InternalType
		}
		for sel, def := range t.defs {
			if def.Name == entry.Name && len(def.Inputs) == len(internal) {
				def.InternalTypes = internal
				t.defs[sel] = def
			}
		}
	}
	return t, nil
}

func (t *ErrorTable) Lookup(sel Selector) (ErrorDef, bool) {
	def, ok := t.defs[sel]
	return def, ok
}

// Definitions returns the table sorted by error name.
func (t *ErrorTable) Definitions() []ErrorDef {
	defs := make([]ErrorDef, 0, len(t.defs))
	for _, def := range t.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Decode translates raw revert data. Data shorter than a selector, or with an unknown
// selector, yields a ContractError with an empty Name.
func (t *ErrorTable) Decode(data []byte) *ContractError {
	cerr := &ContractError{Data: data}
	if len(data) < 4 {
		return cerr
	}
	copy(cerr.Selector[:], data[:4])
	def, ok := t.defs[cerr.Selector]
	if !ok {
		return cerr
	}
	cerr.Name = def.Name
	cerr.Definition = def.Friendly()
	cerr.Args = data[4:]
	if values, err := def.Inputs.Unpack(cerr.Args); err == nil {
		cerr.Values = values
	}
	return cerr
}

// ContractError is an on-chain revert carrying custom error data.
type ContractError struct {
	Selector   Selector
	Name       string
	Definition string
	Args       []byte
	Values     []interface{}
	Data       []byte
}

func (e *ContractError) Known() bool {
	return e.Name != ""
}

func (e *ContractError) Error() string {
	if e.Known() {
		return fmt.Sprintf("contract error %v with data: %v", e.Name, hexutil.Encode(e.Args))
	}
	return fmt.Sprintf("unknown contract error: %v", hexutil.Encode(e.Data))
}

// jsonError matches the private JSON-RPC error type of go-ethereum's rpc package.
type jsonError interface {
	Error() string
	ErrorCode() int
	ErrorData() interface{}
}

// RevertData extracts the hex revert payload attached to a JSON-RPC error, if any.
func RevertData(err error) ([]byte, bool) {
	var jerr jsonError
	if !errors.As(err, &jerr) {
		return nil, false
	}
	s, ok := jerr.ErrorData().(string)
	if !ok || s == "" {
		return nil, false
	}
	data, derr := hexutil.Decode(s)
	if derr != nil {
		return nil, false
	}
	return data, true
}
