package eth

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/session-foundation/sn-liquidator/contracts"
	"github.com/session-foundation/sn-liquidator/oxend"
)

const liquidateMethod = "liquidateBLSPublicKeyWithSignature"

// G1Point is a BN256 G1 point, the on-chain form of a BLS public key.
type G1Point struct {
	X *big.Int
	Y *big.Int
}

// Key renders the point as the 128-digit lowercase hex used by oxend.
func (p G1Point) Key() string {
	return fmt.Sprintf("%064x%064x", p.X, p.Y)
}

// BLSSignatureParams is a BN256 G2 point, the on-chain form of a BLS signature.
type BLSSignatureParams struct {
	Sigs0 *big.Int
	Sigs1 *big.Int
	Sigs2 *big.Int
	Sigs3 *big.Int
}

// LiquidationCall holds the arguments of liquidateBLSPublicKeyWithSignature.
type LiquidationCall struct {
	BLSPubkey        G1Point
	Timestamp        *big.Int
	Signature        BLSSignatureParams
	NonSignerIndices []uint64
}

func (c *LiquidationCall) args() []interface{} {
	return []interface{}{c.BLSPubkey, c.Timestamp, c.Signature, c.NonSignerIndices}
}

// NewLiquidationCall converts a daemon liquidation authorization into contract arguments.
func NewLiquidationCall(sig *oxend.LiquidationSignature) (*LiquidationCall, error) {
	words, err := splitWords(sig.BLSPubkey, 2)
	if err != nil {
		return nil, errors.Wrap(err, "invalid bls_pubkey")
	}
	sigWords, err := splitWords(sig.Signature, 4)
	if err != nil {
		return nil, errors.Wrap(err, "invalid signature")
	}
	indices := sig.NonSignerIndices
	if indices == nil {
		indices = []uint64{}
	}
	return &LiquidationCall{
		BLSPubkey:        G1Point{X: words[0], Y: words[1]},
		Timestamp:        new(big.Int).SetUint64(sig.Timestamp),
		Signature:        BLSSignatureParams{Sigs0: sigWords[0], Sigs1: sigWords[1], Sigs2: sigWords[2], Sigs3: sigWords[3]},
		NonSignerIndices: indices,
	}, nil
}

// splitWords parses n consecutive 64-digit hex words.
func splitWords(s string, n int) ([]*big.Int, error) {
	s = oxend.NormalizeHex(s)
	if len(s) != n*64 {
		return nil, fmt.Errorf("expected %d hex digits, got %d", n*64, len(s))
	}
	words := make([]*big.Int, n)
	for i := range words {
		w, ok := new(big.Int).SetString(s[i*64:(i+1)*64], 16)
		if !ok {
			return nil, fmt.Errorf("word %d is not hex", i)
		}
		words[i] = w
	}
	return words, nil
}

// ServiceNodeRewards is a binding to the service node registry contract.
type ServiceNodeRewards struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	errors   *contracts.ErrorTable
}

func NewServiceNodeRewards(address common.Address, backend bind.ContractBackend) (*ServiceNodeRewards, error) {
	parsed, err := contracts.ServiceNodeRewards()
	if err != nil {
		return nil, err
	}
	errorTable, err := contracts.NewErrorTableFromJSON(contracts.ServiceNodeRewardsABI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build ServiceNodeRewards error table")
	}
	return &ServiceNodeRewards{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		errors:   errorTable,
	}, nil
}

func (r *ServiceNodeRewards) Address() common.Address {
	return r.address
}

func (r *ServiceNodeRewards) Errors() *contracts.ErrorTable {
	return r.errors
}

// RegisteredBLSKeys returns the BLS keys of every node currently in the registry.
func (r *ServiceNodeRewards) RegisteredBLSKeys(ctx context.Context) (map[string]struct{}, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "allServiceNodeIDs"); err != nil {
		return nil, errors.Wrap(err, "allServiceNodeIDs call failed")
	}
	if len(out) != 2 {
		return nil, fmt.Errorf("allServiceNodeIDs returned %d values", len(out))
	}
	pubkeys := *abi.ConvertType(out[1], new([]G1Point)).(*[]G1Point)

	keys := make(map[string]struct{}, len(pubkeys))
	for _, pk := range pubkeys {
		keys[pk.Key()] = struct{}{}
	}
	return keys, nil
}

// Pack returns the calldata of a liquidation call.
func (r *ServiceNodeRewards) Pack(call *LiquidationCall) ([]byte, error) {
	return r.abi.Pack(liquidateMethod, call.args()...)
}

// Describe renders a liquidation call for logs and dry runs.
func (r *ServiceNodeRewards) Describe(call *LiquidationCall) (string, error) {
	data, err := r.Pack(call)
	if err != nil {
		return "", errors.Wrap(err, "failed to pack liquidation call")
	}
	method := r.abi.Methods[liquidateMethod]
	var b strings.Builder
	fmt.Fprintf(&b, "ServiceNodeRewards (=%s) function %s (=%s) with args:\n", r.address.Hex(), method.Name, hexutil.Encode(method.ID))
	fmt.Fprintf(&b, "  blsPubkey: (%#x, %#x)\n", call.BLSPubkey.X, call.BLSPubkey.Y)
	fmt.Fprintf(&b, "  timestamp: %s\n", call.Timestamp)
	fmt.Fprintf(&b, "  blsSignature: (%#x, %#x, %#x, %#x)\n", call.Signature.Sigs0, call.Signature.Sigs1, call.Signature.Sigs2, call.Signature.Sigs3)
	fmt.Fprintf(&b, "  ids: %v\n", call.NonSignerIndices)
	fmt.Fprintf(&b, "  calldata: %s", hexutil.Encode(data))
	return b.String(), nil
}

// Liquidate simulates the liquidation with eth_call from the sending account and, if it
// does not revert, submits it. Reverts carrying custom error data are returned as
// *contracts.ContractError.
func (r *ServiceNodeRewards) Liquidate(opts *bind.TransactOpts, call *LiquidationCall) (*types.Transaction, error) {
	var out []interface{}
	callOpts := &bind.CallOpts{From: opts.From, Context: opts.Context}
	if err := r.contract.Call(callOpts, &out, liquidateMethod, call.args()...); err != nil {
		return nil, r.wrapRevert(err, "liquidation simulation failed")
	}
	tx, err := r.contract.Transact(opts, liquidateMethod, call.args()...)
	if err != nil {
		return nil, r.wrapRevert(err, "failed to submit liquidation")
	}
	return tx, nil
}

func (r *ServiceNodeRewards) wrapRevert(err error, msg string) error {
	if data, ok := contracts.RevertData(err); ok {
		return r.errors.Decode(data)
	}
	return errors.Wrap(err, msg)
}

// LiquidationSubmitter signs and sends liquidation transactions from a single account.
type LiquidationSubmitter struct {
	rewards *ServiceNodeRewards
	opts    *bind.TransactOpts
}

func NewLiquidationSubmitter(rewards *ServiceNodeRewards, opts *bind.TransactOpts) *LiquidationSubmitter {
	return &LiquidationSubmitter{rewards: rewards, opts: opts}
}

func (s *LiquidationSubmitter) Describe(sig *oxend.LiquidationSignature) (string, error) {
	call, err := NewLiquidationCall(sig)
	if err != nil {
		return "", err
	}
	return s.rewards.Describe(call)
}

func (s *LiquidationSubmitter) Submit(ctx context.Context, sig *oxend.LiquidationSignature) (common.Hash, error) {
	call, err := NewLiquidationCall(sig)
	if err != nil {
		return common.Hash{}, err
	}
	opts := *s.opts
	opts.Context = ctx
	tx, err := s.rewards.Liquidate(&opts, call)
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}
