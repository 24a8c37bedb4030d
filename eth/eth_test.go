package eth

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/session-foundation/sn-liquidator/contracts"
	"github.com/session-foundation/sn-liquidator/oxend"
)

type rpcError struct {
	data string
}

func (e rpcError) Error() string          { return "execution reverted" }
func (e rpcError) ErrorCode() int         { return 3 }
func (e rpcError) ErrorData() interface{} { return e.data }

// fakeBackend answers eth_call by contract address and method selector. Methods not
// overridden panic through the nil embedded interface.
type fakeBackend struct {
	bind.ContractBackend
	responses map[common.Address]map[string][]byte
	callErr   error
	calls     []ethereum.CallMsg
	estimates []ethereum.CallMsg
	sent      []*types.Transaction
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{responses: make(map[common.Address]map[string][]byte)}
}

func (f *fakeBackend) respond(addr common.Address, method abi.Method, out []byte) {
	if f.responses[addr] == nil {
		f.responses[addr] = make(map[string][]byte)
	}
	f.responses[addr][string(method.ID)] = out
}

func (f *fakeBackend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls = append(f.calls, call)
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.responses[*call.To][string(call.Data[:4])], nil
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(0x66EEE), nil
}

// A header without a base fee makes bind build legacy transactions.
func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(100)}, nil
}

func (f *fakeBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(100_000_000), nil
}

func (f *fakeBackend) EstimateGas(_ context.Context, call ethereum.CallMsg) (uint64, error) {
	f.estimates = append(f.estimates, call)
	return 250_000, nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 7, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.sent = append(f.sent, tx)
	return nil
}

func word(b byte) string {
	return strings.Repeat("0", 62) + hexutil.Encode([]byte{b})[2:]
}

func testSignature() *oxend.LiquidationSignature {
	return &oxend.LiquidationSignature{
		BLSPubkey:        word(1) + word(2),
		Signature:        "0x" + word(3) + word(4) + word(5) + word(6),
		Timestamp:        1700000000,
		NonSignerIndices: []uint64{4, 9},
	}
}

func TestG1PointKey(t *testing.T) {
	p := G1Point{X: big.NewInt(1), Y: big.NewInt(0xabc)}
	assert.Equal(t, word(1)+strings.Repeat("0", 61)+"abc", p.Key())
}

func TestNewLiquidationCall(t *testing.T) {
	call, err := NewLiquidationCall(testSignature())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), call.BLSPubkey.X)
	assert.Equal(t, big.NewInt(2), call.BLSPubkey.Y)
	assert.Equal(t, big.NewInt(1700000000), call.Timestamp)
	assert.Equal(t, big.NewInt(3), call.Signature.Sigs0)
	assert.Equal(t, big.NewInt(6), call.Signature.Sigs3)
	assert.Equal(t, []uint64{4, 9}, call.NonSignerIndices)
}

func TestNewLiquidationCallRejectsBadLengths(t *testing.T) {
	sig := testSignature()
	sig.BLSPubkey = word(1)
	_, err := NewLiquidationCall(sig)
	assert.ErrorContains(t, err, "bls_pubkey")

	sig = testSignature()
	sig.Signature = word(1) + word(2)
	_, err = NewLiquidationCall(sig)
	assert.ErrorContains(t, err, "signature")

	sig = testSignature()
	sig.BLSPubkey = strings.Repeat("zz", 64)
	_, err = NewLiquidationCall(sig)
	assert.Error(t, err)
}

func TestRegisteredBLSKeys(t *testing.T) {
	backend := newFakeBackend()
	addr := common.HexToAddress("0x4abfFB7f922767f22c7aa6524823d93FDDaB54b1")
	rewards, err := NewServiceNodeRewards(addr, backend)
	require.NoError(t, err)

	method := rewards.abi.Methods["allServiceNodeIDs"]
	out, err := method.Outputs.Pack(
		[]uint64{1, 2},
		[]G1Point{
			{X: big.NewInt(1), Y: big.NewInt(2)},
			{X: big.NewInt(0xff), Y: big.NewInt(0xee)},
		},
	)
	require.NoError(t, err)
	backend.respond(addr, method, out)

	keys, err := rewards.RegisteredBLSKeys(context.Background())
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, word(1)+word(2))
	assert.Contains(t, keys, word(0xff)+word(0xee))
}

func TestDescribeIncludesSelector(t *testing.T) {
	addr := common.HexToAddress("0x75Dc11700b2D03902FCb5Ca7aFd6A859a1Fa25Cb")
	rewards, err := NewServiceNodeRewards(addr, newFakeBackend())
	require.NoError(t, err)

	call, err := NewLiquidationCall(testSignature())
	require.NoError(t, err)
	desc, err := rewards.Describe(call)
	require.NoError(t, err)

	selector := contracts.SelectorOf("liquidateBLSPublicKeyWithSignature((uint256,uint256),uint256,(uint256,uint256,uint256,uint256),uint64[])")
	assert.Contains(t, desc, addr.Hex())
	assert.Contains(t, desc, "liquidateBLSPublicKeyWithSignature")
	assert.Contains(t, desc, selector.String())

	data, err := rewards.Pack(call)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, selector[:]))
}

func TestLiquidateDecodesRevert(t *testing.T) {
	backend := newFakeBackend()
	addr := common.HexToAddress("0x75Dc11700b2D03902FCb5Ca7aFd6A859a1Fa25Cb")
	rewards, err := NewServiceNodeRewards(addr, backend)
	require.NoError(t, err)

	def, ok := rewards.Errors().Lookup(contracts.SelectorOf("InvalidBLSSignature()"))
	require.True(t, ok)
	backend.callErr = rpcError{data: def.Selector.String()}

	call, err := NewLiquidationCall(testSignature())
	require.NoError(t, err)
	from := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	_, err = rewards.Liquidate(&bind.TransactOpts{From: from, Context: context.Background()}, call)

	var cerr *contracts.ContractError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "InvalidBLSSignature", cerr.Name)
	require.Len(t, backend.calls, 1)
	assert.Equal(t, from, backend.calls[0].From)
}

func TestSubmitSendsLiquidation(t *testing.T) {
	backend := newFakeBackend()
	addr := common.HexToAddress("0x75Dc11700b2D03902FCb5Ca7aFd6A859a1Fa25Cb")
	rewards, err := NewServiceNodeRewards(addr, backend)
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)
	opts, err := bind.NewKeyedTransactorWithChainID(key, ArbitrumSepoliaChainID)
	require.NoError(t, err)

	hash, err := NewLiquidationSubmitter(rewards, opts).Submit(context.Background(), testSignature())
	require.NoError(t, err)

	require.Len(t, backend.calls, 1)
	assert.Equal(t, from, backend.calls[0].From)
	require.Len(t, backend.estimates, 1)
	assert.Equal(t, from, backend.estimates[0].From)

	require.Len(t, backend.sent, 1)
	tx := backend.sent[0]
	assert.Equal(t, tx.Hash(), hash)
	assert.Equal(t, addr, *tx.To())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(250_000), tx.Gas())
	assert.Equal(t, big.NewInt(100_000_000), tx.GasPrice())

	call, err := NewLiquidationCall(testSignature())
	require.NoError(t, err)
	data, err := rewards.Pack(call)
	require.NoError(t, err)
	assert.Equal(t, data, tx.Data())

	sender, err := types.Sender(types.LatestSignerForChainID(ArbitrumSepoliaChainID), tx)
	require.NoError(t, err)
	assert.Equal(t, from, sender)
}

func TestLiquidateWrapsPlainErrors(t *testing.T) {
	backend := newFakeBackend()
	backend.callErr = assert.AnError
	rewards, err := NewServiceNodeRewards(common.Address{}, backend)
	require.NoError(t, err)

	call, err := NewLiquidationCall(testSignature())
	require.NoError(t, err)
	_, err = rewards.Liquidate(&bind.TransactOpts{Context: context.Background()}, call)
	require.Error(t, err)

	var cerr *contracts.ContractError
	assert.False(t, errors.As(err, &cerr))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestReadSnapshot(t *testing.T) {
	backend := newFakeBackend()
	reader, err := NewVestingReader(backend)
	require.NoError(t, err)

	vestingAddr := common.HexToAddress("0x1000000000000000000000000000000000000001")
	token := common.HexToAddress("0x2000000000000000000000000000000000000002")
	beneficiary := common.HexToAddress("0x3000000000000000000000000000000000000003")
	revoker := common.HexToAddress("0x4000000000000000000000000000000000000004")
	rewardsAddr := common.HexToAddress("0x5000000000000000000000000000000000000005")
	factory := common.HexToAddress("0x6000000000000000000000000000000000000006")

	respond := func(addr common.Address, a abi.ABI, name string, values ...interface{}) {
		m := a.Methods[name]
		out, err := m.Outputs.Pack(values...)
		require.NoError(t, err)
		backend.respond(addr, m, out)
	}
	respond(vestingAddr, reader.vestingAbi, "SESH", token)
	respond(vestingAddr, reader.vestingAbi, "beneficiary", beneficiary)
	respond(vestingAddr, reader.vestingAbi, "revoked", false)
	respond(vestingAddr, reader.vestingAbi, "revoker", revoker)
	respond(vestingAddr, reader.vestingAbi, "rewardsContract", rewardsAddr)
	respond(vestingAddr, reader.vestingAbi, "snContribFactory", factory)
	respond(vestingAddr, reader.vestingAbi, "transferableBeneficiary", true)
	respond(token, reader.tokenAbi, "balanceOf", big.NewInt(1234567890))

	snap, err := reader.ReadSnapshot(context.Background(), vestingAddr)
	require.NoError(t, err)
	assert.Equal(t, vestingAddr, snap.Address)
	assert.Equal(t, token, snap.Token)
	assert.Equal(t, beneficiary, snap.Beneficiary)
	assert.False(t, snap.Revoked)
	assert.Equal(t, revoker, snap.Revoker)
	assert.Equal(t, rewardsAddr, snap.Rewards)
	assert.Equal(t, factory, snap.ContribFactory)
	assert.True(t, snap.TransferableBeneficiary)
	assert.Equal(t, big.NewInt(1234567890), snap.Balance)
}

func TestReadSnapshotFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.callErr = assert.AnError
	reader, err := NewVestingReader(backend)
	require.NoError(t, err)

	_, err = reader.ReadSnapshot(context.Background(), common.Address{})
	assert.ErrorContains(t, err, "SESH()")
}

func TestEnsureChainID(t *testing.T) {
	backend := newFakeBackend()
	id, err := EnsureChainID(context.Background(), backend, ArbitrumSepoliaChainID)
	require.NoError(t, err)
	assert.Equal(t, ArbitrumSepoliaChainID, id)

	_, err = EnsureChainID(context.Background(), backend, ArbitrumOneChainID)
	assert.ErrorIs(t, err, errWrongChainID)
	assert.ErrorContains(t, err, "expected 0xa4b1, L2 provider is 0x66eee")
}

func TestNetworks(t *testing.T) {
	n, err := LookupNetwork("stagenet")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x4abfFB7f922767f22c7aa6524823d93FDDaB54b1"), n.RewardsAddress)
	assert.Equal(t, 0, n.ChainID.Cmp(ArbitrumSepoliaChainID))

	n, err = LookupNetwork("mainnet")
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, n.RewardsAddress)
	hash := common.HexToHash("0x01")
	assert.Equal(t, "https://arbiscan.io/tx/"+hash.Hex(), n.TxURL(hash))

	_, err = LookupNetwork("localnet")
	assert.Error(t, err)

	assert.Equal(t, "Arbitrum One", ChainName(big.NewInt(0xA4B1)))
	assert.Equal(t, "Arbitrum Sepolia", ChainName(big.NewInt(0x66EEE)))
	assert.Equal(t, "Unknown!", ChainName(big.NewInt(1)))
}
