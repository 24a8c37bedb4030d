package keys

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) string {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return hexutil.Encode(crypto.FromECDSA(key))
}

func TestParsePrivateKey(t *testing.T) {
	hexKey := testKey(t)
	key, err := ParsePrivateKey(hexKey)
	require.NoError(t, err)
	assert.Equal(t, hexKey, hexutil.Encode(crypto.FromECDSA(key)))
}

func TestParsePrivateKeyRejects(t *testing.T) {
	_, err := ParsePrivateKey("")
	assert.ErrorIs(t, err, ErrMissingKey)

	hexKey := testKey(t)
	for _, bad := range []string{
		hexKey[2:],
		hexKey[:65],
		hexKey + "0",
		"0x" + strings.Repeat("zz", 32),
	} {
		_, err := ParsePrivateKey(bad)
		assert.ErrorIs(t, err, ErrMalformedKey, bad)
	}
}

func TestVerifyWallet(t *testing.T) {
	key, err := ParsePrivateKey(testKey(t))
	require.NoError(t, err)
	addr := Address(key)

	got, err := VerifyWallet(key, "")
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	_, err = VerifyWallet(key, strings.ToLower(addr.Hex()))
	assert.NoError(t, err)

	_, err = VerifyWallet(key, "0x00000000000000000000000000000000000000aa")
	assert.ErrorIs(t, err, ErrWalletMismatch)

	_, err = VerifyWallet(key, "not-an-address")
	assert.Error(t, err)
}
