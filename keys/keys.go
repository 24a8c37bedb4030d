package keys

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const EnvPrivateKey = "ETH_PRIVATE_KEY"

var (
	ErrMissingKey     = errors.New(EnvPrivateKey + " is not set")
	ErrMalformedKey   = errors.New(EnvPrivateKey + " must be 0x followed by 64 hex digits")
	ErrWalletMismatch = errors.New("private key does not match the expected wallet")
)

// ParsePrivateKey decodes a 0x-prefixed secp256k1 private key.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	if hexKey == "" {
		return nil, ErrMissingKey
	}
	if len(hexKey) != 66 || !strings.HasPrefix(hexKey, "0x") {
		return nil, ErrMalformedKey
	}
	key, err := crypto.HexToECDSA(hexKey[2:])
	if err != nil {
		return nil, errors.Wrap(ErrMalformedKey, err.Error())
	}
	return key, nil
}

func Address(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

// VerifyWallet checks that key controls the wallet address. An empty wallet matches any key.
func VerifyWallet(key *ecdsa.PrivateKey, wallet string) (common.Address, error) {
	addr := Address(key)
	if wallet == "" {
		return addr, nil
	}
	if !common.IsHexAddress(wallet) {
		return addr, errors.Errorf("invalid wallet address %q", wallet)
	}
	if common.HexToAddress(wallet) != addr {
		return addr, errors.Wrapf(ErrWalletMismatch, "key is for %s, not %s", addr.Hex(), wallet)
	}
	return addr, nil
}
