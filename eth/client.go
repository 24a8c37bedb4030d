package eth

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

var errWrongChainID = errors.New("wrong chain id")

type Config struct {
	RPCUrl string `yaml:"l2" env:"L2_URL" env-description:"L2 provider URL"`
}

type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dial connects to the L2 provider and makes one round trip so that a bad URL fails here
// rather than on first use.
func Dial(ctx context.Context, config *Config) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, config.RPCUrl)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial L2 provider")
	}
	if _, err := client.ChainID(ctx); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "L2 provider is not responding")
	}
	return client, nil
}

// EnsureChainID checks that the provider serves the expected chain.
func EnsureChainID(ctx context.Context, client ChainIDReader, expected *big.Int) (*big.Int, error) {
	actual, err := client.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain id")
	}
	if actual.Cmp(expected) != 0 {
		return actual, fmt.Errorf("%w: expected 0x%x, L2 provider is 0x%x", errWrongChainID, expected, actual)
	}
	return actual, nil
}
