package eth

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ArbitrumOneChainID     = big.NewInt(0xA4B1)
	ArbitrumSepoliaChainID = big.NewInt(0x66EEE)
)

// Network describes a Session network and the contracts deployed for it. Zero addresses
// mean no deployment is known and one must be configured.
type Network struct {
	Name           string
	ChainID        *big.Int
	TokenAddress   common.Address
	RewardsAddress common.Address
	ExplorerURL    string
}

var networks = map[string]Network{
	"mainnet": {
		Name:        "mainnet",
		ChainID:     ArbitrumOneChainID,
		ExplorerURL: "https://arbiscan.io",
	},
	"testnet": {
		Name:        "testnet",
		ChainID:     ArbitrumSepoliaChainID,
		ExplorerURL: "https://sepolia.arbiscan.io",
	},
	"devnet": {
		Name:           "devnet",
		ChainID:        ArbitrumSepoliaChainID,
		TokenAddress:   common.HexToAddress("0x8CB4DC28d63868eCF7Da6a31768a88dCF4465def"),
		RewardsAddress: common.HexToAddress("0x75Dc11700b2D03902FCb5Ca7aFd6A859a1Fa25Cb"),
		ExplorerURL:    "https://sepolia.arbiscan.io",
	},
	"stagenet": {
		Name:           "stagenet",
		ChainID:        ArbitrumSepoliaChainID,
		TokenAddress:   common.HexToAddress("0x70c1f36C9cEBCa51B9344121D284D85BE36CD6bB"),
		RewardsAddress: common.HexToAddress("0x4abfFB7f922767f22c7aa6524823d93FDDaB54b1"),
		ExplorerURL:    "https://sepolia.arbiscan.io",
	},
}

func LookupNetwork(name string) (Network, error) {
	n, ok := networks[name]
	if !ok {
		return Network{}, fmt.Errorf("unknown network %q", name)
	}
	return n, nil
}

func (n Network) TxURL(hash common.Hash) string {
	return fmt.Sprintf("%s/tx/%s", n.ExplorerURL, hash.Hex())
}

// ChainName names the Arbitrum chain behind a chain id.
func ChainName(chainID *big.Int) string {
	switch {
	case chainID == nil:
		return "Unknown!"
	case chainID.Cmp(ArbitrumOneChainID) == 0:
		return "Arbitrum One"
	case chainID.Cmp(ArbitrumSepoliaChainID) == 0:
		return "Arbitrum Sepolia"
	default:
		return "Unknown!"
	}
}
