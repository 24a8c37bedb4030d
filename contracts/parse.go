package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

func ServiceNodeRewards() (abi.ABI, error) {
	return parse("ServiceNodeRewards", ServiceNodeRewardsABI)
}

func TokenVestingStaking() (abi.ABI, error) {
	return parse("TokenVestingStaking", TokenVestingStakingABI)
}

func ERC20() (abi.ABI, error) {
	return parse("ERC20", ERC20ABI)
}

func parse(name, definition string) (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		return abi.ABI{}, errors.Wrapf(err, "failed to parse %s abi", name)
	}
	return parsed, nil
}
