package eth

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/session-foundation/sn-liquidator/contracts"
	"github.com/session-foundation/sn-liquidator/vesting"
)

// VestingReader reads TokenVestingStaking contracts and their token balance.
type VestingReader struct {
	backend    bind.ContractCaller
	vestingAbi abi.ABI
	tokenAbi   abi.ABI
}

func NewVestingReader(backend bind.ContractCaller) (*VestingReader, error) {
	vestingAbi, err := contracts.TokenVestingStaking()
	if err != nil {
		return nil, err
	}
	tokenAbi, err := contracts.ERC20()
	if err != nil {
		return nil, err
	}
	return &VestingReader{
		backend:    backend,
		vestingAbi: vestingAbi,
		tokenAbi:   tokenAbi,
	}, nil
}

func (v *VestingReader) ReadSnapshot(ctx context.Context, address common.Address) (*vesting.Snapshot, error) {
	c := bind.NewBoundContract(address, v.vestingAbi, v.backend, nil, nil)
	opts := &bind.CallOpts{Context: ctx}

	snap := &vesting.Snapshot{Address: address}
	var err error
	if snap.Token, err = callAddress(opts, c, "SESH"); err != nil {
		return nil, err
	}
	if snap.Beneficiary, err = callAddress(opts, c, "beneficiary"); err != nil {
		return nil, err
	}
	if snap.Revoked, err = callBool(opts, c, "revoked"); err != nil {
		return nil, err
	}
	if snap.Revoker, err = callAddress(opts, c, "revoker"); err != nil {
		return nil, err
	}
	if snap.Rewards, err = callAddress(opts, c, "rewardsContract"); err != nil {
		return nil, err
	}
	if snap.ContribFactory, err = callAddress(opts, c, "snContribFactory"); err != nil {
		return nil, err
	}
	if snap.TransferableBeneficiary, err = callBool(opts, c, "transferableBeneficiary"); err != nil {
		return nil, err
	}

	token := bind.NewBoundContract(snap.Token, v.tokenAbi, v.backend, nil, nil)
	var out []interface{}
	if err := token.Call(opts, &out, "balanceOf", address); err != nil {
		return nil, errors.Wrap(err, "balanceOf() call failed")
	}
	snap.Balance = *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return snap, nil
}

func callAddress(opts *bind.CallOpts, c *bind.BoundContract, method string) (common.Address, error) {
	var out []interface{}
	if err := c.Call(opts, &out, method); err != nil {
		return common.Address{}, errors.Wrapf(err, "%s() call failed", method)
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func callBool(opts *bind.CallOpts, c *bind.BoundContract, method string) (bool, error) {
	var out []interface{}
	if err := c.Call(opts, &out, method); err != nil {
		return false, errors.Wrapf(err, "%s() call failed", method)
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}
