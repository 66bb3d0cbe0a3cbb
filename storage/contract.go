// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/consts"
	"github.com/ava-labs/pairfactory/keys"
	"github.com/ava-labs/pairfactory/state"
)

// Contract is the record kept for every address that holds code.
type Contract struct {
	CodeHash [consts.HashLen]byte
	Deployer codec.Address
}

func ContractKey(addr codec.Address) []byte {
	k := make([]byte, 0, 1+codec.AddressLen+consts.Uint16Len)
	k = append(k, contractPrefix)
	k = append(k, addr[:]...)
	return keys.EncodeChunks(k, ContractChunks)
}

func SetContract(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	contract Contract,
) error {
	v := make([]byte, consts.HashLen+codec.AddressLen)
	copy(v, contract.CodeHash[:])
	copy(v[consts.HashLen:], contract.Deployer[:])
	return mu.Insert(ctx, ContractKey(addr), v)
}

// GetContract returns the contract stored at [addr] and whether it exists.
func GetContract(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
) (Contract, bool, error) {
	v, err := im.GetValue(ctx, ContractKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return Contract{}, false, nil
	}
	if err != nil {
		return Contract{}, false, err
	}
	if len(v) != consts.HashLen+codec.AddressLen {
		return Contract{}, false, ErrInvalidValue
	}
	var c Contract
	copy(c.CodeHash[:], v[:consts.HashLen])
	copy(c.Deployer[:], v[consts.HashLen:])
	return c, true, nil
}

func PairTokensKey(pair codec.Address) []byte {
	k := make([]byte, 0, 1+codec.AddressLen+consts.Uint16Len)
	k = append(k, pairTokensPrefix)
	k = append(k, pair[:]...)
	return keys.EncodeChunks(k, PairTokensChunks)
}

func SetPairTokens(
	ctx context.Context,
	mu state.Mutable,
	pair codec.Address,
	token0 codec.Address,
	token1 codec.Address,
) error {
	v := make([]byte, 2*codec.AddressLen)
	copy(v, token0[:])
	copy(v[codec.AddressLen:], token1[:])
	return mu.Insert(ctx, PairTokensKey(pair), v)
}

// GetPairTokens returns the tokens a pair contract was initialized with.
func GetPairTokens(
	ctx context.Context,
	im state.Immutable,
	pair codec.Address,
) (codec.Address, codec.Address, bool, error) {
	v, err := im.GetValue(ctx, PairTokensKey(pair))
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, codec.EmptyAddress, false, nil
	}
	if err != nil {
		return codec.EmptyAddress, codec.EmptyAddress, false, err
	}
	if len(v) != 2*codec.AddressLen {
		return codec.EmptyAddress, codec.EmptyAddress, false, ErrInvalidValue
	}
	return codec.Address(v[:codec.AddressLen]), codec.Address(v[codec.AddressLen:]), true, nil
}
