// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pair is the boundary of the pair contract deployed by the
// factory. Only its creation template and its one-shot initializer live
// here; trading and liquidity logic are out of scope.
package pair

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/consts"
	"github.com/ava-labs/pairfactory/create2"
	"github.com/ava-labs/pairfactory/state"
	"github.com/ava-labs/pairfactory/storage"
)

var (
	ErrIdenticalTokens    = errors.New("identical tokens")
	ErrZeroAddress        = errors.New("zero address")
	ErrNotDeployed        = errors.New("pair not deployed")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyInitialized = errors.New("pair already initialized")
)

// Bytecode is the creation template of the pair contract. Changing it moves
// every pair address, so it is versioned.
var Bytecode = []byte("pairfactory.Pair/v1")

// CodeHash is keccak256(Bytecode). Off-chain tooling uses it to precompute
// pair addresses.
var CodeHash = common.HexToHash("0x09446ad2f5017cbc3308cfc47bc75a66ac3e326c5ec37ad548cbad2a4478bb85")

// SortTokens returns [a] and [b] in ascending byte order.
func SortTokens(a codec.Address, b codec.Address) (codec.Address, codec.Address) {
	if a.Compare(b) < 0 {
		return a, b
	}
	return b, a
}

// Salt returns keccak256(token0 ++ token1). Tokens must already be sorted.
func Salt(token0 codec.Address, token1 codec.Address) [consts.HashLen]byte {
	return crypto.Keccak256Hash(token0[:], token1[:])
}

// Address returns the address [factory] deploys the pair of [tokenA] and
// [tokenB] to, regardless of argument order and without touching state.
func Address(factory codec.Address, tokenA codec.Address, tokenB codec.Address) (codec.Address, error) {
	if tokenA == tokenB {
		return codec.EmptyAddress, ErrIdenticalTokens
	}
	token0, token1 := SortTokens(tokenA, tokenB)
	if token0.IsZero() {
		return codec.EmptyAddress, ErrZeroAddress
	}
	return create2.DeriveAddress(factory, CodeHash, Salt(token0, token1)), nil
}

// Initialize binds [pair] to its tokens. It may only be called once and only
// by the contract that deployed [pair].
func Initialize(
	ctx context.Context,
	mu state.Mutable,
	pair codec.Address,
	caller codec.Address,
	token0 codec.Address,
	token1 codec.Address,
) error {
	contract, exists, err := storage.GetContract(ctx, mu, pair)
	if err != nil {
		return err
	}
	if !exists || contract.CodeHash != CodeHash {
		return ErrNotDeployed
	}
	if contract.Deployer != caller {
		return ErrForbidden
	}
	_, _, initialized, err := storage.GetPairTokens(ctx, mu, pair)
	if err != nil {
		return err
	}
	if initialized {
		return ErrAlreadyInitialized
	}
	return storage.SetPairTokens(ctx, mu, pair, token0, token1)
}

// Tokens returns the tokens [pair] was initialized with.
func Tokens(ctx context.Context, im state.Immutable, pair codec.Address) (codec.Address, codec.Address, error) {
	token0, token1, initialized, err := storage.GetPairTokens(ctx, im, pair)
	if err != nil {
		return codec.EmptyAddress, codec.EmptyAddress, err
	}
	if !initialized {
		return codec.EmptyAddress, codec.EmptyAddress, ErrNotDeployed
	}
	return token0, token1, nil
}
