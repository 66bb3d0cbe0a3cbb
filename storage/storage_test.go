// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/keys"
	"github.com/ava-labs/pairfactory/state"
)

var (
	factoryA = codec.Address{0: 0xfa}
	factoryB = codec.Address{0: 0xfb}
	token0   = codec.Address{19: 0x01}
	token1   = codec.Address{19: 0x02}
	pairAddr = codec.Address{0: 0x77}
)

func TestRegisterPair(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}

	length, err := GetAllPairsLength(ctx, mu, factoryA)
	require.NoError(err)
	require.Zero(length)

	length, err = RegisterPair(ctx, mu, factoryA, token0, token1, pairAddr)
	require.NoError(err)
	require.Equal(uint64(1), length)

	forward, ok, err := GetPair(ctx, mu, factoryA, token0, token1)
	require.NoError(err)
	require.True(ok)
	reverse, ok, err := GetPair(ctx, mu, factoryA, token1, token0)
	require.NoError(err)
	require.True(ok)
	require.Equal(pairAddr, forward)
	require.Equal(forward, reverse)

	first, ok, err := GetAllPair(ctx, mu, factoryA, 0)
	require.NoError(err)
	require.True(ok)
	require.Equal(pairAddr, first)

	_, ok, err = GetAllPair(ctx, mu, factoryA, 1)
	require.NoError(err)
	require.False(ok)

	// Registries of different factories do not overlap
	_, ok, err = GetPair(ctx, mu, factoryB, token0, token1)
	require.NoError(err)
	require.False(ok)
	length, err = GetAllPairsLength(ctx, mu, factoryB)
	require.NoError(err)
	require.Zero(length)
}

func TestRegisterPairInconsistentLength(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}

	// An enumeration slot past the recorded length means state is corrupt.
	require.NoError(mu.Insert(ctx, AllPairsKey(factoryA, 0), pairAddr[:]))
	_, err := RegisterPair(ctx, mu, factoryA, token0, token1, pairAddr)
	require.ErrorIs(err, ErrInconsistentLength)
}

func TestInvalidStoredValue(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}

	require.NoError(mu.Insert(ctx, PairKey(factoryA, token0, token1), []byte{0x01}))
	_, _, err := GetPair(ctx, mu, factoryA, token0, token1)
	require.ErrorIs(err, ErrInvalidValue)

	require.NoError(mu.Insert(ctx, AllPairsLengthKey(factoryA), []byte{0x01}))
	_, err = GetAllPairsLength(ctx, mu, factoryA)
	require.ErrorIs(err, ErrInvalidValue)

	require.NoError(mu.Insert(ctx, ContractKey(pairAddr), []byte{0x01}))
	_, _, err = GetContract(ctx, mu, pairAddr)
	require.ErrorIs(err, ErrInvalidValue)
}

func TestAdmin(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}

	feeTo, err := GetFeeTo(ctx, mu, factoryA)
	require.NoError(err)
	require.Equal(codec.EmptyAddress, feeTo)
	_, initialized, err := GetFeeToSetter(ctx, mu, factoryA)
	require.NoError(err)
	require.False(initialized)

	require.NoError(SetFeeToSetter(ctx, mu, factoryA, codec.EmptyAddress))
	setter, initialized, err := GetFeeToSetter(ctx, mu, factoryA)
	require.NoError(err)
	require.True(initialized)
	require.Equal(codec.EmptyAddress, setter)

	require.NoError(SetFeeTo(ctx, mu, factoryA, token0))
	feeTo, err = GetFeeTo(ctx, mu, factoryA)
	require.NoError(err)
	require.Equal(token0, feeTo)
}

func TestContract(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}

	_, ok, err := GetContract(ctx, mu, pairAddr)
	require.NoError(err)
	require.False(ok)

	c := Contract{CodeHash: [32]byte{0x01}, Deployer: factoryA}
	require.NoError(SetContract(ctx, mu, pairAddr, c))
	got, ok, err := GetContract(ctx, mu, pairAddr)
	require.NoError(err)
	require.True(ok)
	require.Equal(c, got)

	require.NoError(SetPairTokens(ctx, mu, pairAddr, token0, token1))
	t0, t1, ok, err := GetPairTokens(ctx, mu, pairAddr)
	require.NoError(err)
	require.True(ok)
	require.Equal(token0, t0)
	require.Equal(token1, t1)
}

func TestValuesFitChunks(t *testing.T) {
	require := require.New(t)

	addr := make([]byte, codec.AddressLen)
	require.True(keys.VerifyValue(PairKey(factoryA, token0, token1), addr))
	require.True(keys.VerifyValue(AllPairsKey(factoryA, 0), addr))
	require.True(keys.VerifyValue(AllPairsLengthKey(factoryA), make([]byte, 8)))
	require.True(keys.VerifyValue(FeeToKey(factoryA), addr))
	require.True(keys.VerifyValue(FeeToSetterKey(factoryA), addr))
	require.True(keys.VerifyValue(ContractKey(pairAddr), make([]byte, 52)))
	require.True(keys.VerifyValue(PairTokensKey(pairAddr), make([]byte, 40)))
}
