// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pair

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/create2"
	"github.com/ava-labs/pairfactory/state"
)

var (
	factory = codec.MustParseAddress("0x52c84043cd9c865236f11d9fc9f56aa003c1f922")
	tokenA  = codec.Address{19: 0x01}
	tokenB  = codec.Address{19: 0x02}
)

func TestCodeHash(t *testing.T) {
	require.Equal(t, create2.CodeHash(Bytecode), [32]byte(CodeHash))
}

func TestSalt(t *testing.T) {
	require.Equal(
		t,
		common.HexToHash("0xb223ca6c94ac438bc67580acbf60712984058251881a79a749dff0c99c6c4b5f"),
		common.Hash(Salt(tokenA, tokenB)),
	)
}

func TestAddress(t *testing.T) {
	expected := codec.MustParseAddress("0x87f3a0cd966479c165f03fc6179050220dfd50d9")
	tests := []struct {
		name        string
		tokenA      codec.Address
		tokenB      codec.Address
		expected    codec.Address
		expectedErr error
	}{
		{
			name:     "sorted",
			tokenA:   tokenA,
			tokenB:   tokenB,
			expected: expected,
		},
		{
			name:     "reversed",
			tokenA:   tokenB,
			tokenB:   tokenA,
			expected: expected,
		},
		{
			name:        "identical",
			tokenA:      tokenA,
			tokenB:      tokenA,
			expectedErr: ErrIdenticalTokens,
		},
		{
			name:        "zero",
			tokenA:      codec.EmptyAddress,
			tokenB:      tokenA,
			expectedErr: ErrZeroAddress,
		},
		{
			name:        "identical zero",
			tokenA:      codec.EmptyAddress,
			tokenB:      codec.EmptyAddress,
			expectedErr: ErrIdenticalTokens,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			addr, err := Address(factory, tt.tokenA, tt.tokenB)
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(tt.expected, addr)
		})
	}
}

func TestSortTokens(t *testing.T) {
	require := require.New(t)

	high := codec.Address{0: 0x10}
	low := codec.Address{19: 0xff}
	token0, token1 := SortTokens(high, low)
	require.Equal(low, token0)
	require.Equal(high, token1)

	token0, token1 = SortTokens(low, high)
	require.Equal(low, token0)
	require.Equal(high, token1)
}

func TestInitialize(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}

	salt := Salt(tokenA, tokenB)
	require.ErrorIs(Initialize(ctx, mu, codec.Address{0: 0x01}, factory, tokenA, tokenB), ErrNotDeployed)

	addr, err := create2.Deploy(ctx, mu, factory, Bytecode, salt)
	require.NoError(err)
	require.Equal(codec.MustParseAddress("0x87f3a0cd966479c165f03fc6179050220dfd50d9"), addr)

	_, _, err = Tokens(ctx, mu, addr)
	require.ErrorIs(err, ErrNotDeployed)

	require.ErrorIs(Initialize(ctx, mu, addr, tokenA, tokenA, tokenB), ErrForbidden)
	require.NoError(Initialize(ctx, mu, addr, factory, tokenA, tokenB))
	require.ErrorIs(Initialize(ctx, mu, addr, factory, tokenA, tokenB), ErrAlreadyInitialized)

	token0, token1, err := Tokens(ctx, mu, addr)
	require.NoError(err)
	require.Equal(tokenA, token0)
	require.Equal(tokenB, token1)
}

func TestInitializeOtherCode(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}

	addr, err := create2.Deploy(ctx, mu, factory, []byte("not a pair"), Salt(tokenA, tokenB))
	require.NoError(err)
	require.ErrorIs(Initialize(ctx, mu, addr, factory, tokenA, tokenB), ErrNotDeployed)
}
