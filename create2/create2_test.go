// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package create2

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/state"
	"github.com/ava-labs/pairfactory/storage"
)

func TestDeriveAddress(t *testing.T) {
	tests := []struct {
		name     string
		deployer string
		codeHash string
		tokens   [2]string
		expected string
	}{
		{
			// Uniswap V2 USDC/WETH on Ethereum mainnet
			name:     "uniswap v2 usdc weth",
			deployer: "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f",
			codeHash: "0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f",
			tokens:   [2]string{"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"},
			expected: "0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			token0 := codec.MustParseAddress(tt.tokens[0])
			token1 := codec.MustParseAddress(tt.tokens[1])
			salt := crypto.Keccak256Hash(token0[:], token1[:])
			addr := DeriveAddress(
				codec.MustParseAddress(tt.deployer),
				common.HexToHash(tt.codeHash),
				salt,
			)
			require.Equal(tt.expected, addr.String())
		})
	}
}

func TestCreateAddress(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(codec.MustParseAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0"), 0)
	require.Equal(codec.MustParseAddress("0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d"), addr)
}

func TestDeploy(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}

	deployer := codec.Address{0: 0x01}
	code := []byte("code")
	salt := [32]byte{0x02}

	addr, err := Deploy(ctx, mu, deployer, code, salt)
	require.NoError(err)
	require.Equal(DeriveAddress(deployer, CodeHash(code), salt), addr)

	c, ok, err := storage.GetContract(ctx, mu, addr)
	require.NoError(err)
	require.True(ok)
	require.Equal(deployer, c.Deployer)
	require.Equal(CodeHash(code), c.CodeHash)

	_, err = Deploy(ctx, mu, deployer, code, salt)
	require.ErrorIs(err, ErrContractExists)

	// A different salt lands elsewhere
	other, err := Deploy(ctx, mu, deployer, code, [32]byte{0x03})
	require.NoError(err)
	require.NotEqual(addr, other)

	_, err = Deploy(ctx, mu, deployer, nil, salt)
	require.ErrorIs(err, ErrEmptyCode)
}
