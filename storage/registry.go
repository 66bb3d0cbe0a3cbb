// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/consts"
	"github.com/ava-labs/pairfactory/keys"
	"github.com/ava-labs/pairfactory/state"
)

// PairKey is scoped to [factory] so that independent registries can share
// one ledger.
func PairKey(factory codec.Address, tokenA codec.Address, tokenB codec.Address) []byte {
	k := make([]byte, 0, 1+3*codec.AddressLen+consts.Uint16Len)
	k = append(k, pairPrefix)
	k = append(k, factory[:]...)
	k = append(k, tokenA[:]...)
	k = append(k, tokenB[:]...)
	return keys.EncodeChunks(k, PairChunks)
}

func AllPairsKey(factory codec.Address, index uint64) []byte {
	k := make([]byte, 0, 1+codec.AddressLen+consts.Uint64Len+consts.Uint16Len)
	k = append(k, allPairsPrefix)
	k = append(k, factory[:]...)
	k = binary.BigEndian.AppendUint64(k, index)
	return keys.EncodeChunks(k, AllPairsChunks)
}

func AllPairsLengthKey(factory codec.Address) []byte {
	k := make([]byte, 0, 1+codec.AddressLen+consts.Uint16Len)
	k = append(k, allPairsLengthPrefix)
	k = append(k, factory[:]...)
	return keys.EncodeChunks(k, AllPairsLengthChunks)
}

// GetPair returns the pair registered for (tokenA, tokenB). The lookup is
// keyed by argument order; both orders are written by [RegisterPair].
func GetPair(
	ctx context.Context,
	im state.Immutable,
	factory codec.Address,
	tokenA codec.Address,
	tokenB codec.Address,
) (codec.Address, bool, error) {
	return getAddress(ctx, im, PairKey(factory, tokenA, tokenB))
}

func GetAllPairsLength(
	ctx context.Context,
	im state.Immutable,
	factory codec.Address,
) (uint64, error) {
	v, err := im.GetValue(ctx, AllPairsLengthKey(factory))
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, ErrInvalidValue
	}
	return binary.BigEndian.Uint64(v), nil
}

// GetAllPair returns the pair created at [index] and whether it exists.
func GetAllPair(
	ctx context.Context,
	im state.Immutable,
	factory codec.Address,
	index uint64,
) (codec.Address, bool, error) {
	return getAddress(ctx, im, AllPairsKey(factory, index))
}

// RegisterPair records [pair] under both token orders and appends it to the
// enumeration. It returns the new number of pairs.
//
// This is the only writer of the registry, so the forward and reverse
// entries can never diverge.
func RegisterPair(
	ctx context.Context,
	mu state.Mutable,
	factory codec.Address,
	token0 codec.Address,
	token1 codec.Address,
	pair codec.Address,
) (uint64, error) {
	if err := setPair(ctx, mu, factory, token0, token1, pair); err != nil {
		return 0, err
	}
	if err := setPair(ctx, mu, factory, token1, token0, pair); err != nil {
		return 0, err
	}
	return appendPair(ctx, mu, factory, pair)
}

func setPair(
	ctx context.Context,
	mu state.Mutable,
	factory codec.Address,
	tokenA codec.Address,
	tokenB codec.Address,
	pair codec.Address,
) error {
	v := make([]byte, codec.AddressLen)
	copy(v, pair[:])
	return mu.Insert(ctx, PairKey(factory, tokenA, tokenB), v)
}

func appendPair(
	ctx context.Context,
	mu state.Mutable,
	factory codec.Address,
	pair codec.Address,
) (uint64, error) {
	length, err := GetAllPairsLength(ctx, mu, factory)
	if err != nil {
		return 0, err
	}
	if length == consts.MaxUint64 {
		return 0, fmt.Errorf("%w: length overflow", ErrInconsistentLength)
	}
	_, exists, err := GetAllPair(ctx, mu, factory, length)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("%w: index %d already populated", ErrInconsistentLength, length)
	}
	v := make([]byte, codec.AddressLen)
	copy(v, pair[:])
	if err := mu.Insert(ctx, AllPairsKey(factory, length), v); err != nil {
		return 0, err
	}
	length++
	if err := mu.Insert(ctx, AllPairsLengthKey(factory), binary.BigEndian.AppendUint64(nil, length)); err != nil {
		return 0, err
	}
	return length, nil
}

func getAddress(ctx context.Context, im state.Immutable, key []byte) (codec.Address, bool, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, false, nil
	}
	if err != nil {
		return codec.EmptyAddress, false, err
	}
	addr, err := codec.ToAddress(v)
	if err != nil {
		return codec.EmptyAddress, false, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return addr, true, nil
}
