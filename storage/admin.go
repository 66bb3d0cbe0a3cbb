// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/consts"
	"github.com/ava-labs/pairfactory/keys"
	"github.com/ava-labs/pairfactory/state"
)

func FeeToKey(factory codec.Address) []byte {
	k := make([]byte, 0, 1+codec.AddressLen+consts.Uint16Len)
	k = append(k, feeToPrefix)
	k = append(k, factory[:]...)
	return keys.EncodeChunks(k, FeeToChunks)
}

func FeeToSetterKey(factory codec.Address) []byte {
	k := make([]byte, 0, 1+codec.AddressLen+consts.Uint16Len)
	k = append(k, feeToSetterPrefix)
	k = append(k, factory[:]...)
	return keys.EncodeChunks(k, FeeToSetterChunks)
}

// GetFeeTo returns the fee recipient. An unset recipient is the zero address.
func GetFeeTo(ctx context.Context, im state.Immutable, factory codec.Address) (codec.Address, error) {
	addr, _, err := getAddress(ctx, im, FeeToKey(factory))
	return addr, err
}

func SetFeeTo(ctx context.Context, mu state.Mutable, factory codec.Address, feeTo codec.Address) error {
	v := make([]byte, codec.AddressLen)
	copy(v, feeTo[:])
	return mu.Insert(ctx, FeeToKey(factory), v)
}

// GetFeeToSetter returns the fee-setter authority and whether the factory has
// been initialized. A zero authority is still reported as existing.
func GetFeeToSetter(ctx context.Context, im state.Immutable, factory codec.Address) (codec.Address, bool, error) {
	return getAddress(ctx, im, FeeToSetterKey(factory))
}

func SetFeeToSetter(ctx context.Context, mu state.Mutable, factory codec.Address, feeToSetter codec.Address) error {
	v := make([]byte, codec.AddressLen)
	copy(v, feeToSetter[:])
	return mu.Insert(ctx, FeeToSetterKey(factory), v)
}
