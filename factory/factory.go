// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package factory implements the pair registry: it deploys exactly one pair
// contract per unordered token pair at a deterministic address and records
// it for lookup and enumeration.
package factory

import (
	"context"
	"fmt"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/create2"
	"github.com/ava-labs/pairfactory/event"
	"github.com/ava-labs/pairfactory/pair"
	"github.com/ava-labs/pairfactory/state"
	"github.com/ava-labs/pairfactory/storage"
)

// Factory is stateless; all of its data lives in the ledger under its
// address.
type Factory struct {
	address codec.Address
}

func New(address codec.Address) *Factory {
	return &Factory{address: address}
}

func (f *Factory) Address() codec.Address {
	return f.address
}

// Initialize sets the fee-setter authority. The fee recipient starts unset.
func (f *Factory) Initialize(ctx context.Context, mu state.Mutable, feeToSetter codec.Address) error {
	_, initialized, err := storage.GetFeeToSetter(ctx, mu, f.address)
	if err != nil {
		return err
	}
	if initialized {
		return ErrAlreadyInitialized
	}
	if err := storage.SetFeeToSetter(ctx, mu, f.address, feeToSetter); err != nil {
		return err
	}
	return storage.SetFeeTo(ctx, mu, f.address, codec.EmptyAddress)
}

// Initialized returns whether [Initialize] has been called.
func (f *Factory) Initialized(ctx context.Context, im state.Immutable) (bool, error) {
	_, initialized, err := storage.GetFeeToSetter(ctx, im, f.address)
	return initialized, err
}

// CreatePair deploys the pair of [tokenA] and [tokenB] and registers it.
//
// Any error leaves partial writes in [mu]; callers must discard them.
func (f *Factory) CreatePair(
	ctx context.Context,
	mu state.Mutable,
	tokenA codec.Address,
	tokenB codec.Address,
) (*event.PairCreated, error) {
	if err := f.checkInitialized(ctx, mu); err != nil {
		return nil, err
	}
	// Identical tokens are rejected before the zero check, so (0, 0)
	// reports identical tokens.
	if tokenA == tokenB {
		return nil, ErrIdenticalTokens
	}
	token0, token1 := pair.SortTokens(tokenA, tokenB)
	if token0.IsZero() {
		return nil, ErrZeroAddress
	}
	existing, exists, err := storage.GetPair(ctx, mu, f.address, token0, token1)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrPairExists, existing)
	}

	pairAddress, err := create2.Deploy(ctx, mu, f.address, pair.Bytecode, pair.Salt(token0, token1))
	if err != nil {
		return nil, err
	}
	if err := pair.Initialize(ctx, mu, pairAddress, f.address, token0, token1); err != nil {
		return nil, err
	}
	length, err := storage.RegisterPair(ctx, mu, f.address, token0, token1, pairAddress)
	if err != nil {
		return nil, err
	}
	return &event.PairCreated{
		Token0:         token0,
		Token1:         token1,
		Pair:           pairAddress,
		AllPairsLength: length,
	}, nil
}

// GetPair returns the pair of [tokenA] and [tokenB] in either order. A
// missing pair is reported as the zero address and false.
func (f *Factory) GetPair(
	ctx context.Context,
	im state.Immutable,
	tokenA codec.Address,
	tokenB codec.Address,
) (codec.Address, bool, error) {
	return storage.GetPair(ctx, im, f.address, tokenA, tokenB)
}

func (f *Factory) AllPairsLength(ctx context.Context, im state.Immutable) (uint64, error) {
	return storage.GetAllPairsLength(ctx, im, f.address)
}

// AllPairs returns the [index]th pair ever created.
func (f *Factory) AllPairs(ctx context.Context, im state.Immutable, index uint64) (codec.Address, error) {
	length, err := storage.GetAllPairsLength(ctx, im, f.address)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if index >= length {
		return codec.EmptyAddress, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, length)
	}
	addr, exists, err := storage.GetAllPair(ctx, im, f.address, index)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if !exists {
		return codec.EmptyAddress, fmt.Errorf("%w: index %d missing", storage.ErrInconsistentLength, index)
	}
	return addr, nil
}

// PairFor returns the address the pair of [tokenA] and [tokenB] has (or
// will have) without reading state.
func (f *Factory) PairFor(tokenA codec.Address, tokenB codec.Address) (codec.Address, error) {
	return pair.Address(f.address, tokenA, tokenB)
}

func (f *Factory) FeeTo(ctx context.Context, im state.Immutable) (codec.Address, error) {
	return storage.GetFeeTo(ctx, im, f.address)
}

func (f *Factory) FeeToSetter(ctx context.Context, im state.Immutable) (codec.Address, error) {
	setter, initialized, err := storage.GetFeeToSetter(ctx, im, f.address)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if !initialized {
		return codec.EmptyAddress, ErrNotInitialized
	}
	return setter, nil
}

// SetFeeTo updates the fee recipient. Only the fee-setter may call it.
func (f *Factory) SetFeeTo(
	ctx context.Context,
	mu state.Mutable,
	caller codec.Address,
	feeTo codec.Address,
) error {
	if err := f.authorize(ctx, mu, caller); err != nil {
		return err
	}
	return storage.SetFeeTo(ctx, mu, f.address, feeTo)
}

// SetFeeToSetter hands the fee-setter authority to [feeToSetter]. Setting it
// to the zero address disables both setters for good.
func (f *Factory) SetFeeToSetter(
	ctx context.Context,
	mu state.Mutable,
	caller codec.Address,
	feeToSetter codec.Address,
) error {
	if err := f.authorize(ctx, mu, caller); err != nil {
		return err
	}
	return storage.SetFeeToSetter(ctx, mu, f.address, feeToSetter)
}

func (f *Factory) authorize(ctx context.Context, im state.Immutable, caller codec.Address) error {
	setter, err := f.FeeToSetter(ctx, im)
	if err != nil {
		return err
	}
	// No caller can act as the zero address.
	if setter.IsZero() || caller != setter {
		return fmt.Errorf("%w: %s is not the fee setter", ErrUnauthorized, caller)
	}
	return nil
}

func (f *Factory) checkInitialized(ctx context.Context, im state.Immutable) error {
	initialized, err := f.Initialized(ctx, im)
	if err != nil {
		return err
	}
	if !initialized {
		return ErrNotInitialized
	}
	return nil
}
