// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/event"
)

type VM interface {
	Tracer() trace.Tracer
	Logger() logging.Logger

	FactoryAddress() codec.Address
	PairCodeHash() codec.Bytes

	CreatePair(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (*event.PairCreated, error)
	SetFeeTo(ctx context.Context, caller codec.Address, feeTo codec.Address) error
	SetFeeToSetter(ctx context.Context, caller codec.Address, feeToSetter codec.Address) error

	GetPair(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (codec.Address, bool, error)
	AllPairs(ctx context.Context, index uint64) (codec.Address, error)
	AllPairsLength(ctx context.Context) (uint64, error)
	FeeTo(ctx context.Context) (codec.Address, error)
	FeeToSetter(ctx context.Context) (codec.Address, error)
	PairFor(tokenA codec.Address, tokenB codec.Address) (codec.Address, error)
	PairTokens(ctx context.Context, pair codec.Address) (codec.Address, codec.Address, error)
}
