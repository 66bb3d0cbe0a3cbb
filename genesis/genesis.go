// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/create2"
	"github.com/ava-labs/pairfactory/factory"
	"github.com/ava-labs/pairfactory/state"
)

// DefaultDeployer is the well-known local network funding key.
var DefaultDeployer = codec.MustParseAddress("0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC")

// FactoryBytecode is the creation template recorded for the factory contract.
var FactoryBytecode = []byte("pairfactory.Factory/v1")

type Genesis struct {
	// Deployer and Nonce determine the factory address
	// (keccak256(rlp([deployer, nonce]))[12:]).
	Deployer codec.Address `json:"deployer"`
	Nonce    uint64        `json:"nonce"`

	FeeToSetter codec.Address `json:"feeToSetter"`
}

func Default() *Genesis {
	return &Genesis{
		Deployer:    DefaultDeployer,
		FeeToSetter: DefaultDeployer,
	}
}

// New parses a genesis file. Missing fields keep their defaults.
func New(b []byte) (*Genesis, error) {
	g := Default()
	if len(b) > 0 {
		if err := json.Unmarshal(b, g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal genesis: %w", err)
		}
	}
	if g.Deployer.IsZero() {
		return nil, fmt.Errorf("%w: deployer", ErrInvalidGenesis)
	}
	return g, nil
}

func (g *Genesis) FactoryAddress() codec.Address {
	return create2.CreateAddress(g.Deployer, g.Nonce)
}

// Load deploys the factory into [mu]. It fails if the factory already exists.
func (g *Genesis) Load(ctx context.Context, tracer trace.Tracer, mu state.Mutable) (*factory.Factory, error) {
	ctx, span := tracer.Start(ctx, "Genesis.Load")
	defer span.End()

	f := factory.New(g.FactoryAddress())
	if err := create2.Register(ctx, mu, f.Address(), g.Deployer, create2.CodeHash(FactoryBytecode)); err != nil {
		return nil, err
	}
	if err := f.Initialize(ctx, mu, g.FeeToSetter); err != nil {
		return nil, err
	}
	return f, nil
}
