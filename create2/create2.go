// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package create2 derives contract addresses the way the EVM does and
// deploys contract records into the ledger at those addresses.
package create2

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/consts"
	"github.com/ava-labs/pairfactory/state"
	"github.com/ava-labs/pairfactory/storage"
)

var (
	ErrContractExists = errors.New("contract already exists")
	ErrEmptyCode      = errors.New("empty code")
)

// DeriveAddress returns keccak256(0xff ++ deployer ++ salt ++ codeHash)[12:].
//
// The result only depends on its inputs, so it can be computed by anyone
// before the contract exists.
func DeriveAddress(deployer codec.Address, codeHash [consts.HashLen]byte, salt [consts.HashLen]byte) codec.Address {
	return codec.FromEVM(crypto.CreateAddress2(deployer.EVM(), salt, codeHash[:]))
}

// CreateAddress returns the address of the contract created by [deployer]
// with [nonce] (keccak256(rlp([deployer, nonce]))[12:]).
func CreateAddress(deployer codec.Address, nonce uint64) codec.Address {
	return codec.FromEVM(crypto.CreateAddress(deployer.EVM(), nonce))
}

// CodeHash returns keccak256(code).
func CodeHash(code []byte) [consts.HashLen]byte {
	return crypto.Keccak256Hash(code)
}

// Deploy records a contract with [code] at the address derived from
// [deployer] and [salt]. Deploying twice to the same address fails.
func Deploy(
	ctx context.Context,
	mu state.Mutable,
	deployer codec.Address,
	code []byte,
	salt [consts.HashLen]byte,
) (codec.Address, error) {
	if len(code) == 0 {
		return codec.EmptyAddress, ErrEmptyCode
	}
	codeHash := CodeHash(code)
	addr := DeriveAddress(deployer, codeHash, salt)
	if err := Register(ctx, mu, addr, deployer, codeHash); err != nil {
		return codec.EmptyAddress, err
	}
	return addr, nil
}

// Register stores a contract record at [addr] if none exists.
func Register(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	deployer codec.Address,
	codeHash [consts.HashLen]byte,
) error {
	_, exists, err := storage.GetContract(ctx, mu, addr)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrContractExists, addr)
	}
	return storage.SetContract(ctx, mu, addr, storage.Contract{
		CodeHash: codeHash,
		Deployer: deployer,
	})
}
