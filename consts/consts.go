// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// Name is used as the namespace for routes, metrics and loggers.
	Name = "pairfactory"

	Version = "v0.1.0"

	ByteLen    = 1
	Uint16Len  = 2
	Uint64Len  = 8
	HashLen    = 32
	AddressLen = 20
	MaxUint16  = ^uint16(0)
	MaxUint64  = ^uint64(0)
)
