// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Key prefixes
const (
	// Ledger
	contractPrefix byte = iota
	pairTokensPrefix

	// Factory registry
	pairPrefix
	allPairsPrefix
	allPairsLengthPrefix
	feeToPrefix
	feeToSetterPrefix
)

// Chunks
const (
	ContractChunks       uint16 = 1
	PairTokensChunks     uint16 = 1
	PairChunks           uint16 = 1
	AllPairsChunks       uint16 = 1
	AllPairsLengthChunks uint16 = 1
	FeeToChunks          uint16 = 1
	FeeToSetterChunks    uint16 = 1
)
