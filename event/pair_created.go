// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/ava-labs/pairfactory/codec"
)

// factoryEventsABI matches the event emitted by UniswapV2Factory so that
// existing indexers can decode our logs.
const factoryEventsABI = `[{
	"anonymous": false,
	"inputs": [
		{"indexed": true, "name": "token0", "type": "address"},
		{"indexed": true, "name": "token1", "type": "address"},
		{"indexed": false, "name": "pair", "type": "address"},
		{"indexed": false, "name": "allPairsLength", "type": "uint256"}
	],
	"name": "PairCreated",
	"type": "event"
}]`

var (
	ErrInvalidLog = errors.New("invalid PairCreated log")

	pairCreatedEvent abi.Event

	// PairCreatedTopic is keccak256("PairCreated(address,address,address,uint256)").
	PairCreatedTopic common.Hash
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(factoryEventsABI))
	if err != nil {
		panic(err)
	}
	pairCreatedEvent = parsed.Events["PairCreated"]
	PairCreatedTopic = pairCreatedEvent.ID
}

// PairCreated is emitted once for every pair the factory deploys.
type PairCreated struct {
	Token0         codec.Address `json:"token0"`
	Token1         codec.Address `json:"token1"`
	Pair           codec.Address `json:"pair"`
	AllPairsLength uint64        `json:"allPairsLength"`
}

// Log encodes [e] as an Ethereum log emitted by [factory].
func (e *PairCreated) Log(factory codec.Address) (*types.Log, error) {
	data, err := pairCreatedEvent.Inputs.NonIndexed().Pack(
		e.Pair.EVM(),
		uint256.NewInt(e.AllPairsLength).ToBig(),
	)
	if err != nil {
		return nil, err
	}
	return &types.Log{
		Address: factory.EVM(),
		Topics: []common.Hash{
			PairCreatedTopic,
			common.BytesToHash(e.Token0[:]),
			common.BytesToHash(e.Token1[:]),
		},
		Data: data,
	}, nil
}

// ParsePairCreated decodes a log produced by [PairCreated.Log].
func ParsePairCreated(log *types.Log) (*PairCreated, error) {
	if len(log.Topics) != 3 || log.Topics[0] != PairCreatedTopic {
		return nil, fmt.Errorf("%w: unexpected topics", ErrInvalidLog)
	}
	values, err := pairCreatedEvent.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLog, err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("%w: expected 2 values, found %d", ErrInvalidLog, len(values))
	}
	pair, ok := values[0].(common.Address)
	if !ok {
		return nil, fmt.Errorf("%w: pair is %T", ErrInvalidLog, values[0])
	}
	rawLength, ok := values[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: length is %T", ErrInvalidLog, values[1])
	}
	length, overflow := uint256.FromBig(rawLength)
	if overflow || !length.IsUint64() {
		return nil, fmt.Errorf("%w: length overflows uint64", ErrInvalidLog)
	}
	return &PairCreated{
		Token0:         codec.FromEVM(common.BytesToAddress(log.Topics[1].Bytes())),
		Token1:         codec.FromEVM(common.BytesToAddress(log.Topics[2].Bytes())),
		Pair:           codec.FromEVM(pair),
		AllPairsLength: length.Uint64(),
	}, nil
}
