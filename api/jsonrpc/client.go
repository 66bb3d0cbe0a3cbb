// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/pairfactory/api"
	"github.com/ava-labs/pairfactory/codec"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester

	factory      codec.Address
	pairCodeHash codec.Bytes
}

// NewJSONRPCClient expects [uri] to be the base route of the service, for
// example http://127.0.0.1:9650/ext/pairfactory.
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

// sendRequest calls [method] on the pairfactory service. Errors returned by
// the server are mapped back to the errors that caused them.
func (cli *JSONRPCClient) sendRequest(
	ctx context.Context,
	method string,
	params interface{},
	reply interface{},
	options ...rpc.Option,
) error {
	return parseError(cli.requester.SendRequest(ctx, api.Name+"."+method, params, reply, options...))
}

func (cli *JSONRPCClient) Ping(ctx context.Context, options ...rpc.Option) (bool, error) {
	resp := new(PingReply)
	err := cli.sendRequest(ctx,
		"ping",
		nil,
		resp,
		options...,
	)
	return resp.Success, err
}

// Factory returns the factory address and the pair code hash. Both are
// fixed at genesis, so the first answer is cached.
func (cli *JSONRPCClient) Factory(ctx context.Context, options ...rpc.Option) (codec.Address, codec.Bytes, error) {
	if cli.pairCodeHash != nil {
		return cli.factory, cli.pairCodeHash, nil
	}

	resp := new(FactoryReply)
	err := cli.sendRequest(
		ctx,
		"factory",
		nil,
		resp,
		options...,
	)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	cli.factory = resp.Factory
	cli.pairCodeHash = resp.PairCodeHash
	return cli.factory, cli.pairCodeHash, nil
}

func (cli *JSONRPCClient) CreatePair(ctx context.Context, tokenA codec.Address, tokenB codec.Address, options ...rpc.Option) (*PairCreatedReply, error) {
	resp := new(PairCreatedReply)
	err := cli.sendRequest(
		ctx,
		"createPair",
		&TokensArgs{TokenA: tokenA, TokenB: tokenB},
		resp,
		options...,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) GetPair(ctx context.Context, tokenA codec.Address, tokenB codec.Address, options ...rpc.Option) (codec.Address, bool, error) {
	resp := new(GetPairReply)
	err := cli.sendRequest(
		ctx,
		"getPair",
		&TokensArgs{TokenA: tokenA, TokenB: tokenB},
		resp,
		options...,
	)
	return resp.Pair, resp.Exists, err
}

func (cli *JSONRPCClient) PairFor(ctx context.Context, tokenA codec.Address, tokenB codec.Address, options ...rpc.Option) (codec.Address, error) {
	resp := new(PairReply)
	err := cli.sendRequest(
		ctx,
		"pairFor",
		&TokensArgs{TokenA: tokenA, TokenB: tokenB},
		resp,
		options...,
	)
	return resp.Pair, err
}

func (cli *JSONRPCClient) AllPairs(ctx context.Context, index uint64, options ...rpc.Option) (codec.Address, error) {
	resp := new(PairReply)
	err := cli.sendRequest(
		ctx,
		"allPairs",
		&AllPairsArgs{Index: index},
		resp,
		options...,
	)
	return resp.Pair, err
}

func (cli *JSONRPCClient) AllPairsLength(ctx context.Context, options ...rpc.Option) (uint64, error) {
	resp := new(AllPairsLengthReply)
	err := cli.sendRequest(
		ctx,
		"allPairsLength",
		nil,
		resp,
		options...,
	)
	return resp.Length, err
}

func (cli *JSONRPCClient) PairTokens(ctx context.Context, pair codec.Address, options ...rpc.Option) (codec.Address, codec.Address, error) {
	resp := new(PairTokensReply)
	err := cli.sendRequest(
		ctx,
		"pairTokens",
		&PairTokensArgs{Pair: pair},
		resp,
		options...,
	)
	return resp.Token0, resp.Token1, err
}

func (cli *JSONRPCClient) FeeTo(ctx context.Context, options ...rpc.Option) (codec.Address, error) {
	resp := new(AddressReply)
	err := cli.sendRequest(
		ctx,
		"feeTo",
		nil,
		resp,
		options...,
	)
	return resp.Address, err
}

func (cli *JSONRPCClient) FeeToSetter(ctx context.Context, options ...rpc.Option) (codec.Address, error) {
	resp := new(AddressReply)
	err := cli.sendRequest(
		ctx,
		"feeToSetter",
		nil,
		resp,
		options...,
	)
	return resp.Address, err
}

func (cli *JSONRPCClient) SetFeeTo(ctx context.Context, actor codec.Address, feeTo codec.Address, options ...rpc.Option) error {
	return cli.sendRequest(
		ctx,
		"setFeeTo",
		&SetAddressArgs{Actor: actor, Address: feeTo},
		new(SuccessReply),
		options...,
	)
}

func (cli *JSONRPCClient) SetFeeToSetter(ctx context.Context, actor codec.Address, feeToSetter codec.Address, options ...rpc.Option) error {
	return cli.sendRequest(
		ctx,
		"setFeeToSetter",
		&SetAddressArgs{Actor: actor, Address: feeToSetter},
		new(SuccessReply),
		options...,
	)
}
