// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"net/http"

	"github.com/ava-labs/pairfactory/api"
	"github.com/ava-labs/pairfactory/codec"
)

const Endpoint = "/rpc"

var _ api.HandlerFactory[api.VM] = (*JSONRPCServerFactory)(nil)

type JSONRPCServerFactory struct{}

func (JSONRPCServerFactory) New(vm api.VM) (api.Handler, error) {
	handler, err := api.NewJSONRPCHandler(api.Name, NewJSONRPCServer(vm))
	if err != nil {
		return api.Handler{}, err
	}

	return api.Handler{
		Path:    Endpoint,
		Handler: handler,
	}, nil
}

// JSONRPCServer exposes the factory. Callers identify themselves with an
// [Actor] field; there is no signature verification.
type JSONRPCServer struct {
	vm api.VM
}

func NewJSONRPCServer(vm api.VM) *JSONRPCServer {
	return &JSONRPCServer{vm}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.vm.Logger().Info("ping")
	reply.Success = true
	return nil
}

type FactoryReply struct {
	Factory      codec.Address `json:"factory"`
	PairCodeHash codec.Bytes   `json:"pairCodeHash"`
}

func (j *JSONRPCServer) Factory(_ *http.Request, _ *struct{}, reply *FactoryReply) error {
	reply.Factory = j.vm.FactoryAddress()
	reply.PairCodeHash = j.vm.PairCodeHash()
	return nil
}

type TokensArgs struct {
	TokenA codec.Address `json:"tokenA"`
	TokenB codec.Address `json:"tokenB"`
}

type PairCreatedReply struct {
	Token0         codec.Address `json:"token0"`
	Token1         codec.Address `json:"token1"`
	Pair           codec.Address `json:"pair"`
	AllPairsLength uint64        `json:"allPairsLength"`
}

func (j *JSONRPCServer) CreatePair(req *http.Request, args *TokensArgs, reply *PairCreatedReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.CreatePair")
	defer span.End()

	created, err := j.vm.CreatePair(ctx, args.TokenA, args.TokenB)
	if err != nil {
		return err
	}
	reply.Token0 = created.Token0
	reply.Token1 = created.Token1
	reply.Pair = created.Pair
	reply.AllPairsLength = created.AllPairsLength
	return nil
}

type GetPairReply struct {
	Pair   codec.Address `json:"pair"`
	Exists bool          `json:"exists"`
}

func (j *JSONRPCServer) GetPair(req *http.Request, args *TokensArgs, reply *GetPairReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.GetPair")
	defer span.End()

	pair, exists, err := j.vm.GetPair(ctx, args.TokenA, args.TokenB)
	if err != nil {
		return err
	}
	reply.Pair = pair
	reply.Exists = exists
	return nil
}

type PairReply struct {
	Pair codec.Address `json:"pair"`
}

func (j *JSONRPCServer) PairFor(_ *http.Request, args *TokensArgs, reply *PairReply) error {
	pair, err := j.vm.PairFor(args.TokenA, args.TokenB)
	if err != nil {
		return err
	}
	reply.Pair = pair
	return nil
}

type AllPairsArgs struct {
	Index uint64 `json:"index"`
}

func (j *JSONRPCServer) AllPairs(req *http.Request, args *AllPairsArgs, reply *PairReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.AllPairs")
	defer span.End()

	pair, err := j.vm.AllPairs(ctx, args.Index)
	if err != nil {
		return err
	}
	reply.Pair = pair
	return nil
}

type AllPairsLengthReply struct {
	Length uint64 `json:"length"`
}

func (j *JSONRPCServer) AllPairsLength(req *http.Request, _ *struct{}, reply *AllPairsLengthReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.AllPairsLength")
	defer span.End()

	length, err := j.vm.AllPairsLength(ctx)
	if err != nil {
		return err
	}
	reply.Length = length
	return nil
}

type PairTokensArgs struct {
	Pair codec.Address `json:"pair"`
}

type PairTokensReply struct {
	Token0 codec.Address `json:"token0"`
	Token1 codec.Address `json:"token1"`
}

func (j *JSONRPCServer) PairTokens(req *http.Request, args *PairTokensArgs, reply *PairTokensReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.PairTokens")
	defer span.End()

	token0, token1, err := j.vm.PairTokens(ctx, args.Pair)
	if err != nil {
		return err
	}
	reply.Token0 = token0
	reply.Token1 = token1
	return nil
}

type AddressReply struct {
	Address codec.Address `json:"address"`
}

func (j *JSONRPCServer) FeeTo(req *http.Request, _ *struct{}, reply *AddressReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.FeeTo")
	defer span.End()

	feeTo, err := j.vm.FeeTo(ctx)
	if err != nil {
		return err
	}
	reply.Address = feeTo
	return nil
}

func (j *JSONRPCServer) FeeToSetter(req *http.Request, _ *struct{}, reply *AddressReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.FeeToSetter")
	defer span.End()

	setter, err := j.vm.FeeToSetter(ctx)
	if err != nil {
		return err
	}
	reply.Address = setter
	return nil
}

type SetAddressArgs struct {
	Actor   codec.Address `json:"actor"`
	Address codec.Address `json:"address"`
}

type SuccessReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) SetFeeTo(req *http.Request, args *SetAddressArgs, reply *SuccessReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.SetFeeTo")
	defer span.End()

	if err := j.vm.SetFeeTo(ctx, args.Actor, args.Address); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

func (j *JSONRPCServer) SetFeeToSetter(req *http.Request, args *SetAddressArgs, reply *SuccessReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.SetFeeToSetter")
	defer span.End()

	if err := j.vm.SetFeeToSetter(ctx, args.Actor, args.Address); err != nil {
		return err
	}
	reply.Success = true
	return nil
}
