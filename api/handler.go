// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"net/http"

	"github.com/ava-labs/pairfactory/consts"
	"github.com/ava-labs/pairfactory/server"
)

// Name is the route prefix and the JSON-RPC service name.
const Name = consts.Name

type Handler struct {
	Path    string
	Handler http.Handler
}

type HandlerFactory[T any] interface {
	New(t T) (Handler, error)
}

func NewJSONRPCHandler(name string, service any) (http.Handler, error) {
	return server.NewHandler(service, name)
}
