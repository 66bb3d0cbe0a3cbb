// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/rpc/v2/json2"

	"github.com/ava-labs/pairfactory/factory"
	"github.com/ava-labs/pairfactory/pair"
)

// serverErrors are matched against the message of a JSON-RPC error so that
// callers can use [errors.Is] on client results.
var serverErrors = []error{
	factory.ErrIdenticalTokens,
	factory.ErrZeroAddress,
	factory.ErrPairExists,
	factory.ErrUnauthorized,
	factory.ErrIndexOutOfRange,
	factory.ErrNotInitialized,
	pair.ErrNotDeployed,
}

func parseError(err error) error {
	if err == nil {
		return nil
	}
	var rpcErr *json2.Error
	if !errors.As(err, &rpcErr) {
		return err
	}
	for _, serverErr := range serverErrors {
		if strings.Contains(rpcErr.Message, serverErr.Error()) {
			return fmt.Errorf("%w: %s", serverErr, rpcErr.Message)
		}
	}
	return err
}
