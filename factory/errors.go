// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package factory

import (
	"errors"

	"github.com/ava-labs/pairfactory/pair"
)

var (
	ErrIdenticalTokens    = pair.ErrIdenticalTokens
	ErrZeroAddress        = pair.ErrZeroAddress
	ErrPairExists         = errors.New("pair exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrNotInitialized     = errors.New("factory not initialized")
	ErrAlreadyInitialized = errors.New("factory already initialized")
)
