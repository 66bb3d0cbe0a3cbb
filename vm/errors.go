// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import "errors"

var (
	ErrGenesisMismatch = errors.New("stored factory does not match genesis")
	ErrClosed          = errors.New("vm closed")
)
