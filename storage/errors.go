// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInvalidValue       = errors.New("invalid stored value")
	ErrInconsistentLength = errors.New("all pairs length is inconsistent")
)
