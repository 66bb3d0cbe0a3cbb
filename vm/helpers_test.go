// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/pairfactory/state"
)

func toChanges(mu state.MutableStorage) map[string]maybe.Maybe[[]byte] {
	changes := make(map[string]maybe.Maybe[[]byte], len(mu))
	for k, v := range mu {
		changes[k] = maybe.Some(v)
	}
	return changes
}
