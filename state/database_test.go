// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"
)

func TestDatabaseCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	kv := memdb.New()
	require.NoError(kv.Put([]byte("stale"), []byte("value")))
	db := NewDatabase(kv)

	require.NoError(db.Commit(ctx, map[string]maybe.Maybe[[]byte]{
		"fresh": maybe.Some([]byte("value")),
		"stale": maybe.Nothing[[]byte](),
	}))

	v, err := db.GetValue(ctx, []byte("fresh"))
	require.NoError(err)
	require.Equal([]byte("value"), v)

	_, err = db.GetValue(ctx, []byte("stale"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Close())
}

func TestMutableStorage(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	m := MutableStorage{}
	_, err := m.GetValue(ctx, []byte("k"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(m.Insert(ctx, []byte("k"), []byte("v")))
	v, err := ImmutableStorage(m).GetValue(ctx, []byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)

	require.NoError(m.Remove(ctx, []byte("k")))
	_, err = m.GetValue(ctx, []byte("k"))
	require.ErrorIs(err, database.ErrNotFound)
}
