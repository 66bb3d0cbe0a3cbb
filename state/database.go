// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"io"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var _ Immutable = (*Database)(nil)

// KeyValueStore is the subset of an avalanchego database required to back
// the ledger. Both [memdb.Database] and the pebble database satisfy it.
type KeyValueStore interface {
	database.KeyValueReader
	database.Batcher
	io.Closer
}

// Database persists committed changes to a [KeyValueStore].
type Database struct {
	db KeyValueStore
}

func NewDatabase(db KeyValueStore) *Database {
	return &Database{db: db}
}

func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return d.db.Get(key)
}

// Commit writes [changes] in a single batch. Either all changes are
// persisted or none are.
func (d *Database) Commit(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	batch := d.db.NewBatch()
	for k, v := range changes {
		if v.IsNothing() {
			if err := batch.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put([]byte(k), v.Value()); err != nil {
			return err
		}
	}
	return batch.Write()
}

func (d *Database) Close() error {
	return d.db.Close()
}
