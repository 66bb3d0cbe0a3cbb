// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/event"
	"github.com/ava-labs/pairfactory/factory"
	"github.com/ava-labs/pairfactory/genesis"
	"github.com/ava-labs/pairfactory/pebble"
	"github.com/ava-labs/pairfactory/state"
	"github.com/ava-labs/pairfactory/storage"
	"github.com/ava-labs/pairfactory/tstate"
)

var (
	tokenA = codec.Address{19: 0x01}
	tokenB = codec.Address{19: 0x02}
	tokenC = codec.Address{19: 0x03}
)

func newTestVM(t *testing.T, kv state.KeyValueStore) *VM {
	vm, err := New(
		context.Background(),
		logging.NoLog{},
		trace.Noop,
		prometheus.NewRegistry(),
		state.NewDatabase(kv),
		genesis.Default(),
	)
	require.NoError(t, err)
	return vm
}

func countKeys(t *testing.T, db *memdb.Database) int {
	it := db.NewIterator()
	defer it.Release()

	count := 0
	for it.Next() {
		count++
	}
	require.NoError(t, it.Error())
	return count
}

func TestGenesis(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	vm := newTestVM(t, memdb.New())
	require.Equal(codec.MustParseAddress("0x52c84043cd9c865236f11d9fc9f56aa003c1f922"), vm.FactoryAddress())

	setter, err := vm.FeeToSetter(ctx)
	require.NoError(err)
	require.Equal(genesis.DefaultDeployer, setter)
	feeTo, err := vm.FeeTo(ctx)
	require.NoError(err)
	require.Equal(codec.EmptyAddress, feeTo)
	length, err := vm.AllPairsLength(ctx)
	require.NoError(err)
	require.Zero(length)
}

func TestCreatePairNotifiesAfterCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	vm := newTestVM(t, memdb.New())

	var received []*event.PairCreated
	vm.Subscribe(event.SubscriptionFunc[*event.PairCreated]{
		AcceptF: func(ctx context.Context, e *event.PairCreated) error {
			// The registry already reflects the event
			addr, ok, err := vm.GetPair(ctx, e.Token1, e.Token0)
			require.NoError(err)
			require.True(ok)
			require.Equal(e.Pair, addr)
			received = append(received, e)
			return nil
		},
	})

	created, err := vm.CreatePair(ctx, tokenB, tokenA)
	require.NoError(err)
	require.Equal(tokenA, created.Token0)
	require.Equal(codec.MustParseAddress("0x87f3a0cd966479c165f03fc6179050220dfd50d9"), created.Pair)
	require.Equal([]*event.PairCreated{created}, received)

	token0, token1, err := vm.PairTokens(ctx, created.Pair)
	require.NoError(err)
	require.Equal(tokenA, token0)
	require.Equal(tokenB, token1)

	first, err := vm.AllPairs(ctx, 0)
	require.NoError(err)
	require.Equal(created.Pair, first)

	precomputed, err := vm.PairFor(tokenA, tokenB)
	require.NoError(err)
	require.Equal(created.Pair, precomputed)
}

func TestFailedMutationWritesNothing(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(context.Context, *VM) error
		expectedErr error
	}{
		{
			name: "duplicate pair",
			mutate: func(ctx context.Context, vm *VM) error {
				_, err := vm.CreatePair(ctx, tokenB, tokenA)
				return err
			},
			expectedErr: factory.ErrPairExists,
		},
		{
			name: "identical tokens",
			mutate: func(ctx context.Context, vm *VM) error {
				_, err := vm.CreatePair(ctx, tokenC, tokenC)
				return err
			},
			expectedErr: factory.ErrIdenticalTokens,
		},
		{
			name: "zero token",
			mutate: func(ctx context.Context, vm *VM) error {
				_, err := vm.CreatePair(ctx, tokenC, codec.EmptyAddress)
				return err
			},
			expectedErr: factory.ErrZeroAddress,
		},
		{
			name: "unauthorized fee to",
			mutate: func(ctx context.Context, vm *VM) error {
				return vm.SetFeeTo(ctx, tokenC, tokenC)
			},
			expectedErr: factory.ErrUnauthorized,
		},
		{
			name: "unauthorized fee setter",
			mutate: func(ctx context.Context, vm *VM) error {
				return vm.SetFeeToSetter(ctx, tokenC, tokenC)
			},
			expectedErr: factory.ErrUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()

			kv := memdb.New()
			vm := newTestVM(t, kv)
			_, err := vm.CreatePair(ctx, tokenA, tokenB)
			require.NoError(err)

			notified := false
			vm.Subscribe(event.SubscriptionFunc[*event.PairCreated]{
				AcceptF: func(context.Context, *event.PairCreated) error {
					notified = true
					return nil
				},
			})

			before := countKeys(t, kv)
			require.ErrorIs(tt.mutate(ctx, vm), tt.expectedErr)
			require.Equal(before, countKeys(t, kv))
			require.False(notified)

			length, err := vm.AllPairsLength(ctx)
			require.NoError(err)
			require.Equal(uint64(1), length)
		})
	}
}

var errWrite = errors.New("write failed")

type failingBatchDB struct {
	*memdb.Database
}

func (f failingBatchDB) NewBatch() database.Batch {
	return failingBatch{Batch: f.Database.NewBatch()}
}

type failingBatch struct {
	database.Batch
}

func (failingBatch) Write() error {
	return errWrite
}

func TestCommitFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	kv := memdb.New()
	vm := newTestVM(t, kv)
	vm.db = state.NewDatabase(failingBatchDB{Database: kv})

	notified := false
	vm.Subscribe(event.SubscriptionFunc[*event.PairCreated]{
		AcceptF: func(context.Context, *event.PairCreated) error {
			notified = true
			return nil
		},
	})

	_, err := vm.CreatePair(ctx, tokenA, tokenB)
	require.ErrorIs(err, errWrite)
	require.False(notified)

	_, ok, err := vm.GetPair(ctx, tokenA, tokenB)
	require.NoError(err)
	require.False(ok)
}

func TestSubscriberFailureKeepsCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	vm := newTestVM(t, memdb.New())

	vm.Subscribe(event.SubscriptionFunc[*event.PairCreated]{
		AcceptF: func(context.Context, *event.PairCreated) error {
			return errWrite
		},
	})
	created, err := vm.CreatePair(ctx, tokenA, tokenB)
	require.NoError(err)

	addr, ok, err := vm.GetPair(ctx, tokenA, tokenB)
	require.NoError(err)
	require.True(ok)
	require.Equal(created.Pair, addr)
}

func TestAdmin(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	vm := newTestVM(t, memdb.New())
	admin := genesis.DefaultDeployer

	require.NoError(vm.SetFeeTo(ctx, admin, tokenC))
	feeTo, err := vm.FeeTo(ctx)
	require.NoError(err)
	require.Equal(tokenC, feeTo)

	require.NoError(vm.SetFeeToSetter(ctx, admin, tokenB))
	require.ErrorIs(vm.SetFeeTo(ctx, admin, admin), factory.ErrUnauthorized)
	require.NoError(vm.SetFeeToSetter(ctx, tokenB, codec.EmptyAddress))
	require.ErrorIs(vm.SetFeeTo(ctx, tokenB, admin), factory.ErrUnauthorized)
	require.ErrorIs(vm.SetFeeToSetter(ctx, codec.EmptyAddress, admin), factory.ErrUnauthorized)

	feeTo, err = vm.FeeTo(ctx)
	require.NoError(err)
	require.Equal(tokenC, feeTo)
}

func TestApplyAllocation(t *testing.T) {
	tests := []struct {
		name        string
		allocate    bool
		key         []byte
		expectedErr error
	}{
		{
			name:     "update existing key",
			allocate: false,
			key:      storage.FeeToKey(genesis.Default().FactoryAddress()),
		},
		{
			name:        "new key without allocation",
			allocate:    false,
			key:         storage.FeeToKey(tokenA),
			expectedErr: tstate.ErrAllocationDisabled,
		},
		{
			name:     "new key with allocation",
			allocate: true,
			key:      storage.FeeToKey(tokenA),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			kv := memdb.New()
			vm := newTestVM(t, kv)
			keys := countKeys(t, kv)

			err := vm.apply(ctx, "test", tt.allocate, func(ctx context.Context, mu state.Mutable) error {
				return mu.Insert(ctx, tt.key, tokenC[:])
			})
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr != nil {
				require.Equal(keys, countKeys(t, kv))
				require.Equal(float64(1), testutil.ToFloat64(vm.metrics.rejected.WithLabelValues("allocation_disabled")))
				return
			}
			v, err := kv.Get(tt.key)
			require.NoError(err)
			require.Equal(tokenC[:], v)
		})
	}
}

func TestStateMetrics(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	vm := newTestVM(t, memdb.New())

	changes := testutil.ToFloat64(vm.metrics.stateChanges)
	operations := testutil.ToFloat64(vm.metrics.stateOperations)

	// Writing the same key twice is two operations but one change.
	require.NoError(vm.apply(ctx, "test", true, func(ctx context.Context, mu state.Mutable) error {
		key := storage.FeeToKey(tokenA)
		if err := mu.Insert(ctx, key, tokenB[:]); err != nil {
			return err
		}
		return mu.Insert(ctx, key, tokenC[:])
	}))
	require.Equal(changes+1, testutil.ToFloat64(vm.metrics.stateChanges))
	require.Equal(operations+2, testutil.ToFloat64(vm.metrics.stateOperations))

	// A mutation that writes nothing does not touch the database.
	require.NoError(vm.apply(ctx, "test", false, func(context.Context, state.Mutable) error {
		return nil
	}))
	require.Equal(changes+1, testutil.ToFloat64(vm.metrics.stateChanges))
}

func TestRestart(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	kv, err := pebble.New(dir, pebble.NewDefaultConfig(), prometheus.NewRegistry())
	require.NoError(err)
	vm := newTestVM(t, kv)
	created, err := vm.CreatePair(ctx, tokenA, tokenB)
	require.NoError(err)
	require.NoError(vm.SetFeeTo(ctx, genesis.DefaultDeployer, tokenC))
	require.NoError(vm.Close())
	require.ErrorIs(vm.Close(), ErrClosed)

	kv, err = pebble.New(dir, pebble.NewDefaultConfig(), prometheus.NewRegistry())
	require.NoError(err)
	vm = newTestVM(t, kv)
	defer vm.Close()

	addr, ok, err := vm.GetPair(ctx, tokenB, tokenA)
	require.NoError(err)
	require.True(ok)
	require.Equal(created.Pair, addr)
	feeTo, err := vm.FeeTo(ctx)
	require.NoError(err)
	require.Equal(tokenC, feeTo)

	_, err = vm.CreatePair(ctx, tokenA, tokenB)
	require.ErrorIs(err, factory.ErrPairExists)
	next, err := vm.CreatePair(ctx, tokenA, tokenC)
	require.NoError(err)
	require.Equal(uint64(2), next.AllPairsLength)
}

func TestGenesisMismatch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	g := genesis.Default()
	db := state.NewDatabase(memdb.New())
	mu := state.MutableStorage{}
	require.NoError(storage.SetContract(ctx, mu, g.FactoryAddress(), storage.Contract{Deployer: tokenA}))
	require.NoError(db.Commit(ctx, toChanges(mu)))

	_, err := New(ctx, logging.NoLog{}, trace.Noop, prometheus.NewRegistry(), db, g)
	require.ErrorIs(err, ErrGenesisMismatch)
}

func TestClosed(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	vm := newTestVM(t, memdb.New())

	require.NoError(vm.Close())
	_, err := vm.CreatePair(ctx, tokenA, tokenB)
	require.ErrorIs(err, ErrClosed)
}
