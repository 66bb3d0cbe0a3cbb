// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/event"
	"github.com/ava-labs/pairfactory/factory"
	"github.com/ava-labs/pairfactory/genesis"
	"github.com/ava-labs/pairfactory/pair"
	"github.com/ava-labs/pairfactory/state"
	"github.com/ava-labs/pairfactory/storage"
	"github.com/ava-labs/pairfactory/tstate"
)

// Most mutations touch fewer than 8 keys.
const changedKeysEstimate = 8

// VM executes factory operations against the ledger.
//
// Mutations are serialized. Each one runs in its own transactional view and
// is either committed to the database in a single batch or discarded.
// Subscribers only hear about committed changes.
type VM struct {
	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics

	db      *state.Database
	genesis *genesis.Genesis
	factory *factory.Factory

	// lock serializes mutations and event delivery
	lock   sync.Mutex
	closed bool

	subscriptionLock sync.RWMutex
	subscriptions    []event.Subscription[*event.PairCreated]
}

// New loads the factory from [db], deploying it from [g] on first start.
func New(
	ctx context.Context,
	log logging.Logger,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
	db *state.Database,
	g *genesis.Genesis,
) (*VM, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	vm := &VM{
		log:     log,
		tracer:  tracer,
		metrics: m,
		db:      db,
		genesis: g,
	}

	addr := g.FactoryAddress()
	contract, exists, err := storage.GetContract(ctx, db, addr)
	if err != nil {
		return nil, err
	}
	if exists {
		if contract.Deployer != g.Deployer {
			return nil, fmt.Errorf("%w: factory %s deployed by %s", ErrGenesisMismatch, addr, contract.Deployer)
		}
		vm.factory = factory.New(addr)
		length, err := vm.factory.AllPairsLength(ctx, db)
		if err != nil {
			return nil, err
		}
		vm.metrics.allPairsLength.Set(float64(length))
		log.Info("loaded factory",
			zap.Stringer("factory", addr),
			zap.Uint64("allPairsLength", length),
		)
		return vm, nil
	}

	if err := vm.apply(ctx, "genesis", true, func(ctx context.Context, mu state.Mutable) error {
		f, err := g.Load(ctx, tracer, mu)
		if err != nil {
			return err
		}
		vm.factory = f
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to load genesis: %w", err)
	}
	log.Info("deployed factory",
		zap.Stringer("factory", addr),
		zap.Stringer("deployer", g.Deployer),
		zap.Uint64("nonce", g.Nonce),
		zap.Stringer("feeToSetter", g.FeeToSetter),
	)
	return vm, nil
}

func (vm *VM) Logger() logging.Logger {
	return vm.log
}

func (vm *VM) Tracer() trace.Tracer {
	return vm.tracer
}

// Subscribe registers [sub] for every future [event.PairCreated].
func (vm *VM) Subscribe(sub event.Subscription[*event.PairCreated]) {
	vm.subscriptionLock.Lock()
	defer vm.subscriptionLock.Unlock()

	vm.subscriptions = append(vm.subscriptions, sub)
}

// CreatePair deploys and registers the pair of [tokenA] and [tokenB].
func (vm *VM) CreatePair(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (*event.PairCreated, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.CreatePair")
	defer span.End()

	vm.lock.Lock()
	defer vm.lock.Unlock()

	var created *event.PairCreated
	if err := vm.apply(ctx, "createPair", true, func(ctx context.Context, mu state.Mutable) error {
		var err error
		created, err = vm.factory.CreatePair(ctx, mu, tokenA, tokenB)
		return err
	}); err != nil {
		vm.log.Debug("pair creation rejected",
			zap.Stringer("tokenA", tokenA),
			zap.Stringer("tokenB", tokenB),
			zap.Error(err),
		)
		return nil, err
	}
	vm.metrics.pairsCreated.Inc()
	vm.metrics.allPairsLength.Set(float64(created.AllPairsLength))
	vm.log.Info("pair created",
		zap.Stringer("token0", created.Token0),
		zap.Stringer("token1", created.Token1),
		zap.Stringer("pair", created.Pair),
		zap.Uint64("allPairsLength", created.AllPairsLength),
	)
	vm.notify(ctx, created)
	return created, nil
}

// SetFeeTo updates the fee recipient on behalf of [caller].
func (vm *VM) SetFeeTo(ctx context.Context, caller codec.Address, feeTo codec.Address) error {
	ctx, span := vm.tracer.Start(ctx, "VM.SetFeeTo")
	defer span.End()

	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.apply(ctx, "setFeeTo", false, func(ctx context.Context, mu state.Mutable) error {
		return vm.factory.SetFeeTo(ctx, mu, caller, feeTo)
	}); err != nil {
		vm.log.Debug("fee recipient update rejected",
			zap.Stringer("caller", caller),
			zap.Error(err),
		)
		return err
	}
	vm.metrics.adminUpdates.WithLabelValues("feeTo").Inc()
	vm.log.Info("fee recipient updated",
		zap.Stringer("caller", caller),
		zap.Stringer("feeTo", feeTo),
	)
	return nil
}

// SetFeeToSetter transfers the fee-setter authority on behalf of [caller].
func (vm *VM) SetFeeToSetter(ctx context.Context, caller codec.Address, feeToSetter codec.Address) error {
	ctx, span := vm.tracer.Start(ctx, "VM.SetFeeToSetter")
	defer span.End()

	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.apply(ctx, "setFeeToSetter", false, func(ctx context.Context, mu state.Mutable) error {
		return vm.factory.SetFeeToSetter(ctx, mu, caller, feeToSetter)
	}); err != nil {
		vm.log.Debug("fee setter update rejected",
			zap.Stringer("caller", caller),
			zap.Error(err),
		)
		return err
	}
	vm.metrics.adminUpdates.WithLabelValues("feeToSetter").Inc()
	if feeToSetter.IsZero() {
		vm.log.Warn("fee setter authority revoked",
			zap.Stringer("caller", caller),
		)
		return nil
	}
	vm.log.Info("fee setter updated",
		zap.Stringer("caller", caller),
		zap.Stringer("feeToSetter", feeToSetter),
	)
	return nil
}

func (vm *VM) GetPair(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (codec.Address, bool, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.GetPair")
	defer span.End()

	return vm.factory.GetPair(ctx, vm.db, tokenA, tokenB)
}

func (vm *VM) AllPairs(ctx context.Context, index uint64) (codec.Address, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.AllPairs")
	defer span.End()

	return vm.factory.AllPairs(ctx, vm.db, index)
}

func (vm *VM) AllPairsLength(ctx context.Context) (uint64, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.AllPairsLength")
	defer span.End()

	return vm.factory.AllPairsLength(ctx, vm.db)
}

func (vm *VM) FeeTo(ctx context.Context) (codec.Address, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.FeeTo")
	defer span.End()

	return vm.factory.FeeTo(ctx, vm.db)
}

func (vm *VM) FeeToSetter(ctx context.Context) (codec.Address, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.FeeToSetter")
	defer span.End()

	return vm.factory.FeeToSetter(ctx, vm.db)
}

// PairFor computes a pair address without reading state.
func (vm *VM) PairFor(tokenA codec.Address, tokenB codec.Address) (codec.Address, error) {
	return vm.factory.PairFor(tokenA, tokenB)
}

func (vm *VM) PairTokens(ctx context.Context, pairAddress codec.Address) (codec.Address, codec.Address, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.PairTokens")
	defer span.End()

	return pair.Tokens(ctx, vm.db, pairAddress)
}

func (vm *VM) FactoryAddress() codec.Address {
	return vm.factory.Address()
}

func (vm *VM) PairCodeHash() codec.Bytes {
	return codec.Bytes(pair.CodeHash[:])
}

// Close releases subscribers and the database.
func (vm *VM) Close() error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.closed {
		return ErrClosed
	}
	vm.closed = true

	vm.subscriptionLock.Lock()
	subs := vm.subscriptions
	vm.subscriptions = nil
	vm.subscriptionLock.Unlock()

	return errors.Join(
		event.CloseAll(subs...),
		vm.db.Close(),
	)
}

// apply runs [f] in a fresh view and commits its changes. On error nothing
// is written. If [allocate] is false, [f] may only update keys that already
// exist.
//
// Assumes [vm.lock] is held (or that the VM is not yet shared).
func (vm *VM) apply(
	ctx context.Context,
	operation string,
	allocate bool,
	f func(context.Context, state.Mutable) error,
) error {
	ctx, span := vm.tracer.Start(ctx, "VM.apply")
	defer span.End()

	if vm.closed {
		return ErrClosed
	}
	start := time.Now()
	defer func() {
		vm.metrics.operationDuration.WithLabelValues(operation).Observe(float64(time.Since(start)))
	}()

	ts := tstate.New(changedKeysEstimate)
	view := ts.NewView(vm.db)
	if !allocate {
		view.DisableAllocation()
	}
	restorePoint := view.OpIndex()
	if err := f(ctx, view); err != nil {
		view.Rollback(ctx, restorePoint)
		vm.metrics.rejected.WithLabelValues(rejectionReason(err)).Inc()
		return err
	}
	if view.PendingChanges() == 0 {
		return nil
	}

	allocates, writes := view.KeyOperations()
	for _, chunks := range allocates {
		vm.metrics.chunksAllocated.Add(float64(chunks))
	}
	for _, chunks := range writes {
		vm.metrics.chunksWritten.Add(float64(chunks))
	}
	view.Commit()

	if err := vm.db.Commit(ctx, ts.ChangedKeys()); err != nil {
		return fmt.Errorf("failed to commit %s: %w", operation, err)
	}
	vm.metrics.stateChanges.Add(float64(ts.PendingChanges()))
	vm.metrics.stateOperations.Add(float64(ts.OpIndex()))
	return nil
}

// notify delivers [e] to subscribers. A failing subscriber does not undo the
// committed change.
//
// Assumes [vm.lock] is held so events arrive in commit order.
func (vm *VM) notify(ctx context.Context, e *event.PairCreated) {
	vm.subscriptionLock.RLock()
	subs := vm.subscriptions
	vm.subscriptionLock.RUnlock()

	if err := event.NotifyAll(ctx, e, subs...); err != nil {
		vm.metrics.eventsFailed.Inc()
		vm.log.Warn("failed to deliver event",
			zap.Stringer("pair", e.Pair),
			zap.Error(err),
		)
		return
	}
	vm.metrics.eventsDelivered.Inc()
}
