// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"errors"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/pairfactory/create2"
	"github.com/ava-labs/pairfactory/factory"
	"github.com/ava-labs/pairfactory/pair"
	"github.com/ava-labs/pairfactory/tstate"
)

const namespace = "pairfactory"

type metrics struct {
	pairsCreated      prometheus.Counter
	rejected          *prometheus.CounterVec
	adminUpdates      *prometheus.CounterVec
	allPairsLength    prometheus.Gauge
	chunksAllocated   prometheus.Counter
	chunksWritten     prometheus.Counter
	stateChanges      prometheus.Counter
	stateOperations   prometheus.Counter
	eventsDelivered   prometheus.Counter
	eventsFailed      prometheus.Counter
	operationDuration *prometheus.HistogramVec
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		pairsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_created",
			Help:      "number of pairs created",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected",
			Help:      "number of rejected mutations by reason",
		}, []string{"reason"}),
		adminUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_updates",
			Help:      "number of successful admin updates",
		}, []string{"field"}),
		allPairsLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "all_pairs_length",
			Help:      "number of pairs in the registry",
		}),
		chunksAllocated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_allocated",
			Help:      "number of state chunks allocated",
		}),
		chunksWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_written",
			Help:      "number of state chunks written",
		}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_changes",
			Help:      "number of keys changed in committed batches",
		}),
		stateOperations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_operations",
			Help:      "number of inserts and removals in committed batches",
		}),
		eventsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_delivered",
			Help:      "number of events delivered to subscribers",
		}),
		eventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_failed",
			Help:      "number of events at least one subscriber failed to accept",
		}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration",
			Help:      "time spent executing mutations (ns)",
			Buckets:   prometheus.ExponentialBuckets(1_000, 4, 10),
		}, []string{"operation"}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.pairsCreated),
		r.Register(m.rejected),
		r.Register(m.adminUpdates),
		r.Register(m.allPairsLength),
		r.Register(m.chunksAllocated),
		r.Register(m.chunksWritten),
		r.Register(m.stateChanges),
		r.Register(m.stateOperations),
		r.Register(m.eventsDelivered),
		r.Register(m.eventsFailed),
		r.Register(m.operationDuration),
	)
	return m, errs.Err
}

// rejectionReason maps an error to a bounded label value.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, factory.ErrIdenticalTokens):
		return "identical_tokens"
	case errors.Is(err, factory.ErrZeroAddress):
		return "zero_address"
	case errors.Is(err, factory.ErrPairExists):
		return "pair_exists"
	case errors.Is(err, factory.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, factory.ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, create2.ErrContractExists):
		return "contract_exists"
	case errors.Is(err, pair.ErrForbidden), errors.Is(err, pair.ErrAlreadyInitialized):
		return "pair_initialize"
	case errors.Is(err, tstate.ErrAllocationDisabled):
		return "allocation_disabled"
	default:
		return "other"
	}
}
