// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "pebble"
	metricsInterval  = 10 * time.Second
)

type metrics struct {
	stallStart time.Time
	writeStall prometheus.Histogram
	getLatency prometheus.Histogram

	batchesWritten prometheus.Counter
	bytesWritten   prometheus.Counter

	// compactions is labeled by the input level ("l0" or "other")
	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	// files and bytes are labeled by what they count ("obsolete_table",
	// "zombie_table", "obsolete_wal")
	files          *prometheus.GaugeVec
	bytes          *prometheus.GaugeVec
	tombstoneCount prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		writeStall: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "write_stall",
			Help:      "time writes were stalled by compaction (ns)",
			Buckets:   prometheus.ExponentialBuckets(1_000, 10, 7),
		}),
		getLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "read_latency",
			Help:      "time spent in point lookups (ns)",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 7),
		}),
		batchesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "batches_written",
			Help:      "number of batches committed",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bytes_written",
			Help:      "number of key and value bytes committed in batches",
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "compactions",
			Help:      "number of compactions started by input level",
		}, []string{"level"}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_compactions",
			Help:      "number of running compactions",
		}),
		files: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "unreferenced_files",
			Help:      "number of files the db no longer needs",
		}, []string{"kind"}),
		bytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "unreferenced_bytes",
			Help:      "size of files the db no longer needs",
		}, []string{"kind"}),
		tombstoneCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "tombstone_count",
			Help:      "approximate count of internal tombstones",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.writeStall),
		r.Register(m.getLatency),
		r.Register(m.batchesWritten),
		r.Register(m.bytesWritten),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
		r.Register(m.files),
		r.Register(m.bytes),
		r.Register(m.tombstoneCount),
	)
	return m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := "other"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

// collectMetrics samples pebble's internal counters until the database is
// closed.
func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.sampleMetrics()
		case <-db.closing:
			return
		}
	}
}

func (db *Database) sampleMetrics() {
	stats := db.db.Metrics()
	m := db.metrics
	m.tombstoneCount.Set(float64(stats.Keys.TombstoneCount))
	m.files.WithLabelValues("obsolete_table").Set(float64(stats.Table.ObsoleteCount))
	m.bytes.WithLabelValues("obsolete_table").Set(float64(stats.Table.ObsoleteSize))
	m.files.WithLabelValues("zombie_table").Set(float64(stats.Table.ZombieCount))
	m.bytes.WithLabelValues("zombie_table").Set(float64(stats.Table.ZombieSize))
	m.files.WithLabelValues("obsolete_wal").Set(float64(stats.WAL.ObsoleteFiles))
	m.bytes.WithLabelValues("obsolete_wal").Set(float64(stats.WAL.ObsoletePhysicalSize))
}
