// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var errHijackUnsupported = errors.New("hijacking not supported")

var (
	_ Wrapper = (*TracingWrapper)(nil)
	_ Wrapper = (*MetricsWrapper)(nil)
)

// TracingWrapper starts a span for every request.
type TracingWrapper struct {
	Tracer trace.Tracer
}

func (t *TracingWrapper) WrapHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := t.Tracer.Start(r.Context(), "HTTP", oteltrace.WithAttributes(
			attribute.String("method", r.Method),
			attribute.String("path", r.URL.Path),
		))
		defer span.End()

		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MetricsWrapper records the status code and latency of every request.
type MetricsWrapper struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

func NewMetricsWrapper(r prometheus.Registerer) (*MetricsWrapper, error) {
	m := &MetricsWrapper{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "http",
			Name:      "requests",
			Help:      "number of requests served by status code",
		}, []string{"code"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "http",
			Name:      "request_duration",
			Help:      "time spent serving requests (ns)",
			Buckets:   prometheus.ExponentialBuckets(10_000, 4, 10),
		}),
	}
	if err := r.Register(m.requests); err != nil {
		return nil, err
	}
	if err := r.Register(m.latency); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MetricsWrapper) WrapHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h.ServeHTTP(rec, r)
		m.requests.WithLabelValues(strconv.Itoa(rec.code)).Inc()
		m.latency.Observe(float64(time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack is required for websocket upgrades.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errHijackUnsupported
	}
	s.code = http.StatusSwitchingProtocols
	return h.Hijack()
}
