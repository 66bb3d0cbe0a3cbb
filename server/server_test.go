// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestAllowedHosts(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	tests := []struct {
		name     string
		allowed  []string
		host     string
		expected int
	}{
		{name: "wildcard", allowed: []string{"*"}, host: "example.com", expected: http.StatusOK},
		{name: "listed", allowed: []string{"Example.com"}, host: "example.com:9650", expected: http.StatusOK},
		{name: "ip", allowed: []string{"example.com"}, host: "127.0.0.1:9650", expected: http.StatusOK},
		{name: "unlisted", allowed: []string{"example.com"}, host: "evil.com", expected: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			filterInvalidHosts(ok, tt.allowed).ServeHTTP(w, req)
			require.Equal(tt.expected, w.Code)
		})
	}
}

func TestServer(t *testing.T) {
	require := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	registry := prometheus.NewRegistry()
	metrics, err := NewMetricsWrapper(registry)
	require.NoError(err)
	s := New("/ext", logging.NoLog{}, listener, Config{
		HTTP:            HTTPConfig{ReadHeaderTimeout: time.Second},
		AllowedOrigins:  []string{"*"},
		AllowedHosts:    []string{"*"},
		ShutdownTimeout: time.Second,
	}, metrics, &TracingWrapper{Tracer: trace.Noop})

	hello := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	require.NoError(s.AddRoute(hello, "pairfactory", "/hello"))
	require.ErrorIs(s.AddRoute(hello, "pairfactory", "/hello"), errRouteExists)

	done := make(chan error, 1)
	go func() {
		done <- s.Dispatch()
	}()

	resp, err := http.Get(fmt.Sprintf("http://%s/ext/pairfactory/hello", listener.Addr()))
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusOK, resp.StatusCode)
	require.Equal("hello", string(body))

	resp, err = http.Get(fmt.Sprintf("http://%s/ext/pairfactory/missing", listener.Addr()))
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusNotFound, resp.StatusCode)

	// Requests are counted after the response is written.
	require.Eventually(func() bool {
		return testutil.ToFloat64(metrics.requests.WithLabelValues("200")) == 1 &&
			testutil.ToFloat64(metrics.requests.WithLabelValues("404")) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(s.Shutdown())
	require.ErrorIs(<-done, http.ErrServerClosed)
}
