// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/pairfactory/factory"
)

// lastRequest records what an error server last saw.
type lastRequest struct {
	lock   sync.Mutex
	method string
	header http.Header
}

func (l *lastRequest) get() (string, http.Header) {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.method, l.header
}

// newErrorServer answers every request with a JSON-RPC error carrying
// [message].
func newErrorServer(t *testing.T, message string) (*JSONRPCClient, *lastRequest) {
	last := &lastRequest{}
	web := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string          `json:"method"`
			ID     json.RawMessage `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		last.lock.Lock()
		last.method = req.Method
		last.header = r.Header.Clone()
		last.lock.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"error": map[string]any{
				"code":    -32000,
				"message": message,
			},
			"id": req.ID,
		})
	}))
	t.Cleanup(web.Close)
	return NewJSONRPCClient(web.URL), last
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		method string
		call   func(*JSONRPCClient) error
	}{
		{
			name:   "ping",
			method: "pairfactory.ping",
			call: func(cli *JSONRPCClient) error {
				_, err := cli.Ping(ctx)
				return err
			},
		},
		{
			name:   "factory",
			method: "pairfactory.factory",
			call: func(cli *JSONRPCClient) error {
				_, _, err := cli.Factory(ctx)
				return err
			},
		},
		{
			name:   "create pair",
			method: "pairfactory.createPair",
			call: func(cli *JSONRPCClient) error {
				_, err := cli.CreatePair(ctx, tokenA, tokenB)
				return err
			},
		},
		{
			name:   "all pairs length",
			method: "pairfactory.allPairsLength",
			call: func(cli *JSONRPCClient) error {
				_, err := cli.AllPairsLength(ctx)
				return err
			},
		},
		{
			name:   "set fee to",
			method: "pairfactory.setFeeTo",
			call: func(cli *JSONRPCClient) error {
				return cli.SetFeeTo(ctx, tokenA, tokenB)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			cli, last := newErrorServer(t, factory.ErrNotInitialized.Error())
			err := tt.call(cli)
			require.ErrorIs(err, factory.ErrNotInitialized)
			method, _ := last.get()
			require.Equal(tt.method, method)
		})
	}
}

func TestClientUnknownError(t *testing.T) {
	require := require.New(t)

	cli, _ := newErrorServer(t, "disk on fire")
	_, err := cli.Ping(context.Background())
	require.ErrorContains(err, "disk on fire")
	require.NotErrorIs(err, factory.ErrNotInitialized)
}

func TestClientOptions(t *testing.T) {
	require := require.New(t)

	cli, last := newErrorServer(t, "rejected")
	_, err := cli.AllPairs(context.Background(), 0, rpc.WithHeader("X-Request-Id", "42"))
	require.ErrorContains(err, "rejected")
	_, header := last.get()
	require.Equal("42", header.Get("X-Request-Id"))
}
