// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/pairfactory/api"
	"github.com/ava-labs/pairfactory/api/jsonrpc"
	"github.com/ava-labs/pairfactory/config"
	"github.com/ava-labs/pairfactory/genesis"
	"github.com/ava-labs/pairfactory/pebble"
	"github.com/ava-labs/pairfactory/pubsub"
	"github.com/ava-labs/pairfactory/server"
	"github.com/ava-labs/pairfactory/state"
	"github.com/ava-labs/pairfactory/trace"
	"github.com/ava-labs/pairfactory/vm"

	avatrace "github.com/ava-labs/avalanchego/trace"
)

const (
	BaseURL         = "/ext"
	EventsEndpoint  = "/events"
	MetricsEndpoint = "/metrics"
)

// Node serves a single factory over HTTP.
type Node struct {
	log      logging.Logger
	tracer   avatrace.Tracer
	listener net.Listener

	vm     *vm.VM
	events *pubsub.Server
	server server.Server
}

// New opens the database described by [cfg], loads the factory and
// registers every route on [listener]. Nothing is served until [Run].
func New(
	ctx context.Context,
	log logging.Logger,
	cfg *config.Config,
	g *genesis.Genesis,
	listener net.Listener,
) (*Node, error) {
	tracer, err := trace.New(&cfg.Trace)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, errors.Join(err, tracer.Close())
	}
	kv, err := openDatabase(log, cfg, registry)
	if err != nil {
		return nil, errors.Join(err, tracer.Close())
	}
	v, err := vm.New(ctx, log, tracer, registry, state.NewDatabase(kv), g)
	if err != nil {
		return nil, errors.Join(err, kv.Close(), tracer.Close())
	}

	eventsConfig := pubsub.NewDefaultServerConfig()
	eventsConfig.MaxPendingMessages = cfg.StreamingBacklogSize
	events := pubsub.New(log, eventsConfig, v.FactoryAddress())
	v.Subscribe(events)

	httpMetrics, err := server.NewMetricsWrapper(registry)
	if err != nil {
		return nil, errors.Join(err, v.Close(), tracer.Close())
	}
	n := &Node{
		log:      log,
		tracer:   tracer,
		listener: listener,
		vm:       v,
		events:   events,
		server: server.New(
			BaseURL,
			log,
			listener,
			server.Config{
				HTTP:            cfg.HTTP,
				AllowedOrigins:  cfg.AllowedOrigins,
				AllowedHosts:    cfg.AllowedHosts,
				ShutdownTimeout: cfg.ShutdownTimeout,
			},
			httpMetrics,
			&server.TracingWrapper{Tracer: tracer},
		),
	}
	// Closing the vm also closes [events].
	if err := n.addRoutes(registry); err != nil {
		return nil, errors.Join(err, v.Close(), tracer.Close())
	}
	return n, nil
}

func openDatabase(log logging.Logger, cfg *config.Config, registerer prometheus.Registerer) (state.KeyValueStore, error) {
	if len(cfg.DatabasePath) == 0 {
		log.Warn("no database path configured, state will not persist")
		return memdb.New(), nil
	}
	db, err := pebble.New(cfg.DatabasePath, cfg.Pebble, registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", cfg.DatabasePath, err)
	}
	log.Info("opened database",
		zap.String("path", cfg.DatabasePath),
	)
	return db, nil
}

func (n *Node) addRoutes(registry *prometheus.Registry) error {
	handler, err := jsonrpc.JSONRPCServerFactory{}.New(n.vm)
	if err != nil {
		return err
	}
	if err := n.server.AddRoute(handler.Handler, api.Name, handler.Path); err != nil {
		return err
	}
	if err := n.server.AddRoute(n.events, api.Name, EventsEndpoint); err != nil {
		return err
	}
	return n.server.AddRoute(
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		api.Name,
		MetricsEndpoint,
	)
}

// URI is the base route clients should be configured with.
func (n *Node) URI() string {
	return fmt.Sprintf("http://%s%s/%s", n.listener.Addr(), BaseURL, api.Name)
}

// VM exposes the factory for in-process callers.
func (n *Node) VM() *vm.VM {
	return n.vm
}

// Subscribers returns the number of connected event subscribers.
func (n *Node) Subscribers() int {
	return n.events.Connections()
}

// Run serves requests until [ctx] is cancelled or the server fails. The
// node cannot be restarted once Run returns.
func (n *Node) Run(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		err := n.server.Dispatch()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		<-egCtx.Done()
		n.log.Info("shutting down")
		return n.server.Shutdown()
	})
	err := eg.Wait()
	return errors.Join(err, n.vm.Close(), n.tracer.Close())
}
