// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/event"
)

var _ event.Subscription[*event.PairCreated] = (*Server)(nil)

type ServerConfig struct {
	ReadBufferSize     int           `json:"readBufferSize"`
	WriteBufferSize    int           `json:"writeBufferSize"`
	MaxPendingMessages int           `json:"maxPendingMessages"`
	MaxReadMessageSize int           `json:"maxReadMessageSize"`
	WriteWait          time.Duration `json:"writeWait"`
	PongWait           time.Duration `json:"pongWait"`
	PingPeriod         time.Duration `json:"pingPeriod"`
}

func NewDefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:     readBufferSize,
		WriteBufferSize:    writeBufferSize,
		MaxPendingMessages: maxPendingMessages,
		MaxReadMessageSize: maxReadMessageSize,
		WriteWait:          writeWait,
		PongWait:           pongWait,
		PingPeriod:         pingPeriod,
	}
}

// Message is sent to every subscriber when a pair is created.
type Message struct {
	Factory codec.Address      `json:"factory"`
	Event   *event.PairCreated `json:"event"`
	Log     *types.Log         `json:"log"`
}

// Server streams [Message]s to websocket subscribers.
//
// Connect to the server using websocket.DefaultDialer.Dial().
type Server struct {
	log     logging.Logger
	config  *ServerConfig
	factory codec.Address

	upgrader websocket.Upgrader

	lock   sync.Mutex
	closed bool
	conns  *Connections
}

func New(log logging.Logger, config *ServerConfig, factory codec.Address) *Server {
	return &Server{
		log:     log,
		config:  config,
		factory: factory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns: NewConnections(),
	}
}

// ServeHTTP adds a connection to the server, and starts go routines for
// reading and writing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		_ = wsConn.Close()
		return
	}
	conn := &Connection{
		s:      s,
		conn:   wsConn,
		send:   make(chan []byte, s.config.MaxPendingMessages),
		active: true,
	}
	s.conns.Add(conn)

	go conn.writePump()
	go conn.readPump()
}

// Accept publishes [e] to every connection.
func (s *Server) Accept(_ context.Context, e *event.PairCreated) error {
	log, err := e.Log(s.factory)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(&Message{
		Factory: s.factory,
		Event:   e,
		Log:     log,
	})
	if err != nil {
		return err
	}
	s.Publish(msg)
	return nil
}

// Publish sends [msg] to every connection.
func (s *Server) Publish(msg []byte) {
	for _, conn := range s.conns.Conns() {
		if !conn.Send(msg) {
			s.log.Verbo(
				"dropping message to subscribed connection due to too many pending messages",
			)
		}
	}
}

// Connections returns the number of active subscribers.
func (s *Server) Connections() int {
	return s.conns.Len()
}

// Close disconnects every subscriber.
func (s *Server) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.closed = true
	for _, conn := range s.conns.Conns() {
		conn.deactivate()
	}
	return nil
}

func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
}
