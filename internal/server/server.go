// Package server implements the TCP request server: an accept loop handing
// each connection to a fixed-size worker pool, talking the wire package's
// framing over an ignite.Engine handle cloned per connection.
package server

import (
	"context"
	"net"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ignitedb/ignite/internal/wire"
	"github.com/ignitedb/ignite/pkg/ignite"
	"github.com/ignitedb/ignite/pkg/metrics"
)

// Server accepts connections on addr and dispatches one request per
// connection to eng.
type Server struct {
	addr    string
	eng     ignite.Engine
	pool    *Pool
	log     *zap.SugaredLogger
	metrics *metrics.Metrics

	listener net.Listener
	shutdown atomic.Bool
}

// New builds a Server that will clone eng for every accepted connection and
// dispatch requests across a pool of workers workers.
func New(addr string, eng ignite.Engine, workers int, log *zap.SugaredLogger, met *metrics.Metrics) *Server {
	return &Server{
		addr:    addr,
		eng:     eng,
		pool:    NewPool(workers, log),
		log:     log,
		metrics: met,
	}
}

// Serve binds addr and runs the accept loop until Shutdown is called, at
// which point it returns nil.
func (s *Server) Serve() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln

	s.log.Infow("server listening", "addr", s.addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.shutdown.Load() {
				return nil
			}
			s.log.Warnw("accept failed", "error", err)
			continue
		}

		s.pool.Submit(func() { s.handle(conn) })
	}
}

// Shutdown stops accepting new connections and waits for every in-flight
// handler to finish before returning. Closing the listener is the idiomatic
// way to unblock the blocked Accept call. Safe to call more than once.
func (s *Server) Shutdown() error {
	if !s.shutdown.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}

	s.pool.Shutdown()
	s.log.Infow("server stopped", "addr", s.addr)
	return err
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	clone, err := s.eng.Clone()
	if err != nil {
		s.log.Errorw("cloning engine handle", "error", err)
		return
	}
	defer clone.Close()

	req, err := wire.DecodeRequest(conn)
	if err != nil {
		s.log.Warnw("decoding request", "remote", conn.RemoteAddr(), "error", err)
		return
	}

	ctx := context.Background()

	switch {
	case req.Get != nil:
		s.handleGet(ctx, conn, clone, req.Get)
	case req.Set != nil:
		s.handleSet(ctx, conn, clone, req.Set)
	case req.Remove != nil:
		s.handleRemove(ctx, conn, clone, req.Remove)
	default:
		s.log.Warnw("request has no variant set", "remote", conn.RemoteAddr())
	}
}

func (s *Server) handleGet(ctx context.Context, conn net.Conn, eng ignite.Engine, req *wire.GetRequest) {
	value, found, err := eng.Get(ctx, req.Key)

	var resp wire.GetResponse
	outcome := "ok"
	if err != nil {
		resp = wire.ErrGetResponse(err.Error())
		outcome = "error"
	} else {
		resp = wire.OkGetResponse(value, found)
	}

	s.observe("get", outcome)
	if err := wire.EncodeGetResponse(conn, resp); err != nil {
		s.log.Warnw("encoding get response", "remote", conn.RemoteAddr(), "error", err)
	}
}

func (s *Server) handleSet(ctx context.Context, conn net.Conn, eng ignite.Engine, req *wire.SetRequest) {
	err := eng.Set(ctx, req.Key, req.Value)

	var resp wire.SetResponse
	outcome := "ok"
	if err != nil {
		resp = wire.ErrSetResponse(err.Error())
		outcome = "error"
	}

	s.observe("set", outcome)
	if err := wire.EncodeSetResponse(conn, resp); err != nil {
		s.log.Warnw("encoding set response", "remote", conn.RemoteAddr(), "error", err)
	}
}

func (s *Server) handleRemove(ctx context.Context, conn net.Conn, eng ignite.Engine, req *wire.RemoveRequest) {
	err := eng.Remove(ctx, req.Key)

	var resp wire.RemoveResponse
	outcome := "ok"
	if err != nil {
		resp = wire.ErrRemoveResponse(err.Error())
		outcome = "error"
	}

	s.observe("remove", outcome)
	if err := wire.EncodeRemoveResponse(conn, resp); err != nil {
		s.log.Warnw("encoding remove response", "remote", conn.RemoteAddr(), "error", err)
	}
}

func (s *Server) observe(api, outcome string) {
	if s.metrics != nil {
		s.metrics.RequestsTotal.WithLabelValues(api, outcome).Inc()
	}
}
