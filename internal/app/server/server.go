// internal/app/server/server.go

// Package server runs the TCP front end: an accept loop spawning one
// worker goroutine per connection, the command router with its
// access-control guard, and the upload/download transfer engine.
package server

import (
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupdrop/groupdrop/internal/app/store/directory"
	"github.com/groupdrop/groupdrop/internal/app/system/auditlog"
)

// Config carries the optional server knobs.
type Config struct {
	// IdleTimeout closes a connection whose client sends nothing for
	// this long. Zero disables it; the protocol's default behavior is
	// to wait forever.
	IdleTimeout time.Duration
}

// Server owns the listener and the shared collaborators handed to each
// connection worker.
type Server struct {
	dir   *directory.Directory
	audit *auditlog.Logger
	log   *zap.Logger
	cfg   Config

	lis     net.Listener
	conns   atomic.Int64
	started time.Time
	closed  atomic.Bool
}

// New builds a server around the directory.
func New(dir *directory.Directory, audit *auditlog.Logger, log *zap.Logger, cfg Config) *Server {
	return &Server{dir: dir, audit: audit, log: log, cfg: cfg}
}

// ListenAndServe listens on addr and runs the accept loop until Close.
func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Serve runs the accept loop on lis. Each accepted connection gets its
// own goroutine and exclusive connection state; connections never block
// each other directly.
func (s *Server) Serve(lis net.Listener) error {
	s.lis = lis
	s.started = time.Now()
	s.log.Info("listening", zap.String("addr", lis.Addr().String()))

	for {
		nc, err := lis.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn("accept failed", zap.Error(err))
			continue
		}
		go s.handle(nc)
	}
}

func (s *Server) handle(nc net.Conn) {
	s.conns.Add(1)
	defer s.conns.Add(-1)

	c := newConn(s, nc, s.log.With(
		zap.String("conn_id", uuid.NewString()),
		zap.String("remote_addr", nc.RemoteAddr().String()),
	))
	c.run()
}

// Addr returns the bound listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	if s.lis == nil {
		return nil
	}
	return s.lis.Addr()
}

// ConnCount reports the number of live connections.
func (s *Server) ConnCount() int64 { return s.conns.Load() }

// Uptime reports how long the server has been serving.
func (s *Server) Uptime() time.Duration { return time.Since(s.started) }

// Close stops the accept loop. Live connection workers finish on their
// own when their clients disconnect.
func (s *Server) Close() error {
	s.closed.Store(true)
	if s.lis == nil {
		return nil
	}
	return s.lis.Close()
}
