// Package netx is the TCP transport: it accepts connections, reads one
// command per read, hands it to the dispatcher and writes back the response
// terminated by a single newline. Connections are served one at a time, each
// to completion.
package netx

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/slovnyk/slovnykd/internal/command"
	"github.com/slovnyk/slovnykd/internal/observability"
)

const readBufferSize = 4096

type Server struct {
	addr         string
	dispatcher   *command.Dispatcher
	log          *observability.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration

	mu sync.Mutex
	ln net.Listener
}

func NewServer(addr string, d *command.Dispatcher, log *observability.Logger, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		addr:         addr,
		dispatcher:   d,
		log:          log,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections until the listener is closed. Each connection is
// handled fully before the next accept.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.log.Info("server listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Error("accept failed", "error", err)
			continue
		}
		s.handleConn(conn)
	}
}

// Close stops the accept loop. An in-flight connection finishes on its own.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

// Addr returns the bound listener address, or "" before Serve.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	id := observability.NewConnID()
	s.log.Info("client connected", "conn_id", id, "remote", conn.RemoteAddr().String())

	buf := make([]byte, readBufferSize)
	for {
		if s.readTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		n, err := conn.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Info("client disconnected", "conn_id", id)
			} else {
				s.log.Warn("read failed", "conn_id", id, "error", err)
			}
			return
		}

		line := strings.TrimRight(string(buf[:n]), "\r\n")
		start := time.Now()
		resp := s.dispatcher.Dispatch(line)
		if !strings.HasSuffix(resp, "\n") {
			resp += "\n"
		}

		if s.writeTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		}
		if _, err := conn.Write([]byte(resp)); err != nil {
			s.log.Warn("write failed", "conn_id", id, "error", err)
			return
		}
		s.log.Info("command",
			"conn_id", id,
			"verb", verbOf(line),
			"bytes", len(resp),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func verbOf(line string) string {
	if i := strings.IndexByte(line, '|'); i >= 0 {
		return line[:i]
	}
	return line
}
