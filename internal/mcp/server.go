// Package mcp serves the tool registry as newline-delimited JSON-RPC 2.0 in
// the Model Context Protocol dialect.
package mcp

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/alucardeht/textproc/internal/logger"
	"github.com/alucardeht/textproc/internal/tools"
)

type Options struct {
	Name        string
	ToolTimeout time.Duration
	Logger      *slog.Logger
}

type Server struct {
	registry *tools.Registry
	handler  *Handler
	log      *slog.Logger
}

func NewServer(registry *tools.Registry, opts Options) *Server {
	if opts.Name == "" {
		opts.Name = "textproc"
	}
	if opts.Logger == nil {
		opts.Logger = logger.ForComponent("mcp")
	}
	return &Server{
		registry: registry,
		handler:  NewHandler(registry, opts),
		log:      opts.Logger,
	}
}

// Serve answers requests on rwc until the peer disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	stream := jsonrpc2.NewPlainObjectStream(rwc)
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handler.Handle).SuppressErrClosed())

	s.log.Info("serving", "tools", len(s.registry.Names()))

	select {
	case <-conn.DisconnectNotify():
		s.log.Info("client disconnected")
		return nil
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	}
}

// ServeStreams serves over a separate reader and writer, such as stdin and
// stdout. Either side is closed on shutdown if it implements io.Closer.
func (s *Server) ServeStreams(ctx context.Context, r io.Reader, w io.Writer) error {
	return s.Serve(ctx, &stdioReadWriteCloser{reader: r, writer: w})
}

func (s *Server) Handler() *Handler {
	return s.handler
}

func (s *Server) Registry() *tools.Registry {
	return s.registry
}

type stdioReadWriteCloser struct {
	reader io.Reader
	writer io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	var rerr, werr error
	if c, ok := s.reader.(io.Closer); ok {
		rerr = c.Close()
	}
	if c, ok := s.writer.(io.Closer); ok {
		werr = c.Close()
	}
	if rerr != nil {
		return rerr
	}
	return werr
}
