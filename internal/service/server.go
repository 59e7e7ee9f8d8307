package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	// DefaultShutdownTimeout 优雅停机默认等待时长
	DefaultShutdownTimeout = 5 * time.Second
)

// Server trackademia-api HTTP 服务
// Run 负责启动、等待 ctx 结束并在 shutdownTimeout 内优雅停机
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// NewServer shutdownTimeout <= 0 时使用 DefaultShutdownTimeout
func NewServer(addr string, handler http.Handler, shutdownTimeout time.Duration, logger *zap.Logger) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
	}
	return &Server{httpServer: s, shutdownTimeout: shutdownTimeout, logger: logger}
}

// Run 阻塞直到 ctx 结束或服务异常退出
// l 为 nil 时监听 Addr；正常停机返回 nil
func (s *Server) Run(ctx context.Context, l net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.Error("HTTP server stopped unexpectedly", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	if err := s.Stop(context.Background()); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) serve(l net.Listener) error {
	if l == nil {
		s.logger.Info("Starting trackademia-api HTTP server", zap.String("addr", s.httpServer.Addr))
		return s.httpServer.ListenAndServe()
	}
	s.logger.Info("Starting trackademia-api HTTP server", zap.String("addr", l.Addr().String()))
	return s.httpServer.Serve(l)
}

// Stop 优雅停机；ctx 没有 deadline 时套上 shutdownTimeout
func (s *Server) Stop(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}
	s.logger.Info("Stopping trackademia-api HTTP server", zap.Duration("timeout", s.shutdownTimeout))
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTP server shutdown incomplete", zap.Error(err))
		return err
	}
	return nil
}
