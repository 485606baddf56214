package envserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/grpc"
)

// ServerConfig holds listener addresses.
type ServerConfig struct {
	HTTPAddr string // empty disables HTTP and WebSocket
	GRPCAddr string // empty disables gRPC
	Manager  ManagerConfig
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPAddr: ":8088",
		GRPCAddr: ":8089",
		Manager:  DefaultManagerConfig(),
	}
}

// Server runs the HTTP and gRPC front ends over one Manager.
type Server struct {
	config  ServerConfig
	manager *Manager
	logger  *log.Logger
}

// NewServer creates a server. Listeners are opened by Run.
func NewServer(cfg ServerConfig, m *Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{config: cfg, manager: m, logger: logger}
}

// Run serves until ctx is cancelled or a listener fails.
func (s *Server) Run(ctx context.Context) error {
	if s.config.HTTPAddr == "" && s.config.GRPCAddr == "" {
		return fmt.Errorf("envserver: no listener configured")
	}
	s.manager.Start()
	defer s.manager.Stop()

	errCh := make(chan error, 2)

	var httpSrv *http.Server
	if s.config.HTTPAddr != "" {
		httpSrv = &http.Server{
			Addr:              s.config.HTTPAddr,
			Handler:           NewHandler(s.manager, s.logger).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			s.logger.Info("http listening", "addr", s.config.HTTPAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("envserver: http: %w", err)
			}
		}()
	}

	var grpcSrv *grpc.Server
	if s.config.GRPCAddr != "" {
		lis, err := net.Listen("tcp", s.config.GRPCAddr)
		if err != nil {
			if httpSrv != nil {
				httpSrv.Close()
			}
			return fmt.Errorf("envserver: grpc listen: %w", err)
		}
		grpcSrv = grpc.NewServer()
		RegisterEnvService(grpcSrv, s.manager)
		go func() {
			s.logger.Info("grpc listening", "addr", s.config.GRPCAddr)
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("envserver: grpc: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	s.logger.Info("stopping env server")
	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && runErr == nil {
			runErr = err
		}
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	return runErr
}
