package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jetpack-runner/internal/envserver"
)

var (
	flagEnvHTTP        string
	flagEnvGRPC        string
	flagEnvMaxSessions int
	flagEnvIdle        time.Duration
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Reinforcement learning environment tools",
}

var envServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the environment over HTTP, WebSocket and gRPC",
	Long: `Start the remote environment server. Every client creates its own env
session and drives it with reset and step calls.

HTTP (JSON):
  POST   /v1/envs               create a session, returns the first observation
  POST   /v1/envs/{id}/reset    reset, optional {"seed": n}
  POST   /v1/envs/{id}/step     step with {"action": [...]}
  GET    /v1/envs/{id}/snapshot full simulation snapshot
  GET    /v1/envs/{id}/ws       WebSocket, one step per message
  DELETE /v1/envs/{id}          close the session
  GET    /v1/agents             registered agents

gRPC: jetpack.v1.EnvService with Create, Reset, Step and Close.

Sessions idle longer than --idle-timeout are closed.

Examples:
  jetpack env serve
  jetpack env serve --http :9000 --grpc ""
  jetpack env serve --difficulty hard --max-sessions 8`,
	Args: cobra.NoArgs,
	Run:  runEnvServe,
}

func init() {
	defaults := envserver.DefaultServerConfig()
	envServeCmd.Flags().StringVar(&flagEnvHTTP, "http", defaults.HTTPAddr, "HTTP and WebSocket address (empty disables)")
	envServeCmd.Flags().StringVar(&flagEnvGRPC, "grpc", defaults.GRPCAddr, "gRPC address (empty disables)")
	envServeCmd.Flags().IntVar(&flagEnvMaxSessions, "max-sessions", defaults.Manager.MaxSessions, "Maximum concurrent env sessions")
	envServeCmd.Flags().DurationVar(&flagEnvIdle, "idle-timeout", defaults.Manager.IdleTimeout, "Close sessions idle this long")

	envCmd.AddCommand(envServeCmd)
}

func runEnvServe(_ *cobra.Command, _ []string) {
	if err := serveEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveEnv() error {
	cfg, err := loadConfig(flagDifficulty)
	if err != nil {
		return err
	}
	logger := newLogger("jetpack-env")

	srvCfg := envserver.DefaultServerConfig()
	srvCfg.HTTPAddr = flagEnvHTTP
	srvCfg.GRPCAddr = flagEnvGRPC
	srvCfg.Manager.MaxSessions = flagEnvMaxSessions
	srvCfg.Manager.IdleTimeout = flagEnvIdle

	manager := envserver.NewManager(srvCfg.Manager, cfg, logger)
	server := envserver.NewServer(srvCfg, manager, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Press Ctrl+C to stop")
	return server.Run(ctx)
}
