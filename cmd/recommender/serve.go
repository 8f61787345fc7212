package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shadysedhom/mair-assignment/internal/constants"
	"github.com/shadysedhom/mair-assignment/internal/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dialogue sessions over websocket",
	Long: `Starts an HTTP server. Each connection to /ws runs one independent
dialogue session with its own context and transcript.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	container, logger, err := bootstrap(nil)
	if err != nil {
		return err
	}
	defer container.Close()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := transport.NewWebSocketServer(transport.ServerConfig{
		Addr:              container.Config.Server.Addr,
		SessionsPerMinute: container.Config.Server.SessionsPerMinute,
		Burst:             constants.WebSocketConfig.SessionBurst,
		TrustForwardedFor: container.Config.Server.TrustForwardedFor,
	}, func(ctx context.Context, provider *transport.WebSocketProvider) error {
		return container.RunSession(ctx, provider)
	}, logger)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := server.ListenAndServe(groupCtx)
		logger.Info("Server stopped, sessions drained")
		return err
	})
	group.Go(func() error {
		reportSessions(groupCtx, server, logger)
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Shutdown complete")
	return nil
}

// reportSessions logs the number of running dialogues until ctx ends.
func reportSessions(ctx context.Context, server *transport.WebSocketServer, logger *zap.Logger) {
	ticker := time.NewTicker(constants.ServerConfig.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down gracefully...", zap.Int64("active_sessions", server.ActiveSessions()))
			return
		case <-ticker.C:
			logger.Info("Dialogue server status", zap.Int64("active_sessions", server.ActiveSessions()))
		}
	}
}
