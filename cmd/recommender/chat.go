package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/config"
	"github.com/shadysedhom/mair-assignment/internal/transport"
)

var chatFlags struct {
	style   string
	confirm bool
	seed    int64
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the system in the terminal",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatFlags.style, "style", "", "response style: humanlike or system")
	chatCmd.Flags().BoolVar(&chatFlags.confirm, "confirm", false, "ask before storing each recognised preference")
	chatCmd.Flags().Int64Var(&chatFlags.seed, "seed", 0, "random seed for latent attributes and suggestions")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	container, logger, err := bootstrap(func(cfg *config.Config) {
		if cmd.Flags().Changed("style") {
			cfg.Dialogue.Style = chatFlags.style
		}
		if cmd.Flags().Changed("confirm") {
			cfg.Dialogue.ConfirmMatches = chatFlags.confirm
		}
		if cmd.Flags().Changed("seed") {
			cfg.Catalog.Seed = chatFlags.seed
		}
	})
	if err != nil {
		return err
	}
	defer container.Close()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	console := transport.NewConsole(os.Stdin, cmd.OutOrStdout())
	err = container.RunSession(ctx, console)
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		logger.Info("Dialogue ended")
		return nil
	default:
		logger.Error("Dialogue failed", zap.Error(err))
		return err
	}
}
