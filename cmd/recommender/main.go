package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/app"
	"github.com/shadysedhom/mair-assignment/internal/config"
	"github.com/shadysedhom/mair-assignment/internal/util"
)

var rootCmd = &cobra.Command{
	Use:   "recommender",
	Short: "Restaurant recommendation dialogue system",
	Long: `Slot-filling dialogue that asks for food, price range and area,
looks up matching restaurants and reasons about extra preferences.

Available subcommands:
  chat     - Talk to the system in the terminal
  serve    - Serve dialogue sessions over websocket
  classify - Print the dialogue act of each argument`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads config and logger, applies overrides and builds the container.
func bootstrap(override func(*config.Config)) (*app.Container, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid flags: %w", err)
		}
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	buildCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	container, err := app.Build(buildCtx, cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		_ = logger.Sync()
		return nil, nil, err
	}
	return container, logger, nil
}
