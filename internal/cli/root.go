package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/video-stream/captions/internal/config"
)

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the HTTP server.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "captions",
		Short:         "Fetch, segment and summarize YouTube captions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	addServeFlags(root)

	root.AddCommand(
		newServeCmd(),
		newSegmentCmd(),
		newVideoIDCmd(),
		newTimestampCmd(),
		newTranscriptCmd(),
		newSummarizeCmd(),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and builds the logger for commands that
// talk to upstream services.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := config.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		logger.Warn("invalid LOG_LEVEL, using info", "error", err)
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
