package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"subsync/internal/config"
	"subsync/internal/logging"
	"subsync/internal/queue"
	"subsync/internal/syncer"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <subtitle.srt>",
		Short: "Synchronize one subtitle file against its sibling video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				subtitle, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolve subtitle path: %w", err)
				}

				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return err
				}

				service := syncer.NewService(cfg, store, logger)
				result, err := service.SyncFile(cmd.Context(), subtitle)
				if err != nil {
					return err
				}

				switch result.Outcome {
				case syncer.OutcomeSkipped:
					fmt.Fprintf(cmd.OutOrStdout(), "No sibling video for %s; nothing to do\n", subtitle)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "Synchronized %s against %s (%s)\n",
						subtitle, result.VideoPath, result.Elapsed.Round(10*time.Millisecond))
				}
				return nil
			})
		},
	}
}
