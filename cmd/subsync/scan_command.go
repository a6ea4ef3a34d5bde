package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subsync/internal/config"
	"subsync/internal/daemon"
	"subsync/internal/logging"
	"subsync/internal/queue"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the library for subtitles that need synchronization",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return err
				}

				scanner := daemon.NewScanner(cfg, store, logger)
				enqueued, err := scanner.ScanOnce(cmd.Context(), force)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if enqueued == 0 {
					fmt.Fprintln(out, "Library is up to date; nothing queued")
					return nil
				}
				fmt.Fprintf(out, "Queued %d subtitle(s) for synchronization\n", enqueued)
				fmt.Fprintln(out, "Run the daemon (subsync daemon) to process the queue")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-queue subtitles even if already recorded as synced")
	return cmd
}
