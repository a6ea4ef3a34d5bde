package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subsync/internal/config"
	"subsync/internal/preflight"
	"subsync/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show system readiness and queue state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()
				colorize := colorEnabled(out)
				lines := make([]string, 0, 24)

				lines = append(lines, sectionHeader("System Dependencies", colorize)...)
				for _, dep := range preflight.CheckSystemDeps(cfg) {
					sev := severityOK
					message := dep.Command
					if !dep.Available {
						sev = severityError
						if dep.Optional {
							sev = severityWarn
						}
						message = dep.Detail
						if dep.Description != "" {
							message += " - " + dep.Description
						}
					}
					lines = append(lines, statusLine(dep.Name, sev, message, colorize))
				}

				lines = append(lines, "")
				lines = append(lines, sectionHeader("Directories", colorize)...)
				for _, result := range preflight.CheckDirectories(cfg) {
					sev := severityOK
					if !result.Passed {
						sev = severityError
					}
					lines = append(lines, statusLine(result.Name, sev, result.Detail, colorize))
				}

				lines = append(lines, "")
				lines = append(lines, sectionHeader("Queue", colorize)...)
				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				lines = append(lines, statusLine("Database", severityInfo, store.Path(), colorize))
				lines = append(lines, statusLine("Total items", queueSeverity(health), fmt.Sprintf("%d", health.Total), colorize))
				lines = append(lines, statusLine("Pending", severityInfo, fmt.Sprintf("%d", health.Pending), colorize))
				lines = append(lines, statusLine("Syncing", severityInfo, fmt.Sprintf("%d", health.Syncing), colorize))
				lines = append(lines, statusLine("Synced", severityOK, fmt.Sprintf("%d", health.Synced), colorize))
				lines = append(lines, statusLine("Skipped", severityInfo, fmt.Sprintf("%d", health.Skipped), colorize))
				failedSev := severityInfo
				if health.Failed > 0 {
					failedSev = severityWarn
				}
				lines = append(lines, statusLine("Failed", failedSev, fmt.Sprintf("%d", health.Failed), colorize))

				fmt.Fprintln(out, strings.Join(lines, "\n"))
				return nil
			})
		},
	}
}

func queueSeverity(health queue.HealthSummary) severity {
	if health.Failed > 0 {
		return severityWarn
	}
	return severityInfo
}
