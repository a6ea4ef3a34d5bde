package syncer

import (
	"context"
	"log/slog"

	"subsync/internal/logging"
	"subsync/internal/queue"
	"subsync/internal/services"
	"subsync/internal/stage"
)

// Stage integrates subtitle synchronization with the workflow manager.
type Stage struct {
	store   *queue.Store
	service *Service
	logger  *slog.Logger
}

// NewStage constructs a workflow stage that synchronizes subtitles for queue items.
func NewStage(store *queue.Store, service *Service, logger *slog.Logger) *Stage {
	return &Stage{store: store, service: service, logger: logging.NewComponentLogger(logger, "sync-stage")}
}

// SetLogger allows the workflow manager to route stage logs.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "sync-stage")
	if s.service != nil {
		s.service.SetLogger(logger)
	}
}

// Prepare validates that the stage has everything it needs before Execute runs.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.service == nil {
		return services.Wrap(services.ErrConfiguration, "sync", "prepare", "Sync stage is not configured", nil)
	}
	if item == nil {
		return services.Wrap(services.ErrValidation, "sync", "prepare", "Queue item is nil", nil)
	}
	return nil
}

// Execute synchronizes the item's subtitle and records the terminal status on
// the item. The workflow manager persists the mutation.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	if s == nil || s.service == nil {
		return services.Wrap(services.ErrConfiguration, "sync", "execute", "Sync stage is not configured", nil)
	}
	if item == nil {
		return services.Wrap(services.ErrValidation, "sync", "execute", "Queue item is nil", nil)
	}

	result, err := s.service.SyncFile(ctx, item.SubtitlePath)
	if err != nil {
		return err
	}

	item.VideoPath = result.VideoPath
	item.ErrorMessage = ""
	switch result.Outcome {
	case OutcomeSkipped:
		item.Status = queue.StatusSkipped
	default:
		item.Status = queue.StatusSynced
	}
	return nil
}

// HealthCheck reports whether the external synchronizer is available.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "sync"
	if s == nil || s.service == nil {
		return stage.Unhealthy(name, "stage not configured")
	}
	if err := s.service.Client().Available(); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Healthy(name)
}
