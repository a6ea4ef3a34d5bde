package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"subsync/internal/config"
	"subsync/internal/logging"
	"subsync/internal/queue"
	"subsync/internal/services"
	"subsync/internal/stage"
)

// Manager coordinates queue processing through the registered sync stage.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	handler      stage.Handler
	logger       *slog.Logger
	pollInterval time.Duration

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastErr  error
	lastItem *queue.Item
}

// StatusSummary describes manager runtime state for the daemon and CLI.
type StatusSummary struct {
	Running      bool
	LastError    string
	LastItemID   int64
	LastItemPath string
}

// NewManager constructs a workflow manager.
func NewManager(cfg *config.Config, store *queue.Store, handler stage.Handler, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:          cfg,
		store:        store,
		handler:      handler,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
	}
}

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if m.handler == nil {
		m.mu.Unlock()
		return errors.New("workflow stage not configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	if count, err := m.store.ResetStuckSyncing(runCtx, "reclaimed at startup"); err != nil {
		m.logger.Warn("failed to reclaim interrupted items", logging.Error(err))
	} else if count > 0 {
		m.logger.Info("reclaimed interrupted items", logging.Int64("count", count))
	}

	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// Status reports a snapshot of manager state.
func (m *Manager) Status() StatusSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	summary := StatusSummary{Running: m.running}
	if m.lastErr != nil {
		summary.LastError = m.lastErr.Error()
	}
	if m.lastItem != nil {
		summary.LastItemID = m.lastItem.ID
		summary.LastItemPath = m.lastItem.SubtitlePath
	}
	return summary
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, err := m.store.ClaimNext(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			m.recordError(err)
			m.logger.Warn("failed to claim next item", logging.Error(err))
			m.waitForPoll(ctx)
			continue
		}
		if item == nil {
			m.waitForPoll(ctx)
			continue
		}

		if err := m.processItem(ctx, item); err != nil && errors.Is(err, context.Canceled) {
			return
		}
	}
}

func (m *Manager) processItem(ctx context.Context, item *queue.Item) error {
	runID := uuid.NewString()
	itemCtx := services.WithItemID(ctx, item.ID)
	itemCtx = services.WithStage(itemCtx, "sync")
	itemCtx = services.WithRunID(itemCtx, runID)
	logger := logging.WithContext(itemCtx, m.logger)

	logger.Info("processing subtitle", logging.String(logging.FieldSubtitle, item.SubtitlePath))

	err := m.handler.Prepare(itemCtx, item)
	if err == nil {
		err = m.handler.Execute(itemCtx, item)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Shutdown mid-item: leave the row in syncing; startup reclaim
			// returns it to pending.
			return err
		}
		item.Status = services.FailureStatus(err)
		item.ErrorMessage = err.Error()
		logger.Error("sync failed", logging.Error(err))
	}

	if updateErr := m.store.Update(ctx, item); updateErr != nil {
		m.recordError(updateErr)
		logger.Error("failed to persist item status", logging.Error(updateErr))
		return updateErr
	}

	m.mu.Lock()
	m.lastItem = item
	m.lastErr = err
	m.mu.Unlock()

	if err == nil {
		logger.Info("item finished", logging.String("status", string(item.Status)))
	}
	return err
}

func (m *Manager) waitForPoll(ctx context.Context) {
	interval := m.pollInterval
	if interval <= 0 {
		interval = time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(interval):
	}
}

func (m *Manager) recordError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}
