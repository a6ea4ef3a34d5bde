package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"subsync/internal/config"
	"subsync/internal/logging"
	"subsync/internal/queue"
	"subsync/internal/workflow"
)

// Daemon coordinates the background services and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *queue.Store
	workflow *workflow.Manager
	scanner  *Scanner

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Workflow     workflow.StatusSummary
	Queue        queue.HealthSummary
	QueueDBPath  string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, wf *workflow.Manager, scanner *Scanner, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || wf == nil || scanner == nil {
		return nil, errors.New("daemon requires config, store, workflow manager, and scanner")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "subsyncd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		workflow: wf,
		scanner:  scanner,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start launches the workflow manager and library scanner after acquiring the
// daemon lock.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another subsync daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.workflow.Start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		return fmt.Errorf("start workflow: %w", err)
	}

	d.cancel = cancel
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.scanner.Run(runCtx)
	}()

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("library_dir", d.cfg.Paths.LibraryDir),
		logging.String("lock_file", d.lockPath),
	)
	return nil
}

// Stop shuts down background services, returns interrupted work to pending,
// and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.running.Store(false)

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	d.workflow.Stop()

	// An item claimed when the context was cancelled stays in syncing;
	// hand it back so the next daemon run picks it up immediately.
	reset, err := d.store.ResetStuckSyncing(context.Background(), queue.DaemonStopReason)
	if err != nil {
		d.logger.Warn("failed to reset in-flight items", logging.Error(err))
	} else if reset > 0 {
		d.logger.Info("returned in-flight items to pending", logging.Int64("count", reset))
	}

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.logger.Info("daemon stopped")
}

// Status reports a snapshot of daemon state.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		Workflow:     d.workflow.Status(),
		QueueDBPath:  d.store.Path(),
		LockFilePath: d.lockPath,
	}
	if health, err := d.store.Health(ctx); err == nil {
		status.Queue = health
	}
	return status
}
