package daemon

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"subsync/internal/config"
	"subsync/internal/logging"
	"subsync/internal/media"
	"subsync/internal/queue"
)

// Scanner walks the library directory on an interval and enqueues subtitle
// files that are not yet recorded in the sync ledger.
type Scanner struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
}

// NewScanner constructs a library scanner.
func NewScanner(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Scanner {
	return &Scanner{cfg: cfg, store: store, logger: logging.NewComponentLogger(logger, "scanner")}
}

// Run scans immediately and then on the configured interval until the
// context is cancelled.
func (s *Scanner) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.Workflow.ScanInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	if _, err := s.ScanOnce(ctx, false); err != nil {
		s.logger.Warn("library scan failed", logging.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ScanOnce(ctx, false); err != nil {
				s.logger.Warn("library scan failed", logging.Error(err))
			}
		}
	}
}

// ScanOnce walks the library once and enqueues unsynced subtitles. With force
// set, ledger entries are ignored and every subtitle is enqueued. Returns the
// number of items enqueued.
func (s *Scanner) ScanOnce(ctx context.Context, force bool) (int, error) {
	root := s.cfg.Paths.LibraryDir
	enqueued := 0

	skip, err := s.skippedSubtitles(ctx, force)
	if err != nil {
		return 0, err
	}

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() || !media.IsSubtitle(entry.Name()) {
			return nil
		}
		if _, ok := skip[path]; ok {
			return nil
		}

		if !force {
			synced, err := s.store.IsSynced(ctx, path)
			if err != nil {
				return err
			}
			if synced {
				return nil
			}
		}

		item, err := s.store.Enqueue(ctx, path)
		if err != nil {
			return err
		}
		enqueued++
		s.logger.Debug("enqueued subtitle",
			logging.String(logging.FieldSubtitle, path),
			logging.Int64(logging.FieldItemID, item.ID),
		)
		return nil
	})
	if err != nil {
		return enqueued, err
	}

	if enqueued > 0 {
		s.logger.Info("library scan complete", logging.Int("enqueued", enqueued))
	}
	return enqueued, nil
}

// skippedSubtitles returns the paths a scan must leave alone: items already
// waiting or in flight, plus failed items so only an operator (retry, or a
// forced scan) reschedules them. A rescan neither duplicates these nor counts
// them as new.
func (s *Scanner) skippedSubtitles(ctx context.Context, force bool) (map[string]struct{}, error) {
	statuses := []queue.Status{queue.StatusPending, queue.StatusSyncing}
	if !force {
		statuses = append(statuses, queue.StatusFailed)
	}
	items, err := s.store.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item.SubtitlePath] = struct{}{}
	}
	return set, nil
}
