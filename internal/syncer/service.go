package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"subsync/internal/config"
	"subsync/internal/fileutil"
	"subsync/internal/logging"
	"subsync/internal/media"
	"subsync/internal/queue"
	"subsync/internal/resolver"
	"subsync/internal/services"
	"subsync/internal/services/ffsubsync"
)

// Outcome describes how a sync attempt ended.
type Outcome string

const (
	// OutcomeSynced means the external tool ran and rewrote the subtitle.
	OutcomeSynced Outcome = "synced"
	// OutcomeSkipped means no sibling video was found; nothing was touched.
	OutcomeSkipped Outcome = "skipped"
)

// Result reports a completed sync attempt.
type Result struct {
	Outcome    Outcome
	VideoPath  string
	OutputPath string
	BackupPath string
	Elapsed    time.Duration
}

// Service aligns a subtitle file against its sibling video by driving the
// external synchronizer. Each call is independent and stateless; the host may
// run many concurrently.
type Service struct {
	cfg      *config.Config
	store    *queue.Store
	resolver *resolver.Resolver
	client   *ffsubsync.Client
	logger   *slog.Logger
}

// NewService constructs a sync service from configuration. The store may be
// nil for one-shot CLI use; ledger recording is then skipped.
func NewService(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Service {
	client := ffsubsync.NewClient(ffsubsync.Options{
		Binary:        cfg.FFSubsyncBinary(),
		GoldenSection: cfg.Sync.GoldenSection,
		Timeout:       time.Duration(cfg.Sync.SyncTimeout) * time.Second,
	})
	return &Service{
		cfg:      cfg,
		store:    store,
		resolver: resolver.New(cfg.Sync.VideoExtensions, cfg.Sync.ExtensionPriority),
		client:   client,
		logger:   logging.NewComponentLogger(logger, "syncer"),
	}
}

// Client exposes the underlying ffsubsync client so tests can attach a fake
// command runner.
func (s *Service) Client() *ffsubsync.Client {
	return s.client
}

// SetLogger replaces the service logger.
func (s *Service) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "syncer")
}

// SyncFile resolves the sibling video for subtitlePath and invokes the
// external synchronizer on the pair. A missing sibling is the normal no-op
// outcome: no subprocess runs and no file changes.
func (s *Service) SyncFile(ctx context.Context, subtitlePath string) (Result, error) {
	start := time.Now()
	var result Result

	if !media.IsSubtitle(subtitlePath) {
		return result, services.Wrap(services.ErrValidation, "sync", "inspect input",
			fmt.Sprintf("%q is not an %s file", subtitlePath, media.SubtitleExtension), nil)
	}

	match, err := s.resolver.Resolve(subtitlePath)
	if err != nil {
		return result, services.Wrap(services.ErrTransient, "sync", "resolve sibling", "directory scan failed", err)
	}
	if match == nil {
		s.logger.Info("no sibling video; leaving subtitle untouched",
			logging.String(logging.FieldSubtitle, subtitlePath),
		)
		result.Outcome = OutcomeSkipped
		result.Elapsed = time.Since(start)
		return result, nil
	}

	outputPath := s.outputPath(subtitlePath)
	result.VideoPath = match.VideoPath
	result.OutputPath = outputPath

	if s.cfg.Sync.BackupOriginals && outputPath == subtitlePath {
		backupPath := subtitlePath + ".bak"
		if err := fileutil.CopyFile(subtitlePath, backupPath); err != nil {
			return result, services.Wrap(services.ErrTransient, "sync", "backup subtitle", "copy failed", err)
		}
		result.BackupPath = backupPath
	}

	s.logger.Info("invoking external synchronizer",
		logging.String(logging.FieldSubtitle, subtitlePath),
		logging.String(logging.FieldVideo, match.VideoPath),
		logging.String("output", outputPath),
	)
	if err := s.client.Sync(ctx, match.VideoPath, subtitlePath, outputPath); err != nil {
		return result, err
	}

	if s.store != nil {
		if err := s.store.RecordSynced(ctx, subtitlePath, match.VideoPath); err != nil {
			// The subtitle is already aligned; a ledger miss only costs a
			// redundant re-sync on the next scan.
			s.logger.Warn("failed to record sync ledger entry",
				logging.Error(err),
				logging.String(logging.FieldSubtitle, subtitlePath),
			)
		}
	}

	result.Outcome = OutcomeSynced
	result.Elapsed = time.Since(start)
	s.logger.Info("subtitle synchronized",
		logging.String(logging.FieldSubtitle, subtitlePath),
		logging.String(logging.FieldVideo, match.VideoPath),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (s *Service) outputPath(subtitlePath string) string {
	if s.cfg.Sync.OutputPolicy == config.OutputPolicySuffix {
		base := strings.TrimSuffix(subtitlePath, media.SubtitleExtension)
		return base + ".synced" + media.SubtitleExtension
	}
	return subtitlePath
}
