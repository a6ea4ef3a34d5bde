package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// RecordSynced upserts a ledger entry for a completed synchronization.
func (s *Store) RecordSynced(ctx context.Context, subtitlePath, videoPath string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.execWithRetry(ctx,
		`INSERT INTO sync_ledger (directory, subtitle_name, video_name, synced_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (directory, subtitle_name) DO UPDATE
         SET video_name = excluded.video_name, synced_at = excluded.synced_at`,
		filepath.Dir(subtitlePath),
		filepath.Base(subtitlePath),
		filepath.Base(videoPath),
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("record ledger entry for %q: %w", subtitlePath, err)
	}
	return nil
}

// IsSynced reports whether the ledger already holds an entry for the subtitle.
func (s *Store) IsSynced(ctx context.Context, subtitlePath string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sync_ledger WHERE directory = ? AND subtitle_name = ?`,
		filepath.Dir(subtitlePath),
		filepath.Base(subtitlePath),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check ledger for %q: %w", subtitlePath, err)
	}
	return count > 0, nil
}

// LedgerEntryFor returns the ledger entry for the subtitle, or nil when none exists.
func (s *Store) LedgerEntryFor(ctx context.Context, subtitlePath string) (*LedgerEntry, error) {
	var entry LedgerEntry
	var syncedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT directory, subtitle_name, video_name, synced_at
         FROM sync_ledger WHERE directory = ? AND subtitle_name = ?`,
		filepath.Dir(subtitlePath),
		filepath.Base(subtitlePath),
	).Scan(&entry.Directory, &entry.SubtitleName, &entry.VideoName, &syncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger for %q: %w", subtitlePath, err)
	}
	entry.SyncedAt = parseTimestamp(syncedAt)
	return &entry, nil
}

// ForgetSynced removes the ledger entry for a subtitle so a rescan enqueues it again.
func (s *Store) ForgetSynced(ctx context.Context, subtitlePath string) error {
	_, err := s.execWithRetry(ctx,
		`DELETE FROM sync_ledger WHERE directory = ? AND subtitle_name = ?`,
		filepath.Dir(subtitlePath),
		filepath.Base(subtitlePath),
	)
	if err != nil {
		return fmt.Errorf("forget ledger entry for %q: %w", subtitlePath, err)
	}
	return nil
}
