package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"subsync/internal/config"
)

// Store manages queue persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the queue database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "queue.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Enqueue schedules a pending sync task for the subtitle path. When a
// non-terminal task for the same path already exists, that task is returned
// instead of creating a duplicate; a finished task for the path is reset to
// pending and reused, so repeated scans of the same file never grow the queue.
func (s *Store) Enqueue(ctx context.Context, subtitlePath string) (*Item, error) {
	subtitlePath = strings.TrimSpace(subtitlePath)
	if subtitlePath == "" {
		return nil, errors.New("subtitle path is required")
	}

	existing, err := s.findActiveBySubtitle(ctx, subtitlePath)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	reused, err := s.requeueLatestTerminal(ctx, subtitlePath)
	if err != nil {
		return nil, err
	}
	if reused != nil {
		return reused, nil
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO queue_items (subtitle_path, status, created_at, updated_at)
         VALUES (?, ?, ?, ?)`,
		subtitlePath,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subtitle task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a single item.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, selectItemSQL+" WHERE id = ?", id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

// requeueLatestTerminal resets the most recent synced, skipped, or failed
// task for the path back to pending. Returns nil when the path has no
// finished task to reuse.
func (s *Store) requeueLatestTerminal(ctx context.Context, subtitlePath string) (*Item, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	var id int64
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(ctx,
			`UPDATE queue_items
             SET status = ?, video_path = NULL, error_message = NULL, updated_at = ?
             WHERE id = (
                 SELECT id FROM queue_items
                 WHERE subtitle_path = ? AND status IN (?, ?, ?)
                 ORDER BY id DESC LIMIT 1
             )
             RETURNING id`,
			StatusPending, timestamp,
			subtitlePath, StatusSynced, StatusSkipped, StatusFailed,
		)
		return row.Scan(&id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("requeue finished task for %q: %w", subtitlePath, err)
	}
	return s.GetByID(ctx, id)
}

func (s *Store) findActiveBySubtitle(ctx context.Context, subtitlePath string) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		selectItemSQL+` WHERE subtitle_path = ? AND status IN (?, ?) ORDER BY id LIMIT 1`,
		subtitlePath, StatusPending, StatusSyncing,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active task for %q: %w", subtitlePath, err)
	}
	return item, nil
}

// ClaimNext atomically claims the oldest pending item, transitioning it to
// syncing. Returns nil when the queue holds no pending work.
func (s *Store) ClaimNext(ctx context.Context) (*Item, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	var id int64
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(ctx,
			`UPDATE queue_items
             SET status = ?, attempts = attempts + 1, updated_at = ?
             WHERE id = (
                 SELECT id FROM queue_items WHERE status = ? ORDER BY id LIMIT 1
             )
             RETURNING id`,
			StatusSyncing, timestamp, StatusPending,
		)
		return row.Scan(&id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim next pending item: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Update persists the mutable fields of an item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is required")
	}
	if _, ok := statusSet[item.Status]; !ok {
		return fmt.Errorf("unknown status %q", item.Status)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.execWithRetry(ctx,
		`UPDATE queue_items
         SET video_path = ?, status = ?, error_message = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(item.VideoPath),
		item.Status,
		nullableString(item.ErrorMessage),
		timestamp,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	return nil
}

// List returns items filtered by the provided statuses, newest first. An
// empty filter returns everything.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := selectItemSQL
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Stats returns per-status item counts.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM queue_items GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates queue counts into a summary.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	summary := HealthSummary{
		Pending: stats[StatusPending],
		Syncing: stats[StatusSyncing],
		Synced:  stats[StatusSynced],
		Skipped: stats[StatusSkipped],
		Failed:  stats[StatusFailed],
	}
	for _, count := range stats {
		summary.Total += count
	}
	return summary, nil
}

// Clear removes items in the given statuses; with no filter it empties the queue.
func (s *Store) Clear(ctx context.Context, statuses ...Status) (int64, error) {
	query := "DELETE FROM queue_items"
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

// RetryFailed returns failed items to pending so the workflow picks them up again.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(ctx,
		`UPDATE queue_items SET status = ?, error_message = NULL, updated_at = ? WHERE status = ?`,
		StatusPending, timestamp, StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("retry failed items: %w", err)
	}
	return res.RowsAffected()
}

// ResetStuckSyncing returns in-flight items to pending. Called on daemon
// startup so work interrupted by a crash or shutdown is reclaimed.
func (s *Store) ResetStuckSyncing(ctx context.Context, reason string) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(ctx,
		`UPDATE queue_items SET status = ?, error_message = ?, updated_at = ? WHERE status = ?`,
		StatusPending, nullableString(reason), timestamp, StatusSyncing,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck items: %w", err)
	}
	return res.RowsAffected()
}

const selectItemSQL = `SELECT id, subtitle_path, video_path, status, error_message, attempts, created_at, updated_at FROM queue_items`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var videoPath sql.NullString
	var errorMessage sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&item.ID, &item.SubtitlePath, &videoPath, &item.Status, &errorMessage, &item.Attempts, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	item.VideoPath = videoPath.String
	item.ErrorMessage = errorMessage.String
	item.CreatedAt = parseTimestamp(createdAt)
	item.UpdatedAt = parseTimestamp(updatedAt)
	return &item, nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
