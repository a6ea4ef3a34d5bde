package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending Status = "pending"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// DaemonStopReason is the error message set when items are reset due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusSyncing,
	StatusSynced,
	StatusSkipped,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns every known status in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus validates a user-supplied status string.
func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusSet[status]
	return status, ok
}

// IsTerminal reports whether the status ends an item's lifecycle.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSynced, StatusSkipped, StatusFailed:
		return true
	default:
		return false
	}
}

// Item represents a subtitle sync task persisted in SQLite.
type Item struct {
	ID           int64
	SubtitlePath string
	VideoPath    string
	Status       Status
	ErrorMessage string
	Attempts     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LedgerEntry records a completed synchronization for a directory, so rescans
// can skip subtitles that were already aligned.
type LedgerEntry struct {
	Directory    string
	SubtitleName string
	VideoName    string
	SyncedAt     time.Time
}

// HealthSummary describes aggregated queue counts per key lifecycle state.
type HealthSummary struct {
	Total   int
	Pending int
	Syncing int
	Synced  int
	Skipped int
	Failed  int
}
