package daemon_test

import (
	"context"
	"path/filepath"
	"testing"

	"subsync/internal/daemon"
	"subsync/internal/logging"
	"subsync/internal/queue"
	"subsync/internal/testsupport"
)

func TestScanOnceEnqueuesUnsyncedSubtitles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.MediaPair(t, cfg.Paths.LibraryDir, "movie", ".mkv")
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.LibraryDir, "shows", "pilot.srt"), "subtitle")
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.LibraryDir, "notes.txt"), "not a subtitle")

	scanner := daemon.NewScanner(cfg, store, logging.NewNop())
	enqueued, err := scanner.ScanOnce(context.Background(), false)
	if err != nil {
		t.Fatalf("ScanOnce failed: %v", err)
	}
	if enqueued != 2 {
		t.Fatalf("expected 2 enqueued subtitles, got %d", enqueued)
	}

	items, err := store.List(context.Background(), queue.StatusPending)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 pending items, got %d", len(items))
	}
}

func TestScanOnceSkipsLedgeredSubtitles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	subtitle := testsupport.MediaPair(t, cfg.Paths.LibraryDir, "movie", ".mkv")
	if err := store.RecordSynced(context.Background(), subtitle, filepath.Join(cfg.Paths.LibraryDir, "movie.mkv")); err != nil {
		t.Fatalf("RecordSynced failed: %v", err)
	}

	scanner := daemon.NewScanner(cfg, store, logging.NewNop())
	enqueued, err := scanner.ScanOnce(context.Background(), false)
	if err != nil {
		t.Fatalf("ScanOnce failed: %v", err)
	}
	if enqueued != 0 {
		t.Fatalf("expected ledgered subtitle to be skipped, enqueued %d", enqueued)
	}
}

func TestScanOnceForceIgnoresLedger(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	subtitle := testsupport.MediaPair(t, cfg.Paths.LibraryDir, "movie", ".mkv")
	if err := store.RecordSynced(context.Background(), subtitle, filepath.Join(cfg.Paths.LibraryDir, "movie.mkv")); err != nil {
		t.Fatalf("RecordSynced failed: %v", err)
	}

	scanner := daemon.NewScanner(cfg, store, logging.NewNop())
	enqueued, err := scanner.ScanOnce(context.Background(), true)
	if err != nil {
		t.Fatalf("ScanOnce failed: %v", err)
	}
	if enqueued != 1 {
		t.Fatalf("expected forced enqueue, got %d", enqueued)
	}
}

func TestScanOnceKeepsSingleRowForOrphanSubtitle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	// An orphan subtitle with no sibling video lands in skipped every pass.
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.LibraryDir, "orphan.srt"), "subtitle")

	ctx := context.Background()
	scanner := daemon.NewScanner(cfg, store, logging.NewNop())
	for i := 0; i < 3; i++ {
		if _, err := scanner.ScanOnce(ctx, false); err != nil {
			t.Fatalf("ScanOnce failed: %v", err)
		}
		item, err := store.ClaimNext(ctx)
		if err != nil {
			t.Fatalf("ClaimNext failed: %v", err)
		}
		if item == nil {
			t.Fatal("expected a claimed item")
		}
		item.Status = queue.StatusSkipped
		item.ErrorMessage = "no sibling video"
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one queue item after repeated scan cycles, got %d", len(items))
	}
}

func TestScanOnceLeavesFailedItemsAlone(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	subtitle := testsupport.MediaPair(t, cfg.Paths.LibraryDir, "movie", ".mkv")

	ctx := context.Background()
	item, err := store.Enqueue(ctx, subtitle)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	item.Status = queue.StatusFailed
	item.ErrorMessage = "ffsubsync exited 1"
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	scanner := daemon.NewScanner(cfg, store, logging.NewNop())
	enqueued, err := scanner.ScanOnce(ctx, false)
	if err != nil {
		t.Fatalf("ScanOnce failed: %v", err)
	}
	if enqueued != 0 {
		t.Fatalf("expected failed item to stay failed, enqueued %d", enqueued)
	}

	// A forced scan is the operator asking for another attempt.
	enqueued, err = scanner.ScanOnce(ctx, true)
	if err != nil {
		t.Fatalf("forced ScanOnce failed: %v", err)
	}
	if enqueued != 1 {
		t.Fatalf("expected forced scan to reschedule, got %d", enqueued)
	}

	requeued, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if requeued.Status != queue.StatusPending {
		t.Fatalf("expected pending after forced scan, got %q", requeued.Status)
	}
}

func TestScanOnceDeduplicatesAcrossRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.MediaPair(t, cfg.Paths.LibraryDir, "movie", ".mkv")

	scanner := daemon.NewScanner(cfg, store, logging.NewNop())
	if _, err := scanner.ScanOnce(context.Background(), false); err != nil {
		t.Fatalf("first ScanOnce failed: %v", err)
	}
	if _, err := scanner.ScanOnce(context.Background(), false); err != nil {
		t.Fatalf("second ScanOnce failed: %v", err)
	}

	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected a single queue item, got %d", len(items))
	}
}
