package syncer_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"subsync/internal/logging"
	"subsync/internal/queue"
	"subsync/internal/syncer"
	"subsync/internal/testsupport"
)

func TestStageExecuteMarksSynced(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := t.TempDir()
	subtitle := testsupport.MediaPair(t, dir, "movie", ".mkv")

	var runs []fakeRun
	service := newService(t, cfg, store, &runs, nil)
	st := syncer.NewStage(store, service, logging.NewNop())

	item, err := store.Enqueue(context.Background(), subtitle)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := st.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.Status != queue.StatusSynced {
		t.Fatalf("unexpected status: %q", item.Status)
	}
	if item.VideoPath == "" {
		t.Fatal("expected video path on item")
	}
}

func TestStageExecuteMarksSkippedWithoutSibling(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := t.TempDir()
	subtitle := dir + "/lonely.srt"
	testsupport.WriteFile(t, subtitle, "subtitle")

	var runs []fakeRun
	service := newService(t, cfg, store, &runs, nil)
	st := syncer.NewStage(store, service, logging.NewNop())

	item, _ := store.Enqueue(context.Background(), subtitle)
	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.Status != queue.StatusSkipped {
		t.Fatalf("unexpected status: %q", item.Status)
	}
	if len(runs) != 0 {
		t.Fatal("expected no invocation for skipped item")
	}
}

func TestStageExecutePropagatesToolFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := t.TempDir()
	subtitle := testsupport.MediaPair(t, dir, "movie", ".mkv")

	var runs []fakeRun
	service := newService(t, cfg, store, &runs, errors.New("exit status 2"))
	st := syncer.NewStage(store, service, logging.NewNop())

	item, _ := store.Enqueue(context.Background(), subtitle)
	if err := st.Execute(context.Background(), item); err == nil {
		t.Fatal("expected error from failed tool")
	}
}

func TestStageHealthCheckReflectsBinaryAvailability(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	var runs []fakeRun
	service := newService(t, cfg, store, &runs, nil)
	st := syncer.NewStage(store, service, logging.NewNop())

	if health := st.HealthCheck(context.Background()); !health.Ready {
		t.Fatalf("expected healthy stage, got %#v", health)
	}

	service.Client().WithLookPath(func(string) (string, error) { return "", exec.ErrNotFound })
	if health := st.HealthCheck(context.Background()); health.Ready {
		t.Fatal("expected unhealthy stage when binary missing")
	}
}
