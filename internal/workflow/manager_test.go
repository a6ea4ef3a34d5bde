package workflow_test

import (
	"context"
	"testing"
	"time"

	"subsync/internal/config"
	"subsync/internal/logging"
	"subsync/internal/queue"
	"subsync/internal/services"
	"subsync/internal/stage"
	"subsync/internal/testsupport"
	"subsync/internal/workflow"
)

type scriptedStage struct {
	executeErr error
	executed   chan *queue.Item
}

func newScriptedStage(executeErr error) *scriptedStage {
	return &scriptedStage{executeErr: executeErr, executed: make(chan *queue.Item, 8)}
}

func (s *scriptedStage) Prepare(ctx context.Context, item *queue.Item) error { return nil }

func (s *scriptedStage) Execute(ctx context.Context, item *queue.Item) error {
	s.executed <- item
	if s.executeErr != nil {
		return s.executeErr
	}
	item.Status = queue.StatusSynced
	return nil
}

func (s *scriptedStage) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("scripted")
}

func fastConfig(t *testing.T) *config.Config {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 1
	return cfg
}

func waitForStatus(t *testing.T, store *queue.Store, id int64, want queue.Status) *queue.Item {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		item, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if item != nil && item.Status == want {
			return item
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("item %d never reached status %q", id, want)
	return nil
}

func TestManagerProcessesPendingItem(t *testing.T) {
	cfg := fastConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	st := newScriptedStage(nil)
	manager := workflow.NewManager(cfg, store, st, logging.NewNop())

	item, err := store.Enqueue(context.Background(), "/films/movie.srt")
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer manager.Stop()

	select {
	case got := <-st.executed:
		if got.ID != item.ID {
			t.Fatalf("executed wrong item: %d", got.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stage never executed")
	}

	waitForStatus(t, store, item.ID, queue.StatusSynced)
}

func TestManagerPersistsFailureStatus(t *testing.T) {
	cfg := fastConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	st := newScriptedStage(services.Wrap(services.ErrExternalTool, "sync", "invoke", "boom", nil))
	manager := workflow.NewManager(cfg, store, st, logging.NewNop())

	item, _ := store.Enqueue(context.Background(), "/films/movie.srt")

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer manager.Stop()

	failed := waitForStatus(t, store, item.ID, queue.StatusFailed)
	if failed.ErrorMessage == "" {
		t.Fatal("expected error message on failed item")
	}
}

func TestManagerStartIsExclusive(t *testing.T) {
	cfg := fastConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, newScriptedStage(nil), logging.NewNop())

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer manager.Stop()

	if err := manager.Start(context.Background()); err == nil {
		t.Fatal("expected second Start to fail")
	}
}

func TestManagerStartReclaimsInterruptedItems(t *testing.T) {
	cfg := fastConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	item, _ := store.Enqueue(context.Background(), "/films/movie.srt")
	if _, err := store.ClaimNext(context.Background()); err != nil {
		t.Fatalf("ClaimNext failed: %v", err)
	}

	st := newScriptedStage(nil)
	manager := workflow.NewManager(cfg, store, st, logging.NewNop())
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer manager.Stop()

	waitForStatus(t, store, item.ID, queue.StatusSynced)
}

func TestManagerStatusSnapshot(t *testing.T) {
	cfg := fastConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, newScriptedStage(nil), logging.NewNop())

	if manager.Status().Running {
		t.Fatal("expected not running before Start")
	}
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !manager.Status().Running {
		t.Fatal("expected running after Start")
	}
	manager.Stop()
	if manager.Status().Running {
		t.Fatal("expected not running after Stop")
	}
}
