package testsupport

import (
	"testing"

	"subsync/internal/config"
	"subsync/internal/queue"
)

// MustOpenStore opens the queue database for the config, failing the test on
// error and closing the store during cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("open queue store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
