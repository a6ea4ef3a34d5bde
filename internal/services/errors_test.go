package services_test

import (
	"errors"
	"strings"
	"testing"

	"subsync/internal/queue"
	"subsync/internal/services"
)

func TestWrapTagsMarkerAndDetail(t *testing.T) {
	cause := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "sync", "invoke", "ffsubsync failed", cause)

	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	for _, fragment := range []string{"sync", "invoke", "ffsubsync failed"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "sync", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestFailureStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want queue.Status
	}{
		{"not found skips", services.Wrap(services.ErrNotFound, "sync", "resolve", "no sibling video", nil), queue.StatusSkipped},
		{"external tool fails", services.Wrap(services.ErrExternalTool, "sync", "invoke", "boom", nil), queue.StatusFailed},
		{"plain error fails", errors.New("boom"), queue.StatusFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.FailureStatus(tc.err); got != tc.want {
				t.Fatalf("FailureStatus(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
