package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subsync/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.LibraryDir != filepath.Join(tempHome, "library") {
		t.Fatalf("unexpected library dir: %q", cfg.Paths.LibraryDir)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "subsync", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Sync.OutputPolicy != config.OutputPolicyInPlace {
		t.Fatalf("unexpected default output policy: %q", cfg.Sync.OutputPolicy)
	}
	if !cfg.Sync.GoldenSection {
		t.Fatal("expected golden-section search enabled by default")
	}
	if cfg.FFSubsyncBinary() != "ffsubsync" {
		t.Fatalf("unexpected default binary: %q", cfg.FFSubsyncBinary())
	}
	if len(cfg.Sync.VideoExtensions) == 0 {
		t.Fatal("expected default video extensions")
	}
	if cfg.Workflow.QueuePollInterval != config.Default().Workflow.QueuePollInterval {
		t.Fatalf("unexpected poll interval: %d", cfg.Workflow.QueuePollInterval)
	}
}

func TestLoadParsesFileAndNormalizesExtensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := strings.Join([]string{
		"[paths]",
		`library_dir = "` + filepath.Join(dir, "media") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[sync]",
		`video_extensions = ["MKV", ".mp4", "mp4", ""]`,
		`extension_priority = ["mp4"]`,
		`output_policy = "SUFFIX"`,
		"[logging]",
		`level = "debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}

	want := []string{".mkv", ".mp4"}
	if len(cfg.Sync.VideoExtensions) != len(want) {
		t.Fatalf("unexpected extensions: %v", cfg.Sync.VideoExtensions)
	}
	for i, ext := range want {
		if cfg.Sync.VideoExtensions[i] != ext {
			t.Fatalf("unexpected extensions: %v", cfg.Sync.VideoExtensions)
		}
	}
	if cfg.Sync.OutputPolicy != config.OutputPolicySuffix {
		t.Fatalf("unexpected output policy: %q", cfg.Sync.OutputPolicy)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level: %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsUnknownOutputPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[sync]\noutput_policy = \"sideways\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown output policy")
	}
}

func TestLoadRejectsPriorityOutsideAllowList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := "[sync]\nvideo_extensions = [\".mkv\"]\nextension_priority = [\".mp4\"]\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for priority entry outside allow-list")
	}
}

func TestSampleConfigMentionsEverySection(t *testing.T) {
	sample := config.SampleConfig()
	for _, section := range []string{"[paths]", "[sync]", "[workflow]", "[logging]"} {
		if !strings.Contains(sample, section) {
			t.Fatalf("sample config missing %s", section)
		}
	}
}
