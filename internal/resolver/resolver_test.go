package resolver_test

import (
	"os"
	"path/filepath"
	"testing"

	"subsync/internal/resolver"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func newTestResolver() *resolver.Resolver {
	return resolver.New([]string{".mkv", ".mp4", ".avi"}, []string{".mkv", ".mp4"})
}

func TestResolveFindsSiblingVideo(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "movie.srt", "movie.mkv", "other.mkv")

	match, err := newTestResolver().Resolve(filepath.Join(dir, "movie.srt"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.VideoPath != filepath.Join(dir, "movie.mkv") {
		t.Fatalf("unexpected video: %q", match.VideoPath)
	}
}

func TestResolveReturnsNilWhenNoSibling(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "movie.srt", "different.mkv")

	match, err := newTestResolver().Resolve(filepath.Join(dir, "movie.srt"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match != nil {
		t.Fatalf("expected no match, got %q", match.VideoPath)
	}
}

func TestResolveHonorsExtensionPriority(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "movie.srt", "movie.avi", "movie.mp4", "movie.mkv")

	match, err := newTestResolver().Resolve(filepath.Join(dir, "movie.srt"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match == nil || match.VideoPath != filepath.Join(dir, "movie.mkv") {
		t.Fatalf("expected .mkv to win the tie-break, got %#v", match)
	}
}

func TestResolveFallsBackToSortedOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "movie.srt", "movie.webm", "movie.avi")

	r := resolver.New([]string{".avi", ".webm"}, nil)
	match, err := r.Resolve(filepath.Join(dir, "movie.srt"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match == nil || match.VideoPath != filepath.Join(dir, "movie.avi") {
		t.Fatalf("expected sorted order winner movie.avi, got %#v", match)
	}
}

func TestResolveStripsLanguageSuffix(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "movie.en.srt", "movie.mkv")

	match, err := newTestResolver().Resolve(filepath.Join(dir, "movie.en.srt"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match for language-suffixed subtitle")
	}
	if match.Language != "en" {
		t.Fatalf("unexpected language: %q", match.Language)
	}
}

func TestResolveMatchesVideoWithLanguageSuffix(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "movie.en.srt", "movie.en.mkv")

	match, err := newTestResolver().Resolve(filepath.Join(dir, "movie.en.srt"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match for the suffixed sibling video")
	}
	if match.VideoPath != filepath.Join(dir, "movie.en.mkv") {
		t.Fatalf("unexpected video: %q", match.VideoPath)
	}
	if match.Language != "en" {
		t.Fatalf("unexpected language: %q", match.Language)
	}
}

func TestResolvePrefersExactBaseOverStrippedKey(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "movie.en.srt", "movie.en.mp4", "movie.mkv")

	match, err := newTestResolver().Resolve(filepath.Join(dir, "movie.en.srt"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match == nil || match.VideoPath != filepath.Join(dir, "movie.en.mp4") {
		t.Fatalf("expected the exact base name to win over extension priority, got %#v", match)
	}
}

func TestResolveIgnoresNonVideoAndDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "movie.srt", "movie.nfo", "movie.jpg")
	if err := os.Mkdir(filepath.Join(dir, "movie.mkv"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	match, err := newTestResolver().Resolve(filepath.Join(dir, "movie.srt"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match != nil {
		t.Fatalf("expected no match, got %q", match.VideoPath)
	}
}

func TestResolvePropagatesDirectoryErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone", "movie.srt")
	if _, err := newTestResolver().Resolve(missing); err == nil {
		t.Fatal("expected error for unreadable directory")
	}
}

func TestResolveRejectsNonSubtitleInput(t *testing.T) {
	if _, err := newTestResolver().Resolve("/films/movie.mkv"); err == nil {
		t.Fatal("expected error for non-subtitle input")
	}
}
