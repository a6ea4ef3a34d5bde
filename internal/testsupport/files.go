package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and parent directories) with the given contents.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MediaPair creates a subtitle and sibling video file in dir and returns the
// subtitle path.
func MediaPair(t testing.TB, dir, base, videoExt string) string {
	t.Helper()

	WriteFile(t, filepath.Join(dir, base+videoExt), "video")
	subtitle := filepath.Join(dir, base+".srt")
	WriteFile(t, subtitle, "1\n00:00:01,000 --> 00:00:02,000\nhello\n")
	return subtitle
}
