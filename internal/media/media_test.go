package media_test

import (
	"testing"

	"subsync/internal/media"
)

func TestExtensionSetContains(t *testing.T) {
	set := media.NewExtensionSet([]string{".mkv", ".mp4"})

	if !set.Contains("movie.mkv") {
		t.Fatal("expected .mkv to match")
	}
	if !set.Contains("MOVIE.MKV") {
		t.Fatal("expected match to ignore case")
	}
	if set.Contains("movie.srt") {
		t.Fatal("expected .srt to be excluded")
	}
	if set.Contains("movie") {
		t.Fatal("expected extensionless name to be excluded")
	}
}

func TestIsSubtitle(t *testing.T) {
	if !media.IsSubtitle("/films/movie.srt") {
		t.Fatal("expected .srt to be a subtitle")
	}
	if !media.IsSubtitle("movie.SRT") {
		t.Fatal("expected case-insensitive match")
	}
	if media.IsSubtitle("movie.sub") {
		t.Fatal("expected .sub to be rejected")
	}
}

func TestSubtitleKey(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		wantBase string
		wantLang string
	}{
		{"plain", "/films/movie.srt", "movie", ""},
		{"language suffix", "/films/movie.en.srt", "movie", "en"},
		{"regional tag", "/films/movie.pt-BR.srt", "movie", "pt-BR"},
		{"dotted title", "/films/2001.A.Space.Odyssey.srt", "2001.A.Space.Odyssey", ""},
		{"non-language suffix", "/films/movie.synced.srt", "movie.synced", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base, lang := media.SubtitleKey(tc.path)
			if base != tc.wantBase || lang != tc.wantLang {
				t.Fatalf("SubtitleKey(%q) = (%q, %q), want (%q, %q)",
					tc.path, base, lang, tc.wantBase, tc.wantLang)
			}
		})
	}
}
