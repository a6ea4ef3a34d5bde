package media

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// SubtitleExtension is the only timed-text format ffsubsync rewrites in place.
const SubtitleExtension = ".srt"

// ExtensionSet answers membership queries for a normalized extension allow-list.
type ExtensionSet struct {
	order []string
	set   map[string]struct{}
}

// NewExtensionSet builds a set from already-normalized extensions (lowercase,
// leading dot), preserving order for deterministic iteration.
func NewExtensionSet(extensions []string) ExtensionSet {
	set := make(map[string]struct{}, len(extensions))
	order := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if _, ok := set[ext]; ok {
			continue
		}
		set[ext] = struct{}{}
		order = append(order, ext)
	}
	return ExtensionSet{order: order, set: set}
}

// Contains reports whether the file name's extension is in the set.
func (s ExtensionSet) Contains(name string) bool {
	_, ok := s.set[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Extensions returns the set contents in insertion order.
func (s ExtensionSet) Extensions() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// IsSubtitle reports whether the path names an SRT subtitle file.
func IsSubtitle(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SubtitleExtension)
}

// BaseName returns the file name with its extension stripped.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// SubtitleKey returns the base name used to match a subtitle against sibling
// videos. A trailing language tag is stripped, so "movie.en.srt" and
// "movie.pt-BR.srt" both match "movie.mkv". The second return value is the
// canonical tag when one was present.
func SubtitleKey(path string) (string, string) {
	base := BaseName(path)
	idx := strings.LastIndex(base, ".")
	if idx <= 0 || idx == len(base)-1 {
		return base, ""
	}
	suffix := base[idx+1:]
	tag, err := language.Parse(suffix)
	if err != nil {
		return base, ""
	}
	// language.Parse accepts bare digits and long words via extended tags;
	// only short alpha subtags are plausible subtitle language markers.
	if len(suffix) > 10 || !isAlphaTag(suffix) {
		return base, ""
	}
	return base[:idx], tag.String()
}

func isAlphaTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && r != '-' {
			return false
		}
	}
	return true
}
