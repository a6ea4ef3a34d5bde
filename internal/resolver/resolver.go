package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"subsync/internal/media"
)

// Match describes a sibling video resolved for a subtitle file.
type Match struct {
	// VideoPath is the absolute path to the matched video file.
	VideoPath string
	// Language is the canonical language tag carried by the subtitle name,
	// empty when none was present.
	Language string
}

// Resolver locates the sibling video file for a subtitle using a configured
// extension allow-list and tie-break order.
type Resolver struct {
	videoExts media.ExtensionSet
	priority  []string
}

// New constructs a resolver. Extensions must be normalized (lowercase,
// leading dot); priority entries rank extensions ahead of sorted directory
// order when several candidates share the subtitle's base name.
func New(videoExtensions, extensionPriority []string) *Resolver {
	return &Resolver{
		videoExts: media.NewExtensionSet(videoExtensions),
		priority:  append([]string(nil), extensionPriority...),
	}
}

// Resolve returns the sibling video for subtitlePath, or nil when the
// directory holds no video sharing the subtitle's base name. Videos matching
// the subtitle's exact base name win over videos matching the
// language-stripped key ("movie.en.srt" pairs with "movie.en.mkv" before
// "movie.mkv"). The selection is deterministic across runs: within a tier,
// candidates are ranked by extension priority, then by sorted file name.
func (r *Resolver) Resolve(subtitlePath string) (*Match, error) {
	if !media.IsSubtitle(subtitlePath) {
		return nil, fmt.Errorf("resolve sibling: %q is not an %s file", subtitlePath, media.SubtitleExtension)
	}

	dir := filepath.Dir(subtitlePath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", dir, err)
	}

	exact := media.BaseName(subtitlePath)
	stripped, lang := media.SubtitleKey(subtitlePath)

	type candidate struct {
		name string
		// strippedMatch marks candidates paired only via the
		// language-stripped key, not the exact base name.
		strippedMatch bool
	}
	candidates := make([]candidate, 0, 2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !r.videoExts.Contains(name) {
			continue
		}
		switch media.BaseName(name) {
		case exact:
			candidates = append(candidates, candidate{name: name})
		case stripped:
			if stripped != exact {
				candidates = append(candidates, candidate{name: name, strippedMatch: true})
			}
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].strippedMatch != candidates[j].strippedMatch {
			return !candidates[i].strippedMatch
		}
		ri, rj := r.rank(candidates[i].name), r.rank(candidates[j].name)
		if ri != rj {
			return ri < rj
		}
		return candidates[i].name < candidates[j].name
	})

	return &Match{
		VideoPath: filepath.Join(dir, candidates[0].name),
		Language:  lang,
	}, nil
}

func (r *Resolver) rank(name string) int {
	ext := strings.ToLower(filepath.Ext(name))
	for i, preferred := range r.priority {
		if ext == preferred {
			return i
		}
	}
	return len(r.priority)
}
