// Package resolver pairs subtitle files with the sibling video whose audio
// track should serve as the timing reference.
//
// A match requires the same directory and the same base name (subtitle
// language suffixes stripped). When multiple video extensions share a base
// name the configured priority order breaks the tie, falling back to sorted
// directory order so the choice is stable across runs.
package resolver
