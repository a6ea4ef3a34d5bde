// Package workflow drives queued subtitle sync tasks through the sync stage.
//
// The manager claims pending items one at a time, tags each run with a
// correlation ID, and persists the terminal status the stage or the error
// taxonomy dictates. Interrupted items are reclaimed on the next start.
package workflow
