// Package ffsubsync wraps the external ffsubsync tool that performs the
// actual audio-to-subtitle alignment.
//
// The client shells out with the video as the timing reference and the
// subtitle as both input and output target, waits for completion, and maps
// missing-binary and non-zero-exit failures onto the services error taxonomy.
// An injectable command runner keeps tests free of real subprocesses.
package ffsubsync
