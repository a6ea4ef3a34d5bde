// Package daemon runs the long-lived subsync process: a single-instance lock,
// the workflow manager processing the queue, and a periodic library scanner
// that enqueues unsynced subtitle files.
package daemon
