// Package services defines the shared error taxonomy and context plumbing for
// subsync's external collaborators.
//
// Stage code wraps failures with sentinel markers (external tool, validation,
// configuration, not-found, transient) so the workflow manager can map them to
// terminal queue statuses without string matching. Context helpers carry queue
// item IDs, stage names, and run IDs for log correlation.
package services
