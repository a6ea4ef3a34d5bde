// Package syncer performs the per-subtitle synchronization flow: resolve the
// sibling video, invoke the external synchronizer on the pair, and record the
// result in the sync ledger.
//
// A subtitle without a sibling video is a normal skipped outcome, not an
// error; no subprocess is launched and no file is touched.
package syncer
