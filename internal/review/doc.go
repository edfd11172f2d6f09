// Package review drives the verifier workflow: a full-replace queue of
// reviewable projects, case-insensitive filtering, draft comments persisted
// across restarts, and approve or reject decisions submitted to the registry.
//
// Filtering is a pure view over the loaded queue and never mutates it. Draft
// comments are keyed by project id in a small SQLite store so an interrupted
// session can resume with its notes intact. A failed decision leaves the
// queue and the draft comment untouched so the verifier can retry.
package review
