// Package stager holds the files a user has attached to a not-yet-submitted
// project. Payloads live in memory; each staged entry owns exactly one
// preview file on disk for the lifetime of the entry. Removing an entry or
// clearing the stager releases its preview, so the number of live preview
// files always equals the number of staged entries. Purely local state, no
// network access.
package stager
