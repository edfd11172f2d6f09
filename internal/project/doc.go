// Package project defines the registry-owned data model shared across the
// client: projects, plantation details, review statuses, and admin settings.
//
// Status values are authoritative on the registry side. The client only reads
// them and requests transitions through verifier decisions; nothing in this
// package (or its consumers) flips a status locally.
package project
