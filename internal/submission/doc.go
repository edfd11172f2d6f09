// Package submission sequences the create, upload, and analyze steps that
// turn a filled-in form plus staged assets into a registered project.
//
// The three external calls run strictly in order. Create happens at most
// once per attempt; a failed upload never rolls the created project back and
// never blocks the analyze call. A file lock gates the whole sequence so a
// second submission cannot start while one is in flight.
package submission
