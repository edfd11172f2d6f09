// Package registry implements the HTTP client for the external MRV registry
// and analysis service. It covers project creation, asset upload, analysis
// requests, verifier queues and decisions, admin settings, and the report and
// spatial catalog reads. Transport failures are classified with the sentinel
// errors from the services package; retry policy is left to the caller.
package registry
