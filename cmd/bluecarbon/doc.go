// Command bluecarbon is the field client for a blue carbon restoration
// registry. It stages site imagery, captures snapshots from an attached
// camera, submits projects for analysis, drives the verifier review queue,
// and summarizes portfolio KPIs.
package main
