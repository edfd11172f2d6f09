// Package services holds the failure taxonomy and context plumbing shared by
// components that talk to the external registry. Sentinel errors classify
// every failure the client can surface so orchestrating components recover at
// their boundary and turn failures into user-visible notifications without
// letting one failed step abort a later independent step.
package services
