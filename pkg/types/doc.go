// Package types defines the manifest, tool, run, and configuration types
// shared across the venuekit launcher, along with the standard sentinel
// errors returned by the toolkit packages.
package types
