// Package venuekit exposes launcher-wide metadata.
package venuekit

// Version is the launcher version, set at release time.
const Version = "0.3.0"
