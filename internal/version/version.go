// Package version carries build metadata injected at link time.
package version

import "fmt"

// Set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a human-readable version line.
func Info() string {
	return fmt.Sprintf("wikiquiz %s (commit %s, built %s)", Version, Commit, Date)
}
