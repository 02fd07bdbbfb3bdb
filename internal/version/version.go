// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Websocket frame stream with per-client rate limits, Prometheus metrics
// 0.2.0 - Bodies panel with per-body speed, light theme, quality levels, YAML catalogs
// 0.1.0 - Initial release: orbit updater, orrery view, loading sequence, JSON snapshots
