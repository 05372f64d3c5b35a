// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - HTTP API with Prometheus metrics, HYG catalogue loading
// 0.2.0 - Time acceleration, positions and events views
// 0.1.0 - Initial release: stereographic sky view, Sun, Moon, planets and bright stars
