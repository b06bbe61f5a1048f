// Package driving provides interfaces for application entry points
// (primary/inbound ports) consumed by the HTTP APIs, the CLI, and the
// inbox watcher.
package driving
