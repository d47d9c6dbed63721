// Package sysproxy manages the operating system's proxy setting.
package sysproxy

import (
	"fmt"
)

// Manager reads and writes the system-wide proxy configuration.
//
// The OS setting is a single global (enabled, server) pair that other
// processes may change at any time; callers must treat Active as the
// source of truth and reconcile against it.
type Manager interface {
	// Active returns the currently configured proxy server and whether
	// proxying is enabled. When proxying is disabled the server string
	// is empty.
	Active() (server string, enabled bool, err error)
	// Set enables the system proxy with the given server and notifies
	// running applications that the setting changed.
	Set(server string) error
	// Clear disables the system proxy, clears the stored server string
	// and notifies running applications.
	Clear() error
}

// New returns a system proxy manager for the current platform.
func New() Manager {
	return newPlatformManager()
}

// ErrNotSupported is returned when the platform does not support system proxy configuration.
var ErrNotSupported = fmt.Errorf("system proxy configuration not supported on this platform")
