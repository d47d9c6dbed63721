// Package manager owns the proxy profile list and keeps it consistent
// with the operating system's single proxy setting.
package manager

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rennerdo30/proxy-toggle/internal/logging"
	"github.com/rennerdo30/proxy-toggle/internal/metrics"
	"github.com/rennerdo30/proxy-toggle/internal/profile"
	"github.com/rennerdo30/proxy-toggle/internal/sysproxy"
)

// Common error types for the state manager.
var (
	// ErrActivation wraps a system write failure during Activate or
	// Deactivate. The in-memory state is rolled back before it is
	// returned.
	ErrActivation = errors.New("proxy activation failed")
	// ErrIndexOutOfRange is returned for an unknown profile index.
	ErrIndexOutOfRange = errors.New("profile index out of range")
)

// Manager is the proxy profile state machine.
//
// Invariant: after any operation returns, at most one profile has
// Enabled set, and only when the OS reports that profile's server as
// the active system proxy. All operations are serialized by a single
// lock; the OS setting itself can still change between calls, which is
// what Refresh reconciles.
type Manager struct {
	mu       sync.Mutex
	profiles []profile.Profile
	store    *profile.Store
	sys      sysproxy.Manager
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithMetrics attaches a metrics instance.
func WithMetrics(m *metrics.Metrics) Option {
	return func(mgr *Manager) {
		mgr.metrics = m
	}
}

// New loads the profile list and reconciles it against the current
// system state before returning, so the first snapshot a renderer sees
// already reflects the OS. A read fault on the profiles file degrades
// to the built-in defaults with a logged warning.
func New(store *profile.Store, sys sysproxy.Manager, opts ...Option) (*Manager, error) {
	m := &Manager{
		store: store,
		sys:   sys,
		log:   logging.WithComponent("manager"),
	}
	for _, opt := range opts {
		opt(m)
	}

	profiles, err := store.Load()
	if err != nil {
		// A read fault on the profiles file must not take the tool
		// down; run on the built-in defaults and leave the file alone.
		m.log.Warn("failed to read profiles, using defaults", "path", store.Path(), "error", err)
		profiles = profile.Defaults()
	}
	m.profiles = profiles

	m.mu.Lock()
	m.refreshLocked()
	m.mu.Unlock()

	return m, nil
}

// Snapshot returns a copy of the current profile list.
func (m *Manager) Snapshot() []profile.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return profile.Clone(m.profiles)
}

// ActiveIndex returns the index of the enabled profile, or -1.
func (m *Manager) ActiveIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeIndexLocked()
}

// Refresh recomputes every profile's Enabled flag from the OS setting
// and returns the resulting snapshot. It never writes to the system or
// to storage. A system read failure degrades to "no active proxy".
func (m *Manager) Refresh() []profile.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshLocked()
	return profile.Clone(m.profiles)
}

// Activate toggles the profile at index. If the profile was inactive it
// becomes the single active one; if it was the active one the system
// proxy is disabled entirely. The system write happens first; only on
// success is the list persisted. On write failure all in-memory flags
// are rolled back and the returned error wraps ErrActivation.
func (m *Manager) Activate(index int) ([]profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.profiles) {
		return profile.Clone(m.profiles), fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	prev := profile.Clone(m.profiles)

	// Exclusivity first: clearing the other flags before the toggle is
	// what makes toggling the already-active profile land on all-off
	// instead of leaving stale flags behind.
	for i := range m.profiles {
		if i != index {
			m.profiles[i].Enabled = false
		}
	}
	m.profiles[index].Enabled = !m.profiles[index].Enabled

	var writeErr error
	if m.profiles[index].Enabled {
		writeErr = m.sys.Set(m.profiles[index].Server)
	} else {
		writeErr = m.sys.Clear()
	}
	if writeErr != nil {
		m.profiles = prev
		m.countActivation("error")
		m.log.Error("system proxy write failed", "profile", prev[index].Name, "error", writeErr)
		return profile.Clone(m.profiles), fmt.Errorf("%w: %w", ErrActivation, writeErr)
	}

	if m.profiles[index].Enabled {
		m.log.Info("proxy activated", "profile", m.profiles[index].Name, "server", m.profiles[index].Server)
	} else {
		m.log.Info("proxy deactivated", "profile", m.profiles[index].Name)
	}

	m.persistLocked()
	m.countActivation("success")
	m.updateGaugeLocked()

	return profile.Clone(m.profiles), nil
}

// Deactivate disables the system proxy and clears every Enabled flag.
// Same write-then-persist rules as Activate.
func (m *Manager) Deactivate() ([]profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := profile.Clone(m.profiles)
	for i := range m.profiles {
		m.profiles[i].Enabled = false
	}

	if err := m.sys.Clear(); err != nil {
		m.profiles = prev
		m.countActivation("error")
		m.log.Error("system proxy clear failed", "error", err)
		return profile.Clone(m.profiles), fmt.Errorf("%w: %w", ErrActivation, err)
	}

	m.log.Info("proxy deactivated")
	m.persistLocked()
	m.countActivation("success")
	m.updateGaugeLocked()

	return profile.Clone(m.profiles), nil
}

// refreshLocked reconciles the Enabled flags with the OS setting. The
// system value is compared to each profile's server by exact string
// equality; on duplicates the lowest index wins.
func (m *Manager) refreshLocked() {
	server, enabled, err := m.sys.Active()
	if err != nil {
		m.log.Warn("system proxy read failed, treating as disabled", "error", err)
		enabled = false
	}

	matched := false
	for i := range m.profiles {
		active := enabled && !matched && m.profiles[i].Server == server
		m.profiles[i].Enabled = active
		if active {
			matched = true
		}
	}

	if enabled && !matched {
		m.log.Debug("system proxy set to an unmanaged endpoint", "server", server)
	}

	if m.metrics != nil {
		m.metrics.RefreshesTotal.Inc()
	}
	m.updateGaugeLocked()
}

// persistLocked saves the profile list. The system is already switched
// at this point, so a failure only costs the saved state, not the
// change itself; it is surfaced as a warning.
func (m *Manager) persistLocked() {
	if err := m.store.Save(m.profiles); err != nil {
		m.log.Warn("failed to persist profiles", "path", m.store.Path(), "error", err)
		if m.metrics != nil {
			m.metrics.PersistFailuresTotal.Inc()
		}
	}
}

func (m *Manager) activeIndexLocked() int {
	for i := range m.profiles {
		if m.profiles[i].Enabled {
			return i
		}
	}
	return -1
}

func (m *Manager) countActivation(result string) {
	if m.metrics != nil {
		m.metrics.ActivationsTotal.WithLabelValues(result).Inc()
	}
}

func (m *Manager) updateGaugeLocked() {
	if m.metrics != nil {
		m.metrics.ActiveProfile.Set(float64(m.activeIndexLocked()))
	}
}
