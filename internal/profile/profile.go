// Package profile provides persistence for the user's proxy profiles.
package profile

import (
	"errors"
	"os"
	"path/filepath"
)

// Profile is one named proxy configuration the user can switch to.
type Profile struct {
	Name string `json:"name"`
	// Server is passed to the OS verbatim and compared back by exact
	// string equality. On Windows any registry-accepted form works; on
	// macOS and Linux the system tools report back bare host:port, so
	// profiles written as host:port reconcile exactly there while a
	// scheme-prefixed value reads back as unmanaged.
	Server string `json:"server"`
	// Enabled mirrors whether this profile is the active system proxy.
	// The value stored on disk is advisory only; it is recomputed from
	// the OS on every reconciliation.
	Enabled bool `json:"enabled"`
}

// Common error types for the profile store.
var (
	ErrRead  = errors.New("profile config read failed")
	ErrWrite = errors.New("profile config write failed")
)

// DefaultFileName is the profiles file created in the user's home directory.
const DefaultFileName = ".proxy_widget_config.json"

// DefaultPath returns the default per-user profiles file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultFileName), nil
}

// Defaults returns the built-in profile list seeded on first run.
func Defaults() []Profile {
	return []Profile{
		{
			Name:   "Office Proxy",
			Server: "http://proxy-example.corp.com:912",
		},
		{
			Name:   "VPN Proxy",
			Server: "http://vpn-proxy.example.com:8080",
		},
	}
}

// Clone returns a copy of the profile list safe to hand to renderers.
func Clone(profiles []Profile) []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}
