//go:build linux

package sysproxy

import (
	"fmt"
	"net"
	"os/exec"
	"strings"
)

// linuxManager drives the GNOME proxy settings via gsettings, which is
// what most desktop applications on Linux honor.
type linuxManager struct{}

func newPlatformManager() Manager {
	return &linuxManager{}
}

func (m *linuxManager) Active() (string, bool, error) {
	mode, err := gsettingsGet("org.gnome.system.proxy", "mode")
	if err != nil {
		return "", false, err
	}
	if mode != "manual" {
		return "", false, nil
	}

	host, err := gsettingsGet("org.gnome.system.proxy.http", "host")
	if err != nil {
		return "", false, err
	}
	port, err := gsettingsGet("org.gnome.system.proxy.http", "port")
	if err != nil {
		return "", false, err
	}
	if host == "" {
		return "", false, nil
	}

	return net.JoinHostPort(host, port), true, nil
}

func (m *linuxManager) Set(server string) error {
	host, port, err := splitEndpoint(server)
	if err != nil {
		return err
	}

	settings := [][]string{
		{"org.gnome.system.proxy", "mode", "manual"},
		{"org.gnome.system.proxy.http", "host", host},
		{"org.gnome.system.proxy.http", "port", port},
		{"org.gnome.system.proxy.https", "host", host},
		{"org.gnome.system.proxy.https", "port", port},
	}
	for _, s := range settings {
		if out, err := exec.Command("gsettings", "set", s[0], s[1], s[2]).CombinedOutput(); err != nil {
			return fmt.Errorf("gsettings set %s %s: %w: %s", s[0], s[1], err, strings.TrimSpace(string(out)))
		}
	}
	return nil
}

func (m *linuxManager) Clear() error {
	if out, err := exec.Command("gsettings", "set", "org.gnome.system.proxy", "mode", "none").CombinedOutput(); err != nil {
		return fmt.Errorf("gsettings set mode none: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// gsettingsGet returns a gsettings value with GVariant quoting stripped.
func gsettingsGet(schema, key string) (string, error) {
	out, err := exec.Command("gsettings", "get", schema, key).Output()
	if err != nil {
		return "", fmt.Errorf("gsettings get %s %s: %w", schema, key, err)
	}
	value := strings.TrimSpace(string(out))
	value = strings.Trim(value, "'")
	return value, nil
}
