//go:build darwin

package sysproxy

import (
	"bufio"
	"fmt"
	"net"
	"os/exec"
	"strings"
)

type darwinManager struct{}

func newPlatformManager() Manager {
	return &darwinManager{}
}

func (m *darwinManager) Active() (string, bool, error) {
	services, err := listNetworkServices()
	if err != nil {
		return "", false, err
	}
	if len(services) == 0 {
		return "", false, nil
	}

	// All services are kept in lockstep by Set/Clear, so the first one
	// is representative.
	out, err := exec.Command("networksetup", "-getwebproxy", services[0]).Output()
	if err != nil {
		return "", false, fmt.Errorf("networksetup -getwebproxy: %w", err)
	}

	var enabled bool
	var host, port string
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := scanner.Text()
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Enabled":
			enabled = strings.EqualFold(value, "yes")
		case "Server":
			host = value
		case "Port":
			port = value
		}
	}

	if !enabled || host == "" {
		return "", false, nil
	}
	return net.JoinHostPort(host, port), true, nil
}

func (m *darwinManager) Set(server string) error {
	host, port, err := splitEndpoint(server)
	if err != nil {
		return err
	}

	services, err := listNetworkServices()
	if err != nil {
		return err
	}
	if len(services) == 0 {
		return fmt.Errorf("no active network services detected")
	}

	for _, svc := range services {
		if out, err := exec.Command("networksetup", "-setwebproxy", svc, host, port).CombinedOutput(); err != nil {
			return fmt.Errorf("set web proxy for %s: %w: %s", svc, err, strings.TrimSpace(string(out)))
		}
		if out, err := exec.Command("networksetup", "-setsecurewebproxy", svc, host, port).CombinedOutput(); err != nil {
			return fmt.Errorf("set secure web proxy for %s: %w: %s", svc, err, strings.TrimSpace(string(out)))
		}
	}
	return nil
}

func (m *darwinManager) Clear() error {
	services, err := listNetworkServices()
	if err != nil {
		return err
	}

	for _, svc := range services {
		if out, err := exec.Command("networksetup", "-setwebproxystate", svc, "off").CombinedOutput(); err != nil {
			return fmt.Errorf("clear web proxy for %s: %w: %s", svc, err, strings.TrimSpace(string(out)))
		}
		if out, err := exec.Command("networksetup", "-setsecurewebproxystate", svc, "off").CombinedOutput(); err != nil {
			return fmt.Errorf("clear secure web proxy for %s: %w: %s", svc, err, strings.TrimSpace(string(out)))
		}
	}
	return nil
}

// listNetworkServices returns the enabled network services reported by
// networksetup. Disabled services are prefixed with an asterisk and
// skipped.
func listNetworkServices() ([]string, error) {
	out, err := exec.Command("networksetup", "-listallnetworkservices").Output()
	if err != nil {
		return nil, fmt.Errorf("networksetup -listallnetworkservices: %w", err)
	}

	var services []string
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "An asterisk") || strings.HasPrefix(line, "*") {
			continue
		}
		services = append(services, line)
	}
	return services, nil
}
