//go:build windows

package sysproxy

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows/registry"
)

var (
	modwininet            = syscall.NewLazyDLL("wininet.dll")
	procInternetSetOption = modwininet.NewProc("InternetSetOptionW")
)

const (
	INTERNET_OPTION_SETTINGS_CHANGED = 39
	INTERNET_OPTION_REFRESH          = 37
)

const internetSettingsKey = `Software\Microsoft\Windows\CurrentVersion\Internet Settings`

type windowsManager struct{}

func newPlatformManager() Manager {
	return &windowsManager{}
}

func (m *windowsManager) Active() (string, bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, internetSettingsKey, registry.QUERY_VALUE)
	if err != nil {
		return "", false, fmt.Errorf("open registry key: %w", err)
	}
	defer k.Close()

	enable, _, err := k.GetIntegerValue("ProxyEnable")
	if err == registry.ErrNotExist {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read ProxyEnable: %w", err)
	}
	if enable == 0 {
		return "", false, nil
	}

	server, _, err := k.GetStringValue("ProxyServer")
	if err == registry.ErrNotExist {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read ProxyServer: %w", err)
	}

	return server, true, nil
}

func (m *windowsManager) Set(server string) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, internetSettingsKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open registry key: %w", err)
	}
	defer k.Close()

	if err := k.SetDWordValue("ProxyEnable", 1); err != nil {
		return fmt.Errorf("set ProxyEnable: %w", err)
	}

	if err := k.SetStringValue("ProxyServer", server); err != nil {
		return fmt.Errorf("set ProxyServer: %w", err)
	}

	notifySettingsChange()
	return nil
}

func (m *windowsManager) Clear() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, internetSettingsKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open registry key: %w", err)
	}
	defer k.Close()

	if err := k.SetDWordValue("ProxyEnable", 0); err != nil {
		return fmt.Errorf("set ProxyEnable: %w", err)
	}

	if err := k.SetStringValue("ProxyServer", ""); err != nil {
		return fmt.Errorf("set ProxyServer: %w", err)
	}

	notifySettingsChange()
	return nil
}

// notifySettingsChange tells WinINet consumers (browsers and other
// already-running clients) to re-read the proxy configuration. Without
// it the registry change is only picked up by new processes.
func notifySettingsChange() {
	// Errors are ignored, this is a best-effort broadcast.
	procInternetSetOption.Call(0, INTERNET_OPTION_SETTINGS_CHANGED, 0, 0)
	procInternetSetOption.Call(0, INTERNET_OPTION_REFRESH, 0, 0)
}
