//go:build !windows && !darwin && !linux

package sysproxy

type noopManager struct{}

func newPlatformManager() Manager {
	return &noopManager{}
}

func (m *noopManager) Active() (string, bool, error) {
	return "", false, nil
}

func (m *noopManager) Set(server string) error {
	return ErrNotSupported
}

func (m *noopManager) Clear() error {
	return ErrNotSupported
}
