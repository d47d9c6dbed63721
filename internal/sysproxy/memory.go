package sysproxy

import "sync"

// Memory is an in-memory Manager used in tests as a stand-in for the
// OS boundary. It supports injecting read and write faults and tracks
// how many writes were performed.
type Memory struct {
	mu       sync.Mutex
	server   string
	enabled  bool
	readErr  error
	writeErr error
	writes   int
}

// NewMemory returns a Memory manager with proxying disabled.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Active() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return "", false, m.readErr
	}
	if !m.enabled {
		return "", false, nil
	}
	return m.server, true, nil
}

func (m *Memory) Set(server string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.server = server
	m.enabled = true
	m.writes++
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.server = ""
	m.enabled = false
	m.writes++
	return nil
}

// SetExternal simulates another process changing the system proxy.
func (m *Memory) SetExternal(server string, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.server = server
	m.enabled = enabled
}

// FailReads makes subsequent Active calls return err. Pass nil to heal.
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWrites makes subsequent Set/Clear calls return err. Pass nil to heal.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Writes returns the number of successful Set and Clear calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
