//go:build !cgo

// Package tray provides the system tray menu for Proxy Toggle.
package tray

import "log/slog"

// MenuItem represents a menu item interface for abstraction.
type MenuItem interface {
	SetTitle(title string)
	SetTooltip(tooltip string)
	Check()
	Uncheck()
	Enable()
	Disable()
	Clicked() <-chan struct{}
}

// SystrayAdapter provides an interface for systray operations.
// This allows mocking the systray package for testing.
type SystrayAdapter interface {
	Run(onReady func(), onExit func())
	SetIcon(iconBytes []byte)
	SetTitle(title string)
	SetTooltip(tooltip string)
	AddMenuItem(title string, tooltip string) MenuItem
	AddCheckboxItem(title string, tooltip string) MenuItem
	AddSeparator()
	Quit()
}

// noopMenuItem is a no-op menu item for builds without CGo.
type noopMenuItem struct {
	clickCh chan struct{}
}

func (m *noopMenuItem) SetTitle(_ string)        {}
func (m *noopMenuItem) SetTooltip(_ string)      {}
func (m *noopMenuItem) Check()                   {}
func (m *noopMenuItem) Uncheck()                 {}
func (m *noopMenuItem) Enable()                  {}
func (m *noopMenuItem) Disable()                 {}
func (m *noopMenuItem) Clicked() <-chan struct{} { return m.clickCh }

// noopSystrayAdapter is a no-op adapter used when CGo is not available.
type noopSystrayAdapter struct{}

func (a *noopSystrayAdapter) Run(onReady func(), _ func()) {
	slog.Warn("system tray not available (built without CGo)")
	onReady()
}

func (a *noopSystrayAdapter) SetIcon(_ []byte)   {}
func (a *noopSystrayAdapter) SetTitle(_ string)  {}
func (a *noopSystrayAdapter) SetTooltip(_ string) {}
func (a *noopSystrayAdapter) AddMenuItem(_, _ string) MenuItem {
	return &noopMenuItem{clickCh: make(chan struct{})}
}
func (a *noopSystrayAdapter) AddCheckboxItem(_, _ string) MenuItem {
	return &noopMenuItem{clickCh: make(chan struct{})}
}
func (a *noopSystrayAdapter) AddSeparator() {}
func (a *noopSystrayAdapter) Quit()         {}

// defaultAdapter is the no-op systray adapter for non-CGo builds.
var defaultAdapter SystrayAdapter = &noopSystrayAdapter{}
