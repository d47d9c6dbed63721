package tray

import (
	"context"
	"log/slog"
	"time"

	"github.com/rennerdo30/proxy-toggle/internal/logging"
	"github.com/rennerdo30/proxy-toggle/internal/manager"
	"github.com/rennerdo30/proxy-toggle/internal/profile"
)

// Tray mirrors the profile list as a system tray menu. It renders only
// from manager snapshots; every click goes through the manager and the
// menu is redrawn from the returned snapshot, so a failed activation
// visibly snaps the checkmark back.
type Tray struct {
	manager      *manager.Manager
	refreshEvery time.Duration
	onQuit       func()
	adapter      SystrayAdapter
	log          *slog.Logger

	ctx          context.Context
	statusItem   MenuItem
	profileItems []MenuItem
}

// Config holds tray configuration.
type Config struct {
	Manager *manager.Manager
	// RefreshEvery is the interval for periodic reconciliation against
	// the OS setting. Zero disables the ticker.
	RefreshEvery time.Duration
	OnQuit       func()
}

// New creates a new system tray.
func New(cfg Config) *Tray {
	return NewWithAdapter(cfg, defaultAdapter)
}

// NewWithAdapter creates a new system tray with a custom adapter (for testing).
func NewWithAdapter(cfg Config, adapter SystrayAdapter) *Tray {
	return &Tray{
		manager:      cfg.Manager,
		refreshEvery: cfg.RefreshEvery,
		onQuit:       cfg.OnQuit,
		adapter:      adapter,
		log:          logging.WithComponent("tray"),
	}
}

// Run starts the system tray (blocks until the context is canceled or
// the user quits).
func (t *Tray) Run(ctx context.Context) {
	t.ctx = ctx
	t.adapter.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	t.adapter.SetTitle("Proxy Toggle")
	t.adapter.SetTooltip("Proxy Toggle")

	t.statusItem = t.adapter.AddMenuItem("Proxy off", "Current proxy state")
	t.statusItem.Disable()

	t.adapter.AddSeparator()

	snapshot := t.manager.Snapshot()
	t.profileItems = make([]MenuItem, len(snapshot))
	for i, p := range snapshot {
		t.profileItems[i] = t.adapter.AddCheckboxItem(p.Name, p.Server)
	}

	t.adapter.AddSeparator()

	mOff := t.adapter.AddMenuItem("Turn off proxy", "Disable the system proxy")
	mRefresh := t.adapter.AddMenuItem("Refresh", "Re-read the system proxy state")

	t.adapter.AddSeparator()

	mQuit := t.adapter.AddMenuItem("Quit", "Quit Proxy Toggle")

	t.render(snapshot)

	go t.loop(mOff, mRefresh, mQuit)
}

func (t *Tray) loop(mOff, mRefresh, mQuit MenuItem) {
	clicks := make(chan int)
	for i := range t.profileItems {
		go func(idx int, clicked <-chan struct{}) {
			for {
				select {
				case <-clicked:
					select {
					case clicks <- idx:
					case <-t.ctx.Done():
						return
					}
				case <-t.ctx.Done():
					return
				}
			}
		}(i, t.profileItems[i].Clicked())
	}

	var tick <-chan time.Time
	if t.refreshEvery > 0 {
		ticker := time.NewTicker(t.refreshEvery)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case idx := <-clicks:
			snapshot, err := t.manager.Activate(idx)
			if err != nil {
				t.log.Warn("activation failed", "index", idx, "error", err)
			}
			t.render(snapshot)

		case <-mOff.Clicked():
			snapshot, err := t.manager.Deactivate()
			if err != nil {
				t.log.Warn("deactivation failed", "error", err)
			}
			t.render(snapshot)

		case <-mRefresh.Clicked():
			t.render(t.manager.Refresh())

		case <-tick:
			t.render(t.manager.Refresh())

		case <-mQuit.Clicked():
			if t.onQuit != nil {
				t.onQuit()
			}
			t.adapter.Quit()
			return

		case <-t.ctx.Done():
			t.adapter.Quit()
			return
		}
	}
}

// render redraws the menu from a snapshot.
func (t *Tray) render(snapshot []profile.Profile) {
	active := -1
	for i, p := range snapshot {
		if i >= len(t.profileItems) {
			break
		}
		if p.Enabled {
			active = i
			t.profileItems[i].Check()
		} else {
			t.profileItems[i].Uncheck()
		}
	}

	if active >= 0 {
		t.statusItem.SetTitle("Active: " + snapshot[active].Name)
		t.adapter.SetIcon(iconActive)
		t.adapter.SetTooltip("Proxy Toggle - " + snapshot[active].Name)
	} else {
		t.statusItem.SetTitle("Proxy off")
		t.adapter.SetIcon(iconIdle)
		t.adapter.SetTooltip("Proxy Toggle")
	}
}

func (t *Tray) onExit() {
	// Cleanup
}

// Quit quits the system tray.
func (t *Tray) Quit() {
	t.adapter.Quit()
}
