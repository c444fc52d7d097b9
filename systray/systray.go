package systray

import (
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
)

// Controller is the part of the agent driven from the tray menu
type Controller interface {
	Toggle() bool
	ShowLast()
	Paused() bool
}

// Manager manages the system tray icon and menu
type Manager struct {
	ctrl     Controller
	iconData []byte

	quit     chan struct{}
	quitOnce sync.Once
	ready    chan struct{}
	stopOnce sync.Once

	mu     sync.Mutex
	mPause *systray.MenuItem
}

// NewManager creates a new systray manager
func NewManager(ctrl Controller, iconData []byte) *Manager {
	return &Manager{
		ctrl:     ctrl,
		iconData: iconData,
		quit:     make(chan struct{}),
		ready:    make(chan struct{}),
	}
}

// Run starts the system tray (blocking call)
func (m *Manager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray. It is safe to call before Run and more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		go func() {
			<-m.ready
			systray.Quit()
		}()
	})
}

// WaitForQuit returns a channel that will be closed when user clicks Quit
func (m *Manager) WaitForQuit() <-chan struct{} {
	return m.quit
}

// SetPaused updates the menu and tooltip to reflect the pause state
func (m *Manager) SetPaused(paused bool) {
	m.mu.Lock()
	item := m.mPause
	m.mu.Unlock()
	if item == nil {
		return
	}

	title, tooltip := pauseLabels(paused)
	item.SetTitle(title)
	item.SetTooltip(tooltip)
	systray.SetTooltip(statusTooltip(paused))
}

// onReady is called when the systray is ready
func (m *Manager) onReady() {
	if len(m.iconData) > 0 {
		systray.SetIcon(m.iconData)
	}

	paused := m.ctrl.Paused()
	systray.SetTitle("Joker")
	systray.SetTooltip(statusTooltip(paused))

	title, tooltip := pauseLabels(paused)
	mPause := systray.AddMenuItem(title, tooltip)
	mShow := systray.AddMenuItem("Show last response", "Show the last response again")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit Joker")

	m.mu.Lock()
	m.mPause = mPause
	m.mu.Unlock()
	close(m.ready)

	// Handle menu clicks
	go func() {
		for {
			select {
			case <-mPause.ClickedCh:
				m.SetPaused(m.ctrl.Toggle())
			case <-mShow.ClickedCh:
				go m.ctrl.ShowLast()
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				m.quitOnce.Do(func() { close(m.quit) })
				m.Stop()
				return
			}
		}
	}()
}

// onExit is called when the systray is exiting
func (m *Manager) onExit() {
	slog.Info("System tray exited")
}

func pauseLabels(paused bool) (title, tooltip string) {
	if paused {
		return "Resume", "Resume listening for hotkeys"
	}
	return "Pause", "Ignore hotkeys until resumed"
}

func statusTooltip(paused bool) string {
	if paused {
		return "Joker - Paused"
	}
	return "Joker - Active"
}
