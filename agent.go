package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"albadit/joker/config"
	"albadit/joker/generate"
	"albadit/joker/platform"
)

// Action is what a single input event asks the agent to do
type Action int

const (
	ActionNone Action = iota
	ActionPause
	ActionResume
	ActionPop
	ActionRepop
	ActionCopy
)

func (a Action) String() string {
	switch a {
	case ActionPause:
		return "pause"
	case ActionResume:
		return "resume"
	case ActionPop:
		return "pop"
	case ActionRepop:
		return "repop"
	case ActionCopy:
		return "copy"
	default:
		return "none"
	}
}

// session is the mutable state shared by event handlers
type session struct {
	mu     sync.Mutex
	latest string
	paused bool
}

func (s *session) toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	return s.paused
}

func (s *session) isPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *session) latestResponse() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *session) setLatest(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = text
}

// Agent maps global key and mouse events to pause, generate and re-show actions
type Agent struct {
	cfg            *config.Config
	keyExit        string
	keyPop         string
	keyRepop       string
	rightClickCopy bool

	input     platform.Input
	clipboard platform.Clipboard
	copier    platform.Copier
	popup     platform.Popup
	notifier  platform.Notifier
	provider  generate.Provider

	state session

	mu            sync.Mutex
	onPauseChange func(paused bool)
}

// agentDeps are the OS and network collaborators of an Agent
type agentDeps struct {
	input     platform.Input
	clipboard platform.Clipboard
	copier    platform.Copier
	popup     platform.Popup
	notifier  platform.Notifier
	provider  generate.Provider
}

// NewAgent creates a new agent instance
func NewAgent(cfg *config.Config) (*Agent, error) {
	provider, err := generate.NewProvider(cfg.OpenAI)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	clipboard, err := platform.NewClipboard()
	if err != nil {
		return nil, err
	}

	var copier platform.Copier
	if cfg.Key.RightClickCopy {
		copier, err = platform.NewCopier()
		if err != nil {
			slog.Warn("Right-click copy disabled", "error", err)
		}
	}

	x, y, err := config.ParsePosition(cfg.Window.Position)
	if err != nil {
		return nil, err
	}

	return newAgent(cfg, agentDeps{
		input:     platform.NewInput(),
		clipboard: clipboard,
		copier:    copier,
		popup: platform.NewPopup(platform.PopupOptions{
			Alpha:    cfg.Window.Alpha,
			Duration: cfg.Window.DisplayDuration(),
			X:        x,
			Y:        y,
		}),
		notifier: platform.NewNotifier(),
		provider: provider,
	}), nil
}

func newAgent(cfg *config.Config, deps agentDeps) *Agent {
	a := &Agent{
		cfg:            cfg,
		keyExit:        platform.NormalizeKey(cfg.Key.Exit),
		keyPop:         platform.NormalizeKey(cfg.Key.Pop),
		keyRepop:       platform.NormalizeKey(cfg.Key.Repop),
		rightClickCopy: cfg.Key.RightClickCopy && deps.copier != nil,
		input:          deps.input,
		clipboard:      deps.clipboard,
		copier:         deps.copier,
		popup:          deps.popup,
		notifier:       deps.notifier,
		provider:       deps.provider,
	}
	a.state.paused = cfg.Key.StartPaused
	return a
}

// OnPauseChange registers fn to be called after every pause toggle
func (a *Agent) OnPauseChange(fn func(paused bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onPauseChange = fn
}

// Paused reports whether pop and repop are currently ignored
func (a *Agent) Paused() bool {
	return a.state.isPaused()
}

// Latest returns the last response shown by a pop
func (a *Agent) Latest() string {
	return a.state.latestResponse()
}

// Run starts the agent's main event loop
func (a *Agent) Run(ctx context.Context) error {
	events, err := a.input.Listen(ctx)
	if err != nil {
		return fmt.Errorf("failed to start input listener: %w", err)
	}

	slog.Info("Joker started",
		"key_exit", a.keyExit,
		"key_pop", a.keyPop,
		"key_repop", a.keyRepop,
		"provider", a.provider.Name(),
		"paused", a.Paused(),
	)

	// Main event loop
	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-events:
			if !ok {
				return nil
			}
			action := a.Dispatch(evt)
			if action == ActionNone {
				continue
			}

			// Pop and repop block on the network and the popup
			go a.Perform(ctx, action)
		}
	}
}

// Dispatch maps an input event to an action. Toggling is applied here so the
// pause state changes exactly once per event, in event order, and the
// returned action carries the state it produced.
func (a *Agent) Dispatch(evt platform.Event) Action {
	switch evt.Kind {
	case platform.KeyPress:
		switch {
		case evt.Key == a.keyExit:
			if a.state.toggle() {
				return ActionPause
			}
			return ActionResume
		case a.Paused():
			return ActionNone
		case evt.Key == a.keyPop:
			return ActionPop
		case evt.Key == a.keyRepop:
			return ActionRepop
		}

	case platform.MousePress:
		if evt.Button == platform.RightButton && a.rightClickCopy && !a.Paused() {
			return ActionCopy
		}
	}

	return ActionNone
}

// Perform carries out an action returned by Dispatch
func (a *Agent) Perform(ctx context.Context, action Action) {
	switch action {
	case ActionPause:
		a.announcePause(true)
	case ActionResume:
		a.announcePause(false)
	case ActionPop:
		a.pop(ctx)
	case ActionRepop:
		a.repop()
	case ActionCopy:
		if err := a.copier.Copy(); err != nil {
			slog.Error("Failed to copy selection", "error", err)
		}
	}
}

// Toggle flips the pause state outside of the hotkey path (tray menu)
func (a *Agent) Toggle() bool {
	paused := a.state.toggle()
	a.announcePause(paused)
	return paused
}

// ShowLast shows the last response again regardless of pause state
func (a *Agent) ShowLast() {
	a.repop()
}

func (a *Agent) pop(ctx context.Context) {
	text, err := a.clipboard.Get()
	if err != nil {
		slog.Error("Failed to read clipboard", "error", err)
		return
	}
	if text == "" {
		slog.Info("No text in clipboard")
		return
	}

	requestID := uuid.NewString()
	slog.Info("Processing", "request_id", requestID, "text", preview(text, 50))

	reply, err := a.provider.Generate(ctx, text)
	if err != nil {
		slog.Error("Generation failed", "request_id", requestID, "error", err)
	}
	response := generate.Display(reply, err)

	a.state.setLatest(response)
	a.show(response)
}

func (a *Agent) repop() {
	latest := a.state.latestResponse()
	if latest == "" {
		slog.Info("No previous response to display")
		return
	}
	a.show(latest)
}

func (a *Agent) show(text string) {
	if text == "" {
		slog.Info("Empty response, nothing to display")
		return
	}
	if err := a.popup.Show(text); err != nil {
		slog.Error("Failed to show popup", "error", err)
	}
}

func (a *Agent) announcePause(paused bool) {
	status := "Active"
	if paused {
		status = "Paused"
	}
	slog.Info(status)

	a.mu.Lock()
	fn := a.onPauseChange
	a.mu.Unlock()
	if fn != nil {
		fn(paused)
	}

	if a.cfg.Window.Notify && a.notifier != nil {
		if err := a.notifier.Notify("Joker", status); err != nil {
			slog.Warn("Failed to send notification", "error", err)
		}
	}
}

// preview truncates s to n runes for logging
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
