package platform

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported is returned by adapters that have no implementation on this OS
var ErrUnsupported = errors.New("not supported on this platform")

// EventKind distinguishes keyboard from mouse input
type EventKind int

const (
	KeyPress EventKind = iota
	MousePress
)

// MouseButton identifies a mouse button
type MouseButton int

const (
	NoButton MouseButton = iota
	LeftButton
	RightButton
	MiddleButton
)

// Event is a single global input event
type Event struct {
	Kind   EventKind
	Key    string // normalized key name, set for KeyPress
	Button MouseButton
}

// Input provides global keyboard and mouse events
type Input interface {
	Listen(ctx context.Context) (<-chan Event, error)
}

// Clipboard provides clipboard access
type Clipboard interface {
	Get() (string, error)
}

// Copier simulates a copy (Ctrl+C) in the foreground window
type Copier interface {
	Copy() error
}

// Popup displays text in a short-lived topmost window.
// Show blocks until the window is gone.
type Popup interface {
	Show(text string) error
}

// PopupOptions configures how a popup is displayed
type PopupOptions struct {
	Alpha    float64
	Duration time.Duration
	X, Y     int
}

// Notifier sends desktop notifications
type Notifier interface {
	Notify(title, message string) error
}

// Process is one entry of the OS process table
type Process struct {
	PID  int
	PPID int
	Name string // executable file name
}

// ProcessLister enumerates running processes. Entries that vanish or deny
// access while scanning are skipped.
type ProcessLister interface {
	Processes() ([]Process, error)
}
