//go:build !windows

package platform

import (
	"github.com/gen2brain/beeep"
)

// NotificationPopup shows responses as desktop notifications where no native
// popup window is implemented
type NotificationPopup struct {
	notify func(title, message string) error
}

// NewPopup creates a popup presenter. Window placement options do not apply
// to notifications.
func NewPopup(PopupOptions) Popup {
	return &NotificationPopup{
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Show displays text as a notification. An empty text is a no-op.
func (p *NotificationPopup) Show(text string) error {
	if text == "" {
		return nil
	}
	return p.notify("Response", text)
}
