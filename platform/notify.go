package platform

import (
	"github.com/gen2brain/beeep"
)

// DesktopNotifier shows OS toast notifications
type DesktopNotifier struct{}

// NewNotifier creates a desktop notifier
func NewNotifier() Notifier {
	return DesktopNotifier{}
}

// Notify shows a notification with the given title and message
func (DesktopNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}
