package platform

import (
	"fmt"
	"sync"

	"github.com/micmonay/keybd_event"
)

// KeyCopier sends Ctrl+C to the foreground window
type KeyCopier struct {
	mu sync.Mutex
	kb keybd_event.KeyBonding
}

// NewCopier creates a copier backed by a virtual keyboard
func NewCopier() (Copier, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("failed to create key bonding: %w", err)
	}
	kb.SetKeys(keybd_event.VK_C)
	kb.HasCTRL(true)

	return &KeyCopier{kb: kb}, nil
}

// Copy presses and releases Ctrl+C
func (c *KeyCopier) Copy() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kb.Launching(); err != nil {
		return fmt.Errorf("failed to send Ctrl+C: %w", err)
	}
	return nil
}
