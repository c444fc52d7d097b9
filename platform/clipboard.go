package platform

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var clipboardInit struct {
	once sync.Once
	err  error
}

// SystemClipboard reads text from the OS clipboard
type SystemClipboard struct{}

// NewClipboard initializes clipboard access
func NewClipboard() (Clipboard, error) {
	clipboardInit.once.Do(func() {
		clipboardInit.err = clipboard.Init()
	})
	if clipboardInit.err != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", clipboardInit.err)
	}
	return &SystemClipboard{}, nil
}

// Get returns the clipboard text, or "" when it holds no text
func (c *SystemClipboard) Get() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}
