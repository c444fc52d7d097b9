//go:build !windows

package install

import (
	"fmt"
	"os"
	"path/filepath"

	"albadit/joker/platform"
)

// IsElevated always reports true: only Windows has an elevation prompt to
// relaunch through
func IsElevated() bool {
	return true
}

func RelaunchElevated(args []string) error {
	return fmt.Errorf("elevation: %w", platform.ErrUnsupported)
}

// DocumentsDir returns ~/Documents when it exists, otherwise the home directory
func DocumentsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	docs := filepath.Join(home, "Documents")
	if info, err := os.Stat(docs); err == nil && info.IsDir() {
		return docs, nil
	}
	return home, nil
}
