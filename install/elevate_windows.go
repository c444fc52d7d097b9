//go:build windows

package install

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const shellFoldersKey = `Software\Microsoft\Windows\CurrentVersion\Explorer\Shell Folders`

// IsElevated reports whether the process runs with an elevated token
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// RelaunchElevated starts the current executable again through the UAC
// prompt with the same arguments. The caller should exit afterwards.
func RelaunchElevated(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable: %w", err)
	}
	cwd, _ := os.Getwd()

	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = windows.EscapeArg(a)
	}

	verb, _ := windows.UTF16PtrFromString("runas")
	file, _ := windows.UTF16PtrFromString(exe)
	params, _ := windows.UTF16PtrFromString(strings.Join(quoted, " "))
	dir, _ := windows.UTF16PtrFromString(cwd)

	if err := windows.ShellExecute(0, verb, file, params, dir, windows.SW_NORMAL); err != nil {
		return fmt.Errorf("elevation cancelled or failed: %w", err)
	}
	return nil
}

// DocumentsDir returns the current user's Documents folder as recorded in the
// shell folders registry key
func DocumentsDir() (string, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, shellFoldersKey, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("failed to open shell folders key: %w", err)
	}
	defer k.Close()

	dir, _, err := k.GetStringValue("Personal")
	if err != nil {
		return "", fmt.Errorf("failed to read Documents folder: %w", err)
	}
	return dir, nil
}
