// Package instance detects whether another copy of the running executable is
// already active.
package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"albadit/joker/platform"
)

// Find reports whether procs contains a process named exe other than pid and
// its parent ppid. Names compare case-insensitively.
func Find(procs []platform.Process, pid, ppid int, exe string) bool {
	for _, p := range procs {
		if p.PID == pid || p.PID == ppid {
			continue
		}
		if strings.EqualFold(p.Name, exe) {
			return true
		}
	}
	return false
}

// Running reports whether another instance of the current executable is
// running, using lister to enumerate processes.
func Running(lister platform.ProcessLister) (bool, error) {
	exe, err := os.Executable()
	if err != nil {
		return false, fmt.Errorf("failed to resolve executable: %w", err)
	}

	procs, err := lister.Processes()
	if err != nil && len(procs) == 0 {
		return false, err
	}

	return Find(procs, os.Getpid(), os.Getppid(), filepath.Base(exe)), nil
}
