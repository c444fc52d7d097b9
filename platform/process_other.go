//go:build !windows

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ProcFSLister enumerates processes from /proc
type ProcFSLister struct {
	Root string
}

// NewProcessLister creates a process lister reading /proc
func NewProcessLister() ProcessLister {
	return ProcFSLister{Root: "/proc"}
}

// Processes returns the processes found under Root. Entries that disappear
// or cannot be read are skipped.
func (l ProcFSLister) Processes() ([]Process, error) {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.Root, err)
	}

	var procs []Process
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}

		stat, err := os.ReadFile(filepath.Join(l.Root, e.Name(), "stat"))
		if err != nil {
			continue
		}
		name, ppid, ok := parseStat(string(stat))
		if !ok {
			continue
		}
		if exe, err := os.Readlink(filepath.Join(l.Root, e.Name(), "exe")); err == nil {
			name = filepath.Base(exe)
		}

		procs = append(procs, Process{PID: pid, PPID: ppid, Name: name})
	}

	return procs, nil
}

// parseStat extracts comm and ppid from a /proc/<pid>/stat line
func parseStat(stat string) (name string, ppid int, ok bool) {
	open := strings.IndexByte(stat, '(')
	end := strings.LastIndexByte(stat, ')')
	if open < 0 || end < open {
		return "", 0, false
	}
	name = stat[open+1 : end]

	fields := strings.Fields(stat[end+1:])
	if len(fields) < 2 {
		return "", 0, false
	}
	ppid, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, false
	}
	return name, ppid, true
}
