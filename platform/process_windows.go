//go:build windows

package platform

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// SnapshotLister enumerates processes with a Toolhelp32 snapshot
type SnapshotLister struct{}

// NewProcessLister creates a process lister for Windows
func NewProcessLister() ProcessLister {
	return SnapshotLister{}
}

// Processes returns every process visible in the snapshot
func (SnapshotLister) Processes() ([]Process, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot failed: %w", err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	var procs []Process
	err = windows.Process32First(snap, &entry)
	for err == nil {
		procs = append(procs, Process{
			PID:  int(entry.ProcessID),
			PPID: int(entry.ParentProcessID),
			Name: windows.UTF16ToString(entry.ExeFile[:]),
		})
		err = windows.Process32Next(snap, &entry)
	}
	if !errors.Is(err, windows.ERROR_NO_MORE_FILES) {
		return procs, fmt.Errorf("Process32Next failed: %w", err)
	}

	return procs, nil
}
