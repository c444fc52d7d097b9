package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"albadit/joker/config"
	"albadit/joker/platform"
)

type fakeLister struct {
	procs []platform.Process
	err   error
}

func (f *fakeLister) Processes() ([]platform.Process, error) {
	return f.procs, f.err
}

func selfName(t *testing.T) string {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	return filepath.Base(exe)
}

func TestRunSecondInstanceExitsCleanly(t *testing.T) {
	lister := &fakeLister{procs: []platform.Process{
		{PID: os.Getpid(), Name: selfName(t)},
		{PID: os.Getpid() + 100000, Name: selfName(t)},
	}}

	loaded := false
	load := func(string) (*config.Config, error) {
		loaded = true
		return nil, errors.New("unexpected load")
	}

	if code := run(nil, lister, load); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if loaded {
		t.Error("config must not be loaded when another instance is running")
	}
}

func TestRunConfigErrorIsFatal(t *testing.T) {
	lister := &fakeLister{procs: []platform.Process{{PID: os.Getpid(), Name: selfName(t)}}}

	var gotPath string
	load := func(path string) (*config.Config, error) {
		gotPath = path
		return nil, config.ErrNotFound
	}

	path := filepath.Join(t.TempDir(), "custom.toml")
	if code := run([]string{path}, lister, load); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if gotPath != path {
		t.Errorf("load path = %q, want %q", gotPath, path)
	}
}

func TestConfigPath(t *testing.T) {
	got, err := configPath([]string{"C:\\Joker\\config.toml"})
	if err != nil || got != "C:\\Joker\\config.toml" {
		t.Errorf("configPath(arg) = %q, %v", got, err)
	}

	got, err = configPath(nil)
	if err != nil {
		t.Fatalf("configPath(nil): %v", err)
	}
	if filepath.Base(got) != config.FileName {
		t.Errorf("default path = %q", got)
	}
}
