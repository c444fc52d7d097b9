// Package install sets up and removes a Joker installation: the install
// directory, its configuration, the executable and the scheduled task that
// starts it.
package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"albadit/joker/config"
)

const (
	// DefaultReleaseURL is where the packaged listener is fetched from
	DefaultReleaseURL = "https://raw.githubusercontent.com/Albadit/Joker/main/app/joker.exe"
	// ReleaseURLEnv overrides DefaultReleaseURL when set
	ReleaseURLEnv = "JOKER_RELEASE_URL"
)

var (
	ErrInvalidName = errors.New("invalid name")
	ErrInvalidDir  = errors.New("invalid folder")
)

var reservedDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// ValidateName returns the installation name with spaces replaced by
// underscores. Names that cannot be used as a Windows file or task name are
// rejected.
func ValidateName(name string) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	for _, r := range name {
		if strings.ContainsRune(`<>:"/\|?*`, r) || unicode.IsControl(r) {
			return "", fmt.Errorf("%w: %q contains reserved character %q", ErrInvalidName, name, r)
		}
	}
	if strings.HasSuffix(name, ".") {
		return "", fmt.Errorf("%w: %q ends with a dot", ErrInvalidName, name)
	}
	if reservedDeviceNames[strings.ToUpper(name)] {
		return "", fmt.Errorf("%w: %q is a reserved device name", ErrInvalidName, name)
	}
	return name, nil
}

// ValidateDir returns the cleaned parent folder for an installation. It must
// be an absolute path; it does not have to exist yet.
func ValidateDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", fmt.Errorf("%w: folder is empty", ErrInvalidDir)
	}
	if !filepath.IsAbs(dir) {
		return "", fmt.Errorf("%w: %q is not an absolute path", ErrInvalidDir, dir)
	}
	dir = filepath.Clean(dir)
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return "", fmt.Errorf("%w: %q is a file", ErrInvalidDir, dir)
	}
	return dir, nil
}

// Target identifies one installation: <Dir>\<Name> holding <Name>.exe and
// config.toml, registered as the scheduled task <Name>.
type Target struct {
	Dir  string
	Name string
}

// Path is the installation directory
func (t Target) Path() string {
	return filepath.Join(t.Dir, t.Name)
}

func (t Target) ExePath() string {
	return filepath.Join(t.Path(), t.Name+".exe")
}

func (t Target) ConfigPath() string {
	return filepath.Join(t.Path(), config.FileName)
}

// Task returns the scheduled task definition that starts this installation
func (t Target) Task() Task {
	return Task{
		Name:             t.Name,
		Command:          t.ExePath(),
		Arguments:        `"` + t.ConfigPath() + `"`,
		WorkingDirectory: t.Path(),
	}
}

// Scheduler registers the listener with the OS task scheduler
type Scheduler interface {
	Register(task Task) error
	Delete(name string) error
	Exists(name string) (bool, error)
}

// Downloader fetches a remote file to dest
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// Installer runs the install and uninstall procedures. Every step runs even
// when an earlier one failed; the Report records each outcome.
type Installer struct {
	Scheduler  Scheduler
	Downloader Downloader
	ReleaseURL string

	// Progress, when set, is called after each step completes
	Progress func(Step)
}

// New creates an installer with the schtasks scheduler and HTTP downloader
func New() *Installer {
	url := os.Getenv(ReleaseURLEnv)
	if url == "" {
		url = DefaultReleaseURL
	}
	return &Installer{
		Scheduler:  NewSchtasks(),
		Downloader: NewHTTPDownloader(),
		ReleaseURL: url,
	}
}

// Install creates the directory, writes the default configuration, downloads
// the executable and registers the scheduled task.
func (in *Installer) Install(ctx context.Context, t Target) *Report {
	r := &Report{progress: in.Progress}

	r.run("Create directory", func() (Status, string, error) {
		if err := os.MkdirAll(t.Path(), 0o755); err != nil {
			return StatusFailed, "", fmt.Errorf("failed to create %s: %w", t.Path(), err)
		}
		return StatusOK, t.Path(), nil
	})

	r.run("Write configuration", func() (Status, string, error) {
		if _, err := os.Stat(t.ConfigPath()); err == nil {
			return StatusSkipped, "kept existing " + config.FileName, nil
		}
		if err := config.Write(t.ConfigPath(), config.Default()); err != nil {
			return StatusFailed, "", err
		}
		return StatusOK, "set api_key in " + t.ConfigPath(), nil
	})

	r.run("Download executable", func() (Status, string, error) {
		if err := in.Downloader.Download(ctx, in.ReleaseURL, t.ExePath()); err != nil {
			return StatusFailed, "", err
		}
		return StatusOK, t.ExePath(), nil
	})

	r.run("Register scheduled task", func() (Status, string, error) {
		if err := in.Scheduler.Register(t.Task()); err != nil {
			return StatusFailed, "", err
		}
		return StatusOK, t.Name, nil
	})

	return r
}

// Uninstall deletes the scheduled task and removes the installation
// directory. Without confirmation nothing is touched and every step is
// reported as skipped.
func (in *Installer) Uninstall(t Target, confirmed bool) *Report {
	r := &Report{progress: in.Progress}

	if !confirmed {
		r.add(Step{Name: "Delete scheduled task", Status: StatusSkipped, Detail: "not confirmed"})
		r.add(Step{Name: "Remove directory", Status: StatusSkipped, Detail: "not confirmed"})
		return r
	}

	r.run("Delete scheduled task", func() (Status, string, error) {
		exists, err := in.Scheduler.Exists(t.Name)
		if err != nil {
			return StatusFailed, "", err
		}
		if !exists {
			return StatusSkipped, "task not registered", nil
		}
		if err := in.Scheduler.Delete(t.Name); err != nil {
			return StatusFailed, "", err
		}
		return StatusOK, t.Name, nil
	})

	r.run("Remove directory", func() (Status, string, error) {
		if _, err := os.Stat(t.Path()); errors.Is(err, os.ErrNotExist) {
			return StatusSkipped, "directory does not exist", nil
		}
		if err := os.RemoveAll(t.Path()); err != nil {
			return StatusFailed, "", fmt.Errorf("failed to remove %s: %w", t.Path(), err)
		}
		return StatusOK, t.Path(), nil
	})

	return r
}
