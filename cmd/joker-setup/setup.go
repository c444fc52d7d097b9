package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"albadit/joker/install"
)

const (
	choiceInstall   = "Install"
	choiceUninstall = "Uninstall"
	choiceExit      = "Exit"
)

var menuItems = []string{choiceInstall, choiceUninstall, choiceExit}

// errCancelled is returned by prompts when the operator aborts with Ctrl+C or EOF
var errCancelled = errors.New("cancelled")

// ui is the interactive surface of the installer
type ui interface {
	Select(label string, items []string) (int, error)
	Input(label, def string, validate func(string) error) (string, error)
	Confirm(label string) (bool, error)
	Info(msg string)
	Step(s install.Step)
	Summary(action string, r *install.Report)
}

// setup drives one run of the installer
type setup struct {
	ui        ui
	installer *install.Installer
	elevated  func() bool
	relaunch  func(args []string) error
	documents func() (string, error)
}

// run returns the process exit code: 0 when nothing failed or the operator
// cancelled, 1 otherwise
func (s *setup) run(ctx context.Context, args []string) int {
	if !s.elevated() {
		s.ui.Info("Administrator rights are required, relaunching elevated...")
		if err := s.relaunch(args); err != nil {
			slog.Error("Failed to relaunch elevated", "error", err)
			return 1
		}
		return 0
	}

	s.ui.Info("Hello, from Joker!")

	choice, err := s.ui.Select("What do you want to do", menuItems)
	if err != nil {
		return s.promptFailed(err)
	}
	if menuItems[choice] == choiceExit {
		return 0
	}

	target, err := s.askTarget()
	if err != nil {
		return s.promptFailed(err)
	}
	s.installer.Progress = s.ui.Step

	var report *install.Report
	switch menuItems[choice] {
	case choiceInstall:
		report = s.installer.Install(ctx, target)
	case choiceUninstall:
		if _, err := os.Stat(target.Path()); errors.Is(err, os.ErrNotExist) {
			s.ui.Info("No installation found at " + target.Path())
		}
		confirmed, err := s.ui.Confirm("Do you want to uninstall " + target.Path())
		if err != nil && !errors.Is(err, errCancelled) {
			return s.promptFailed(err)
		}
		if !confirmed {
			s.ui.Info("Uninstall cancelled, nothing was changed")
			return 0
		}
		report = s.installer.Uninstall(target, true)
	}

	s.ui.Summary(menuItems[choice], report)
	if !report.OK() {
		return 1
	}
	return 0
}

func (s *setup) askTarget() (install.Target, error) {
	def, err := s.documents()
	if err != nil {
		slog.Warn("Failed to locate Documents folder", "error", err)
		def = ""
	}

	dir, err := s.ui.Input("Folder path", def, func(v string) error {
		_, err := install.ValidateDir(v)
		return err
	})
	if err != nil {
		return install.Target{}, err
	}
	dir, err = install.ValidateDir(dir)
	if err != nil {
		return install.Target{}, err
	}

	name, err := s.ui.Input("Script name", "Joker", func(v string) error {
		_, err := install.ValidateName(v)
		return err
	})
	if err != nil {
		return install.Target{}, err
	}
	name, err = install.ValidateName(name)
	if err != nil {
		return install.Target{}, err
	}

	return install.Target{Dir: dir, Name: name}, nil
}

func (s *setup) promptFailed(err error) int {
	if errors.Is(err, errCancelled) {
		s.ui.Info("Cancelled")
		return 0
	}
	slog.Error("Prompt failed", "error", err)
	return 1
}
