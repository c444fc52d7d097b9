package install

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"

	"golang.org/x/text/encoding/unicode"
)

// Task is a scheduled task that runs Command with Arguments
type Task struct {
	Name             string
	Command          string
	Arguments        string
	WorkingDirectory string
}

// taskTemplate starts the listener at boot, logon, unlock, idle and console
// connect, with the interactive user's token at the highest run level.
var taskTemplate = template.Must(template.New("task").Funcs(template.FuncMap{
	"xml": xmlEscape,
}).Parse(`<?xml version="1.0" encoding="UTF-16"?>
<Task version="1.2" xmlns="http://schemas.microsoft.com/windows/2004/02/mit/task">
  <RegistrationInfo>
    <Description>{{xml .Name}} Task</Description>
    <Author>{{xml .Name}}</Author>
  </RegistrationInfo>
  <Triggers>
    <BootTrigger>
      <Enabled>true</Enabled>
    </BootTrigger>
    <LogonTrigger>
      <Enabled>true</Enabled>
    </LogonTrigger>
    <SessionStateChangeTrigger>
      <Enabled>true</Enabled>
      <StateChange>SessionUnlock</StateChange>
    </SessionStateChangeTrigger>
    <IdleTrigger>
      <Enabled>true</Enabled>
    </IdleTrigger>
    <SessionStateChangeTrigger>
      <Enabled>true</Enabled>
      <StateChange>ConsoleConnect</StateChange>
    </SessionStateChangeTrigger>
  </Triggers>
  <Principals>
    <Principal id="Author">
      <LogonType>InteractiveToken</LogonType>
      <RunLevel>HighestAvailable</RunLevel>
    </Principal>
  </Principals>
  <Settings>
    <MultipleInstancesPolicy>IgnoreNew</MultipleInstancesPolicy>
    <DisallowStartIfOnBatteries>false</DisallowStartIfOnBatteries>
    <StopIfGoingOnBatteries>false</StopIfGoingOnBatteries>
    <AllowHardTerminate>false</AllowHardTerminate>
    <StartWhenAvailable>true</StartWhenAvailable>
    <RunOnlyIfNetworkAvailable>false</RunOnlyIfNetworkAvailable>
    <IdleSettings>
      <StopOnIdleEnd>true</StopOnIdleEnd>
      <RestartOnIdle>false</RestartOnIdle>
    </IdleSettings>
    <Enabled>true</Enabled>
    <Hidden>false</Hidden>
    <RunOnlyIfIdle>false</RunOnlyIfIdle>
    <WakeToRun>true</WakeToRun>
    <ExecutionTimeLimit>P1D</ExecutionTimeLimit>
    <Priority>7</Priority>
  </Settings>
  <Actions Context="Author">
    <Exec>
      <Command>{{xml .Command}}</Command>
      <Arguments>{{xml .Arguments}}</Arguments>
      <WorkingDirectory>{{xml .WorkingDirectory}}</WorkingDirectory>
    </Exec>
  </Actions>
</Task>
`))

func xmlEscape(s string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TaskXML renders task as a Task Scheduler definition, UTF-16LE encoded with
// a byte order mark as schtasks expects.
func TaskXML(task Task) ([]byte, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, task); err != nil {
		return nil, fmt.Errorf("failed to render task XML: %w", err)
	}
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to encode task XML: %w", err)
	}
	return encoded, nil
}

// runner executes an external command and returns its combined output
type runner interface {
	Run(name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Schtasks implements Scheduler with the schtasks command line tool
type Schtasks struct {
	run runner
}

// NewSchtasks creates a scheduler backed by schtasks.exe
func NewSchtasks() *Schtasks {
	return &Schtasks{run: execRunner{}}
}

// Register creates or replaces the task
func (s *Schtasks) Register(task Task) error {
	data, err := TaskXML(task)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "joker-task-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create task file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write task file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write task file: %w", err)
	}

	if out, err := s.run.Run("schtasks", "/Create", "/TN", task.Name, "/XML", f.Name(), "/F"); err != nil {
		return commandError("schtasks /Create", out, err)
	}
	return nil
}

// Delete removes the task
func (s *Schtasks) Delete(name string) error {
	if out, err := s.run.Run("schtasks", "/Delete", "/TN", name, "/F"); err != nil {
		return commandError("schtasks /Delete", out, err)
	}
	return nil
}

// Exists reports whether a task with the given name is registered
func (s *Schtasks) Exists(name string) (bool, error) {
	out, err := s.run.Run("schtasks", "/Query", "/TN", name)
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, commandError("schtasks /Query", out, err)
}

func commandError(cmd string, out []byte, err error) error {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return fmt.Errorf("%s: %s: %w", cmd, msg, err)
	}
	return fmt.Errorf("%s: %w", cmd, err)
}
