package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"

	"albadit/joker/install"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	skippedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	summaryStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

// console implements ui with promptui prompts and lipgloss output
type console struct {
	out io.Writer
}

func newConsole(out io.Writer) *console {
	return &console{out: out}
}

func (c *console) Select(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
	}
	i, _, err := prompt.Run()
	return i, promptError(err)
}

func (c *console) Input(label, def string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Validate:  validate,
	}
	v, err := prompt.Run()
	return v, promptError(err)
}

// Confirm treats any answer other than yes as a refusal
func (c *console) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, promptError(err)
	}
	return true, nil
}

func (c *console) Info(msg string) {
	fmt.Fprintln(c.out, infoStyle.Render(msg))
}

func (c *console) Step(s install.Step) {
	fmt.Fprintln(c.out, formatStep(s))
}

func (c *console) Summary(action string, r *install.Report) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, summaryStyle.Render(formatSummary(action, r)))
}

func formatStep(s install.Step) string {
	line := fmt.Sprintf("  %s %s", statusLabel(s.Status), s.Name)
	switch {
	case s.Err != nil:
		line += infoStyle.Render(": " + s.Err.Error())
	case s.Detail != "":
		line += infoStyle.Render(" (" + s.Detail + ")")
	}
	return line
}

func formatSummary(action string, r *install.Report) string {
	outcome := okStyle.Render(action + " completed")
	if !r.OK() {
		outcome = failedStyle.Render(action + " finished with errors")
	}
	return fmt.Sprintf("%s\n%s\n%d ok, %d failed, %d skipped",
		titleStyle.Render("Joker setup"),
		outcome,
		r.Count(install.StatusOK),
		r.Count(install.StatusFailed),
		r.Count(install.StatusSkipped),
	)
}

func statusLabel(s install.Status) string {
	label := fmt.Sprintf("[%-7s]", s)
	switch s {
	case install.StatusOK:
		return okStyle.Render(label)
	case install.StatusFailed:
		return failedStyle.Render(label)
	default:
		return skippedStyle.Render(label)
	}
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return errCancelled
	}
	return err
}
