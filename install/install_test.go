package install

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"albadit/joker/config"
)

type fakeScheduler struct {
	tasks       map[string]Task
	registerErr error
	deleted     []string
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{tasks: map[string]Task{}}
}

func (f *fakeScheduler) Register(task Task) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.tasks[task.Name] = task
	return nil
}

func (f *fakeScheduler) Delete(name string) error {
	delete(f.tasks, name)
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeScheduler) Exists(name string) (bool, error) {
	_, ok := f.tasks[name]
	return ok, nil
}

type fakeDownloader struct {
	err  error
	urls []string
}

func (f *fakeDownloader) Download(ctx context.Context, url, dest string) error {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dest, []byte("MZ"), 0o755)
}

func newTestInstaller() (*Installer, *fakeScheduler, *fakeDownloader) {
	s := newFakeScheduler()
	d := &fakeDownloader{}
	return &Installer{Scheduler: s, Downloader: d, ReleaseURL: "https://example.com/joker.exe"}, s, d
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Joker", "Joker", false},
		{"my joker", "my_joker", false},
		{"  spaced  ", "spaced", false},
		{"", "", true},
		{"   ", "", true},
		{"a/b", "", true},
		{`a\b`, "", true},
		{"what?", "", true},
		{"pipe|name", "", true},
		{"star*", "", true},
		{"quote\"", "", true},
		{"trailing.", "", true},
		{"con", "", true},
		{"LPT1", "", true},
		{"console", "console", false},
	}

	for _, tt := range tests {
		got, err := ValidateName(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("ValidateName(%q) err = %v, want ErrInvalidName", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ValidateName(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()

	got, err := ValidateDir(" " + dir + " ")
	if err != nil || got != filepath.Clean(dir) {
		t.Errorf("ValidateDir(tempdir) = %q, %v", got, err)
	}

	if _, err := ValidateDir(filepath.Join(dir, "not", "yet")); err != nil {
		t.Errorf("missing folder should be accepted: %v", err)
	}

	for _, bad := range []string{"", "relative/path"} {
		if _, err := ValidateDir(bad); !errors.Is(err, ErrInvalidDir) {
			t.Errorf("ValidateDir(%q) err = %v, want ErrInvalidDir", bad, err)
		}
	}

	file := filepath.Join(dir, "file.txt")
	os.WriteFile(file, nil, 0o644)
	if _, err := ValidateDir(file); !errors.Is(err, ErrInvalidDir) {
		t.Errorf("ValidateDir(file) err = %v, want ErrInvalidDir", err)
	}
}

func TestTargetPaths(t *testing.T) {
	target := Target{Dir: filepath.Join("base", "docs"), Name: "Joker"}

	if got, want := target.Path(), filepath.Join("base", "docs", "Joker"); got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
	task := target.Task()
	if task.Name != "Joker" {
		t.Errorf("task name = %q", task.Name)
	}
	if task.Command != filepath.Join(target.Path(), "Joker.exe") {
		t.Errorf("command = %q", task.Command)
	}
	if task.Arguments != `"`+filepath.Join(target.Path(), config.FileName)+`"` {
		t.Errorf("arguments = %q", task.Arguments)
	}
	if task.WorkingDirectory != target.Path() {
		t.Errorf("working directory = %q", task.WorkingDirectory)
	}
}

func TestInstall(t *testing.T) {
	in, sched, dl := newTestInstaller()
	var progress []string
	in.Progress = func(s Step) { progress = append(progress, s.Name) }

	target := Target{Dir: t.TempDir(), Name: "Joker"}
	report := in.Install(context.Background(), target)

	if !report.OK() {
		t.Fatalf("report has failures: %+v", report.Failed())
	}
	if report.Count(StatusOK) != 4 {
		t.Errorf("steps = %+v, want 4 OK", report.Steps)
	}
	if len(progress) != 4 {
		t.Errorf("progress callbacks = %v", progress)
	}

	// The written config is the default one and still needs an api_key
	if _, err := config.Load(target.ConfigPath()); !errors.Is(err, config.ErrInvalid) || !strings.Contains(err.Error(), "api_key") {
		t.Errorf("Load(default config) err = %v, want missing api_key", err)
	}
	if _, err := os.Stat(target.ExePath()); err != nil {
		t.Errorf("executable not downloaded: %v", err)
	}
	if len(dl.urls) != 1 || dl.urls[0] != "https://example.com/joker.exe" {
		t.Errorf("download urls = %v", dl.urls)
	}
	if task, ok := sched.tasks["Joker"]; !ok || task.Command != target.ExePath() {
		t.Errorf("registered tasks = %+v", sched.tasks)
	}
}

func TestInstallKeepsExistingConfig(t *testing.T) {
	in, _, _ := newTestInstaller()
	target := Target{Dir: t.TempDir(), Name: "Joker"}

	os.MkdirAll(target.Path(), 0o755)
	custom := []byte("# mine\n")
	os.WriteFile(target.ConfigPath(), custom, 0o644)

	report := in.Install(context.Background(), target)
	if !report.OK() {
		t.Fatalf("report has failures: %+v", report.Failed())
	}
	if report.Steps[1].Status != StatusSkipped {
		t.Errorf("config step = %v, want SKIPPED", report.Steps[1].Status)
	}
	got, _ := os.ReadFile(target.ConfigPath())
	if string(got) != string(custom) {
		t.Errorf("config overwritten: %q", got)
	}
}

func TestInstallContinuesAfterFailure(t *testing.T) {
	in, sched, dl := newTestInstaller()
	dl.err = errors.New("404 Not Found")
	target := Target{Dir: t.TempDir(), Name: "Joker"}

	report := in.Install(context.Background(), target)

	if report.OK() {
		t.Fatal("report should have a failure")
	}
	failed := report.Failed()
	if len(failed) != 1 || failed[0].Name != "Download executable" || failed[0].Err == nil {
		t.Errorf("failed = %+v", failed)
	}
	if _, ok := sched.tasks["Joker"]; !ok {
		t.Error("task should still be registered after a failed download")
	}
}

func TestUninstall(t *testing.T) {
	in, sched, _ := newTestInstaller()
	target := Target{Dir: t.TempDir(), Name: "Joker"}
	if r := in.Install(context.Background(), target); !r.OK() {
		t.Fatalf("install: %+v", r.Failed())
	}

	report := in.Uninstall(target, true)
	if !report.OK() || report.Count(StatusOK) != 2 {
		t.Fatalf("uninstall steps = %+v", report.Steps)
	}
	if _, err := os.Stat(target.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("directory still exists: %v", err)
	}
	if len(sched.deleted) != 1 || sched.deleted[0] != "Joker" {
		t.Errorf("deleted tasks = %v", sched.deleted)
	}
}

func TestUninstallWithoutConfirmation(t *testing.T) {
	in, sched, _ := newTestInstaller()
	target := Target{Dir: t.TempDir(), Name: "Joker"}
	in.Install(context.Background(), target)

	report := in.Uninstall(target, false)

	if !report.OK() || report.Count(StatusSkipped) != 2 {
		t.Errorf("steps = %+v, want 2 SKIPPED", report.Steps)
	}
	if _, err := os.Stat(target.ExePath()); err != nil {
		t.Errorf("installation touched: %v", err)
	}
	if _, ok := sched.tasks["Joker"]; !ok {
		t.Error("task should remain registered")
	}
	if len(sched.deleted) != 0 {
		t.Errorf("deleted tasks = %v", sched.deleted)
	}
}

func TestUninstallNothingInstalled(t *testing.T) {
	in, _, _ := newTestInstaller()
	target := Target{Dir: t.TempDir(), Name: "Missing"}

	report := in.Uninstall(target, true)
	if !report.OK() || report.Count(StatusSkipped) != 2 {
		t.Errorf("steps = %+v, want 2 SKIPPED", report.Steps)
	}
}

func TestStatusString(t *testing.T) {
	if StatusOK.String() != "OK" || StatusFailed.String() != "FAILED" || StatusSkipped.String() != "SKIPPED" {
		t.Error("unexpected status labels")
	}
}
