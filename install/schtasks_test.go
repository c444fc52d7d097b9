package install

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

type call struct {
	name string
	args []string
	xml  string
}

type fakeRunner struct {
	calls []call
	out   []byte
	err   error
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	c := call{name: name, args: args}
	// Capture the task file while it still exists
	for i, a := range args {
		if a == "/XML" && i+1 < len(args) {
			data, _ := os.ReadFile(args[i+1])
			c.xml = decodeUTF16(data)
		}
	}
	f.calls = append(f.calls, c)
	return f.out, f.err
}

func decodeUTF16(data []byte) string {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(data)
	if err != nil {
		return ""
	}
	return string(out)
}

func testTask() Task {
	return Task{
		Name:             "Joker",
		Command:          `C:\Users\me\Documents\Joker\Joker.exe`,
		Arguments:        `"C:\Users\me\Documents\Joker\config.toml"`,
		WorkingDirectory: `C:\Users\me\Documents\Joker`,
	}
}

func TestTaskXML(t *testing.T) {
	data, err := TaskXML(testTask())
	if err != nil {
		t.Fatalf("TaskXML: %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xFE {
		t.Fatal("missing UTF-16LE byte order mark")
	}

	xml := decodeUTF16(data)
	for _, want := range []string{
		`encoding="UTF-16"`,
		"<BootTrigger>",
		"<LogonTrigger>",
		"<StateChange>SessionUnlock</StateChange>",
		"<IdleTrigger>",
		"<StateChange>ConsoleConnect</StateChange>",
		"<LogonType>InteractiveToken</LogonType>",
		"<RunLevel>HighestAvailable</RunLevel>",
		"<MultipleInstancesPolicy>IgnoreNew</MultipleInstancesPolicy>",
		"<ExecutionTimeLimit>P1D</ExecutionTimeLimit>",
		"<Priority>7</Priority>",
		`<Command>C:\Users\me\Documents\Joker\Joker.exe</Command>`,
		`<Arguments>&#34;C:\Users\me\Documents\Joker\config.toml&#34;</Arguments>`,
		`<WorkingDirectory>C:\Users\me\Documents\Joker</WorkingDirectory>`,
		"<Description>Joker Task</Description>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("task XML missing %q", want)
		}
	}
}

func TestTaskXMLEscapes(t *testing.T) {
	task := testTask()
	task.Name = "Tom&Jerry<1>"
	data, err := TaskXML(task)
	if err != nil {
		t.Fatalf("TaskXML: %v", err)
	}
	xml := decodeUTF16(data)
	if !strings.Contains(xml, "<Author>Tom&amp;Jerry&lt;1&gt;</Author>") {
		t.Errorf("name not escaped:\n%s", xml)
	}
}

func TestSchtasksRegister(t *testing.T) {
	r := &fakeRunner{}
	s := &Schtasks{run: r}

	if err := s.Register(testTask()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("calls = %+v", r.calls)
	}
	c := r.calls[0]
	if c.name != "schtasks" || c.args[0] != "/Create" || c.args[2] != "Joker" || c.args[len(c.args)-1] != "/F" {
		t.Errorf("args = %v", c.args)
	}
	if !strings.Contains(c.xml, "<Command>") {
		t.Errorf("task file content = %q", c.xml)
	}

	// The temporary task file is removed afterwards
	if _, err := os.Stat(c.args[4]); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("task file left behind: %v", err)
	}
}

func TestSchtasksRegisterFailure(t *testing.T) {
	r := &fakeRunner{out: []byte("ERROR: Access is denied.\r\n"), err: errors.New("exit status 1")}
	s := &Schtasks{run: r}

	err := s.Register(testTask())
	if err == nil || !strings.Contains(err.Error(), "Access is denied.") {
		t.Errorf("err = %v, want schtasks output", err)
	}
}

func TestSchtasksDelete(t *testing.T) {
	r := &fakeRunner{}
	s := &Schtasks{run: r}

	if err := s.Delete("Joker"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := strings.Join(r.calls[0].args, " "); got != "/Delete /TN Joker /F" {
		t.Errorf("args = %q", got)
	}
}

func TestSchtasksExists(t *testing.T) {
	s := &Schtasks{run: &fakeRunner{}}
	if ok, err := s.Exists("Joker"); !ok || err != nil {
		t.Errorf("Exists = %v, %v, want true", ok, err)
	}

	s = &Schtasks{run: &fakeRunner{err: &exec.ExitError{}}}
	if ok, err := s.Exists("Joker"); ok || err != nil {
		t.Errorf("Exists = %v, %v, want false without error", ok, err)
	}

	s = &Schtasks{run: &fakeRunner{err: exec.ErrNotFound}}
	if _, err := s.Exists("Joker"); err == nil {
		t.Error("missing schtasks binary should be an error")
	}
}
