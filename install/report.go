package install

// Status is the outcome of a single installer step
type Status int

const (
	StatusOK Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// Step records what happened in one step
type Step struct {
	Name   string
	Status Status
	Detail string
	Err    error
}

// Report collects the steps of an install or uninstall run in order
type Report struct {
	Steps []Step

	progress func(Step)
}

// OK reports whether no step failed
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

// Failed returns the failed steps
func (r *Report) Failed() []Step {
	var failed []Step
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			failed = append(failed, s)
		}
	}
	return failed
}

// Count returns how many steps ended with status s
func (r *Report) Count(s Status) int {
	n := 0
	for _, step := range r.Steps {
		if step.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) run(name string, fn func() (Status, string, error)) {
	status, detail, err := fn()
	if err != nil {
		status = StatusFailed
	}
	r.add(Step{Name: name, Status: status, Detail: detail, Err: err})
}

func (r *Report) add(s Step) {
	r.Steps = append(r.Steps, s)
	if r.progress != nil {
		r.progress(s)
	}
}
