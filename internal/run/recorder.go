package run

import (
	"context"
	"strings"
	"sync"
)

// Recorder is a Runner for tests. It records every invocation and can be told
// to fail commands whose first argument matches FailOn.
type Recorder struct {
	mu     sync.Mutex
	calls  [][]string
	FailOn map[string]error
}

func NewRecorder() *Recorder {
	return &Recorder{FailOn: make(map[string]error)}
}

func (r *Recorder) Run(_ context.Context, _ string, argv ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string(nil), argv...))
	if len(argv) > 0 {
		if err, ok := r.FailOn[argv[0]]; ok {
			return err
		}
	}
	return nil
}

// Calls returns a copy of every recorded invocation.
func (r *Recorder) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = append([]string(nil), c...)
	}
	return out
}

// CountCommand returns how many recorded invocations started with name.
func (r *Recorder) CountCommand(name string) int {
	n := 0
	for _, c := range r.Calls() {
		if len(c) > 0 && c[0] == name {
			n++
		}
	}
	return n
}

// Joined renders recorded calls one per line, for assertion messages.
func (r *Recorder) Joined() string {
	var b strings.Builder
	for _, c := range r.Calls() {
		b.WriteString(strings.Join(c, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
