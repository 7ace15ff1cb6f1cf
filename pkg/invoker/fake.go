package invoker

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Call records a single invocation observed by the Fake.
type Call struct {
	Name     string
	Args     []string
	Detached bool
}

func (c Call) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// stubbed response for a command prefix
type stub struct {
	prefix string
	result Result
	err    error
	fn     func(call Call) (Result, error)
}

// Fake is a scripted Invoker for tests. Responses are registered against
// command prefixes ("ipfs swarm peers"); the longest matching prefix wins.
// Unscripted commands succeed with empty output.
type Fake struct {
	mu      sync.Mutex
	stubs   []stub
	calls   []Call
	missing map[string]bool
}

// NewFake creates an empty fake invoker.
func NewFake() *Fake {
	return &Fake{missing: make(map[string]bool)}
}

// Stub registers a fixed response for every command matching prefix.
func (f *Fake) Stub(prefix string, result Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs = append(f.stubs, stub{prefix: prefix, result: result, err: err})
}

// StubFunc registers a response computed per call, for stateful scripts
// (e.g. a probe that starts failing and later succeeds).
func (f *Fake) StubFunc(prefix string, fn func(call Call) (Result, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs = append(f.stubs, stub{prefix: prefix, fn: fn})
}

// SetMissing marks a binary as absent from PATH.
func (f *Fake) SetMissing(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[name] = true
}

// Calls returns a copy of all recorded invocations in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsMatching returns recorded invocations whose command line starts with
// prefix.
func (f *Fake) CallsMatching(prefix string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if strings.HasPrefix(c.String(), prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) dispatch(call Call) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	line := call.String()

	// Longest prefix wins; later registrations override earlier ones of
	// equal length, so tests can re-script a command mid-scenario.
	var best *stub
	for i := range f.stubs {
		s := &f.stubs[i]
		if strings.HasPrefix(line, s.prefix) {
			if best == nil || len(s.prefix) >= len(best.prefix) {
				best = s
			}
		}
	}
	f.mu.Unlock()

	if best == nil {
		return Result{ExitCode: 0}, nil
	}
	if best.fn != nil {
		return best.fn(call)
	}
	return best.result, best.err
}

func (f *Fake) Run(_ context.Context, name string, args ...string) (Result, error) {
	return f.dispatch(Call{Name: name, Args: args})
}

func (f *Fake) RunInteractive(_ context.Context, name string, args ...string) error {
	res, err := f.dispatch(Call{Name: name, Args: args})
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("%s exited with code %d", name, res.ExitCode)
	}
	return nil
}

func (f *Fake) Start(name string, _ []string, args ...string) (int, error) {
	_, err := f.dispatch(Call{Name: name, Args: args, Detached: true})
	if err != nil {
		return 0, err
	}
	return 4242, nil
}

func (f *Fake) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/local/bin/" + name, nil
}
