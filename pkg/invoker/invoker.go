// Package invoker wraps external command execution behind a narrow interface
// so orchestration logic can be unit-tested against a fake.
package invoker

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// Result captures the outcome of a completed external command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the command exited zero.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// Invoker runs external programs. Run and RunInteractive block until the
// command completes; Start launches a detached background process and
// returns immediately.
type Invoker interface {
	// Run executes the command to completion and captures stdout/stderr.
	// A non-zero exit is reported through Result, not through err; err is
	// reserved for failures to launch (binary missing, context canceled).
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// RunInteractive executes the command with inherited stdio, for
	// commands that may prompt the user (e.g. overlay authentication).
	RunInteractive(ctx context.Context, name string, args ...string) error

	// Start launches the command detached from this process and returns
	// its pid. The child survives the caller's exit.
	Start(name string, env []string, args ...string) (int, error)

	// LookPath reports the absolute path of an executable, or an error if
	// it is not on PATH.
	LookPath(name string) (string, error)
}

// Exec is the os/exec-backed Invoker used outside of tests.
type Exec struct {
	// Env entries appended to the environment of every command, e.g.
	// IPFS_PATH for the node binary.
	Env []string
}

// NewExec creates an Exec invoker with optional extra environment entries.
func NewExec(env ...string) *Exec {
	return &Exec{Env: env}
}

func (e *Exec) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), e.Env...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return Result{ExitCode: -1}, err
		}
		// Non-zero exit is a result, not a launch failure.
	}

	return Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

func (e *Exec) RunInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), e.Env...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (e *Exec) Start(name string, env []string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = append(append(os.Environ(), e.Env...), env...)
	// New session so the child is not killed with this process.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid
	// Reap the child in the background so it does not become a zombie if
	// it exits while we are still alive.
	go func() { _ = cmd.Wait() }()

	return pid, nil
}

func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
