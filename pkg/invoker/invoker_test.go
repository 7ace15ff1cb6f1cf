package invoker

import (
	"context"
	"testing"
)

func TestFake_StubMatching(t *testing.T) {
	f := NewFake()
	f.Stub("ipfs id", Result{ExitCode: 0, Stdout: "QmPeer\n"}, nil)
	f.Stub("ipfs", Result{ExitCode: 1, Stderr: "unknown command"}, nil)

	// Longest prefix wins
	res, err := f.Run(context.Background(), "ipfs", "id", "-f=<id>")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Stdout != "QmPeer\n" {
		t.Errorf("wrong stdout: got %q", res.Stdout)
	}

	res, err = f.Run(context.Background(), "ipfs", "cat", "QmX")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ExitCode != 1 {
		t.Errorf("expected fallback stub exit 1, got %d", res.ExitCode)
	}
}

func TestFake_UnscriptedCommandsSucceed(t *testing.T) {
	f := NewFake()

	res, err := f.Run(context.Background(), "tailscale", "status")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.Ok() {
		t.Errorf("expected success, got exit %d", res.ExitCode)
	}
}

func TestFake_RecordsCalls(t *testing.T) {
	f := NewFake()

	_, _ = f.Run(context.Background(), "ipfs", "bootstrap", "rm", "--all")
	_, _ = f.Start("ipfs", nil, "daemon")

	calls := f.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].String() != "ipfs bootstrap rm --all" {
		t.Errorf("wrong first call: %s", calls[0])
	}
	if !calls[1].Detached {
		t.Error("expected daemon launch to be recorded as detached")
	}

	matched := f.CallsMatching("ipfs bootstrap")
	if len(matched) != 1 {
		t.Errorf("expected 1 matching call, got %d", len(matched))
	}
}

func TestFake_StubFuncStateful(t *testing.T) {
	f := NewFake()
	attempts := 0
	f.StubFunc("ipfs swarm peers", func(Call) (Result, error) {
		attempts++
		if attempts < 3 {
			return Result{ExitCode: 1, Stderr: "connection refused"}, nil
		}
		return Result{ExitCode: 0}, nil
	})

	for i := 0; i < 2; i++ {
		res, _ := f.Run(context.Background(), "ipfs", "swarm", "peers")
		if res.Ok() {
			t.Fatal("expected failure before third attempt")
		}
	}
	res, _ := f.Run(context.Background(), "ipfs", "swarm", "peers")
	if !res.Ok() {
		t.Fatal("expected success on third attempt")
	}
}

func TestFake_SetMissing(t *testing.T) {
	f := NewFake()
	f.SetMissing("tailscale")

	if _, err := f.LookPath("tailscale"); err == nil {
		t.Error("expected LookPath to fail for missing binary")
	}
	if _, err := f.LookPath("ipfs"); err != nil {
		t.Errorf("expected LookPath to succeed for present binary: %v", err)
	}
}

func TestExec_RunMissingBinary(t *testing.T) {
	e := NewExec()

	_, err := e.Run(context.Background(), "swarmctl-test-no-such-binary-xyz")
	if err == nil {
		t.Fatal("expected launch error for missing binary")
	}
}

func TestExec_RunCapturesOutput(t *testing.T) {
	e := NewExec()

	res, err := e.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Stdout != "out\n" {
		t.Errorf("wrong stdout: %q", res.Stdout)
	}
	if res.Stderr != "err\n" {
		t.Errorf("wrong stderr: %q", res.Stderr)
	}
	if !res.Ok() {
		t.Errorf("expected exit 0, got %d", res.ExitCode)
	}
}

func TestExec_RunNonZeroExitIsResult(t *testing.T) {
	e := NewExec()

	res, err := e.Run(context.Background(), "sh", "-c", "exit 3")
	if err != nil {
		t.Fatalf("non-zero exit should not be a launch error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("wrong exit code: got %d want 3", res.ExitCode)
	}
}
