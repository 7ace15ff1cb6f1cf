package errors

import (
	"errors"
	"testing"
)

func TestStepError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := NewStepError("configure", "ipfs config set failed", cause)

	want := "step configure failed: ipfs config set failed: exit status 1"
	if err.Error() != want {
		t.Errorf("unexpected message: got %q want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("expected StepError to wrap its cause")
	}
	if FailedStep(err) != "configure" {
		t.Errorf("FailedStep: got %q want %q", FailedStep(err), "configure")
	}
}

func TestStepError_WrappedSentinel(t *testing.T) {
	err := NewStepError("overlay-up", "tailscale backend down", ErrOverlayNotConnected)

	if !errors.Is(err, ErrOverlayNotConnected) {
		t.Error("expected sentinel to be reachable through the step error")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("swarm-key", "file does not exist")

	want := "validation failed [swarm-key]: file does not exist"
	if err.Error() != want {
		t.Errorf("unexpected message: got %q want %q", err.Error(), want)
	}
	if !IsValidation(err) {
		t.Error("IsValidation should report true")
	}
	if IsValidation(errors.New("other")) {
		t.Error("IsValidation should report false for plain errors")
	}
}

func TestCommandError(t *testing.T) {
	err := NewCommandError("ipfs", []string{"config", "Routing.Type", "dht"}, 1, "Error: repo not initialized\n", nil)

	got := err.Error()
	want := "ipfs config Routing.Type dht exited with code 1: Error: repo not initialized"
	if got != want {
		t.Errorf("unexpected message: got %q want %q", got, want)
	}
}

func TestFailedStep_NoStepError(t *testing.T) {
	if FailedStep(errors.New("boom")) != "" {
		t.Error("expected empty step name for non-step errors")
	}
}
