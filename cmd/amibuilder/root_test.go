// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"

	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/issue"
)

func TestLoadConfigInvalidEnvironmentReturnsUsageExit(t *testing.T) {
	t.Setenv("PACKAGE_SOURCES", "")
	t.Setenv("PARAM_STORE_NAME", "")

	prev := cfgFile
	cfgFile = ""
	t.Cleanup(func() { cfgFile = prev })

	cfg, err := loadConfig()
	if cfg != nil {
		t.Fatalf("loadConfig() returned config %+v, want nil", cfg)
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("loadConfig() error = %v, want *ExitError", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("exit code = %d, want 2", exitErr.Code)
	}
}

func TestBuildFailureExitPreservesCause(t *testing.T) {
	// Mirrors how the build command reports a failed run: the cause must
	// stay reachable through both the exit wrapper and the issue wrapper.
	cause := errors.New("no capacity")
	err := &ExitError{Code: 1, Err: issue.Wrapf(cause, "build image")}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("errors.As(err, *ActionableError) = false, want true")
	}
	if ae.Operation != "build image" {
		t.Errorf("Operation = %q, want %q", ae.Operation, "build image")
	}
}
