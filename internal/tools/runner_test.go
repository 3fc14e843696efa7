package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/edgecli/internal/testutil/testlog"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	testlog.Start(t)
	res, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo out; echo err 1>&2")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(string(res.Stdout)) != "out" || strings.TrimSpace(string(res.Stderr)) != "err" {
		t.Fatalf("unexpected output: stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
	if res.ExitCode != 0 {
		t.Fatalf("unexpected exit code: %d", res.ExitCode)
	}
}

func TestExecRunnerExitCodes(t *testing.T) {
	testlog.Start(t)
	res, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "exit 3")
	if err == nil || res.ExitCode != 3 {
		t.Fatalf("expected exit 3, got code=%d err=%v", res.ExitCode, err)
	}
	res, err = ExecRunner{}.Run(context.Background(), "edgecli-no-such-binary")
	if err == nil || res.ExitCode != 127 {
		t.Fatalf("expected exit 127, got code=%d err=%v", res.ExitCode, err)
	}
}

func TestExecRunnerTimeout(t *testing.T) {
	testlog.Start(t)
	res, err := ExecRunner{Timeout: 50 * time.Millisecond}.Run(context.Background(), "sleep", "5")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if res.ExitCode != -1 {
		t.Fatalf("unexpected exit code: %d", res.ExitCode)
	}
	if res.Duration > 4*time.Second {
		t.Fatalf("timeout not enforced: %s", res.Duration)
	}
}
