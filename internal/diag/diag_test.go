package diag

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/edgecli/internal/console"
	"github.com/danmuck/edgecli/internal/testutil/testlog"
	"github.com/danmuck/edgecli/internal/tools"
	"github.com/rs/zerolog"
)

type recordingRegistrar struct {
	handlers map[string]console.HandlerFunc
	failOn   string
}

func newRecordingRegistrar() *recordingRegistrar {
	return &recordingRegistrar{handlers: map[string]console.HandlerFunc{}}
}

func (r *recordingRegistrar) RegisterCommand(parent, name string, fn console.HandlerFunc, _ string) error {
	key := path(parent, name)
	if key == r.failOn {
		return console.ErrCapacity
	}
	r.handlers[key] = fn
	return nil
}

func (r *recordingRegistrar) run(t *testing.T, key string, args ...string) string {
	t.Helper()
	fn, ok := r.handlers[key]
	if !ok {
		t.Fatalf("command %q not registered", key)
	}
	var out bytes.Buffer
	fn(&out, args)
	return out.String()
}

type fakeRunner struct {
	calls [][]string
	res   tools.Result
	err   error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (tools.Result, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.res, f.err
}

func TestRegisterWithoutExec(t *testing.T) {
	testlog.Start(t)
	r := newRecordingRegistrar()
	if err := Register(r, Options{Version: "v1.2.3"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, key := range []string{"runtime", "runtime goroutines", "runtime memstats", "runtime gc", "runtime version", "kv", "kv put", "kv get", "kv delete", "kv list", "log"} {
		if _, ok := r.handlers[key]; !ok {
			t.Fatalf("expected %q to be registered", key)
		}
	}
	if _, ok := r.handlers["sys run"]; ok {
		t.Fatalf("sys run must not be registered without allow_exec")
	}
	if out := r.run(t, "runtime version"); !strings.Contains(out, "version=v1.2.3") {
		t.Fatalf("unexpected version output: %q", out)
	}
	if out := r.run(t, "runtime memstats"); !strings.Contains(out, "heap_alloc") {
		t.Fatalf("unexpected memstats output: %q", out)
	}
}

func TestRegisterReportsFailure(t *testing.T) {
	testlog.Start(t)
	r := newRecordingRegistrar()
	r.failOn = "kv get"
	err := Register(r, Options{})
	if !errors.Is(err, console.ErrCapacity) {
		t.Fatalf("expected wrapped ErrCapacity, got %v", err)
	}
	if !strings.Contains(err.Error(), `"kv get"`) {
		t.Fatalf("error should name the command: %v", err)
	}
}

func TestKVCommands(t *testing.T) {
	testlog.Start(t)
	store := NewStore()
	r := newRecordingRegistrar()
	if err := Register(r, Options{Store: store}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if out := r.run(t, "kv put", "net.a", "hello", "world"); out != "ok put key=net.a\n" {
		t.Fatalf("unexpected put output: %q", out)
	}
	r.run(t, "kv put", "net.b", "2")
	r.run(t, "kv put", "disk.c", "3")

	if out := r.run(t, "kv get", "net.a"); out != "hello world\n" {
		t.Fatalf("unexpected get output: %q", out)
	}
	if out := r.run(t, "kv list", "net."); out != "net.a\nnet.b\n" {
		t.Fatalf("unexpected list output: %q", out)
	}
	if out := r.run(t, "kv delete", "net.a"); out != "ok delete key=net.a\n" {
		t.Fatalf("unexpected delete output: %q", out)
	}
	if out := r.run(t, "kv get", "net.a"); out != "missing key=net.a\n" {
		t.Fatalf("expected missing key after delete, got %q", out)
	}
	if out := r.run(t, "kv put", "only-key"); !strings.HasPrefix(out, "usage:") {
		t.Fatalf("expected usage, got %q", out)
	}
	if got := store.Keys(""); len(got) != 2 {
		t.Fatalf("unexpected keys: %v", got)
	}
}

func TestSysRunUsesRunner(t *testing.T) {
	testlog.Start(t)
	runner := &fakeRunner{res: tools.Result{Stdout: []byte("up 3 days\n")}}
	r := newRecordingRegistrar()
	if err := Register(r, Options{AllowExec: true, Runner: runner}); err != nil {
		t.Fatalf("register: %v", err)
	}

	out := r.run(t, "sys run", "uptime", "-p")
	if !strings.HasPrefix(out, "up 3 days\nexit=0") {
		t.Fatalf("unexpected run output: %q", out)
	}
	if len(runner.calls) != 1 || strings.Join(runner.calls[0], " ") != "uptime -p" {
		t.Fatalf("unexpected runner calls: %v", runner.calls)
	}

	runner.res = tools.Result{ExitCode: -1}
	runner.err = tools.ErrTimeout
	if out := r.run(t, "sys run", "sleep", "60"); !strings.Contains(out, "exit=-1") {
		t.Fatalf("expected failure line, got %q", out)
	}
	if out := r.run(t, "sys run"); !strings.HasPrefix(out, "usage:") {
		t.Fatalf("expected usage, got %q", out)
	}
}

func TestRegisterFitsDefaultConsoleLimits(t *testing.T) {
	testlog.Start(t)
	c := console.New()
	p := console.DefaultParams()
	p.Port = 0
	if err := c.Init(p); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = c.Term() }()

	if err := Register(c, Options{AllowExec: true}); err != nil {
		t.Fatalf("register: %v", err)
	}
	caps, err := c.Capabilities()
	if err != nil {
		t.Fatalf("capabilities: %v", err)
	}
	if caps.UserCommands != 13 || caps.ParentCommands != 3 {
		t.Fatalf("unexpected usage: %+v", caps)
	}
}

func TestLogCommandEchoesThroughBridge(t *testing.T) {
	testlog.Start(t)
	r := newRecordingRegistrar()
	if err := Register(r, Options{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	out := r.run(t, "log", "link", "flap", "eth0")
	if !strings.Contains(out, "INF") || !strings.Contains(out, "link flap eth0") {
		t.Fatalf("unexpected bridged output: %q", out)
	}
	if out := r.run(t, "log"); !strings.HasPrefix(out, "usage:") {
		t.Fatalf("expected usage, got %q", out)
	}
}

func TestLogCommandReportsFilteredLevel(t *testing.T) {
	testlog.Start(t)
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	r := newRecordingRegistrar()
	if err := Register(r, Options{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	out := r.run(t, "log", "link", "flap")
	if out != "log: not echoed, process log level is warn\n" {
		t.Fatalf("unexpected output under warn level: %q", out)
	}
}
