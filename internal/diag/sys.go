package diag

import (
	"context"
	"fmt"
	"io"

	"github.com/danmuck/edgecli/internal/logging"
	"github.com/danmuck/edgecli/internal/tools"
)

func sysCommands(runner tools.CommandRunner) []command {
	return []command{
		{name: "sys", fn: func(w io.Writer, _ []string) {
			usage(w, "sys run <cmd> [args...]")
		}, help: "Host commands"},
		{parent: "sys", name: "run", fn: func(w io.Writer, args []string) {
			runHost(w, runner, args)
		}, help: "run <cmd> [args...] on the host"},
	}
}

func runHost(w io.Writer, runner tools.CommandRunner, args []string) {
	if len(args) == 0 {
		usage(w, "sys run <cmd> [args...]")
		return
	}
	res, err := runner.Run(context.Background(), args[0], args[1:]...)
	_, _ = w.Write(res.Stdout)
	_, _ = w.Write(res.Stderr)
	if err != nil {
		logging.Warnf("diag.sys.run cmd=%q exit=%d err=%v", args[0], res.ExitCode, err)
		fmt.Fprintf(w, "exit=%d err=%v\n", res.ExitCode, err)
		return
	}
	fmt.Fprintf(w, "exit=%d took=%s\n", res.ExitCode, res.Duration)
}
