package diag

import (
	"fmt"
	"io"
	"time"

	"github.com/danmuck/edgecli/internal/console"
	"github.com/danmuck/edgecli/internal/logging"
	"github.com/danmuck/edgecli/internal/tools"
)

const DefaultExecTimeout = 10 * time.Second

// Registrar is the part of *console.Console the pack needs.
type Registrar interface {
	RegisterCommand(parent, name string, fn console.HandlerFunc, help string) error
}

// Options selects which command groups are registered.
type Options struct {
	Version     string
	AllowExec   bool
	ExecTimeout time.Duration
	// Runner overrides the host runner used by "sys run".
	Runner tools.CommandRunner
	// Store is shared by "kv" commands. A fresh store is used when nil.
	Store *Store
}

type command struct {
	parent string
	name   string
	fn     console.HandlerFunc
	help   string
}

// Register adds the runtime, kv, and log commands, plus sys when AllowExec
// is set.
// It stops at the first registration failure.
func Register(r Registrar, opts Options) error {
	cmds := runtimeCommands(opts.Version)
	store := opts.Store
	if store == nil {
		store = NewStore()
	}
	cmds = append(cmds, store.commands()...)
	cmds = append(cmds, logCommands()...)
	if opts.AllowExec {
		runner := opts.Runner
		if runner == nil {
			timeout := opts.ExecTimeout
			if timeout <= 0 {
				timeout = DefaultExecTimeout
			}
			runner = tools.ExecRunner{Timeout: timeout}
		}
		cmds = append(cmds, sysCommands(runner)...)
	}

	for _, cmd := range cmds {
		if err := r.RegisterCommand(cmd.parent, cmd.name, cmd.fn, cmd.help); err != nil {
			return fmt.Errorf("diag: register %q: %w", path(cmd.parent, cmd.name), err)
		}
	}
	logging.Infof("diag.Register ok commands=%d allow_exec=%t", len(cmds), opts.AllowExec)
	return nil
}

func path(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + " " + name
}

// usage prints a one-line usage hint in the shared format.
func usage(w io.Writer, text string) {
	fmt.Fprintf(w, "usage: %s\n", text)
}
