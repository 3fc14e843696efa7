package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/edgecli/internal/logging"
	"github.com/danmuck/edgecli/internal/observability"
)

// executor is the single capability shared by every dispatchable variant.
type executor interface {
	execute(s *session, args []string)
	label() string
}

// userCommand runs a registered handler.
type userCommand struct {
	cmd *Command
}

func (u userCommand) execute(s *session, args []string) { u.cmd.Handler(s.out, args) }

func (u userCommand) label() string { return u.cmd.Path() }

// enterContext runs a parent's own handler, then switches the session into
// that parent's context.
type enterContext struct {
	cmd *Command
}

func (e enterContext) execute(s *session, args []string) {
	e.cmd.Handler(s.out, args)
	s.current = e.cmd
}

func (e enterContext) label() string { return e.cmd.Path() }

// tokenize splits a line on whitespace. There is no quoting.
func tokenize(line string) []string {
	return strings.Fields(line)
}

// resolve applies dispatch precedence: built-ins, then children of the
// current parent context, then the registry.
func (s *session) resolve(argv []string) (executor, []string, error) {
	if b, ok := findBuiltin(argv[0]); ok {
		return b, argv[1:], nil
	}
	if s.current != nil {
		if child, ok := s.current.Child(argv[0]); ok {
			return userCommand{cmd: child}, argv[1:], nil
		}
	}
	cmd, args, err := s.registry.Resolve(argv)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCommand, argv[0])
	}
	if len(cmd.Children) > 0 && len(args) == 0 {
		return enterContext{cmd: cmd}, args, nil
	}
	return userCommand{cmd: cmd}, args, nil
}

// dispatch tokenizes one completed line and runs the matching command on
// the calling goroutine. Misses are reported to the client only.
func (s *session) dispatch(line string) {
	argv := tokenize(line)
	if len(argv) == 0 {
		return
	}
	s.argv = argv

	exec, args, err := s.resolve(argv)
	if err != nil {
		logging.Debugf("console.dispatch miss session=%s line=%q", s.id, line)
		observability.RecordCommand(s.params.Hostname, "-", observability.ResultUnknown, 0)
		fmt.Fprintf(s.out, "unknown command: %s (type 'help' for a list)\n", argv[0])
		return
	}
	s.invoke(exec, args)
}

func (s *session) invoke(exec executor, args []string) {
	start := time.Now()
	result := observability.ResultOK
	if _, ok := exec.(builtin); ok {
		result = observability.ResultBuiltin
	}
	defer func() {
		if r := recover(); r != nil {
			result = observability.ResultPanic
			logging.Errorf("console.dispatch panic session=%s command=%q err=%v", s.id, exec.label(), r)
			fmt.Fprintf(s.out, "command %s failed: %v\n", exec.label(), r)
		}
		observability.RecordCommand(s.params.Hostname, exec.label(), result, time.Since(start))
	}()
	exec.execute(s, args)
}
