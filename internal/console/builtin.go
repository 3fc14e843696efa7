package console

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// builtin is a console-owned command. Built-in names are reserved at every
// nesting level and always win dispatch.
type builtin struct {
	names []string
	help  string
	run   func(s *session, args []string)
}

func (b builtin) execute(s *session, args []string) { b.run(s, args) }

func (b builtin) label() string { return b.names[0] }

func builtins() []builtin {
	return []builtin{
		{names: []string{"help", "?"}, help: "List available commands", run: (*session).showHelp},
		{names: []string{"history"}, help: "List previously entered lines", run: (*session).showHistory},
		{names: []string{"exit"}, help: "Leave the current parent context, or end the session", run: (*session).exit},
		{names: []string{"quit"}, help: "End the session", run: (*session).quit},
		{names: []string{"/"}, help: "Leave the current parent context", run: (*session).leaveContext},
	}
}

func findBuiltin(name string) (builtin, bool) {
	for _, b := range builtins() {
		for _, n := range b.names {
			if strings.EqualFold(n, name) {
				return b, true
			}
		}
	}
	return builtin{}, false
}

func isReserved(name string) bool {
	_, ok := findBuiltin(name)
	return ok
}

func (s *session) showHelp(_ []string) {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Built-in commands:")
	for _, b := range builtins() {
		fmt.Fprintf(tw, "  %s\t%s\n", strings.Join(b.names, ", "), b.help)
	}
	cmds := s.registry.Commands()
	if len(cmds) > 0 {
		fmt.Fprintln(tw, "Commands:")
	}
	for _, cmd := range cmds {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.Name, cmd.Help)
		for _, child := range cmd.Children {
			fmt.Fprintf(tw, "  %s %s\t%s\n", cmd.Name, child.Name, child.Help)
		}
	}
	_ = tw.Flush()
}

func (s *session) showHistory(_ []string) {
	for i, line := range s.history.lines() {
		fmt.Fprintf(s.out, "%5d  %s\n", i+1, line)
	}
}

func (s *session) exit(args []string) {
	if s.current != nil {
		s.leaveContext(args)
		return
	}
	s.quit(args)
}

func (s *session) quit(_ []string) {
	s.closing = true
}

func (s *session) leaveContext(_ []string) {
	s.current = nil
}
