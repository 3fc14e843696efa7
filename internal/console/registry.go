package console

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

// HandlerFunc is a user command body. w routes output to the connected
// client. args holds the tokens after the matched command name(s), so
// "kv put a 1" registered as kv/put receives ["a", "1"].
type HandlerFunc func(w io.Writer, args []string)

// Command is one registry node. Names keep their registration case for
// display and are matched case-insensitively.
type Command struct {
	Name     string
	Help     string
	Handler  HandlerFunc
	Parent   *Command
	Children []*Command
}

// Path returns the space-joined invocation path, e.g. "kv put".
func (c *Command) Path() string {
	if c.Parent == nil {
		return c.Name
	}
	return c.Parent.Name + " " + c.Name
}

// Child finds a child by case-insensitive name.
func (c *Command) Child(name string) (*Command, bool) {
	return findCommand(c.Children, name)
}

// Registry stores top-level commands and their children.
// It is mutated only before Start and read only by the server goroutine
// afterwards, so it carries no lock.
type Registry struct {
	maxCommands int
	maxChildren int
	count       int
	top         []*Command
}

// NewRegistry creates an empty registry. maxCommands bounds all nodes;
// maxChildren bounds the child list of any one parent.
func NewRegistry(maxCommands, maxChildren int) *Registry {
	return &Registry{
		maxCommands: maxCommands,
		maxChildren: maxChildren,
	}
}

// Register adds name at top level, or under parent when parent is non-empty.
// It leaves the registry untouched on failure.
func (r *Registry) Register(parent, name string, fn HandlerFunc, help string) error {
	name = strings.TrimSpace(name)
	parent = strings.TrimSpace(parent)
	if err := validateName(name); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("%w: %q has no handler", ErrInvalidCommand, name)
	}
	if isReserved(name) {
		return fmt.Errorf("%w: %q is a built-in command", ErrNameConflict, name)
	}

	var owner *Command
	siblings := r.top
	if parent != "" {
		p, ok := findCommand(r.top, parent)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParent, parent)
		}
		owner = p
		siblings = p.Children
	}
	if existing, ok := findCommand(siblings, name); ok {
		return fmt.Errorf("%w: %q collides with %q", ErrNameConflict, name, existing.Path())
	}
	if r.count >= r.maxCommands {
		return fmt.Errorf("%w: %d user commands registered", ErrCapacity, r.count)
	}
	if owner != nil && len(owner.Children) >= r.maxChildren {
		return fmt.Errorf("%w: %q already has %d sub-commands", ErrCapacity, owner.Name, len(owner.Children))
	}

	cmd := &Command{Name: name, Help: help, Handler: fn, Parent: owner}
	if owner != nil {
		owner.Children = append(owner.Children, cmd)
	} else {
		r.top = append(r.top, cmd)
	}
	r.count++
	return nil
}

// Resolve maps the leading tokens of a line onto a command, preferring a
// parent+child pair over a bare top-level match. It returns the remaining
// tokens as handler arguments.
func (r *Registry) Resolve(tokens []string) (*Command, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, ErrNotFound
	}
	cmd, ok := findCommand(r.top, tokens[0])
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrNotFound, tokens[0])
	}
	if len(tokens) > 1 {
		if child, ok := cmd.Child(tokens[1]); ok {
			return child, tokens[2:], nil
		}
	}
	return cmd, tokens[1:], nil
}

// Lookup returns the top-level command called name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	return findCommand(r.top, name)
}

// Commands returns top-level commands in registration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.top))
	copy(out, r.top)
	return out
}

// Len is the total number of registered nodes.
func (r *Registry) Len() int {
	return r.count
}

// Parents counts top-level commands that own at least one child.
func (r *Registry) Parents() int {
	n := 0
	for _, cmd := range r.top {
		if len(cmd.Children) > 0 {
			n++
		}
	}
	return n
}

func findCommand(list []*Command, name string) (*Command, bool) {
	for _, cmd := range list {
		if strings.EqualFold(cmd.Name, name) {
			return cmd, true
		}
	}
	return nil, false
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidCommand)
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidCommand, name)
	}
	return nil
}
