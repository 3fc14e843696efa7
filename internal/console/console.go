package console

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/danmuck/edgecli/internal/logging"
	"github.com/danmuck/edgecli/internal/observability"
)

const acceptRetryDelay = 50 * time.Millisecond

// Console is one embedded debug console instance. The embedding application
// owns it and is responsible for calling lifecycle methods from a single
// goroutine.
type Console struct {
	mu       sync.Mutex
	state    State
	params   Params
	registry *Registry
	out      *outputRouter

	ln       net.Listener
	active   net.Conn
	stopping bool
	done     chan error
}

// New returns an uninitialized console.
func New() *Console {
	return &Console{state: StateUninitialized}
}

// State reports the current lifecycle state.
func (c *Console) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Addr returns the listening address while running, or nil.
func (c *Console) Addr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ln == nil {
		return nil
	}
	return c.ln.Addr()
}

// Init stores params and allocates an empty registry.
func (c *Console) Init(p Params) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateUninitialized:
	case StateInitialized, StateRunning:
		return fmt.Errorf("%w: %w", ErrAlreadyInitialized, transitionError(c.state, "init"))
	default:
		return transitionError(c.state, "init")
	}

	p = p.WithDefaults()
	c.params = p
	c.registry = NewRegistry(p.MaxUserCommands, p.MaxParentCommands)
	c.out = newOutputRouter(p.Hostname)
	c.setState(StateInitialized)
	logging.Infof(
		"console.Init ok host=%q addr=%q max_user_commands=%d max_parent_commands=%d",
		p.Hostname,
		p.ListenAddr(),
		p.MaxUserCommands,
		p.MaxParentCommands,
	)
	return nil
}

// RegisterCommand adds a user command, optionally under an existing
// top-level parent. Only legal between Init and Start.
func (c *Console) RegisterCommand(parent, name string, fn HandlerFunc, help string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInitialized {
		return transitionError(c.state, "register")
	}
	if err := c.registry.Register(parent, name, fn, help); err != nil {
		return err
	}
	logging.Debugf("console.RegisterCommand parent=%q name=%q", parent, name)
	return nil
}

// Start spawns the server goroutine and blocks until it is accepting
// connections or has reported a startup failure. On failure the console
// stays initialized and Start may be retried.
func (c *Console) Start() error {
	c.mu.Lock()
	if c.state != StateInitialized {
		st := c.state
		c.mu.Unlock()
		return transitionError(st, "start")
	}
	params := c.params
	c.stopping = false
	c.mu.Unlock()

	ready := make(chan error, 1)
	done := make(chan error, 1)
	go c.serve(params, ready, done)

	if err := <-ready; err != nil {
		<-done
		logging.Warnf("console.Start failed host=%q err=%v", params.Hostname, err)
		return err
	}

	c.mu.Lock()
	c.done = done
	c.setState(StateRunning)
	c.mu.Unlock()
	logging.Infof("console.Start listening host=%q addr=%q", params.Hostname, c.Addr())
	return nil
}

// Stop closes the listener and any active client, waits for the server
// goroutine to exit, and reports the term hook result. The console is
// stopped even when the term hook fails.
func (c *Console) Stop() error {
	c.mu.Lock()
	if c.state != StateRunning {
		st := c.state
		c.mu.Unlock()
		return transitionError(st, "stop")
	}
	c.stopping = true
	ln, conn, done := c.ln, c.active, c.done
	c.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	if conn != nil {
		_ = conn.Close()
	}
	termErr := <-done

	c.mu.Lock()
	c.ln = nil
	c.active = nil
	c.done = nil
	c.setState(StateStopped)
	c.mu.Unlock()

	if termErr != nil {
		logging.Warnf("console.Stop term hook failed host=%q err=%v", c.params.Hostname, termErr)
		return termErr
	}
	logging.Infof("console.Stop ok host=%q", c.params.Hostname)
	return nil
}

// Term releases the registry and parameters.
func (c *Console) Term() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInitialized && c.state != StateStopped {
		return transitionError(c.state, "term")
	}
	host := c.params.Hostname
	c.setState(StateUninitialized)
	c.registry = nil
	c.out = nil
	c.params = Params{}
	logging.Infof("console.Term ok host=%q", host)
	return nil
}

// Logf writes formatted output to the connected client. It is meant to be
// called from command handlers. The count excludes line ending conversion.
func (c *Console) Logf(format string, args ...any) (int, error) {
	return c.LogArgs(format, args)
}

// LogArgs is Logf for callers that already hold the argument list, such as
// application log adapters.
func (c *Console) LogArgs(format string, args []any) (int, error) {
	c.mu.Lock()
	out := c.out
	c.mu.Unlock()
	if out == nil {
		return 0, ErrNotConnected
	}
	return out.printArgs(format, args)
}

// Writer returns an io.Writer onto the connected client, for bridging
// application loggers. Writes fail with ErrNotConnected between sessions.
func (c *Console) Writer() io.Writer {
	return consoleWriter{c: c}
}

type consoleWriter struct {
	c *Console
}

func (w consoleWriter) Write(p []byte) (int, error) {
	w.c.mu.Lock()
	out := w.c.out
	w.c.mu.Unlock()
	if out == nil {
		return 0, ErrNotConnected
	}
	return out.Write(p)
}

func (c *Console) setState(st State) {
	c.state = st
	if c.params.Hostname != "" {
		observability.SetConsoleState(c.params.Hostname, int(st))
	}
}

// serve is the server goroutine body.
func (c *Console) serve(p Params, ready chan<- error, done chan<- error) {
	ln, err := c.startup(p)
	if err != nil {
		ready <- err
		close(done)
		return
	}
	ready <- nil

	c.acceptLoop(ln, p)
	_ = ln.Close()
	done <- runHook(p.ServerTerm, p.ServerTermArg, ErrTermHookFailed)
}

func (c *Console) startup(p Params) (ln net.Listener, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ln != nil {
				_ = ln.Close()
				ln = nil
			}
			err = fmt.Errorf("%w: %v", ErrServerSpawnFailed, r)
		}
	}()

	if err := runHook(p.ServerInit, p.ServerInitArg, ErrInitHookFailed); err != nil {
		return nil, err
	}
	ln, err = net.Listen("tcp", p.ListenAddr())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBindFailed, p.ListenAddr(), err)
	}
	c.mu.Lock()
	c.ln = ln
	c.mu.Unlock()
	return ln, nil
}

// acceptLoop serves one connection at a time until Stop closes ln.
func (c *Console) acceptLoop(ln net.Listener, p Params) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if c.isStopping() || errors.Is(err, net.ErrClosed) {
				return
			}
			logging.Warnf("console.acceptLoop err=%v", fmt.Errorf("%w: %v", ErrAcceptFailed, err))
			time.Sleep(acceptRetryDelay)
			continue
		}
		sess, ok := c.attach(conn, p)
		if !ok {
			_ = conn.Close()
			return
		}
		if err := sess.run(); err != nil && !c.isStopping() {
			logging.Warnf("console.session ended session=%s err=%v", sess.id, err)
		}
		c.detach(conn)
	}
}

func (c *Console) attach(conn net.Conn, p Params) (*session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopping {
		return nil, false
	}
	c.active = conn
	c.out.attach(conn)
	return newSession(conn, c.out, c.registry, p), true
}

func (c *Console) detach(conn net.Conn) {
	c.mu.Lock()
	c.out.detach()
	if c.active == conn {
		c.active = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *Console) isStopping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopping
}

// runHook invokes fn and converts an error or panic into kind.
func runHook(fn HookFunc, arg any, kind error) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", kind, r)
		}
	}()
	if hookErr := fn(arg); hookErr != nil {
		return fmt.Errorf("%w: %v", kind, hookErr)
	}
	return nil
}
