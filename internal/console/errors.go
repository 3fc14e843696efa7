package console

import (
	"errors"
	"fmt"
)

var (
	ErrLifecycleOrder     = errors.New("console: invalid lifecycle transition")
	ErrAlreadyInitialized = errors.New("console: already initialized")

	ErrInvalidCommand = errors.New("console: invalid command")
	ErrNameConflict   = errors.New("console: command name conflict")
	ErrUnknownParent  = errors.New("console: unknown parent command")
	ErrCapacity       = errors.New("console: command capacity exhausted")
	ErrNotFound       = errors.New("console: command not found")

	ErrBindFailed        = errors.New("console: bind failed")
	ErrAcceptFailed      = errors.New("console: accept failed")
	ErrServerSpawnFailed = errors.New("console: server goroutine failed to start")
	ErrInitHookFailed    = errors.New("console: server init hook failed")
	ErrTermHookFailed    = errors.New("console: server term hook failed")

	ErrUnknownCommand = errors.New("console: unknown command")
	ErrWriteFailed    = errors.New("console: client write failed")
	ErrNotConnected   = errors.New("console: no client connected")
)

func transitionError(from State, op string) error {
	return fmt.Errorf("%w: %s in state %s", ErrLifecycleOrder, op, from)
}
