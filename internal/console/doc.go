// Package console owns the embedded debug console.
//
// Ownership boundary:
// - command registry (two-level, case-insensitive)
// - line session protocol (editing, history, prompt)
// - dispatch of built-in and user commands
// - output routing to the connected client
// - server goroutine lifecycle: init -> start -> stop -> term
//
// Execution model:
// - exactly one server goroutine per running console
//
// - one client served at a time; further connections wait in the listen backlog
//
// - handlers, hooks, and session I/O all run on the server goroutine
//
// A wedged handler blocks Stop. There is no per-session timeout.
package console
