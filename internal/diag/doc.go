// Package diag is a pack of diagnostic commands that can be registered on
// any console.
//
// Ownership boundary:
// - runtime inspection commands
//
// - in-memory key/value scratch store
//
// - optional, time-bounded host command execution
package diag
