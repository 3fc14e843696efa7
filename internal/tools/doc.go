// Package tools provides host helpers shared by diagnostic commands.
//
// Ownership boundary:
// - bounded local command execution
package tools
