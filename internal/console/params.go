package console

import (
	"net"
	"strconv"
	"strings"
)

// Console parameter defaults.
const (
	DefaultAddress           = "127.0.0.1"
	DefaultPort              = 55555
	DefaultHostname          = "console"
	DefaultMaxUserCommands   = 50
	DefaultMaxParentCommands = 10
	DefaultHistorySize       = 256
	DefaultMaxLineLength     = 4096
)

// HookFunc runs on the server goroutine at startup or shutdown.
// A non-nil error marks the hook as failed.
type HookFunc func(arg any) error

// Params configures one console instance. They are captured at Init and
// never change until Term.
type Params struct {
	// Address is the IP address to bind.
	Address string
	// Port is the TCP port. Zero binds an ephemeral port.
	Port uint16
	// Hostname is the first part of the prompt.
	Hostname string
	// MaxUserCommands bounds top-level plus child registrations.
	MaxUserCommands int
	// MaxParentCommands bounds the children registered under any one parent.
	// It does not cap how many top-level commands own children; that count
	// is bounded only through MaxUserCommands.
	MaxParentCommands int
	// HistorySize bounds the per-session history ring.
	HistorySize int
	// MaxLineLength bounds one input line; extra bytes are dropped.
	MaxLineLength int

	ServerInit    HookFunc
	ServerInitArg any
	ServerTerm    HookFunc
	ServerTermArg any
}

// DefaultParams returns the documented defaults, including port 55555.
func DefaultParams() Params {
	return Params{
		Address:           DefaultAddress,
		Port:              DefaultPort,
		Hostname:          DefaultHostname,
		MaxUserCommands:   DefaultMaxUserCommands,
		MaxParentCommands: DefaultMaxParentCommands,
		HistorySize:       DefaultHistorySize,
		MaxLineLength:     DefaultMaxLineLength,
	}
}

// WithDefaults fills zero-valued fields. Port is left untouched so that
// zero keeps meaning "ephemeral".
func (p Params) WithDefaults() Params {
	out := p
	out.Address = strings.TrimSpace(out.Address)
	if out.Address == "" {
		out.Address = DefaultAddress
	}
	out.Hostname = strings.TrimSpace(out.Hostname)
	if out.Hostname == "" {
		out.Hostname = DefaultHostname
	}
	if out.MaxUserCommands <= 0 {
		out.MaxUserCommands = DefaultMaxUserCommands
	}
	if out.MaxParentCommands <= 0 {
		out.MaxParentCommands = DefaultMaxParentCommands
	}
	if out.HistorySize <= 0 {
		out.HistorySize = DefaultHistorySize
	}
	if out.MaxLineLength <= 0 {
		out.MaxLineLength = DefaultMaxLineLength
	}
	return out
}

// ListenAddr joins Address and Port into a dialable host:port string.
func (p Params) ListenAddr() string {
	return net.JoinHostPort(p.Address, strconv.Itoa(int(p.Port)))
}
