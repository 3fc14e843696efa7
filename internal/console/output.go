package console

import (
	"fmt"
	"net"
	"sync"

	"github.com/danmuck/edgecli/internal/observability"
)

// outputRouter is the single sink for command output and bridged logs.
// It rewrites bare "\n" into "\r\n" for the connected client.
type outputRouter struct {
	mu     sync.Mutex
	host   string
	conn   net.Conn
	lastCR bool
	wire   []byte
}

func newOutputRouter(host string) *outputRouter {
	return &outputRouter{host: host}
}

func (o *outputRouter) attach(conn net.Conn) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.conn = conn
	o.lastCR = false
}

func (o *outputRouter) detach() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.conn = nil
}

// Write sends p to the client. The count excludes line ending conversions.
func (o *outputRouter) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.conn == nil {
		return 0, ErrNotConnected
	}
	if len(p) == 0 {
		return 0, nil
	}

	o.wire = o.wire[:0]
	for _, b := range p {
		if b == '\n' && !o.lastCR {
			o.wire = append(o.wire, '\r')
		}
		o.wire = append(o.wire, b)
		o.lastCR = b == '\r'
	}
	n, err := o.conn.Write(o.wire)
	observability.RecordOutput(o.host, n)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return len(p), nil
}

// Printf formats and writes one message.
func (o *outputRouter) Printf(format string, args ...any) (int, error) {
	return o.printArgs(format, args)
}

// printArgs is the shared funnel for formatted and pre-collected arguments.
func (o *outputRouter) printArgs(format string, args []any) (int, error) {
	return o.Write([]byte(fmt.Sprintf(format, args...)))
}
