package console

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/danmuck/edgecli/internal/logging"
	"github.com/danmuck/edgecli/internal/observability"
	"github.com/google/uuid"
)

// session is the transient state of one client connection.
type session struct {
	id       string
	conn     net.Conn
	out      *outputRouter
	registry *Registry
	params   Params

	editor  *lineEditor
	history *history
	argv    []string
	current *Command
	closing bool
}

func newSession(conn net.Conn, out *outputRouter, reg *Registry, params Params) *session {
	return &session{
		id:       uuid.NewString(),
		conn:     conn,
		out:      out,
		registry: reg,
		params:   params,
		editor:   newLineEditor(params.MaxLineLength),
		history:  newHistory(params.HistorySize),
	}
}

// prompt renders "<host>> " or "<host>(<parent>)> " inside a parent context.
func (s *session) prompt() string {
	if s.current != nil {
		return s.params.Hostname + "(" + s.current.Name + ")> "
	}
	return s.params.Hostname + "> "
}

func (s *session) writePrompt() error {
	_, err := io.WriteString(s.out, s.prompt())
	return err
}

// run serves the connection until the client quits, hangs up, or the
// connection is closed underneath it by Stop.
func (s *session) run() error {
	remote := s.conn.RemoteAddr().String()
	observability.RecordSession(s.params.Hostname)
	logging.Infof("console.session connected session=%s remote=%q", s.id, remote)
	defer func() {
		logging.Infof("console.session disconnected session=%s remote=%q lines=%d", s.id, remote, s.history.len())
	}()

	if err := s.writePrompt(); err != nil {
		return err
	}
	r := bufio.NewReader(s.conn)
	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		line, res := s.editor.Feed(b)
		switch res {
		case editPending:
			continue
		case editHangup:
			return nil
		case editCancel:
			if _, err := io.WriteString(s.out, "^C\n"); err != nil {
				return err
			}
		case editLine:
			s.accept(line)
			if s.closing {
				return nil
			}
		}
		if err := s.writePrompt(); err != nil {
			return err
		}
	}
}

// accept records a completed line in history and dispatches it.
func (s *session) accept(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	s.history.add(line)
	s.dispatch(line)
}
