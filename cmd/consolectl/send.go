package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/danmuck/edgecli/internal/logging"
	"github.com/spf13/cobra"
)

func newSendCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send line...",
		Short: "Send command lines to a running console and print its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return sendLines(ctx, addr, args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:55555", "console address")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "overall deadline")
	return cmd
}

// sendLines writes each line followed by "quit" and copies the console's
// output to out until the server closes the session.
func sendLines(ctx context.Context, addr string, lines []string, out io.Writer) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial console %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	logging.Debugf("consolectl.send connected addr=%q lines=%d", addr, len(lines))

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\r\n")
	}
	sb.WriteString("quit\r\n")
	if _, err := io.WriteString(conn, sb.String()); err != nil {
		return fmt.Errorf("send to console: %w", err)
	}

	if _, err := io.Copy(crlfWriter{w: out}, conn); err != nil {
		return fmt.Errorf("read from console: %w", err)
	}
	return nil
}

// crlfWriter drops carriage returns so output reads naturally on a terminal.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write([]byte(strings.ReplaceAll(string(p), "\r", ""))); err != nil {
		return 0, err
	}
	return len(p), nil
}
