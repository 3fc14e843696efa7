package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/edgecli/internal/logging"
	"github.com/rs/zerolog"
)

func logCommands() []command {
	return []command{
		{name: "log", fn: logMessage, help: "log <message...> to the process log and this session"},
	}
}

// logMessage sends one message to the process logger and echoes it to the
// client through a bridged logger.
func logMessage(w io.Writer, args []string) {
	if len(args) == 0 {
		usage(w, "log <message...>")
		return
	}
	msg := strings.Join(args, " ")
	if !logging.Enabled(zerolog.InfoLevel) {
		fmt.Fprintf(w, "log: not echoed, process log level is %s\n", zerolog.GlobalLevel())
		return
	}
	logging.Infof("diag.log msg=%q", msg)
	bridge := logging.Bridge(w)
	bridge.Info().Msg(msg)
}
