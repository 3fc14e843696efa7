package logging

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Tracef(format string, args ...any) { log.Trace().Msgf(format, args...) }

func Debugf(format string, args ...any) { log.Debug().Msgf(format, args...) }

func Infof(format string, args ...any) { log.Info().Msgf(format, args...) }

func Warnf(format string, args ...any) { log.Warn().Msgf(format, args...) }

func Errorf(format string, args ...any) { log.Error().Msgf(format, args...) }

// Logf writes an unleveled line; used by tests to narrate progress.
func Logf(format string, args ...any) { log.Log().Msgf(format, args...) }

// Enabled reports whether records at l pass the process-wide level.
func Enabled(l zerolog.Level) bool {
	return l >= zerolog.GlobalLevel()
}

// Bridge returns a logger that renders plain lines into w.
// Pair it with a console output router to forward application logs to the
// connected operator. zerolog's global level still applies, so records below
// EDGECLI_LOG_LEVEL never reach w; check Enabled first when the caller needs
// to tell the operator.
func Bridge(w io.Writer) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(cw).Level(zerolog.GlobalLevel())
}
