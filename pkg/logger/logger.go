// pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	setLogger(newLogger(consoleWriter(os.Stdout), zerolog.InfoLevel))
}

// setLogger installs l as both Log and the zerolog/log package logger, so
// packages logging through either share one configuration.
func setLogger(l zerolog.Logger) {
	Log = l
	zlog.Logger = l
}

func consoleWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLevel sets the log level. Server modes ("debug", "release") are accepted
// as aliases so the server mode can be passed straight through.
func SetLevel(levelStr string) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "release":
		levelStr = "info"
	case "test":
		levelStr = "warn"
	}

	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	setLogger(Log.Level(level))
}

// SetFormat switches between console ("console", default) and structured JSON
// ("json") output on stdout.
func SetFormat(format string) {
	level := Log.GetLevel()
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		setLogger(newLogger(os.Stdout, level))
		return
	}
	setLogger(newLogger(consoleWriter(os.Stdout), level))
}

// SetOutput redirects the global logger, mainly for tests.
func SetOutput(w io.Writer) {
	setLogger(newLogger(w, Log.GetLevel()))
}
