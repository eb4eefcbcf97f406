package lib

import (
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	LogTimeFormat = "2006-01-02T15:04:05.000"
)

// ZeroConsoleLog sends the global logger to stderr, keeping stdout free
// for command output. pretty selects the console writer over JSON lines.
func ZeroConsoleLog(pretty, debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = zerolog.New(logWriter(os.Stderr, pretty)).With().Timestamp().Logger()
}

func logWriter(out *os.File, pretty bool) io.Writer {
	if !pretty {
		return out
	}
	if runtime.GOOS == "windows" {
		return zerolog.ConsoleWriter{Out: colorable.NewColorable(out), TimeFormat: LogTimeFormat}
	}
	return zerolog.ConsoleWriter{Out: out, NoColor: false, TimeFormat: LogTimeFormat}
}

// ComponentLogger returns the global logger tagged with component.
func ComponentLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
