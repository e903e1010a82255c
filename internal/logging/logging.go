// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/phuslu/log"
)

// New returns a console logger writing to w at level (debug, info, warn,
// error). Color is used unless noColor is set.
func New(w io.Writer, level string, noColor bool) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return &log.Logger{
		Level: lvl,
		Writer: &log.ConsoleWriter{
			Writer:      w,
			ColorOutput: !noColor,
			QuoteString: true,
		},
	}, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.FatalLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}

func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
}
