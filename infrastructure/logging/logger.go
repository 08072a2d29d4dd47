package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/discard"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// New builds a logger writing to w in the given format (cli, text, or json)
func New(level, format string, w io.Writer) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	var handler log.Handler
	switch strings.ToLower(format) {
	case "", "cli":
		handler = cli.New(w)
	case "text":
		handler = text.New(w)
	case "json":
		handler = json.New(w)
	default:
		return nil, fmt.Errorf("invalid log format %q (use cli, text, or json)", format)
	}

	return &log.Logger{Handler: handler, Level: lvl}, nil
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return &log.Logger{Handler: discard.New(), Level: log.FatalLevel}
}
