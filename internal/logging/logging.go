// Package logging builds the go-kit logger shared by the CLI, the REPL and
// the dataset loaders.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Levels lists the accepted level names, most verbose first
var Levels = []string{"debug", "info", "warn", "error"}

// ParseLevel maps a level name to a go-kit filter option
func ParseLevel(s string) (level.Option, error) {
	switch strings.ToLower(s) {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	}
	return nil, fmt.Errorf("invalid log level %q (want one of %s)", s, strings.Join(Levels, ", "))
}

// New returns a logfmt logger writing to w that drops records below lvl
func New(w io.Writer, lvl string) (log.Logger, error) {
	opt, err := ParseLevel(lvl)
	if err != nil {
		return nil, err
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, opt)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.Caller(3))
	return logger, nil
}
