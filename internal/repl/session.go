// Package repl runs the interactive query loop: read a line, parse it,
// evaluate it and print the result or the error.
package repl

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/vegasq/toyquery/internal/dataset"
	"github.com/vegasq/toyquery/internal/output"
	"github.com/vegasq/toyquery/internal/query"
)

// Banner lines printed when a session starts
const (
	BannerTitle = "Toy Query Engine v0.1"
	BannerHint  = "Enter your query, or 'help' for more information or 'exit' to exit."
	Farewell    = "Goodbye!"
)

// MalformedPrefix starts every syntax error line
const MalformedPrefix = "Malformed input. "

// Options configures a Session
type Options struct {
	Loader dataset.Loader
	Format string
	Out    io.Writer
	Color  bool
	Logger log.Logger
}

// Session processes query lines one at a time. It holds no query state; the
// only thing shared between lines is the output configuration.
type Session struct {
	id        string
	evaluator *query.Evaluator
	formatter output.Formatter
	out       io.Writer
	errColor  *color.Color
	logger    log.Logger
}

// NewSession creates a session writing results and errors to opts.Out
func NewSession(opts Options) (*Session, error) {
	if opts.Loader == nil {
		return nil, errors.New("repl: a dataset loader is required")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}

	formatter, err := output.NewFormatter(opts.Format, opts.Out)
	if err != nil {
		return nil, err
	}

	errColor := color.New(color.FgRed)
	if opts.Color {
		errColor.EnableColor()
	} else {
		errColor.DisableColor()
	}

	id := uuid.NewString()
	return &Session{
		id:        id,
		evaluator: query.NewEvaluator(opts.Loader, opts.Logger),
		formatter: formatter,
		out:       opts.Out,
		errColor:  errColor,
		logger:    log.With(opts.Logger, "session", id),
	}, nil
}

// ID returns the session id used in log records
func (s *Session) ID() string {
	return s.id
}

// Banner prints the greeting
func (s *Session) Banner() {
	fmt.Fprintln(s.out, BannerTitle)
	fmt.Fprintln(s.out, BannerHint)
}

// ProcessLine handles one input line and reports whether the session
// should end.
func (s *Session) ProcessLine(line string) bool {
	cmd, err := query.ParseLine(line)
	if err != nil {
		level.Debug(s.logger).Log("msg", "rejected input", "err", err)
		s.printError(MalformedPrefix + err.Error())
		return false
	}

	switch cmd.Kind {
	case query.CommandExit:
		fmt.Fprintln(s.out, Farewell)
		return true
	case query.CommandHelp:
		fmt.Fprintln(s.out, HelpText())
	case query.CommandQuery:
		s.runQuery(cmd.Operator)
	}
	return false
}

func (s *Session) runQuery(op query.Operator) {
	result, err := s.evaluator.Evaluate(op)
	if err != nil {
		level.Debug(s.logger).Log("msg", "query failed", "query", op, "err", err)
		s.printError(err.Error())
		return
	}
	if err := s.formatter.Format(result); err != nil {
		level.Error(s.logger).Log("msg", "failed to write result", "err", err)
		return
	}
	fmt.Fprintln(s.out)
}

func (s *Session) printError(msg string) {
	s.errColor.Fprintln(s.out, msg)
}

// LineReader yields input lines. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
}

// Run reads lines until exit or end of input
func (s *Session) Run(r LineReader) error {
	level.Info(s.logger).Log("msg", "session started")
	defer level.Info(s.logger).Log("msg", "session ended")

	s.Banner()
	for {
		line, err := r.Readline()
		switch {
		case errors.Is(err, errInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}
		if s.ProcessLine(line) {
			return nil
		}
	}
}
