package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/vegasq/toyquery/internal/query"
)

var errInterrupt = readline.ErrInterrupt

// TerminalOptions configures the line editor
type TerminalOptions struct {
	Prompt      string
	HistoryFile string
	In          io.ReadCloser
	Out         io.Writer
	Err         io.Writer
}

// NewTerminal creates a readline instance with history and completion
func NewTerminal(opts TerminalOptions) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          opts.Prompt,
		HistoryFile:     opts.HistoryFile,
		AutoComplete:    NewCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           opts.In,
		Stdout:          opts.Out,
		Stderr:          opts.Err,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize REPL: %w", err)
	}
	return rl, nil
}

// streamReader reads lines from a plain stream, for piped input
type streamReader struct {
	r *bufio.Reader
}

// NewStreamReader returns a LineReader over r without line editing
func NewStreamReader(r io.Reader) LineReader {
	return &streamReader{r: bufio.NewReader(r)}
}

// Readline returns the next line without its terminator. A line longer than
// query.MaxLineLength is cut one byte past the limit and the rest of it is
// discarded, so the validator rejects it and reading resumes at the next line.
func (s *streamReader) Readline() (string, error) {
	var line []byte
	for {
		chunk, isPrefix, err := s.r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				return string(line), nil
			}
			return "", err
		}
		if room := query.MaxLineLength + 1 - len(line); room > 0 {
			line = append(line, chunk[:min(room, len(chunk))]...)
		}
		if !isPrefix {
			return string(line), nil
		}
	}
}
