package cli

import (
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vegasq/toyquery/internal/repl"
)

func newREPLCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive query session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runREPL(cmd)
		},
	}
}

// runREPL reads queries from stdin. A terminal gets line editing, history
// and completion; anything else is read line by line.
func (a *app) runREPL(cmd *cobra.Command) error {
	session, err := repl.NewSession(repl.Options{
		Loader: a.loader,
		Format: a.cfg.Format,
		Out:    cmd.OutOrStdout(),
		Color:  a.cfg.Color && !color.NoColor,
		Logger: a.logger,
	})
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if in != os.Stdin || !readline.DefaultIsTerminal() {
		return session.Run(repl.NewStreamReader(in))
	}

	rl, err := repl.NewTerminal(repl.TerminalOptions{
		Prompt:      a.cfg.Prompt,
		HistoryFile: a.cfg.HistoryFile,
		In:          io.NopCloser(in),
		Out:         cmd.OutOrStdout(),
		Err:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()

	return session.Run(rl)
}
