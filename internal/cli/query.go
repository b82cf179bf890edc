package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vegasq/toyquery/internal/output"
	"github.com/vegasq/toyquery/internal/query"
	"github.com/vegasq/toyquery/internal/repl"
)

func newQueryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <query...>",
		Short: "Run a single query and print the result",
		Example: `  toyquery query FROM language.csv TAKE 10
  toyquery query -f table "FROM city.csv ORDERBY CityPop TAKE 5"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd, strings.Join(args, " "))
		},
	}
}

func (a *app) runQuery(cmd *cobra.Command, line string) error {
	parsed, err := query.ParseLine(line)
	if err != nil {
		var syntaxErr *query.SyntaxError
		if errors.As(err, &syntaxErr) {
			return fmt.Errorf("%s%w", repl.MalformedPrefix, err)
		}
		return err
	}

	switch parsed.Kind {
	case query.CommandHelp:
		_, err := fmt.Fprintln(cmd.OutOrStdout(), repl.HelpText())
		return err
	case query.CommandQuery:
	default:
		return nil
	}

	formatter, err := output.NewFormatter(a.cfg.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	result, err := query.NewEvaluator(a.loader, a.logger).Evaluate(parsed.Operator)
	if err != nil {
		return err
	}
	return formatter.Format(result)
}
