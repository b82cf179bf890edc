package repl

import (
	"slices"
	"strings"
	"unicode"

	"github.com/vegasq/toyquery/internal/dataset"
	"github.com/vegasq/toyquery/internal/query"
)

// Completer suggests the next word of a query line: verbs, dataset names
// after FROM or JOIN, and column names after verbs that take one.
// It implements readline.AutoCompleter.
type Completer struct {
	datasets []string
	columns  []string
}

// NewCompleter builds a completer from the dataset catalogue
func NewCompleter() *Completer {
	c := &Completer{}
	for _, d := range dataset.All {
		c.datasets = append(c.datasets, d.FileName())
		for _, name := range d.Schema().ColumnNames() {
			if !slices.Contains(c.columns, name) {
				c.columns = append(c.columns, name)
			}
		}
	}
	c.columns = append(c.columns, query.CountColumn)
	return c
}

// Do returns the suffixes completing the word under the cursor and the
// length of the prefix they extend.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	before := string(line[:pos])

	prefix := before
	if i := strings.LastIndexFunc(before, unicode.IsSpace); i >= 0 {
		prefix = before[i+1:]
	}
	previous := strings.Fields(strings.TrimSuffix(before, prefix))

	// SELECT lists complete the name after the last comma
	listPrefix := prefix
	if i := strings.LastIndexByte(prefix, ','); i >= 0 {
		listPrefix = prefix[i+1:]
	}

	candidates, word := c.candidates(previous), prefix
	if n := len(previous); n > 0 && previous[n-1] == query.VerbSelect {
		word = listPrefix
	}

	var out [][]rune
	for _, cand := range candidates {
		if strings.HasPrefix(cand, word) && cand != word {
			out = append(out, []rune(cand[len(word):]))
		}
	}
	return out, len([]rune(word))
}

func (c *Completer) candidates(previous []string) []string {
	n := len(previous)
	if n == 0 {
		return []string{query.VerbFrom, "help", "exit"}
	}

	last := previous[n-1]
	switch last {
	case query.VerbFrom, query.VerbJoin:
		return c.datasets
	case query.VerbSelect, query.VerbOrderBy, query.VerbCountBy:
		return c.columns
	case query.VerbTake:
		return nil
	}
	if n >= 2 && previous[n-2] == query.VerbJoin {
		return c.columns
	}
	return query.Verbs[1:]
}
