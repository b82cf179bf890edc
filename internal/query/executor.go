package query

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/vegasq/toyquery/internal/dataset"
	"github.com/vegasq/toyquery/internal/table"
)

// Evaluator resolves operator chains into tables. It keeps no state between
// calls; every From and Join leaf loads its dataset again.
type Evaluator struct {
	loader dataset.Loader
	logger log.Logger
}

// NewEvaluator creates an evaluator that loads datasets with loader
func NewEvaluator(loader dataset.Loader, logger log.Logger) *Evaluator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Evaluator{loader: loader, logger: logger}
}

// Evaluate runs the chain ending at op. The first failing operator aborts
// evaluation and its error is returned; no partial table is produced.
func (e *Evaluator) Evaluate(op Operator) (*table.Table, error) {
	level.Debug(e.logger).Log("msg", "evaluating", "query", op, "depth", Depth(op))
	return e.evaluate(op)
}

func (e *Evaluator) evaluate(op Operator) (*table.Table, error) {
	switch op := op.(type) {
	case *From:
		return e.load(op.Dataset, VerbFrom)
	case *Select:
		return e.executeSelect(op)
	case *Take:
		return e.executeTake(op)
	case *OrderBy:
		return e.executeOrderBy(op)
	case *CountBy:
		return e.executeCountBy(op)
	case *Join:
		return e.executeJoin(op)
	case nil:
		return nil, fmt.Errorf("empty operator chain")
	default:
		return nil, fmt.Errorf("unsupported operator %T", op)
	}
}

// load materializes d on behalf of verb
func (e *Evaluator) load(d dataset.Dataset, verb string) (*table.Table, error) {
	t, err := e.loader.Load(d)
	if err != nil {
		return nil, &LoadError{Dataset: d, Verb: verb, Err: err}
	}
	level.Debug(e.logger).Log("msg", "dataset loaded", "dataset", d, "verb", verb, "rows", t.Len())
	return t, nil
}

// columnIndex resolves column in t, the table produced by chain
func columnIndex(t *table.Table, column string, chain Operator, verb string) (int, error) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return 0, &NoSuchColumnError{Verb: verb, Column: column, Chain: chain}
	}
	return idx, nil
}

func (e *Evaluator) executeSelect(op *Select) (*table.Table, error) {
	input, err := e.evaluate(op.Chain)
	if err != nil {
		return nil, err
	}

	indices := make([]int, len(op.Columns))
	var numeric []string
	for i, name := range op.Columns {
		idx, err := columnIndex(input, name, op.Chain, VerbSelect)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
		if input.IsNumeric(name) {
			numeric = append(numeric, name)
		}
	}

	rows := make([]table.Row, input.Len())
	for i, row := range input.Rows() {
		projected, err := row.Project(indices)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", VerbSelect, err)
		}
		rows[i] = projected
	}

	out, err := table.New(op.Columns, numeric, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", VerbSelect, err)
	}
	return out, nil
}

func (e *Evaluator) executeTake(op *Take) (*table.Table, error) {
	input, err := e.evaluate(op.Chain)
	if err != nil {
		return nil, err
	}
	return input.Head(op.Count), nil
}

func (e *Evaluator) executeOrderBy(op *OrderBy) (*table.Table, error) {
	input, err := e.evaluate(op.Chain)
	if err != nil {
		return nil, err
	}

	if !input.IsNumeric(op.Column) {
		return nil, &NonNumericColumnError{Column: op.Column}
	}
	idx, err := columnIndex(input, op.Column, op.Chain, VerbOrderBy)
	if err != nil {
		return nil, err
	}

	sorted, err := input.SortDescending(idx)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", VerbOrderBy, op.Column, err)
	}
	return sorted, nil
}

func (e *Evaluator) executeCountBy(op *CountBy) (*table.Table, error) {
	input, err := e.evaluate(op.Chain)
	if err != nil {
		return nil, err
	}

	idx, err := columnIndex(input, op.Column, op.Chain, VerbCountBy)
	if err != nil {
		return nil, err
	}

	// groups are kept in first-seen order so ties in the count sort are
	// deterministic
	positions := make(map[table.Cell]int)
	var values []table.Cell
	var counts []int64
	for _, row := range input.Rows() {
		c, ok := row.Cell(idx)
		if !ok {
			return nil, fmt.Errorf("%s: %w", VerbCountBy, table.ErrInvalidTable)
		}
		pos, seen := positions[c]
		if !seen {
			pos = len(values)
			positions[c] = pos
			values = append(values, c)
			counts = append(counts, 0)
		}
		counts[pos]++
	}

	rows := make([]table.Row, len(values))
	for i, v := range values {
		rows[i] = table.NewRow(v, table.Integer(counts[i]))
	}

	numeric := []string{CountColumn}
	if input.IsNumeric(op.Column) {
		numeric = []string{op.Column, CountColumn}
	}

	histogram, err := table.New([]string{op.Column, CountColumn}, numeric, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", VerbCountBy, err)
	}
	sorted, err := histogram.SortDescending(1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", VerbCountBy, err)
	}
	return sorted, nil
}

// executeJoin is a nested-loop equi-join: O(|left| x |right|). A hash join
// on the right side is the obvious upgrade if datasets ever grow.
func (e *Evaluator) executeJoin(op *Join) (*table.Table, error) {
	left, err := e.evaluate(op.Chain)
	if err != nil {
		return nil, err
	}
	right, err := e.load(op.Right, VerbJoin)
	if err != nil {
		return nil, err
	}

	leftIdx, inLeft := left.ColumnIndex(op.Column)
	rightIdx, inRight := right.ColumnIndex(op.Column)
	if !inLeft || !inRight {
		return nil, &NoSuchColumnError{Verb: VerbJoin, Column: op.Column, Chain: op.Chain}
	}

	header := left.Header()
	for i, name := range right.Header() {
		if i != rightIdx {
			header = append(header, name)
		}
	}
	numeric := left.NumericColumns()
	for _, name := range right.NumericColumns() {
		if name != op.Column {
			numeric = append(numeric, name)
		}
	}

	var rows []table.Row
	for _, l := range left.Rows() {
		lc, ok := l.Cell(leftIdx)
		if !ok {
			return nil, fmt.Errorf("%s: %w", VerbJoin, table.ErrInvalidTable)
		}
		for _, r := range right.Rows() {
			rc, ok := r.Cell(rightIdx)
			if !ok {
				return nil, fmt.Errorf("%s: %w", VerbJoin, table.ErrInvalidTable)
			}
			if lc.Equal(rc) {
				rows = append(rows, l.Concat(r, rightIdx))
			}
		}
	}

	out, err := table.New(header, numeric, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", VerbJoin, err)
	}
	return out, nil
}
