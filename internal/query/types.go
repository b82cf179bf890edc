// Package query parses a line of chained verbs into an operator tree and
// evaluates that tree into a table.
//
// A query is a single line:
//
//	FROM <dataset> [SELECT <col,col,...>] [TAKE <n>] [ORDERBY <col>]
//	               [COUNTBY <col>] [JOIN <dataset> <col>] ...
//
// Every verb after FROM wraps the operator built so far, so the tree is a
// chain whose leaf is always a From. Evaluation walks the chain from the leaf
// up, materializing the whole table at each step.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vegasq/toyquery/internal/dataset"
)

// Verbs recognized by the parser
const (
	VerbFrom    = "FROM"
	VerbSelect  = "SELECT"
	VerbTake    = "TAKE"
	VerbOrderBy = "ORDERBY"
	VerbCountBy = "COUNTBY"
	VerbJoin    = "JOIN"
)

// Verbs lists every verb in the order they appear in help output
var Verbs = []string{VerbFrom, VerbSelect, VerbTake, VerbOrderBy, VerbCountBy, VerbJoin}

// CountColumn is the name of the column COUNTBY adds
const CountColumn = "count"

// Operator is a node of the operator chain. Every node except From wraps
// the chain that produces its input.
type Operator interface {
	fmt.Stringer
	// Verb returns the verb that built the node
	Verb() string
	// Input returns the wrapped chain, or nil for From
	Input() Operator
}

// From loads a dataset. It is always the leaf of a chain.
type From struct {
	Dataset dataset.Dataset
}

// Select projects the input onto Columns, in order
type Select struct {
	Chain   Operator
	Columns []string
}

// Take keeps the first Count rows of the input
type Take struct {
	Chain Operator
	Count int
}

// OrderBy sorts the input by a numeric column, largest first
type OrderBy struct {
	Chain  Operator
	Column string
}

// CountBy counts how often each value of Column occurs in the input
type CountBy struct {
	Chain  Operator
	Column string
}

// Join pairs every input row with every row of the Right dataset that has
// an equal value in Column.
type Join struct {
	Chain  Operator
	Right  dataset.Dataset
	Column string
}

func (*From) Verb() string    { return VerbFrom }
func (*Select) Verb() string  { return VerbSelect }
func (*Take) Verb() string    { return VerbTake }
func (*OrderBy) Verb() string { return VerbOrderBy }
func (*CountBy) Verb() string { return VerbCountBy }
func (*Join) Verb() string    { return VerbJoin }

func (*From) Input() Operator      { return nil }
func (o *Select) Input() Operator  { return o.Chain }
func (o *Take) Input() Operator    { return o.Chain }
func (o *OrderBy) Input() Operator { return o.Chain }
func (o *CountBy) Input() Operator { return o.Chain }
func (o *Join) Input() Operator    { return o.Chain }

func (o *From) String() string {
	return VerbFrom + " " + o.Dataset.FileName()
}

func (o *Select) String() string {
	return chainString(o.Chain, VerbSelect, strings.Join(o.Columns, ","))
}

func (o *Take) String() string {
	return chainString(o.Chain, VerbTake, strconv.Itoa(o.Count))
}

func (o *OrderBy) String() string {
	return chainString(o.Chain, VerbOrderBy, o.Column)
}

func (o *CountBy) String() string {
	return chainString(o.Chain, VerbCountBy, o.Column)
}

func (o *Join) String() string {
	return chainString(o.Chain, VerbJoin, o.Right.FileName()+" "+o.Column)
}

func chainString(chain Operator, verb, args string) string {
	prefix := "<nil>"
	if chain != nil {
		prefix = chain.String()
	}
	return prefix + " " + verb + " " + args
}

// Depth returns the number of operators in the chain ending at op
func Depth(op Operator) int {
	n := 0
	for ; op != nil; op = op.Input() {
		n++
	}
	return n
}
