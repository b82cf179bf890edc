package query

import (
	"fmt"

	"github.com/vegasq/toyquery/internal/dataset"
)

// SyntaxError reports a malformed query line. No evaluation happens when
// parsing fails.
type SyntaxError struct {
	Msg string
	// Found holds the offending tokens, if any
	Found []string
}

func (e *SyntaxError) Error() string {
	return e.Msg
}

func syntaxErrorf(found []string, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Found: found}
}

// LoadError reports a dataset that failed to load while evaluating a verb
type LoadError struct {
	Dataset dataset.Dataset
	Verb    string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("Failed to load the %s dataset while processing the %s command. Error encountered: %v", e.Dataset, e.Verb, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NoSuchColumnError reports a column missing from the table produced by Chain
type NoSuchColumnError struct {
	Verb   string
	Column string
	Chain  Operator
}

func (e *NoSuchColumnError) Error() string {
	return fmt.Sprintf("Could not %s the %s column in the input table for this operator chain: %s", e.Verb, e.Column, e.Chain)
}

// NonNumericColumnError reports an ORDERBY on a column that is not numeric
type NonNumericColumnError struct {
	Column string
}

func (e *NonNumericColumnError) Error() string {
	return fmt.Sprintf("You attempted to ORDERBY the %s column whose type is not numeric.", e.Column)
}
