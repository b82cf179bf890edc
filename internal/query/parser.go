package query

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vegasq/toyquery/internal/dataset"
)

// CommandKind classifies a parsed input line
type CommandKind int

const (
	CommandNone  CommandKind = iota // blank line
	CommandHelp                     // help
	CommandExit                     // exit
	CommandQuery                    // FROM ... chain
)

// Command is the result of parsing one input line
type Command struct {
	Kind     CommandKind
	Operator Operator // set for CommandQuery
}

// Parser turns a token stream into an operator chain. It is strictly
// left-to-right: each verb consumes its fixed number of arguments and wraps
// the chain built so far.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// remaining returns the tokens from the current position on
func (p *Parser) remaining() []Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return p.tokens[p.pos:]
}

// argument consumes the token following a verb. ok is false at end of input.
func (p *Parser) argument() (string, bool) {
	tok := p.current()
	if tok.Type == TokenEOF {
		return "", false
	}
	p.advance()
	return tok.Value, true
}

// ParseLine parses a raw input line. help and exit are recognized on their
// own; a blank line yields CommandNone; anything else must be a FROM chain.
func ParseLine(line string) (Command, error) {
	if err := ValidateLine(line); err != nil {
		return Command{}, &SyntaxError{Msg: err.Error()}
	}

	tokens := Tokenize(line)
	words := Words(tokens)
	switch {
	case len(words) == 0:
		return Command{Kind: CommandNone}, nil
	case len(words) == 1 && words[0] == "help":
		return Command{Kind: CommandHelp}, nil
	case len(words) == 1 && words[0] == "exit":
		return Command{Kind: CommandExit}, nil
	}

	op, err := parseTokens(tokens)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CommandQuery, Operator: op}, nil
}

// ParseTokens parses an already tokenized line into an operator chain
func ParseTokens(words []string) (Operator, error) {
	return parseTokens(tokensFromWords(words))
}

func parseTokens(tokens []Token) (Operator, error) {
	if err := ValidateTokens(tokens); err != nil {
		return nil, &SyntaxError{Msg: err.Error()}
	}
	return NewParser(tokens).parseChain()
}

// parseChain parses: FROM dataset verb*
func (p *Parser) parseChain() (Operator, error) {
	first := p.current()
	switch {
	case first.Type == TokenEOF:
		return nil, syntaxErrorf(nil, "Expected a query starting with FROM <dataset>, found no input.")
	case first.Value != VerbFrom && first.Type == TokenVerb:
		return nil, syntaxErrorf([]string{first.Value}, "%s must follow FROM <dataset>; a query has to start with FROM.", first.Value)
	case first.Value != VerbFrom:
		return nil, syntaxErrorf([]string{first.Value}, "Expected a query starting with FROM <dataset>, found %q.", first.Value)
	}

	p.advance()
	ds, err := p.parseDataset(VerbFrom)
	if err != nil {
		return nil, err
	}

	var chain Operator = &From{Dataset: ds}
	for p.current().Type != TokenEOF {
		chain, err = p.parseVerb(chain)
		if err != nil {
			return nil, err
		}
	}
	return chain, nil
}

// parseVerb parses one verb with its arguments and wraps chain
func (p *Parser) parseVerb(chain Operator) (Operator, error) {
	tok := p.current()
	if tok.Type != TokenVerb {
		return nil, syntaxErrorf(Words(p.remaining()), "Unrecognized command %q in %q.", tok.Value, joinWords(p.remaining()))
	}
	p.advance()

	switch tok.Value {
	case VerbFrom:
		return nil, syntaxErrorf([]string{tok.Value}, "FROM may only appear once, at the start of a query.")

	case VerbSelect:
		arg, ok := p.argument()
		if !ok {
			return nil, syntaxErrorf(nil, "SELECT requires a comma-separated list of column names.")
		}
		columns, err := splitColumns(arg)
		if err != nil {
			return nil, syntaxErrorf([]string{arg}, "SELECT: %v.", err)
		}
		return &Select{Chain: chain, Columns: columns}, nil

	case VerbTake:
		arg, ok := p.argument()
		if !ok {
			return nil, syntaxErrorf(nil, "TAKE requires a number of rows.")
		}
		count, err := strconv.Atoi(arg)
		if err != nil || count < 0 {
			return nil, syntaxErrorf([]string{arg}, "TAKE requires a non-negative integer, found %q.", arg)
		}
		return &Take{Chain: chain, Count: count}, nil

	case VerbOrderBy:
		column, err := p.parseColumn(VerbOrderBy)
		if err != nil {
			return nil, err
		}
		return &OrderBy{Chain: chain, Column: column}, nil

	case VerbCountBy:
		column, err := p.parseColumn(VerbCountBy)
		if err != nil {
			return nil, err
		}
		return &CountBy{Chain: chain, Column: column}, nil

	case VerbJoin:
		right, err := p.parseDataset(VerbJoin)
		if err != nil {
			return nil, err
		}
		column, err := p.parseColumn(VerbJoin + " " + right.FileName())
		if err != nil {
			return nil, err
		}
		return &Join{Chain: chain, Right: right, Column: column}, nil
	}

	return nil, syntaxErrorf([]string{tok.Value}, "Unrecognized command %q.", tok.Value)
}

// parseDataset consumes a dataset token for verb
func (p *Parser) parseDataset(verb string) (dataset.Dataset, error) {
	arg, ok := p.argument()
	if !ok {
		return 0, syntaxErrorf(nil, "%s requires a dataset, one of %s.", verb, datasetList())
	}
	ds, err := dataset.Parse(arg)
	if err != nil {
		if errors.Is(err, dataset.ErrUnknownDataset) {
			return 0, syntaxErrorf([]string{arg}, "%s: unknown dataset %q, expected one of %s.", verb, arg, datasetList())
		}
		return 0, syntaxErrorf([]string{arg}, "%s: %v.", verb, err)
	}
	return ds, nil
}

// parseColumn consumes a single column name for verb
func (p *Parser) parseColumn(verb string) (string, error) {
	arg, ok := p.argument()
	if !ok {
		return "", syntaxErrorf(nil, "%s requires a column name.", verb)
	}
	if err := ValidateColumnName(arg); err != nil {
		return "", syntaxErrorf([]string{arg}, "%s: %v.", verb, err)
	}
	return arg, nil
}

// splitColumns splits a SELECT list on commas, dropping empty names. An
// empty result is allowed.
func splitColumns(arg string) ([]string, error) {
	var columns []string
	for _, name := range strings.Split(arg, ",") {
		if name == "" {
			continue
		}
		if err := ValidateColumnName(name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, nil
}

func datasetList() string {
	names := make([]string, len(dataset.All))
	for i, d := range dataset.All {
		names[i] = d.FileName()
	}
	return strings.Join(names, ", ")
}
