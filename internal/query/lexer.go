package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenWord TokenType = iota // dataset, column list, count, anything else
	TokenVerb                  // FROM, SELECT, TAKE, ORDERBY, COUNTBY, JOIN
	TokenEOF
)

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Pos   int // byte offset in the line
}

// Lexer splits a query line into whitespace separated tokens
type Lexer struct {
	input string
	pos   int // offset of ch
	next  int // offset after ch
	ch    rune
	eof   bool
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *Lexer) readChar() {
	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = 0
		l.eof = true
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += size
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for !l.eof && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readWord reads up to the next whitespace
func (l *Lexer) readWord() string {
	start := l.pos
	for !l.eof && !unicode.IsSpace(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	if l.eof {
		return Token{Type: TokenEOF, Pos: len(l.input)}
	}
	pos := l.pos
	word := l.readWord()
	return Token{Type: wordType(word), Value: word, Pos: pos}
}

// wordType determines if a word is a verb. Verbs are case sensitive.
func wordType(word string) TokenType {
	switch word {
	case VerbFrom, VerbSelect, VerbTake, VerbOrderBy, VerbCountBy, VerbJoin:
		return TokenVerb
	}
	return TokenWord
}

// Tokenize returns all tokens from the input, ending with TokenEOF
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens
}

// tokensFromWords builds tokens for an already split line
func tokensFromWords(words []string) []Token {
	tokens := make([]Token, 0, len(words)+1)
	pos := 0
	for _, w := range words {
		tokens = append(tokens, Token{Type: wordType(w), Value: w, Pos: pos})
		pos += len(w) + 1
	}
	return append(tokens, Token{Type: TokenEOF, Pos: pos})
}

// Words returns the token values, dropping the EOF token
func Words(tokens []Token) []string {
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Type == TokenEOF {
			break
		}
		words = append(words, t.Value)
	}
	return words
}

// joinWords renders tokens for error messages
func joinWords(tokens []Token) string {
	return strings.Join(Words(tokens), " ")
}
