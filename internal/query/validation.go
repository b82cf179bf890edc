package query

import (
	"errors"
	"fmt"
)

// Input limits for a single query line
const (
	// MaxLineLength is the maximum allowed query line length (64KB)
	MaxLineLength = 64 * 1024

	// MaxTokens is the maximum number of tokens in a query line
	MaxTokens = 1000

	// MaxColumnNameLength is the maximum length for a column name
	MaxColumnNameLength = 256
)

var (
	// ErrLineTooLong is returned when a line exceeds MaxLineLength
	ErrLineTooLong = errors.New("query too long")

	// ErrTooManyTokens is returned when a line has too many tokens
	ErrTooManyTokens = errors.New("too many tokens in query")

	// ErrColumnNameTooLong is returned when a column name is too long
	ErrColumnNameTooLong = errors.New("column name too long")
)

// ValidateLine checks the raw line length
func ValidateLine(line string) error {
	if len(line) > MaxLineLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrLineTooLong, len(line), MaxLineLength)
	}
	return nil
}

// ValidateTokens validates token count
func ValidateTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return fmt.Errorf("%w: %d tokens (max %d)", ErrTooManyTokens, len(tokens), MaxTokens)
	}
	return nil
}

// ValidateColumnName validates column name length
func ValidateColumnName(name string) error {
	if len(name) > MaxColumnNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrColumnNameTooLong, len(name), MaxColumnNameLength)
	}
	return nil
}
