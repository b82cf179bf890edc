// Package table provides the typed row and cell model that every query
// operator consumes and produces.
//
// A Table is a header, the subset of its columns that hold numeric values,
// and an ordered list of Rows. Rows are immutable: operators build new Rows
// instead of editing the ones they were given.
package table

import (
	"cmp"
	"strconv"
)

// Kind identifies the variant stored in a Cell
type Kind uint8

const (
	KindText            Kind = iota // free-form string
	KindInteger                     // always-present int64
	KindOptionalInteger             // int64 that may be absent
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindOptionalInteger:
		return "optional integer"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Cell is a tagged value. The zero Cell is an empty Text cell.
//
// Cell is comparable, so == is variant-aware structural equality and a Cell
// can be used directly as a map key.
type Cell struct {
	kind  Kind
	text  string
	num   int64
	valid bool
}

// Text returns a text cell
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Integer returns an integer cell
func Integer(v int64) Cell {
	return Cell{kind: KindInteger, num: v, valid: true}
}

// OptionalInteger returns a present optional integer cell
func OptionalInteger(v int64) Cell {
	return Cell{kind: KindOptionalInteger, num: v, valid: true}
}

// Absent returns an optional integer cell with no value
func Absent() Cell {
	return Cell{kind: KindOptionalInteger}
}

// Kind reports the cell variant
func (c Cell) Kind() Kind {
	return c.kind
}

// Int returns the integer value of the cell. ok is false for text cells and
// absent optional integers.
func (c Cell) Int() (v int64, ok bool) {
	if c.kind == KindText || !c.valid {
		return 0, false
	}
	return c.num, true
}

// IsAbsent reports whether the cell is an optional integer without a value
func (c Cell) IsAbsent() bool {
	return c.kind == KindOptionalInteger && !c.valid
}

// Equal reports structural equality
func (c Cell) Equal(other Cell) bool {
	return c == other
}

// Compare orders cells by variant first, then by value. Within optional
// integers an absent value sorts before every present one.
func (c Cell) Compare(other Cell) int {
	if c.kind != other.kind {
		return cmp.Compare(c.kind, other.kind)
	}
	switch c.kind {
	case KindText:
		return cmp.Compare(c.text, other.text)
	case KindOptionalInteger:
		if c.valid != other.valid {
			if !c.valid {
				return -1
			}
			return 1
		}
	}
	return cmp.Compare(c.num, other.num)
}

// String renders the cell for output. Absent values render as "".
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	default:
		if !c.valid {
			return ""
		}
		return strconv.FormatInt(c.num, 10)
	}
}

// Value returns the cell as a plain Go value: string, int64, or nil for an
// absent optional integer.
func (c Cell) Value() interface{} {
	switch c.kind {
	case KindText:
		return c.text
	default:
		if !c.valid {
			return nil
		}
		return c.num
	}
}
