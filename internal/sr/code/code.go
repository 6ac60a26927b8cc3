// Package code provides the coded concept value used throughout a structured report.
package code

import (
	"errors"
	"fmt"
)

// ErrIncomplete is returned when one of the three parts of a coded entry is empty.
var ErrIncomplete = errors.New("coded entry requires code value, coding scheme and code meaning")

// CodedEntry is a (code value, coding scheme designator, code meaning) triple.
// It is a plain value: two entries are equal when all three fields are equal.
type CodedEntry struct {
	CodeValue    string
	CodingScheme string
	CodeMeaning  string
}

// New returns a CodedEntry, or ErrIncomplete if any part is empty.
func New(value, scheme, meaning string) (CodedEntry, error) {
	if value == "" || scheme == "" || meaning == "" {
		return CodedEntry{}, fmt.Errorf("%w: (%q, %q, %q)", ErrIncomplete, value, scheme, meaning)
	}
	return CodedEntry{CodeValue: value, CodingScheme: scheme, CodeMeaning: meaning}, nil
}

// Must is like New but panics on error. Only used for package-level constants.
func Must(value, scheme, meaning string) CodedEntry {
	c, err := New(value, scheme, meaning)
	if err != nil {
		panic(err)
	}
	return c
}

// IsZero reports whether the entry has never been set.
func (c CodedEntry) IsZero() bool {
	return c == CodedEntry{}
}

// IsComplete reports whether all three parts are present.
func (c CodedEntry) IsComplete() bool {
	return c.CodeValue != "" && c.CodingScheme != "" && c.CodeMeaning != ""
}

// Matches compares code value and coding scheme, ignoring the meaning.
// This is how concept names are looked up in a content tree.
func (c CodedEntry) Matches(other CodedEntry) bool {
	return c.CodeValue == other.CodeValue && c.CodingScheme == other.CodingScheme
}

// String returns the conventional (value, scheme, "meaning") form.
func (c CodedEntry) String() string {
	return fmt.Sprintf("(%s, %s, %q)", c.CodeValue, c.CodingScheme, c.CodeMeaning)
}
