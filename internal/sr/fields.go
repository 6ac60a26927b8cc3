package sr

import (
	"regexp"
	"strings"

	"github.com/mrsinham/srforge/internal/metadata"
	"github.com/mrsinham/srforge/internal/sr/code"
	"github.com/mrsinham/srforge/internal/util"
)

func missing(parent metadata.Node, key string) error {
	return &MissingFieldError{
		Field:      parent.Get(key).Path(),
		Suggestion: parent.ClosestKey(key),
	}
}

// requiredString returns the text of parent[key], failing when it is absent
// or empty.
func requiredString(parent metadata.Node, key string) (string, error) {
	n := parent.Get(key)
	if !n.Exists() {
		return "", missing(parent, key)
	}
	s, ok := n.String()
	if !ok {
		return "", &InvalidFieldError{Field: n.Path(), Reason: "expected a string, got " + n.Kind()}
	}
	if s == "" {
		return "", missing(parent, key)
	}
	return s, nil
}

// optionalString returns the text of parent[key], or "" when it is absent.
func optionalString(parent metadata.Node, key string) (string, error) {
	n := parent.Get(key)
	if !n.Exists() {
		return "", nil
	}
	s, ok := n.String()
	if !ok {
		return "", &InvalidFieldError{Field: n.Path(), Reason: "expected a string, got " + n.Kind()}
	}
	return s, nil
}

// maxDecimalString is the length limit of the DS value representation.
const maxDecimalString = 16

var decimalString = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// requiredNumeric is requiredString restricted to values that fit a DS
// element: a decimal number of at most 16 characters.
func requiredNumeric(parent metadata.Node, key string) (string, error) {
	s, err := requiredString(parent, key)
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(s)
	if !decimalString.MatchString(v) {
		return "", &InvalidFieldError{Field: parent.Get(key).Path(), Reason: "not a decimal number: " + s}
	}
	if len(v) > maxDecimalString {
		return "", &InvalidFieldError{Field: parent.Get(key).Path(), Reason: "longer than 16 characters: " + v}
	}
	return v, nil
}

func requiredUID(parent metadata.Node, key string) (string, error) {
	s, err := requiredString(parent, key)
	if err != nil {
		return "", err
	}
	if !util.IsValidUID(s) {
		return "", &InvalidFieldError{Field: parent.Get(key).Path(), Reason: "not a valid UID"}
	}
	return s, nil
}

// CodedEntryFrom builds a coded entry from the object parent[key], which must
// carry CodeValue, CodingSchemeDesignator and CodeMeaning.
func CodedEntryFrom(parent metadata.Node, key string) (code.CodedEntry, error) {
	n := parent.Get(key)
	if !n.Exists() {
		return code.CodedEntry{}, missing(parent, key)
	}
	return codedEntryOf(n)
}

func codedEntryOf(n metadata.Node) (code.CodedEntry, error) {
	if !n.IsObject() {
		return code.CodedEntry{}, &InvalidFieldError{Field: n.Path(), Reason: "expected a coded entry object, got " + n.Kind()}
	}
	value, err := requiredString(n, "CodeValue")
	if err != nil {
		return code.CodedEntry{}, err
	}
	scheme, err := requiredString(n, "CodingSchemeDesignator")
	if err != nil {
		return code.CodedEntry{}, err
	}
	meaning, err := requiredString(n, "CodeMeaning")
	if err != nil {
		return code.CodedEntry{}, err
	}
	return code.New(value, scheme, meaning)
}

// optionalCodedEntry returns nil when parent[key] is absent.
func optionalCodedEntry(parent metadata.Node, key string) (*code.CodedEntry, error) {
	if !parent.IsMember(key) {
		return nil, nil
	}
	c, err := CodedEntryFrom(parent, key)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// arrayField returns parent[key], which must be an array when present. An
// absent array has length zero.
func arrayField(parent metadata.Node, key string) (metadata.Node, error) {
	n := parent.Get(key)
	if n.Exists() && !n.IsArray() {
		return metadata.Node{}, &InvalidFieldError{Field: n.Path(), Reason: "expected an array, got " + n.Kind()}
	}
	return n, nil
}
