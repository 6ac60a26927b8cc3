package sr

import "fmt"

// MissingFieldError is returned when a required input field is absent.
type MissingFieldError struct {
	Field string
	// Suggestion is a present sibling key that looks like a misspelling of Field.
	Suggestion string
}

func (e *MissingFieldError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("missing required field %q (did you mean %q?)", e.Field, e.Suggestion)
	}
	return fmt.Sprintf("missing required field %q", e.Field)
}

// InvalidFieldError is returned when a field is present but cannot be used,
// for example a segment number that is not an integer.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// UnknownObserverTypeError is returned for an ObserverType other than PERSON or DEVICE.
type UnknownObserverTypeError struct {
	Value string
}

func (e *UnknownObserverTypeError) Error() string {
	return fmt.Sprintf("unknown observer type %q (want PERSON or DEVICE)", e.Value)
}

// InvalidDocumentError is returned when the report fails validation at a checkpoint.
// It carries no itemised diagnostics.
type InvalidDocumentError struct {
	Checkpoint string
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("report is not valid (%s checkpoint)", e.Checkpoint)
}
