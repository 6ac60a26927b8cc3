package sr

import (
	"fmt"
	"strings"
)

// ObserverType is the kind of observer in the observation context.
type ObserverType int

const (
	ObserverPerson ObserverType = iota
	ObserverDevice
)

// String returns the input document spelling of the observer type.
func (o ObserverType) String() string {
	switch o {
	case ObserverPerson:
		return "PERSON"
	case ObserverDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// ParseObserverType parses PERSON or DEVICE.
func ParseObserverType(s string) (ObserverType, error) {
	switch s {
	case "PERSON":
		return ObserverPerson, nil
	case "DEVICE":
		return ObserverDevice, nil
	default:
		return 0, &UnknownObserverTypeError{Value: s}
	}
}

// Completion is the SR Completion Flag.
type Completion int

const (
	Partial Completion = iota
	Complete
)

// String returns the DICOM enumerated value.
func (c Completion) String() string {
	if c == Complete {
		return "COMPLETE"
	}
	return "PARTIAL"
}

// ParseCompletion parses a Completion Flag value, case-insensitively.
func ParseCompletion(s string) (Completion, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PARTIAL":
		return Partial, nil
	case "COMPLETE":
		return Complete, nil
	default:
		return Partial, fmt.Errorf("invalid completion flag: %s (valid: PARTIAL, COMPLETE)", s)
	}
}

// Verification is the SR Verification Flag.
type Verification int

const (
	Unverified Verification = iota
	Verified
)

// String returns the DICOM enumerated value.
func (v Verification) String() string {
	if v == Verified {
		return "VERIFIED"
	}
	return "UNVERIFIED"
}

// ParseVerification parses a Verification Flag value, case-insensitively.
func ParseVerification(s string) (Verification, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UNVERIFIED":
		return Unverified, nil
	case "VERIFIED":
		return Verified, nil
	default:
		return Unverified, fmt.Errorf("invalid verification flag: %s (valid: UNVERIFIED, VERIFIED)", s)
	}
}

// EvidenceRole tells why an evidence object is referenced.
type EvidenceRole int

const (
	RoleCompositeContext EvidenceRole = iota
	RoleImageLibrary
)

// String returns the string representation of an EvidenceRole.
func (r EvidenceRole) String() string {
	switch r {
	case RoleCompositeContext:
		return "composite context"
	case RoleImageLibrary:
		return "image library"
	default:
		return "unknown"
	}
}
