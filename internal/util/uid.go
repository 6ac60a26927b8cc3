package util

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// UUIDRoot is the root for UIDs derived from a UUID (ISO/IEC 9834-8).
const UUIDRoot = "2.25"

// MaxUIDLength is the maximum length of a DICOM UID.
const MaxUIDLength = 64

var uidPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)(\.(0|[1-9][0-9]*))*$`)

// IsValidUID reports whether s is a syntactically valid DICOM UID:
// dot-separated numeric components without leading zeros, at most 64 characters.
func IsValidUID(s string) bool {
	return s != "" && len(s) <= MaxUIDLength && uidPattern.MatchString(s)
}

// GenerateUID returns a new random UID under root.
//
// With an empty root the UUID form "2.25.<decimal uuid>" is used. Otherwise the
// decimal value of a random UUID is appended to root and truncated so that the
// result fits in 64 characters.
func GenerateUID(root string) string {
	u := uuid.New()
	n := new(big.Int).SetBytes(u[:]).String()
	if root == "" {
		root = UUIDRoot
	}
	root = strings.TrimSuffix(root, ".")
	uid := root + "." + n
	if len(uid) > MaxUIDLength {
		uid = uid[:MaxUIDLength]
	}
	return uid
}

// UIDGenerator returns a function producing fresh UIDs under root.
// The root must leave room for at least eight digits of entropy.
func UIDGenerator(root string) (func() string, error) {
	if root != "" {
		if !IsValidUID(root) {
			return nil, fmt.Errorf("invalid UID root %q", root)
		}
		if len(root) > MaxUIDLength-9 {
			return nil, fmt.Errorf("UID root %q too long (max %d characters)", root, MaxUIDLength-9)
		}
	}
	return func() string { return GenerateUID(root) }, nil
}
