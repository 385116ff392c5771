package core

import (
	"fmt"
	"strings"
)

// StampSelection selects which approval stamps are composited onto the
// rendered purchase order.
type StampSelection string

const (
	StampNone     StampSelection = "none"
	StampOriginal StampSelection = "original"
	StampCIT      StampSelection = "cit"
	StampBoth     StampSelection = "both"
)

// StampKind identifies a single stamp image.
type StampKind string

const (
	StampKindOriginal StampKind = "original"
	StampKindCIT      StampKind = "cit"
)

// ParseStampSelection accepts the four selector values, case-insensitively.
// An empty string means StampNone.
func ParseStampSelection(s string) (StampSelection, error) {
	switch sel := StampSelection(strings.ToLower(strings.TrimSpace(s))); sel {
	case "":
		return StampNone, nil
	case StampNone, StampOriginal, StampCIT, StampBoth:
		return sel, nil
	default:
		return "", NewValidationError("approval_stamp",
			fmt.Sprintf("%q is not a valid choice.", s))
	}
}

// Valid reports whether s is one of the known selector values.
func (s StampSelection) Valid() bool {
	_, err := ParseStampSelection(string(s))
	return err == nil && s != ""
}

// Stamps expands the selection into the stamp images to draw, in drawing
// order.
func (s StampSelection) Stamps() []StampKind {
	switch s {
	case StampOriginal:
		return []StampKind{StampKindOriginal}
	case StampCIT:
		return []StampKind{StampKindCIT}
	case StampBoth:
		return []StampKind{StampKindOriginal, StampKindCIT}
	default:
		return nil
	}
}
