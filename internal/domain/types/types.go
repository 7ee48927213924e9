// Package types contains common types used across the application
package types

import (
	"fmt"
	"strings"
)

// ValueKind tells how a column's values compare when sorting.
type ValueKind int

const (
	// Text columns compare with locale collation.
	Text ValueKind = iota
	// Numeric columns compare as numbers; missing values sort as -Inf.
	Numeric
)

func (k ValueKind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "text"
}

// MarshalText renders the kind as "numeric" or "text".
func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the MarshalText forms.
func (k *ValueKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "numeric":
		*k = Numeric
	case "text":
		*k = Text
	default:
		return fmt.Errorf("unknown value kind: %q", b)
	}
	return nil
}

// Direction is a sort direction.
type Direction string

const (
	Desc Direction = "desc"
	Asc  Direction = "asc"
)

// DefaultDirection is the direction a column starts at on its first click.
const DefaultDirection = Desc

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// ParseDirection accepts "asc" or "desc" (case-insensitive). Empty input
// yields the default direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultDirection, nil
	case string(Desc):
		return Desc, nil
	case string(Asc):
		return Asc, nil
	default:
		return "", fmt.Errorf("unknown sort direction: %q", s)
	}
}
