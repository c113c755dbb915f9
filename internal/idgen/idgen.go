// Package idgen provides record identifiers and short, human-readable
// booking references.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// ReferencePrefix is prepended to every booking reference.
var ReferencePrefix = "BK-"

// ReferenceAlphabet omits characters that are easy to misread (0/O, 1/I/L).
var ReferenceAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// ReferenceLength is the number of random characters after the prefix.
var ReferenceLength = 10

// NewID returns a new record ID.
func NewID() string {
	return uuid.NewString()
}

// IsID reports whether s is a well-formed record ID.
func IsID(s string) bool {
	return uuid.Validate(s) == nil
}

// NewReference returns a new booking reference such as "BK-7QK2M9XH4A".
func NewReference() (string, error) {
	id, err := nanoid.Generate(ReferenceAlphabet, ReferenceLength)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return ReferencePrefix + id, nil
}
