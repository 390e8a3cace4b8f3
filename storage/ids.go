package storage

import (
	"fmt"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	idLength   = 20
)

// IDFunc returns a fresh document id.
type IDFunc func() string

// NewIDFunc returns a generator of 20 character alphanumeric ids.
func NewIDFunc() (IDFunc, error) {
	gen, err := nanoid.CustomASCII(idAlphabet, idLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}
	return IDFunc(gen), nil
}
