package testutil

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

// RandomAlphaNum returns a random lowercase alphanumeric string, usable in
// docker container names.
func RandomAlphaNum(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	b := make([]byte, length)
	for i := range b {
		b[i] = charset[gofakeit.IntRange(0, len(charset)-1)]
	}
	return string(b), nil
}
