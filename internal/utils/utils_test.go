package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeUnescape(t *testing.T) {
	assert.Equal(t, "100", SafeUnescape(`"100"`))
	assert.Equal(t, "100", SafeUnescape("100"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]int{1, 2}, 3))
}
