package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenv(t *testing.T) {
	const (
		key          = "STAKING_LEDGER_TEST_CONFIG"
		defaultValue = "/home/ledger/config.yml"
	)

	tests := []struct {
		name     string
		setup    func(t *testing.T)
		expected string
	}{
		{
			name:     "missing key falls back to default",
			setup:    func(t *testing.T) {},
			expected: defaultValue,
		},
		{
			name:     "empty value is returned as is",
			setup:    func(t *testing.T) { t.Setenv(key, "") },
			expected: "",
		},
		{
			name:     "set value",
			setup:    func(t *testing.T) { t.Setenv(key, "/etc/ledger.yml") },
			expected: "/etc/ledger.yml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			assert.Equal(t, tt.expected, Getenv(key, defaultValue))
		})
	}
}
