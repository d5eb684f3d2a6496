package pkg

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Address identifies a ledger participant. It always holds the EIP-55
// checksummed hex form so that map lookups are case-insensitive in effect.
type Address string

// ZeroAddress is the all-zero participant address.
var ZeroAddress = Address(common.Address{}.Hex())

// ParseAddress validates a 20-byte hex address (with or without 0x prefix)
// and returns its canonical form.
func ParseAddress(address string) (Address, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid participant address %q", address)
	}

	return Address(common.HexToAddress(address).Hex()), nil
}

// MustParseAddress is like ParseAddress but panics on invalid input.
// Intended for constants and tests.
func MustParseAddress(address string) Address {
	a, err := ParseAddress(address)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return string(a)
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}
