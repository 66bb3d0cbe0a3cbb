// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/pairfactory/consts"
)

const AddressLen = consts.AddressLen

// Address is the 20 byte identity of a token, a pair contract or an account.
//
// Addresses are totally ordered by their raw bytes.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// ToAddress copies [b] into an [Address]. [b] must be exactly [AddressLen]
// bytes long.
func ToAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, ErrInvalidSize
	}
	copy(a[:], b)
	return a, nil
}

// ParseAddress decodes a hex string (with or without the 0x prefix).
// The checksum casing of the input is not enforced.
func ParseAddress(s string) (Address, error) {
	b, err := LoadHex(s, AddressLen)
	if err != nil {
		return EmptyAddress, err
	}
	return Address(b), nil
}

// MustParseAddress is like [ParseAddress] but panics on failure. It is
// intended for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func FromEVM(a common.Address) Address {
	return Address(a)
}

func (a Address) EVM() common.Address {
	return common.Address(a)
}

// Compare returns -1, 0 or 1 depending on the byte order of [a] and [b].
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

func (a Address) IsZero() bool {
	return a == EmptyAddress
}

// String returns the EIP-55 checksummed hex encoding of [a].
func (a Address) String() string {
	return common.Address(a).Hex()
}

// MarshalText returns the checksummed hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
