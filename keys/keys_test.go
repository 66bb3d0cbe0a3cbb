// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumChunks(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		expected uint16
	}{
		{name: "empty", size: 0, expected: 0},
		{name: "one byte", size: 1, expected: 1},
		{name: "address", size: 20, expected: 1},
		{name: "full chunk", size: chunkSize, expected: 1},
		{name: "spill", size: chunkSize + 1, expected: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			chunks, ok := NumChunks(make([]byte, tt.size))
			require.True(ok)
			require.Equal(tt.expected, chunks)
		})
	}
}

func TestVerifyValue(t *testing.T) {
	require := require.New(t)

	key := EncodeChunks([]byte("pair"), 1)
	maxChunks, ok := MaxChunks(key)
	require.True(ok)
	require.Equal(uint16(1), maxChunks)

	require.True(VerifyValue(key, make([]byte, 20)))
	require.True(VerifyValue(key, bytes.Repeat([]byte{1}, chunkSize)))
	require.False(VerifyValue(key, make([]byte, chunkSize+1)))
	require.False(VerifyValue([]byte{0x01}, nil))
}
