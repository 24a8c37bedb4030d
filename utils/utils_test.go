package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint64RoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 1 << 40, ^uint64(0)} {
		got, err := BytesToUint64(Uint64ToBytes(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestBytesToUint64Length(t *testing.T) {
	_, err := BytesToUint64([]byte{1, 2, 3})
	assert.Error(t, err)
}
