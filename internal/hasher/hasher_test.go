package hasher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBcryptRoundTrip(t *testing.T) {
	h := NewBcrypt(4)

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", hash)

	require.NoError(t, h.Compare(hash, "secret"))
	require.Error(t, h.Compare(hash, "wrong"))
}

func TestBcryptSaltsHashes(t *testing.T) {
	h := NewBcrypt(4)

	first, err := h.Hash("secret")
	require.NoError(t, err)
	second, err := h.Hash("secret")
	require.NoError(t, err)
	require.NotEqual(t, first, second, "equal passwords must not share a hash")
}
