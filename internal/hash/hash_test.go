package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{AlgBcrypt, AlgArgon2} {
		alg := alg
		t.Run(alg, func(t *testing.T) {
			t.Parallel()

			h, err := New(alg, bcrypt.MinCost)
			require.NoError(t, err)

			digest, err := h.Hash("secret123")
			require.NoError(t, err)
			assert.NotEqual(t, "secret123", digest)

			assert.True(t, h.Check(digest, "secret123"))
			assert.False(t, h.Check(digest, "secret124"))
			assert.False(t, h.Check(digest, ""))
		})
	}
}

func TestHasher_SaltsEachDigest(t *testing.T) {
	t.Parallel()

	h, err := New(AlgBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHasher_ChecksDigestsFromOtherAlgorithm(t *testing.T) {
	t.Parallel()

	argon, err := New(AlgArgon2, 0)
	require.NoError(t, err)
	bc, err := New(AlgBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	digest, err := argon.Hash("pw-123456")
	require.NoError(t, err)
	assert.True(t, bc.Check(digest, "pw-123456"))
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New("md5", 0)
	assert.Error(t, err)

	_, err = New(AlgBcrypt, 99)
	assert.Error(t, err)

	h, err := New("", 0)
	require.NoError(t, err)
	_, err = h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}
