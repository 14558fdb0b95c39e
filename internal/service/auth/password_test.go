package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFormat(t *testing.T) {
	t.Parallel()

	hasher := NewPBKDF2Hasher()

	hash, err := hasher.Hash("correct-horse-battery-staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// $pbkdf2-sha256$i=29000$<salt>$<hash>
	parts := strings.Split(hash, "$")
	require.Len(t, parts, 5)
	assert.Equal(t, "", parts[0])
	assert.Equal(t, "pbkdf2-sha256", parts[1])
	assert.Equal(t, "i=29000", parts[2])
	assert.NotEmpty(t, parts[3])
	assert.NotEmpty(t, parts[4])
}

func TestCompareCorrectPassword(t *testing.T) {
	t.Parallel()

	hasher := NewPBKDF2Hasher()

	hash, err := hasher.Hash("my-secure-password")
	require.NoError(t, err)

	assert.NoError(t, hasher.Compare(hash, "my-secure-password"))
}

func TestCompareWrongPassword(t *testing.T) {
	t.Parallel()

	hasher := NewPBKDF2Hasher()

	hash, err := hasher.Hash("correct-password")
	require.NoError(t, err)

	err = hasher.Compare(hash, "wrong-password")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestPasswordNotRecoverable(t *testing.T) {
	t.Parallel()

	hasher := NewPBKDF2Hasher()

	hash, err := hasher.Hash("pw1")
	require.NoError(t, err)

	// The stored string never contains the plaintext, and anything other
	// than the original password fails verification.
	assert.NotContains(t, hash, "pw1")

	for _, candidate := range []string{"", "pw", "pw2", "PW1", "pw1 ", hash} {
		assert.ErrorIs(t, hasher.Compare(hash, candidate), ErrPasswordMismatch,
			"candidate %q should not verify", candidate)
	}
}

func TestHashProducesDifferentSalts(t *testing.T) {
	t.Parallel()

	hasher := NewPBKDF2Hasher()

	hash1, err := hasher.Hash("same-password")
	require.NoError(t, err)
	hash2, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "per-call random salt should make hashes differ")

	// Both still verify.
	assert.NoError(t, hasher.Compare(hash1, "same-password"))
	assert.NoError(t, hasher.Compare(hash2, "same-password"))
}

func TestCompareInvalidHashFormat(t *testing.T) {
	t.Parallel()

	hasher := NewPBKDF2Hasher()

	tests := []struct {
		name string
		hash string
	}{
		{name: "not a hash", hash: "invalid-hash-format"},
		{name: "empty", hash: ""},
		{name: "wrong algorithm", hash: "$argon2id$i=29000$c2FsdA$aGFzaA"},
		{name: "missing parts", hash: "$pbkdf2-sha256$i=29000"},
		{name: "bad iteration count", hash: "$pbkdf2-sha256$i=abc$c2FsdA$aGFzaA"},
		{name: "bad salt encoding", hash: "$pbkdf2-sha256$i=29000$!!!$aGFzaA"},
		{name: "bad key encoding", hash: "$pbkdf2-sha256$i=29000$c2FsdA$!!!"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := hasher.Compare(tt.hash, "password")
			assert.ErrorIs(t, err, ErrInvalidHashFormat)
		})
	}
}
