package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cheap = KDFParams{Time: 1, MemKiB: 64, Par: 1}

func TestArgon2_HashVerify(t *testing.T) {
	t.Parallel()

	h := NewArgon2(cheap)

	encoded, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=64,t=1,p=1$"))
	assert.NotContains(t, encoded, "correct horse")

	ok, err := h.Verify(encoded, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(encoded, "wrong horse")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2_HashIsSalted(t *testing.T) {
	t.Parallel()

	h := NewArgon2(cheap)

	a, err := h.Hash("pw")
	require.NoError(t, err)
	b, err := h.Hash("pw")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestArgon2_VerifyUsesEmbeddedParams(t *testing.T) {
	t.Parallel()

	encoded, err := NewArgon2(KDFParams{Time: 2, MemKiB: 128, Par: 1}).Hash("pw")
	require.NoError(t, err)

	ok, err := NewArgon2(cheap).Verify(encoded, "pw")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon2_HashEmpty(t *testing.T) {
	t.Parallel()

	_, err := NewArgon2(cheap).Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestArgon2_VerifyMalformed(t *testing.T) {
	t.Parallel()

	h := NewArgon2(cheap)
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "wrong algorithm", encoded: "$argon2i$v=19$m=64,t=1,p=1$c2FsdA$a2V5"},
		{name: "wrong version", encoded: "$argon2id$v=16$m=64,t=1,p=1$c2FsdA$a2V5"},
		{name: "missing params", encoded: "$argon2id$v=19$m=64,t=1$c2FsdA$a2V5"},
		{name: "zero memory", encoded: "$argon2id$v=19$m=0,t=1,p=1$c2FsdA$a2V5"},
		{name: "threads overflow", encoded: "$argon2id$v=19$m=64,t=1,p=300$c2FsdA$a2V5"},
		{name: "bad salt", encoded: "$argon2id$v=19$m=64,t=1,p=1$!!!$a2V5"},
		{name: "bad key", encoded: "$argon2id$v=19$m=64,t=1,p=1$c2FsdA$!!!"},
		{name: "bcrypt hash", encoded: "$2a$14$abcdefghijklmnopqrstuv"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, err := h.Verify(tt.encoded, "pw")
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrInvalidHash)
		})
	}
}

func TestNewArgon2_Defaults(t *testing.T) {
	t.Parallel()

	h := NewArgon2(KDFParams{})
	assert.Equal(t, DefaultKDFParams(), h.params)
}
