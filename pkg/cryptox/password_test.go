package cryptox

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	hash, err := HashPassword("Sup3rSecret!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, VerifyPassword("Sup3rSecret!", hash))
	require.Error(t, VerifyPassword("wrong-password", hash))
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2, "salted hashes should differ")
	require.NoError(t, VerifyPassword("same-password", h1))
	require.NoError(t, VerifyPassword("same-password", h2))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	require.Error(t, VerifyPassword("anything", "not-a-phc-hash"))
	require.Error(t, VerifyPassword("anything", "$bcrypt$v=19$m=1,t=1,p=1$abc$def"))
}

func TestFingerprintToken(t *testing.T) {
	a := FingerprintToken("token-a")
	b := FingerprintToken("token-b")

	require.Len(t, a, 43)
	require.NotEqual(t, a, b)
	require.Equal(t, a, FingerprintToken("token-a"), "fingerprint is deterministic")
}
