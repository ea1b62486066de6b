package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashAndVerifyPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple", "password123"},
		{"symbols", "P@ssw0rd!#$%^&*()"},
		{"long", strings.Repeat("a", 100)},
		{"unicode", "пароль🔒密码"},
		{"whitespace", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
			require.Len(t, strings.Split(hash, "$"), 6)

			require.NoError(t, VerifyPassword(tt.password, hash))
			require.ErrorIs(t, VerifyPassword(tt.password+"x", hash), ErrPasswordMismatch)
		})
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerifyPasswordRejectsBadHashes(t *testing.T) {
	for _, hash := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA",
	} {
		require.ErrorIs(t, VerifyPassword("pw", hash), ErrInvalidHash, hash)
	}
}

func TestPepperPersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")
	SetPepperPath(path)
	t.Cleanup(func() { SetPepperPath(filepath.Join(os.TempDir(), "cryptox-pepper-reset")) })

	first, err := Pepper()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, first, string(raw))

	// A fresh load reads the same value back.
	SetPepperPath(path)
	second, err := Pepper()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSetPepperOverridesFile(t *testing.T) {
	SetPepper("fixed-secret")
	t.Cleanup(func() { SetPepper("") })

	got, err := Pepper()
	require.NoError(t, err)
	require.Equal(t, "fixed-secret", got)
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.Len(t, a, 43)

	b, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	_, err = GenerateToken(0)
	require.Error(t, err)
}

func TestFingerprintToken(t *testing.T) {
	require.Equal(t, FingerprintToken("abc"), FingerprintToken("abc"))
	require.NotEqual(t, FingerprintToken("abc"), FingerprintToken("abd"))
	require.Len(t, FingerprintToken("abc"), 43)
}

func TestLoadOrGenerateEd25519Key(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing.pem")

	first, err := LoadOrGenerateEd25519Key(path)
	require.NoError(t, err)
	require.Contains(t, string(first), "PRIVATE KEY")

	second, err := LoadOrGenerateEd25519Key(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	ephemeral, err := LoadOrGenerateEd25519Key("")
	require.NoError(t, err)
	require.NotEqual(t, first, ephemeral)
}
