package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/todolist/pkg/cryptox"
	"github.com/aussiebroadwan/todolist/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "todolist-test"

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewEdDSASigner(kid, pemKey)
	require.NoError(t, err)
	return signer
}

func TestSignAndVerify(t *testing.T) {
	signer := newSigner(t, "k1")

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	require.True(t, keys.IsReady())

	jwks := keys.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)

	claims := jwtx.NewAccessClaims("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "alice", testIssuer, time.Minute, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := jwtx.NewEdDSAVerifier(keys, testIssuer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, got.Subject)
	require.Equal(t, "alice", got.Username)
	require.NotEmpty(t, got.ID)
}

func TestVerifyFailures(t *testing.T) {
	signer := newSigner(t, "k1")
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	now := time.Now().UTC()

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewAccessClaims("u1", "", "someone-else", time.Minute, now))
		require.NoError(t, err)

		_, err = jwtx.NewEdDSAVerifier(keys, testIssuer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewAccessClaims("u1", "", testIssuer, time.Minute, now.Add(-time.Hour)))
		require.NoError(t, err)

		_, err = jwtx.NewEdDSAVerifier(keys, testIssuer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("unknown key", func(t *testing.T) {
		other := newSigner(t, "k2")
		token, err := other.Sign(jwtx.NewAccessClaims("u1", "", testIssuer, time.Minute, now))
		require.NoError(t, err)

		_, err = jwtx.NewEdDSAVerifier(keys, testIssuer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := jwtx.NewEdDSAVerifier(keys, testIssuer).Verify("not.a.token")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("no subject", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewAccessClaims("", "", testIssuer, time.Minute, now))
		require.NoError(t, err)

		_, err = jwtx.NewEdDSAVerifier(keys, testIssuer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrNoSubject)
	})
}

func TestClaimsValidateLeeway(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second)),
	}}

	require.NoError(t, c.Validate("", now, 30*time.Second))
	require.ErrorIs(t, c.Validate("", now, 0), jwtx.ErrExpired)
}

func TestKeySetRejectsForeignKeys(t *testing.T) {
	keys := jwtx.NewKeySet()
	require.Error(t, keys.AddJWK(jwtx.JWK{Kty: "RSA", Kid: "r1"}))
	require.Error(t, keys.AddJWK(jwtx.JWK{Kty: "OKP", Crv: "Ed25519", Kid: "short", X: "AAAA"}))
	require.False(t, keys.IsReady())
}
