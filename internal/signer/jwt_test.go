package signer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"cardwallet/internal/presentation"
	dErrors "cardwallet/pkg/domain-errors"
)

func testClaims() presentation.Claims {
	assembler := presentation.NewAssembler("https://wallet.example.org")
	return assembler.Assemble([]string{"shcA"}, "nonce-1", "https://rp.example")
}

func TestHS256RoundTrip(t *testing.T) {
	s, err := NewHS256([]byte("unit-test-key"))
	require.NoError(t, err)

	token, err := s.Sign(testClaims())
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(token, ".")))

	claims, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "nonce-1", claims.Nonce)
	require.Equal(t, []string{"shcA"}, claims.VP.VerifiableCredential)
}

func TestES256RoundTrip(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	s, err := NewES256(key)
	require.NoError(t, err)

	token, err := s.Sign(testClaims())
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "https://wallet.example.org", claims.Issuer)
}

func TestRejectsEmptyKey(t *testing.T) {
	_, err := NewHS256(nil)
	require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewES256(nil)
	require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestVerifyRejectsTampering(t *testing.T) {
	s, err := NewHS256([]byte("unit-test-key"))
	require.NoError(t, err)

	token, err := s.Sign(testClaims())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = s.Verify(tampered)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	signWith, err := NewHS256([]byte("key-one"))
	require.NoError(t, err)
	verifyWith, err := NewHS256([]byte("key-two"))
	require.NoError(t, err)

	token, err := signWith.Sign(testClaims())
	require.NoError(t, err)

	_, err = verifyWith.Verify(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

// An unsecured token must never verify, whatever its payload claims.
func TestVerifyRejectsUnsecuredToken(t *testing.T) {
	s, err := NewHS256([]byte("unit-test-key"))
	require.NoError(t, err)

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(testClaims())
	require.NoError(t, err)
	unsecured := header + "." + base64.RawURLEncoding.EncodeToString(payload) + "."

	_, err = s.Verify(unsecured)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
