// Package signer provides the compact-serialization and signing capability
// the assembler delegates to. Presentation tokens are always signed: an
// unsecured (alg "none") encoding is rejected outright rather than silently
// downgraded to.
package signer

import (
	"crypto/ecdsa"

	"github.com/golang-jwt/jwt/v5"

	"cardwallet/internal/presentation"
	dErrors "cardwallet/pkg/domain-errors"
)

// JWTSigner signs and verifies presentation tokens with a single configured
// method. The assembler never learns which algorithm is in use.
type JWTSigner struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
}

// NewHS256 builds a symmetric signer. An empty key is refused.
func NewHS256(key []byte) (*JWTSigner, error) {
	if len(key) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "signing key must not be empty")
	}
	return &JWTSigner{method: jwt.SigningMethodHS256, signKey: key, verifyKey: key}, nil
}

// NewES256 builds an asymmetric signer from the holder's key pair.
func NewES256(key *ecdsa.PrivateKey) (*JWTSigner, error) {
	if key == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "signing key must not be nil")
	}
	return &JWTSigner{method: jwt.SigningMethodES256, signKey: key, verifyKey: &key.PublicKey}, nil
}

// Sign serializes the claims into a compact signed token.
func (s *JWTSigner) Sign(claims presentation.Claims) (string, error) {
	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.signKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign presentation token")
	}
	return token, nil
}

// Verify parses and validates a compact token, returning its claims. Tokens
// signed with any method other than the configured one fail verification,
// the unsecured "none" encoding included.
func (s *JWTSigner) Verify(token string) (*presentation.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &presentation.Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.verifyKey, nil
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid presentation token")
	}
	claims, ok := parsed.Claims.(*presentation.Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid presentation token claims")
	}
	return claims, nil
}
