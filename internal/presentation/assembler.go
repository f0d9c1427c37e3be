// Package presentation assembles the claim set of a verifiable-presentation
// token from matched credentials and the identifiers of the request they
// answer. Serialization and signing are delegated to a Signer capability.
package presentation

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the validity window of an assembled presentation token,
// measured from issuance.
const TokenTTL = 5 * time.Minute

// VerifiablePresentation is the signed envelope bundling the credentials
// presented together. Credentials are opaque compact strings embedded
// verbatim, in matcher order, and are never re-parsed here.
type VerifiablePresentation struct {
	Context              []string `json:"@context"`
	Type                 []string `json:"type"`
	VerifiableCredential []string `json:"verifiableCredential"`
}

// Claims is the full claim set of a presentation token.
type Claims struct {
	Nonce string                 `json:"nonce"`
	VP    VerifiablePresentation `json:"vp"`
	jwt.RegisteredClaims
}

// Assembler builds presentation claims for a configured issuer identity.
// The identity is injected at construction; there is no process-wide state.
type Assembler struct {
	issuer string
	now    func() time.Time
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock overrides the issuance clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

func NewAssembler(issuer string, opts ...Option) *Assembler {
	a := &Assembler{issuer: issuer, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Assemble wraps the matched credentials in a presentation container and
// the container in token claims: nbf = iat = now, exp = iat + TokenTTL,
// jti freshly generated, nonce copied verbatim from the request.
func (a *Assembler) Assemble(matched []string, nonce, audience string) Claims {
	issuedAt := a.now()
	return Claims{
		Nonce: nonce,
		VP: VerifiablePresentation{
			Context:              []string{"https://www.w3.org/2018/credentials/v1"},
			Type:                 []string{"VerifiablePresentation"},
			VerifiableCredential: matched,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			ID:        uuid.NewString(),
			Audience:  jwt.ClaimStrings{audience},
			NotBefore: jwt.NewNumericDate(issuedAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenTTL)),
		},
	}
}
