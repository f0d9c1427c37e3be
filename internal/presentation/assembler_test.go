package presentation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAssembleClaims(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assembler := NewAssembler("https://wallet.example.org", WithClock(func() time.Time { return issued }))

	claims := assembler.Assemble([]string{"shcA", "shcB"}, "abc", "https://rp.example")

	require.Equal(t, "https://wallet.example.org", claims.Issuer)
	require.Equal(t, []string{"https://rp.example"}, []string(claims.Audience))
	require.Equal(t, "abc", claims.Nonce)
	require.NotEmpty(t, claims.ID)

	require.Equal(t, []string{"https://www.w3.org/2018/credentials/v1"}, claims.VP.Context)
	require.Equal(t, []string{"VerifiablePresentation"}, claims.VP.Type)
	require.Equal(t, []string{"shcA", "shcB"}, claims.VP.VerifiableCredential)

	require.Equal(t, issued, claims.IssuedAt.Time)
	require.Equal(t, issued, claims.NotBefore.Time)
	require.Equal(t, 300*time.Second, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestAssembleGeneratesFreshJTI(t *testing.T) {
	assembler := NewAssembler("https://wallet.example.org")

	first := assembler.Assemble(nil, "n1", "aud")
	second := assembler.Assemble(nil, "n2", "aud")
	require.NotEqual(t, first.ID, second.ID)
}

// Credentials are embedded verbatim and in matcher order.
func TestAssemblePreservesCredentialOrder(t *testing.T) {
	assembler := NewAssembler("https://wallet.example.org")

	claims := assembler.Assemble([]string{"third", "first", "second"}, "n", "aud")
	require.Equal(t, []string{"third", "first", "second"}, claims.VP.VerifiableCredential)
}
