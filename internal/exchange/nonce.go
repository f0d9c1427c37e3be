package exchange

import (
	"crypto/rand"
	"encoding/base64"

	dErrors "cardwallet/pkg/domain-errors"
)

const nonceBytes = 32

// NewNonce draws a fresh single-use value from the system's CSPRNG. Nonces
// bind a presentation to one request and must never be reused; callers pair
// this with the replay guard.
func NewNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "generate nonce")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
