package internal

import (
	"crypto/rand"
	"encoding/base64"
)

const refreshTokenBytes = 32

// NewRefreshToken returns a fresh opaque refresh-token value: 32 bytes of
// CSPRNG output, base64url without padding (256 bits of entropy).
func NewRefreshToken() (string, error) {
	var raw [refreshTokenBytes]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}
