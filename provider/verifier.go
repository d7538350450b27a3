package provider

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrInvalidToken means the provider rejected the presented access token.
var ErrInvalidToken = errors.New("provider rejected token")

// ErrProviderUnreachable means the provider endpoint could not be queried,
// including timeouts.
var ErrProviderUnreachable = errors.New("provider unreachable")

// ErrNoEmail means the provider accepted the token but its response carried
// no usable email address.
var ErrNoEmail = errors.New("provider returned no email")

// Identity is the verified subject of a provider access token.
type Identity struct {
	Email       string
	DisplayName string
	Picture     string
}

// Verifier validates a provider access token and returns the identity it
// belongs to. Implementations must be safe for concurrent use.
type Verifier interface {
	// Name returns the provider tag, e.g. "GOOGLE".
	Name() string

	// Verify checks the token against the provider. A rejected token maps to
	// [ErrInvalidToken]; transport failures map to [ErrProviderUnreachable].
	Verify(ctx context.Context, accessToken string) (*Identity, error)
}

const defaultTimeout = 5 * time.Second

// httpClient returns the given client, or a default with a bounded timeout so
// a stalled provider cannot hang logins.
func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: defaultTimeout}
}
