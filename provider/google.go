package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const googleTokenInfoURL = "https://www.googleapis.com/oauth2/v3/tokeninfo"

// GoogleVerifier validates Google OAuth access tokens against the tokeninfo
// endpoint.
type GoogleVerifier struct {
	client   *http.Client
	endpoint string
}

// GoogleOption customizes a [GoogleVerifier].
type GoogleOption func(*GoogleVerifier)

// WithGoogleHTTPClient overrides the HTTP client, e.g. to change the timeout.
func WithGoogleHTTPClient(c *http.Client) GoogleOption {
	return func(v *GoogleVerifier) { v.client = c }
}

// WithGoogleEndpoint overrides the tokeninfo URL. Intended for tests.
func WithGoogleEndpoint(endpoint string) GoogleOption {
	return func(v *GoogleVerifier) { v.endpoint = endpoint }
}

// NewGoogle creates a [GoogleVerifier].
func NewGoogle(opts ...GoogleOption) *GoogleVerifier {
	v := &GoogleVerifier{endpoint: googleTokenInfoURL}
	for _, opt := range opts {
		opt(v)
	}
	v.client = httpClient(v.client)
	return v
}

// Name returns "GOOGLE".
func (v *GoogleVerifier) Name() string { return "GOOGLE" }

// Verify asks Google's tokeninfo endpoint about the token. Google answers
// non-200 for anything invalid or expired.
func (v *GoogleVerifier) Verify(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	reqURL := v.endpoint + "?access_token=" + url.QueryEscape(accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var body struct {
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}

	email := strings.TrimSpace(body.Email)
	if email == "" {
		return nil, ErrNoEmail
	}

	return &Identity{
		Email:       email,
		DisplayName: body.Name,
		Picture:     body.Picture,
	}, nil
}
