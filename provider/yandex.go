package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const yandexInfoURL = "https://login.yandex.ru/info"

// YandexVerifier validates Yandex OAuth access tokens against the login info
// endpoint.
type YandexVerifier struct {
	client   *http.Client
	endpoint string
}

// YandexOption customizes a [YandexVerifier].
type YandexOption func(*YandexVerifier)

// WithYandexHTTPClient overrides the HTTP client.
func WithYandexHTTPClient(c *http.Client) YandexOption {
	return func(v *YandexVerifier) { v.client = c }
}

// WithYandexEndpoint overrides the info URL. Intended for tests.
func WithYandexEndpoint(endpoint string) YandexOption {
	return func(v *YandexVerifier) { v.endpoint = endpoint }
}

// NewYandex creates a [YandexVerifier].
func NewYandex(opts ...YandexOption) *YandexVerifier {
	v := &YandexVerifier{endpoint: yandexInfoURL}
	for _, opt := range opts {
		opt(v)
	}
	v.client = httpClient(v.client)
	return v
}

// Name returns "YANDEX".
func (v *YandexVerifier) Name() string { return "YANDEX" }

// Verify asks Yandex's info endpoint about the token, passed as an OAuth
// Authorization header.
func (v *YandexVerifier) Verify(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint+"?format=json", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+accessToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var body struct {
		DefaultEmail string `json:"default_email"`
		RealName     string `json:"real_name"`
		AvatarID     string `json:"default_avatar_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}

	email := strings.TrimSpace(body.DefaultEmail)
	if email == "" {
		return nil, ErrNoEmail
	}

	identity := &Identity{
		Email:       email,
		DisplayName: body.RealName,
	}
	if body.AvatarID != "" {
		identity.Picture = "https://avatars.yandex.net/get-yapic/" + body.AvatarID + "/islands-200"
	}

	return identity, nil
}
