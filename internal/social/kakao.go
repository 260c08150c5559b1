// Package social implements the OAuth2 authorization-code login with Kakao.
package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/lehoyeon/greenhand/internal/config"
	"github.com/lehoyeon/greenhand/internal/principal"
)

// ProviderKakao names the Kakao registration.
const ProviderKakao = "kakao"

// providerTimeout bounds each call to Kakao; callback contexts carry no deadline.
const providerTimeout = 10 * time.Second

// Kakao exchanges authorization codes and loads the Kakao user profile.
type Kakao struct {
	oauth       *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewKakao builds a Kakao client from configuration.
func NewKakao(cfg config.Kakao) *Kakao {
	return &Kakao{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		httpClient:  &http.Client{Timeout: providerTimeout},
	}
}

// AuthCodeURL returns the provider consent URL carrying state.
func (k *Kakao) AuthCodeURL(state string) string {
	return k.oauth.AuthCodeURL(state)
}

// Authenticate exchanges code for a provider token and returns the resulting principal.
func (k *Kakao) Authenticate(ctx context.Context, code string) (principal.Social, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, k.httpClient)

	token, err := k.oauth.Exchange(ctx, code)
	if err != nil {
		return principal.Social{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.userInfoURL, nil)
	if err != nil {
		return principal.Social{}, fmt.Errorf("build user info request: %w", err)
	}
	resp, err := k.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return principal.Social{}, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return principal.Social{}, fmt.Errorf("fetch user info: status %d: %s", resp.StatusCode, body)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var attrs map[string]any
	if err := dec.Decode(&attrs); err != nil {
		return principal.Social{}, fmt.Errorf("decode user info: %w", err)
	}

	id := providerID(attrs["id"])
	if id == "" {
		return principal.Social{}, fmt.Errorf("user info carries no id")
	}
	return principal.Social{Provider: ProviderKakao, ProviderID: id, Attributes: attrs}, nil
}

func providerID(v any) string {
	switch id := v.(type) {
	case json.Number:
		return id.String()
	case string:
		return id
	default:
		return ""
	}
}
