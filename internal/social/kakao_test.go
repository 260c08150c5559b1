package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehoyeon/greenhand/internal/config"
)

// fakeKakao serves the token and user info endpoints.
func fakeKakao(t *testing.T, userInfoStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" || r.Form.Get("client_id") != "client" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer provider-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if userInfoStatus != http.StatusOK {
			w.WriteHeader(userInfoStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 3141592653,
			"kakao_account": map[string]any{
				"email":   "kim@example.com",
				"profile": map[string]any{"nickname": "Kim"},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func kakaoConfig(base string) config.Kakao {
	return config.Kakao{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/login/oauth2/code/kakao",
		AuthURL:      base + "/oauth/authorize",
		TokenURL:     base + "/oauth/token",
		UserInfoURL:  base + "/v2/user/me",
		Scopes:       []string{"profile_nickname", "account_email"},
	}
}

func TestKakaoAuthCodeURL(t *testing.T) {
	k := NewKakao(kakaoConfig("https://kauth.example"))

	u, err := url.Parse(k.AuthCodeURL("xyz"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "/oauth/authorize", u.Path)
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "xyz", q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "profile_nickname account_email", q.Get("scope"))
}

func TestKakaoAuthenticate(t *testing.T) {
	srv := fakeKakao(t, http.StatusOK)
	k := NewKakao(kakaoConfig(srv.URL))

	p, err := k.Authenticate(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, ProviderKakao, p.Provider)
	assert.Equal(t, "3141592653", p.ProviderID)
	assert.Equal(t, "Kim", p.Nickname())
	assert.Equal(t, "kim@example.com", p.Email())
}

func TestKakaoAuthenticateFailures(t *testing.T) {
	srv := fakeKakao(t, http.StatusOK)
	_, err := NewKakao(kakaoConfig(srv.URL)).Authenticate(context.Background(), "bad-code")
	assert.Error(t, err)

	broken := fakeKakao(t, http.StatusInternalServerError)
	_, err = NewKakao(kakaoConfig(broken.URL)).Authenticate(context.Background(), "good-code")
	assert.ErrorContains(t, err, "status 500")
}

func TestKakaoStalledProviderTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	k := NewKakao(kakaoConfig(srv.URL))
	assert.Equal(t, providerTimeout, k.httpClient.Timeout)
	k.httpClient.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := k.Authenticate(context.Background(), "good-code")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
