package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewGoogleProvider_DisabledWithoutRegistration(t *testing.T) {
	if p := NewGoogleProvider(GoogleConfig{}); p != nil {
		t.Error("expected nil provider without client registration")
	}
	if p := NewGoogleProvider(GoogleConfig{ClientID: "id-only"}); p != nil {
		t.Error("expected nil provider without client secret")
	}
}

func TestGoogleProvider_AuthURLCarriesState(t *testing.T) {
	p := NewGoogleProvider(GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/api/v1/auth/google/callback",
	})
	require.NotNil(t, p)

	state := p.NewState()
	url := p.AuthURL(state)

	assert.Contains(t, url, "state="+state)
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "scope=openid+email+profile")
}

func TestGoogleProvider_ExchangeStateMismatch(t *testing.T) {
	p := NewGoogleProvider(GoogleConfig{ClientID: "id", ClientSecret: "secret"})
	require.NotNil(t, p)

	_, err := p.Exchange(context.Background(), "expected", "tampered", "code")
	assert.ErrorIs(t, err, ErrStateMismatch)

	_, err = p.Exchange(context.Background(), "", "", "code")
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestGoogleProvider_ExchangeFetchesIdentity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.FormValue("code"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email":"g@example.com","name":"Gabi","picture":"https://lh3.example.com/p.jpg"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := NewGoogleProvider(GoogleConfig{ClientID: "id", ClientSecret: "secret"})
	require.NotNil(t, p)
	p.config.Endpoint = oauth2.Endpoint{
		AuthURL:  server.URL + "/auth",
		TokenURL: server.URL + "/token",
	}
	p.userinfoURL = server.URL + "/userinfo"

	identity, err := p.Exchange(context.Background(), "state-1", "state-1", "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "g@example.com", identity.Email)
	require.NotNil(t, identity.Name)
	assert.Equal(t, "Gabi", *identity.Name)
	require.NotNil(t, identity.Picture)
	assert.Equal(t, "https://lh3.example.com/p.jpg", *identity.Picture)
}

func TestGoogleProvider_ExchangeUserinfoFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer"}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := NewGoogleProvider(GoogleConfig{ClientID: "id", ClientSecret: "secret"})
	require.NotNil(t, p)
	p.config.Endpoint = oauth2.Endpoint{TokenURL: server.URL + "/token"}
	p.userinfoURL = server.URL + "/userinfo"

	_, err := p.Exchange(context.Background(), "s", "s", "auth-code")
	assert.Error(t, err)
}
