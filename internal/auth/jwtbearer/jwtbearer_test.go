package jwtbearer_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcore/salesforce/internal/auth/jwtbearer"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestClient_Login_SignsAndExchangesAssertion(t *testing.T) {
	key := testKey(t)
	var capturedAssertion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", r.Form.Get("grant_type"))
		capturedAssertion = r.Form.Get("assertion")
		w.Write([]byte(`{"access_token":"tok","instance_url":"https://example.my.salesforce.com","token_type":"Bearer"}`))
	}))
	defer srv.Close()

	client := jwtbearer.New(jwtbearer.Config{
		ConsumerKey: "3MVG9...",
		Subject:     "integration@example.com",
		Audience:    "https://login.salesforce.com",
		TokenURL:    srv.URL,
		PrivateKey:  key,
		KeyID:       "key-1",
	})
	tok, err := client.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.AccessToken)
	assert.Equal(t, "https://example.my.salesforce.com", tok.InstanceURL)

	parsed, _, err := jwt.NewParser().ParseUnverified(capturedAssertion, &jwt.RegisteredClaims{})
	require.NoError(t, err)
	assert.Equal(t, "key-1", parsed.Header["kid"])
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "3MVG9...", claims.Issuer)
	assert.Equal(t, "integration@example.com", claims.Subject)
}

func TestClient_Login_SurfacesAuthenticationError(t *testing.T) {
	key := testKey(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"user hasn't approved this consumer"}`))
	}))
	defer srv.Close()

	client := jwtbearer.New(jwtbearer.Config{
		ConsumerKey: "3MVG9...",
		Subject:     "integration@example.com",
		Audience:    "https://login.salesforce.com",
		TokenURL:    srv.URL,
		PrivateKey:  key,
	})
	_, err := client.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestClient_Login_DefaultsTTLWhenUnset(t *testing.T) {
	key := testKey(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok"}`))
	}))
	defer srv.Close()

	client := jwtbearer.New(jwtbearer.Config{
		ConsumerKey: "id",
		Subject:     "user@example.com",
		Audience:    "https://login.salesforce.com",
		TokenURL:    srv.URL,
		PrivateKey:  key,
	})
	_, err := client.Login(context.Background())
	require.NoError(t, err)
}
