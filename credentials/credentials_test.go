package credentials_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcore/salesforce/credentials"
)

func TestTokenResponse_IsExpired(t *testing.T) {
	future := &credentials.TokenResponse{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, future.IsExpired())

	past := &credentials.TokenResponse{ExpiresAt: time.Now().Add(-time.Hour)}
	assert.True(t, past.IsExpired())

	never := &credentials.TokenResponse{}
	assert.False(t, never.IsExpired())
}

func TestStaticCredentials_AccessorsAndRefresh(t *testing.T) {
	creds := credentials.NewStaticCredentials("tok", "https://example.my.salesforce.com")
	assert.Equal(t, "tok", creds.AccessToken())
	assert.Equal(t, "https://example.my.salesforce.com", creds.InstanceURL())
	assert.False(t, creds.IsExpired())

	_, err := creds.Refresh()
	require.Error(t, err)
}

func TestCachedCredentials_RefreshSwapsCurrentToken(t *testing.T) {
	calls := 0
	creds := credentials.NewCachedCredentials(
		&credentials.TokenResponse{AccessToken: "stale", InstanceURL: "https://a.my.salesforce.com"},
		func() (*credentials.TokenResponse, error) {
			calls++
			return &credentials.TokenResponse{AccessToken: "fresh", InstanceURL: "https://a.my.salesforce.com"}, nil
		},
	)
	assert.Equal(t, "stale", creds.AccessToken())

	tok, err := creds.Refresh()
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)
	assert.Equal(t, "fresh", creds.AccessToken())
	assert.Equal(t, 1, calls)
}

func TestCachedCredentials_RefreshErrorLeavesCurrentTokenUnchanged(t *testing.T) {
	refreshErr := errors.New("refresh failed")
	creds := credentials.NewCachedCredentials(
		&credentials.TokenResponse{AccessToken: "stale"},
		func() (*credentials.TokenResponse, error) { return nil, refreshErr },
	)
	_, err := creds.Refresh()
	require.ErrorIs(t, err, refreshErr)
	assert.Equal(t, "stale", creds.AccessToken())
}

func TestParseSFDXAuthURL_DecodesClientIDSecretAndRefreshToken(t *testing.T) {
	cfg, refreshToken, instanceURL, err := credentials.ParseSFDXAuthURL("force://3MVG9...id:secret123:5Aep...refresh@example.my.salesforce.com")
	require.NoError(t, err)
	assert.Equal(t, "3MVG9...id", cfg.ClientID)
	assert.Equal(t, "secret123", cfg.ClientSecret)
	assert.Equal(t, "5Aep...refresh", refreshToken)
	assert.Equal(t, "https://login.salesforce.com/services/oauth2/token", cfg.TokenURL)
	assert.Equal(t, "https://example.my.salesforce.com", instanceURL)
}

func TestParseSFDXAuthURL_RoutesSandboxHostToTestSalesforceCom(t *testing.T) {
	cfg, _, instanceURL, err := credentials.ParseSFDXAuthURL("force://id:secret:refresh@my-sandbox-instance.sandbox.my.salesforce.com")
	require.NoError(t, err)
	assert.Equal(t, "https://test.salesforce.com/services/oauth2/token", cfg.TokenURL)
	assert.Equal(t, "https://my-sandbox-instance.sandbox.my.salesforce.com", instanceURL)
}

func TestParseSFDXAuthURL_RoutesLocalhostToInstanceHostItself(t *testing.T) {
	cfg, _, instanceURL, err := credentials.ParseSFDXAuthURL("force://id:secret:refresh@localhost:1717")
	require.NoError(t, err)
	assert.Equal(t, "localhost:1717/services/oauth2/token", cfg.TokenURL)
	assert.Equal(t, "https://localhost:1717", instanceURL)
}

func TestParseSFDXAuthURL_DiscardsOptionalUsernameSegment(t *testing.T) {
	cfg, refreshToken, _, err := credentials.ParseSFDXAuthURL("force://id:secret:refresh:user@example.com@example.my.salesforce.com")
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "refresh", refreshToken)
}

func TestParseSFDXAuthURL_AllowsEmptyClientSecret(t *testing.T) {
	cfg, _, _, err := credentials.ParseSFDXAuthURL("force://id::refresh@example.my.salesforce.com")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.ClientSecret)
}

func TestParseSFDXAuthURL_RejectsMissingScheme(t *testing.T) {
	_, _, _, err := credentials.ParseSFDXAuthURL("https://example.com")
	require.Error(t, err)
}

func TestParseSFDXAuthURL_RejectsMissingHost(t *testing.T) {
	_, _, _, err := credentials.ParseSFDXAuthURL("force://id:secret:refresh@")
	require.Error(t, err)
}

func TestParseSFDXAuthURL_RejectsMalformedCredentialsSection(t *testing.T) {
	_, _, _, err := credentials.ParseSFDXAuthURL("force://onlyonepart@example.my.salesforce.com")
	require.Error(t, err)
}

func TestSFDXAuthURL_RoundTripsWithParseSFDXAuthURL(t *testing.T) {
	cfg := credentials.OAuthConfig{
		ClientID:     "id with spaces",
		ClientSecret: "sec/ret",
		TokenURL:     "https://login.salesforce.com/services/oauth2/token",
	}
	encoded, err := credentials.SFDXAuthURL(cfg, "refresh+token", "https://example.my.salesforce.com")
	require.NoError(t, err)

	decodedCfg, refreshToken, instanceURL, err := credentials.ParseSFDXAuthURL(encoded)
	require.NoError(t, err)
	assert.Equal(t, cfg.ClientID, decodedCfg.ClientID)
	assert.Equal(t, cfg.ClientSecret, decodedCfg.ClientSecret)
	assert.Equal(t, cfg.TokenURL, decodedCfg.TokenURL)
	assert.Equal(t, "refresh+token", refreshToken)
	assert.Equal(t, "https://example.my.salesforce.com", instanceURL)
}

func TestSFDXAuthURL_RejectsEmptyInstanceURL(t *testing.T) {
	_, err := credentials.SFDXAuthURL(credentials.OAuthConfig{}, "refresh", "")
	require.Error(t, err)
}
