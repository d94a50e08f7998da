package salesforce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateRequiresAnAuthStrategy(t *testing.T) {
	cfg := defaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication required")
}

func TestConfig_ValidateRejectsMultipleStrategies(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, WithAccessToken("tok", "https://example.my.salesforce.com")(cfg))
	require.NoError(t, WithOAuthRefresh("id", "secret", "refresh")(cfg))
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only one authentication strategy")
}

func TestConfig_ValidateRequiresInstanceURLForStaticToken(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, WithAccessToken("tok", "")(cfg))
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instance_url")
}

func TestConfig_ValidateRequiresClientIDForOAuthFlows(t *testing.T) {
	cfg := defaultConfig()
	cfg.RefreshToken = "refresh"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id")
}

func TestConfig_ValidateAcceptsStaticToken(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, WithAccessToken("tok", "https://example.my.salesforce.com")(cfg))
	assert.NoError(t, cfg.Validate())
}

func TestWithSFDXAuthURL_DecodesIntoRefreshFlow(t *testing.T) {
	cfg := defaultConfig()
	err := WithSFDXAuthURL("force://myClientId:myClientSecret:myRefreshToken@login.salesforce.com")(cfg)
	require.NoError(t, err)
	assert.Equal(t, "myClientId", cfg.ClientID)
	assert.Equal(t, "myClientSecret", cfg.ClientSecret)
	assert.Equal(t, "myRefreshToken", cfg.RefreshToken)
	assert.Equal(t, "https://login.salesforce.com/services/oauth2/token", cfg.TokenURL)
	assert.Equal(t, "https://login.salesforce.com", cfg.InstanceURL)
}

func TestWithSandbox_SetsTokenURLAndJWTAudience(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, WithSandbox()(cfg))
	assert.Equal(t, "https://test.salesforce.com/services/oauth2/token", cfg.TokenURL)
	assert.Equal(t, "https://test.salesforce.com", cfg.Audience)
}

func TestWithCustomDomain_LeavesProductionAudience(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, WithCustomDomain("acme")(cfg))
	assert.Equal(t, "https://acme.my.salesforce.com/services/oauth2/token", cfg.TokenURL)
	assert.Equal(t, "https://acme.my.salesforce.com", cfg.InstanceURL)
	assert.Equal(t, productionAudience, cfg.Audience)
}

func TestWithCorrelationIDs_SetsFlag(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, WithCorrelationIDs()(cfg))
	assert.True(t, cfg.CorrelationIDs)
}

func TestWithRateLimit_SetsRateAndBurst(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, WithRateLimit(5.0, 10)(cfg))
	assert.Equal(t, 5.0, cfg.RateLimitPerSecond)
	assert.Equal(t, 10, cfg.RateLimitBurst)
}

func TestWithRateLimit_RejectsNonPositiveRate(t *testing.T) {
	cfg := defaultConfig()
	err := WithRateLimit(0, 10)(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}
