//go:build property
// +build property

package credentials_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sfcore/salesforce/credentials"
)

// TestSFDXAuthURL_RoundTrip verifies §8's round-trip property:
// parse(format(credentials)) == credentials for SFDX auth URLs, including
// an empty client secret (§8 scenario 1).
func TestSFDXAuthURL_RoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	printableASCII := gen.RegexMatch(`[A-Za-z0-9_\-]{1,40}`)

	properties.Property("SFDX auth URL encode/decode round-trips", prop.ForAll(
		func(clientID, clientSecret, refreshToken, host string) bool {
			cfg := credentials.OAuthConfig{
				ClientID:     clientID,
				ClientSecret: clientSecret,
			}
			instanceURL := "https://" + host
			encoded, err := credentials.SFDXAuthURL(cfg, refreshToken, instanceURL)
			if err != nil {
				return false
			}
			decodedCfg, decodedRefresh, decodedInstanceURL, err := credentials.ParseSFDXAuthURL(encoded)
			if err != nil {
				return false
			}
			return decodedCfg.ClientID == clientID &&
				decodedCfg.ClientSecret == clientSecret &&
				decodedInstanceURL == instanceURL &&
				decodedRefresh == refreshToken
		},
		printableASCII,
		gen.OneConstOf("", "secret123", "s3cr3t-value"),
		printableASCII,
		gen.RegexMatch(`[a-z0-9]{2,20}\.salesforce\.com`),
	))

	properties.TestingRun(t)
}
