//go:build property
// +build property

package security_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sfcore/salesforce/internal/security"
)

// TestEscapeSOQLString_NoUnescapedSpecials verifies the universal property
// from §8: for every SOQL value, the escaped form contains no bare
// backslash, single quote, newline, carriage return or tab.
func TestEscapeSOQLString_NoUnescapedSpecials(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("escaped SOQL strings carry no unescaped special byte", prop.ForAll(
		func(s string) bool {
			escaped := security.EscapeSOQLString(s)
			for i := 0; i < len(escaped); i++ {
				switch escaped[i] {
				case '\'', '\n', '\r', '\t':
					return false
				case '\\':
					// a backslash must always be followed by one of the
					// characters it was used to escape.
					if i+1 >= len(escaped) {
						return false
					}
					switch escaped[i+1] {
					case '\\', '\'', 'n', 'r', 't':
						i++
					default:
						return false
					}
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestEscapeSOQLLike_IdempotentOnAlreadyEscapedOutput verifies re-escaping
// an already-escaped value with the LIKE wildcard pass added on top does
// not reintroduce an unescaped wildcard.
func TestEscapeSOQLLike_IdempotentOnAlreadyEscapedOutput(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("re-escaping an escaped LIKE pattern adds no new unescaped wildcard", prop.ForAll(
		func(s string) bool {
			once := security.EscapeSOQLLike(s)
			twice := security.EscapeSOQLLike(once)
			// every wildcard in `once` was already preceded by a backslash;
			// escaping again must not change the count of backslash-escaped
			// wildcards, only possibly double the backslashes themselves.
			return strings.Count(twice, "%") == strings.Count(once, "%") &&
				strings.Count(twice, "_") == strings.Count(once, "_")
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

var fieldNameGrammar = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// TestIsSafeFieldName_MatchesGrammar verifies §8's universal property: for
// every field name s, is_safe_field_name(s) implies s matches
// [A-Za-z][A-Za-z0-9_]*.
func TestIsSafeFieldName_MatchesGrammar(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("a field name security accepts always matches the safe grammar", prop.ForAll(
		func(s string) bool {
			if !security.IsSafeFieldName(s) {
				return true
			}
			return fieldNameGrammar.MatchString(s)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestIsValidSalesforceID_LengthAndAlphabet verifies §8's universal
// property: for every x, is_valid_salesforce_id(x) implies |x| in {15,18}
// and x is ASCII alphanumeric.
func TestIsValidSalesforceID_LengthAndAlphabet(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("a valid Salesforce ID always has length 15 or 18 and is alphanumeric", prop.ForAll(
		func(x string) bool {
			if !security.IsValidSalesforceID(x) {
				return true
			}
			if len(x) != 15 && len(x) != 18 {
				return false
			}
			for i := 0; i < len(x); i++ {
				c := x[i]
				isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
				if !isAlnum {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
