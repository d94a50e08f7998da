// Package security implements the escaping and validation primitives that
// every SOQL, XML and URL interpolation in this module must funnel
// through. It has no dependencies beyond the standard library: injection
// prevention is the default, not an opt-in.
package security

import (
	"net/url"
	"strings"
)

// EscapeSOQLString escapes a value for safe embedding inside a SOQL string
// literal: backslash, single quote, newline, carriage return and tab.
func EscapeSOQLString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EscapeSOQLLike escapes a value for use inside a LIKE pattern: everything
// EscapeSOQLString escapes, plus the SOQL wildcard characters % and _.
func EscapeSOQLLike(s string) string {
	s = EscapeSOQLString(s)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// EscapeSOSL escapes a value for safe embedding inside a SOSL FIND{...}
// clause, per the reserved-character set SOSL itself defines.
func EscapeSOSL(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\", "'", "\\'", "\"", "\\\"",
		"?", "\\?", "&", "\\&", "|", "\\|",
		"!", "\\!", "{", "\\{", "}", "\\}",
		"[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "^", "\\^", "~", "\\~",
		"*", "\\*", ":", "\\:", "-", "\\-",
	)
	return replacer.Replace(s)
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isAlphaNum(b byte) bool {
	return isAlpha(b) || (b >= '0' && b <= '9')
}

// IsSafeFieldName reports whether s is non-empty, starts with a letter,
// and contains only letters, digits or underscores thereafter.
func IsSafeFieldName(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isAlphaNum(c) && c != '_' {
			return false
		}
	}
	return true
}

// IsSafeSObjectName applies the same grammar as IsSafeFieldName.
func IsSafeSObjectName(s string) bool { return IsSafeFieldName(s) }

// IsSafeActionName is like IsSafeFieldName but additionally allows '.' so
// scoped actions such as FeedItem.TextPost validate.
func IsSafeActionName(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isAlphaNum(c) && c != '_' && c != '.' {
			return false
		}
	}
	return true
}

// IsValidSalesforceID reports whether x is a well-formed 15 or 18
// character Salesforce record ID: the correct length and pure ASCII
// alphanumeric.
func IsValidSalesforceID(x string) bool {
	if len(x) != 15 && len(x) != 18 {
		return false
	}
	for i := 0; i < len(x); i++ {
		if !isAlphaNum(x[i]) {
			return false
		}
	}
	return true
}

// FilterSafeFields drops any field name that fails IsSafeFieldName,
// preserving order.
func FilterSafeFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if IsSafeFieldName(f) {
			out = append(out, f)
		}
	}
	return out
}

// BuildSafeSelect composes a "SELECT <fields> FROM <sobject>" clause using
// only fields/sobject names that pass validation. It returns "" when the
// sobject name is unsafe or no field survives filtering.
func BuildSafeSelect(sobject string, fields []string) string {
	if !IsSafeSObjectName(sobject) {
		return ""
	}
	safe := FilterSafeFields(fields)
	if len(safe) == 0 {
		return ""
	}
	return "SELECT " + strings.Join(safe, ", ") + " FROM " + sobject
}

var xmlEntityReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML replaces the five predefined XML entities.
func EscapeXML(s string) string {
	return xmlEntityReplacer.Replace(s)
}

// URLEncodeParam performs RFC-3986 component encoding, suitable for a
// single query-parameter value or path segment. Unlike url.QueryEscape,
// spaces are percent-encoded as %20 rather than +, which is the correct
// escaping outside an application/x-www-form-urlencoded body.
func URLEncodeParam(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
