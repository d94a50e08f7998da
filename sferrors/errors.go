// Package sferrors defines the uniform error taxonomy shared by every
// client in the module: transport, credentials, bulk, metadata and the
// WASM bridge all surface errors through these types so callers can
// pattern-match on kind rather than string-sniffing messages.
package sferrors

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
)

// Kind discriminates the error taxonomy from the design's data model.
type Kind int

const (
	KindHTTP Kind = iota
	KindRateLimited
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindPreconditionFailed
	KindTimeout
	KindConnection
	KindJSON
	KindInvalidURL
	KindSerialization
	KindConfig
	KindSalesforceAPI
	KindRetriesExhausted
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "Http"
	case KindRateLimited:
		return "RateLimited"
	case KindAuthentication:
		return "Authentication"
	case KindAuthorization:
		return "Authorization"
	case KindNotFound:
		return "NotFound"
	case KindPreconditionFailed:
		return "PreconditionFailed"
	case KindTimeout:
		return "Timeout"
	case KindConnection:
		return "Connection"
	case KindJSON:
		return "Json"
	case KindInvalidURL:
		return "InvalidUrl"
	case KindSerialization:
		return "Serialization"
	case KindConfig:
		return "Config"
	case KindSalesforceAPI:
		return "SalesforceApi"
	case KindRetriesExhausted:
		return "RetriesExhausted"
	default:
		return "Other"
	}
}

// Error is the tagged error carried across every API surface in this module.
type Error struct {
	Kind       Kind
	Status     int           // HTTP status, when applicable.
	Message    string
	RetryAfter *int          // seconds, set only for KindRateLimited.
	ErrorCode  string        // SalesforceApi errorCode.
	Fields     []string      // SalesforceApi affected fields.
	Attempts   int           // set only for KindRetriesExhausted.
	Err        error         // wrapped source, if any.
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindSalesforceAPI:
		if len(e.Fields) > 0 {
			return fmt.Sprintf("[%s] %s (fields: %v)", e.ErrorCode, e.Message, e.Fields)
		}
		return fmt.Sprintf("[%s] %s", e.ErrorCode, e.Message)
	case KindRateLimited:
		if e.RetryAfter != nil {
			return fmt.Sprintf("rate limited: retry after %ds", *e.RetryAfter)
		}
		return "rate limited"
	case KindRetriesExhausted:
		return fmt.Sprintf("retries exhausted after %d attempts: %s", e.Attempts, e.Message)
	case KindHTTP:
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsRetryable implements the retryability predicate from the design's
// error model: true for RateLimited, Timeout, Connection, and Http with
// status in {429, 500, 502, 503, 504}.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindRateLimited, KindTimeout, KindConnection:
		return true
	case KindHTTP:
		switch e.Status {
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func HTTP(status int, message string) *Error {
	return &Error{Kind: KindHTTP, Status: status, Message: message}
}

func RateLimited(retryAfter *int) *Error {
	return &Error{Kind: KindRateLimited, RetryAfter: retryAfter, Message: "too many requests"}
}

func SalesforceAPI(errorCode, message string, fields []string) *Error {
	return &Error{Kind: KindSalesforceAPI, ErrorCode: errorCode, Message: message, Fields: fields}
}

func RetriesExhausted(attempts int, last error) *Error {
	msg := ""
	if last != nil {
		msg = last.Error()
	}
	return &Error{Kind: KindRetriesExhausted, Attempts: attempts, Message: msg, Err: last}
}

// Business errors surfaced unchanged at the bridge boundary (§7).

// ApexCompilationError indicates execute-anonymous failed to compile.
type ApexCompilationError struct {
	Message string
	Line    int
	Column  int
}

func (e *ApexCompilationError) Error() string {
	return fmt.Sprintf("apex compile error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// ApexExecutionError indicates execute-anonymous compiled but raised an exception.
type ApexExecutionError struct {
	Message    string
	StackTrace string
}

func (e *ApexExecutionError) Error() string {
	return fmt.Sprintf("apex execution error: %s", e.Message)
}

// DeploymentFailedError wraps a Metadata API deploy that finished without success.
type DeploymentFailedError struct {
	Message  string
	Failures []string
}

func (e *DeploymentFailedError) Error() string {
	return fmt.Sprintf("deployment failed: %s (%d component failures: %v)", e.Message, len(e.Failures), e.Failures)
}

// RetrieveFailedError wraps a Metadata API retrieve that finished without success.
type RetrieveFailedError struct {
	Message string
}

func (e *RetrieveFailedError) Error() string { return fmt.Sprintf("retrieve failed: %s", e.Message) }

// UploadError wraps a Bulk API CSV upload failure.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string { return fmt.Sprintf("bulk upload failed: %s", e.Message) }

// SoapFaultError wraps a SOAP fault detected in a Metadata API response.
type SoapFaultError struct {
	Code   string
	String string
}

func (e *SoapFaultError) Error() string { return fmt.Sprintf("soap fault %s: %s", e.Code, e.String) }

// sanitize rules: Salesforce session id / token shapes and sid= query params.
var (
	tokenPattern = regexp.MustCompile(`00[A-Za-z0-9]{13,}![A-Za-z0-9._-]+`)
	sidPattern   = regexp.MustCompile(`sid=[^&\s]+`)
)

const sanitizedMarker = "[REDACTED]"
const maxSanitizedLen = 500
const truncationMarker = "...[truncated]"

// Sanitize redacts Salesforce token/session-id shapes and truncates the
// message to 500 bytes with an explicit marker, per §4.3/§7.
func Sanitize(msg string) string {
	msg = tokenPattern.ReplaceAllString(msg, sanitizedMarker)
	msg = sidPattern.ReplaceAllString(msg, "sid="+sanitizedMarker)
	if len(msg) > maxSanitizedLen {
		cut := maxSanitizedLen - len(truncationMarker)
		if cut < 0 {
			cut = 0
		}
		msg = msg[:cut] + truncationMarker
	}
	return msg
}
