package salesforce

import "github.com/sfcore/salesforce/sferrors"

// Re-export the shared error taxonomy so callers that only import the
// root package don't also need to import sferrors directly to type-switch
// on error kind.
type (
	Error = sferrors.Error
	Kind  = sferrors.Kind
)

const (
	KindHTTP               = sferrors.KindHTTP
	KindRateLimited        = sferrors.KindRateLimited
	KindAuthentication     = sferrors.KindAuthentication
	KindAuthorization      = sferrors.KindAuthorization
	KindNotFound           = sferrors.KindNotFound
	KindPreconditionFailed = sferrors.KindPreconditionFailed
	KindTimeout            = sferrors.KindTimeout
	KindConnection         = sferrors.KindConnection
	KindJSON               = sferrors.KindJSON
	KindInvalidURL         = sferrors.KindInvalidURL
	KindSerialization      = sferrors.KindSerialization
	KindConfig             = sferrors.KindConfig
	KindSalesforceAPI      = sferrors.KindSalesforceAPI
	KindRetriesExhausted   = sferrors.KindRetriesExhausted
	KindOther              = sferrors.KindOther
)

// IsRetryable reports whether err is one transport.Client would itself
// retry, exposed at the root so callers doing their own retry loop around
// composite/bulk polling can reuse the same classification.
var IsRetryable = sferrors.IsRetryable
