// Package session composes Salesforce REST/Tooling/Bulk/Metadata URLs
// against an authenticated instance and offers typed JSON helpers over
// internal/transport, generalizing the teacher's sfhttp.Client plus the
// per-service URL-building each of its packages repeated individually.
package session

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sfcore/salesforce/internal/transport"
	"github.com/sfcore/salesforce/sferrors"
)

// Session is the shared handle every facade package (sobjects, query,
// bulk, tooling, ...) is built around.
type Session struct {
	transport   *transport.Client
	instanceURL string
	apiVersion  string
}

// New builds a Session bound to one org instance and API version.
func New(t *transport.Client, instanceURL, apiVersion string) *Session {
	return &Session{
		transport:   t,
		instanceURL: strings.TrimSuffix(instanceURL, "/"),
		apiVersion:  apiVersion,
	}
}

// SetInstanceURL updates the instance URL, used after a fresh login
// response on a session constructed before authentication completed.
func (s *Session) SetInstanceURL(u string) { s.instanceURL = strings.TrimSuffix(u, "/") }

// InstanceURL returns the bound org's base URL.
func (s *Session) InstanceURL() string { return s.instanceURL }

// APIVersion returns the bound REST/Tooling API version, e.g. "59.0".
func (s *Session) APIVersion() string { return s.apiVersion }

// AccessToken returns the current bearer token, used to populate the
// Metadata SOAP client's SessionHeader.
func (s *Session) AccessToken() string { return s.transport.AccessToken() }

// RestBaseURL returns /services/data/vXX.X against the instance.
func (s *Session) RestBaseURL() string {
	return fmt.Sprintf("%s/services/data/v%s", s.instanceURL, s.apiVersion)
}

// ToolingBaseURL returns the Tooling API root.
func (s *Session) ToolingBaseURL() string { return s.RestBaseURL() + "/tooling" }

// BulkBaseURL returns the Bulk API 2.0 root.
func (s *Session) BulkBaseURL() string { return s.RestBaseURL() + "/jobs" }

// MetadataSOAPURL returns the Metadata API SOAP endpoint.
func (s *Session) MetadataSOAPURL() string {
	return fmt.Sprintf("%s/services/Soap/m/%s", s.instanceURL, s.apiVersion)
}

// absolute resolves path against the instance unless it's already a full
// URL (as nextRecordsUrl/locator-bearing URLs from Salesforce are).
func (s *Session) absolute(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return s.instanceURL + path
	}
	return s.RestBaseURL() + "/" + path
}

func (s *Session) do(ctx context.Context, method, path string, body interface{}, contentType string, out interface{}) (*transport.Response, error) {
	resp, err := s.transport.Execute(ctx, transport.Request{
		Method:      method,
		URL:         s.absolute(path),
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}
	if out != nil && len(resp.Body) > 0 {
		if err := transport.DecodeJSON(resp, out); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// RestGet performs a GET against the REST API root (path may be absolute
// for pagination continuation URLs).
func (s *Session) RestGet(ctx context.Context, path string, out interface{}) (*transport.Response, error) {
	return s.do(ctx, "GET", path, nil, "", out)
}

// RestPost performs a POST with a JSON body.
func (s *Session) RestPost(ctx context.Context, path string, body, out interface{}) (*transport.Response, error) {
	return s.do(ctx, "POST", path, body, "application/json", out)
}

// RestPut performs a PUT with a JSON body.
func (s *Session) RestPut(ctx context.Context, path string, body, out interface{}) (*transport.Response, error) {
	return s.do(ctx, "PUT", path, body, "application/json", out)
}

// RestPutRaw performs a PUT with an arbitrary content type, used for
// non-JSON payloads like Bulk API CSV batch uploads.
func (s *Session) RestPutRaw(ctx context.Context, path string, body []byte, contentType string) (*transport.Response, error) {
	return s.do(ctx, "PUT", path, body, contentType, nil)
}

// RestPatch performs a PATCH with a JSON body.
func (s *Session) RestPatch(ctx context.Context, path string, body interface{}) (*transport.Response, error) {
	return s.do(ctx, "PATCH", path, body, "application/json", nil)
}

// RestDelete performs a DELETE.
func (s *Session) RestDelete(ctx context.Context, path string) (*transport.Response, error) {
	return s.do(ctx, "DELETE", path, nil, "", nil)
}

// ToolingGet performs a GET against the Tooling API root.
func (s *Session) ToolingGet(ctx context.Context, path string, out interface{}) (*transport.Response, error) {
	return s.RestGet(ctx, "tooling/"+strings.TrimPrefix(path, "/"), out)
}

// ToolingPost performs a POST against the Tooling API root.
func (s *Session) ToolingPost(ctx context.Context, path string, body, out interface{}) (*transport.Response, error) {
	return s.RestPost(ctx, "tooling/"+strings.TrimPrefix(path, "/"), body, out)
}

// SOAPPost posts a raw SOAP 1.1 envelope to the Metadata API endpoint and
// returns the raw response, leaving envelope parsing to the caller
// (metadata's extractors are XML, not JSON, so the generic JSON decode
// path in do() doesn't apply here).
func (s *Session) SOAPPost(ctx context.Context, bodyXML string) (*transport.Response, error) {
	return s.transport.Execute(ctx, transport.Request{
		Method:      "POST",
		URL:         s.MetadataSOAPURL(),
		Body:        bodyXML,
		ContentType: "text/xml; charset=UTF-8",
	})
}

// QueryResult mirrors the pagination envelope every SOQL-returning
// endpoint shares, generalizing the teacher's query.Result.
type QueryResult struct {
	TotalSize      int                      `json:"totalSize"`
	Done           bool                     `json:"done"`
	NextRecordsURL string                   `json:"nextRecordsUrl,omitempty"`
	Records        []map[string]interface{} `json:"records"`
}

// HasMore reports whether another page is available.
func (r *QueryResult) HasMore() bool { return !r.Done && r.NextRecordsURL != "" }

// Query runs a raw SOQL string against /query.
func (s *Session) Query(ctx context.Context, soql string) (*QueryResult, error) {
	return s.queryAt(ctx, "query?q="+url.QueryEscape(soql))
}

// QueryAllRecordsIncludingDeleted runs a raw SOQL string against
// /queryAll, which also returns soft-deleted and archived records.
func (s *Session) QueryAllRecordsIncludingDeleted(ctx context.Context, soql string) (*QueryResult, error) {
	return s.queryAt(ctx, "queryAll?q="+url.QueryEscape(soql))
}

func (s *Session) queryAt(ctx context.Context, path string) (*QueryResult, error) {
	var result QueryResult
	if _, err := s.RestGet(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryAll drains every page of a SOQL query's pagination, concatenating
// records in order, the generalized form of the teacher's
// ExecuteAllRecords.
func (s *Session) QueryAll(ctx context.Context, soql string) ([]map[string]interface{}, error) {
	result, err := s.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	all := append([]map[string]interface{}{}, result.Records...)
	for result.HasMore() {
		var next QueryResult
		if _, err := s.RestGet(ctx, result.NextRecordsURL, &next); err != nil {
			return nil, sferrors.Wrap(sferrors.KindHTTP, "failed to fetch next query page", err)
		}
		all = append(all, next.Records...)
		result = &next
	}
	return all, nil
}
