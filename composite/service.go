// Package composite provides Composite/Batch/Tree/Graph/Collections API
// operations, generalizing the teacher's package of the same name onto
// internal/session.
package composite

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/sferrors"
)

// Request represents a composite API request.
type Request struct {
	AllOrNone          bool         `json:"allOrNone"`
	CollateSubrequests bool         `json:"collateSubrequests,omitempty"`
	CompositeRequest   []Subrequest `json:"compositeRequest"`
}

// Subrequest represents a single subrequest in a composite request.
type Subrequest struct {
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	ReferenceId string            `json:"referenceId"`
	Body        interface{}       `json:"body,omitempty"`
	HTTPHeaders map[string]string `json:"httpHeaders,omitempty"`
}

// Response represents a composite API response.
type Response struct {
	CompositeResponse []Subresponse `json:"compositeResponse"`
}

// Subresponse represents a single subresponse.
type Subresponse struct {
	Body           interface{}       `json:"body"`
	HTTPHeaders    map[string]string `json:"httpHeaders"`
	HTTPStatusCode int               `json:"httpStatusCode"`
	ReferenceId    string            `json:"referenceId"`
}

// IsSuccess reports whether the subresponse succeeded.
func (s *Subresponse) IsSuccess() bool {
	return s.HTTPStatusCode >= 200 && s.HTTPStatusCode < 300
}

// BatchRequest represents a batch request.
type BatchRequest struct {
	BatchRequests []BatchSubrequest `json:"batchRequests"`
	HaltOnError   bool              `json:"haltOnError,omitempty"`
}

// BatchSubrequest represents a single batch subrequest.
type BatchSubrequest struct {
	Method    string      `json:"method"`
	URL       string      `json:"url"`
	RichInput interface{} `json:"richInput,omitempty"`
}

// BatchResponse represents a batch response.
type BatchResponse struct {
	HasErrors bool               `json:"hasErrors"`
	Results   []BatchSubresponse `json:"results"`
}

// BatchSubresponse represents a single batch subresponse.
type BatchSubresponse struct {
	StatusCode int         `json:"statusCode"`
	Result     interface{} `json:"result"`
}

// TreeRequest represents an SObject Tree request.
type TreeRequest struct {
	Records []TreeRecord `json:"records"`
}

// TreeRecord represents a record in a tree request.
type TreeRecord struct {
	Attributes  TreeAttributes `json:"attributes"`
	ReferenceId string         `json:"referenceId"`
	Fields      map[string]interface{}
}

// TreeAttributes contains record attributes for tree requests.
type TreeAttributes struct {
	Type        string `json:"type"`
	ReferenceId string `json:"referenceId,omitempty"`
}

// MarshalJSON flattens Fields alongside attributes, matching the shape
// the SObject Tree endpoint expects.
func (t TreeRecord) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(t.Fields)+1)
	m["attributes"] = t.Attributes
	for k, v := range t.Fields {
		m[k] = v
	}
	return json.Marshal(m)
}

// TreeResponse represents an SObject Tree response.
type TreeResponse struct {
	HasErrors bool         `json:"hasErrors"`
	Results   []TreeResult `json:"results"`
}

// TreeResult represents a single result in a tree response.
type TreeResult struct {
	ID          string  `json:"id"`
	ReferenceId string  `json:"referenceId"`
	Errors      []Error `json:"errors,omitempty"`
}

// Error represents an API error embedded in a collection/tree result.
type Error struct {
	StatusCode string   `json:"statusCode"`
	Message    string   `json:"message"`
	Fields     []string `json:"fields,omitempty"`
}

// GraphRequest represents a Composite Graph request.
type GraphRequest struct {
	Graphs []Graph `json:"graphs"`
}

// Graph represents a single graph in a graph request.
type Graph struct {
	GraphId          string       `json:"graphId"`
	CompositeRequest []Subrequest `json:"compositeRequest"`
}

// GraphResponse represents a Composite Graph response.
type GraphResponse struct {
	Graphs []GraphResult `json:"graphs"`
}

// GraphResult represents a single graph result.
type GraphResult struct {
	GraphId       string   `json:"graphId"`
	IsSuccessful  bool     `json:"isSuccessful"`
	GraphResponse Response `json:"graphResponse"`
}

// CollectionRequest represents an SObject Collections request.
type CollectionRequest struct {
	AllOrNone bool          `json:"allOrNone"`
	Records   []interface{} `json:"records"`
}

// CollectionResponse represents an SObject Collections response.
type CollectionResponse []CollectionResult

// CollectionResult represents a single collection result.
type CollectionResult struct {
	ID      string  `json:"id"`
	Success bool    `json:"success"`
	Errors  []Error `json:"errors,omitempty"`
}

// Service provides Composite API operations bound to one session.
type Service struct {
	sess *session.Session
}

// NewService builds a Service.
func NewService(sess *session.Session) *Service { return &Service{sess: sess} }

// Execute runs a composite request.
func (s *Service) Execute(ctx context.Context, req Request) (*Response, error) {
	var resp Response
	if _, err := s.sess.RestPost(ctx, "composite", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExecuteBatch runs a batch request.
func (s *Service) ExecuteBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	var resp BatchResponse
	if _, err := s.sess.RestPost(ctx, "composite/batch", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateTree creates records via SObject Tree.
func (s *Service) CreateTree(ctx context.Context, objectType string, records []TreeRecord) (*TreeResponse, error) {
	var resp TreeResponse
	req := TreeRequest{Records: records}
	if _, err := s.sess.RestPost(ctx, "composite/tree/"+objectType, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExecuteGraph runs a composite graph request.
func (s *Service) ExecuteGraph(ctx context.Context, req GraphRequest) (*GraphResponse, error) {
	var resp GraphResponse
	if _, err := s.sess.RestPost(ctx, "composite/graph", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCollection creates multiple records via SObject Collections.
func (s *Service) CreateCollection(ctx context.Context, records []interface{}, allOrNone bool) (CollectionResponse, error) {
	var resp CollectionResponse
	req := CollectionRequest{AllOrNone: allOrNone, Records: records}
	if _, err := s.sess.RestPost(ctx, "composite/sobjects", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateCollection updates multiple records via SObject Collections.
func (s *Service) UpdateCollection(ctx context.Context, records []interface{}, allOrNone bool) (CollectionResponse, error) {
	req := CollectionRequest{AllOrNone: allOrNone, Records: records}
	resp, err := s.sess.RestPatch(ctx, "composite/sobjects", req)
	if err != nil {
		return nil, err
	}
	var out CollectionResponse
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return nil, sferrors.Wrap(sferrors.KindJSON, "failed to decode collection update response", err)
		}
	}
	return out, nil
}

// DeleteCollection deletes multiple records via SObject Collections.
func (s *Service) DeleteCollection(ctx context.Context, ids []string, allOrNone bool) (CollectionResponse, error) {
	path := "composite/sobjects?ids=" + strings.Join(ids, ",") + "&allOrNone=" + boolString(allOrNone)
	resp, err := s.sess.RestDelete(ctx, path)
	if err != nil {
		return nil, err
	}
	var out CollectionResponse
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return nil, sferrors.Wrap(sferrors.KindJSON, "failed to decode collection delete response", err)
		}
	}
	return out, nil
}

// GetCollection retrieves multiple records via SObject Collections.
func (s *Service) GetCollection(ctx context.Context, objectType string, ids []string, fields []string) ([]map[string]interface{}, error) {
	path := "composite/sobjects/" + objectType + "?ids=" + strings.Join(ids, ",")
	if len(fields) > 0 {
		path += "&fields=" + strings.Join(fields, ",")
	}
	var resp []map[string]interface{}
	if _, err := s.sess.RestGet(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
