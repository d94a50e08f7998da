// Package sobjects provides SObject CRUD, upsert and describe operations,
// generalizing the teacher's package of the same name onto the shared
// internal/session transport and internal/security validation layer.
package sobjects

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sfcore/salesforce/internal/security"
	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/sferrors"
)

// SObject represents a Salesforce record, identical in shape to the
// teacher's sobjects.SObject.
type SObject struct {
	data map[string]interface{}
}

// Attributes contains SObject metadata.
type Attributes struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// New creates a new SObject of the given type.
func New(objectType string) *SObject {
	return &SObject{data: map[string]interface{}{"attributes": Attributes{Type: objectType}}}
}

// FromMap creates an SObject from a decoded JSON map.
func FromMap(data map[string]interface{}) *SObject {
	if data == nil {
		data = make(map[string]interface{})
	}
	return &SObject{data: data}
}

func (s *SObject) Type() string {
	if attrs := s.Attributes(); attrs != nil {
		return attrs.Type
	}
	return ""
}

func (s *SObject) ID() string { return s.StringField("Id") }

func (s *SObject) Attributes() *Attributes {
	if s.data == nil {
		return nil
	}
	switch v := s.data["attributes"].(type) {
	case Attributes:
		return &v
	case *Attributes:
		return v
	case map[string]interface{}:
		attrs := &Attributes{}
		if t, ok := v["type"].(string); ok {
			attrs.Type = t
		}
		if u, ok := v["url"].(string); ok {
			attrs.URL = u
		}
		return attrs
	}
	return nil
}

func (s *SObject) Get(key string) interface{} {
	if s.data == nil {
		return nil
	}
	return s.data[key]
}

func (s *SObject) Set(key string, value interface{}) *SObject {
	if s.data == nil {
		s.data = make(map[string]interface{})
	}
	s.data[key] = value
	return s
}

func (s *SObject) StringField(key string) string {
	if v, ok := s.Get(key).(string); ok {
		return v
	}
	return ""
}

func (s *SObject) IntField(key string) int {
	switch v := s.Get(key).(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (s *SObject) FloatField(key string) float64 {
	switch v := s.Get(key).(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func (s *SObject) BoolField(key string) bool {
	v, _ := s.Get(key).(bool)
	return v
}

func (s *SObject) TimeField(key string) time.Time {
	if v, ok := s.Get(key).(string); ok {
		t, _ := time.Parse(time.RFC3339, v)
		return t
	}
	return time.Time{}
}

func (s *SObject) Related(key string) *SObject {
	if v, ok := s.Get(key).(map[string]interface{}); ok {
		return FromMap(v)
	}
	return nil
}

func (s *SObject) RelatedList(key string) []*SObject {
	v := s.Get(key)
	if v == nil {
		return nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	records, ok := m["records"].([]interface{})
	if !ok {
		return nil
	}
	result := make([]*SObject, len(records))
	for i, r := range records {
		if rm, ok := r.(map[string]interface{}); ok {
			result[i] = FromMap(rm)
		}
	}
	return result
}

func (s *SObject) ToMap() map[string]interface{} {
	result := make(map[string]interface{}, len(s.data))
	for k, v := range s.data {
		result[k] = v
	}
	return result
}

var systemFields = map[string]bool{
	"Id": true, "attributes": true, "IsDeleted": true,
	"CreatedDate": true, "CreatedById": true,
	"LastModifiedDate": true, "LastModifiedById": true,
	"SystemModstamp": true, "LastActivityDate": true,
	"LastViewedDate": true, "LastReferencedDate": true,
}

// ToCreatePayload strips read-only system fields for a create/update body.
func (s *SObject) ToCreatePayload() map[string]interface{} {
	result := make(map[string]interface{})
	for k, v := range s.data {
		if !systemFields[k] {
			result[k] = v
		}
	}
	return result
}

func (s *SObject) MarshalJSON() ([]byte, error) { return json.Marshal(s.data) }

func (s *SObject) UnmarshalJSON(data []byte) error { return json.Unmarshal(data, &s.data) }

// Metadata, FieldMetadata and friends are the describe() response shapes,
// unchanged from the teacher.

type Metadata struct {
	Name               string           `json:"name"`
	Label              string           `json:"label"`
	LabelPlural        string           `json:"labelPlural"`
	KeyPrefix          string           `json:"keyPrefix"`
	Createable         bool             `json:"createable"`
	Updateable         bool             `json:"updateable"`
	Deletable          bool             `json:"deletable"`
	Queryable          bool             `json:"queryable"`
	Searchable         bool             `json:"searchable"`
	Custom             bool             `json:"custom"`
	Fields             []FieldMetadata  `json:"fields,omitempty"`
	ChildRelationships []ChildRelation  `json:"childRelationships,omitempty"`
	RecordTypeInfos    []RecordTypeInfo `json:"recordTypeInfos,omitempty"`
}

type FieldMetadata struct {
	Name             string          `json:"name"`
	Label            string          `json:"label"`
	Type             string          `json:"type"`
	Length           int             `json:"length"`
	Createable       bool            `json:"createable"`
	Updateable       bool            `json:"updateable"`
	Nillable         bool            `json:"nillable"`
	Unique           bool            `json:"unique"`
	Custom           bool            `json:"custom"`
	ExternalId       bool            `json:"externalId"`
	ReferenceTo      []string        `json:"referenceTo,omitempty"`
	RelationshipName string          `json:"relationshipName,omitempty"`
	PicklistValues   []PicklistValue `json:"picklistValues,omitempty"`
}

type PicklistValue struct {
	Active       bool   `json:"active"`
	DefaultValue bool   `json:"defaultValue"`
	Label        string `json:"label"`
	Value        string `json:"value"`
}

type ChildRelation struct {
	ChildSObject     string `json:"childSObject"`
	Field            string `json:"field"`
	RelationshipName string `json:"relationshipName"`
	CascadeDelete    bool   `json:"cascadeDelete"`
}

type RecordTypeInfo struct {
	Name         string `json:"name"`
	RecordTypeId string `json:"recordTypeId"`
	Available    bool   `json:"available"`
	Master       bool   `json:"master"`
}

type GlobalDescribe struct {
	Encoding     string     `json:"encoding"`
	MaxBatchSize int        `json:"maxBatchSize"`
	SObjects     []Metadata `json:"sobjects"`
}

type DeletedRecords struct {
	DeletedRecords        []DeletedRecord `json:"deletedRecords"`
	EarliestDateAvailable string          `json:"earliestDateAvailable"`
	LatestDateCovered     string          `json:"latestDateCovered"`
}

type DeletedRecord struct {
	ID          string `json:"id"`
	DeletedDate string `json:"deletedDate"`
}

type UpdatedRecords struct {
	IDs               []string `json:"ids"`
	LatestDateCovered string   `json:"latestDateCovered"`
}

type CreateResult struct {
	ID      string  `json:"id"`
	Success bool    `json:"success"`
	Errors  []Error `json:"errors,omitempty"`
}

type Error struct {
	StatusCode string   `json:"statusCode"`
	Message    string   `json:"message"`
	Fields     []string `json:"fields,omitempty"`
}

// Service provides SObject CRUD operations bound to one session.
type Service struct {
	sess *session.Session
}

// NewService builds a Service.
func NewService(sess *session.Session) *Service { return &Service{sess: sess} }

func validateSObjectType(objectType string) error {
	if !security.IsSafeSObjectName(objectType) {
		return sferrors.New(sferrors.KindSerialization, "invalid sobject name: "+objectType)
	}
	return nil
}

func validateID(id string) error {
	if !security.IsValidSalesforceID(id) {
		return sferrors.New(sferrors.KindSerialization, "invalid salesforce id: "+id)
	}
	return nil
}

func validateFieldName(field string) error {
	if !security.IsSafeFieldName(field) {
		return sferrors.New(sferrors.KindSerialization, "invalid field name: "+field)
	}
	return nil
}

// Create creates a new SObject record.
func (s *Service) Create(ctx context.Context, objectType string, data map[string]interface{}) (*CreateResult, error) {
	if err := validateSObjectType(objectType); err != nil {
		return nil, err
	}
	var result CreateResult
	if _, err := s.sess.RestPost(ctx, fmt.Sprintf("sobjects/%s", objectType), data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves an SObject by ID, optionally restricted to fields.
func (s *Service) Get(ctx context.Context, objectType, id string, fields ...string) (*SObject, error) {
	if err := validateSObjectType(objectType); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("sobjects/%s/%s", objectType, id)
	if len(fields) > 0 {
		safe := security.FilterSafeFields(fields)
		if len(safe) == 0 {
			return nil, sferrors.New(sferrors.KindSerialization, "no valid field names supplied")
		}
		path += "?fields=" + url.QueryEscape(strings.Join(safe, ","))
	}
	var data map[string]interface{}
	if _, err := s.sess.RestGet(ctx, path, &data); err != nil {
		return nil, err
	}
	return FromMap(data), nil
}

// Update patches fields on an existing SObject. A 204 response (no body)
// is success, matching the design's explicit 204 handling.
func (s *Service) Update(ctx context.Context, objectType, id string, data map[string]interface{}) error {
	if err := validateSObjectType(objectType); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}
	_, err := s.sess.RestPatch(ctx, fmt.Sprintf("sobjects/%s/%s", objectType, id), data)
	return err
}

// Upsert creates-or-updates by external ID field, returning 201 (created)
// or 204 (updated) semantics folded into CreateResult.Success.
func (s *Service) Upsert(ctx context.Context, objectType, extIDField, extID string, data map[string]interface{}) (*CreateResult, error) {
	if err := validateSObjectType(objectType); err != nil {
		return nil, err
	}
	if err := validateFieldName(extIDField); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("sobjects/%s/%s/%s", objectType, extIDField, url.PathEscape(extID))
	var result CreateResult
	resp, err := s.sess.RestPatch(ctx, path, data)
	if err != nil {
		return nil, err
	}
	if len(resp.Body) == 0 {
		return &CreateResult{Success: true}, nil
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, sferrors.Wrap(sferrors.KindJSON, "failed to parse upsert response", err)
	}
	return &result, nil
}

// Delete deletes an SObject by ID.
func (s *Service) Delete(ctx context.Context, objectType, id string) error {
	if err := validateSObjectType(objectType); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}
	_, err := s.sess.RestDelete(ctx, fmt.Sprintf("sobjects/%s/%s", objectType, id))
	return err
}

// Describe returns metadata for an SObject type.
func (s *Service) Describe(ctx context.Context, objectType string) (*Metadata, error) {
	if err := validateSObjectType(objectType); err != nil {
		return nil, err
	}
	var meta Metadata
	if _, err := s.sess.RestGet(ctx, fmt.Sprintf("sobjects/%s/describe", objectType), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// DescribeGlobal lists every accessible SObject type.
func (s *Service) DescribeGlobal(ctx context.Context) (*GlobalDescribe, error) {
	var result GlobalDescribe
	if _, err := s.sess.RestGet(ctx, "sobjects", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDeleted lists records of objectType deleted in [start, end].
func (s *Service) GetDeleted(ctx context.Context, objectType string, start, end time.Time) (*DeletedRecords, error) {
	if err := validateSObjectType(objectType); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("sobjects/%s/deleted/?start=%s&end=%s", objectType,
		url.QueryEscape(start.Format(time.RFC3339)), url.QueryEscape(end.Format(time.RFC3339)))
	var result DeletedRecords
	if _, err := s.sess.RestGet(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUpdated lists record IDs of objectType updated in [start, end].
func (s *Service) GetUpdated(ctx context.Context, objectType string, start, end time.Time) (*UpdatedRecords, error) {
	if err := validateSObjectType(objectType); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("sobjects/%s/updated/?start=%s&end=%s", objectType,
		url.QueryEscape(start.Format(time.RFC3339)), url.QueryEscape(end.Format(time.RFC3339)))
	var result UpdatedRecords
	if _, err := s.sess.RestGet(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetByExternalID retrieves a record keyed by an external ID field.
func (s *Service) GetByExternalID(ctx context.Context, objectType, extIDField, extID string) (*SObject, error) {
	if err := validateSObjectType(objectType); err != nil {
		return nil, err
	}
	if err := validateFieldName(extIDField); err != nil {
		return nil, err
	}
	var data map[string]interface{}
	path := fmt.Sprintf("sobjects/%s/%s/%s", objectType, extIDField, url.PathEscape(extID))
	if _, err := s.sess.RestGet(ctx, path, &data); err != nil {
		return nil, err
	}
	return FromMap(data), nil
}
