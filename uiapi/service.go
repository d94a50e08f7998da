// Package uiapi provides User Interface API operations.
package uiapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/sferrors"
)

// RecordUI contains full record UI information.
type RecordUI struct {
	Layouts     map[string]LayoutRepresentation `json:"layouts"`
	ObjectInfos map[string]ObjectInfo           `json:"objectInfos"`
	Records     map[string]RecordRepresentation `json:"records"`
}

// RecordRepresentation represents a record.
type RecordRepresentation struct {
	ID             string                `json:"id"`
	APIName        string                `json:"apiName"`
	Fields         map[string]FieldValue `json:"fields"`
	RecordTypeId   string                `json:"recordTypeId,omitempty"`
	SystemModstamp string                `json:"systemModstamp"`
}

// FieldValue represents a field value.
type FieldValue struct {
	DisplayValue string      `json:"displayValue"`
	Value        interface{} `json:"value"`
}

// ObjectInfo contains object metadata.
type ObjectInfo struct {
	APIName     string               `json:"apiName"`
	Label       string               `json:"label"`
	LabelPlural string               `json:"labelPlural"`
	KeyPrefix   string               `json:"keyPrefix"`
	Fields      map[string]FieldInfo `json:"fields"`
	Createable  bool                 `json:"createable"`
	Updateable  bool                 `json:"updateable"`
	Deletable   bool                 `json:"deletable"`
}

// FieldInfo contains field metadata.
type FieldInfo struct {
	APIName    string `json:"apiName"`
	Label      string `json:"label"`
	DataType   string `json:"dataType"`
	Createable bool   `json:"createable"`
	Updateable bool   `json:"updateable"`
	Required   bool   `json:"required"`
}

// LayoutRepresentation contains layout information.
type LayoutRepresentation struct {
	ID         string          `json:"id"`
	Sections   []LayoutSection `json:"sections"`
	LayoutType string          `json:"layoutType"`
	Mode       string          `json:"mode"`
}

// LayoutSection represents a layout section.
type LayoutSection struct {
	Heading    string      `json:"heading"`
	Columns    int         `json:"columns"`
	UseHeading bool        `json:"useHeading"`
	LayoutRows []LayoutRow `json:"layoutRows"`
}

// LayoutRow represents a layout row.
type LayoutRow struct {
	LayoutItems []LayoutItem `json:"layoutItems"`
}

// LayoutItem represents a layout item.
type LayoutItem struct {
	Field       string `json:"field,omitempty"`
	Label       string `json:"label"`
	Editability string `json:"editability"`
}

// PicklistValues contains picklist values.
type PicklistValues struct {
	ETag                string                          `json:"eTag"`
	PicklistFieldValues map[string]PicklistFieldValue `json:"picklistFieldValues"`
}

// PicklistFieldValue contains values for a picklist field.
type PicklistFieldValue struct {
	DefaultValue *PicklistValue  `json:"defaultValue"`
	Values       []PicklistValue `json:"values"`
}

// PicklistValue represents a picklist option.
type PicklistValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Service provides User Interface API operations bound to one session.
type Service struct {
	sess *session.Session
}

// NewService builds a Service.
func NewService(sess *session.Session) *Service { return &Service{sess: sess} }

// GetRecordUI retrieves record UI data.
func (s *Service) GetRecordUI(ctx context.Context, recordIds []string) (*RecordUI, error) {
	var ui RecordUI
	if _, err := s.sess.RestGet(ctx, "ui-api/record-ui/"+strings.Join(recordIds, ","), &ui); err != nil {
		return nil, err
	}
	return &ui, nil
}

// GetRecord retrieves a single record.
func (s *Service) GetRecord(ctx context.Context, recordId string, fields []string) (*RecordRepresentation, error) {
	path := "ui-api/records/" + recordId
	if len(fields) > 0 {
		path += "?fields=" + strings.Join(fields, ",")
	}
	var record RecordRepresentation
	if _, err := s.sess.RestGet(ctx, path, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateRecord creates a new record.
func (s *Service) CreateRecord(ctx context.Context, objectAPIName string, fields map[string]interface{}) (*RecordRepresentation, error) {
	body := map[string]interface{}{"apiName": objectAPIName, "fields": fields}
	var record RecordRepresentation
	if _, err := s.sess.RestPost(ctx, "ui-api/records", body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateRecord updates a record.
func (s *Service) UpdateRecord(ctx context.Context, recordId string, fields map[string]interface{}) (*RecordRepresentation, error) {
	resp, err := s.sess.RestPatch(ctx, "ui-api/records/"+recordId, map[string]interface{}{"fields": fields})
	if err != nil {
		return nil, err
	}
	var record RecordRepresentation
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &record); err != nil {
			return nil, sferrors.Wrap(sferrors.KindJSON, "failed to decode record update response", err)
		}
	}
	return &record, nil
}

// DeleteRecord deletes a record.
func (s *Service) DeleteRecord(ctx context.Context, recordId string) error {
	_, err := s.sess.RestDelete(ctx, "ui-api/records/"+recordId)
	return err
}

// GetObjectInfo retrieves object metadata.
func (s *Service) GetObjectInfo(ctx context.Context, objectAPIName string) (*ObjectInfo, error) {
	var info ObjectInfo
	if _, err := s.sess.RestGet(ctx, "ui-api/object-info/"+objectAPIName, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetPicklistValues retrieves picklist values.
func (s *Service) GetPicklistValues(ctx context.Context, objectAPIName, recordTypeId string) (*PicklistValues, error) {
	var values PicklistValues
	path := "ui-api/object-info/" + objectAPIName + "/picklist-values/" + recordTypeId
	if _, err := s.sess.RestGet(ctx, path, &values); err != nil {
		return nil, err
	}
	return &values, nil
}

// GetLayout retrieves layout information.
func (s *Service) GetLayout(ctx context.Context, objectAPIName, layoutType, mode string) (*LayoutRepresentation, error) {
	path := "ui-api/layout/" + objectAPIName
	params := url.Values{}
	if layoutType != "" {
		params.Set("layoutType", layoutType)
	}
	if mode != "" {
		params.Set("mode", mode)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var layout LayoutRepresentation
	if _, err := s.sess.RestGet(ctx, path, &layout); err != nil {
		return nil, err
	}
	return &layout, nil
}
