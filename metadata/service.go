// Package metadata provides a Metadata API SOAP client: envelope
// builders for deploy/retrieve/list/describe/CRUD, a minimal
// namespace-tolerant XML extractor (internal/xmlmin), and poll-to-terminal
// helpers for the asynchronous deploy/retrieve state machines.
package metadata

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/sfcore/salesforce/internal/security"
	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/internal/xmlmin"
	"github.com/sfcore/salesforce/sferrors"
)

// DeployStatus is the asynchronous deploy job state.
type DeployStatus string

const (
	DeployPending          DeployStatus = "Pending"
	DeployInProgress       DeployStatus = "InProgress"
	DeploySucceeded        DeployStatus = "Succeeded"
	DeploySucceededPartial DeployStatus = "SucceededPartial"
	DeployFailed           DeployStatus = "Failed"
	DeployCanceling        DeployStatus = "Canceling"
	DeployCanceled         DeployStatus = "Canceled"
)

// ComponentFailure describes one failed component in a deploy result.
type ComponentFailure struct {
	ComponentType string
	FullName      string
	FileName      string
	Problem       string
}

// ComponentSuccess describes one successfully deployed component.
type ComponentSuccess struct {
	ComponentType string
	FullName      string
	FileName      string
	ID            string
}

// TestFailure describes one failed Apex test run during deploy.
type TestFailure struct {
	Name       string
	MethodName string
	Message    string
	StackTrace string
}

// DeployResult is the Metadata deploy async job's terminal (or
// in-progress) state, matching checkDeployStatus's shape.
type DeployResult struct {
	ID                        string
	Done                      bool
	Status                    DeployStatus
	Success                   bool
	NumberComponentsDeployed  int
	NumberComponentsTotal     int
	NumberComponentErrors     int
	NumberTestsCompleted      int
	NumberTestErrors          int
	ComponentFailures         []ComponentFailure
	ComponentSuccesses        []ComponentSuccess
	TestFailures              []TestFailure
}

// FileProperty describes one retrieved file's metadata.
type FileProperty struct {
	Type             string
	FullName         string
	FileName         string
	ID               string
	LastModifiedDate string
}

// RetrieveMessage describes a warning/error attached to a retrieve result.
type RetrieveMessage struct {
	FileName string
	Problem  string
}

// RetrieveResult is the Metadata retrieve async job's terminal (or
// in-progress) state.
type RetrieveResult struct {
	ID             string
	Done           bool
	Status         string
	Success        bool
	ZipFile        []byte
	FileProperties []FileProperty
	Messages       []RetrieveMessage
}

// ListMetadataQuery selects one metadata type (and optionally folder) to list.
type ListMetadataQuery struct {
	Type   string
	Folder string
}

// MetadataRecord is one entry returned by listMetadata.
type MetadataRecord struct {
	FullName         string
	Type             string
	FileName         string
	ID               string
	LastModifiedDate string
}

// MetadataObjectInfo describes one metadata type from describeMetadata.
type MetadataObjectInfo struct {
	XMLName       string
	DirectoryName string
	InFolder      bool
	MetaFile      bool
	Suffix        string
	ChildXMLNames []string
}

// DescribeMetadataResult is describeMetadata's response.
type DescribeMetadataResult struct {
	MetadataObjects       []MetadataObjectInfo
	OrganizationNamespace string
}

// PicklistEntry is one picklist value in a describeValueType field.
type PicklistEntry struct {
	Value        string
	DefaultValue bool
	Active       bool
}

// ValueTypeField describes one field of a metadata type, recursively
// (compound fields nest their own ValueTypeFields).
type ValueTypeField struct {
	Name          string
	SoapType      string
	ValueRequired bool
	Picklist      []PicklistEntry
	Fields        []ValueTypeField
}

// DescribeValueTypeResult is describeValueType's response.
type DescribeValueTypeResult struct {
	ApexType        string
	ValueTypeFields []ValueTypeField
}

// Component is a metadata component to create/update/upsert, serialized
// as a flat set of child elements under a typed <metadata> node. Apex
// types are accepted here but rejected server-side, per the Metadata
// API's own contract — this client does not duplicate that check.
type Component struct {
	Type     string
	FullName string
	Fields   map[string]interface{}
}

// SaveError describes one field-level failure in a CRUD result.
type SaveError struct {
	StatusCode string
	Message    string
	Fields     []string
}

// SaveResult is one component's outcome from create/update/delete.
type SaveResult struct {
	FullName string
	Success  bool
	Errors   []SaveError
}

// UpsertResult is one component's outcome from upsertMetadata.
type UpsertResult struct {
	FullName string
	Success  bool
	Created  bool
	Errors   []SaveError
}

const maxComponentsPerCall = 10

// Service provides Metadata API SOAP operations bound to one session.
type Service struct {
	sess *session.Session
}

// NewService builds a Service.
func NewService(sess *session.Session) *Service { return &Service{sess: sess} }

// PollOptions configures a poll-to-terminal loop.
type PollOptions struct {
	Interval time.Duration // default 1s
	MaxWait  time.Duration // default 600s
}

func (o PollOptions) withDefaults() PollOptions {
	if o.Interval <= 0 {
		o.Interval = time.Second
	}
	if o.MaxWait <= 0 {
		o.MaxWait = 600 * time.Second
	}
	return o
}

func (s *Service) envelope(body string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:met="http://soap.sforce.com/2006/04/metadata">
<soapenv:Header><met:SessionHeader><met:sessionId>%s</met:sessionId></met:SessionHeader></soapenv:Header>
<soapenv:Body>%s</soapenv:Body>
</soapenv:Envelope>`, security.EscapeXML(s.sess.AccessToken()), body)
}

// call posts one SOAP operation's body and returns the raw response
// text, mapping faultcode-bearing faults to sferrors.SoapFaultError.
func (s *Service) call(ctx context.Context, body string) (string, error) {
	resp, err := s.sess.SOAPPost(ctx, s.envelope(body))
	if err != nil {
		return "", detectFault(err)
	}
	return string(resp.Body), nil
}

// detectFault inspects an error surfaced by the transport layer for an
// embedded SOAP fault, per the string-level faultcode detection rule.
func detectFault(err error) error {
	sfe, ok := err.(*sferrors.Error)
	if !ok || !strings.Contains(sfe.Message, "faultcode") {
		return err
	}
	code, _ := xmlmin.Tag(sfe.Message, "faultcode")
	msg, _ := xmlmin.Tag(sfe.Message, "faultstring")
	return &sferrors.SoapFaultError{Code: code, String: msg}
}

func fieldsXML(fields map[string]interface{}) string {
	var sb strings.Builder
	for name, val := range fields {
		sb.WriteString(fmt.Sprintf("<%s>%s</%s>", name, security.EscapeXML(fmt.Sprintf("%v", val)), name))
	}
	return sb.String()
}

func (c Component) toXML() string {
	return fmt.Sprintf(`<met:metadata xsi:type="met:%s"><fullName>%s</fullName>%s</met:metadata>`,
		security.EscapeXML(c.Type), security.EscapeXML(c.FullName), fieldsXML(c.Fields))
}

func parseSaveResult(block string) SaveResult {
	result := SaveResult{
		FullName: firstOf(block, "fullName"),
		Success:  xmlmin.Bool(block, "success"),
	}
	for _, eb := range xmlmin.AllBlocks(block, "errors") {
		result.Errors = append(result.Errors, SaveError{
			StatusCode: firstOf(eb, "statusCode"),
			Message:    firstOf(eb, "message"),
			Fields:     xmlmin.AllTags(eb, "fields"),
		})
	}
	return result
}

func firstOf(doc, tag string) string {
	v, _ := xmlmin.Tag(doc, tag)
	return v
}

// Deploy starts an asynchronous deploy from an already-zipped package and
// returns the async process id (Done is always false on the initial
// response; poll with CheckDeployStatus or DeployAndWait).
func (s *Service) Deploy(ctx context.Context, zipBytes []byte, rollbackOnError, runAllTests, checkOnly bool) (*DeployResult, error) {
	opts := fmt.Sprintf(`<met:DeployOptions><met:rollbackOnError>%t</met:rollbackOnError><met:runAllTests>%t</met:runAllTests><met:checkOnly>%t</met:checkOnly></met:DeployOptions>`,
		rollbackOnError, runAllTests, checkOnly)
	body := fmt.Sprintf(`<met:deploy><met:zipFile>%s</met:zipFile>%s</met:deploy>`,
		base64.StdEncoding.EncodeToString(zipBytes), opts)
	doc, err := s.call(ctx, body)
	if err != nil {
		return nil, err
	}
	return &DeployResult{ID: firstOf(doc, "id")}, nil
}

// DeployRecentValidation kicks off a quick-deploy of a previously
// validated (checkOnly) deploy request.
func (s *Service) DeployRecentValidation(ctx context.Context, validationID string) (*DeployResult, error) {
	body := fmt.Sprintf(`<met:deployRecentValidation><met:validationId>%s</met:validationId></met:deployRecentValidation>`,
		security.EscapeXML(validationID))
	doc, err := s.call(ctx, body)
	if err != nil {
		return nil, err
	}
	return &DeployResult{ID: firstOf(doc, "id")}, nil
}

// CancelDeploy cancels an in-progress deploy job.
func (s *Service) CancelDeploy(ctx context.Context, id string) error {
	body := fmt.Sprintf(`<met:cancelDeploy><met:id>%s</met:id></met:cancelDeploy>`, security.EscapeXML(id))
	_, err := s.call(ctx, body)
	return err
}

// CheckDeployStatus retrieves the current state of a deploy job.
func (s *Service) CheckDeployStatus(ctx context.Context, id string, includeDetails bool) (*DeployResult, error) {
	body := fmt.Sprintf(`<met:checkDeployStatus><met:asyncProcessId>%s</met:asyncProcessId><met:includeDetails>%t</met:includeDetails></met:checkDeployStatus>`,
		security.EscapeXML(id), includeDetails)
	doc, err := s.call(ctx, body)
	if err != nil {
		return nil, err
	}
	return parseDeployResult(doc), nil
}

func parseDeployResult(doc string) *DeployResult {
	r := &DeployResult{
		ID:                       firstOf(doc, "id"),
		Done:                     xmlmin.Bool(doc, "done"),
		Status:                   DeployStatus(firstOf(doc, "status")),
		Success:                  xmlmin.Bool(doc, "success"),
		NumberComponentsDeployed: xmlmin.Int(doc, "numberComponentsDeployed"),
		NumberComponentsTotal:    xmlmin.Int(doc, "numberComponentsTotal"),
		NumberComponentErrors:    xmlmin.Int(doc, "numberComponentErrors"),
		NumberTestsCompleted:     xmlmin.Int(doc, "numberTestsCompleted"),
		NumberTestErrors:         xmlmin.Int(doc, "numberTestErrors"),
	}
	for _, fb := range xmlmin.AllBlocks(doc, "componentFailures") {
		r.ComponentFailures = append(r.ComponentFailures, ComponentFailure{
			ComponentType: firstOf(fb, "componentType"),
			FullName:      firstOf(fb, "fullName"),
			FileName:      firstOf(fb, "fileName"),
			Problem:       firstOf(fb, "problem"),
		})
	}
	for _, sb := range xmlmin.AllBlocks(doc, "componentSuccesses") {
		r.ComponentSuccesses = append(r.ComponentSuccesses, ComponentSuccess{
			ComponentType: firstOf(sb, "componentType"),
			FullName:      firstOf(sb, "fullName"),
			FileName:      firstOf(sb, "fileName"),
			ID:            firstOf(sb, "id"),
		})
	}
	for _, tb := range xmlmin.AllBlocks(doc, "failures") {
		r.TestFailures = append(r.TestFailures, TestFailure{
			Name:       firstOf(tb, "name"),
			MethodName: firstOf(tb, "methodName"),
			Message:    firstOf(tb, "message"),
			StackTrace: firstOf(tb, "stackTrace"),
		})
	}
	return r
}

// DeployAndWait starts a deploy and polls CheckDeployStatus until the job
// reaches a terminal state (Done), returning sferrors.KindTimeout on
// poll exhaustion. A non-success terminal result still returns without
// error from here; callers check DeployResult.Success, or use
// DeployResult.AsError() for the wrapped DeploymentFailedError.
func (s *Service) DeployAndWait(ctx context.Context, zipBytes []byte, rollbackOnError, runAllTests, checkOnly bool, opts PollOptions) (*DeployResult, error) {
	started, err := s.Deploy(ctx, zipBytes, rollbackOnError, runAllTests, checkOnly)
	if err != nil {
		return nil, err
	}
	return pollUntilDone(ctx, opts, func(ctx context.Context) (*DeployResult, error) {
		return s.CheckDeployStatus(ctx, started.ID, true)
	}, func(r *DeployResult) bool { return r.Done })
}

// AsError converts a non-successful terminal deploy result into a
// DeploymentFailedError, or nil when the deploy succeeded.
func (r *DeployResult) AsError() error {
	if r.Success {
		return nil
	}
	failures := make([]string, len(r.ComponentFailures))
	for i, f := range r.ComponentFailures {
		failures[i] = f.FullName + ": " + f.Problem
	}
	return &sferrors.DeploymentFailedError{Message: string(r.Status), Failures: failures}
}

// Retrieve starts an asynchronous retrieve of the given unpackaged
// members (a type -> member names map).
func (s *Service) Retrieve(ctx context.Context, apiVersion string, unpackaged map[string][]string, singlePackage bool) (*RetrieveResult, error) {
	var types strings.Builder
	for typ, members := range unpackaged {
		types.WriteString("<types>")
		for _, m := range members {
			types.WriteString("<members>" + security.EscapeXML(m) + "</members>")
		}
		types.WriteString("<name>" + security.EscapeXML(typ) + "</name></types>")
	}
	body := fmt.Sprintf(`<met:retrieve><met:retrieveRequest><met:apiVersion>%s</met:apiVersion><met:singlePackage>%t</met:singlePackage><met:unpackaged>%s</met:unpackaged></met:retrieveRequest></met:retrieve>`,
		security.EscapeXML(apiVersion), singlePackage, types.String())
	doc, err := s.call(ctx, body)
	if err != nil {
		return nil, err
	}
	return &RetrieveResult{ID: firstOf(doc, "id")}, nil
}

// CheckRetrieveStatus retrieves the current state of a retrieve job.
func (s *Service) CheckRetrieveStatus(ctx context.Context, id string, includeZip bool) (*RetrieveResult, error) {
	body := fmt.Sprintf(`<met:checkRetrieveStatus><met:asyncProcessId>%s</met:asyncProcessId><met:includeZip>%t</met:includeZip></met:checkRetrieveStatus>`,
		security.EscapeXML(id), includeZip)
	doc, err := s.call(ctx, body)
	if err != nil {
		return nil, err
	}
	return parseRetrieveResult(doc)
}

func parseRetrieveResult(doc string) (*RetrieveResult, error) {
	r := &RetrieveResult{
		ID:      firstOf(doc, "id"),
		Done:    xmlmin.Bool(doc, "done"),
		Status:  firstOf(doc, "status"),
		Success: xmlmin.Bool(doc, "success"),
	}
	if zipText, ok := xmlmin.Tag(doc, "zipFile"); ok && zipText != "" {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(zipText))
		if err != nil {
			return nil, sferrors.Wrap(sferrors.KindSerialization, "failed to decode retrieve zipFile", err)
		}
		r.ZipFile = decoded
	}
	for _, fb := range xmlmin.AllBlocks(doc, "fileProperties") {
		r.FileProperties = append(r.FileProperties, FileProperty{
			Type:             firstOf(fb, "type"),
			FullName:         firstOf(fb, "fullName"),
			FileName:         firstOf(fb, "fileName"),
			ID:               firstOf(fb, "id"),
			LastModifiedDate: firstOf(fb, "lastModifiedDate"),
		})
	}
	for _, mb := range xmlmin.AllBlocks(doc, "messages") {
		r.Messages = append(r.Messages, RetrieveMessage{
			FileName: firstOf(mb, "fileName"),
			Problem:  firstOf(mb, "problem"),
		})
	}
	return r, nil
}

// RetrieveUnpackagedAndWait starts a retrieve and polls
// CheckRetrieveStatus until the job reaches a terminal state.
func (s *Service) RetrieveUnpackagedAndWait(ctx context.Context, apiVersion string, unpackaged map[string][]string, opts PollOptions) (*RetrieveResult, error) {
	started, err := s.Retrieve(ctx, apiVersion, unpackaged, true)
	if err != nil {
		return nil, err
	}
	return pollUntilDone(ctx, opts, func(ctx context.Context) (*RetrieveResult, error) {
		return s.CheckRetrieveStatus(ctx, started.ID, true)
	}, func(r *RetrieveResult) bool { return r.Done })
}

// AsError converts a non-successful terminal retrieve result into a
// RetrieveFailedError, or nil when the retrieve succeeded.
func (r *RetrieveResult) AsError() error {
	if r.Success {
		return nil
	}
	return &sferrors.RetrieveFailedError{Message: r.Status}
}

func pollUntilDone[T any](ctx context.Context, opts PollOptions, fetch func(context.Context) (*T, error), done func(*T) bool) (*T, error) {
	opts = opts.withDefaults()
	deadline := time.Now().Add(opts.MaxWait)
	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()
	for {
		item, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if done(item) {
			return item, nil
		}
		if time.Now().After(deadline) {
			return item, sferrors.New(sferrors.KindTimeout, "metadata job did not reach a terminal state within MaxWait")
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ListMetadata lists existing components for one or more metadata types.
func (s *Service) ListMetadata(ctx context.Context, queries []ListMetadataQuery, apiVersion string) ([]MetadataRecord, error) {
	var qxml strings.Builder
	for _, q := range queries {
		qxml.WriteString("<met:queries><met:type>" + security.EscapeXML(q.Type) + "</met:type>")
		if q.Folder != "" {
			qxml.WriteString("<met:folder>" + security.EscapeXML(q.Folder) + "</met:folder>")
		}
		qxml.WriteString("</met:queries>")
	}
	body := fmt.Sprintf(`<met:listMetadata>%s<met:asOfVersion>%s</met:asOfVersion></met:listMetadata>`,
		qxml.String(), security.EscapeXML(apiVersion))
	doc, err := s.call(ctx, body)
	if err != nil {
		return nil, err
	}
	var records []MetadataRecord
	for _, rb := range xmlmin.AllBlocks(doc, "result") {
		records = append(records, MetadataRecord{
			FullName:         firstOf(rb, "fullName"),
			Type:             firstOf(rb, "type"),
			FileName:         firstOf(rb, "fileName"),
			ID:               firstOf(rb, "id"),
			LastModifiedDate: firstOf(rb, "lastModifiedDate"),
		})
	}
	return records, nil
}

// DescribeMetadata returns the metadata type catalog for apiVersion.
func (s *Service) DescribeMetadata(ctx context.Context, apiVersion string) (*DescribeMetadataResult, error) {
	body := fmt.Sprintf(`<met:describeMetadata><met:asOfVersion>%s</met:asOfVersion></met:describeMetadata>`,
		security.EscapeXML(apiVersion))
	doc, err := s.call(ctx, body)
	if err != nil {
		return nil, err
	}
	result := &DescribeMetadataResult{OrganizationNamespace: firstOf(doc, "organizationNamespace")}
	for _, ob := range xmlmin.AllBlocks(doc, "metadataObjects") {
		result.MetadataObjects = append(result.MetadataObjects, MetadataObjectInfo{
			XMLName:       firstOf(ob, "xmlName"),
			DirectoryName: firstOf(ob, "directoryName"),
			InFolder:      xmlmin.Bool(ob, "inFolder"),
			MetaFile:      xmlmin.Bool(ob, "metaFile"),
			Suffix:        firstOf(ob, "suffix"),
			ChildXMLNames: xmlmin.AllTags(ob, "childXmlNames"),
		})
	}
	return result, nil
}

// DescribeValueType returns a metadata type's field schema, recursively
// expanding compound fields.
func (s *Service) DescribeValueType(ctx context.Context, apexType string) (*DescribeValueTypeResult, error) {
	body := fmt.Sprintf(`<met:describeValueType><met:type>%s</met:type></met:describeValueType>`, security.EscapeXML(apexType))
	doc, err := s.call(ctx, body)
	if err != nil {
		return nil, err
	}
	result := &DescribeValueTypeResult{ApexType: apexType}
	result.ValueTypeFields = parseValueTypeFields(doc)
	return result, nil
}

func parseValueTypeFields(doc string) []ValueTypeField {
	var fields []ValueTypeField
	for _, fb := range xmlmin.AllBlocks(doc, "valueTypeFields") {
		field := ValueTypeField{
			Name:          firstOf(fb, "name"),
			SoapType:      firstOf(fb, "soapType"),
			ValueRequired: xmlmin.Bool(fb, "valueRequired"),
		}
		for _, pb := range xmlmin.AllBlocks(fb, "picklistValues") {
			field.Picklist = append(field.Picklist, PicklistEntry{
				Value:        firstOf(pb, "value"),
				DefaultValue: xmlmin.Bool(pb, "defaultValue"),
				Active:       xmlmin.Bool(pb, "active"),
			})
		}
		field.Fields = parseValueTypeFields(xmlmin.Inner(fb))
		fields = append(fields, field)
	}
	return fields
}

// CreateMetadata synchronously creates up to 10 components.
func (s *Service) CreateMetadata(ctx context.Context, components []Component) ([]SaveResult, error) {
	if len(components) > maxComponentsPerCall {
		return nil, sferrors.New(sferrors.KindConfig, "createMetadata accepts at most 10 components per call")
	}
	var md strings.Builder
	for _, c := range components {
		md.WriteString(c.toXML())
	}
	doc, err := s.call(ctx, fmt.Sprintf(`<met:createMetadata>%s</met:createMetadata>`, md.String()))
	if err != nil {
		return nil, err
	}
	return parseSaveResults(doc), nil
}

// ReadMetadata synchronously reads up to 10 named components of one type.
func (s *Service) ReadMetadata(ctx context.Context, metadataType string, fullNames []string) (string, error) {
	if len(fullNames) > maxComponentsPerCall {
		return "", sferrors.New(sferrors.KindConfig, "readMetadata accepts at most 10 components per call")
	}
	var names strings.Builder
	for _, n := range fullNames {
		names.WriteString("<met:fullNames>" + security.EscapeXML(n) + "</met:fullNames>")
	}
	body := fmt.Sprintf(`<met:readMetadata><met:type>%s</met:type>%s</met:readMetadata>`,
		security.EscapeXML(metadataType), names.String())
	return s.call(ctx, body)
}

// UpdateMetadata synchronously updates up to 10 components.
func (s *Service) UpdateMetadata(ctx context.Context, components []Component) ([]SaveResult, error) {
	if len(components) > maxComponentsPerCall {
		return nil, sferrors.New(sferrors.KindConfig, "updateMetadata accepts at most 10 components per call")
	}
	var md strings.Builder
	for _, c := range components {
		md.WriteString(c.toXML())
	}
	doc, err := s.call(ctx, fmt.Sprintf(`<met:updateMetadata>%s</met:updateMetadata>`, md.String()))
	if err != nil {
		return nil, err
	}
	return parseSaveResults(doc), nil
}

// UpsertMetadata synchronously creates or updates up to 10 components.
func (s *Service) UpsertMetadata(ctx context.Context, components []Component) ([]UpsertResult, error) {
	if len(components) > maxComponentsPerCall {
		return nil, sferrors.New(sferrors.KindConfig, "upsertMetadata accepts at most 10 components per call")
	}
	var md strings.Builder
	for _, c := range components {
		md.WriteString(c.toXML())
	}
	doc, err := s.call(ctx, fmt.Sprintf(`<met:upsertMetadata>%s</met:upsertMetadata>`, md.String()))
	if err != nil {
		return nil, err
	}
	var results []UpsertResult
	for _, rb := range xmlmin.AllBlocks(doc, "result") {
		results = append(results, UpsertResult{
			FullName: firstOf(rb, "fullName"),
			Success:  xmlmin.Bool(rb, "success"),
			Created:  xmlmin.Bool(rb, "created"),
		})
	}
	return results, nil
}

// DeleteMetadata synchronously deletes up to 10 named components of one type.
func (s *Service) DeleteMetadata(ctx context.Context, metadataType string, fullNames []string) ([]SaveResult, error) {
	if len(fullNames) > maxComponentsPerCall {
		return nil, sferrors.New(sferrors.KindConfig, "deleteMetadata accepts at most 10 components per call")
	}
	var names strings.Builder
	for _, n := range fullNames {
		names.WriteString("<met:fullNames>" + security.EscapeXML(n) + "</met:fullNames>")
	}
	body := fmt.Sprintf(`<met:deleteMetadata><met:type>%s</met:type>%s</met:deleteMetadata>`,
		security.EscapeXML(metadataType), names.String())
	doc, err := s.call(ctx, body)
	if err != nil {
		return nil, err
	}
	return parseSaveResults(doc), nil
}

// RenameMetadata renames one component in place.
func (s *Service) RenameMetadata(ctx context.Context, metadataType, oldFullName, newFullName string) (bool, error) {
	body := fmt.Sprintf(`<met:renameMetadata><met:type>%s</met:type><met:oldFullName>%s</met:oldFullName><met:newFullName>%s</met:newFullName></met:renameMetadata>`,
		security.EscapeXML(metadataType), security.EscapeXML(oldFullName), security.EscapeXML(newFullName))
	doc, err := s.call(ctx, body)
	if err != nil {
		return false, err
	}
	return xmlmin.Bool(doc, "result"), nil
}

func parseSaveResults(doc string) []SaveResult {
	var results []SaveResult
	for _, rb := range xmlmin.AllBlocks(doc, "result") {
		results = append(results, parseSaveResult(rb))
	}
	return results
}
