package bridge

import (
	"context"

	"github.com/sfcore/salesforce/bulk"
	"github.com/sfcore/salesforce/internal/security"
	"github.com/sfcore/salesforce/sferrors"
)

// NewDefaultRegistry wires the bridge's functional dispatch table
// against the three clients State actually carries (RestClient,
// BulkClient, ToolingClient). It implements a representative slice of
// manifest.Catalog()'s ~98 declared operations — the ones wired here
// are the ones a guest plugin actually gets to call; the remainder of
// the catalog stays declarative-only until a later build wires more
// handlers, which is fine since ValidateAgainstCatalog only requires
// every *wired* operation to have a manifest entry, not the reverse.
//
// Facades outside the bridge state's fixed (rest, bulk, tooling) tuple
// — query, search, limits, metadata, composite, analytics, connect,
// uiapi, apex — are declared in the catalog for capability advertising
// but have no handler here; see DESIGN.md's Open Question resolution
// on why BridgeState stays to the spec's literal three clients rather
// than growing a field per facade.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()

	handlers := []Operation{
		{Name: "sobject_create", HostFnName: "sf_sobject_create", Handler: handleSObjectCreate},
		{Name: "sobject_get", HostFnName: "sf_sobject_get", Handler: handleSObjectGet},
		{Name: "sobject_update", HostFnName: "sf_sobject_update", Handler: handleSObjectUpdate},
		{Name: "sobject_upsert", HostFnName: "sf_sobject_upsert", Handler: handleSObjectUpsert},
		{Name: "sobject_delete", HostFnName: "sf_sobject_delete", Handler: handleSObjectDelete},
		{Name: "sobject_describe", HostFnName: "sf_sobject_describe", Handler: handleSObjectDescribe},
		{Name: "bulk_execute_ingest", HostFnName: "sf_bulk_execute_ingest", Handler: handleBulkExecuteIngest},
		{Name: "bulk_execute_query", HostFnName: "sf_bulk_execute_query", Handler: handleBulkExecuteQuery},
		{Name: "bulk_get_ingest_job", HostFnName: "sf_bulk_get_ingest_job", Handler: handleBulkGetIngestJob},
		{Name: "tooling_execute_anonymous", HostFnName: "sf_tooling_execute_anonymous", Handler: handleToolingExecuteAnonymous},
		{Name: "tooling_query", HostFnName: "sf_tooling_query", Handler: handleToolingQuery},
	}
	for _, op := range handlers {
		if err := r.Register(op); err != nil {
			return nil, err
		}
	}
	return r, nil
}

type sobjectCreateRequest struct {
	ObjectType string                 `msgpack:"object_type"`
	Data       map[string]interface{} `msgpack:"data"`
}

func handleSObjectCreate(ctx context.Context, state *State, reqBytes []byte) ([]byte, error) {
	req, err := Decode[sobjectCreateRequest](reqBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "bridge: malformed sobject_create request", err)
	}
	if !security.IsSafeSObjectName(req.ObjectType) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid sobject name")
	}
	result, err := state.RestClient.Create(ctx, req.ObjectType, req.Data)
	if err != nil {
		return nil, err
	}
	return encodeSuccess(result)
}

type sobjectGetRequest struct {
	ObjectType string   `msgpack:"object_type"`
	ID         string   `msgpack:"id"`
	Fields     []string `msgpack:"fields"`
}

func handleSObjectGet(ctx context.Context, state *State, reqBytes []byte) ([]byte, error) {
	req, err := Decode[sobjectGetRequest](reqBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "bridge: malformed sobject_get request", err)
	}
	if !security.IsSafeSObjectName(req.ObjectType) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid sobject name")
	}
	if !security.IsValidSalesforceID(req.ID) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid salesforce id")
	}
	result, err := state.RestClient.Get(ctx, req.ObjectType, req.ID, req.Fields...)
	if err != nil {
		return nil, err
	}
	return encodeSuccess(result)
}

type sobjectUpdateRequest struct {
	ObjectType string                 `msgpack:"object_type"`
	ID         string                 `msgpack:"id"`
	Data       map[string]interface{} `msgpack:"data"`
}

func handleSObjectUpdate(ctx context.Context, state *State, reqBytes []byte) ([]byte, error) {
	req, err := Decode[sobjectUpdateRequest](reqBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "bridge: malformed sobject_update request", err)
	}
	if !security.IsSafeSObjectName(req.ObjectType) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid sobject name")
	}
	if !security.IsValidSalesforceID(req.ID) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid salesforce id")
	}
	if err := state.RestClient.Update(ctx, req.ObjectType, req.ID, req.Data); err != nil {
		return nil, err
	}
	return encodeSuccess(map[string]bool{"success": true})
}

type sobjectUpsertRequest struct {
	ObjectType      string                 `msgpack:"object_type"`
	ExternalIDField string                 `msgpack:"external_id_field"`
	ExternalID      string                 `msgpack:"external_id"`
	Data            map[string]interface{} `msgpack:"data"`
}

func handleSObjectUpsert(ctx context.Context, state *State, reqBytes []byte) ([]byte, error) {
	req, err := Decode[sobjectUpsertRequest](reqBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "bridge: malformed sobject_upsert request", err)
	}
	if !security.IsSafeSObjectName(req.ObjectType) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid sobject name")
	}
	if !security.IsSafeFieldName(req.ExternalIDField) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid external id field name")
	}
	result, err := state.RestClient.Upsert(ctx, req.ObjectType, req.ExternalIDField, req.ExternalID, req.Data)
	if err != nil {
		return nil, err
	}
	return encodeSuccess(result)
}

type sobjectDeleteRequest struct {
	ObjectType string `msgpack:"object_type"`
	ID         string `msgpack:"id"`
}

func handleSObjectDelete(ctx context.Context, state *State, reqBytes []byte) ([]byte, error) {
	req, err := Decode[sobjectDeleteRequest](reqBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "bridge: malformed sobject_delete request", err)
	}
	if !security.IsSafeSObjectName(req.ObjectType) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid sobject name")
	}
	if !security.IsValidSalesforceID(req.ID) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid salesforce id")
	}
	if err := state.RestClient.Delete(ctx, req.ObjectType, req.ID); err != nil {
		return nil, err
	}
	return encodeSuccess(map[string]bool{"success": true})
}

type sobjectDescribeRequest struct {
	ObjectType string `msgpack:"object_type"`
}

func handleSObjectDescribe(ctx context.Context, state *State, reqBytes []byte) ([]byte, error) {
	req, err := Decode[sobjectDescribeRequest](reqBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "bridge: malformed sobject_describe request", err)
	}
	if !security.IsSafeSObjectName(req.ObjectType) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid sobject name")
	}
	result, err := state.RestClient.Describe(ctx, req.ObjectType)
	if err != nil {
		return nil, err
	}
	return encodeSuccess(result)
}

type bulkExecuteIngestRequest struct {
	ObjectType string                   `msgpack:"object_type"`
	Operation  string                   `msgpack:"operation"`
	Records    []map[string]interface{} `msgpack:"records"`
	Columns    []string                 `msgpack:"columns"`
}

func handleBulkExecuteIngest(ctx context.Context, state *State, reqBytes []byte) ([]byte, error) {
	req, err := Decode[bulkExecuteIngestRequest](reqBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "bridge: malformed bulk_execute_ingest request", err)
	}
	if !security.IsSafeSObjectName(req.ObjectType) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid sobject name")
	}
	jobReq := bulk.CreateJobRequest{
		Object:    req.ObjectType,
		Operation: bulk.Operation(req.Operation),
	}
	job, successes, failures, err := state.BulkClient.ExecuteIngest(ctx, jobReq, req.Records, req.Columns, bulk.Options{})
	if err != nil {
		return nil, err
	}
	return encodeSuccess(map[string]interface{}{
		"job":       job,
		"successes": successes,
		"failures":  failures,
	})
}

type bulkExecuteQueryRequest struct {
	SOQL string `msgpack:"soql"`
}

func handleBulkExecuteQuery(ctx context.Context, state *State, reqBytes []byte) ([]byte, error) {
	req, err := Decode[bulkExecuteQueryRequest](reqBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "bridge: malformed bulk_execute_query request", err)
	}
	if req.SOQL == "" {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: soql must not be empty")
	}
	job, records, err := state.BulkClient.ExecuteQuery(ctx, bulk.QueryJobRequest{Query: req.SOQL}, bulk.Options{})
	if err != nil {
		return nil, err
	}
	return encodeSuccess(map[string]interface{}{
		"job":     job,
		"records": records,
	})
}

type bulkGetIngestJobRequest struct {
	JobID string `msgpack:"job_id"`
}

func handleBulkGetIngestJob(ctx context.Context, state *State, reqBytes []byte) ([]byte, error) {
	req, err := Decode[bulkGetIngestJobRequest](reqBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "bridge: malformed bulk_get_ingest_job request", err)
	}
	if !security.IsValidSalesforceID(req.JobID) {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: invalid job id")
	}
	job, err := state.BulkClient.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	return encodeSuccess(job)
}

type toolingExecuteAnonymousRequest struct {
	ApexCode string `msgpack:"apex_code"`
}

func handleToolingExecuteAnonymous(ctx context.Context, state *State, reqBytes []byte) ([]byte, error) {
	req, err := Decode[toolingExecuteAnonymousRequest](reqBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "bridge: malformed tooling_execute_anonymous request", err)
	}
	if req.ApexCode == "" {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: apex_code must not be empty")
	}
	result, err := state.ToolingClient.ExecuteAnonymous(ctx, req.ApexCode)
	if err != nil {
		return nil, err
	}
	return encodeSuccess(result)
}

type toolingQueryRequest struct {
	SOQL string `msgpack:"soql"`
}

func handleToolingQuery(ctx context.Context, state *State, reqBytes []byte) ([]byte, error) {
	req, err := Decode[toolingQueryRequest](reqBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "bridge: malformed tooling_query request", err)
	}
	if req.SOQL == "" {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: soql must not be empty")
	}
	result, err := state.ToolingClient.Query(ctx, req.SOQL)
	if err != nil {
		return nil, err
	}
	return encodeSuccess(result)
}
