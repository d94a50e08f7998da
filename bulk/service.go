// Package bulk provides Bulk API 2.0 ingest and query job operations,
// generalizing the teacher's package of the same name onto
// internal/session and adding the high-level ExecuteIngest/ExecuteQuery
// state-machine drivers with Sforce-Locator-aware pagination.
package bulk

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/sferrors"
)

// Operation represents bulk job operation types.
type Operation string

const (
	OperationInsert     Operation = "insert"
	OperationUpdate     Operation = "update"
	OperationUpsert     Operation = "upsert"
	OperationDelete     Operation = "delete"
	OperationHardDelete Operation = "hardDelete"
)

// State represents bulk job states.
type State string

const (
	StateOpen           State = "Open"
	StateUploadComplete State = "UploadComplete"
	StateInProgress     State = "InProgress"
	StateJobComplete    State = "JobComplete"
	StateFailed         State = "Failed"
	StateAborted        State = "Aborted"
)

// ContentType represents data content types.
type ContentType string

const (
	ContentTypeCSV  ContentType = "CSV"
	ContentTypeJSON ContentType = "JSON"
)

// LineEnding represents line ending types.
type LineEnding string

const (
	LineEndingLF   LineEnding = "LF"
	LineEndingCRLF LineEnding = "CRLF"
)

// ColumnDelimiter represents CSV column delimiters.
type ColumnDelimiter string

const (
	DelimiterComma     ColumnDelimiter = "COMMA"
	DelimiterTab       ColumnDelimiter = "TAB"
	DelimiterSemicolon ColumnDelimiter = "SEMICOLON"
	DelimiterPipe      ColumnDelimiter = "PIPE"
	DelimiterBackquote ColumnDelimiter = "BACKQUOTE"
	DelimiterCaret     ColumnDelimiter = "CARET"
)

// CreateJobRequest contains job creation parameters.
type CreateJobRequest struct {
	Object              string          `json:"object"`
	Operation           Operation       `json:"operation"`
	ExternalIdFieldName string          `json:"externalIdFieldName,omitempty"`
	ContentType         ContentType     `json:"contentType,omitempty"`
	LineEnding          LineEnding      `json:"lineEnding,omitempty"`
	ColumnDelimiter     ColumnDelimiter `json:"columnDelimiter,omitempty"`
}

// JobInfo contains bulk ingest job information.
type JobInfo struct {
	ID                      string      `json:"id"`
	Object                  string      `json:"object"`
	Operation               Operation   `json:"operation"`
	State                   State       `json:"state"`
	ContentType             ContentType `json:"contentType"`
	ColumnDelimiter         string      `json:"columnDelimiter"`
	LineEnding              LineEnding  `json:"lineEnding"`
	ExternalIdFieldName     string      `json:"externalIdFieldName,omitempty"`
	CreatedById             string      `json:"createdById"`
	CreatedDate             string      `json:"createdDate"`
	SystemModstamp          string      `json:"systemModstamp"`
	ConcurrencyMode         string      `json:"concurrencyMode"`
	ContentURL              string      `json:"contentUrl,omitempty"`
	NumberRecordsProcessed  int         `json:"numberRecordsProcessed"`
	NumberRecordsFailed     int         `json:"numberRecordsFailed"`
	Retries                 int         `json:"retries"`
	TotalProcessingTime     int         `json:"totalProcessingTime"`
	ApiActiveProcessingTime int         `json:"apiActiveProcessingTime"`
	ApexProcessingTime      int         `json:"apexProcessingTime"`
	ErrorMessage            string      `json:"errorMessage,omitempty"`
}

// IsComplete reports whether the job has reached a terminal state.
func (j *JobInfo) IsComplete() bool {
	return j.State == StateJobComplete || j.State == StateFailed || j.State == StateAborted
}

// IsSuccess reports whether the job completed with zero record failures.
func (j *JobInfo) IsSuccess() bool {
	return j.State == StateJobComplete && j.NumberRecordsFailed == 0
}

// FailedRecord represents a failed record row.
type FailedRecord struct {
	ID    string
	Error string
	Data  map[string]interface{}
}

// SuccessRecord represents a successfully processed record row.
type SuccessRecord struct {
	ID      string
	Created bool
	Data    map[string]interface{}
}

// QueryJobRequest contains query job creation parameters.
type QueryJobRequest struct {
	Query       string      `json:"query"`
	Operation   Operation   `json:"operation,omitempty"`
	ContentType ContentType `json:"contentType,omitempty"`
}

// QueryJobInfo contains query job information.
type QueryJobInfo struct {
	ID                     string      `json:"id"`
	Operation              Operation   `json:"operation"`
	Object                 string      `json:"object"`
	State                  State       `json:"state"`
	ContentType            ContentType `json:"contentType"`
	CreatedById            string      `json:"createdById"`
	CreatedDate            string      `json:"createdDate"`
	SystemModstamp         string      `json:"systemModstamp"`
	NumberRecordsProcessed int         `json:"numberRecordsProcessed"`
}

// IsComplete reports whether the query job has reached a terminal state.
func (j *QueryJobInfo) IsComplete() bool {
	return j.State == StateJobComplete || j.State == StateFailed || j.State == StateAborted
}

// JobListResult contains a page of ingest jobs.
type JobListResult struct {
	Done           bool      `json:"done"`
	Records        []JobInfo `json:"records"`
	NextRecordsURL string    `json:"nextRecordsUrl,omitempty"`
}

// Options configures the poll loop ExecuteIngest/ExecuteQuery use while
// waiting on a job's terminal state.
type Options struct {
	PollInterval time.Duration // default 5s
	MaxWait      time.Duration // default 3600s
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = 5 * time.Second
	}
	if o.MaxWait <= 0 {
		o.MaxWait = 3600 * time.Second
	}
	return o
}

// Service provides Bulk API 2.0 operations bound to one session.
type Service struct {
	sess *session.Session
}

// NewService builds a Service.
func NewService(sess *session.Session) *Service { return &Service{sess: sess} }

// CreateJob creates a new ingest job.
func (s *Service) CreateJob(ctx context.Context, req CreateJobRequest) (*JobInfo, error) {
	if req.ContentType == "" {
		req.ContentType = ContentTypeCSV
	}
	if req.LineEnding == "" {
		req.LineEnding = LineEndingLF
	}
	var job JobInfo
	if _, err := s.sess.RestPost(ctx, "jobs/ingest", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UploadData uploads raw CSV data to an open ingest job.
func (s *Service) UploadData(ctx context.Context, jobID string, data io.Reader) error {
	buf, err := io.ReadAll(data)
	if err != nil {
		return sferrors.Wrap(sferrors.KindConnection, "failed to read bulk upload payload", err)
	}
	_, err = s.sess.RestPutRaw(ctx, "jobs/ingest/"+jobID+"/batches", buf, "text/csv")
	return err
}

// UploadCSV serializes records as CSV and uploads them to an ingest job.
func (s *Service) UploadCSV(ctx context.Context, jobID string, records []map[string]interface{}, columns []string) error {
	if len(records) == 0 {
		return nil
	}
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if len(columns) == 0 {
		for key := range records[0] {
			columns = append(columns, key)
		}
	}
	if err := writer.Write(columns); err != nil {
		return sferrors.Wrap(sferrors.KindSerialization, "failed to write bulk CSV header", err)
	}
	for _, record := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			if val, ok := record[col]; ok {
				row[i] = fmt.Sprintf("%v", val)
			}
		}
		if err := writer.Write(row); err != nil {
			return sferrors.Wrap(sferrors.KindSerialization, "failed to write bulk CSV row", err)
		}
	}
	writer.Flush()
	return s.UploadData(ctx, jobID, &buf)
}

// CloseJob closes an ingest job, moving it from Open to UploadComplete.
func (s *Service) CloseJob(ctx context.Context, jobID string) (*JobInfo, error) {
	return s.patchIngestState(ctx, jobID, StateUploadComplete)
}

// AbortJob aborts an ingest job.
func (s *Service) AbortJob(ctx context.Context, jobID string) (*JobInfo, error) {
	return s.patchIngestState(ctx, jobID, StateAborted)
}

func (s *Service) patchIngestState(ctx context.Context, jobID string, state State) (*JobInfo, error) {
	resp, err := s.sess.RestPatch(ctx, "jobs/ingest/"+jobID, map[string]string{"state": string(state)})
	if err != nil {
		return nil, err
	}
	var job JobInfo
	if err := json.Unmarshal(resp.Body, &job); err != nil {
		return nil, sferrors.Wrap(sferrors.KindJSON, "failed to decode ingest job response", err)
	}
	return &job, nil
}

// GetJob retrieves ingest job information.
func (s *Service) GetJob(ctx context.Context, jobID string) (*JobInfo, error) {
	var job JobInfo
	if _, err := s.sess.RestGet(ctx, "jobs/ingest/"+jobID, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs lists ingest jobs.
func (s *Service) ListJobs(ctx context.Context) (*JobListResult, error) {
	var result JobListResult
	if _, err := s.sess.RestGet(ctx, "jobs/ingest", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteJob deletes an ingest job.
func (s *Service) DeleteJob(ctx context.Context, jobID string) error {
	_, err := s.sess.RestDelete(ctx, "jobs/ingest/"+jobID)
	return err
}

// waitForJob polls a terminal-state predicate until it's true, honoring
// Options.PollInterval/MaxWait, returning sferrors.KindTimeout on
// exhaustion.
func waitForJob[T any](ctx context.Context, opts Options, fetch func(context.Context) (*T, error), done func(*T) bool) (*T, error) {
	opts = opts.withDefaults()
	deadline := time.Now().Add(opts.MaxWait)
	ticker := time.NewTicker(opts.PollInterval)
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
			return item, sferrors.New(sferrors.KindTimeout, "bulk job did not reach a terminal state within MaxWait")
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitForCompletion polls GetJob until the ingest job reaches a terminal state.
func (s *Service) WaitForCompletion(ctx context.Context, jobID string, opts Options) (*JobInfo, error) {
	return waitForJob(ctx, opts, func(ctx context.Context) (*JobInfo, error) {
		return s.GetJob(ctx, jobID)
	}, (*JobInfo).IsComplete)
}

// ExecuteIngest drives the full ingest job lifecycle: create, upload,
// close, poll to a terminal state, then collect successful/failed
// records.
func (s *Service) ExecuteIngest(ctx context.Context, req CreateJobRequest, records []map[string]interface{}, columns []string, opts Options) (*JobInfo, []SuccessRecord, []FailedRecord, error) {
	job, err := s.CreateJob(ctx, req)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.UploadCSV(ctx, job.ID, records, columns); err != nil {
		return job, nil, nil, err
	}
	if _, err := s.CloseJob(ctx, job.ID); err != nil {
		return job, nil, nil, err
	}
	final, err := s.WaitForCompletion(ctx, job.ID, opts)
	if err != nil {
		return final, nil, nil, err
	}
	successes, err := s.GetSuccessfulRecords(ctx, job.ID)
	if err != nil {
		return final, nil, nil, err
	}
	failures, err := s.GetFailedRecords(ctx, job.ID)
	if err != nil {
		return final, successes, nil, err
	}
	return final, successes, failures, nil
}

// GetSuccessfulRecords retrieves successfully processed records.
func (s *Service) GetSuccessfulRecords(ctx context.Context, jobID string) ([]SuccessRecord, error) {
	resp, err := s.sess.RestGet(ctx, "jobs/ingest/"+jobID+"/successfulResults", nil)
	if err != nil {
		return nil, err
	}
	records, err := parseCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	result := make([]SuccessRecord, len(records))
	for i, r := range records {
		result[i] = SuccessRecord{
			ID:      getString(r, "sf__Id"),
			Created: getString(r, "sf__Created") == "true",
			Data:    r,
		}
	}
	return result, nil
}

// GetFailedRecords retrieves failed records.
func (s *Service) GetFailedRecords(ctx context.Context, jobID string) ([]FailedRecord, error) {
	resp, err := s.sess.RestGet(ctx, "jobs/ingest/"+jobID+"/failedResults", nil)
	if err != nil {
		return nil, err
	}
	records, err := parseCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	result := make([]FailedRecord, len(records))
	for i, r := range records {
		result[i] = FailedRecord{
			ID:    getString(r, "sf__Id"),
			Error: getString(r, "sf__Error"),
			Data:  r,
		}
	}
	return result, nil
}

// GetUnprocessedRecords retrieves records the job never got to.
func (s *Service) GetUnprocessedRecords(ctx context.Context, jobID string) ([]map[string]interface{}, error) {
	resp, err := s.sess.RestGet(ctx, "jobs/ingest/"+jobID+"/unprocessedrecords", nil)
	if err != nil {
		return nil, err
	}
	return parseCSV(resp.Body)
}

// CreateQueryJob creates a bulk query job.
func (s *Service) CreateQueryJob(ctx context.Context, req QueryJobRequest) (*QueryJobInfo, error) {
	if req.Operation == "" {
		req.Operation = "query"
	}
	if req.ContentType == "" {
		req.ContentType = ContentTypeCSV
	}
	var job QueryJobInfo
	if _, err := s.sess.RestPost(ctx, "jobs/query", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetQueryJob retrieves query job information.
func (s *Service) GetQueryJob(ctx context.Context, jobID string) (*QueryJobInfo, error) {
	var job QueryJobInfo
	if _, err := s.sess.RestGet(ctx, "jobs/query/"+jobID, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// WaitForQueryCompletion polls GetQueryJob until the job reaches a terminal state.
func (s *Service) WaitForQueryCompletion(ctx context.Context, jobID string, opts Options) (*QueryJobInfo, error) {
	return waitForJob(ctx, opts, func(ctx context.Context) (*QueryJobInfo, error) {
		return s.GetQueryJob(ctx, jobID)
	}, (*QueryJobInfo).IsComplete)
}

// QueryPage is one page of bulk query results, carrying the
// Sforce-Locator continuation token. A locator of "" (the empty string,
// Salesforce's own "null" sentinel normalized away) means no further
// pages remain.
type QueryPage struct {
	Records []map[string]interface{}
	Locator string
}

// HasMore reports whether another page is available.
func (p *QueryPage) HasMore() bool { return p.Locator != "" }

// GetQueryResults retrieves one page of bulk query results, following
// the Sforce-Locator header rather than discarding it.
func (s *Service) GetQueryResults(ctx context.Context, jobID string, maxRecords int, locator string) (*QueryPage, error) {
	path := "jobs/query/" + jobID + "/results"
	query := ""
	if maxRecords > 0 {
		query += fmt.Sprintf("maxRecords=%d", maxRecords)
	}
	if locator != "" {
		if query != "" {
			query += "&"
		}
		query += "locator=" + locator
	}
	if query != "" {
		path += "?" + query
	}
	resp, err := s.sess.RestGet(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	records, err := parseCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	next := resp.SforceLocator
	if next == "null" {
		next = ""
	}
	return &QueryPage{Records: records, Locator: next}, nil
}

// ExecuteQuery drives the full bulk query job lifecycle: create, poll to
// a terminal state, then paginate every results page via Sforce-Locator
// until the "null" sentinel terminates the loop.
func (s *Service) ExecuteQuery(ctx context.Context, req QueryJobRequest, opts Options) (*QueryJobInfo, []map[string]interface{}, error) {
	job, err := s.CreateQueryJob(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	final, err := s.WaitForQueryCompletion(ctx, job.ID, opts)
	if err != nil {
		return final, nil, err
	}
	var all []map[string]interface{}
	locator := ""
	for {
		page, err := s.GetQueryResults(ctx, job.ID, 0, locator)
		if err != nil {
			return final, all, err
		}
		all = append(all, page.Records...)
		if !page.HasMore() {
			break
		}
		locator = page.Locator
	}
	return final, all, nil
}

// AbortQueryJob aborts a query job.
func (s *Service) AbortQueryJob(ctx context.Context, jobID string) (*QueryJobInfo, error) {
	resp, err := s.sess.RestPatch(ctx, "jobs/query/"+jobID, map[string]string{"state": string(StateAborted)})
	if err != nil {
		return nil, err
	}
	var job QueryJobInfo
	if err := json.Unmarshal(resp.Body, &job); err != nil {
		return nil, sferrors.Wrap(sferrors.KindJSON, "failed to decode query job response", err)
	}
	return &job, nil
}

// DeleteQueryJob deletes a query job.
func (s *Service) DeleteQueryJob(ctx context.Context, jobID string) error {
	_, err := s.sess.RestDelete(ctx, "jobs/query/"+jobID)
	return err
}

func parseCSV(data []byte) ([]map[string]interface{}, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	headers, err := reader.Read()
	if err == io.EOF {
		return []map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "failed to read bulk CSV header", err)
	}
	var records []map[string]interface{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, sferrors.Wrap(sferrors.KindSerialization, "failed to read bulk CSV row", err)
		}
		record := make(map[string]interface{})
		for i, h := range headers {
			if i < len(row) {
				record[h] = row[i]
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
