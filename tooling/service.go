// Package tooling provides Tooling API operations — sub-resource CRUD,
// execute-anonymous, test execution, debug logs and trace flags —
// generalizing the teacher's package of the same name onto
// internal/session, with execute-anonymous failures mapped onto the
// ApexCompilationError/ApexExecutionError business error types.
package tooling

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/sferrors"
)

// ExecuteAnonymousResult contains execute anonymous results.
type ExecuteAnonymousResult struct {
	Line                int    `json:"line"`
	Column              int    `json:"column"`
	Compiled            bool   `json:"compiled"`
	Success             bool   `json:"success"`
	CompiledClass       string `json:"compiledClass,omitempty"`
	CompileProblem      string `json:"compileProblem,omitempty"`
	ExceptionMessage    string `json:"exceptionMessage,omitempty"`
	ExceptionStackTrace string `json:"exceptionStackTrace,omitempty"`
}

// AsError converts a non-successful ExecuteAnonymousResult into the
// matching business error type, or nil if the execution succeeded.
func (r *ExecuteAnonymousResult) AsError() error {
	if !r.Compiled {
		return &sferrors.ApexCompilationError{Message: r.CompileProblem, Line: r.Line, Column: r.Column}
	}
	if !r.Success {
		return &sferrors.ApexExecutionError{Message: r.ExceptionMessage, StackTrace: r.ExceptionStackTrace}
	}
	return nil
}

// TestResult contains unit test results.
type TestResult struct {
	ApexTestResults []ApexTestResult `json:"apexTestResults,omitempty"`
	ApexTestClassId string           `json:"apexTestClassId"`
	AsyncApexJobId  string           `json:"asyncApexJobId"`
	Status          string           `json:"status"`
	NumberRun       int              `json:"numberRun"`
	NumberFailed    int              `json:"numberFailed"`
	TotalTime       float64          `json:"totalTime"`
}

// ApexTestResult contains individual test results.
type ApexTestResult struct {
	ID            string  `json:"id"`
	ApexClassId   string  `json:"apexClassId"`
	ApexClassName string  `json:"apexClassName"`
	MethodName    string  `json:"methodName"`
	Outcome       string  `json:"outcome"`
	Message       string  `json:"message,omitempty"`
	StackTrace    string  `json:"stackTrace,omitempty"`
	RunTime       float64 `json:"runTime"`
}

// ApexLog represents an Apex debug log.
type ApexLog struct {
	Id             string `json:"Id"`
	Application    string `json:"Application"`
	DurationMillis int    `json:"DurationMilliseconds"`
	Location       string `json:"Location"`
	LogLength      int    `json:"LogLength"`
	LogUserId      string `json:"LogUserId"`
	Operation      string `json:"Operation"`
	Request        string `json:"Request"`
	StartTime      string `json:"StartTime"`
	Status         string `json:"Status"`
}

// TraceFlag represents a debug trace flag.
type TraceFlag struct {
	Id             string `json:"Id,omitempty"`
	TracedEntityId string `json:"TracedEntityId"`
	DebugLevelId   string `json:"DebugLevelId"`
	LogType        string `json:"LogType"`
	StartDate      string `json:"StartDate,omitempty"`
	ExpirationDate string `json:"ExpirationDate,omitempty"`
}

// DebugLevel represents a named set of log category granularities.
type DebugLevel struct {
	Id                string `json:"Id,omitempty"`
	DeveloperName     string `json:"DeveloperName"`
	MasterLabel       string `json:"MasterLabel"`
	ApexCode          string `json:"ApexCode"`
	ApexProfiling     string `json:"ApexProfiling"`
	Callout           string `json:"Callout"`
	Database          string `json:"Database"`
	System            string `json:"System"`
	Validation        string `json:"Validation"`
	Visualforce       string `json:"Visualforce"`
	Workflow          string `json:"Workflow"`
}

// Completions contains code completion results.
type Completions struct {
	Completions []Completion `json:"completions"`
}

// Completion represents a code completion suggestion.
type Completion struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Signature string `json:"signature,omitempty"`
}

// SObjectMetadata contains describe metadata for tooling objects.
type SObjectMetadata struct {
	Name       string          `json:"name"`
	Label      string          `json:"label"`
	Createable bool            `json:"createable"`
	Updateable bool            `json:"updateable"`
	Queryable  bool            `json:"queryable"`
	Fields     []FieldMetadata `json:"fields,omitempty"`
}

// FieldMetadata describes a tooling field.
type FieldMetadata struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Type       string `json:"type"`
	Createable bool   `json:"createable"`
	Updateable bool   `json:"updateable"`
}

// ApexClass represents an Apex class.
type ApexClass struct {
	Id                    string `json:"Id"`
	Name                  string `json:"Name"`
	Body                  string `json:"Body"`
	ApiVersion            string `json:"ApiVersion"`
	Status                string `json:"Status"`
	IsValid               bool   `json:"IsValid"`
	LengthWithoutComments int    `json:"LengthWithoutComments"`
	NamespacePrefix       string `json:"NamespacePrefix,omitempty"`
}

// ApexTrigger represents an Apex trigger.
type ApexTrigger struct {
	Id            string `json:"Id"`
	Name          string `json:"Name"`
	Body          string `json:"Body"`
	ApiVersion    string `json:"ApiVersion"`
	Status        string `json:"Status"`
	IsValid       bool   `json:"IsValid"`
	TableEnumOrId string `json:"TableEnumOrId"`
}

// Service provides Tooling API operations bound to one session.
type Service struct {
	sess *session.Session
}

// NewService builds a Service.
func NewService(sess *session.Session) *Service { return &Service{sess: sess} }

// Query executes a Tooling API query.
func (s *Service) Query(ctx context.Context, query string) (*session.QueryResult, error) {
	var result session.QueryResult
	if _, err := s.sess.ToolingGet(ctx, "query?q="+url.QueryEscape(query), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryMore retrieves additional query results by following nextRecordsUrl.
func (s *Service) QueryMore(ctx context.Context, nextRecordsURL string) (*session.QueryResult, error) {
	var result session.QueryResult
	if _, err := s.sess.RestGet(ctx, nextRecordsURL, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExecuteAnonymous executes anonymous Apex code, returning
// ApexCompilationError/ApexExecutionError when the execution didn't
// fully succeed.
func (s *Service) ExecuteAnonymous(ctx context.Context, apexCode string) (*ExecuteAnonymousResult, error) {
	var result ExecuteAnonymousResult
	path := "executeAnonymous?anonymousBody=" + url.QueryEscape(apexCode)
	if _, err := s.sess.ToolingGet(ctx, path, &result); err != nil {
		return nil, err
	}
	if err := result.AsError(); err != nil {
		return &result, err
	}
	return &result, nil
}

// RunTestsAsynchronous runs Apex tests asynchronously, returning the job ID.
func (s *Service) RunTestsAsynchronous(ctx context.Context, classIds []string) (string, error) {
	var jobID string
	body := map[string]interface{}{"classids": classIds}
	resp, err := s.sess.ToolingPost(ctx, "runTestsAsynchronous", body, nil)
	if err != nil {
		return "", err
	}
	jobID = string(resp.Body)
	return jobID, nil
}

// RunTestsSynchronous runs Apex tests synchronously.
func (s *Service) RunTestsSynchronous(ctx context.Context, classNames []string) (*TestResult, error) {
	var result TestResult
	body := map[string]interface{}{"tests": classNames}
	if _, err := s.sess.ToolingPost(ctx, "runTestsSynchronous", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCompletions retrieves code completions for "apex" or "visualforce".
func (s *Service) GetCompletions(ctx context.Context, completionType string) (*Completions, error) {
	var result Completions
	if _, err := s.sess.ToolingGet(ctx, "completions?type="+url.QueryEscape(completionType), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Describe retrieves metadata for a Tooling API object.
func (s *Service) Describe(ctx context.Context, objectType string) (*SObjectMetadata, error) {
	var meta SObjectMetadata
	if _, err := s.sess.ToolingGet(ctx, "sobjects/"+objectType+"/describe", &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// DescribeGlobal lists all Tooling API objects.
func (s *Service) DescribeGlobal(ctx context.Context) ([]SObjectMetadata, error) {
	var result struct {
		SObjects []SObjectMetadata `json:"sobjects"`
	}
	if _, err := s.sess.ToolingGet(ctx, "sobjects", &result); err != nil {
		return nil, err
	}
	return result.SObjects, nil
}

// CreateApexClass creates a new Apex class.
func (s *Service) CreateApexClass(ctx context.Context, name, body string, apiVersion float64) (*ApexClass, error) {
	data := map[string]interface{}{"Name": name, "Body": body, "ApiVersion": apiVersion}
	var result struct {
		Id      string `json:"id"`
		Success bool   `json:"success"`
	}
	if _, err := s.sess.ToolingPost(ctx, "sobjects/ApexClass", data, &result); err != nil {
		return nil, err
	}
	return s.GetApexClass(ctx, result.Id)
}

// GetApexClass retrieves an Apex class by ID.
func (s *Service) GetApexClass(ctx context.Context, id string) (*ApexClass, error) {
	var cls ApexClass
	if _, err := s.sess.ToolingGet(ctx, "sobjects/ApexClass/"+id, &cls); err != nil {
		return nil, err
	}
	return &cls, nil
}

// UpdateApexClass updates an Apex class body.
func (s *Service) UpdateApexClass(ctx context.Context, id, body string) error {
	_, err := s.sess.RestPatch(ctx, "tooling/sobjects/ApexClass/"+id, map[string]interface{}{"Body": body})
	return err
}

// DeleteApexClass deletes an Apex class.
func (s *Service) DeleteApexClass(ctx context.Context, id string) error {
	_, err := s.sess.RestDelete(ctx, "tooling/sobjects/ApexClass/"+id)
	return err
}

// GetApexLogs retrieves the most recent debug logs with a plain SOQL query
// on ApexLog ordered by StartTime (newest first), capped at limit; it does
// not look logs up by ID.
func (s *Service) GetApexLogs(ctx context.Context, limit int) ([]ApexLog, error) {
	query := fmt.Sprintf("SELECT Id,Application,DurationMilliseconds,Location,LogLength,LogUserId,Operation,Request,StartTime,Status FROM ApexLog ORDER BY StartTime DESC LIMIT %d", limit)
	result, err := s.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return decodeRecords[ApexLog](result.Records)
}

// GetApexLogBody retrieves the raw body of a debug log.
func (s *Service) GetApexLogBody(ctx context.Context, logId string) (string, error) {
	resp, err := s.sess.RestGet(ctx, "tooling/sobjects/ApexLog/"+logId+"/Body", nil)
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// CreateTraceFlag installs a debug trace flag on a traced entity (user or
// Apex class/trigger), scoped by an existing debug level.
func (s *Service) CreateTraceFlag(ctx context.Context, flag TraceFlag) (string, error) {
	var result struct {
		Id      string `json:"id"`
		Success bool   `json:"success"`
	}
	if _, err := s.sess.ToolingPost(ctx, "sobjects/TraceFlag", flag, &result); err != nil {
		return "", err
	}
	return result.Id, nil
}

// DeleteTraceFlag removes a trace flag.
func (s *Service) DeleteTraceFlag(ctx context.Context, id string) error {
	_, err := s.sess.RestDelete(ctx, "tooling/sobjects/TraceFlag/"+id)
	return err
}

// CreateDebugLevel creates a named debug level.
func (s *Service) CreateDebugLevel(ctx context.Context, level DebugLevel) (string, error) {
	var result struct {
		Id      string `json:"id"`
		Success bool   `json:"success"`
	}
	if _, err := s.sess.ToolingPost(ctx, "sobjects/DebugLevel", level, &result); err != nil {
		return "", err
	}
	return result.Id, nil
}

func decodeRecords[T any](raw []map[string]interface{}) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, sferrors.Wrap(sferrors.KindJSON, "failed to re-marshal tooling record", err)
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, sferrors.Wrap(sferrors.KindJSON, "failed to decode tooling record", err)
		}
		out = append(out, v)
	}
	return out, nil
}
