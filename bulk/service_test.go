package bulk_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcore/salesforce/bulk"
	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/internal/transport"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *bulk.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tr := transport.New(transport.Config{HTTPClient: srv.Client(), Credentials: credentials.NewStaticCredentials("tok", srv.URL)})
	return bulk.NewService(session.New(tr, srv.URL, "59.0"))
}

func TestJobInfo_IsCompleteAndIsSuccess(t *testing.T) {
	job := &bulk.JobInfo{State: bulk.StateJobComplete, NumberRecordsFailed: 0}
	assert.True(t, job.IsComplete())
	assert.True(t, job.IsSuccess())

	failedJob := &bulk.JobInfo{State: bulk.StateJobComplete, NumberRecordsFailed: 2}
	assert.True(t, failedJob.IsComplete())
	assert.False(t, failedJob.IsSuccess())

	openJob := &bulk.JobInfo{State: bulk.StateOpen}
	assert.False(t, openJob.IsComplete())
}

func TestService_CreateJob_DefaultsContentTypeAndLineEnding(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/jobs/ingest", r.URL.Path)
		w.Write([]byte(`{"id":"750xx","state":"Open","contentType":"CSV","lineEnding":"LF"}`))
	})
	job, err := svc.CreateJob(context.Background(), bulk.CreateJobRequest{Object: "Account", Operation: bulk.OperationInsert})
	require.NoError(t, err)
	assert.Equal(t, bulk.ContentTypeCSV, job.ContentType)
	assert.Equal(t, "750xx", job.ID)
}

func TestService_UploadCSV_SerializesRecordsAndUploads(t *testing.T) {
	var uploadedBody string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		uploadedBody = string(body)
	})
	err := svc.UploadCSV(context.Background(), "750xx", []map[string]interface{}{
		{"Name": "Acme"},
	}, []string{"Name"})
	require.NoError(t, err)
	assert.Contains(t, uploadedBody, "Name")
	assert.Contains(t, uploadedBody, "Acme")
}

func TestService_CloseJob(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		w.Write([]byte(`{"id":"750xx","state":"UploadComplete"}`))
	})
	job, err := svc.CloseJob(context.Background(), "750xx")
	require.NoError(t, err)
	assert.Equal(t, bulk.StateUploadComplete, job.State)
}

func TestService_WaitForCompletion_PollsUntilTerminal(t *testing.T) {
	calls := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.Write([]byte(`{"id":"750xx","state":"InProgress"}`))
			return
		}
		w.Write([]byte(`{"id":"750xx","state":"JobComplete"}`))
	})
	job, err := svc.WaitForCompletion(context.Background(), "750xx", bulk.Options{PollInterval: time.Millisecond, MaxWait: time.Second})
	require.NoError(t, err)
	assert.Equal(t, bulk.StateJobComplete, job.State)
	assert.Equal(t, 2, calls)
}

func TestService_GetSuccessfulRecords_ParsesCSV(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("sf__Id,sf__Created,Name\n001xx,true,Acme\n"))
	})
	records, err := svc.GetSuccessfulRecords(context.Background(), "750xx")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "001xx", records[0].ID)
	assert.True(t, records[0].Created)
}

func TestService_GetQueryResults_FollowsSforceLocator(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Sforce-Locator", "null")
		w.Write([]byte("Id,Name\n001xx,Acme\n"))
	})
	page, err := svc.GetQueryResults(context.Background(), "750xx", 0, "")
	require.NoError(t, err)
	assert.False(t, page.HasMore())
	require.Len(t, page.Records, 1)
}

func TestService_ExecuteQuery_DrivesFullLifecycle(t *testing.T) {
	step := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			w.Write([]byte(`{"id":"750xx","state":"UploadComplete"}`))
		case step == 0:
			step++
			w.Write([]byte(`{"id":"750xx","state":"JobComplete"}`))
		default:
			w.Header().Set("Sforce-Locator", "null")
			w.Write([]byte("Id\n001xx\n"))
		}
	})
	final, records, err := svc.ExecuteQuery(context.Background(), bulk.QueryJobRequest{Query: "SELECT Id FROM Account"}, bulk.Options{PollInterval: time.Millisecond, MaxWait: time.Second})
	require.NoError(t, err)
	assert.True(t, final.IsComplete())
	require.Len(t, records, 1)
}
