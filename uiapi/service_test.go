package uiapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/internal/transport"
	"github.com/sfcore/salesforce/uiapi"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *uiapi.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tr := transport.New(transport.Config{HTTPClient: srv.Client(), Credentials: credentials.NewStaticCredentials("tok", srv.URL)})
	return uiapi.NewService(session.New(tr, srv.URL, "59.0"))
}

func TestService_GetRecordUI(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "ui-api/record-ui/001xx,002xx")
		w.Write([]byte(`{"layouts":{},"objectInfos":{},"records":{}}`))
	})
	ui, err := svc.GetRecordUI(context.Background(), []string{"001xx", "002xx"})
	require.NoError(t, err)
	assert.NotNil(t, ui.Records)
}

func TestService_GetRecord_WithFields(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "ui-api/records/001xx")
		assert.Contains(t, r.URL.RawQuery, "fields=Name")
		w.Write([]byte(`{"id":"001xx","apiName":"Account"}`))
	})
	record, err := svc.GetRecord(context.Background(), "001xx", []string{"Name"})
	require.NoError(t, err)
	assert.Equal(t, "Account", record.APIName)
}

func TestService_CreateRecord(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"id":"001xx","apiName":"Account"}`))
	})
	record, err := svc.CreateRecord(context.Background(), "Account", map[string]interface{}{"Name": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "001xx", record.ID)
}

func TestService_UpdateRecord(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		w.Write([]byte(`{"id":"001xx","apiName":"Account"}`))
	})
	record, err := svc.UpdateRecord(context.Background(), "001xx", map[string]interface{}{"Name": "Acme Updated"})
	require.NoError(t, err)
	assert.Equal(t, "001xx", record.ID)
}

func TestService_UpdateRecord_NoContentReturnsEmptyRecord(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	record, err := svc.UpdateRecord(context.Background(), "001xx", map[string]interface{}{"Name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "", record.ID)
}

func TestService_DeleteRecord(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, svc.DeleteRecord(context.Background(), "001xx"))
}

func TestService_GetObjectInfo(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "ui-api/object-info/Account")
		w.Write([]byte(`{"apiName":"Account","label":"Account","createable":true}`))
	})
	info, err := svc.GetObjectInfo(context.Background(), "Account")
	require.NoError(t, err)
	assert.True(t, info.Createable)
}

func TestService_GetPicklistValues(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "picklist-values/012xx")
		w.Write([]byte(`{"eTag":"abc","picklistFieldValues":{"Industry":{"values":[{"label":"Tech","value":"Tech"}]}}}`))
	})
	values, err := svc.GetPicklistValues(context.Background(), "Account", "012xx")
	require.NoError(t, err)
	require.Contains(t, values.PicklistFieldValues, "Industry")
}

func TestService_GetLayout_WithParams(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "ui-api/layout/Account")
		assert.Contains(t, r.URL.RawQuery, "layoutType=Full")
		assert.Contains(t, r.URL.RawQuery, "mode=View")
		w.Write([]byte(`{"id":"layout1","layoutType":"Full","mode":"View"}`))
	})
	layout, err := svc.GetLayout(context.Background(), "Account", "Full", "View")
	require.NoError(t, err)
	assert.Equal(t, "Full", layout.LayoutType)
}

func TestService_GetLayout_NoParams(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"id":"layout1"}`))
	})
	_, err := svc.GetLayout(context.Background(), "Account", "", "")
	require.NoError(t, err)
}
