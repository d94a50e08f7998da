package analytics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcore/salesforce/analytics"
	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/internal/transport"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *analytics.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tr := transport.New(transport.Config{HTTPClient: srv.Client(), Credentials: credentials.NewStaticCredentials("tok", srv.URL)})
	return analytics.NewService(session.New(tr, srv.URL, "59.0"))
}

func TestService_ListReports(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/analytics/reports", r.URL.Path)
		w.Write([]byte(`[{"id":"00Oxx","name":"My Report"}]`))
	})
	reports, err := svc.ListReports(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "My Report", reports[0].Name)
}

func TestService_GetReport(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/analytics/reports/00Oxx/describe", r.URL.Path)
		w.Write([]byte(`{"id":"00Oxx","name":"My Report"}`))
	})
	report, err := svc.GetReport(context.Background(), "00Oxx")
	require.NoError(t, err)
	assert.Equal(t, "00Oxx", report.ID)
}

func TestService_RunReport_IncludesDetailsQueryParam(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "includeDetails=true")
		w.Write([]byte(`{"allData":true,"factMap":{}}`))
	})
	result, err := svc.RunReport(context.Background(), "00Oxx", true)
	require.NoError(t, err)
	assert.True(t, result.AllData)
}

func TestService_RunReportWithFilters(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"allData":false,"factMap":{}}`))
	})
	result, err := svc.RunReportWithFilters(context.Background(), "00Oxx", analytics.ReportMetadata{Name: "Filtered"}, false)
	require.NoError(t, err)
	assert.False(t, result.AllData)
}

func TestService_RunReportAsync(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/analytics/reports/00Oxx/instances", r.URL.Path)
		w.Write([]byte(`{"id":"instx","status":"New"}`))
	})
	instance, err := svc.RunReportAsync(context.Background(), "00Oxx")
	require.NoError(t, err)
	assert.Equal(t, "New", instance.Status)
}

func TestService_ListReportInstances(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"instx","status":"Success"}]`))
	})
	instances, err := svc.ListReportInstances(context.Background(), "00Oxx")
	require.NoError(t, err)
	require.Len(t, instances, 1)
}

func TestService_DeleteReportInstance(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, svc.DeleteReportInstance(context.Background(), "00Oxx", "instx"))
}

func TestService_ListDashboards(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dashboards":[{"id":"01Zxx","name":"My Dashboard"}]}`))
	})
	dashboards, err := svc.ListDashboards(context.Background())
	require.NoError(t, err)
	require.Len(t, dashboards, 1)
	assert.Equal(t, "My Dashboard", dashboards[0].Name)
}

func TestService_GetDashboard(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statusUrl":"/status","componentData":[]}`))
	})
	result, err := svc.GetDashboard(context.Background(), "01Zxx")
	require.NoError(t, err)
	assert.Equal(t, "/status", result.StatusURL)
}

func TestService_RefreshDashboard(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.Write([]byte(`{"statusUrl":"/status"}`))
	})
	result, err := svc.RefreshDashboard(context.Background(), "01Zxx")
	require.NoError(t, err)
	assert.Equal(t, "/status", result.StatusURL)
}

func TestService_DeleteDashboard(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, svc.DeleteDashboard(context.Background(), "01Zxx"))
}

func TestService_GetDashboardComponentData(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("binary-blob"))
	})
	data, err := svc.GetDashboardComponentData(context.Background(), "01Zxx", "comp1")
	require.NoError(t, err)
	assert.Equal(t, "binary-blob", string(data))
}

func TestService_SearchReports(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "q=")
		w.Write([]byte(`[{"id":"00Oxx","name":"Sales Report"}]`))
	})
	reports, err := svc.SearchReports(context.Background(), "Sales")
	require.NoError(t, err)
	require.Len(t, reports, 1)
}
