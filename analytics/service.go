// Package analytics provides Reports and Dashboards API operations,
// generalizing the teacher's package of the same name onto
// internal/session and adding the report/dashboard results collection
// get/update/delete and relationship/binary-blob fetch operations its
// original scope left out.
package analytics

import (
	"context"
	"net/url"

	"github.com/sfcore/salesforce/internal/session"
)

// Report represents a report definition.
type Report struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	DescribeURL       string           `json:"describeUrl"`
	InstancesURL      string           `json:"instancesUrl"`
	ReportMetadata    ReportMetadata   `json:"reportMetadata,omitempty"`
	ReportTypeMetadata interface{}     `json:"reportTypeMetadata,omitempty"`
	ReportExtendedMetadata interface{} `json:"reportExtendedMetadata,omitempty"`
}

// ReportMetadata contains report configuration.
type ReportMetadata struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	ReportType            ReportType    `json:"reportType"`
	ReportFormat          string        `json:"reportFormat"`
	Description           string        `json:"description"`
	FolderID              string        `json:"folderId"`
	DeveloperName         string        `json:"developerName"`
	DetailColumns         []string      `json:"detailColumns"`
	SortBy                []SortColumn  `json:"sortBy,omitempty"`
	GroupingsDown         []Grouping    `json:"groupingsDown,omitempty"`
	GroupingsAcross       []Grouping    `json:"groupingsAcross,omitempty"`
	ReportFilters         []ReportFilter `json:"reportFilters,omitempty"`
	ReportBooleanFilter   string        `json:"reportBooleanFilter,omitempty"`
	Aggregates            []string      `json:"aggregates,omitempty"`
	StandardDateFilter    DateFilter    `json:"standardDateFilter,omitempty"`
}

// ReportType contains report type information.
type ReportType struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// SortColumn represents a sort column.
type SortColumn struct {
	SortColumn string `json:"sortColumn"`
	SortOrder  string `json:"sortOrder"`
}

// Grouping represents a report grouping.
type Grouping struct {
	Name              string `json:"name"`
	SortOrder         string `json:"sortOrder"`
	DateGranularity   string `json:"dateGranularity,omitempty"`
}

// ReportFilter represents a report filter.
type ReportFilter struct {
	Column     string      `json:"column"`
	Operator   string      `json:"operator"`
	Value      interface{} `json:"value"`
	FilterType string      `json:"filterType,omitempty"`
}

// DateFilter represents a date filter.
type DateFilter struct {
	Column     string `json:"column"`
	DurationValue string `json:"durationValue"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
}

// ReportInstance represents a report run instance.
type ReportInstance struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	URL               string `json:"url"`
	OwnerId           string `json:"ownerId"`
	CompletionDate    string `json:"completionDate,omitempty"`
	RequestDate       string `json:"requestDate"`
	HasDetailRows     bool   `json:"hasDetailRows"`
}

// ReportResult contains report execution results.
type ReportResult struct {
	Attributes        map[string]interface{} `json:"attributes"`
	AllData           bool                   `json:"allData"`
	FactMap           map[string]FactEntry   `json:"factMap"`
	GroupingsDown     GroupingResults        `json:"groupingsDown"`
	GroupingsAcross   GroupingResults        `json:"groupingsAcross"`
	HasDetailRows     bool                   `json:"hasDetailRows"`
	ReportMetadata    ReportMetadata         `json:"reportMetadata"`
}

// FactEntry represents a fact map entry.
type FactEntry struct {
	Aggregates []AggregateResult `json:"aggregates"`
	Rows       []DataRow         `json:"rows,omitempty"`
}

// AggregateResult represents an aggregate value.
type AggregateResult struct {
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

// DataRow represents a data row.
type DataRow struct {
	DataCells []DataCell `json:"dataCells"`
}

// DataCell represents a data cell.
type DataCell struct {
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

// GroupingResults contains grouping results.
type GroupingResults struct {
	Groupings []GroupingValue `json:"groupings"`
}

// GroupingValue represents a grouping value.
type GroupingValue struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Value   interface{}     `json:"value"`
	Groupings []GroupingValue `json:"groupings,omitempty"`
}

// Dashboard represents a dashboard.
type Dashboard struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	FolderID      string `json:"folderId"`
	FolderName    string `json:"folderName"`
	DeveloperName string `json:"developerName"`
	RunningUser   User   `json:"runningUser,omitempty"`
	StatusURL     string `json:"statusUrl"`
	ComponentsURL string `json:"componentsUrl"`
}

// User represents a user reference.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DashboardResult contains dashboard execution results.
type DashboardResult struct {
	StatusURL         string              `json:"statusUrl"`
	ComponentData     []ComponentResult   `json:"componentData"`
	ComponentMetadata []ComponentMetadata `json:"componentMetadata"`
}

// ComponentResult contains component data.
type ComponentResult struct {
	ComponentId string      `json:"componentId"`
	Status      string      `json:"status"`
	ReportResult *ReportResult `json:"reportResult,omitempty"`
}

// ComponentMetadata contains component metadata.
type ComponentMetadata struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ReportID string `json:"reportId"`
}

// Service provides Analytics API operations bound to one session.
type Service struct {
	sess *session.Session
}

// NewService builds a Service.
func NewService(sess *session.Session) *Service { return &Service{sess: sess} }

// ListReports lists all reports.
func (s *Service) ListReports(ctx context.Context) ([]Report, error) {
	var reports []Report
	if _, err := s.sess.RestGet(ctx, "analytics/reports", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// GetReport retrieves a report definition.
func (s *Service) GetReport(ctx context.Context, reportID string) (*Report, error) {
	var report Report
	if _, err := s.sess.RestGet(ctx, "analytics/reports/"+reportID+"/describe", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// RunReport runs a report synchronously.
func (s *Service) RunReport(ctx context.Context, reportID string, includeDetails bool) (*ReportResult, error) {
	var result ReportResult
	path := "analytics/reports/" + reportID + "?includeDetails=" + boolString(includeDetails)
	if _, err := s.sess.RestGet(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RunReportWithFilters runs a report with ad hoc filter overrides.
func (s *Service) RunReportWithFilters(ctx context.Context, reportID string, metadata ReportMetadata, includeDetails bool) (*ReportResult, error) {
	var result ReportResult
	path := "analytics/reports/" + reportID + "?includeDetails=" + boolString(includeDetails)
	body := map[string]interface{}{"reportMetadata": metadata}
	if _, err := s.sess.RestPost(ctx, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RunReportAsync runs a report asynchronously.
func (s *Service) RunReportAsync(ctx context.Context, reportID string) (*ReportInstance, error) {
	var instance ReportInstance
	if _, err := s.sess.RestPost(ctx, "analytics/reports/"+reportID+"/instances", nil, &instance); err != nil {
		return nil, err
	}
	return &instance, nil
}

// GetReportInstance retrieves an async report instance's results.
func (s *Service) GetReportInstance(ctx context.Context, reportID, instanceID string) (*ReportResult, error) {
	var result ReportResult
	path := "analytics/reports/" + reportID + "/instances/" + instanceID
	if _, err := s.sess.RestGet(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListReportInstances lists async report instances.
func (s *Service) ListReportInstances(ctx context.Context, reportID string) ([]ReportInstance, error) {
	var instances []ReportInstance
	if _, err := s.sess.RestGet(ctx, "analytics/reports/"+reportID+"/instances", &instances); err != nil {
		return nil, err
	}
	return instances, nil
}

// DeleteReportInstance deletes a completed async report run.
func (s *Service) DeleteReportInstance(ctx context.Context, reportID, instanceID string) error {
	_, err := s.sess.RestDelete(ctx, "analytics/reports/"+reportID+"/instances/"+instanceID)
	return err
}

// ListDashboards lists all dashboards.
func (s *Service) ListDashboards(ctx context.Context) ([]Dashboard, error) {
	var resp struct {
		Dashboards []Dashboard `json:"dashboards"`
	}
	if _, err := s.sess.RestGet(ctx, "analytics/dashboards", &resp); err != nil {
		return nil, err
	}
	return resp.Dashboards, nil
}

// GetDashboard retrieves a dashboard's latest results.
func (s *Service) GetDashboard(ctx context.Context, dashboardID string) (*DashboardResult, error) {
	var result DashboardResult
	if _, err := s.sess.RestGet(ctx, "analytics/dashboards/"+dashboardID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RefreshDashboard triggers a dashboard refresh.
func (s *Service) RefreshDashboard(ctx context.Context, dashboardID string) (*DashboardResult, error) {
	var result DashboardResult
	if _, err := s.sess.RestPut(ctx, "analytics/dashboards/"+dashboardID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteDashboard deletes a dashboard's cached results.
func (s *Service) DeleteDashboard(ctx context.Context, dashboardID string) error {
	_, err := s.sess.RestDelete(ctx, "analytics/dashboards/"+dashboardID)
	return err
}

// GetDashboardComponentData retrieves one component's binary/relationship
// data from a dashboard run, for components (e.g. chart images) not
// folded into the JSON result body.
func (s *Service) GetDashboardComponentData(ctx context.Context, dashboardID, componentID string) ([]byte, error) {
	resp, err := s.sess.RestGet(ctx, "analytics/dashboards/"+dashboardID+"/"+componentID, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// SearchReports searches reports by name.
func (s *Service) SearchReports(ctx context.Context, searchText string) ([]Report, error) {
	var reports []Report
	if _, err := s.sess.RestGet(ctx, "analytics/reports?q="+url.QueryEscape(searchText), &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
