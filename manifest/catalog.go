package manifest

// DefaultNamespace and DefaultVersion identify the catalog a bridge
// validates its functional registry against when no override is
// supplied by the embedding host.
const (
	DefaultNamespace = "salesforce"
	DefaultVersion   = "1.0.0"
)

// Catalog builds the declarative operation list the bridge's
// functional registry (bridge.Registry) is checked against: every
// handler the bridge wires must have a matching HostFnName entry here,
// and every entry here that the bridge doesn't implement is simply
// unavailable to guests rather than a construction error, since a
// given bridge build may expose a subset of the full catalog.
//
// Risk classes follow the shape of the operation: a DELETE or state
// transition that destroys or terminates something server-side is
// Destructive; a create/update/upsert/post that leaves a new or
// changed record visible is WriteVisible; everything else (queries,
// describes, gets, list) is ReadOnly.
func Catalog() *Manifest {
	b := NewBuilder(DefaultNamespace, DefaultVersion)

	// sobjects — record CRUD.
	b.MustAdd(Operation{LogicalName: "sobject_create", HostFnName: "sf_sobject_create", Description: "Create an SObject record", Risk: WriteVisible, Tags: []string{"sobjects", "write"}})
	b.MustAdd(Operation{LogicalName: "sobject_get", HostFnName: "sf_sobject_get", Description: "Retrieve an SObject record by id", Risk: ReadOnly, Tags: []string{"sobjects", "read"}})
	b.MustAdd(Operation{LogicalName: "sobject_update", HostFnName: "sf_sobject_update", Description: "Patch fields on an SObject record", Risk: WriteVisible, Tags: []string{"sobjects", "write"}})
	b.MustAdd(Operation{LogicalName: "sobject_upsert", HostFnName: "sf_sobject_upsert", Description: "Create or update an SObject record by external id", Risk: WriteVisible, Tags: []string{"sobjects", "write"}})
	b.MustAdd(Operation{LogicalName: "sobject_delete", HostFnName: "sf_sobject_delete", Description: "Delete an SObject record by id", Risk: Destructive, Tags: []string{"sobjects", "delete"}})
	b.MustAdd(Operation{LogicalName: "sobject_describe", HostFnName: "sf_sobject_describe", Description: "Describe one SObject type's fields and metadata", Risk: ReadOnly, Tags: []string{"sobjects", "describe"}})
	b.MustAdd(Operation{LogicalName: "sobject_describe_global", HostFnName: "sf_sobject_describe_global", Description: "List every SObject type visible to the session", Risk: ReadOnly, Tags: []string{"sobjects", "describe"}})
	b.MustAdd(Operation{LogicalName: "sobject_get_deleted", HostFnName: "sf_sobject_get_deleted", Description: "List soft-deleted records in a time window", Risk: ReadOnly, Tags: []string{"sobjects", "read"}})
	b.MustAdd(Operation{LogicalName: "sobject_get_updated", HostFnName: "sf_sobject_get_updated", Description: "List records updated in a time window", Risk: ReadOnly, Tags: []string{"sobjects", "read"}})
	b.MustAdd(Operation{LogicalName: "sobject_get_by_external_id", HostFnName: "sf_sobject_get_by_external_id", Description: "Retrieve an SObject record by external id field", Risk: ReadOnly, Tags: []string{"sobjects", "read"}})

	// query — SOQL execution.
	b.MustAdd(Operation{LogicalName: "query_execute", HostFnName: "sf_query_execute", Description: "Run a SOQL query and return the first page", Risk: ReadOnly, Tags: []string{"query", "read"}})
	b.MustAdd(Operation{LogicalName: "query_execute_all", HostFnName: "sf_query_execute_all", Description: "Run a SOQL query including soft-deleted/archived records", Risk: ReadOnly, Tags: []string{"query", "read"}})
	b.MustAdd(Operation{LogicalName: "query_execute_all_records", HostFnName: "sf_query_execute_all_records", Description: "Run a SOQL query and drain every page of results", Risk: ReadOnly, Tags: []string{"query", "read"}})

	// search — SOSL execution.
	b.MustAdd(Operation{LogicalName: "search_execute", HostFnName: "sf_search_execute", Description: "Run a raw SOSL search", Risk: ReadOnly, Tags: []string{"search", "read"}})

	// limits — org usage counters.
	b.MustAdd(Operation{LogicalName: "limits_get", HostFnName: "sf_limits_get", Description: "Fetch every org limit counter", Risk: ReadOnly, Tags: []string{"limits", "read"}})
	b.MustAdd(Operation{LogicalName: "limits_daily_api_requests", HostFnName: "sf_limits_daily_api_requests", Description: "Fetch the daily REST API request counter", Risk: ReadOnly, Tags: []string{"limits", "read"}})
	b.MustAdd(Operation{LogicalName: "limits_data_storage", HostFnName: "sf_limits_data_storage", Description: "Fetch the org data storage counter", Risk: ReadOnly, Tags: []string{"limits", "read"}})

	// bulk — Bulk API 2.0 ingest and query jobs.
	b.MustAdd(Operation{LogicalName: "bulk_create_ingest_job", HostFnName: "sf_bulk_create_ingest_job", Description: "Open a Bulk API 2.0 ingest job", Risk: WriteVisible, Tags: []string{"bulk", "write"}})
	b.MustAdd(Operation{LogicalName: "bulk_upload_csv", HostFnName: "sf_bulk_upload_csv", Description: "Upload a CSV batch to an open ingest job", Risk: WriteVisible, Tags: []string{"bulk", "write"}})
	b.MustAdd(Operation{LogicalName: "bulk_close_ingest_job", HostFnName: "sf_bulk_close_ingest_job", Description: "Close an ingest job for processing", Risk: WriteVisible, Tags: []string{"bulk", "write"}})
	b.MustAdd(Operation{LogicalName: "bulk_abort_ingest_job", HostFnName: "sf_bulk_abort_ingest_job", Description: "Abort an in-progress ingest job", Risk: Destructive, Tags: []string{"bulk", "abort"}})
	b.MustAdd(Operation{LogicalName: "bulk_get_ingest_job", HostFnName: "sf_bulk_get_ingest_job", Description: "Fetch an ingest job's current state", Risk: ReadOnly, Tags: []string{"bulk", "read"}})
	b.MustAdd(Operation{LogicalName: "bulk_list_ingest_jobs", HostFnName: "sf_bulk_list_ingest_jobs", Description: "List ingest jobs visible to the session", Risk: ReadOnly, Tags: []string{"bulk", "read"}})
	b.MustAdd(Operation{LogicalName: "bulk_execute_ingest", HostFnName: "sf_bulk_execute_ingest", Description: "Create, upload, close, and poll an ingest job to completion", Risk: WriteVisible, Tags: []string{"bulk", "write", "orchestration"}})
	b.MustAdd(Operation{LogicalName: "bulk_get_successful_records", HostFnName: "sf_bulk_get_successful_records", Description: "Fetch a completed ingest job's successful rows", Risk: ReadOnly, Tags: []string{"bulk", "read"}})
	b.MustAdd(Operation{LogicalName: "bulk_get_failed_records", HostFnName: "sf_bulk_get_failed_records", Description: "Fetch a completed ingest job's failed rows", Risk: ReadOnly, Tags: []string{"bulk", "read"}})
	b.MustAdd(Operation{LogicalName: "bulk_get_unprocessed_records", HostFnName: "sf_bulk_get_unprocessed_records", Description: "Fetch an aborted/failed ingest job's unprocessed rows", Risk: ReadOnly, Tags: []string{"bulk", "read"}})
	b.MustAdd(Operation{LogicalName: "bulk_create_query_job", HostFnName: "sf_bulk_create_query_job", Description: "Open a Bulk API 2.0 query job", Risk: ReadOnly, Tags: []string{"bulk", "read"}})
	b.MustAdd(Operation{LogicalName: "bulk_get_query_results", HostFnName: "sf_bulk_get_query_results", Description: "Fetch one page of a completed query job's results", Risk: ReadOnly, Tags: []string{"bulk", "read"}})
	b.MustAdd(Operation{LogicalName: "bulk_execute_query", HostFnName: "sf_bulk_execute_query", Description: "Create and poll a query job, draining every result page", Risk: ReadOnly, Tags: []string{"bulk", "read", "orchestration"}})
	b.MustAdd(Operation{LogicalName: "bulk_abort_query_job", HostFnName: "sf_bulk_abort_query_job", Description: "Abort an in-progress query job", Risk: Destructive, Tags: []string{"bulk", "abort"}})

	// tooling + apex — Apex execution and introspection.
	b.MustAdd(Operation{LogicalName: "tooling_query", HostFnName: "sf_tooling_query", Description: "Run a SOQL query against Tooling API objects", Risk: ReadOnly, Tags: []string{"tooling", "read"}})
	b.MustAdd(Operation{LogicalName: "tooling_execute_anonymous", HostFnName: "sf_tooling_execute_anonymous", Description: "Execute anonymous Apex and report compile/runtime results", Risk: WriteVisible, Tags: []string{"tooling", "apex", "write"}})
	b.MustAdd(Operation{LogicalName: "tooling_run_tests_async", HostFnName: "sf_tooling_run_tests_async", Description: "Queue asynchronous Apex test execution", Risk: WriteVisible, Tags: []string{"tooling", "apex", "write"}})
	b.MustAdd(Operation{LogicalName: "tooling_run_tests_sync", HostFnName: "sf_tooling_run_tests_sync", Description: "Run Apex tests synchronously and return results", Risk: WriteVisible, Tags: []string{"tooling", "apex", "write"}})
	b.MustAdd(Operation{LogicalName: "tooling_get_completions", HostFnName: "sf_tooling_get_completions", Description: "Fetch Apex/VisualForce completion metadata", Risk: ReadOnly, Tags: []string{"tooling", "read"}})
	b.MustAdd(Operation{LogicalName: "tooling_describe", HostFnName: "sf_tooling_describe", Description: "Describe one SObject type via the Tooling API", Risk: ReadOnly, Tags: []string{"tooling", "describe"}})
	b.MustAdd(Operation{LogicalName: "tooling_describe_global", HostFnName: "sf_tooling_describe_global", Description: "List SObject types visible via the Tooling API", Risk: ReadOnly, Tags: []string{"tooling", "describe"}})
	b.MustAdd(Operation{LogicalName: "tooling_create_apex_class", HostFnName: "sf_tooling_create_apex_class", Description: "Create an Apex class", Risk: WriteVisible, Tags: []string{"tooling", "apex", "write"}})
	b.MustAdd(Operation{LogicalName: "tooling_get_apex_class", HostFnName: "sf_tooling_get_apex_class", Description: "Fetch an Apex class by id", Risk: ReadOnly, Tags: []string{"tooling", "apex", "read"}})
	b.MustAdd(Operation{LogicalName: "tooling_update_apex_class", HostFnName: "sf_tooling_update_apex_class", Description: "Update an Apex class body", Risk: WriteVisible, Tags: []string{"tooling", "apex", "write"}})
	b.MustAdd(Operation{LogicalName: "tooling_delete_apex_class", HostFnName: "sf_tooling_delete_apex_class", Description: "Delete an Apex class", Risk: Destructive, Tags: []string{"tooling", "apex", "delete"}})
	b.MustAdd(Operation{LogicalName: "tooling_get_apex_logs", HostFnName: "sf_tooling_get_apex_logs", Description: "List recent Apex debug logs", Risk: ReadOnly, Tags: []string{"tooling", "apex", "read"}})
	b.MustAdd(Operation{LogicalName: "tooling_get_apex_log_body", HostFnName: "sf_tooling_get_apex_log_body", Description: "Fetch one Apex debug log's body", Risk: ReadOnly, Tags: []string{"tooling", "apex", "read"}})
	b.MustAdd(Operation{LogicalName: "tooling_create_trace_flag", HostFnName: "sf_tooling_create_trace_flag", Description: "Create an Apex debug trace flag", Risk: WriteVisible, Tags: []string{"tooling", "apex", "write"}})

	// metadata — Metadata API SOAP deploy/retrieve/CRUD.
	b.MustAdd(Operation{LogicalName: "metadata_deploy", HostFnName: "sf_metadata_deploy", Description: "Submit an asynchronous metadata deploy", Risk: WriteVisible, Tags: []string{"metadata", "write"}})
	b.MustAdd(Operation{LogicalName: "metadata_deploy_recent_validation", HostFnName: "sf_metadata_deploy_recent_validation", Description: "Deploy a previously validated deploy request", Risk: WriteVisible, Tags: []string{"metadata", "write"}})
	b.MustAdd(Operation{LogicalName: "metadata_cancel_deploy", HostFnName: "sf_metadata_cancel_deploy", Description: "Cancel an in-flight metadata deploy", Risk: Destructive, Tags: []string{"metadata", "abort"}})
	b.MustAdd(Operation{LogicalName: "metadata_check_deploy_status", HostFnName: "sf_metadata_check_deploy_status", Description: "Poll a metadata deploy's current status", Risk: ReadOnly, Tags: []string{"metadata", "read"}})
	b.MustAdd(Operation{LogicalName: "metadata_deploy_and_wait", HostFnName: "sf_metadata_deploy_and_wait", Description: "Submit a metadata deploy and poll it to completion", Risk: WriteVisible, Tags: []string{"metadata", "write", "orchestration"}})
	b.MustAdd(Operation{LogicalName: "metadata_retrieve", HostFnName: "sf_metadata_retrieve", Description: "Submit an asynchronous metadata retrieve", Risk: ReadOnly, Tags: []string{"metadata", "read"}})
	b.MustAdd(Operation{LogicalName: "metadata_check_retrieve_status", HostFnName: "sf_metadata_check_retrieve_status", Description: "Poll a metadata retrieve's current status", Risk: ReadOnly, Tags: []string{"metadata", "read"}})
	b.MustAdd(Operation{LogicalName: "metadata_retrieve_unpackaged_and_wait", HostFnName: "sf_metadata_retrieve_unpackaged_and_wait", Description: "Submit an unpackaged retrieve and poll it to completion", Risk: ReadOnly, Tags: []string{"metadata", "read", "orchestration"}})
	b.MustAdd(Operation{LogicalName: "metadata_list", HostFnName: "sf_metadata_list", Description: "List metadata components of a given type", Risk: ReadOnly, Tags: []string{"metadata", "read"}})
	b.MustAdd(Operation{LogicalName: "metadata_describe", HostFnName: "sf_metadata_describe", Description: "Describe the org's registered metadata types", Risk: ReadOnly, Tags: []string{"metadata", "describe"}})
	b.MustAdd(Operation{LogicalName: "metadata_describe_value_type", HostFnName: "sf_metadata_describe_value_type", Description: "Describe one metadata type's field shape", Risk: ReadOnly, Tags: []string{"metadata", "describe"}})
	b.MustAdd(Operation{LogicalName: "metadata_create", HostFnName: "sf_metadata_create", Description: "Create up to ten metadata components synchronously", Risk: WriteVisible, Tags: []string{"metadata", "write"}})
	b.MustAdd(Operation{LogicalName: "metadata_update", HostFnName: "sf_metadata_update", Description: "Update up to ten metadata components synchronously", Risk: WriteVisible, Tags: []string{"metadata", "write"}})
	b.MustAdd(Operation{LogicalName: "metadata_delete", HostFnName: "sf_metadata_delete", Description: "Delete up to ten metadata components synchronously", Risk: Destructive, Tags: []string{"metadata", "delete"}})

	// composite — batched/transactional REST.
	b.MustAdd(Operation{LogicalName: "composite_execute", HostFnName: "sf_composite_execute", Description: "Execute a composite request of dependent subrequests", Risk: WriteVisible, Tags: []string{"composite", "write"}})
	b.MustAdd(Operation{LogicalName: "composite_execute_batch", HostFnName: "sf_composite_execute_batch", Description: "Execute a batch of independent subrequests", Risk: WriteVisible, Tags: []string{"composite", "write"}})
	b.MustAdd(Operation{LogicalName: "composite_create_tree", HostFnName: "sf_composite_create_tree", Description: "Create a tree of parent/child records in one call", Risk: WriteVisible, Tags: []string{"composite", "write"}})
	b.MustAdd(Operation{LogicalName: "composite_create_collection", HostFnName: "sf_composite_create_collection", Description: "Create up to 200 records of one type in one call", Risk: WriteVisible, Tags: []string{"composite", "write"}})
	b.MustAdd(Operation{LogicalName: "composite_update_collection", HostFnName: "sf_composite_update_collection", Description: "Update up to 200 records of one type in one call", Risk: WriteVisible, Tags: []string{"composite", "write"}})
	b.MustAdd(Operation{LogicalName: "composite_delete_collection", HostFnName: "sf_composite_delete_collection", Description: "Delete up to 200 records in one call", Risk: Destructive, Tags: []string{"composite", "delete"}})
	b.MustAdd(Operation{LogicalName: "composite_get_collection", HostFnName: "sf_composite_get_collection", Description: "Fetch up to 2000 records of one type in one call", Risk: ReadOnly, Tags: []string{"composite", "read"}})

	// analytics — reports and dashboards.
	b.MustAdd(Operation{LogicalName: "analytics_list_reports", HostFnName: "sf_analytics_list_reports", Description: "List reports visible to the session", Risk: ReadOnly, Tags: []string{"analytics", "read"}})
	b.MustAdd(Operation{LogicalName: "analytics_get_report", HostFnName: "sf_analytics_get_report", Description: "Fetch one report's metadata and cached data", Risk: ReadOnly, Tags: []string{"analytics", "read"}})
	b.MustAdd(Operation{LogicalName: "analytics_run_report", HostFnName: "sf_analytics_run_report", Description: "Run a report synchronously", Risk: ReadOnly, Tags: []string{"analytics", "read"}})
	b.MustAdd(Operation{LogicalName: "analytics_run_report_async", HostFnName: "sf_analytics_run_report_async", Description: "Queue an asynchronous report run", Risk: ReadOnly, Tags: []string{"analytics", "read"}})
	b.MustAdd(Operation{LogicalName: "analytics_get_report_instance", HostFnName: "sf_analytics_get_report_instance", Description: "Fetch an asynchronous report run's results", Risk: ReadOnly, Tags: []string{"analytics", "read"}})
	b.MustAdd(Operation{LogicalName: "analytics_list_dashboards", HostFnName: "sf_analytics_list_dashboards", Description: "List dashboards visible to the session", Risk: ReadOnly, Tags: []string{"analytics", "read"}})
	b.MustAdd(Operation{LogicalName: "analytics_get_dashboard", HostFnName: "sf_analytics_get_dashboard", Description: "Fetch one dashboard's cached data", Risk: ReadOnly, Tags: []string{"analytics", "read"}})
	b.MustAdd(Operation{LogicalName: "analytics_refresh_dashboard", HostFnName: "sf_analytics_refresh_dashboard", Description: "Refresh a dashboard's cached data", Risk: WriteVisible, Tags: []string{"analytics", "write"}})

	// connect — Chatter/community surfaces.
	b.MustAdd(Operation{LogicalName: "connect_get_news_feed", HostFnName: "sf_connect_get_news_feed", Description: "Fetch the current user's Chatter news feed", Risk: ReadOnly, Tags: []string{"connect", "read"}})
	b.MustAdd(Operation{LogicalName: "connect_get_user_profile_feed", HostFnName: "sf_connect_get_user_profile_feed", Description: "Fetch a user's Chatter profile feed", Risk: ReadOnly, Tags: []string{"connect", "read"}})
	b.MustAdd(Operation{LogicalName: "connect_get_record_feed", HostFnName: "sf_connect_get_record_feed", Description: "Fetch a record's Chatter feed", Risk: ReadOnly, Tags: []string{"connect", "read"}})
	b.MustAdd(Operation{LogicalName: "connect_get_group_feed", HostFnName: "sf_connect_get_group_feed", Description: "Fetch a Chatter group's feed", Risk: ReadOnly, Tags: []string{"connect", "read"}})
	b.MustAdd(Operation{LogicalName: "connect_get_feed_element", HostFnName: "sf_connect_get_feed_element", Description: "Fetch a single Chatter feed element", Risk: ReadOnly, Tags: []string{"connect", "read"}})
	b.MustAdd(Operation{LogicalName: "connect_post_feed_element", HostFnName: "sf_connect_post_feed_element", Description: "Post a new Chatter feed element", Risk: WriteVisible, Tags: []string{"connect", "write"}})
	b.MustAdd(Operation{LogicalName: "connect_post_comment", HostFnName: "sf_connect_post_comment", Description: "Post a comment on a Chatter feed element", Risk: WriteVisible, Tags: []string{"connect", "write"}})
	b.MustAdd(Operation{LogicalName: "connect_like_feed_element", HostFnName: "sf_connect_like_feed_element", Description: "Like a Chatter feed element", Risk: WriteVisible, Tags: []string{"connect", "write"}})
	b.MustAdd(Operation{LogicalName: "connect_get_current_user", HostFnName: "sf_connect_get_current_user", Description: "Fetch the current user's Chatter profile", Risk: ReadOnly, Tags: []string{"connect", "read"}})
	b.MustAdd(Operation{LogicalName: "connect_get_user", HostFnName: "sf_connect_get_user", Description: "Fetch a user's Chatter profile", Risk: ReadOnly, Tags: []string{"connect", "read"}})
	b.MustAdd(Operation{LogicalName: "connect_search_users", HostFnName: "sf_connect_search_users", Description: "Search Chatter users", Risk: ReadOnly, Tags: []string{"connect", "read"}})
	b.MustAdd(Operation{LogicalName: "connect_get_my_files", HostFnName: "sf_connect_get_my_files", Description: "List files owned by the current user", Risk: ReadOnly, Tags: []string{"connect", "read"}})
	b.MustAdd(Operation{LogicalName: "connect_get_groups", HostFnName: "sf_connect_get_groups", Description: "List Chatter groups visible to the session", Risk: ReadOnly, Tags: []string{"connect", "read"}})
	b.MustAdd(Operation{LogicalName: "connect_get_tabs", HostFnName: "sf_connect_get_tabs", Description: "List tabs visible to the current app", Risk: ReadOnly, Tags: []string{"connect", "read"}})

	// uiapi — Lightning UI record surfaces.
	b.MustAdd(Operation{LogicalName: "uiapi_get_record_ui", HostFnName: "sf_uiapi_get_record_ui", Description: "Fetch layout-aware UI metadata for records", Risk: ReadOnly, Tags: []string{"uiapi", "read"}})
	b.MustAdd(Operation{LogicalName: "uiapi_get_record", HostFnName: "sf_uiapi_get_record", Description: "Fetch one record's fields via the UI API", Risk: ReadOnly, Tags: []string{"uiapi", "read"}})
	b.MustAdd(Operation{LogicalName: "uiapi_create_record", HostFnName: "sf_uiapi_create_record", Description: "Create a record via the UI API", Risk: WriteVisible, Tags: []string{"uiapi", "write"}})
	b.MustAdd(Operation{LogicalName: "uiapi_update_record", HostFnName: "sf_uiapi_update_record", Description: "Update a record via the UI API", Risk: WriteVisible, Tags: []string{"uiapi", "write"}})
	b.MustAdd(Operation{LogicalName: "uiapi_delete_record", HostFnName: "sf_uiapi_delete_record", Description: "Delete a record via the UI API", Risk: Destructive, Tags: []string{"uiapi", "delete"}})
	b.MustAdd(Operation{LogicalName: "uiapi_get_object_info", HostFnName: "sf_uiapi_get_object_info", Description: "Fetch UI-oriented object metadata", Risk: ReadOnly, Tags: []string{"uiapi", "read"}})
	b.MustAdd(Operation{LogicalName: "uiapi_get_picklist_values", HostFnName: "sf_uiapi_get_picklist_values", Description: "Fetch picklist values for an object/record type", Risk: ReadOnly, Tags: []string{"uiapi", "read"}})

	// apex — custom Apex REST endpoints.
	b.MustAdd(Operation{LogicalName: "apex_rest_get", HostFnName: "sf_apex_rest_get", Description: "GET a custom Apex REST endpoint", Risk: ReadOnly, Tags: []string{"apex", "read"}})
	b.MustAdd(Operation{LogicalName: "apex_rest_post", HostFnName: "sf_apex_rest_post", Description: "POST a custom Apex REST endpoint", Risk: WriteVisible, Tags: []string{"apex", "write"}})
	b.MustAdd(Operation{LogicalName: "apex_rest_delete", HostFnName: "sf_apex_rest_delete", Description: "DELETE a custom Apex REST endpoint", Risk: Destructive, Tags: []string{"apex", "delete"}})

	return b.Build()
}
