// Package bridge hosts untrusted WASM guest plugins and exposes a fixed
// catalog of Salesforce operations to them as imported host functions,
// generalizing the teacher pack's deny-by-default wazero sandboxing
// (tetratelabs/wazero, wasi_snapshot_preview1) to a host-function
// dispatch model instead of a single stdin/stdout pipe.
package bridge

import (
	"github.com/sfcore/salesforce/bulk"
	"github.com/sfcore/salesforce/sobjects"
	"github.com/sfcore/salesforce/tooling"
)

// State is the per-invocation object shared with host-function
// callbacks while one guest call is in flight. It is created fresh for
// each guest call and discarded when the plugin instance it backs
// ends — it is never copied into guest linear memory, only ever
// referenced from the closures the host functions capture.
type State struct {
	RestClient    *sobjects.Service
	BulkClient    *bulk.Service
	ToolingClient *tooling.Service
	InstanceURL   string
	AccessToken   string

	// RuntimeHandle is the blocking worker this State's plugin
	// instance runs on; Host.Call uses it to serialize the operations
	// one guest call may issue (the plugin instance is single
	// threaded — see Host.Call) without blocking other concurrent
	// bridge calls, each of which gets its own State and worker.
	RuntimeHandle *Worker
}

// instanceURLRedacted and accessTokenRedacted exist so State can be
// logged or included in a panic recovery report without a reviewer
// later adding a naive %+v somewhere that leaks a token; callers that
// need to surface diagnostic state should use these, never the raw
// fields.
func (s *State) instanceURLRedacted() string {
	if s.InstanceURL == "" {
		return ""
	}
	return "<instance-url redacted>"
}

func (s *State) accessTokenRedacted() string {
	if s.AccessToken == "" {
		return ""
	}
	return "<access-token redacted>"
}
