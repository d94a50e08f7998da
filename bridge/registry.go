package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/sfcore/salesforce/manifest"
	"github.com/sfcore/salesforce/sferrors"
)

// HandlerFunc executes one operation against the current bridge state
// using the raw msgpack-encoded request bytes the guest supplied,
// returning the raw msgpack-encoded response bytes to hand back. A
// handler is responsible for decoding its own request shape (via
// Decode[T]) and encoding its own success value (via encodeSuccess);
// the dispatcher only wraps errors it sees returned here.
type HandlerFunc func(ctx context.Context, state *State, reqBytes []byte) ([]byte, error)

// Operation is one functional registry entry: a dispatch table row
// pairing a name and the wazero host-import name it's wired under with
// the handler that runs it. This is the "table of (name, handler)"
// the bridge's ~98 operations are represented as — never a hand-rolled
// switch.
type Operation struct {
	Name       string
	HostFnName string
	Handler    HandlerFunc
}

// Registry holds the bridge's functional dispatch table, keyed both by
// logical name and by host-import name the way manifest.Manifest keys
// its declarative counterpart. Construction-time uniqueness on both
// keys mirrors the operation-definition invariant from the catalog:
// logical_name and host_fn_name are each unique across the registry.
type Registry struct {
	ops      []Operation
	byName   map[string]*Operation
	byHostFn map[string]*Operation
}

// NewRegistry builds an empty dispatch table.
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]*Operation),
		byHostFn: make(map[string]*Operation),
	}
}

// Register adds one operation, rejecting a collision on either key.
func (r *Registry) Register(op Operation) error {
	if op.Name == "" || op.HostFnName == "" {
		return sferrors.New(sferrors.KindConfig, "bridge: operation must have a name and a host function name")
	}
	if op.Handler == nil {
		return sferrors.New(sferrors.KindConfig, fmt.Sprintf("bridge: operation %q has no handler", op.Name))
	}
	if _, exists := r.byName[op.Name]; exists {
		return sferrors.New(sferrors.KindConfig, fmt.Sprintf("bridge: duplicate operation name %q", op.Name))
	}
	if _, exists := r.byHostFn[op.HostFnName]; exists {
		return sferrors.New(sferrors.KindConfig, fmt.Sprintf("bridge: duplicate host function name %q", op.HostFnName))
	}
	stored := op
	r.ops = append(r.ops, stored)
	r.byName[op.Name] = &r.ops[len(r.ops)-1]
	r.byHostFn[op.HostFnName] = &r.ops[len(r.ops)-1]
	return nil
}

// MustRegister panics on a construction-time invariant violation, for
// the package-level registry built once at init.
func (r *Registry) MustRegister(op Operation) {
	if err := r.Register(op); err != nil {
		panic(err)
	}
}

// Lookup finds a registered operation by its wazero host-import name.
func (r *Registry) Lookup(hostFnName string) (*Operation, bool) {
	op, ok := r.byHostFn[hostFnName]
	return op, ok
}

// Operations returns every registered operation, in registration order.
func (r *Registry) Operations() []Operation {
	out := make([]Operation, len(r.ops))
	copy(out, r.ops)
	return out
}

// ValidateAgainstCatalog checks that every registered operation has a
// matching host_fn_name entry in the declarative manifest catalog — a
// bridge wiring a handler the catalog doesn't describe is a
// construction-time configuration error, since the manifest is the
// contract the surrounding host environment gates against.
func (r *Registry) ValidateAgainstCatalog(m *manifest.Manifest) error {
	for _, op := range r.ops {
		if _, ok := m.ByHostFnName(op.HostFnName); !ok {
			return sferrors.New(sferrors.KindConfig, fmt.Sprintf("bridge: operation %q (host fn %q) is not present in the capability manifest", op.Name, op.HostFnName))
		}
	}
	return nil
}

// RiskCeilingFor resolves an operation's risk class from the manifest
// and reports whether it's permitted under ceiling; used by Host.Call
// to refuse dispatching an operation above a configured risk ceiling
// before the handler ever runs.
func RiskCeilingFor(m *manifest.Manifest, hostFnName string, ceiling manifest.Risk) (allowed bool, risk manifest.Risk, err error) {
	op, ok := m.ByHostFnName(hostFnName)
	if !ok {
		return false, "", sferrors.New(sferrors.KindConfig, fmt.Sprintf("bridge: %q has no manifest entry to risk-classify", hostFnName))
	}
	return op.Risk.AllowedUnder(ceiling), op.Risk, nil
}

// errToResult maps an error from a handler or from the risk gate into
// the coarse {code, message} shape guests receive, sanitizing the
// message the same way §4.3 sanitizes transport errors but with a
// coarser, guest-stable code taxonomy instead of the full sferrors.Kind
// enum (guests should branch on a handful of stable strings, not on
// internal error-kind numbering that may grow over time).
func errToResult(err error) []byte {
	code, message := classifyForGuest(err)
	return encodeFailure(code, message)
}

func classifyForGuest(err error) (code, message string) {
	var sfe *sferrors.Error
	if errors.As(err, &sfe) {
		message = sfe.Message
		switch sfe.Kind {
		case sferrors.KindAuthentication, sferrors.KindAuthorization:
			return "unauthorized", message
		case sferrors.KindNotFound:
			return "not_found", message
		case sferrors.KindRateLimited:
			return "rate_limited", message
		case sferrors.KindTimeout:
			return "timeout", message
		case sferrors.KindConnection:
			return "connection_error", message
		case sferrors.KindPreconditionFailed:
			return "precondition_failed", message
		case sferrors.KindInvalidURL, sferrors.KindSerialization, sferrors.KindJSON, sferrors.KindConfig:
			return "invalid_request", message
		default:
			return "upstream_error", message
		}
	}
	return "internal", err.Error()
}
