// Package manifest holds the declarative capability list the bridge's
// host environment uses to decide what a guest plugin is allowed to
// call, generalizing the teacher pack's CapabilityConfig-style module
// manifests to Salesforce's fixed operation catalog.
//
// This package carries no handler logic — that lives in bridge, whose
// functional registry is validated against this declarative one at
// construction time. manifest only describes names, descriptions, risk
// class, and required configuration.
package manifest

import (
	"fmt"
	"sort"

	"github.com/sfcore/salesforce/sferrors"
)

// Risk is the coarse label the surrounding host uses to gate which
// operations a given plugin install is allowed to invoke.
type Risk string

const (
	ReadOnly     Risk = "ReadOnly"
	WriteVisible Risk = "WriteVisible"
	Destructive  Risk = "Destructive"
)

func (r Risk) valid() bool {
	switch r {
	case ReadOnly, WriteVisible, Destructive:
		return true
	default:
		return false
	}
}

// rank orders risk classes for ceiling comparisons; higher is riskier.
func (r Risk) rank() int {
	switch r {
	case ReadOnly:
		return 0
	case WriteVisible:
		return 1
	case Destructive:
		return 2
	default:
		return -1
	}
}

// AllowedUnder reports whether this risk class is permitted by a
// configured ceiling (a plugin install configured with ReadOnly as its
// ceiling may only invoke ReadOnly operations; Destructive as ceiling
// permits everything).
func (r Risk) AllowedUnder(ceiling Risk) bool { return r.rank() <= ceiling.rank() }

// Operation is one entry in the capability catalog: a logical name
// stable across manifest versions, the host-import name the bridge
// wires it under, and metadata the host environment uses for display
// and gating. RequiresAuth is always true for this catalog — every
// Salesforce operation needs a live session — but it's carried
// explicitly so the shape matches what a future unauthenticated
// operation (health checks, say) could set to false.
type Operation struct {
	LogicalName  string
	HostFnName   string
	Description  string
	Risk         Risk
	RequiresAuth bool
	Tags         []string
}

// Manifest is the capability list surfaced to a bridge's host
// environment: what namespace/version this catalog belongs to, which
// operations it exposes, and what configuration the host must supply
// before any operation can run.
type Manifest struct {
	Namespace      string
	Version        string
	Operations     []Operation
	RequiredConfig []ConfigKey
}

// ConfigKey is one externally-supplied setting the manifest requires,
// carrying both its logical name and the environment-variable alias a
// host process looks up when wiring configuration.
type ConfigKey struct {
	LogicalKey string
	EnvAlias   string
}

// Builder accumulates Operation entries under uniqueness invariants:
// logical_name, host_fn_name, and the (risk, host_fn_name) pair must
// each be unique across the catalog, matching the registry invariant
// from the Salesforce bridge's operation-definition contract.
type Builder struct {
	namespace string
	version   string
	ops       []Operation
	byLogical map[string]bool
	byHostFn  map[string]bool
}

// NewBuilder starts a manifest under the given namespace/version.
func NewBuilder(namespace, version string) *Builder {
	return &Builder{
		namespace: namespace,
		version:   version,
		byLogical: make(map[string]bool),
		byHostFn:  make(map[string]bool),
	}
}

// Add registers one operation, rejecting logical-name or host-fn-name
// collisions and unknown risk classes at construction time rather than
// letting a duplicate silently shadow an earlier entry.
func (b *Builder) Add(op Operation) error {
	if op.LogicalName == "" || op.HostFnName == "" {
		return sferrors.New(sferrors.KindConfig, "manifest: operation must have a logical name and a host function name")
	}
	if !op.Risk.valid() {
		return sferrors.New(sferrors.KindConfig, fmt.Sprintf("manifest: operation %q has unknown risk class %q", op.LogicalName, op.Risk))
	}
	if b.byLogical[op.LogicalName] {
		return sferrors.New(sferrors.KindConfig, fmt.Sprintf("manifest: duplicate logical_name %q", op.LogicalName))
	}
	if b.byHostFn[op.HostFnName] {
		return sferrors.New(sferrors.KindConfig, fmt.Sprintf("manifest: duplicate host_fn_name %q", op.HostFnName))
	}
	op.RequiresAuth = true
	b.byLogical[op.LogicalName] = true
	b.byHostFn[op.HostFnName] = true
	b.ops = append(b.ops, op)
	return nil
}

// MustAdd panics on a construction-time invariant violation, for use
// in the package-level catalog builder (Catalog, in catalog.go) where a duplicate entry
// is a programming error, not a runtime condition to handle.
func (b *Builder) MustAdd(op Operation) {
	if err := b.Add(op); err != nil {
		panic(err)
	}
}

// Build finalizes the manifest, sorting operations by logical name so
// repeated builds (and diffs against a previous catalog) are stable.
func (b *Builder) Build() *Manifest {
	ops := make([]Operation, len(b.ops))
	copy(ops, b.ops)
	sort.Slice(ops, func(i, j int) bool { return ops[i].LogicalName < ops[j].LogicalName })
	return &Manifest{
		Namespace: b.namespace,
		Version:   b.version,
		Operations: ops,
		RequiredConfig: []ConfigKey{
			{LogicalKey: "sf_auth_url", EnvAlias: "SF_AUTH_URL"},
		},
	}
}

// ByLogicalName returns the operation registered under name, if any.
func (m *Manifest) ByLogicalName(name string) (Operation, bool) {
	for _, op := range m.Operations {
		if op.LogicalName == name {
			return op, true
		}
	}
	return Operation{}, false
}

// ByHostFnName returns the operation registered under a host import
// name, if any — the lookup the bridge uses when wiring its functional
// registry against this declarative one.
func (m *Manifest) ByHostFnName(name string) (Operation, bool) {
	for _, op := range m.Operations {
		if op.HostFnName == name {
			return op, true
		}
	}
	return Operation{}, false
}

// FilterByCeiling returns the subset of operations a plugin configured
// with the given risk ceiling may invoke.
func (m *Manifest) FilterByCeiling(ceiling Risk) []Operation {
	var out []Operation
	for _, op := range m.Operations {
		if op.Risk.AllowedUnder(ceiling) {
			out = append(out, op)
		}
	}
	return out
}
