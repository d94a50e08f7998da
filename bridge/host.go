package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/sfcore/salesforce/manifest"
	"github.com/sfcore/salesforce/sferrors"
)

// guestAllocFn is the export every guest plugin must provide: an
// allocator the host calls to reserve space in guest linear memory
// before writing a request or response into it. Guest-side language
// bindings that provide this export are explicitly out of scope here
// (this package is the host half of the ABI only).
const guestAllocFn = "sf_alloc"

// HostConfig tunes the wazero runtime and risk ceiling a Host enforces.
type HostConfig struct {
	// MemoryLimitBytes caps a guest instance's linear memory; rounded
	// up to the nearest 64KB wazero page.
	MemoryLimitBytes uint64
	// CallTimeout bounds one guest call's wall-clock time via a
	// context deadline, wazero's analog to a CPU-time limit since
	// wazero has no native CPU quota primitive.
	CallTimeout time.Duration
	// RiskCeiling is the highest manifest.Risk class this Host will
	// dispatch; operations above it are refused before their handler
	// ever runs.
	RiskCeiling manifest.Risk
}

func (c HostConfig) withDefaults() HostConfig {
	if c.MemoryLimitBytes == 0 {
		c.MemoryLimitBytes = 16 * 1024 * 1024 // 16MB
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = 30 * time.Second
	}
	if c.RiskCeiling == "" {
		c.RiskCeiling = manifest.ReadOnly
	}
	return c
}

// Host loads untrusted guest plugins and exposes the Registry's
// operations to them as wazero host-imported functions, deny-by-default
// the same way the pack's WASI sandbox is: no filesystem, no network
// capability beyond the operations explicitly registered, no
// environment variables, memory capped in pages.
type Host struct {
	registry *Registry
	manifest *manifest.Manifest
	cfg      HostConfig
}

// NewHost builds a Host bound to a functional registry and the
// declarative manifest it's validated against. Construction fails if
// the registry wires any operation the manifest doesn't describe.
func NewHost(registry *Registry, cat *manifest.Manifest, cfg HostConfig) (*Host, error) {
	if err := registry.ValidateAgainstCatalog(cat); err != nil {
		return nil, err
	}
	return &Host{registry: registry, manifest: cat, cfg: cfg.withDefaults()}, nil
}

// Call instantiates a fresh plugin module from wasmBytes on a
// dedicated blocking worker goroutine, invokes its exported
// entryPoint with payload, and returns the entry point's raw response
// bytes. The module and its worker are torn down before Call returns,
// matching the bridge's per-invocation lifetime for State.
func (h *Host) Call(ctx context.Context, wasmBytes []byte, entryPoint string, state *State, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.CallTimeout)
	defer cancel()

	worker := NewWorker()
	defer worker.Close()
	state.RuntimeHandle = worker

	var response []byte
	err := worker.Do(ctx, func() error {
		out, callErr := h.runOnWorker(ctx, wasmBytes, entryPoint, state, payload)
		response = out
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (h *Host) runOnWorker(ctx context.Context, wasmBytes []byte, entryPoint string, state *State, payload []byte) ([]byte, error) {
	pages := uint32(h.cfg.MemoryLimitBytes / (64 * 1024))
	if pages == 0 {
		pages = 1
	}
	runtimeCfg := wazero.NewRuntimeConfig().WithMemoryLimitPages(pages)
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = r.Close(closeCtx)
	}()

	// Deny-by-default WASI: stdout/stderr only, no filesystem, no
	// high-res timers, no crypto randomness — the same posture as the
	// pack's WASISandbox, just without stdin/stdout piping since this
	// host speaks through imported functions instead.
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	if err := h.buildHostModule(ctx, r, state); err != nil {
		return nil, err
	}

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindConfig, "bridge: failed to compile guest module", err)
	}
	defer func() { _ = compiled.Close(ctx) }()

	modCfg := wazero.NewModuleConfig().WithName("sf-bridge-guest")
	mod, err := r.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, sferrors.New(sferrors.KindTimeout, "bridge: guest instantiation timed out")
		}
		return nil, sferrors.Wrap(sferrors.KindConnection, "bridge: failed to instantiate guest module", err)
	}
	defer func() { _ = mod.Close(ctx) }()

	entry := mod.ExportedFunction(entryPoint)
	if entry == nil {
		return nil, sferrors.New(sferrors.KindConfig, fmt.Sprintf("bridge: guest module does not export entry point %q", entryPoint))
	}

	reqPtr, err := writeToGuest(ctx, mod, payload)
	if err != nil {
		return nil, err
	}

	results, err := entry.Call(ctx, uint64(reqPtr), uint64(len(payload)))
	if err != nil {
		if ctx.Err() != nil {
			return nil, sferrors.New(sferrors.KindTimeout, "bridge: guest call timed out")
		}
		return nil, sferrors.Wrap(sferrors.KindConnection, "bridge: guest call failed", err)
	}
	if len(results) != 1 {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: guest entry point returned an unexpected result arity")
	}

	respPtr, respLen := unpack(results[0])
	respBytes, ok := mod.Memory().Read(respPtr, respLen)
	if !ok {
		return nil, sferrors.New(sferrors.KindSerialization, "bridge: guest entry point returned an out-of-bounds result pointer")
	}
	out := make([]byte, len(respBytes))
	copy(out, respBytes)
	return out, nil
}

// buildHostModule exports one wazero host function per registered
// operation under the "salesforce" import namespace, enforcing the
// risk ceiling before a handler runs.
func (h *Host) buildHostModule(ctx context.Context, r wazero.Runtime, state *State) error {
	builder := r.NewHostModuleBuilder("salesforce")
	for _, op := range h.registry.Operations() {
		op := op
		builder = builder.NewFunctionBuilder().
			WithFunc(func(callCtx context.Context, mod api.Module, reqPtr, reqLen uint32) uint64 {
				return h.handleGuestCall(callCtx, mod, state, op, reqPtr, reqLen)
			}).
			Export(op.HostFnName)
	}
	if _, err := builder.Instantiate(ctx); err != nil {
		return sferrors.Wrap(sferrors.KindConfig, "bridge: failed to instantiate host module", err)
	}
	return nil
}

// handleGuestCall runs when the guest invokes one of its imported
// Salesforce functions: it reads the request out of guest memory,
// enforces the risk ceiling, dispatches to the operation's handler,
// and writes the msgpack-encoded BridgeResult back into guest memory.
func (h *Host) handleGuestCall(ctx context.Context, mod api.Module, state *State, op Operation, reqPtr, reqLen uint32) uint64 {
	reqBytes, ok := mod.Memory().Read(reqPtr, reqLen)
	if !ok {
		return h.writeResult(ctx, mod, errToResult(sferrors.New(sferrors.KindSerialization, "bridge: failed to read request from guest memory")))
	}

	allowed, _, err := RiskCeilingFor(h.manifest, op.HostFnName, h.cfg.RiskCeiling)
	if err != nil {
		return h.writeResult(ctx, mod, errToResult(err))
	}
	if !allowed {
		return h.writeResult(ctx, mod, errToResult(sferrors.New(sferrors.KindAuthorization, fmt.Sprintf("bridge: operation %q exceeds the configured risk ceiling", op.Name))))
	}

	respBytes, handlerErr := op.Handler(ctx, state, reqBytes)
	if handlerErr != nil {
		return h.writeResult(ctx, mod, errToResult(handlerErr))
	}
	return h.writeResult(ctx, mod, respBytes)
}

func (h *Host) writeResult(ctx context.Context, mod api.Module, data []byte) uint64 {
	ptr, err := writeToGuest(ctx, mod, data)
	if err != nil {
		return 0
	}
	return pack(ptr, uint32(len(data)))
}

// writeToGuest calls the guest's exported allocator to reserve space
// for data, then writes it, returning the pointer it now lives at.
func writeToGuest(ctx context.Context, mod api.Module, data []byte) (uint32, error) {
	if len(data) == 0 {
		return 0, nil
	}
	alloc := mod.ExportedFunction(guestAllocFn)
	if alloc == nil {
		return 0, sferrors.New(sferrors.KindConfig, fmt.Sprintf("bridge: guest module does not export %q", guestAllocFn))
	}
	results, err := alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, sferrors.Wrap(sferrors.KindConnection, "bridge: guest allocator call failed", err)
	}
	ptr := uint32(results[0])
	if !mod.Memory().Write(ptr, data) {
		return 0, sferrors.New(sferrors.KindSerialization, "bridge: failed to write into guest memory")
	}
	return ptr, nil
}

// pack/unpack fold a (pointer, length) pair into the single i64 wasm
// functions return across this ABI, avoiding a dependency on the
// multi-value extension.
func pack(ptr, length uint32) uint64 { return uint64(ptr)<<32 | uint64(length) }
func unpack(v uint64) (ptr, length uint32) { return uint32(v >> 32), uint32(v) }
