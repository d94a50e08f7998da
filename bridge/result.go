package bridge

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Result is the uniform envelope every host function response carries
// across the guest boundary: either the typed success value or a
// coarse {code, message} pair. REST/Bulk/Tooling errors are collapsed
// into this shape by errToResult before they ever reach msgpack
// encoding, so a guest never has to parse a Salesforce-specific error
// body.
type Result[T any] struct {
	Ok      bool   `msgpack:"ok"`
	Value   T      `msgpack:"value,omitempty"`
	Code    string `msgpack:"code,omitempty"`
	Message string `msgpack:"message,omitempty"`
}

// Success wraps a value as the Ok branch of a Result.
func Success[T any](v T) Result[T] {
	return Result[T]{Ok: true, Value: v}
}

// Failure builds the Err branch of a Result with a coarse code.
func Failure[T any](code, message string) Result[T] {
	return Result[T]{Ok: false, Code: code, Message: message}
}

// Encode msgpack-serializes a Result for return across the guest
// boundary.
func Encode[T any](r Result[T]) ([]byte, error) {
	return msgpack.Marshal(r)
}

// Decode msgpack-deserializes bytes received from a guest request into
// a typed request value; handlers use this to read their own
// parameters out of the raw bytes the dispatcher hands them.
func Decode[T any](data []byte) (T, error) {
	var v T
	err := msgpack.Unmarshal(data, &v)
	return v, err
}

// rawResult is the shape a handler's return value is wrapped in before
// encoding, used where the handler's success value is already a
// concrete Go value of unknown static type (map[string]interface{},
// a slice, a scalar) rather than a single fixed T — the dispatcher
// deals in dynamic values because the registry holds heterogeneous
// operations behind one handler signature.
type rawResult struct {
	Ok      bool        `msgpack:"ok"`
	Value   interface{} `msgpack:"value,omitempty"`
	Code    string      `msgpack:"code,omitempty"`
	Message string      `msgpack:"message,omitempty"`
}

func encodeSuccess(v interface{}) ([]byte, error) {
	return msgpack.Marshal(rawResult{Ok: true, Value: v})
}

func encodeFailure(code, message string) []byte {
	b, err := msgpack.Marshal(rawResult{Ok: false, Code: code, Message: message})
	if err != nil {
		// Marshaling a two-string struct cannot fail; this is an
		// unconditional fallback only a corrupt runtime would hit.
		return []byte(`{"ok":false,"code":"internal","message":"failed to encode error"}`)
	}
	return b
}
