/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// FormatJSON names the JSON serialization format.
	FormatJSON = "json"
	// FormatMsgpack names the msgpack serialization format.
	FormatMsgpack = "msgpack"

	// jsonSerializationPrefix is the single byte prefixed to every JSON
	// payload; it identifies the format on the wire.
	jsonSerializationPrefix = 21
)

// Codec encodes and decodes logical values for one serialization format.
// When a request's format equals the cache's native format, payload bytes are
// routed as-is and the codec is never invoked.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
	Format() string
}

// Registry resolves format names to codecs.
type Registry struct {
	codecs map[string]Codec
}

// NewRegistry creates a registry with the json and msgpack codecs installed.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[string]Codec)}
	r.Register(JSONCodec{})
	r.Register(MsgpackCodec{})
	return r
}

// Register installs a codec under its format name.
func (r *Registry) Register(codec Codec) {
	r.codecs[codec.Format()] = codec
}

// Resolve returns the codec for format. Unknown formats are reported as
// INVALID_ARGUMENT.
func (r *Registry) Resolve(format string) (Codec, error) {
	if codec, ok := r.codecs[format]; ok {
		return codec, nil
	}
	return nil, status.Errorf(codes.InvalidArgument, "there is no serializer for format %q", format)
}

// JSONCodec serializes values as JSON with the format prefix byte.
type JSONCodec struct{}

// Encode implements Codec.
func (JSONCodec) Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	final := make([]byte, 1, len(data)+1)
	final[0] = jsonSerializationPrefix
	return append(final, data...), nil
}

// Decode implements Codec.
func (JSONCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] != jsonSerializationPrefix {
		return nil, fmt.Errorf("invalid serialization prefix %v", data[0])
	}
	body := data[1:]
	if bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Format implements Codec.
func (JSONCodec) Format() string { return FormatJSON }

// MsgpackCodec serializes values with msgpack.
type MsgpackCodec struct{}

// Encode implements Codec.
func (MsgpackCodec) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode implements Codec.
func (MsgpackCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return normalizeDecoded(v), nil
}

// Format implements Codec.
func (MsgpackCodec) Format() string { return FormatMsgpack }

// normalizeDecoded rewrites msgpack map keys to strings so documents decoded
// from either format share one shape.
func normalizeDecoded(v any) any {
	switch m := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = normalizeDecoded(val)
		}
		return out
	case map[string]any:
		for k, val := range m {
			m[k] = normalizeDecoded(val)
		}
		return m
	case []any:
		for i, val := range m {
			m[i] = normalizeDecoded(val)
		}
		return m
	default:
		return v
	}
}
