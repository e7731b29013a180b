/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"bytes"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRegistryResolvesKnownFormats(t *testing.T) {
	r := NewRegistry()

	for _, format := range []string{FormatJSON, FormatMsgpack} {
		codec, err := r.Resolve(format)
		if err != nil {
			t.Fatalf("resolve %q failed: %v", format, err)
		}
		if codec.Format() != format {
			t.Fatalf("expected format %q, got %q", format, codec.Format())
		}
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("pof")
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestHolderPassThroughIsIdentity(t *testing.T) {
	h := &RequestHolder{
		format:      FormatJSON,
		cacheFormat: FormatJSON,
		codec:       JSONCodec{},
		cacheCodec:  JSONCodec{},
		passThrough: true,
	}

	payload := []byte{0xAA, 0xBB, 0xCC}
	down, err := h.ConvertDown(payload)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !bytes.Equal(down, payload) {
		t.Fatal("expected pass-through bytes to be unchanged")
	}
	up, err := h.ConvertUp(payload)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !bytes.Equal(up, payload) {
		t.Fatal("expected pass-through bytes to be unchanged")
	}
}

func TestHolderConvertsBetweenFormats(t *testing.T) {
	h := &RequestHolder{
		format:      FormatJSON,
		cacheFormat: FormatMsgpack,
		codec:       JSONCodec{},
		cacheCodec:  MsgpackCodec{},
	}

	original := map[string]any{"name": "tim", "age": float64(21)}
	jsonBytes, err := (JSONCodec{}).Encode(original)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	down, err := h.ConvertDown(jsonBytes)
	if err != nil {
		t.Fatalf("convert down failed: %v", err)
	}
	up, err := h.ConvertUp(down)
	if err != nil {
		t.Fatalf("convert up failed: %v", err)
	}

	decoded, err := (JSONCodec{}).Decode(up)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	doc, ok := decoded.(map[string]any)
	if !ok || doc["name"] != "tim" || doc["age"] != float64(21) {
		t.Fatalf("round trip lost data: %v", decoded)
	}
}

func TestJSONCodecRejectsUnknownPrefix(t *testing.T) {
	_, err := (JSONCodec{}).Decode([]byte{0x99, '{', '}'})
	if err == nil {
		t.Fatal("expected an error for an unknown serialization prefix")
	}
}

func TestJSONCodecNilHandling(t *testing.T) {
	codec := JSONCodec{}

	v, err := codec.Decode(nil)
	if err != nil || v != nil {
		t.Fatalf("expected nil for empty payload, got %v %v", v, err)
	}

	encoded, err := codec.Encode(nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	v, err = codec.Decode(encoded)
	if err != nil || v != nil {
		t.Fatalf("expected nil round trip, got %v %v", v, err)
	}
}
