/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package api

import (
	"bytes"
	"testing"

	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	if encoding.GetCodec(CodecName) == nil {
		t.Fatalf("expected codec %q to be registered", CodecName)
	}
}

func TestCodecRoundTripsRequests(t *testing.T) {
	codec := Codec{}

	in := &PutRequest{
		Scope:  "tenant",
		Cache:  "people",
		Format: "json",
		Key:    []byte{0x01},
		Value:  []byte{0xAA, 0xBB},
		TTL:    5000,
	}

	data, err := codec.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out := new(PutRequest)
	if err = codec.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if out.Scope != in.Scope || out.Cache != in.Cache || out.Format != in.Format ||
		!bytes.Equal(out.Key, in.Key) || !bytes.Equal(out.Value, in.Value) || out.TTL != in.TTL {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestCodecRoundTripsListenerMessages(t *testing.T) {
	codec := Codec{}

	in := &MapListenerResponse{
		Type:  ListenerEvent,
		Cache: "orders",
		UID:   "abc",
		Event: &MapEventResponse{
			ID:        EntryUpdated,
			Key:       []byte{0x01},
			OldValue:  []byte{0x02},
			NewValue:  []byte{0x03},
			FilterIDs: []int64{1, 2},
		},
	}

	data, err := codec.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out := new(MapListenerResponse)
	if err = codec.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if out.Type != ListenerEvent || out.Cache != "orders" || out.Event == nil {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.Event.ID != EntryUpdated || len(out.Event.FilterIDs) != 2 {
		t.Fatalf("event mismatch: %+v", out.Event)
	}
}

func TestCodecOpaquePayloadUnchanged(t *testing.T) {
	codec := Codec{}

	payload := []byte{0x15, '"', 'x', '"', 0x00, 0xFF}
	in := &BytesValue{Value: payload}

	data, err := codec.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	out := new(BytesValue)
	if err = codec.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !bytes.Equal(out.Value, payload) {
		t.Fatalf("payload bytes changed: %v", out.Value)
	}
}
