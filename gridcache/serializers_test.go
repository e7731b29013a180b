/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package gridcache

import (
	"reflect"
	"testing"
)

func TestInvalidSerializer(t *testing.T) {
	serializer := NewSerializer[string]("invalid")

	serialized, err := serializer.Serialize("AAA")
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	deserialized, err := serializer.Deserialize(serialized)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if *deserialized != "AAA" {
		t.Fatalf("expected 'AAA', got '%s'", *deserialized)
	}
}

func TestJsonSerializer(t *testing.T) {
	type person struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	var myMap = map[int]person{
		1: {1, "tim"},
		2: {3, "tim2"},
	}

	testSerialization(t, "json", "hello")
	testSerialization(t, "json", 123)
	testSerialization(t, "json", 123.123)
	testSerialization(t, "json", int64(23))
	testSerialization(t, "json", false)
	testSerialization(t, "json", true)
	testSerialization(t, "json", person{ID: 1, Name: "tim"})
	testSerialization(t, "json", []string{"hello", "hello2", "hello3"})
	testSerialization(t, "json", []int{12, 12, 12, 4, 4, 4, 3, 5})
	testSerialization(t, "json", myMap)
}

func TestMsgpackSerializer(t *testing.T) {
	type person struct {
		ID   int    `msgpack:"id"`
		Name string `msgpack:"name"`
	}

	testSerialization(t, "msgpack", "hello")
	testSerialization(t, "msgpack", 123)
	testSerialization(t, "msgpack", true)
	testSerialization(t, "msgpack", person{ID: 1, Name: "tim"})
	testSerialization(t, "msgpack", []string{"a", "b", "c"})
}

func TestJsonSerializerPrefix(t *testing.T) {
	serializer := NewSerializer[string]("json")

	data, err := serializer.Serialize("value")
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if data[0] != jsonSerializationPrefix {
		t.Fatalf("expected prefix %d, got %d", jsonSerializationPrefix, data[0])
	}

	// an unknown prefix is rejected
	if _, err = serializer.Deserialize([]byte{0x99, 'x'}); err == nil {
		t.Fatal("expected an error for an invalid prefix")
	}
}

func TestSerializerNilHandling(t *testing.T) {
	serializer := NewSerializer[string]("json")

	v, err := serializer.Deserialize(nil)
	if err != nil || v != nil {
		t.Fatalf("expected nil for empty data, got %v %v", v, err)
	}
}

func testSerialization[V any](t *testing.T, format string, v V) {
	t.Helper()

	serializer := NewSerializer[V](format)
	if serializer == nil {
		t.Fatal("expected serializer to be non-nil")
	}

	data, err := serializer.Serialize(v)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	result, err := serializer.Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if !reflect.DeepEqual(*result, v) {
		t.Fatalf("expected %v, got %v", v, *result)
	}
}
