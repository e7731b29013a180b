/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package gridcache

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	jsonSerializationPrefix = 21
)

var (
	_ Serializer[string] = JSONSerializer[string]{format: "json"}
	_ Serializer[string] = MsgpackSerializer[string]{format: "msgpack"}
)

// Serializer defines how to serialize and deserialize objects.
type Serializer[T any] interface {
	Serialize(object T) ([]byte, error)
	Deserialize(data []byte) (*T, error)
	Format() string
}

// NewSerializer returns a new Serializer based upon the format and the type.
// The supported formats are "json" and "msgpack"; any other format defaults
// to "json".
func NewSerializer[T any](format string) Serializer[T] {
	if format == "msgpack" {
		return MsgpackSerializer[T]{format: format}
	}
	return JSONSerializer[T]{format: "json"}
}

// JSONSerializer serializes data using JSON. Every payload carries a single
// prefix byte identifying the format on the wire.
type JSONSerializer[T any] struct {
	format string
}

// Serialize serializes an object of type T and returns the []byte representation.
func (s JSONSerializer[T]) Serialize(object T) ([]byte, error) {
	data, err := json.Marshal(object)
	if err != nil {
		return nil, err
	}

	finalData := make([]byte, 1, len(data)+1)
	finalData[0] = jsonSerializationPrefix
	return append(finalData, data...), nil
}

// Deserialize deserializes data and returns the correct type of T.
func (s JSONSerializer[T]) Deserialize(data []byte) (*T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] != jsonSerializationPrefix {
		zeroValue := new(T)
		return zeroValue, fmt.Errorf("invalid serialization prefix %v", data[0])
	}

	body := data[1:]
	if string(body) == "null" {
		return nil, nil
	}

	var finalResult T
	err := json.Unmarshal(body, &finalResult)
	return &finalResult, err
}

// Format returns the serialization format.
func (s JSONSerializer[T]) Format() string {
	return s.format
}

// MsgpackSerializer serializes data using msgpack.
type MsgpackSerializer[T any] struct {
	format string
}

// Serialize serializes an object of type T and returns the []byte representation.
func (s MsgpackSerializer[T]) Serialize(object T) ([]byte, error) {
	return msgpack.Marshal(object)
}

// Deserialize deserializes data and returns the correct type of T.
func (s MsgpackSerializer[T]) Deserialize(data []byte) (*T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var finalResult T
	if err := msgpack.Unmarshal(data, &finalResult); err != nil {
		return nil, err
	}
	return &finalResult, nil
}

// Format returns the serialization format.
func (s MsgpackSerializer[T]) Format() string {
	return s.format
}

// serializeKeys serializes a slice of keys.
func serializeKeys[K comparable](serializer Serializer[K], keys []K) ([][]byte, error) {
	binKeys := make([][]byte, len(keys))
	for i, key := range keys {
		binKey, err := serializer.Serialize(key)
		if err != nil {
			return nil, err
		}
		binKeys[i] = binKey
	}
	return binKeys, nil
}
