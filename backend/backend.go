/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

// Package backend defines the contract the proxy consumes from the backing
// partitioned cache, together with an in-process implementation used by
// embedded deployments and tests. Keys and values cross this boundary as raw
// bytes; filters, aggregators and entry-processor agents are deserialized by
// the backend with its own serializer.
package backend

import (
	"context"
	"errors"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrCacheDestroyed indicates an operation was attempted against a cache
	// that has been destroyed.
	ErrCacheDestroyed = errors.New("the cache has been destroyed")

	// ErrServiceStopped indicates the backing cache service is no longer running.
	ErrServiceStopped = errors.New("the cache service has been stopped")
)

// Binary is an opaque serialized key or value.
type Binary = []byte

// Codec encodes and decodes logical values for one serialization format.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
	Format() string
}

// Member identifies a cluster member owning one or more partitions.
type Member struct {
	ID      int32
	Address string
}

// ProcessorKind identifies a binary entry-processor variant.
type ProcessorKind int

const (
	// ProcGet returns the current value wrapped in an optional envelope so a
	// present-but-nil mapping is distinguishable from an absent key.
	ProcGet ProcessorKind = iota
	// ProcPut stores Value with the given TTL and returns the prior value.
	ProcPut
	// ProcPutIfAbsent stores Value only when no mapping exists.
	ProcPutIfAbsent
	// ProcReplace stores Value only when a mapping exists.
	ProcReplace
	// ProcReplaceMapping stores Value only when the current value equals Previous.
	ProcReplaceMapping
	// ProcRemove removes the mapping and returns the prior value.
	ProcRemove
	// ProcRemoveMapping removes the mapping only when the current value equals Value.
	ProcRemoveMapping
	// ProcContainsValue tests whether the current value equals Value.
	ProcContainsValue
	// ProcAgent executes a serialized logical processor against the entry.
	ProcAgent
)

// Processor is a binary entry processor executed atomically against a single
// entry on its owning partition. Point mutations are expressed as processor
// variants rather than raw cache calls so the prior value comes back in the
// backend's binary format without a re-serialization round trip.
type Processor struct {
	Kind      ProcessorKind
	Value     Binary
	Previous  Binary
	TTLMillis int64
	Agent     Binary
}

// GetProcessor returns the value-returning read processor.
func GetProcessor() Processor {
	return Processor{Kind: ProcGet}
}

// PutProcessor stores value with the given TTL in milliseconds.
func PutProcessor(value Binary, ttlMillis int64) Processor {
	return Processor{Kind: ProcPut, Value: value, TTLMillis: ttlMillis}
}

// PutIfAbsentProcessor stores value when the key has no mapping.
func PutIfAbsentProcessor(value Binary, ttlMillis int64) Processor {
	return Processor{Kind: ProcPutIfAbsent, Value: value, TTLMillis: ttlMillis}
}

// ReplaceProcessor stores value when the key has a mapping.
func ReplaceProcessor(value Binary) Processor {
	return Processor{Kind: ProcReplace, Value: value}
}

// ReplaceMappingProcessor stores value when the current value equals previous.
func ReplaceMappingProcessor(previous, value Binary) Processor {
	return Processor{Kind: ProcReplaceMapping, Previous: previous, Value: value}
}

// RemoveProcessor removes the mapping, returning the prior value.
func RemoveProcessor() Processor {
	return Processor{Kind: ProcRemove}
}

// RemoveMappingProcessor removes the mapping when the current value equals value.
func RemoveMappingProcessor(value Binary) Processor {
	return Processor{Kind: ProcRemoveMapping, Value: value}
}

// ContainsValueProcessor tests the current value for equality with value.
func ContainsValueProcessor(value Binary) Processor {
	return Processor{Kind: ProcContainsValue, Value: value}
}

// AgentProcessor executes the serialized logical processor agent.
func AgentProcessor(agent Binary) Processor {
	return Processor{Kind: ProcAgent, Agent: agent}
}

// Optional is the envelope returned by the get processor.
type Optional struct {
	Present bool
	Value   Binary
}

// EncodeOptional encodes an optional envelope.
func EncodeOptional(o Optional) (Binary, error) {
	return msgpack.Marshal(o)
}

// DecodeOptional decodes an optional envelope produced by EncodeOptional.
func DecodeOptional(data Binary) (Optional, error) {
	var o Optional
	if len(data) == 0 {
		return o, nil
	}
	err := msgpack.Unmarshal(data, &o)
	return o, err
}

// EventType identifies the mutation described by a MapEvent.
type EventType int

const (
	// EventInserted indicates a new mapping.
	EventInserted EventType = 1
	// EventUpdated indicates a changed mapping.
	EventUpdated EventType = 2
	// EventDeleted indicates a removed mapping.
	EventDeleted EventType = 3
)

// MapEvent describes one observed mutation. Synthetic events are raised by
// priming registrations rather than by an actual mutation.
type MapEvent struct {
	Type      EventType
	Key       Binary
	OldValue  Binary
	NewValue  Binary
	Synthetic bool
	Priming   bool
}

// Listener receives events for a registration. Callbacks are invoked in the
// backend-observed order for any given key and must not block.
type Listener interface {
	OnEvent(event MapEvent)
	OnTruncated()
	OnDestroyed()
}

// ListenerRegistration describes an event registration. Exactly one of Key or
// Filter is meaningful; a registration with neither matches all entries.
type ListenerRegistration struct {
	// Key registers for events on a single key when non-nil.
	Key Binary
	// Filter holds serialized filter bytes in the backend's format.
	Filter Binary
	// Lite suppresses old and new values on delivered events.
	Lite bool
	// Priming delivers a synthetic insert for each currently matching entry.
	Priming bool
	Listener Listener
}

// EntryCallback receives one entry of a set-returning query.
type EntryCallback func(key, value Binary)

// KeyCallback receives one key of a key query.
type KeyCallback func(key Binary)

// ValueCallback receives one value of a value query.
type ValueCallback func(value Binary)

// Entry is a binary key and value pair.
type Entry struct {
	Key   Binary
	Value Binary
}

// Service describes the cache service hosting a cache.
type Service interface {
	// Partitioned reports whether the service distributes data over partitions.
	Partitioned() bool

	// LocalStorageEnabled reports whether this process stores primary partitions.
	LocalStorageEnabled() bool

	// OwnerOf returns the member owning the partition for key, or nil when the
	// owning partition is orphaned.
	OwnerOf(key Binary) *Member

	// Members returns the current service members.
	Members() []*Member

	// Format returns the service's native serialization format.
	Format() string

	// Running reports whether the service is accepting requests.
	Running() bool
}

// Cache is the asynchronous binary view of a named cache consumed by the
// proxy. Every method honours ctx cancellation; implementations must not
// require the caller's goroutine for progress.
type Cache interface {
	Name() string
	Service() Service
	Destroyed() bool

	// Get returns the value for key and whether a mapping exists.
	Get(ctx context.Context, key Binary) (Binary, bool, error)

	// Put stores value with a TTL in milliseconds, returning the prior value.
	Put(ctx context.Context, key, value Binary, ttlMillis int64) (Binary, error)

	// Remove removes the mapping for key, returning the prior value.
	Remove(ctx context.Context, key Binary) (Binary, error)

	// PutAll stores every entry with the given TTL. Bulk writes split by
	// partition owner arrive as one PutAll per owning member.
	PutAll(ctx context.Context, entries []Entry, ttlMillis int64) error

	// Epoch returns the truncation epoch; it increases on every truncate.
	Epoch() uint64

	// Invoke executes proc atomically against key's entry.
	Invoke(ctx context.Context, key Binary, proc Processor) (Binary, error)

	// InvokeAllKeys executes proc against each of keys, delivering non-empty
	// results through cb.
	InvokeAllKeys(ctx context.Context, keys []Binary, proc Processor, cb EntryCallback) error

	// InvokeAllFilter executes proc against each entry matching the filter.
	InvokeAllFilter(ctx context.Context, filter Binary, proc Processor, cb EntryCallback) error

	// AggregateKeys aggregates over the entries of keys.
	AggregateKeys(ctx context.Context, keys []Binary, aggregator Binary) (Binary, error)

	// AggregateFilter aggregates over the entries matching the filter. Empty
	// filter bytes match all entries.
	AggregateFilter(ctx context.Context, filter Binary, aggregator Binary) (Binary, error)

	// KeySet streams the keys matching the filter through cb.
	KeySet(ctx context.Context, filter Binary, cb KeyCallback) error

	// EntrySet streams the entries matching the filter through cb.
	EntrySet(ctx context.Context, filter Binary, cb EntryCallback) error

	// EntrySetSorted collects the entries matching the filter ordered by the
	// serialized comparator.
	EntrySetSorted(ctx context.Context, filter, comparator Binary) ([]Entry, error)

	// Values streams the values matching the filter through cb.
	Values(ctx context.Context, filter Binary, cb ValueCallback) error

	// ValuesSorted collects the values matching the filter ordered by the
	// serialized comparator.
	ValuesSorted(ctx context.Context, filter, comparator Binary) ([]Binary, error)

	// AddIndex adds an index for the serialized extractor.
	AddIndex(ctx context.Context, extractor Binary, sorted bool, comparator Binary) error

	// RemoveIndex removes the index for the serialized extractor.
	RemoveIndex(ctx context.Context, extractor Binary) error

	Size(ctx context.Context) (int, error)
	IsEmpty(ctx context.Context) (bool, error)
	IsReady(ctx context.Context) (bool, error)
	Clear(ctx context.Context) error

	// Truncate removes all mappings without raising entry events; registered
	// listeners observe a single truncation callback.
	Truncate(ctx context.Context) error

	// Destroy invalidates the cache process wide.
	Destroy(ctx context.Context) error

	// AddListener registers for events, returning a registration id.
	AddListener(reg ListenerRegistration) (uint64, error)

	// RemoveListener cancels a registration. Unknown ids are ignored.
	RemoveListener(id uint64)
}
