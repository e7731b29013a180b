/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package gridcache

import (
	"context"
	"time"

	"github.com/oracle/gridcache-go/gridcache/filters"
	"github.com/oracle/gridcache-go/gridcache/processors"
)

// NamedMap defines the APIs to cache data, mapping keys to values, supporting
// full concurrency of retrievals and high expected concurrency for updates.
// This object cannot contain duplicate keys; each key can map to at most one
// value.
//
// Keys and values must be serializable; the supported serialization formats
// are JSON and msgpack. Instances of this interface are typically acquired
// via a Session.
//
// The type parameters are K = type of the key and V = type of the value.
type NamedMap[K comparable, V any] interface {
	// AddLifecycleListener adds a MapLifecycleListener that will receive
	// events (truncated, destroyed, released) that occur against the NamedMap.
	AddLifecycleListener(listener MapLifecycleListener[K, V])

	// AddFilterListener adds a MapListener that will receive events for
	// entries satisfying the filter, with the key, old-value and new-value
	// included.
	AddFilterListener(ctx context.Context, listener MapListener[K, V], filter filters.Filter) error

	// AddFilterListenerLite adds a MapListener that will receive events for
	// entries satisfying the filter, with only the key included.
	AddFilterListenerLite(ctx context.Context, listener MapListener[K, V], filter filters.Filter) error

	// AddKeyListener adds a MapListener for events against the specified key.
	AddKeyListener(ctx context.Context, listener MapListener[K, V], key K) error

	// AddKeyListenerLite adds a MapListener for events against the specified
	// key with only the key included.
	AddKeyListenerLite(ctx context.Context, listener MapListener[K, V], key K) error

	// AddListener adds a MapListener that will receive all events. It is
	// equivalent to AddFilterListener with filters.Always.
	AddListener(ctx context.Context, listener MapListener[K, V]) error

	// AddListenerLite adds a MapListener that will receive all events with
	// only the key included.
	AddListenerLite(ctx context.Context, listener MapListener[K, V]) error

	// Clear removes all mappings from this NamedMap.
	Clear(ctx context.Context) error

	// Truncate removes all mappings from this NamedMap. The removal of
	// entries caused by truncate is not observable.
	Truncate(ctx context.Context) error

	// Destroy releases and destroys this instance of NamedMap across the
	// cluster. All references to this cache are invalidated, the data is
	// cleared and internal resources are released.
	Destroy(ctx context.Context) error

	// Release releases the local resources for this NamedMap. The contents
	// are unaffected; to access the NamedMap again a new instance must be
	// obtained.
	Release()

	// ContainsKey returns true if this NamedMap contains a mapping for key.
	ContainsKey(ctx context.Context, key K) (bool, error)

	// ContainsValue returns true if this NamedMap maps one or more keys to
	// the specified value.
	ContainsValue(ctx context.Context, value V) (bool, error)

	// ContainsEntry returns true if this NamedMap contains the specified key
	// and value pair.
	ContainsEntry(ctx context.Context, key K, value V) (bool, error)

	// IsEmpty returns true if this NamedMap contains no mappings.
	IsEmpty(ctx context.Context) (bool, error)

	// IsReady returns true when this NamedMap is ready to accept requests.
	IsReady(ctx context.Context) (bool, error)

	// EntrySetFilter returns a channel of entries satisfying the filter.
	// Each channel value wraps an error and the entry; the entry is valid
	// only when the error is nil.
	EntrySetFilter(ctx context.Context, filter filters.Filter) <-chan *StreamedEntry[K, V]

	// EntrySet returns a channel of all entries. Entries are paged internally
	// to bound memory usage.
	EntrySet(ctx context.Context) <-chan *StreamedEntry[K, V]

	// Get returns the value to which the specified key is mapped. V will be
	// nil if there is no mapping.
	Get(ctx context.Context, key K) (*V, error)

	// GetAll returns a channel of entries for the requested keys.
	GetAll(ctx context.Context, keys []K) <-chan *StreamedEntry[K, V]

	// GetOrDefault returns the value mapped to key, or def when there is no
	// mapping.
	GetOrDefault(ctx context.Context, key K, def V) (*V, error)

	// Aggregate executes an aggregator against the entries selected by keys
	// or filter; both nil aggregates over all entries.
	Aggregate(ctx context.Context, keys []K, filter filters.Filter, aggregator any) ([]byte, error)

	// Invoke invokes the processor against the entry for key.
	Invoke(ctx context.Context, key K, proc processors.Processor) ([]byte, error)

	// InvokeAll invokes the processor against the entries matching the keys
	// or the filter; keys take precedence when both are supplied.
	InvokeAll(ctx context.Context, keys []K, filter filters.Filter, proc processors.Processor) <-chan *StreamedEntry[K, V]

	// KeySetFilter returns a channel of keys of entries satisfying the filter.
	KeySetFilter(ctx context.Context, filter filters.Filter) <-chan *StreamedKey[K]

	// KeySet returns a channel of all keys, paged internally.
	KeySet(ctx context.Context) <-chan *StreamedKey[K]

	// Name returns the name of the NamedMap.
	Name() string

	// Put associates the specified value with the specified key, returning
	// the previously mapped value. V will be nil if there was none.
	Put(ctx context.Context, key K, value V) (*V, error)

	// PutAll copies all of the mappings from the specified map to this NamedMap.
	PutAll(ctx context.Context, entries map[K]V) error

	// PutIfAbsent adds the mapping if the key is not already associated with
	// a value. V will be nil if there was no previous value.
	PutIfAbsent(ctx context.Context, key K, value V) (*V, error)

	// Remove removes the mapping for key, returning the previously mapped
	// value, if any.
	Remove(ctx context.Context, key K) (*V, error)

	// RemoveLifecycleListener removes a previously registered lifecycle listener.
	RemoveLifecycleListener(listener MapLifecycleListener[K, V])

	// RemoveFilterListener removes a previously registered filter listener.
	RemoveFilterListener(ctx context.Context, listener MapListener[K, V], filter filters.Filter) error

	// RemoveKeyListener removes a previously registered key listener.
	RemoveKeyListener(ctx context.Context, listener MapListener[K, V], key K) error

	// RemoveListener removes a previously registered listener.
	RemoveListener(ctx context.Context, listener MapListener[K, V]) error

	// RemoveMapping removes the entry for key only if it is currently mapped
	// to value.
	RemoveMapping(ctx context.Context, key K, value V) (bool, error)

	// Replace replaces the entry for key only if it is currently mapped to
	// some value.
	Replace(ctx context.Context, key K, value V) (*V, error)

	// ReplaceMapping replaces the entry for key only if it is currently
	// mapped to prevValue. Returns true if the value was replaced.
	ReplaceMapping(ctx context.Context, key K, prevValue V, newValue V) (bool, error)

	// AddIndex adds an index to this NamedMap over the extracted values.
	AddIndex(ctx context.Context, extractor any, sorted bool, comparator any) error

	// RemoveIndex removes an index from this NamedMap.
	RemoveIndex(ctx context.Context, extractor any) error

	// Size returns the number of mappings contained within this NamedMap.
	Size(ctx context.Context) (int, error)

	// GetSession returns the Session associated with this NamedMap.
	GetSession() *Session

	// ValuesFilter returns a channel of values of the entries satisfying the
	// filter.
	ValuesFilter(ctx context.Context, filter filters.Filter) <-chan *StreamedValue[V]

	// Values returns a channel of all values, paged internally.
	Values(ctx context.Context) <-chan *StreamedValue[V]

	getBaseClient() *baseClient[K, V]
}

// NamedCache is syntactically identical in behaviour to a NamedMap but
// additionally supports per-entry expiry.
// The type parameters are K = type of the key and V = type of the value.
type NamedCache[K comparable, V any] interface {
	NamedMap[K, V]

	// PutWithExpiry associates the specified value with the specified key
	// with the given time to live. If the cache previously contained a value
	// for this key the old value is replaced and returned.
	PutWithExpiry(ctx context.Context, key K, value V, ttl time.Duration) (*V, error)
}

// StreamedKey wraps an error and a key. Err must be checked before accessing
// the Key field.
type StreamedKey[K comparable] struct {
	// Err contains the error (if any) while obtaining the key.
	Err error
	// Key contains the key of the entry.
	Key K
}

// StreamedValue wraps an error and a value. Err must be checked before
// accessing the Value field.
type StreamedValue[V any] struct {
	// Err contains the error (if any) while obtaining the value.
	Err error
	// Value contains the value of the entry.
	Value V
	// IsValueEmpty indicates the operation produced no value.
	IsValueEmpty bool
}

// StreamedEntry wraps an error, a key and a value. Err must be checked
// before accessing the Key or Value fields.
type StreamedEntry[K comparable, V any] struct {
	// Err contains the error (if any) while obtaining the entry.
	Err error
	// Key contains the key of the entry.
	Key K
	// Value contains the value of the entry.
	Value V
}

// Entry represents a returned entry from a paged iterator.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}
