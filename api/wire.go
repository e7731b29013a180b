/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

// Package api defines the wire schema for the gridcache NamedCacheService.
//
// Every operation is a distinct request message carrying the scope, the cache
// name and the client's serialization format. All value-bearing payload fields
// are raw byte blobs; the proxy never deserializes them unless the client
// format differs from the cache format. Messages are exchanged over gRPC using
// the msgpack codec registered by this package.
package api

// Entry is a key and value pair in the client's serialization format.
type Entry struct {
	Key   []byte
	Value []byte
}

// EntryResult is an entry returned from a paged entry query.
type EntryResult struct {
	Key    []byte
	Value  []byte
	Cookie []byte
}

// OptionalValue holds a possibly absent value. Present distinguishes a mapping
// to a serialized nil from the absence of a mapping.
type OptionalValue struct {
	Present bool
	Value   []byte
}

// BytesValue wraps an opaque byte payload.
type BytesValue struct {
	Value []byte
}

// BoolValue wraps a boolean result.
type BoolValue struct {
	Value bool
}

// Int32Value wraps an int32 result.
type Int32Value struct {
	Value int32
}

// Empty is returned by operations with no result payload.
type Empty struct{}

// GetRequest requests the value mapped to a key.
type GetRequest struct {
	Scope  string
	Cache  string
	Format string
	Key    []byte
}

// GetAllRequest requests the values mapped to a list of keys.
type GetAllRequest struct {
	Scope  string
	Cache  string
	Format string
	Keys   [][]byte
}

// PutRequest associates a value with a key, optionally with a time to live
// in milliseconds.
type PutRequest struct {
	Scope  string
	Cache  string
	Format string
	Key    []byte
	Value  []byte
	TTL    int64
}

// PutAllRequest copies all of the given entries into the cache.
type PutAllRequest struct {
	Scope   string
	Cache   string
	Format  string
	Entries []*Entry
	TTL     int64
}

// PutIfAbsentRequest associates a value with a key if no mapping exists.
type PutIfAbsentRequest struct {
	Scope  string
	Cache  string
	Format string
	Key    []byte
	Value  []byte
	TTL    int64
}

// RemoveRequest removes the mapping for a key.
type RemoveRequest struct {
	Scope  string
	Cache  string
	Format string
	Key    []byte
}

// RemoveMappingRequest removes the mapping for a key only if it is currently
// mapped to the given value.
type RemoveMappingRequest struct {
	Scope  string
	Cache  string
	Format string
	Key    []byte
	Value  []byte
}

// ReplaceRequest replaces the mapping for a key only if one exists.
type ReplaceRequest struct {
	Scope  string
	Cache  string
	Format string
	Key    []byte
	Value  []byte
}

// ReplaceMappingRequest replaces the mapping for a key only if it is currently
// mapped to PreviousValue.
type ReplaceMappingRequest struct {
	Scope         string
	Cache         string
	Format        string
	Key           []byte
	PreviousValue []byte
	NewValue      []byte
}

// ContainsKeyRequest tests for the presence of a key.
type ContainsKeyRequest struct {
	Scope  string
	Cache  string
	Format string
	Key    []byte
}

// ContainsValueRequest tests whether any key maps to the given value.
type ContainsValueRequest struct {
	Scope  string
	Cache  string
	Format string
	Value  []byte
}

// ContainsEntryRequest tests for the presence of a specific key and value pair.
type ContainsEntryRequest struct {
	Scope  string
	Cache  string
	Format string
	Key    []byte
	Value  []byte
}

// IsEmptyRequest tests whether the cache has no mappings.
type IsEmptyRequest struct {
	Scope string
	Cache string
}

// IsReadyRequest tests whether the cache is ready to accept requests.
type IsReadyRequest struct {
	Scope string
	Cache string
}

// SizeRequest requests the number of mappings.
type SizeRequest struct {
	Scope string
	Cache string
}

// ClearRequest removes all mappings.
type ClearRequest struct {
	Scope string
	Cache string
}

// TruncateRequest removes all mappings without raising entry events.
type TruncateRequest struct {
	Scope string
	Cache string
}

// DestroyRequest destroys the cache process wide.
type DestroyRequest struct {
	Scope string
	Cache string
}

// AddIndexRequest adds an index over the values extracted by Extractor.
// The extractor and optional comparator are serialized in the client's format.
type AddIndexRequest struct {
	Scope      string
	Cache      string
	Format     string
	Extractor  []byte
	Sorted     bool
	Comparator []byte
}

// RemoveIndexRequest removes an index previously added by AddIndexRequest.
type RemoveIndexRequest struct {
	Scope     string
	Cache     string
	Format    string
	Extractor []byte
}

// AggregateRequest aggregates over the entries identified by Keys, or by
// Filter when Keys is empty. Empty filter bytes mean match all.
type AggregateRequest struct {
	Scope      string
	Cache      string
	Format     string
	Aggregator []byte
	Keys       [][]byte
	Filter     []byte
}

// InvokeRequest invokes an entry processor against a single key.
type InvokeRequest struct {
	Scope     string
	Cache     string
	Format    string
	Key       []byte
	Processor []byte
}

// InvokeAllRequest invokes an entry processor against the entries identified
// by Keys, or by Filter when Keys is empty.
type InvokeAllRequest struct {
	Scope     string
	Cache     string
	Format    string
	Processor []byte
	Keys      [][]byte
	Filter    []byte
}

// KeySetRequest streams the keys of entries matching Filter. Empty filter
// bytes mean match all.
type KeySetRequest struct {
	Scope  string
	Cache  string
	Format string
	Filter []byte
}

// EntrySetRequest streams the entries matching Filter, optionally ordered by
// Comparator. Empty comparator bytes mean natural order as produced.
type EntrySetRequest struct {
	Scope      string
	Cache      string
	Format     string
	Filter     []byte
	Comparator []byte
}

// ValuesRequest streams the values of entries matching Filter, optionally
// ordered by Comparator.
type ValuesRequest struct {
	Scope      string
	Cache      string
	Format     string
	Filter     []byte
	Comparator []byte
}

// PageRequest requests the next page of a byte-budgeted cursor iteration.
// An empty cookie starts a new iteration; the first frame of every page
// response is the cookie to present with the next request, or nil when the
// iteration is exhausted.
type PageRequest struct {
	Scope  string
	Cache  string
	Format string
	Cookie []byte
}

// ListenerRequestType identifies the kind of a MapListenerRequest.
type ListenerRequestType int32

const (
	// ListenerInit establishes the stream; it must be the first message sent
	// and carries the scope and format used by all registrations that follow.
	ListenerInit ListenerRequestType = iota
	// ListenerSubscribe registers a filter listener, or a key listener when
	// Key is set.
	ListenerSubscribe
	// ListenerUnsubscribe cancels a previous registration. Unsubscribing an
	// unknown registration is a no-op.
	ListenerUnsubscribe
)

// MapListenerRequest is a client message on the events channel.
type MapListenerRequest struct {
	Type     ListenerRequestType
	Scope    string
	Cache    string
	Format   string
	UID      string
	FilterID int64
	// Filter holds serialized filter bytes; when empty and Key is empty the
	// registration matches all entries.
	Filter []byte
	// Key holds a serialized key for a key registration.
	Key     []byte
	Lite    bool
	Priming bool
}

// ListenerResponseType identifies the kind of a MapListenerResponse.
type ListenerResponseType int32

const (
	// ListenerSubscribed acknowledges a subscription.
	ListenerSubscribed ListenerResponseType = iota
	// ListenerUnsubscribed acknowledges cancellation of a subscription.
	ListenerUnsubscribed
	// ListenerEvent carries a map event.
	ListenerEvent
	// ListenerError reports a registration failure.
	ListenerError
	// ListenerDestroyed reports that the cache has been destroyed; it is the
	// final message on the stream, which the server then closes.
	ListenerDestroyed
	// ListenerTruncated reports that the cache has been truncated.
	ListenerTruncated
)

// MapEventID identifies the kind of mutation an event describes.
type MapEventID int32

const (
	// EntryInserted indicates a new mapping.
	EntryInserted MapEventID = 1
	// EntryUpdated indicates a changed mapping.
	EntryUpdated MapEventID = 2
	// EntryDeleted indicates a removed mapping.
	EntryDeleted MapEventID = 3
)

// MapEventResponse carries one map event in the client's format. Lite events
// omit the old and new values.
type MapEventResponse struct {
	ID        MapEventID
	Key       []byte
	OldValue  []byte
	NewValue  []byte
	Synthetic bool
	Priming   bool
	FilterIDs []int64
}

// MapListenerResponse is a server message on the events channel.
type MapListenerResponse struct {
	Type     ListenerResponseType
	Cache    string
	UID      string
	FilterID int64
	Key      []byte
	Event    *MapEventResponse
	Error    string
}
