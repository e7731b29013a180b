/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package gridcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oracle/gridcache-go/gridcache/filters"
	"github.com/oracle/gridcache-go/gridcache/processors"
)

// Interface implementation checks.
var (
	_ NamedCache[string, string] = &NamedCacheClient[string, string]{}
	_ NamedMap[string, string]   = &NamedCacheClient[string, string]{}
)

// NamedCacheClient is the implementation of [NamedCache] and [NamedMap]
// obtained from a Session. One instance exists per (name, type parameters)
// pair and is shared by all callers until released or destroyed.
type NamedCacheClient[K comparable, V any] struct {
	baseClient[K, V]
}

func (nc *NamedCacheClient[K, V]) getBaseClient() *baseClient[K, V] {
	return &nc.baseClient
}

// Name returns the name of the NamedCache.
func (nc *NamedCacheClient[K, V]) Name() string {
	return nc.name
}

// AddLifecycleListener adds a MapLifecycleListener that will receive events
// (truncated, destroyed, released) that occur against the NamedCache.
func (nc *NamedCacheClient[K, V]) AddLifecycleListener(listener MapLifecycleListener[K, V]) {
	nc.mutex.Lock()
	defer nc.mutex.Unlock()
	nc.eventManager.addLifecycleListener(listener)
}

// RemoveLifecycleListener removes a previously added lifecycle listener.
func (nc *NamedCacheClient[K, V]) RemoveLifecycleListener(listener MapLifecycleListener[K, V]) {
	nc.mutex.Lock()
	defer nc.mutex.Unlock()
	nc.eventManager.removeLifecycleListener(listener)
}

// AddFilterListener adds a MapListener for entries satisfying the filter with
// values included.
func (nc *NamedCacheClient[K, V]) AddFilterListener(ctx context.Context, listener MapListener[K, V], fltr filters.Filter) error {
	return nc.eventManager.addFilterListener(ctx, listener, fltr, false)
}

// AddFilterListenerLite adds a MapListener for entries satisfying the filter
// with only the key included.
func (nc *NamedCacheClient[K, V]) AddFilterListenerLite(ctx context.Context, listener MapListener[K, V], fltr filters.Filter) error {
	return nc.eventManager.addFilterListener(ctx, listener, fltr, true)
}

// AddListener adds a MapListener receiving all events.
func (nc *NamedCacheClient[K, V]) AddListener(ctx context.Context, listener MapListener[K, V]) error {
	return nc.eventManager.addFilterListener(ctx, listener, filters.Always(), false)
}

// AddListenerLite adds a MapListener receiving all events with only the key
// included.
func (nc *NamedCacheClient[K, V]) AddListenerLite(ctx context.Context, listener MapListener[K, V]) error {
	return nc.eventManager.addFilterListener(ctx, listener, filters.Always(), true)
}

// AddKeyListener adds a MapListener for events against the specified key.
func (nc *NamedCacheClient[K, V]) AddKeyListener(ctx context.Context, listener MapListener[K, V], key K) error {
	return nc.eventManager.addKeyListener(ctx, listener, key, false)
}

// AddKeyListenerLite adds a MapListener for events against the specified key
// with only the key included.
func (nc *NamedCacheClient[K, V]) AddKeyListenerLite(ctx context.Context, listener MapListener[K, V], key K) error {
	return nc.eventManager.addKeyListener(ctx, listener, key, true)
}

// RemoveFilterListener removes a previously registered filter listener.
func (nc *NamedCacheClient[K, V]) RemoveFilterListener(ctx context.Context, listener MapListener[K, V], fltr filters.Filter) error {
	return nc.eventManager.removeFilterListener(ctx, listener, fltr)
}

// RemoveKeyListener removes a previously registered key listener.
func (nc *NamedCacheClient[K, V]) RemoveKeyListener(ctx context.Context, listener MapListener[K, V], key K) error {
	return nc.eventManager.removeKeyListener(ctx, listener, key)
}

// RemoveListener removes a previously registered listener.
func (nc *NamedCacheClient[K, V]) RemoveListener(ctx context.Context, listener MapListener[K, V]) error {
	return nc.eventManager.removeFilterListener(ctx, listener, filters.Always())
}

// Clear removes all mappings.
func (nc *NamedCacheClient[K, V]) Clear(ctx context.Context) error {
	return executeClear(ctx, &nc.baseClient)
}

// Truncate removes all mappings; the removal is not observable.
func (nc *NamedCacheClient[K, V]) Truncate(ctx context.Context) error {
	return executeTruncate(ctx, &nc.baseClient)
}

// Destroy destroys the cache across the cluster and invalidates this handle.
func (nc *NamedCacheClient[K, V]) Destroy(ctx context.Context) error {
	nc.session.removeHandle(nc.name)
	return executeDestroy(ctx, &nc.baseClient, nc)
}

// Release releases the local resources associated with this handle. The
// cache contents are unaffected.
func (nc *NamedCacheClient[K, V]) Release() {
	nc.session.removeHandle(nc.name)
	executeRelease(&nc.baseClient, nc)
	nc.eventManager.close()
}

// releaseInternal transitions the handle to released on session close.
func (nc *NamedCacheClient[K, V]) releaseInternal() {
	executeRelease(&nc.baseClient, nc)
	nc.eventManager.close()
}

// ContainsKey returns true if this cache contains a mapping for key.
func (nc *NamedCacheClient[K, V]) ContainsKey(ctx context.Context, key K) (bool, error) {
	return executeContainsKey(ctx, &nc.baseClient, key)
}

// ContainsValue returns true if this cache maps one or more keys to value.
func (nc *NamedCacheClient[K, V]) ContainsValue(ctx context.Context, value V) (bool, error) {
	return executeContainsValue(ctx, &nc.baseClient, value)
}

// ContainsEntry returns true if this cache contains the key and value pair.
func (nc *NamedCacheClient[K, V]) ContainsEntry(ctx context.Context, key K, value V) (bool, error) {
	return executeContainsEntry(ctx, &nc.baseClient, key, value)
}

// IsEmpty returns true if this cache has no mappings.
func (nc *NamedCacheClient[K, V]) IsEmpty(ctx context.Context) (bool, error) {
	return executeIsEmpty(ctx, &nc.baseClient)
}

// IsReady returns true when this cache is ready to accept requests.
func (nc *NamedCacheClient[K, V]) IsReady(ctx context.Context) (bool, error) {
	return executeIsReady(ctx, &nc.baseClient)
}

// Size returns the number of mappings.
func (nc *NamedCacheClient[K, V]) Size(ctx context.Context) (int, error) {
	return executeSize(ctx, &nc.baseClient)
}

// Get returns the value mapped to key, or nil when there is no mapping.
func (nc *NamedCacheClient[K, V]) Get(ctx context.Context, key K) (*V, error) {
	return executeGet(ctx, &nc.baseClient, key)
}

// GetOrDefault returns the value mapped to key, or def when there is none.
func (nc *NamedCacheClient[K, V]) GetOrDefault(ctx context.Context, key K, def V) (*V, error) {
	return executeGetOrDefault(ctx, &nc.baseClient, key, def)
}

// GetAll returns a channel of entries for the requested keys.
func (nc *NamedCacheClient[K, V]) GetAll(ctx context.Context, keys []K) <-chan *StreamedEntry[K, V] {
	return executeGetAll(ctx, &nc.baseClient, keys)
}

// Aggregate executes an aggregator against the selected entries and returns
// the serialized result.
func (nc *NamedCacheClient[K, V]) Aggregate(ctx context.Context, keys []K, fltr filters.Filter, aggregator any) ([]byte, error) {
	return executeAggregate(ctx, &nc.baseClient, keys, fltr, aggregator)
}

// Invoke invokes the processor against the entry for key and returns the
// serialized result.
func (nc *NamedCacheClient[K, V]) Invoke(ctx context.Context, key K, proc processors.Processor) ([]byte, error) {
	return executeInvoke(ctx, &nc.baseClient, key, proc)
}

// InvokeAll invokes the processor against the entries matching the keys or
// the filter.
func (nc *NamedCacheClient[K, V]) InvokeAll(ctx context.Context, keys []K, fltr filters.Filter, proc processors.Processor) <-chan *StreamedEntry[K, V] {
	return executeInvokeAllFilterOrKeys(ctx, &nc.baseClient, fltr, keys, proc)
}

// KeySet returns a channel of all keys, paged internally.
func (nc *NamedCacheClient[K, V]) KeySet(ctx context.Context) <-chan *StreamedKey[K] {
	return executeKeySet(ctx, &nc.baseClient)
}

// KeySetFilter returns a channel of keys of entries satisfying the filter.
func (nc *NamedCacheClient[K, V]) KeySetFilter(ctx context.Context, fltr filters.Filter) <-chan *StreamedKey[K] {
	return executeKeySetFilter(ctx, &nc.baseClient, fltr)
}

// EntrySet returns a channel of all entries, paged internally.
func (nc *NamedCacheClient[K, V]) EntrySet(ctx context.Context) <-chan *StreamedEntry[K, V] {
	return executeEntrySet(ctx, &nc.baseClient)
}

// EntrySetFilter returns a channel of entries satisfying the filter.
func (nc *NamedCacheClient[K, V]) EntrySetFilter(ctx context.Context, fltr filters.Filter) <-chan *StreamedEntry[K, V] {
	return executeEntrySetFilter(ctx, &nc.baseClient, fltr, nil)
}

// Values returns a channel of all values, paged internally.
func (nc *NamedCacheClient[K, V]) Values(ctx context.Context) <-chan *StreamedValue[V] {
	return executeValues(ctx, &nc.baseClient)
}

// ValuesFilter returns a channel of values of entries satisfying the filter.
func (nc *NamedCacheClient[K, V]) ValuesFilter(ctx context.Context, fltr filters.Filter) <-chan *StreamedValue[V] {
	return executeValuesFilter(ctx, &nc.baseClient, fltr, nil)
}

// Put associates value with key, returning the previously mapped value.
func (nc *NamedCacheClient[K, V]) Put(ctx context.Context, key K, value V) (*V, error) {
	return executePutWithExpiry(ctx, &nc.baseClient, key, value, nc.cacheOpts.DefaultExpiry)
}

// PutWithExpiry associates value with key with the given time to live.
func (nc *NamedCacheClient[K, V]) PutWithExpiry(ctx context.Context, key K, value V, ttl time.Duration) (*V, error) {
	return executePutWithExpiry(ctx, &nc.baseClient, key, value, ttl)
}

// PutAll copies all of the mappings from entries to this cache.
func (nc *NamedCacheClient[K, V]) PutAll(ctx context.Context, entries map[K]V) error {
	return executePutAll(ctx, &nc.baseClient, entries, nc.cacheOpts.DefaultExpiry)
}

// PutIfAbsent adds the mapping when no mapping for key exists.
func (nc *NamedCacheClient[K, V]) PutIfAbsent(ctx context.Context, key K, value V) (*V, error) {
	return executePutIfAbsent(ctx, &nc.baseClient, key, value)
}

// Remove removes the mapping for key, returning the previously mapped value.
func (nc *NamedCacheClient[K, V]) Remove(ctx context.Context, key K) (*V, error) {
	return executeRemove(ctx, &nc.baseClient, key)
}

// RemoveMapping removes the entry for key only when currently mapped to value.
func (nc *NamedCacheClient[K, V]) RemoveMapping(ctx context.Context, key K, value V) (bool, error) {
	return executeRemoveMapping(ctx, &nc.baseClient, key, value)
}

// Replace replaces the entry for key only if it is currently mapped.
func (nc *NamedCacheClient[K, V]) Replace(ctx context.Context, key K, value V) (*V, error) {
	return executeReplace(ctx, &nc.baseClient, key, value)
}

// ReplaceMapping replaces the entry for key only when currently mapped to
// prevValue.
func (nc *NamedCacheClient[K, V]) ReplaceMapping(ctx context.Context, key K, prevValue V, newValue V) (bool, error) {
	return executeReplaceMapping(ctx, &nc.baseClient, key, prevValue, newValue)
}

// AddIndex adds an index over the extracted values.
func (nc *NamedCacheClient[K, V]) AddIndex(ctx context.Context, extractor any, sorted bool, comparator any) error {
	return executeAddIndex(ctx, &nc.baseClient, extractor, sorted, comparator)
}

// RemoveIndex removes a previously added index.
func (nc *NamedCacheClient[K, V]) RemoveIndex(ctx context.Context, extractor any) error {
	return executeRemoveIndex(ctx, &nc.baseClient, extractor)
}

// GetSession returns the Session associated with this cache.
func (nc *NamedCacheClient[K, V]) GetSession() *Session {
	return nc.session
}

// GetNearCacheStats returns the [CacheStats] for the configured near cache,
// or nil when no near cache is configured.
func (nc *NamedCacheClient[K, V]) GetNearCacheStats() CacheStats {
	if nc.nearCache == nil {
		return nil
	}
	return nc.nearCache
}

// String returns a string representation of a NamedCacheClient.
func (nc *NamedCacheClient[K, V]) String() string {
	return fmt.Sprintf("NamedCache{name=%s, format=%s, options=%v}", nc.name, nc.format, nc.cacheOpts)
}

// removeHandle drops the session's reference to a cache or map handle.
func (s *Session) removeHandle(name string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.caches, name)
	delete(s.maps, name)
}

func newNamedCache[K comparable, V any](session *Session, name string, sOpts *SessionOptions, options ...func(cache *CacheOptions)) (*NamedCacheClient[K, V], error) {
	existing, err := ensureCacheHandle[K, V](session, name, session.caches, "NamedCache")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if err = session.lockName(name); err != nil {
		return nil, err
	}
	defer session.unlockName(name)

	// re-check under the per-name lock
	session.mutex.Lock()
	if raw, ok := session.caches[name]; ok {
		session.mutex.Unlock()
		typed, ok2 := raw.(*NamedCacheClient[K, V])
		if !ok2 {
			return nil, fmt.Errorf(mapOrCacheExists, "NamedCache", name)
		}
		return typed, nil
	}
	session.mutex.Unlock()

	client, err := buildClient[K, V](session, name, sOpts, options...)
	if err != nil {
		return nil, err
	}

	session.mutex.Lock()
	session.caches[name] = client
	session.mutex.Unlock()

	return client, nil
}

func newNamedMap[K comparable, V any](session *Session, name string, sOpts *SessionOptions, options ...func(cache *CacheOptions)) (*NamedCacheClient[K, V], error) {
	existing, err := ensureCacheHandle[K, V](session, name, session.maps, "NamedMap")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if err = session.lockName(name); err != nil {
		return nil, err
	}
	defer session.unlockName(name)

	session.mutex.Lock()
	if raw, ok := session.maps[name]; ok {
		session.mutex.Unlock()
		typed, ok2 := raw.(*NamedCacheClient[K, V])
		if !ok2 {
			return nil, fmt.Errorf(mapOrCacheExists, "NamedMap", name)
		}
		return typed, nil
	}
	session.mutex.Unlock()

	client, err := buildClient[K, V](session, name, sOpts, options...)
	if err != nil {
		return nil, err
	}
	if client.cacheOpts.DefaultExpiry != 0 {
		return nil, fmt.Errorf("a NamedMap does not support default expiry")
	}

	session.mutex.Lock()
	session.maps[name] = client
	session.mutex.Unlock()

	return client, nil
}

// ensureCacheHandle returns an existing active handle for name, validating
// its type parameters, or nil when a new handle must be constructed.
func ensureCacheHandle[K comparable, V any](session *Session, name string, store map[string]interface{}, kind string) (*NamedCacheClient[K, V], error) {
	if session.IsClosed() {
		return nil, ErrClosed
	}

	session.mutex.RLock()
	raw, ok := store[name]
	session.mutex.RUnlock()

	if !ok {
		return nil, nil
	}
	typed, ok := raw.(*NamedCacheClient[K, V])
	if !ok {
		return nil, fmt.Errorf(mapOrCacheExists, kind, name)
	}
	return typed, nil
}

func buildClient[K comparable, V any](session *Session, name string, sOpts *SessionOptions, options ...func(cache *CacheOptions)) (*NamedCacheClient[K, V], error) {
	cacheOpts := &CacheOptions{}
	for _, f := range options {
		f(cacheOpts)
	}

	if cacheOpts.NearCacheOptions != nil {
		if err := ensureNearCacheOptions(cacheOpts.NearCacheOptions); err != nil {
			return nil, err
		}
	}

	bc := baseClient[K, V]{
		session:         session,
		name:            name,
		sessionOpts:     sOpts,
		cacheOpts:       cacheOpts,
		client:          session.client,
		format:          sOpts.Format,
		keySerializer:   NewSerializer[K](sOpts.Format),
		valueSerializer: NewSerializer[V](sOpts.Format),
		mutex:           &sync.RWMutex{},
	}

	client := &NamedCacheClient[K, V]{baseClient: bc}
	client.eventManager = newMapEventManager[K, V](&client.baseClient, client)

	if cacheOpts.NearCacheOptions != nil {
		client.nearCache = newLocalCache[K, V](name, withLocalCacheExpiry(cacheOpts.NearCacheOptions.TTL),
			withLocalCacheHighUnits(cacheOpts.NearCacheOptions.HighUnits),
			withLocalCacheHighUnitsMemory(cacheOpts.NearCacheOptions.HighUnitsMemory),
			withLocalCachePruneFactor(cacheOpts.NearCacheOptions.PruneFactor))

		// keep the near cache coherent with the cluster
		listener := newNearCacheListener[K, V](client.nearCache)
		if err := client.AddListener(context.Background(), listener.listener); err != nil {
			return nil, err
		}
		lifecycleListener := newNearCacheLifecycleListener[K, V](client.nearCache)
		client.AddLifecycleListener(lifecycleListener.listener)
	}

	return client, nil
}

// nearCacheListener maintains the near cache from observed map events.
type nearCacheListener[K comparable, V any] struct {
	listener MapListener[K, V]
	cache    *localCacheImpl[K, V]
}

func newNearCacheListener[K comparable, V any](cache *localCacheImpl[K, V]) *nearCacheListener[K, V] {
	l := &nearCacheListener[K, V]{listener: NewMapListener[K, V](), cache: cache}

	l.listener.OnAny(func(e MapEvent[K, V]) {
		if err := processNearCacheEvent(l.cache, e); err != nil {
			logEventError("unable to process near cache event", err)
		}
	})
	return l
}

func processNearCacheEvent[K comparable, V any](cache *localCacheImpl[K, V], e MapEvent[K, V]) error {
	key, err := e.Key()
	if err != nil {
		return err
	}

	switch e.Type() {
	case EntryInserted, EntryUpdated:
		// only refresh entries the near cache already holds
		if cache.Get(*key) == nil {
			return nil
		}
		newValue, err1 := e.NewValue()
		if err1 != nil {
			return err1
		}
		if newValue != nil {
			cache.Put(*key, *newValue)
		}
	case EntryDeleted:
		cache.Remove(*key)
	}
	return nil
}

// nearCacheLifecycleListener clears the near cache on truncate and destroy.
type nearCacheLifecycleListener[K comparable, V any] struct {
	listener MapLifecycleListener[K, V]
	cache    *localCacheImpl[K, V]
}

func newNearCacheLifecycleListener[K comparable, V any](cache *localCacheImpl[K, V]) *nearCacheLifecycleListener[K, V] {
	l := &nearCacheLifecycleListener[K, V]{listener: NewMapLifecycleListener[K, V](), cache: cache}

	l.listener.OnTruncated(func(MapLifecycleEvent[K, V]) {
		l.cache.Clear()
	}).OnDestroyed(func(MapLifecycleEvent[K, V]) {
		l.cache.Clear()
	})
	return l
}
