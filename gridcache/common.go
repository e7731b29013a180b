/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package gridcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oracle/gridcache-go/api"
	"github.com/oracle/gridcache-go/gridcache/filters"
	"github.com/oracle/gridcache-go/gridcache/processors"
)

const (
	// int32MaxValue bounds an expiry so it survives the wire as millis.
	int32MaxValue = 2147483647
)

var (
	// ErrDestroyed indicates that the NamedMap or NamedCache has been destroyed
	// and can no longer be used.
	ErrDestroyed = errors.New("the NamedMap or NamedCache has been destroyed and is not usable")

	// ErrReleased indicates that the NamedMap or NamedCache has been released
	// and can no longer be used.
	ErrReleased = errors.New("the NamedMap or NamedCache has been released and is not usable")

	// ErrClosed indicates that the session has been closed.
	ErrClosed = errors.New("the session is closed and is not usable")

	// ErrShutdown indicates the gRPC channel has been shut down.
	ErrShutdown = errors.New("gRPC channel has been shutdown")

	emptyByte = make([]byte, 0)
)

// baseClient is the state shared by NamedMap and NamedCache handles.
type baseClient[K comparable, V any] struct {
	session         *Session
	name            string
	sessionOpts     *SessionOptions
	cacheOpts       *CacheOptions
	client          api.NamedCacheServiceClient
	format          string
	keySerializer   Serializer[K]
	valueSerializer Serializer[V]
	eventManager    *mapEventManager[K, V]
	nearCache       *localCacheImpl[K, V]
	destroyed       bool
	released        bool
	mutex           *sync.RWMutex
}

// CacheOptions holds various cache options.
type CacheOptions struct {
	DefaultExpiry    time.Duration
	NearCacheOptions *NearCacheOptions
}

// WithExpiry returns a function to set the default expiry for a [NamedCache].
// This option is not valid on [NamedMap].
func WithExpiry(ttl time.Duration) func(cacheOptions *CacheOptions) {
	return func(o *CacheOptions) {
		o.DefaultExpiry = ttl
	}
}

// WithNearCache returns a function to set [NearCacheOptions].
func WithNearCache(options *NearCacheOptions) func(cacheOptions *CacheOptions) {
	return func(o *CacheOptions) {
		o.NearCacheOptions = options
	}
}

// ensureClientConnection validates the handle and the session connection.
func (bc *baseClient[K, V]) ensureClientConnection() error {
	bc.mutex.RLock()
	destroyed, released := bc.destroyed, bc.released
	bc.mutex.RUnlock()

	if destroyed {
		return ErrDestroyed
	}
	if bc.session.IsClosed() {
		return ErrClosed
	}
	if released {
		return ErrReleased
	}
	return bc.session.ensureConnection()
}

func (bc *baseClient[K, V]) markReleased() {
	bc.mutex.Lock()
	bc.released = true
	bc.mutex.Unlock()
}

// executeClear executes the clear operation against a baseClient.
func executeClear[K comparable, V any](ctx context.Context, bc *baseClient[K, V]) error {
	if err := bc.ensureClientConnection(); err != nil {
		return err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	_, err := bc.client.Clear(newCtx, &api.ClearRequest{Cache: bc.name, Scope: bc.sessionOpts.Scope})

	if nearCache := bc.nearCache; nearCache != nil {
		nearCache.Clear()
	}
	return err
}

// executeTruncate executes the truncate operation against a baseClient.
func executeTruncate[K comparable, V any](ctx context.Context, bc *baseClient[K, V]) error {
	if err := bc.ensureClientConnection(); err != nil {
		return err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	_, err := bc.client.Truncate(newCtx, &api.TruncateRequest{Cache: bc.name, Scope: bc.sessionOpts.Scope})

	// clear the near cache as the lifecycle listeners are not synchronous
	if nearCache := bc.nearCache; nearCache != nil {
		nearCache.Clear()
	}
	return err
}

// executeDestroy executes the destroy operation against a baseClient.
func executeDestroy[K comparable, V any](ctx context.Context, bc *baseClient[K, V], nm NamedMap[K, V]) error {
	if err := bc.ensureClientConnection(); err != nil {
		return err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	if _, err := bc.client.Destroy(newCtx, &api.DestroyRequest{Cache: bc.name, Scope: bc.sessionOpts.Scope}); err != nil {
		return err
	}

	executeRelease[K, V](bc, nm)
	bc.eventManager.dispatch(Destroyed, func() MapLifecycleEvent[K, V] {
		return newMapLifecycleEvent(nm, Destroyed)
	})
	bc.eventManager.close()

	bc.mutex.Lock()
	bc.destroyed = true
	bc.mutex.Unlock()

	return nil
}

// executeRelease releases a NamedCache or NamedMap.
func executeRelease[K comparable, V any](bc *baseClient[K, V], nm NamedMap[K, V]) {
	bc.eventManager.dispatch(Released, func() MapLifecycleEvent[K, V] {
		return newMapLifecycleEvent(nm, Released)
	})
	bc.markReleased()
}

// executeContainsKey executes the containsKey operation against a baseClient.
func executeContainsKey[K comparable, V any](ctx context.Context, bc *baseClient[K, V], key K) (bool, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return false, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	if nearCache := bc.nearCache; nearCache != nil {
		if ncValue := nearCache.Get(key); ncValue != nil {
			nearCache.registerHit()
			return true, nil
		}
	}

	binKey, err := bc.keySerializer.Serialize(key)
	if err != nil {
		return false, err
	}

	result, err := bc.client.ContainsKey(newCtx, &api.ContainsKeyRequest{
		Cache: bc.name, Key: binKey, Format: bc.format, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return false, err
	}
	return result.Value, nil
}

// executeContainsValue executes the containsValue operation against a baseClient.
func executeContainsValue[K comparable, V any](ctx context.Context, bc *baseClient[K, V], value V) (bool, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return false, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	binValue, err := bc.valueSerializer.Serialize(value)
	if err != nil {
		return false, err
	}

	result, err := bc.client.ContainsValue(newCtx, &api.ContainsValueRequest{
		Cache: bc.name, Value: binValue, Format: bc.format, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return false, err
	}
	return result.Value, nil
}

// executeContainsEntry executes the containsEntry operation against a baseClient.
func executeContainsEntry[K comparable, V any](ctx context.Context, bc *baseClient[K, V], key K, value V) (bool, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return false, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	binKey, err := bc.keySerializer.Serialize(key)
	if err != nil {
		return false, err
	}
	binValue, err := bc.valueSerializer.Serialize(value)
	if err != nil {
		return false, err
	}

	result, err := bc.client.ContainsEntry(newCtx, &api.ContainsEntryRequest{
		Cache: bc.name, Key: binKey, Value: binValue, Format: bc.format, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return false, err
	}
	return result.Value, nil
}

// executeIsEmpty executes the IsEmpty operation against a baseClient.
func executeIsEmpty[K comparable, V any](ctx context.Context, bc *baseClient[K, V]) (bool, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return false, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	result, err := bc.client.IsEmpty(newCtx, &api.IsEmptyRequest{Cache: bc.name, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return false, err
	}
	return result.Value, nil
}

// executeIsReady executes the IsReady operation against a baseClient.
func executeIsReady[K comparable, V any](ctx context.Context, bc *baseClient[K, V]) (bool, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return false, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	result, err := bc.client.IsReady(newCtx, &api.IsReadyRequest{Cache: bc.name, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return false, err
	}
	return result.Value, nil
}

// executeSize executes the size operation against a baseClient.
func executeSize[K comparable, V any](ctx context.Context, bc *baseClient[K, V]) (int, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return 0, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	result, err := bc.client.Size(newCtx, &api.SizeRequest{Cache: bc.name, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return 0, err
	}
	return int(result.Value), nil
}

// executeGet executes the Get operation against a baseClient.
func executeGet[K comparable, V any](ctx context.Context, bc *baseClient[K, V], key K) (*V, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return nil, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	nearCache := bc.nearCache
	if nearCache != nil {
		if ncValue := nearCache.Get(key); ncValue != nil {
			nearCache.registerHit()
			return ncValue, nil
		}
	}

	binKey, err := bc.keySerializer.Serialize(key)
	if err != nil {
		return nil, err
	}

	if nearCache != nil {
		// a miss from here on; record the total time spent fetching from the
		// cluster
		defer func(start time.Time) {
			nearCache.registerMissesNanos(time.Since(start).Nanoseconds())
			nearCache.registerMiss()
		}(time.Now())
	}

	result, err := bc.client.Get(newCtx, &api.GetRequest{
		Key: binKey, Cache: bc.name, Format: bc.format, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return nil, err
	}

	if result.Present {
		v, err1 := bc.valueSerializer.Deserialize(result.Value)
		if err1 != nil {
			return nil, err1
		}
		if nearCache != nil && v != nil {
			nearCache.Put(key, *v)
		}
		return v, nil
	}
	return nil, nil
}

// executeGetOrDefault executes the GetOrDefault operation against a baseClient.
func executeGetOrDefault[K comparable, V any](ctx context.Context, bc *baseClient[K, V], key K, def V) (*V, error) {
	result, err := executeGet(ctx, bc, key)
	if err != nil {
		return result, err
	}
	if result == nil {
		return &def, nil
	}
	return result, nil
}

// executeGetAll executes the GetAll operation against a baseClient.
func executeGetAll[K comparable, V any](ctx context.Context, bc *baseClient[K, V], keys []K) <-chan *StreamedEntry[K, V] {
	var (
		ch               = make(chan *StreamedEntry[K, V])
		nearCache        = bc.nearCache
		nearCacheEntries = make(map[K]*V)
		finalKeys        = keys
	)

	if err := bc.ensureClientConnection(); err != nil {
		go func() {
			ch <- &StreamedEntry[K, V]{Err: err}
			close(ch)
		}()
		return ch
	}

	newCtx, cancel := bc.session.ensureContext(ctx)

	// serve what we can from the near cache and fetch only the rest
	if nearCache != nil && nearCache.Size() > 0 {
		nearCacheEntries = nearCache.GetAll(keys)
		if len(nearCacheEntries) > 0 {
			finalKeys = make([]K, 0, len(keys))
			for _, key := range keys {
				if _, ok := nearCacheEntries[key]; !ok {
					finalKeys = append(finalKeys, key)
					nearCache.registerMiss()
				} else {
					nearCache.registerHit()
				}
			}
		}
	}

	binKeys, err := serializeKeys(bc.keySerializer, finalKeys)
	if err != nil {
		go func() {
			ch <- &StreamedEntry[K, V]{Err: err}
			close(ch)
		}()
		return ch
	}

	go func() {
		if cancel != nil {
			defer cancel()
		}
		defer close(ch)

		for k, v := range nearCacheEntries {
			ch <- &StreamedEntry[K, V]{Key: k, Value: *v}
		}
		if len(finalKeys) == 0 {
			return
		}

		stream, err1 := bc.client.GetAll(newCtx, &api.GetAllRequest{
			Cache: bc.name, Keys: binKeys, Format: bc.format, Scope: bc.sessionOpts.Scope})
		if err1 != nil {
			ch <- &StreamedEntry[K, V]{Err: err1}
			return
		}

		for {
			entry, err1 := stream.Recv()
			if err1 == io.EOF {
				return
			} else if err1 != nil {
				ch <- &StreamedEntry[K, V]{Err: err1}
				return
			}

			key, value, err1 := deserializeEntry(bc, entry)
			if err1 != nil {
				ch <- &StreamedEntry[K, V]{Err: err1}
				return
			}

			if nearCache != nil {
				nearCache.Put(*key, *value)
			}
			ch <- makeStreamedEntry[K, V](key, value, nil)
		}
	}()

	return ch
}

// executePutWithExpiry executes the Put/PutWithExpiry operation against a baseClient.
func executePutWithExpiry[K comparable, V any](ctx context.Context, bc *baseClient[K, V], key K, value V, ttl time.Duration) (*V, error) {
	if ttl.Milliseconds() > int32MaxValue {
		return nil, fmt.Errorf("expiry cannot be greater than %d millis", int32MaxValue)
	}

	if err := bc.ensureClientConnection(); err != nil {
		return nil, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	binKey, err := bc.keySerializer.Serialize(key)
	if err != nil {
		return nil, err
	}
	binValue, err := bc.valueSerializer.Serialize(value)
	if err != nil {
		return nil, err
	}

	result, err := bc.client.Put(newCtx, &api.PutRequest{
		Key: binKey, Value: binValue, Cache: bc.name, Format: bc.format,
		TTL: ttl.Milliseconds(), Scope: bc.sessionOpts.Scope})
	if err != nil {
		return nil, err
	}

	if nearCache := bc.nearCache; nearCache != nil {
		if oldValue := nearCache.Get(key); oldValue != nil {
			nearCache.Put(key, value)
		}
	}

	return bc.valueSerializer.Deserialize(result.Value)
}

// executePutAll executes the PutAll operation against a baseClient.
func executePutAll[K comparable, V any](ctx context.Context, bc *baseClient[K, V], entries map[K]V, ttl time.Duration) error {
	if err := bc.ensureClientConnection(); err != nil {
		return err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	binEntries := make([]*api.Entry, 0, len(entries))
	for k, v := range entries {
		binKey, err := bc.keySerializer.Serialize(k)
		if err != nil {
			return err
		}
		binValue, err := bc.valueSerializer.Serialize(v)
		if err != nil {
			return err
		}
		binEntries = append(binEntries, &api.Entry{Key: binKey, Value: binValue})
	}

	_, err := bc.client.PutAll(newCtx, &api.PutAllRequest{
		Entries: binEntries, Cache: bc.name, Format: bc.format,
		TTL: ttl.Milliseconds(), Scope: bc.sessionOpts.Scope})
	if err != nil {
		return err
	}

	if nearCache := bc.nearCache; nearCache != nil {
		for k, v := range entries {
			if oldValue := nearCache.Get(k); oldValue != nil {
				nearCache.Put(k, v)
			}
		}
	}
	return nil
}

// executePutIfAbsent executes the PutIfAbsent operation against a baseClient.
func executePutIfAbsent[K comparable, V any](ctx context.Context, bc *baseClient[K, V], key K, value V) (*V, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return nil, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	binKey, err := bc.keySerializer.Serialize(key)
	if err != nil {
		return nil, err
	}
	binValue, err := bc.valueSerializer.Serialize(value)
	if err != nil {
		return nil, err
	}

	result, err := bc.client.PutIfAbsent(newCtx, &api.PutIfAbsentRequest{
		Key: binKey, Value: binValue, Cache: bc.name, Format: bc.format, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return nil, err
	}
	return bc.valueSerializer.Deserialize(result.Value)
}

// executeRemove executes the Remove operation against a baseClient.
func executeRemove[K comparable, V any](ctx context.Context, bc *baseClient[K, V], key K) (*V, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return nil, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	binKey, err := bc.keySerializer.Serialize(key)
	if err != nil {
		return nil, err
	}

	oldValue, err := bc.client.Remove(newCtx, &api.RemoveRequest{
		Key: binKey, Cache: bc.name, Format: bc.format, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return nil, err
	}

	if nearCache := bc.nearCache; nearCache != nil {
		nearCache.Remove(key)
	}
	return bc.valueSerializer.Deserialize(oldValue.Value)
}

// executeRemoveMapping executes the RemoveMapping operation against a baseClient.
func executeRemoveMapping[K comparable, V any](ctx context.Context, bc *baseClient[K, V], key K, value V) (bool, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return false, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	binKey, err := bc.keySerializer.Serialize(key)
	if err != nil {
		return false, err
	}
	binValue, err := bc.valueSerializer.Serialize(value)
	if err != nil {
		return false, err
	}

	result, err := bc.client.RemoveMapping(newCtx, &api.RemoveMappingRequest{
		Cache: bc.name, Key: binKey, Value: binValue, Format: bc.format, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return false, err
	}

	if nearCache := bc.nearCache; result.Value && nearCache != nil {
		nearCache.Remove(key)
	}
	return result.Value, nil
}

// executeReplace executes the Replace operation against a baseClient.
func executeReplace[K comparable, V any](ctx context.Context, bc *baseClient[K, V], key K, value V) (*V, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return nil, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	binKey, err := bc.keySerializer.Serialize(key)
	if err != nil {
		return nil, err
	}
	binValue, err := bc.valueSerializer.Serialize(value)
	if err != nil {
		return nil, err
	}

	oldValue, err := bc.client.Replace(newCtx, &api.ReplaceRequest{
		Key: binKey, Value: binValue, Cache: bc.name, Format: bc.format, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return nil, err
	}
	return bc.valueSerializer.Deserialize(oldValue.Value)
}

// executeReplaceMapping executes the ReplaceMapping operation against a baseClient.
func executeReplaceMapping[K comparable, V any](ctx context.Context, bc *baseClient[K, V], key K, prevValue V, newValue V) (bool, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return false, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	binKey, err := bc.keySerializer.Serialize(key)
	if err != nil {
		return false, err
	}
	binPrevValue, err := bc.valueSerializer.Serialize(prevValue)
	if err != nil {
		return false, err
	}
	binNewValue, err := bc.valueSerializer.Serialize(newValue)
	if err != nil {
		return false, err
	}

	result, err := bc.client.ReplaceMapping(newCtx, &api.ReplaceMappingRequest{
		Cache: bc.name, Key: binKey, PreviousValue: binPrevValue, NewValue: binNewValue,
		Format: bc.format, Scope: bc.sessionOpts.Scope})
	if err != nil {
		return false, err
	}

	if nearCache := bc.nearCache; result.Value && nearCache != nil {
		if oldValue := nearCache.Get(key); oldValue != nil {
			nearCache.Put(key, newValue)
		}
	}
	return result.Value, nil
}

// executeAddIndex executes the add index operation against a baseClient.
func executeAddIndex[K comparable, V any](ctx context.Context, bc *baseClient[K, V], extractor any, sorted bool, comparator any) error {
	if err := bc.ensureClientConnection(); err != nil {
		return err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	extractorSerializer := NewSerializer[any](bc.format)
	binExtractor, err := extractorSerializer.Serialize(extractor)
	if err != nil {
		return err
	}

	binComparator := emptyByte
	if comparator != nil {
		if binComparator, err = extractorSerializer.Serialize(comparator); err != nil {
			return err
		}
	}

	_, err = bc.client.AddIndex(newCtx, &api.AddIndexRequest{
		Cache: bc.name, Scope: bc.sessionOpts.Scope, Format: bc.format,
		Extractor: binExtractor, Sorted: sorted, Comparator: binComparator})
	return err
}

// executeRemoveIndex executes the remove index operation against a baseClient.
func executeRemoveIndex[K comparable, V any](ctx context.Context, bc *baseClient[K, V], extractor any) error {
	if err := bc.ensureClientConnection(); err != nil {
		return err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	binExtractor, err := NewSerializer[any](bc.format).Serialize(extractor)
	if err != nil {
		return err
	}

	_, err = bc.client.RemoveIndex(newCtx, &api.RemoveIndexRequest{
		Cache: bc.name, Scope: bc.sessionOpts.Scope, Format: bc.format, Extractor: binExtractor})
	return err
}

// executeAggregate executes the Aggregate operation against a baseClient.
func executeAggregate[K comparable, V any](ctx context.Context, bc *baseClient[K, V], keys []K, fltr filters.Filter, aggr any) ([]byte, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return nil, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	anySerializer := NewSerializer[any](bc.format)
	binAggregator, err := anySerializer.Serialize(aggr)
	if err != nil {
		return nil, err
	}

	var (
		binKeys   = make([][]byte, 0)
		binFilter = emptyByte
	)
	if len(keys) > 0 {
		if binKeys, err = serializeKeys(bc.keySerializer, keys); err != nil {
			return nil, err
		}
	} else if fltr != nil {
		if binFilter, err = anySerializer.Serialize(fltr); err != nil {
			return nil, err
		}
	}

	result, err := bc.client.Aggregate(newCtx, &api.AggregateRequest{
		Cache: bc.name, Format: bc.format, Scope: bc.sessionOpts.Scope,
		Aggregator: binAggregator, Keys: binKeys, Filter: binFilter})
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// executeInvoke executes the Invoke operation against a baseClient.
func executeInvoke[K comparable, V any](ctx context.Context, bc *baseClient[K, V], key K, proc processors.Processor) ([]byte, error) {
	if err := bc.ensureClientConnection(); err != nil {
		return nil, err
	}

	newCtx, cancel := bc.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	binKey, err := bc.keySerializer.Serialize(key)
	if err != nil {
		return nil, err
	}
	binProcessor, err := NewSerializer[any](bc.format).Serialize(proc)
	if err != nil {
		return nil, err
	}

	result, err := bc.client.Invoke(newCtx, &api.InvokeRequest{
		Key: binKey, Cache: bc.name, Format: bc.format,
		Scope: bc.sessionOpts.Scope, Processor: binProcessor})
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// executeInvokeAllFilterOrKeys executes the InvokeAll operation with filter
// or keys against a baseClient.
func executeInvokeAllFilterOrKeys[K comparable, V any](ctx context.Context, bc *baseClient[K, V], fltr filters.Filter, keys []K, proc processors.Processor) <-chan *StreamedEntry[K, V] {
	ch := make(chan *StreamedEntry[K, V])

	if err := bc.ensureClientConnection(); err != nil {
		go func() {
			ch <- &StreamedEntry[K, V]{Err: err}
			close(ch)
		}()
		return ch
	}

	newCtx, cancel := bc.session.ensureContext(ctx)

	var (
		anySerializer = NewSerializer[any](bc.format)
		binFilter     = emptyByte
		binKeys       = make([][]byte, 0)
	)

	binProcessor, err := anySerializer.Serialize(proc)
	if err == nil && fltr != nil {
		binFilter, err = anySerializer.Serialize(fltr)
	}
	if err == nil && len(keys) > 0 {
		binKeys, err = serializeKeys(bc.keySerializer, keys)
	}
	if err != nil {
		go func() {
			ch <- &StreamedEntry[K, V]{Err: err}
			close(ch)
		}()
		return ch
	}

	go func() {
		if cancel != nil {
			defer cancel()
		}
		defer close(ch)

		stream, err1 := bc.client.InvokeAll(newCtx, &api.InvokeAllRequest{
			Cache: bc.name, Filter: binFilter, Keys: binKeys,
			Processor: binProcessor, Format: bc.format, Scope: bc.sessionOpts.Scope})
		if err1 != nil {
			ch <- &StreamedEntry[K, V]{Err: err1}
			return
		}

		for {
			entry, err1 := stream.Recv()
			if err1 == io.EOF {
				return
			} else if err1 != nil {
				ch <- &StreamedEntry[K, V]{Err: err1}
				return
			}

			key, value, err1 := deserializeEntry(bc, entry)
			if err1 != nil {
				ch <- &StreamedEntry[K, V]{Err: err1}
				return
			}
			ch <- makeStreamedEntry[K, V](key, value, nil)
		}
	}()

	return ch
}

// executeKeySetFilter executes the KeySet operation with a filter against a
// baseClient.
func executeKeySetFilter[K comparable, V any](ctx context.Context, bc *baseClient[K, V], fltr filters.Filter) <-chan *StreamedKey[K] {
	ch := make(chan *StreamedKey[K])

	if err := bc.ensureClientConnection(); err != nil {
		go func() {
			ch <- &StreamedKey[K]{Err: err}
			close(ch)
		}()
		return ch
	}

	newCtx, cancel := bc.session.ensureContext(ctx)

	if fltr == nil {
		fltr = filters.Always()
	}
	binFilter, err := NewSerializer[any](bc.format).Serialize(fltr)
	if err != nil {
		go func() {
			ch <- &StreamedKey[K]{Err: err}
			close(ch)
		}()
		return ch
	}

	go func() {
		if cancel != nil {
			defer cancel()
		}
		defer close(ch)

		stream, err1 := bc.client.KeySet(newCtx, &api.KeySetRequest{
			Cache: bc.name, Filter: binFilter, Format: bc.format, Scope: bc.sessionOpts.Scope})
		if err1 != nil {
			ch <- &StreamedKey[K]{Err: err1}
			return
		}

		for {
			m, err1 := stream.Recv()
			if err1 == io.EOF {
				return
			} else if err1 != nil {
				ch <- &StreamedKey[K]{Err: err1}
				return
			}

			key, err1 := bc.keySerializer.Deserialize(m.Value)
			if err1 != nil {
				ch <- &StreamedKey[K]{Err: err1}
				return
			}
			ch <- &StreamedKey[K]{Key: *key}
		}
	}()

	return ch
}

// executeEntrySetFilter executes the EntrySet operation with a filter against
// a baseClient.
func executeEntrySetFilter[K comparable, V any](ctx context.Context, bc *baseClient[K, V], fltr filters.Filter, comparator any) <-chan *StreamedEntry[K, V] {
	ch := make(chan *StreamedEntry[K, V])

	if err := bc.ensureClientConnection(); err != nil {
		go func() {
			ch <- &StreamedEntry[K, V]{Err: err}
			close(ch)
		}()
		return ch
	}

	newCtx, cancel := bc.session.ensureContext(ctx)

	if fltr == nil {
		fltr = filters.Always()
	}

	var (
		anySerializer = NewSerializer[any](bc.format)
		binComparator = emptyByte
	)
	binFilter, err := anySerializer.Serialize(fltr)
	if err == nil && comparator != nil {
		binComparator, err = anySerializer.Serialize(comparator)
	}
	if err != nil {
		go func() {
			ch <- &StreamedEntry[K, V]{Err: err}
			close(ch)
		}()
		return ch
	}

	go func() {
		if cancel != nil {
			defer cancel()
		}
		defer close(ch)

		stream, err1 := bc.client.EntrySet(newCtx, &api.EntrySetRequest{
			Cache: bc.name, Filter: binFilter, Comparator: binComparator,
			Format: bc.format, Scope: bc.sessionOpts.Scope})
		if err1 != nil {
			ch <- &StreamedEntry[K, V]{Err: err1}
			return
		}

		for {
			entry, err1 := stream.Recv()
			if err1 == io.EOF {
				return
			} else if err1 != nil {
				ch <- &StreamedEntry[K, V]{Err: err1}
				return
			}

			key, value, err1 := deserializeEntry(bc, entry)
			if err1 != nil {
				ch <- &StreamedEntry[K, V]{Err: err1}
				return
			}
			ch <- makeStreamedEntry[K, V](key, value, nil)
		}
	}()

	return ch
}

// executeValuesFilter executes the Values operation with a filter against a
// baseClient.
func executeValuesFilter[K comparable, V any](ctx context.Context, bc *baseClient[K, V], fltr filters.Filter, comparator any) <-chan *StreamedValue[V] {
	ch := make(chan *StreamedValue[V])

	if err := bc.ensureClientConnection(); err != nil {
		go func() {
			ch <- &StreamedValue[V]{Err: err}
			close(ch)
		}()
		return ch
	}

	newCtx, cancel := bc.session.ensureContext(ctx)

	if fltr == nil {
		fltr = filters.Always()
	}

	var (
		anySerializer = NewSerializer[any](bc.format)
		binComparator = emptyByte
	)
	binFilter, err := anySerializer.Serialize(fltr)
	if err == nil && comparator != nil {
		binComparator, err = anySerializer.Serialize(comparator)
	}
	if err != nil {
		go func() {
			ch <- &StreamedValue[V]{Err: err}
			close(ch)
		}()
		return ch
	}

	go func() {
		if cancel != nil {
			defer cancel()
		}
		defer close(ch)

		stream, err1 := bc.client.Values(newCtx, &api.ValuesRequest{
			Cache: bc.name, Filter: binFilter, Comparator: binComparator,
			Format: bc.format, Scope: bc.sessionOpts.Scope})
		if err1 != nil {
			ch <- &StreamedValue[V]{Err: err1}
			return
		}

		for {
			m, err1 := stream.Recv()
			if err1 == io.EOF {
				return
			} else if err1 != nil {
				ch <- &StreamedValue[V]{Err: err1}
				return
			}

			value, err1 := bc.valueSerializer.Deserialize(m.Value)
			if err1 != nil {
				ch <- &StreamedValue[V]{Err: err1}
				return
			}
			if value == nil {
				ch <- &StreamedValue[V]{IsValueEmpty: true}
			} else {
				ch <- &StreamedValue[V]{Value: *value}
			}
		}
	}()

	return ch
}

// executeKeySet executes the KeySet operation against a baseClient using a
// paged cursor.
func executeKeySet[K comparable, V any](ctx context.Context, bc *baseClient[K, V]) <-chan *StreamedKey[K] {
	var (
		ch   = make(chan *StreamedKey[K])
		iter = newKeyPageIterator(ctx, bc)
	)

	go func() {
		defer close(ch)
		for {
			result, err := iter.Next()
			if err == ErrDone {
				return
			} else if err != nil {
				ch <- &StreamedKey[K]{Err: err}
				return
			}
			ch <- &StreamedKey[K]{Key: *result}
		}
	}()

	return ch
}

// executeEntrySet executes the EntrySet operation against a baseClient using
// a paged cursor.
func executeEntrySet[K comparable, V any](ctx context.Context, bc *baseClient[K, V]) <-chan *StreamedEntry[K, V] {
	var (
		ch   = make(chan *StreamedEntry[K, V])
		iter = newEntryPageIterator(ctx, bc)
	)

	go func() {
		defer close(ch)
		for {
			result, err := iter.Next()
			if err == ErrDone {
				return
			} else if err != nil {
				ch <- &StreamedEntry[K, V]{Err: err}
				return
			}
			ch <- &StreamedEntry[K, V]{Key: result.Key, Value: result.Value}
		}
	}()

	return ch
}

// executeValues executes the Values operation against a baseClient using a
// paged cursor.
func executeValues[K comparable, V any](ctx context.Context, bc *baseClient[K, V]) <-chan *StreamedValue[V] {
	var (
		ch   = make(chan *StreamedValue[V])
		iter = newValuePageIterator(ctx, bc)
	)

	go func() {
		defer close(ch)
		for {
			result, err := iter.Next()
			if err == ErrDone {
				return
			} else if err != nil {
				ch <- &StreamedValue[V]{Err: err}
				return
			}
			ch <- &StreamedValue[V]{Value: *result}
		}
	}()

	return ch
}

func deserializeEntry[K comparable, V any](bc *baseClient[K, V], entry *api.Entry) (*K, *V, error) {
	key, err := bc.keySerializer.Deserialize(entry.Key)
	if err != nil {
		return nil, nil, err
	}
	value, err := bc.valueSerializer.Deserialize(entry.Value)
	if err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

func makeStreamedEntry[K comparable, V any](key *K, value *V, err error) *StreamedEntry[K, V] {
	streamedEntry := StreamedEntry[K, V]{Err: err}
	if key != nil {
		streamedEntry.Key = *key
	}
	if value != nil {
		streamedEntry.Value = *value
	}
	return &streamedEntry
}
