/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"context"
	"sync"
	"time"

	"github.com/oracle/gridcache-go/api"
	"github.com/oracle/gridcache-go/backend"
	"github.com/prometheus/client_golang/prometheus"
)

// NamedCacheService is the gRPC NamedCacheService implementation. One handler
// exists per operation; every handler validates its payload, builds a
// RequestHolder on the executor pool, translates payload bytes through the
// serializer registry, invokes the backend with opaque byte keys and values
// and converts the result back to the client's format.
type NamedCacheService struct {
	cfg      Config
	resolver *Resolver
	registry *Registry
	exec     *Executor
	metrics  *Metrics
}

// NewNamedCacheService creates the service. A nil registerer leaves the
// metrics unregistered.
func NewNamedCacheService(cfg Config, resolver *Resolver, reg prometheus.Registerer) *NamedCacheService {
	return &NamedCacheService{
		cfg:      cfg,
		resolver: resolver,
		registry: NewRegistry(),
		exec:     NewExecutor(cfg.WorkerThreads),
		metrics:  NewMetrics(reg),
	}
}

// Close stops the executor pool.
func (s *NamedCacheService) Close() {
	s.exec.Close()
}

// Registry returns the serializer registry.
func (s *NamedCacheService) Registry() *Registry { return s.registry }

// createHolder resolves the cache handles and codecs for one request. Unary
// and streaming handlers call it on the executor pool; the event stream calls
// it on its receive goroutine.
func (s *NamedCacheService) createHolder(scope, cacheName, format string) (*RequestHolder, error) {
	cache, err := s.resolver.GetCache(scope, cacheName, true)
	if err != nil {
		return nil, err
	}
	regular, err := s.resolver.GetCache(scope, cacheName, false)
	if err != nil {
		return nil, err
	}

	cacheFormat := cache.Service().Format()
	if format == "" {
		format = cacheFormat
	}
	codec, err := s.registry.Resolve(format)
	if err != nil {
		return nil, err
	}
	cacheCodec, err := s.registry.Resolve(cacheFormat)
	if err != nil {
		return nil, err
	}

	return &RequestHolder{
		cache:       cache,
		regular:     regular,
		format:      format,
		cacheFormat: cacheFormat,
		codec:       codec,
		cacheCodec:  cacheCodec,
		passThrough: format == cacheFormat,
	}, nil
}

// unary runs one unary handler body on the executor pool with metrics and
// error adaptation applied.
func unary[T any](ctx context.Context, s *NamedCacheService, operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	value, err := runOn(ctx, s.exec, fn)
	err = ensureStatusError(err)
	s.metrics.observe(operation, time.Since(start).Seconds(), err)
	if err != nil {
		logDebug("operation %s failed: %v", operation, err)
		var zero T
		return zero, err
	}
	return value, nil
}

// streaming runs one streaming handler body on the executor pool; errors are
// reported once through the stream's error return and the stream is closed.
func (s *NamedCacheService) streaming(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()
	err := ensureStatusError(runVoidOn(ctx, s.exec, fn))
	s.metrics.observe(operation, time.Since(start).Seconds(), err)
	if err != nil {
		logDebug("operation %s failed: %v", operation, err)
	}
	return err
}

// ----- point operations -----------------------------------------------------

// Get executes a get-processor invocation rather than a raw read so a
// present-but-nil mapping is distinguishable from an absent key.
func (s *NamedCacheService) Get(ctx context.Context, in *api.GetRequest) (*api.OptionalValue, error) {
	return unary(ctx, s, "get", func() (*api.OptionalValue, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		key, err := h.ConvertKeyDown(in.Key)
		if err != nil {
			return nil, err
		}
		result, err := h.Cache().Invoke(ctx, key, backend.GetProcessor())
		if err != nil {
			return nil, err
		}
		return h.ToOptionalValue(result)
	})
}

// Put stores a value, propagating the TTL, and returns the prior value.
func (s *NamedCacheService) Put(ctx context.Context, in *api.PutRequest) (*api.BytesValue, error) {
	return unary(ctx, s, "put", func() (*api.BytesValue, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		key, value, err := s.convertPair(h, in.Key, in.Value)
		if err != nil {
			return nil, err
		}
		prior, err := h.Cache().Invoke(ctx, key, backend.PutProcessor(value, in.TTL))
		if err != nil {
			return nil, err
		}
		return h.ToBytesValue(prior)
	})
}

// PutIfAbsent stores a value when no mapping exists, propagating the TTL.
func (s *NamedCacheService) PutIfAbsent(ctx context.Context, in *api.PutIfAbsentRequest) (*api.BytesValue, error) {
	return unary(ctx, s, "putIfAbsent", func() (*api.BytesValue, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		key, value, err := s.convertPair(h, in.Key, in.Value)
		if err != nil {
			return nil, err
		}
		prior, err := h.Cache().Invoke(ctx, key, backend.PutIfAbsentProcessor(value, in.TTL))
		if err != nil {
			return nil, err
		}
		return h.ToBytesValue(prior)
	})
}

// PutAll splits the entries by partition owner when the backing service is
// partitioned and executes one bulk write per owning member concurrently;
// sending the whole map to every member would multiply wire bandwidth by the
// member count. Entries whose partition is orphaned form their own shard.
func (s *NamedCacheService) PutAll(ctx context.Context, in *api.PutAllRequest) (*api.Empty, error) {
	return unary(ctx, s, "putAll", func() (*api.Empty, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		if len(in.Entries) == 0 {
			return &api.Empty{}, nil
		}

		entries := make([]backend.Entry, len(in.Entries))
		for i, e := range in.Entries {
			key, value, err1 := s.convertPair(h, e.Key, e.Value)
			if err1 != nil {
				return nil, err1
			}
			entries[i] = backend.Entry{Key: key, Value: value}
		}

		cache := h.Cache()
		if !cache.Service().Partitioned() {
			return &api.Empty{}, cache.PutAll(ctx, entries, in.TTL)
		}
		return &api.Empty{}, s.partitionedPutAll(ctx, cache, entries, in.TTL)
	})
}

// partitionedPutAll builds one shard per owning member, a nil owner keying
// the orphan shard, and completes when every shard completes.
func (s *NamedCacheService) partitionedPutAll(ctx context.Context, cache backend.Cache, entries []backend.Entry, ttl int64) error {
	const orphanShard = int32(-1)

	svc := cache.Service()
	shards := make(map[int32][]backend.Entry)
	for _, entry := range entries {
		owner := orphanShard
		if member := svc.OwnerOf(entry.Key); member != nil {
			owner = member.ID
		}
		shards[owner] = append(shards[owner], entry)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, shard := range shards {
		wg.Add(1)
		go func(shard []backend.Entry) {
			defer wg.Done()
			if err := cache.PutAll(ctx, shard, ttl); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(shard)
	}
	wg.Wait()
	return firstErr
}

// Remove removes a mapping and returns the prior value.
func (s *NamedCacheService) Remove(ctx context.Context, in *api.RemoveRequest) (*api.BytesValue, error) {
	return unary(ctx, s, "remove", func() (*api.BytesValue, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		key, err := h.ConvertKeyDown(in.Key)
		if err != nil {
			return nil, err
		}
		prior, err := h.Cache().Invoke(ctx, key, backend.RemoveProcessor())
		if err != nil {
			return nil, err
		}
		return h.ToBytesValue(prior)
	})
}

// RemoveMapping removes a mapping only when the current value matches.
func (s *NamedCacheService) RemoveMapping(ctx context.Context, in *api.RemoveMappingRequest) (*api.BoolValue, error) {
	return unary(ctx, s, "removeMapping", func() (*api.BoolValue, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		key, value, err := s.convertPair(h, in.Key, in.Value)
		if err != nil {
			return nil, err
		}
		result, err := h.Cache().Invoke(ctx, key, backend.RemoveMappingProcessor(value))
		if err != nil {
			return nil, err
		}
		removed, err := h.DeserializeBool(result)
		if err != nil {
			return nil, err
		}
		return &api.BoolValue{Value: removed}, nil
	})
}

// Replace replaces a mapping only when one exists, returning the prior value.
func (s *NamedCacheService) Replace(ctx context.Context, in *api.ReplaceRequest) (*api.BytesValue, error) {
	return unary(ctx, s, "replace", func() (*api.BytesValue, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		key, value, err := s.convertPair(h, in.Key, in.Value)
		if err != nil {
			return nil, err
		}
		prior, err := h.Cache().Invoke(ctx, key, backend.ReplaceProcessor(value))
		if err != nil {
			return nil, err
		}
		return h.ToBytesValue(prior)
	})
}

// ReplaceMapping replaces a mapping only when the current value matches the
// previous value.
func (s *NamedCacheService) ReplaceMapping(ctx context.Context, in *api.ReplaceMappingRequest) (*api.BoolValue, error) {
	return unary(ctx, s, "replaceMapping", func() (*api.BoolValue, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		key, err := h.ConvertKeyDown(in.Key)
		if err != nil {
			return nil, err
		}
		previous, err := h.ConvertDown(in.PreviousValue)
		if err != nil {
			return nil, err
		}
		value, err := h.ConvertDown(in.NewValue)
		if err != nil {
			return nil, err
		}
		result, err := h.Cache().Invoke(ctx, key, backend.ReplaceMappingProcessor(previous, value))
		if err != nil {
			return nil, err
		}
		replaced, err := h.DeserializeBool(result)
		if err != nil {
			return nil, err
		}
		return &api.BoolValue{Value: replaced}, nil
	})
}

// ----- predicates -----------------------------------------------------------

// ContainsKey tests for the presence of a key.
func (s *NamedCacheService) ContainsKey(ctx context.Context, in *api.ContainsKeyRequest) (*api.BoolValue, error) {
	return unary(ctx, s, "containsKey", func() (*api.BoolValue, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		key, err := h.ConvertKeyDown(in.Key)
		if err != nil {
			return nil, err
		}
		_, present, err := h.Cache().Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return &api.BoolValue{Value: present}, nil
	})
}

// ContainsValue runs a count aggregator over an equality filter on the
// identity of each value; the result is true iff the count is positive.
func (s *NamedCacheService) ContainsValue(ctx context.Context, in *api.ContainsValueRequest) (*api.BoolValue, error) {
	return unary(ctx, s, "containsValue", func() (*api.BoolValue, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		value, err := h.Codec().Decode(in.Value)
		if err != nil {
			return nil, errInvalidArgument(err.Error())
		}

		filter, err := h.CacheCodec().Encode(map[string]any{
			"@class":    "filter.EqualsFilter",
			"extractor": map[string]any{"@class": "extractor.IdentityExtractor"},
			"value":     value,
		})
		if err != nil {
			return nil, err
		}
		aggregator, err := h.CacheCodec().Encode(map[string]any{"@class": "aggregator.CountAggregator"})
		if err != nil {
			return nil, err
		}

		result, err := h.Cache().AggregateFilter(ctx, filter, aggregator)
		if err != nil {
			return nil, err
		}
		count, err := h.CacheCodec().Decode(result)
		if err != nil {
			return nil, err
		}
		n, _ := toNumber(count)
		return &api.BoolValue{Value: n > 0}, nil
	})
}

// ContainsEntry issues a binary contains-value processor on the single key so
// partition locality and visibility with concurrent mutation are preserved.
func (s *NamedCacheService) ContainsEntry(ctx context.Context, in *api.ContainsEntryRequest) (*api.BoolValue, error) {
	return unary(ctx, s, "containsEntry", func() (*api.BoolValue, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		key, value, err := s.convertPair(h, in.Key, in.Value)
		if err != nil {
			return nil, err
		}
		result, err := h.Cache().Invoke(ctx, key, backend.ContainsValueProcessor(value))
		if err != nil {
			return nil, err
		}
		contains, err := h.DeserializeBool(result)
		if err != nil {
			return nil, err
		}
		return &api.BoolValue{Value: contains}, nil
	})
}

// IsEmpty reports whether the cache has no mappings.
func (s *NamedCacheService) IsEmpty(ctx context.Context, in *api.IsEmptyRequest) (*api.BoolValue, error) {
	return unary(ctx, s, "isEmpty", func() (*api.BoolValue, error) {
		cache, err := s.resolver.GetCache(in.Scope, in.Cache, true)
		if err != nil {
			return nil, err
		}
		empty, err := cache.IsEmpty(ctx)
		if err != nil {
			return nil, err
		}
		return &api.BoolValue{Value: empty}, nil
	})
}

// IsReady reports whether the cache is ready to accept requests.
func (s *NamedCacheService) IsReady(ctx context.Context, in *api.IsReadyRequest) (*api.BoolValue, error) {
	return unary(ctx, s, "isReady", func() (*api.BoolValue, error) {
		cache, err := s.resolver.GetCache(in.Scope, in.Cache, true)
		if err != nil {
			return nil, err
		}
		ready, err := cache.IsReady(ctx)
		if err != nil {
			return nil, err
		}
		return &api.BoolValue{Value: ready}, nil
	})
}

// Size returns the number of mappings.
func (s *NamedCacheService) Size(ctx context.Context, in *api.SizeRequest) (*api.Int32Value, error) {
	return unary(ctx, s, "size", func() (*api.Int32Value, error) {
		cache, err := s.resolver.GetCache(in.Scope, in.Cache, true)
		if err != nil {
			return nil, err
		}
		size, err := cache.Size(ctx)
		if err != nil {
			return nil, err
		}
		return &api.Int32Value{Value: int32(size)}, nil
	})
}

// ----- cache-wide operations ------------------------------------------------

// Clear removes all mappings.
func (s *NamedCacheService) Clear(ctx context.Context, in *api.ClearRequest) (*api.Empty, error) {
	return unary(ctx, s, "clear", func() (*api.Empty, error) {
		cache, err := s.resolver.GetCache(in.Scope, in.Cache, true)
		if err != nil {
			return nil, err
		}
		return &api.Empty{}, cache.Clear(ctx)
	})
}

// Truncate removes all mappings without observable entry events.
func (s *NamedCacheService) Truncate(ctx context.Context, in *api.TruncateRequest) (*api.Empty, error) {
	return unary(ctx, s, "truncate", func() (*api.Empty, error) {
		cache, err := s.resolver.GetCache(in.Scope, in.Cache, true)
		if err != nil {
			return nil, err
		}
		return &api.Empty{}, cache.Truncate(ctx)
	})
}

// Destroy invalidates the cache process wide and raises a lifecycle event on
// every registered event stream.
func (s *NamedCacheService) Destroy(ctx context.Context, in *api.DestroyRequest) (*api.Empty, error) {
	return unary(ctx, s, "destroy", func() (*api.Empty, error) {
		cache, err := s.resolver.GetCache(in.Scope, in.Cache, true)
		if err != nil {
			return nil, err
		}
		return &api.Empty{}, cache.Destroy(ctx)
	})
}

// ----- indexes --------------------------------------------------------------

// AddIndex adds an index. The regular cache view is used and the extractor is
// deserialized with the client's serializer; extractors are logical, not
// binary payloads.
func (s *NamedCacheService) AddIndex(ctx context.Context, in *api.AddIndexRequest) (*api.Empty, error) {
	return unary(ctx, s, "addIndex", func() (*api.Empty, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		if len(in.Extractor) == 0 {
			return nil, errMissingExtractor()
		}
		extractor, err := h.ConvertDown(in.Extractor)
		if err != nil {
			return nil, err
		}
		comparator, err := h.ConvertDown(in.Comparator)
		if err != nil {
			return nil, err
		}
		return &api.Empty{}, h.Regular().AddIndex(ctx, extractor, in.Sorted, comparator)
	})
}

// RemoveIndex removes an index previously added with AddIndex.
func (s *NamedCacheService) RemoveIndex(ctx context.Context, in *api.RemoveIndexRequest) (*api.Empty, error) {
	return unary(ctx, s, "removeIndex", func() (*api.Empty, error) {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		if len(in.Extractor) == 0 {
			return nil, errMissingExtractor()
		}
		extractor, err := h.ConvertDown(in.Extractor)
		if err != nil {
			return nil, err
		}
		return &api.Empty{}, h.Regular().RemoveIndex(ctx, extractor)
	})
}

// ----- aggregation and invocation -------------------------------------------

// Aggregate executes an aggregator over keys or a filter; the two are
// distinct code paths and empty aggregator bytes are rejected up front.
func (s *NamedCacheService) Aggregate(ctx context.Context, in *api.AggregateRequest) (*api.BytesValue, error) {
	return unary(ctx, s, "aggregate", func() (*api.BytesValue, error) {
		if len(in.Aggregator) == 0 {
			return nil, errMissingAggregator()
		}
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		aggregator, err := h.ConvertDown(in.Aggregator)
		if err != nil {
			return nil, err
		}

		var result backend.Binary
		if len(in.Keys) != 0 {
			keys, err1 := h.ConvertKeysDown(in.Keys)
			if err1 != nil {
				return nil, err1
			}
			result, err = h.Cache().AggregateKeys(ctx, keys, aggregator)
		} else {
			// an empty filter aggregates over every entry
			filter, err1 := h.ConvertDown(in.Filter)
			if err1 != nil {
				return nil, err1
			}
			result, err = h.Cache().AggregateFilter(ctx, filter, aggregator)
		}
		if err != nil {
			return nil, err
		}
		return h.ToBytesValue(result)
	})
}

// Invoke executes an entry processor against a single key.
func (s *NamedCacheService) Invoke(ctx context.Context, in *api.InvokeRequest) (*api.BytesValue, error) {
	return unary(ctx, s, "invoke", func() (*api.BytesValue, error) {
		if len(in.Processor) == 0 {
			return nil, errMissingProcessor()
		}
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return nil, err
		}
		key, err := h.ConvertKeyDown(in.Key)
		if err != nil {
			return nil, err
		}
		agent, err := h.ConvertDown(in.Processor)
		if err != nil {
			return nil, err
		}
		result, err := h.Cache().Invoke(ctx, key, backend.AgentProcessor(agent))
		if err != nil {
			return nil, err
		}
		return h.ToBytesValue(result)
	})
}

// ----- streaming queries ----------------------------------------------------

// GetAll streams the entries for the requested keys. An empty key list
// completes the stream immediately without touching the backend.
func (s *NamedCacheService) GetAll(in *api.GetAllRequest, stream api.NamedCacheService_GetAllServer) error {
	if len(in.Keys) == 0 {
		return nil
	}
	return s.streaming(stream.Context(), "getAll", func() error {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return err
		}
		keys, err := h.ConvertKeysDown(in.Keys)
		if err != nil {
			return err
		}
		callback, sc := h.OptionalEntryConsumer(stream.Send)
		if err = h.Cache().InvokeAllKeys(stream.Context(), keys, backend.GetProcessor(), callback); err != nil {
			return err
		}
		return sc.firstError()
	})
}

// InvokeAll executes an entry processor against keys or a filter, streaming
// each entry's result.
func (s *NamedCacheService) InvokeAll(in *api.InvokeAllRequest, stream api.NamedCacheService_InvokeAllServer) error {
	if len(in.Processor) == 0 {
		return errMissingProcessor()
	}
	return s.streaming(stream.Context(), "invokeAll", func() error {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return err
		}
		agent, err := h.ConvertDown(in.Processor)
		if err != nil {
			return err
		}
		callback, sc := h.EntryConsumer(stream.Send)

		if len(in.Keys) != 0 {
			keys, err1 := h.ConvertKeysDown(in.Keys)
			if err1 != nil {
				return err1
			}
			err = h.Cache().InvokeAllKeys(stream.Context(), keys, backend.AgentProcessor(agent), callback)
		} else {
			filter, err1 := h.ConvertDown(in.Filter)
			if err1 != nil {
				return err1
			}
			err = h.Cache().InvokeAllFilter(stream.Context(), filter, backend.AgentProcessor(agent), callback)
		}
		if err != nil {
			return err
		}
		return sc.firstError()
	})
}

// KeySet streams the keys of entries matching the filter.
func (s *NamedCacheService) KeySet(in *api.KeySetRequest, stream api.NamedCacheService_KeySetServer) error {
	return s.streaming(stream.Context(), "keySet", func() error {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return err
		}
		filter, err := h.ConvertDown(in.Filter)
		if err != nil {
			return err
		}
		callback, sc := h.BinaryConsumer(stream.Send)
		if err = h.Cache().KeySet(stream.Context(), filter, callback); err != nil {
			return err
		}
		return sc.firstError()
	})
}

// EntrySet streams the entries matching the filter. With a comparator the
// results are collected and sorted before emission; without one they are
// streamed as produced.
func (s *NamedCacheService) EntrySet(in *api.EntrySetRequest, stream api.NamedCacheService_EntrySetServer) error {
	return s.streaming(stream.Context(), "entrySet", func() error {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return err
		}
		filter, err := h.ConvertDown(in.Filter)
		if err != nil {
			return err
		}

		if len(in.Comparator) == 0 {
			callback, sc := h.EntryConsumer(stream.Send)
			if err = h.Cache().EntrySet(stream.Context(), filter, callback); err != nil {
				return err
			}
			return sc.firstError()
		}

		comparator, err := h.ConvertDown(in.Comparator)
		if err != nil {
			return err
		}
		entries, err := h.Cache().EntrySetSorted(stream.Context(), filter, comparator)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			keyUp, err1 := h.ConvertUp(entry.Key)
			if err1 != nil {
				return err1
			}
			valueUp, err1 := h.ConvertUp(entry.Value)
			if err1 != nil {
				return err1
			}
			if err1 = stream.Send(&api.Entry{Key: keyUp, Value: valueUp}); err1 != nil {
				return err1
			}
		}
		return nil
	})
}

// Values streams the values of entries matching the filter, sorted when a
// comparator is supplied.
func (s *NamedCacheService) Values(in *api.ValuesRequest, stream api.NamedCacheService_ValuesServer) error {
	return s.streaming(stream.Context(), "values", func() error {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return err
		}
		filter, err := h.ConvertDown(in.Filter)
		if err != nil {
			return err
		}

		if len(in.Comparator) == 0 {
			callback, sc := h.BinaryConsumer(stream.Send)
			if err = h.Cache().Values(stream.Context(), filter, backend.ValueCallback(callback)); err != nil {
				return err
			}
			return sc.firstError()
		}

		comparator, err := h.ConvertDown(in.Comparator)
		if err != nil {
			return err
		}
		values, err := h.Cache().ValuesSorted(stream.Context(), filter, comparator)
		if err != nil {
			return err
		}
		for _, value := range values {
			up, err1 := h.ConvertUp(value)
			if err1 != nil {
				return err1
			}
			if err1 = stream.Send(&api.BytesValue{Value: up}); err1 != nil {
				return err1
			}
		}
		return nil
	})
}

// NextKeySetPage serves one page of a key cursor; see the paged cursor engine.
func (s *NamedCacheService) NextKeySetPage(in *api.PageRequest, stream api.NamedCacheService_NextKeySetPageServer) error {
	return s.streaming(stream.Context(), "nextKeySetPage", func() error {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return err
		}
		s.metrics.pagesServed.Inc()
		return keysPagedQuery(stream.Context(), h, in.Cookie, s.cfg.TransferThreshold, stream.Send)
	})
}

// NextEntrySetPage serves one page of an entry cursor.
func (s *NamedCacheService) NextEntrySetPage(in *api.PageRequest, stream api.NamedCacheService_NextEntrySetPageServer) error {
	return s.streaming(stream.Context(), "nextEntrySetPage", func() error {
		h, err := s.createHolder(in.Scope, in.Cache, in.Format)
		if err != nil {
			return err
		}
		s.metrics.pagesServed.Inc()
		return entriesPagedQuery(stream.Context(), h, in.Cookie, s.cfg.TransferThreshold, stream.Send)
	})
}

// Events returns the bidirectional listener channel; see MapListenerProxy.
func (s *NamedCacheService) Events(stream api.NamedCacheService_EventsServer) error {
	return newMapListenerProxy(s, stream).run()
}

// convertPair converts a key and value down in one step.
func (s *NamedCacheService) convertPair(h *RequestHolder, key, value []byte) (backend.Binary, backend.Binary, error) {
	keyDown, err := h.ConvertKeyDown(key)
	if err != nil {
		return nil, nil, err
	}
	valueDown, err := h.ConvertDown(value)
	if err != nil {
		return nil, nil, err
	}
	return keyDown, valueDown, nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
