/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/oracle/gridcache-go/api"
	"github.com/oracle/gridcache-go/backend"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestPutGetRoundTrip(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
		key   = mustEncode(t, codec, 1)
		value = mustEncode(t, codec, "one")
	)

	prior, err := s.Put(ctx, &api.PutRequest{Cache: "people", Format: "json", Key: key, Value: value})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if len(prior.Value) != 0 {
		t.Fatalf("expected no prior value, got %v", prior.Value)
	}

	result, err := s.Get(ctx, &api.GetRequest{Cache: "people", Format: "json", Key: key})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !result.Present {
		t.Fatal("expected value to be present")
	}
	// same client and cache format: bytes cross the proxy unchanged
	if !bytes.Equal(result.Value, value) {
		t.Fatalf("expected %v, got %v", value, result.Value)
	}
}

func TestGetAbsentVersusPresent(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
	)

	result, err := s.Get(ctx, &api.GetRequest{Cache: "c", Format: "json", Key: mustEncode(t, codec, "missing")})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if result.Present {
		t.Fatal("expected absent key")
	}
}

func TestCrossFormatGet(t *testing.T) {
	var (
		s    = newTestService(t, JSONCodec{})
		ctx  = context.Background()
		json = JSONCodec{}
		mp   = MsgpackCodec{}
	)

	// a msgpack client writes; the cache's native format is json
	key := mustEncode(t, mp, "id-1")
	value := mustEncode(t, mp, map[string]any{"id": int64(1)})

	if _, err := s.Put(ctx, &api.PutRequest{Cache: "docs", Format: "msgpack", Key: key, Value: value}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// a json client reads the logically identical document
	jsonKey := mustEncode(t, json, "id-1")
	result, err := s.Get(ctx, &api.GetRequest{Cache: "docs", Format: "json", Key: jsonKey})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !result.Present {
		t.Fatal("expected value to be present")
	}

	decoded := mustDecode(t, json, result.Value)
	doc, ok := decoded.(map[string]any)
	if !ok || doc["id"] != float64(1) {
		t.Fatalf("expected {\"id\": 1}, got %v", decoded)
	}

	// and the msgpack client reads its own document back
	back, err := s.Get(ctx, &api.GetRequest{Cache: "docs", Format: "msgpack", Key: key})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	backDoc, ok := mustDecode(t, mp, back.Value).(map[string]any)
	if !ok {
		t.Fatalf("expected document, got %T", mustDecode(t, mp, back.Value))
	}
	if n, _ := toNumber(backDoc["id"]); n != 1 {
		t.Fatalf("expected id 1, got %v", backDoc["id"])
	}
}

func TestMissingCacheName(t *testing.T) {
	s := newTestService(t, JSONCodec{})

	_, err := s.Get(context.Background(), &api.GetRequest{Cache: "", Format: "json"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestMissingProcessorAndAggregator(t *testing.T) {
	var (
		s   = newTestService(t, JSONCodec{})
		ctx = context.Background()
	)

	_, err := s.Invoke(ctx, &api.InvokeRequest{Cache: "c", Format: "json", Key: []byte{1}})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT for empty processor, got %v", err)
	}

	_, err = s.Aggregate(ctx, &api.AggregateRequest{Cache: "c", Format: "json"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT for empty aggregator, got %v", err)
	}
}

func TestContainsValue(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
	)

	for i, v := range []string{"red", "green", "blue"} {
		_, err := s.Put(ctx, &api.PutRequest{Cache: "colours", Format: "json",
			Key: mustEncode(t, codec, i), Value: mustEncode(t, codec, v)})
		if err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	result, err := s.ContainsValue(ctx, &api.ContainsValueRequest{Cache: "colours", Format: "json",
		Value: mustEncode(t, codec, "green")})
	if err != nil {
		t.Fatalf("containsValue failed: %v", err)
	}
	if !result.Value {
		t.Fatal("expected containsValue(green) to be true")
	}

	result, err = s.ContainsValue(ctx, &api.ContainsValueRequest{Cache: "colours", Format: "json",
		Value: mustEncode(t, codec, "purple")})
	if err != nil {
		t.Fatalf("containsValue failed: %v", err)
	}
	if result.Value {
		t.Fatal("expected containsValue(purple) to be false")
	}
}

func TestContainsEntryAndKey(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
		key   = mustEncode(t, codec, "k")
	)

	if _, err := s.Put(ctx, &api.PutRequest{Cache: "c", Format: "json", Key: key, Value: mustEncode(t, codec, "v")}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	entry, err := s.ContainsEntry(ctx, &api.ContainsEntryRequest{Cache: "c", Format: "json",
		Key: key, Value: mustEncode(t, codec, "v")})
	if err != nil || !entry.Value {
		t.Fatalf("expected containsEntry true, got %v %v", entry, err)
	}

	entry, err = s.ContainsEntry(ctx, &api.ContainsEntryRequest{Cache: "c", Format: "json",
		Key: key, Value: mustEncode(t, codec, "other")})
	if err != nil || entry.Value {
		t.Fatalf("expected containsEntry false, got %v %v", entry, err)
	}

	containsKey, err := s.ContainsKey(ctx, &api.ContainsKeyRequest{Cache: "c", Format: "json", Key: key})
	if err != nil || !containsKey.Value {
		t.Fatalf("expected containsKey true, got %v %v", containsKey, err)
	}
}

func TestMutationOperations(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
		key   = mustEncode(t, codec, "k")
		v1    = mustEncode(t, codec, "v1")
		v2    = mustEncode(t, codec, "v2")
	)

	// putIfAbsent stores only when absent
	prior, err := s.PutIfAbsent(ctx, &api.PutIfAbsentRequest{Cache: "m", Format: "json", Key: key, Value: v1})
	if err != nil || len(prior.Value) != 0 {
		t.Fatalf("expected empty prior, got %v %v", prior, err)
	}
	prior, err = s.PutIfAbsent(ctx, &api.PutIfAbsentRequest{Cache: "m", Format: "json", Key: key, Value: v2})
	if err != nil || !bytes.Equal(prior.Value, v1) {
		t.Fatalf("expected prior v1, got %v %v", prior, err)
	}

	// replaceMapping replaces only when the current value matches
	replaced, err := s.ReplaceMapping(ctx, &api.ReplaceMappingRequest{Cache: "m", Format: "json",
		Key: key, PreviousValue: v2, NewValue: v2})
	if err != nil || replaced.Value {
		t.Fatalf("expected replaceMapping false, got %v %v", replaced, err)
	}
	replaced, err = s.ReplaceMapping(ctx, &api.ReplaceMappingRequest{Cache: "m", Format: "json",
		Key: key, PreviousValue: v1, NewValue: v2})
	if err != nil || !replaced.Value {
		t.Fatalf("expected replaceMapping true, got %v %v", replaced, err)
	}

	// removeMapping honours the value match
	removed, err := s.RemoveMapping(ctx, &api.RemoveMappingRequest{Cache: "m", Format: "json", Key: key, Value: v1})
	if err != nil || removed.Value {
		t.Fatalf("expected removeMapping false, got %v %v", removed, err)
	}
	removed, err = s.RemoveMapping(ctx, &api.RemoveMappingRequest{Cache: "m", Format: "json", Key: key, Value: v2})
	if err != nil || !removed.Value {
		t.Fatalf("expected removeMapping true, got %v %v", removed, err)
	}

	size, err := s.Size(ctx, &api.SizeRequest{Cache: "m"})
	if err != nil || size.Value != 0 {
		t.Fatalf("expected empty cache, got %v %v", size, err)
	}
}

func TestPartitionedPutAllSplitsByOwner(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
	)

	cache, err := s.resolver.GetCache("", "bulk", true)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	entries := make([]backend.Entry, 0, 20)
	owners := make(map[int32]bool)
	for i := 0; i < 20; i++ {
		key := mustEncode(t, codec, i)
		entries = append(entries, backend.Entry{Key: key, Value: mustEncode(t, codec, i*10)})
		if member := cache.Service().OwnerOf(key); member != nil {
			owners[member.ID] = true
		}
	}

	counter := &countingCache{Cache: cache}
	if err = s.partitionedPutAll(ctx, counter, entries, 0); err != nil {
		t.Fatalf("putAll failed: %v", err)
	}

	// one bulk invocation per distinct owning member
	if counter.putAllCalls != len(owners) {
		t.Fatalf("expected %d putAll invocations, got %d", len(owners), counter.putAllCalls)
	}

	size, err := cache.Size(ctx)
	if err != nil || size != 20 {
		t.Fatalf("expected 20 entries, got %d %v", size, err)
	}
}

func TestPartitionedPutAllOrphanShard(t *testing.T) {
	var (
		codec = JSONCodec{}
		svc   = backend.NewLocalService(codec, backend.WithMembers(2), backend.WithPartitions(4))
	)
	backend.NewInstance("orphans", svc)
	defer backend.RemoveInstance("orphans")

	// orphan every partition owned by the second member
	svc.OrphanPartition(1)
	svc.OrphanPartition(3)

	cache := backend.GetInstance("orphans").EnsureCache("", "c")

	cfg := DefaultConfig()
	cfg.WorkerThreads = 2
	s := NewNamedCacheService(cfg, &Resolver{}, nil)
	defer s.Close()

	entries := make([]backend.Entry, 0, 16)
	owners := make(map[int32]bool)
	orphans := false
	for i := 0; i < 16; i++ {
		key := mustEncode(t, codec, i)
		entries = append(entries, backend.Entry{Key: key, Value: mustEncode(t, codec, i)})
		if member := svc.OwnerOf(key); member != nil {
			owners[member.ID] = true
		} else {
			orphans = true
		}
	}

	counter := &countingCache{Cache: cache}
	if err := s.partitionedPutAll(context.Background(), counter, entries, 0); err != nil {
		t.Fatalf("putAll failed: %v", err)
	}

	expected := len(owners)
	if orphans {
		expected++
	}
	if counter.putAllCalls != expected {
		t.Fatalf("expected %d putAll invocations, got %d", expected, counter.putAllCalls)
	}
}

func TestDestroyPropagation(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
		key   = mustEncode(t, codec, "k")
	)

	if _, err := s.Put(ctx, &api.PutRequest{Cache: "doomed", Format: "json", Key: key, Value: mustEncode(t, codec, "v")}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err := s.Destroy(ctx, &api.DestroyRequest{Cache: "doomed"}); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}

	// every subsequent operation fails within one round trip
	_, err := s.Get(ctx, &api.GetRequest{Cache: "doomed", Format: "json", Key: key})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FAILED_PRECONDITION, got %v", err)
	}
	_, err = s.Size(ctx, &api.SizeRequest{Cache: "doomed"})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FAILED_PRECONDITION, got %v", err)
	}
}

func TestUnknownFormat(t *testing.T) {
	s := newTestService(t, JSONCodec{})

	_, err := s.Get(context.Background(), &api.GetRequest{Cache: "c", Format: "pof", Key: []byte{1}})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT for unknown format, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	s := newTestService(t, JSONCodec{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Size(ctx, &api.SizeRequest{Cache: "c"})
	if status.Code(err) != codes.Canceled && status.Code(err) != codes.DeadlineExceeded {
		t.Fatalf("expected CANCELLED, got %v", err)
	}
}

func TestGetAllStreaming(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
	)

	for i := 0; i < 5; i++ {
		_, err := s.Put(ctx, &api.PutRequest{Cache: "g", Format: "json",
			Key: mustEncode(t, codec, i), Value: mustEncode(t, codec, i*2)})
		if err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	stream := &collectingEntryStream{fakeServerStream: newFakeServerStream(ctx)}
	err := s.GetAll(&api.GetAllRequest{Cache: "g", Format: "json",
		Keys: [][]byte{mustEncode(t, codec, 1), mustEncode(t, codec, 3), mustEncode(t, codec, 99)}}, stream)
	if err != nil {
		t.Fatalf("getAll failed: %v", err)
	}

	// the absent key produces no entry
	if len(stream.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(stream.entries))
	}

	// an empty key list completes immediately
	stream = &collectingEntryStream{fakeServerStream: newFakeServerStream(ctx)}
	if err = s.GetAll(&api.GetAllRequest{Cache: "g", Format: "json"}, stream); err != nil {
		t.Fatalf("getAll with no keys failed: %v", err)
	}
	if len(stream.entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(stream.entries))
	}
}

type collectingEntryStream struct {
	*fakeServerStream
	entries []*api.Entry
}

func (c *collectingEntryStream) Send(e *api.Entry) error {
	c.entries = append(c.entries, e)
	return nil
}

// countingCache counts bulk writes so ownership splitting is observable.
type countingCache struct {
	backend.Cache
	putAllCalls int
	mu          sync.Mutex
}

func (c *countingCache) PutAll(ctx context.Context, entries []backend.Entry, ttl int64) error {
	c.mu.Lock()
	c.putAllCalls++
	c.mu.Unlock()
	return c.Cache.PutAll(ctx, entries, ttl)
}
