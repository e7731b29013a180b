/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

// testCodec is a plain JSON codec for exercising the backend directly.
type testCodec struct{}

func (testCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (testCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	err := json.Unmarshal(data, &v)
	return v, err
}

func (testCodec) Format() string { return "json" }

func enc(t *testing.T, v any) Binary {
	t.Helper()
	data, err := (testCodec{}).Encode(v)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return data
}

func dec(t *testing.T, data Binary) any {
	t.Helper()
	v, err := (testCodec{}).Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return v
}

func newTestCache(t *testing.T) *LocalCache {
	t.Helper()
	svc := NewLocalService(testCodec{}, WithMembers(3), WithPartitions(17))
	return NewLocalCache("test", svc)
}

func TestOwnerOfIsStable(t *testing.T) {
	svc := NewLocalService(testCodec{}, WithMembers(3), WithPartitions(17))

	key := Binary("some-key")
	first := svc.OwnerOf(key)
	for i := 0; i < 10; i++ {
		if owner := svc.OwnerOf(key); owner != first {
			t.Fatal("expected a stable owner for a fixed key")
		}
	}

	// keys spread over more than one member
	owners := make(map[int32]bool)
	for i := 0; i < 100; i++ {
		owners[svc.OwnerOf(enc(t, i)).ID] = true
	}
	if len(owners) < 2 {
		t.Fatalf("expected keys to spread over members, got %d", len(owners))
	}
}

func TestPointProcessors(t *testing.T) {
	var (
		c   = newTestCache(t)
		ctx = context.Background()
		key = enc(t, "k")
	)

	// get on an absent key yields a non-present optional
	result, err := c.Invoke(ctx, key, GetProcessor())
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	opt, err := DecodeOptional(result)
	if err != nil || opt.Present {
		t.Fatalf("expected absent optional, got %+v %v", opt, err)
	}

	// put a serialized nil: present but nil is distinguishable from absent
	prior, err := c.Invoke(ctx, key, PutProcessor(enc(t, nil), 0))
	if err != nil || prior != nil {
		t.Fatalf("expected no prior value, got %v %v", prior, err)
	}
	result, err = c.Invoke(ctx, key, GetProcessor())
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	opt, err = DecodeOptional(result)
	if err != nil || !opt.Present {
		t.Fatalf("expected present optional for nil mapping, got %+v %v", opt, err)
	}

	// replace, replaceMapping, removeMapping, remove
	v1, v2 := enc(t, "v1"), enc(t, "v2")
	if _, err = c.Invoke(ctx, key, ReplaceProcessor(v1)); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	result, err = c.Invoke(ctx, key, ReplaceMappingProcessor(v2, v2))
	if err != nil {
		t.Fatalf("replaceMapping failed: %v", err)
	}
	if replaced := dec(t, result); replaced != false {
		t.Fatalf("expected replaceMapping false, got %v", replaced)
	}
	result, err = c.Invoke(ctx, key, ReplaceMappingProcessor(v1, v2))
	if err != nil {
		t.Fatalf("replaceMapping failed: %v", err)
	}
	if replaced := dec(t, result); replaced != true {
		t.Fatalf("expected replaceMapping true, got %v", replaced)
	}

	result, err = c.Invoke(ctx, key, ContainsValueProcessor(v2))
	if err != nil {
		t.Fatalf("containsValue failed: %v", err)
	}
	if contains := dec(t, result); contains != true {
		t.Fatalf("expected containsValue true, got %v", contains)
	}

	prior, err = c.Invoke(ctx, key, RemoveProcessor())
	if err != nil || !bytes.Equal(prior, v2) {
		t.Fatalf("expected remove to return v2, got %v %v", prior, err)
	}
	if size, _ := c.Size(ctx); size != 0 {
		t.Fatalf("expected empty cache, got %d", size)
	}
}

func TestEntryExpiry(t *testing.T) {
	var (
		c   = newTestCache(t)
		ctx = context.Background()
		key = enc(t, "ttl")
	)

	if _, err := c.Put(ctx, key, enc(t, "v"), 30); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, present, _ := c.Get(ctx, key); !present {
		t.Fatal("expected value before expiry")
	}

	time.Sleep(60 * time.Millisecond)
	if _, present, _ := c.Get(ctx, key); present {
		t.Fatal("expected value to expire")
	}
}

func TestFilterQueriesAndAggregation(t *testing.T) {
	var (
		c   = newTestCache(t)
		ctx = context.Background()
	)

	for i := 1; i <= 10; i++ {
		doc := map[string]any{"id": i, "age": i * 10}
		if _, err := c.Put(ctx, enc(t, i), enc(t, doc), 0); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	greater := enc(t, map[string]any{
		"@class":    "filter.GreaterFilter",
		"extractor": map[string]any{"@class": "extractor.UniversalExtractor", "name": "age"},
		"value":     50,
	})

	var matched int
	err := c.KeySet(ctx, greater, func(Binary) {
		matched++
	})
	if err != nil {
		t.Fatalf("keySet failed: %v", err)
	}
	if matched != 5 {
		t.Fatalf("expected 5 matches for age > 50, got %d", matched)
	}

	count := enc(t, map[string]any{"@class": "aggregator.CountAggregator"})
	result, err := c.AggregateFilter(ctx, greater, count)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if n := dec(t, result); n != float64(5) {
		t.Fatalf("expected count 5, got %v", n)
	}

	// empty filter bytes aggregate over everything
	result, err = c.AggregateFilter(ctx, nil, count)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if n := dec(t, result); n != float64(10) {
		t.Fatalf("expected count 10, got %v", n)
	}

	sum := enc(t, map[string]any{
		"@class":    "aggregator.SumAggregator",
		"extractor": map[string]any{"@class": "extractor.UniversalExtractor", "name": "age"},
	})
	result, err = c.AggregateFilter(ctx, nil, sum)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if n := dec(t, result); n != float64(550) {
		t.Fatalf("expected sum 550, got %v", n)
	}
}

func TestEntrySetSortedByComparator(t *testing.T) {
	var (
		c   = newTestCache(t)
		ctx = context.Background()
	)

	ages := []int{30, 10, 50, 20, 40}
	for i, age := range ages {
		if _, err := c.Put(ctx, enc(t, i), enc(t, map[string]any{"age": age}), 0); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	comparator := enc(t, map[string]any{
		"@class":     "comparator.ExtractorComparator",
		"extractor":  map[string]any{"@class": "extractor.UniversalExtractor", "name": "age"},
		"descending": true,
	})

	entries, err := c.EntrySetSorted(ctx, nil, comparator)
	if err != nil {
		t.Fatalf("entrySetSorted failed: %v", err)
	}
	if len(entries) != len(ages) {
		t.Fatalf("expected %d entries, got %d", len(ages), len(entries))
	}

	previous := float64(1 << 30)
	for _, entry := range entries {
		doc := dec(t, entry.Value).(map[string]any)
		age := doc["age"].(float64)
		if age > previous {
			t.Fatalf("expected descending order, got %v after %v", age, previous)
		}
		previous = age
	}
}

func TestAgentProcessors(t *testing.T) {
	var (
		c   = newTestCache(t)
		ctx = context.Background()
		key = enc(t, "acct")
	)

	if _, err := c.Put(ctx, key, enc(t, map[string]any{"balance": 100}), 0); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	increment := enc(t, map[string]any{
		"@class":    "processor.NumberIncrementor",
		"property":  "balance",
		"increment": 25,
	})
	result, err := c.Invoke(ctx, key, AgentProcessor(increment))
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if n := dec(t, result); n != float64(125) {
		t.Fatalf("expected 125, got %v", n)
	}

	extract := enc(t, map[string]any{
		"@class":    "processor.ExtractorProcessor",
		"extractor": map[string]any{"@class": "extractor.UniversalExtractor", "name": "balance"},
	})
	result, err = c.Invoke(ctx, key, AgentProcessor(extract))
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if n := dec(t, result); n != float64(125) {
		t.Fatalf("expected extracted 125, got %v", n)
	}
}

// recordingListener captures events for assertions.
type recordingListener struct {
	mu        sync.Mutex
	events    []MapEvent
	truncated int
	destroyed int
}

func (r *recordingListener) OnEvent(event MapEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingListener) OnTruncated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.truncated++
}

func (r *recordingListener) OnDestroyed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyed++
}

func TestListenersAndLifecycle(t *testing.T) {
	var (
		c   = newTestCache(t)
		ctx = context.Background()
		key = enc(t, "k")
	)

	listener := &recordingListener{}
	id, err := c.AddListener(ListenerRegistration{Listener: listener})
	if err != nil {
		t.Fatalf("addListener failed: %v", err)
	}

	if _, err = c.Put(ctx, key, enc(t, 1), 0); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err = c.Put(ctx, key, enc(t, 2), 0); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err = c.Remove(ctx, key); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if len(listener.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(listener.events))
	}
	if listener.events[0].Type != EventInserted ||
		listener.events[1].Type != EventUpdated ||
		listener.events[2].Type != EventDeleted {
		t.Fatalf("unexpected event order: %+v", listener.events)
	}

	// truncate raises a single lifecycle callback, no entry events
	if _, err = c.Put(ctx, key, enc(t, 3), 0); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	before := len(listener.events)
	if err = c.Truncate(ctx); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	if listener.truncated != 1 {
		t.Fatalf("expected one truncation callback, got %d", listener.truncated)
	}
	if len(listener.events) != before {
		t.Fatal("expected no entry events from truncate")
	}
	if c.Epoch() != 1 {
		t.Fatalf("expected epoch 1, got %d", c.Epoch())
	}

	// removal makes the listener silent
	c.RemoveListener(id)
	if _, err = c.Put(ctx, key, enc(t, 4), 0); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if len(listener.events) != before {
		t.Fatal("expected no events after removal")
	}
}

func TestPrimingListener(t *testing.T) {
	var (
		c   = newTestCache(t)
		ctx = context.Background()
	)

	for i := 0; i < 4; i++ {
		if _, err := c.Put(ctx, enc(t, i), enc(t, i), 0); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	listener := &recordingListener{}
	if _, err := c.AddListener(ListenerRegistration{Listener: listener, Priming: true}); err != nil {
		t.Fatalf("addListener failed: %v", err)
	}

	if len(listener.events) != 4 {
		t.Fatalf("expected 4 priming events, got %d", len(listener.events))
	}
	for _, event := range listener.events {
		if !event.Synthetic || !event.Priming || event.Type != EventInserted {
			t.Fatalf("expected synthetic priming insert, got %+v", event)
		}
	}
}

func TestKeyListenerMatchesOnlyItsKey(t *testing.T) {
	var (
		c   = newTestCache(t)
		ctx = context.Background()
	)

	listener := &recordingListener{}
	if _, err := c.AddListener(ListenerRegistration{Key: enc(t, "watched"), Listener: listener}); err != nil {
		t.Fatalf("addListener failed: %v", err)
	}

	if _, err := c.Put(ctx, enc(t, "other"), enc(t, 1), 0); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err := c.Put(ctx, enc(t, "watched"), enc(t, 2), 0); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if len(listener.events) != 1 {
		t.Fatalf("expected 1 event for the watched key, got %d", len(listener.events))
	}
}

func TestDestroyedCacheRejectsOperations(t *testing.T) {
	var (
		c   = newTestCache(t)
		ctx = context.Background()
	)

	listener := &recordingListener{}
	if _, err := c.AddListener(ListenerRegistration{Listener: listener}); err != nil {
		t.Fatalf("addListener failed: %v", err)
	}

	if err := c.Destroy(ctx); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	if listener.destroyed != 1 {
		t.Fatalf("expected one destroyed callback, got %d", listener.destroyed)
	}

	if _, _, err := c.Get(ctx, enc(t, "k")); err != ErrCacheDestroyed {
		t.Fatalf("expected ErrCacheDestroyed, got %v", err)
	}
	if _, err := c.Put(ctx, enc(t, "k"), enc(t, "v"), 0); err != ErrCacheDestroyed {
		t.Fatalf("expected ErrCacheDestroyed, got %v", err)
	}
}

func TestServiceShutdown(t *testing.T) {
	svc := NewLocalService(testCodec{}, WithMembers(1))
	c := NewLocalCache("stops", svc)

	svc.Shutdown()
	if _, _, err := c.Get(context.Background(), enc(t, "k")); err != ErrServiceStopped {
		t.Fatalf("expected ErrServiceStopped, got %v", err)
	}
}

func TestInstanceReturnsSameHandle(t *testing.T) {
	svc := NewLocalService(testCodec{}, WithMembers(1))
	inst := NewInstance("unit", svc)
	defer RemoveInstance("unit")

	first := inst.EnsureCache("s", "c")
	if second := inst.EnsureCache("s", "c"); second != first {
		t.Fatal("expected the same handle for equal (scope, name)")
	}

	// a destroyed cache stays resolvable, and fails, until released
	if err := first.Destroy(context.Background()); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	if again := inst.EnsureCache("s", "c"); again != first {
		t.Fatal("expected the destroyed handle to remain in the store")
	}

	inst.ReleaseCache("s", "c")
	if fresh := inst.EnsureCache("s", "c"); fresh == first {
		t.Fatal("expected a fresh handle after release")
	}
}
