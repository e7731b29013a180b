/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package backend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/puzpuzpuz/xsync/v3"
)

// LocalService is an in-process partitioned cache service. Keys are mapped to
// partitions with xxhash and partitions to members round robin, so the
// ownership queries the proxy uses to split bulk operations behave as they do
// against a real cluster.
type LocalService struct {
	codec      Codec
	members    []*Member
	owners     []int // partition -> index into members, -1 for orphaned
	partitions int
	running    atomic.Bool
	localStore bool
}

// LocalServiceOption configures a LocalService.
type LocalServiceOption func(*LocalService)

// WithMembers sets the member count.
func WithMembers(count int) LocalServiceOption {
	return func(s *LocalService) {
		s.members = make([]*Member, count)
		for i := 0; i < count; i++ {
			s.members[i] = &Member{ID: int32(i + 1)}
		}
	}
}

// WithPartitions sets the partition count.
func WithPartitions(count int) LocalServiceOption {
	return func(s *LocalService) {
		s.partitions = count
	}
}

// WithLocalStorage marks this process as storage enabled.
func WithLocalStorage() LocalServiceOption {
	return func(s *LocalService) {
		s.localStore = true
	}
}

// NewLocalService creates a running LocalService using the given codec as its
// native serializer.
func NewLocalService(codec Codec, options ...LocalServiceOption) *LocalService {
	svc := &LocalService{
		codec:      codec,
		partitions: 257,
		members:    []*Member{{ID: 1}},
	}
	for _, o := range options {
		o(svc)
	}
	svc.owners = make([]int, svc.partitions)
	for p := 0; p < svc.partitions; p++ {
		svc.owners[p] = p % len(svc.members)
	}
	svc.running.Store(true)
	return svc
}

// Partitioned implements Service.
func (s *LocalService) Partitioned() bool { return true }

// LocalStorageEnabled implements Service.
func (s *LocalService) LocalStorageEnabled() bool { return s.localStore }

// Format implements Service.
func (s *LocalService) Format() string { return s.codec.Format() }

// Running implements Service.
func (s *LocalService) Running() bool { return s.running.Load() }

// Members implements Service.
func (s *LocalService) Members() []*Member { return s.members }

// Shutdown stops the service; subsequent cache operations fail with
// ErrServiceStopped.
func (s *LocalService) Shutdown() { s.running.Store(false) }

// PartitionOf returns the partition id for key.
func (s *LocalService) PartitionOf(key Binary) int {
	return int(xxhash.Sum64(key) % uint64(s.partitions))
}

// OwnerOf implements Service.
func (s *LocalService) OwnerOf(key Binary) *Member {
	idx := s.owners[s.PartitionOf(key)]
	if idx < 0 {
		return nil
	}
	return s.members[idx]
}

// OrphanPartition marks a partition as having no owner. Entries hashing to it
// are routed as an orphan shard by bulk operations.
func (s *LocalService) OrphanPartition(partition int) {
	s.owners[partition%s.partitions] = -1
}

type localEntry struct {
	value   Binary
	expires time.Time
}

func (e *localEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

type partitionStore struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

type registration struct {
	id  uint64
	reg ListenerRegistration
	// filterDoc is the decoded filter, nil meaning match all
	filterDoc any
}

// LocalCache is the in-process implementation of Cache.
type LocalCache struct {
	name      string
	svc       *LocalService
	codec     Codec
	parts     []*partitionStore
	destroyed atomic.Bool
	epoch     atomic.Uint64
	ready     atomic.Bool

	listenerSeq atomic.Uint64
	listeners   *xsync.MapOf[uint64, *registration]

	indexMu sync.Mutex
	indexes map[string]bool
}

// NewLocalCache creates a cache hosted by the given service.
func NewLocalCache(name string, svc *LocalService) *LocalCache {
	parts := make([]*partitionStore, svc.partitions)
	for i := range parts {
		parts[i] = &partitionStore{entries: make(map[string]*localEntry)}
	}
	c := &LocalCache{
		name:      name,
		svc:       svc,
		codec:     svc.codec,
		parts:     parts,
		listeners: xsync.NewMapOf[uint64, *registration](),
		indexes:   make(map[string]bool),
	}
	c.ready.Store(true)
	return c
}

// Name implements Cache.
func (c *LocalCache) Name() string { return c.name }

// Service implements Cache.
func (c *LocalCache) Service() Service { return c.svc }

// Destroyed implements Cache.
func (c *LocalCache) Destroyed() bool { return c.destroyed.Load() }

func (c *LocalCache) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.destroyed.Load() {
		return ErrCacheDestroyed
	}
	if !c.svc.running.Load() {
		return ErrServiceStopped
	}
	return nil
}

func (c *LocalCache) partitionFor(key Binary) *partitionStore {
	return c.parts[c.svc.PartitionOf(key)]
}

// Get implements Cache.
func (c *LocalCache) Get(ctx context.Context, key Binary) (Binary, bool, error) {
	if err := c.check(ctx); err != nil {
		return nil, false, err
	}
	p := c.partitionFor(key)
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[string(key)]
	if !ok || e.expired(time.Now()) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Put implements Cache.
func (c *LocalCache) Put(ctx context.Context, key, value Binary, ttlMillis int64) (Binary, error) {
	return c.Invoke(ctx, key, PutProcessor(value, ttlMillis))
}

// Remove implements Cache.
func (c *LocalCache) Remove(ctx context.Context, key Binary) (Binary, error) {
	return c.Invoke(ctx, key, RemoveProcessor())
}

// PutAll implements Cache.
func (c *LocalCache) PutAll(ctx context.Context, entries []Entry, ttlMillis int64) error {
	for _, e := range entries {
		if _, err := c.Invoke(ctx, e.Key, PutProcessor(e.Value, ttlMillis)); err != nil {
			return err
		}
	}
	return nil
}

// Invoke implements Cache. The processor runs under the owning partition's
// lock; events raised by the mutation are dispatched before the lock is
// released so per-key ordering matches the mutation order.
func (c *LocalCache) Invoke(ctx context.Context, key Binary, proc Processor) (Binary, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	p := c.partitionFor(key)
	p.mu.Lock()
	defer p.mu.Unlock()

	return c.invokeLocked(p, key, proc)
}

func (c *LocalCache) invokeLocked(p *partitionStore, key Binary, proc Processor) (Binary, error) {
	var (
		now      = time.Now()
		k        = string(key)
		entry    = p.entries[k]
		present  = entry != nil && !entry.expired(now)
		oldValue Binary
	)
	if present {
		oldValue = entry.value
	} else if entry != nil {
		delete(p.entries, k)
	}

	store := func(value Binary, ttlMillis int64) {
		e := &localEntry{value: value}
		if ttlMillis > 0 {
			e.expires = now.Add(time.Duration(ttlMillis) * time.Millisecond)
		}
		p.entries[k] = e
		if present {
			c.dispatch(MapEvent{Type: EventUpdated, Key: key, OldValue: oldValue, NewValue: value})
		} else {
			c.dispatch(MapEvent{Type: EventInserted, Key: key, NewValue: value})
		}
	}
	remove := func() {
		delete(p.entries, k)
		c.dispatch(MapEvent{Type: EventDeleted, Key: key, OldValue: oldValue})
	}

	switch proc.Kind {
	case ProcGet:
		return EncodeOptional(Optional{Present: present, Value: oldValue})
	case ProcPut:
		store(proc.Value, proc.TTLMillis)
		return oldValue, nil
	case ProcPutIfAbsent:
		if !present {
			store(proc.Value, proc.TTLMillis)
			return nil, nil
		}
		return oldValue, nil
	case ProcReplace:
		if present {
			store(proc.Value, 0)
		}
		return oldValue, nil
	case ProcReplaceMapping:
		replaced := present && bytesEqual(oldValue, proc.Previous)
		if replaced {
			store(proc.Value, 0)
		}
		return c.codec.Encode(replaced)
	case ProcRemove:
		if present {
			remove()
		}
		return oldValue, nil
	case ProcRemoveMapping:
		removed := present && bytesEqual(oldValue, proc.Value)
		if removed {
			remove()
		}
		return c.codec.Encode(removed)
	case ProcContainsValue:
		return c.codec.Encode(present && bytesEqual(oldValue, proc.Value))
	case ProcAgent:
		return c.invokeAgent(key, oldValue, present, proc.Agent, store, remove)
	default:
		return nil, fmt.Errorf("unknown processor kind %d", proc.Kind)
	}
}

func (c *LocalCache) invokeAgent(_ Binary, oldValue Binary, present bool,
	agent Binary, store func(Binary, int64), remove func()) (Binary, error) {
	doc, err := decodeDoc(c.codec, agent)
	if err != nil {
		return nil, err
	}

	var value any
	if present {
		if value, err = c.codec.Decode(oldValue); err != nil {
			return nil, err
		}
	}

	outcome, err := applyAgent(doc, value, present)
	if err != nil {
		return nil, err
	}

	switch {
	case outcome.removed:
		remove()
	case outcome.changed:
		encoded, err1 := c.codec.Encode(outcome.value)
		if err1 != nil {
			return nil, err1
		}
		store(encoded, 0)
	}

	if outcome.result == nil {
		return nil, nil
	}
	return c.codec.Encode(outcome.result)
}

// InvokeAllKeys implements Cache.
func (c *LocalCache) InvokeAllKeys(ctx context.Context, keys []Binary, proc Processor, cb EntryCallback) error {
	for _, key := range keys {
		if err := c.check(ctx); err != nil {
			return err
		}
		result, err := c.Invoke(ctx, key, proc)
		if err != nil {
			return err
		}
		if result != nil {
			cb(key, result)
		}
	}
	return nil
}

// InvokeAllFilter implements Cache.
func (c *LocalCache) InvokeAllFilter(ctx context.Context, filter Binary, proc Processor, cb EntryCallback) error {
	keys, err := c.matchingKeys(ctx, filter)
	if err != nil {
		return err
	}
	return c.InvokeAllKeys(ctx, keys, proc, cb)
}

// AggregateKeys implements Cache.
func (c *LocalCache) AggregateKeys(ctx context.Context, keys []Binary, aggregator Binary) (Binary, error) {
	values := make([]any, 0, len(keys))
	for _, key := range keys {
		data, present, err := c.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}
		v, err := c.codec.Decode(data)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return c.aggregate(aggregator, values)
}

// AggregateFilter implements Cache.
func (c *LocalCache) AggregateFilter(ctx context.Context, filter Binary, aggregator Binary) (Binary, error) {
	var values []any
	err := c.matchEntries(ctx, filter, func(_ Binary, _ Binary, decoded any) {
		values = append(values, decoded)
	})
	if err != nil {
		return nil, err
	}
	return c.aggregate(aggregator, values)
}

func (c *LocalCache) aggregate(aggregator Binary, values []any) (Binary, error) {
	doc, err := decodeDoc(c.codec, aggregator)
	if err != nil {
		return nil, err
	}
	result, err := evalAggregator(doc, values)
	if err != nil {
		return nil, err
	}
	return c.codec.Encode(result)
}

// matchEntries walks a stable snapshot of all entries, invoking cb for each
// entry matching the filter with its decoded value.
func (c *LocalCache) matchEntries(ctx context.Context, filter Binary, cb func(key, value Binary, decoded any)) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	filterDoc, err := decodeDoc(c.codec, filter)
	if err != nil {
		return err
	}

	for _, p := range c.parts {
		p.mu.Lock()
		snapshot := make([]Entry, 0, len(p.entries))
		now := time.Now()
		for k, e := range p.entries {
			if !e.expired(now) {
				snapshot = append(snapshot, Entry{Key: Binary(k), Value: e.value})
			}
		}
		p.mu.Unlock()

		sort.Slice(snapshot, func(i, j int) bool {
			return string(snapshot[i].Key) < string(snapshot[j].Key)
		})

		for _, entry := range snapshot {
			if err = ctx.Err(); err != nil {
				return err
			}
			decoded, err1 := c.codec.Decode(entry.Value)
			if err1 != nil {
				return err1
			}
			match, err1 := evalFilter(filterDoc, decoded)
			if err1 != nil {
				return err1
			}
			if match {
				cb(entry.Key, entry.Value, decoded)
			}
		}
	}
	return nil
}

func (c *LocalCache) matchingKeys(ctx context.Context, filter Binary) ([]Binary, error) {
	var keys []Binary
	err := c.matchEntries(ctx, filter, func(key, _ Binary, _ any) {
		keys = append(keys, key)
	})
	return keys, err
}

// KeySet implements Cache.
func (c *LocalCache) KeySet(ctx context.Context, filter Binary, cb KeyCallback) error {
	return c.matchEntries(ctx, filter, func(key, _ Binary, _ any) {
		cb(key)
	})
}

// EntrySet implements Cache.
func (c *LocalCache) EntrySet(ctx context.Context, filter Binary, cb EntryCallback) error {
	return c.matchEntries(ctx, filter, func(key, value Binary, _ any) {
		cb(key, value)
	})
}

// EntrySetSorted implements Cache.
func (c *LocalCache) EntrySetSorted(ctx context.Context, filter, comparator Binary) ([]Entry, error) {
	type sortable struct {
		entry   Entry
		decoded any
	}
	var collected []sortable
	err := c.matchEntries(ctx, filter, func(key, value Binary, decoded any) {
		collected = append(collected, sortable{entry: Entry{Key: key, Value: value}, decoded: decoded})
	})
	if err != nil {
		return nil, err
	}

	less, err := c.comparatorFunc(comparator)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(collected, func(i, j int) bool {
		return less(collected[i].decoded, collected[j].decoded)
	})

	entries := make([]Entry, len(collected))
	for i, s := range collected {
		entries[i] = s.entry
	}
	return entries, nil
}

// Values implements Cache.
func (c *LocalCache) Values(ctx context.Context, filter Binary, cb ValueCallback) error {
	return c.matchEntries(ctx, filter, func(_, value Binary, _ any) {
		cb(value)
	})
}

// ValuesSorted implements Cache.
func (c *LocalCache) ValuesSorted(ctx context.Context, filter, comparator Binary) ([]Binary, error) {
	entries, err := c.EntrySetSorted(ctx, filter, comparator)
	if err != nil {
		return nil, err
	}
	values := make([]Binary, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return values, nil
}

// comparatorFunc builds an ordering from a serialized comparator document.
// Empty bytes order by the extracted identity.
func (c *LocalCache) comparatorFunc(comparator Binary) (func(a, b any) bool, error) {
	doc, err := decodeDoc(c.codec, comparator)
	if err != nil {
		return nil, err
	}

	var (
		extractor  any
		descending bool
	)
	if doc != nil {
		_, m, err1 := className(doc)
		if err1 != nil {
			return nil, err1
		}
		extractor = m["extractor"]
		descending, _ = m["descending"].(bool)
	}

	return func(a, b any) bool {
		av, _ := applyExtractor(extractor, a)
		bv, _ := applyExtractor(extractor, b)
		cmp, ok := compareValues(av, bv)
		if !ok {
			return false
		}
		if descending {
			return cmp > 0
		}
		return cmp < 0
	}, nil
}

// AddIndex implements Cache. The local store resolves queries by scan; the
// index registry only tracks extractor identity so add and remove round trip.
func (c *LocalCache) AddIndex(ctx context.Context, extractor Binary, _ bool, _ Binary) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	c.indexMu.Lock()
	defer c.indexMu.Unlock()
	c.indexes[string(extractor)] = true
	return nil
}

// RemoveIndex implements Cache.
func (c *LocalCache) RemoveIndex(ctx context.Context, extractor Binary) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	c.indexMu.Lock()
	defer c.indexMu.Unlock()
	delete(c.indexes, string(extractor))
	return nil
}

// Size implements Cache.
func (c *LocalCache) Size(ctx context.Context) (int, error) {
	if err := c.check(ctx); err != nil {
		return 0, err
	}
	var (
		total int
		now   = time.Now()
	)
	for _, p := range c.parts {
		p.mu.Lock()
		for _, e := range p.entries {
			if !e.expired(now) {
				total++
			}
		}
		p.mu.Unlock()
	}
	return total, nil
}

// IsEmpty implements Cache.
func (c *LocalCache) IsEmpty(ctx context.Context) (bool, error) {
	size, err := c.Size(ctx)
	return size == 0, err
}

// IsReady implements Cache.
func (c *LocalCache) IsReady(ctx context.Context) (bool, error) {
	if err := c.check(ctx); err != nil {
		return false, err
	}
	return c.ready.Load(), nil
}

// Clear implements Cache. Entries are removed one at a time so deletions are
// observable by listeners.
func (c *LocalCache) Clear(ctx context.Context) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	for _, p := range c.parts {
		p.mu.Lock()
		for k, e := range p.entries {
			delete(p.entries, k)
			c.dispatch(MapEvent{Type: EventDeleted, Key: Binary(k), OldValue: e.value})
		}
		p.mu.Unlock()
	}
	return nil
}

// Truncate implements Cache. The removal of entries is not observable; each
// registration receives exactly one truncation callback.
func (c *LocalCache) Truncate(ctx context.Context) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	for _, p := range c.parts {
		p.mu.Lock()
		p.entries = make(map[string]*localEntry)
		p.mu.Unlock()
	}
	c.epoch.Add(1)

	c.listeners.Range(func(_ uint64, r *registration) bool {
		r.reg.Listener.OnTruncated()
		return true
	})
	return nil
}

// Destroy implements Cache. Each registration receives exactly one destroyed
// callback and all registrations are dropped.
func (c *LocalCache) Destroy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.destroyed.CompareAndSwap(false, true) {
		return ErrCacheDestroyed
	}
	for _, p := range c.parts {
		p.mu.Lock()
		p.entries = make(map[string]*localEntry)
		p.mu.Unlock()
	}
	c.listeners.Range(func(id uint64, r *registration) bool {
		c.listeners.Delete(id)
		r.reg.Listener.OnDestroyed()
		return true
	})
	return nil
}

// Epoch returns the truncation epoch, incremented by every truncate.
func (c *LocalCache) Epoch() uint64 { return c.epoch.Load() }

// AddListener implements Cache.
func (c *LocalCache) AddListener(reg ListenerRegistration) (uint64, error) {
	if c.destroyed.Load() {
		return 0, ErrCacheDestroyed
	}
	filterDoc, err := decodeDoc(c.codec, reg.Filter)
	if err != nil {
		return 0, err
	}

	id := c.listenerSeq.Add(1)
	r := &registration{id: id, reg: reg, filterDoc: filterDoc}
	c.listeners.Store(id, r)

	if reg.Priming {
		c.prime(r)
	}
	return id, nil
}

// prime delivers a synthetic insert for every entry currently matching the
// registration.
func (c *LocalCache) prime(r *registration) {
	now := time.Now()
	for _, p := range c.parts {
		p.mu.Lock()
		for k, e := range p.entries {
			if e.expired(now) {
				continue
			}
			event := MapEvent{Type: EventInserted, Key: Binary(k), NewValue: e.value, Synthetic: true, Priming: true}
			if c.matches(r, event) {
				r.reg.Listener.OnEvent(c.liteAdjust(r, event))
			}
		}
		p.mu.Unlock()
	}
}

// RemoveListener implements Cache.
func (c *LocalCache) RemoveListener(id uint64) {
	c.listeners.Delete(id)
}

func (c *LocalCache) matches(r *registration, event MapEvent) bool {
	if r.reg.Key != nil {
		return bytesEqual(r.reg.Key, event.Key)
	}
	if r.filterDoc == nil {
		return true
	}
	// filter listeners match on the new value for inserts and updates and the
	// old value for deletes
	target := event.NewValue
	if event.Type == EventDeleted {
		target = event.OldValue
	}
	decoded, err := c.codec.Decode(target)
	if err != nil {
		return false
	}
	match, err := evalFilter(r.filterDoc, decoded)
	return err == nil && match
}

func (c *LocalCache) liteAdjust(r *registration, event MapEvent) MapEvent {
	if r.reg.Lite {
		event.OldValue = nil
		event.NewValue = nil
	}
	return event
}

func (c *LocalCache) dispatch(event MapEvent) {
	c.listeners.Range(func(_ uint64, r *registration) bool {
		if c.matches(r, event) {
			r.reg.Listener.OnEvent(c.liteAdjust(r, event))
		}
		return true
	})
}

func bytesEqual(a, b Binary) bool {
	return string(a) == string(b)
}
