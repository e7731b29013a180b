/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package gridcache

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultPruneFactor float32 = 0.8
)

// NearCacheOptions defines options when creating a near cache.
type NearCacheOptions struct {
	// TTL is the maximum time to keep an entry in the near cache before it
	// expires.
	TTL time.Duration

	// HighUnits is the maximum number of entries to keep in the near cache;
	// zero means no limit.
	HighUnits int64

	// HighUnitsMemory is carried with the options and reported by String;
	// the near cache does not measure entry memory and never prunes by it,
	// only by HighUnits and TTL.
	HighUnitsMemory int64

	// PruneFactor indicates the percentage of entries remaining after the
	// near cache prunes itself, in the range 0.1 to 1.0; the default is 0.8.
	PruneFactor float32
}

func (n NearCacheOptions) String() string {
	return fmt.Sprintf("NearCacheOptions{TTL=%v, HighUnits=%v, HighUnitsMemory=%v, PruneFactor=%.2f}",
		n.TTL, n.HighUnits, n.HighUnitsMemory, n.PruneFactor)
}

func ensureNearCacheOptions(options *NearCacheOptions) error {
	if options.TTL == 0 && options.HighUnits == 0 && options.HighUnitsMemory == 0 {
		return errors.New("near cache options must set at least one of TTL, HighUnits or HighUnitsMemory")
	}
	if options.PruneFactor == 0 {
		options.PruneFactor = defaultPruneFactor
	}
	if options.PruneFactor < 0.1 || options.PruneFactor > 1.0 {
		return errors.New("near cache prune factor must be in the range 0.1 to 1.0")
	}
	return nil
}

// CacheStats exposes the statistics of a near cache.
type CacheStats interface {
	GetCacheHits() int64
	GetCacheMisses() int64
	GetCacheMissesNanos() int64
	GetCachePuts() int64
	GetCachePrunes() int64
	GetTotalGets() int64
	GetHitRate() float32
	Size() int
	ResetStats()
}

var _ CacheStats = &localCacheImpl[string, string]{}

// localCacheImpl is the in-process front tier used by near caches. Entries
// expire by TTL and the cache prunes itself down to the prune factor when
// the high units are exceeded, evicting the oldest entries first.
type localCacheImpl[K comparable, V any] struct {
	name    string
	options *localCacheOptions

	mutex sync.Mutex
	data  map[K]*localCacheEntry[V]

	cacheHits       int64
	cacheMisses     int64
	cacheMissNanos  int64
	cachePuts       int64
	cachePrunes     int64
	cachePruneNanos int64
}

type localCacheEntry[V any] struct {
	value      V
	ttl        time.Duration
	insertTime time.Time
}

type localCacheOptions struct {
	Expiry          time.Duration
	HighUnits       int64
	HighUnitsMemory int64
	PruneFactor     float32
}

func withLocalCacheExpiry(ttl time.Duration) func(options *localCacheOptions) {
	return func(o *localCacheOptions) {
		o.Expiry = ttl
	}
}

func withLocalCacheHighUnits(highUnits int64) func(options *localCacheOptions) {
	return func(o *localCacheOptions) {
		o.HighUnits = highUnits
	}
}

func withLocalCacheHighUnitsMemory(highUnitsMemory int64) func(options *localCacheOptions) {
	return func(o *localCacheOptions) {
		o.HighUnitsMemory = highUnitsMemory
	}
}

func withLocalCachePruneFactor(pruneFactor float32) func(options *localCacheOptions) {
	return func(o *localCacheOptions) {
		o.PruneFactor = pruneFactor
	}
}

func newLocalCache[K comparable, V any](name string, options ...func(options *localCacheOptions)) *localCacheImpl[K, V] {
	cache := &localCacheImpl[K, V]{
		name: name,
		data: make(map[K]*localCacheEntry[V]),
		options: &localCacheOptions{
			PruneFactor: defaultPruneFactor,
		},
	}
	for _, f := range options {
		f(cache.options)
	}
	if cache.options.PruneFactor == 0 {
		cache.options.PruneFactor = defaultPruneFactor
	}
	return cache
}

// Put associates value with key, returning the previously mapped value or nil.
func (l *localCacheImpl[K, V]) Put(key K, value V) *V {
	return l.PutWithExpiry(key, value, l.options.Expiry)
}

// PutWithExpiry associates value with key with the given time to live,
// returning the previously mapped value or nil.
func (l *localCacheImpl[K, V]) PutWithExpiry(key K, value V, ttl time.Duration) *V {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.expireLocked()
	atomic.AddInt64(&l.cachePuts, 1)

	prev := l.data[key]
	l.data[key] = &localCacheEntry[V]{value: value, ttl: ttl, insertTime: time.Now()}

	l.pruneLocked()

	if prev == nil {
		return nil
	}
	return &prev.value
}

// Get returns the value mapped to key, or nil when there is no mapping.
func (l *localCacheImpl[K, V]) Get(key K) *V {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.expireLocked()

	entry, ok := l.data[key]
	if !ok {
		return nil
	}
	return &entry.value
}

// GetAll returns the entries present in the cache for the requested keys.
func (l *localCacheImpl[K, V]) GetAll(keys []K) map[K]*V {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.expireLocked()

	results := make(map[K]*V)
	for _, key := range keys {
		if entry, ok := l.data[key]; ok {
			value := entry.value
			results[key] = &value
		}
	}
	return results
}

// Remove removes the mapping for key, returning the previously mapped value
// or nil.
func (l *localCacheImpl[K, V]) Remove(key K) *V {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.expireLocked()

	prev, ok := l.data[key]
	if !ok {
		return nil
	}
	delete(l.data, key)
	return &prev.value
}

// Size returns the number of mappings in the cache.
func (l *localCacheImpl[K, V]) Size() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.expireLocked()
	return len(l.data)
}

// Clear removes all mappings.
func (l *localCacheImpl[K, V]) Clear() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.data = make(map[K]*localCacheEntry[V])
}

// Release releases the cache resources.
func (l *localCacheImpl[K, V]) Release() {
	l.Clear()
}

// expireLocked removes entries whose TTL has lapsed. Callers hold the mutex.
func (l *localCacheImpl[K, V]) expireLocked() {
	now := time.Now()
	for key, entry := range l.data {
		if entry.ttl > 0 && now.Sub(entry.insertTime) > entry.ttl {
			delete(l.data, key)
		}
	}
}

// pruneLocked evicts the oldest entries down to the prune factor when the
// high units are exceeded. Callers hold the mutex.
func (l *localCacheImpl[K, V]) pruneLocked() {
	highUnits := l.options.HighUnits
	if highUnits <= 0 || int64(len(l.data)) <= highUnits {
		return
	}

	start := time.Now()
	target := int(float32(highUnits) * l.options.PruneFactor)

	type aged struct {
		key        K
		insertTime time.Time
	}
	entries := make([]aged, 0, len(l.data))
	for key, entry := range l.data {
		entries = append(entries, aged{key: key, insertTime: entry.insertTime})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].insertTime.Before(entries[j].insertTime)
	})

	for _, e := range entries {
		if len(l.data) <= target {
			break
		}
		delete(l.data, e.key)
	}

	atomic.AddInt64(&l.cachePrunes, 1)
	atomic.AddInt64(&l.cachePruneNanos, time.Since(start).Nanoseconds())
}

func (l *localCacheImpl[K, V]) registerHit() {
	atomic.AddInt64(&l.cacheHits, 1)
}

func (l *localCacheImpl[K, V]) registerMiss() {
	atomic.AddInt64(&l.cacheMisses, 1)
}

func (l *localCacheImpl[K, V]) registerMissesNanos(nanos int64) {
	atomic.AddInt64(&l.cacheMissNanos, nanos)
}

// GetCacheHits returns the number of times an entry was served from the cache.
func (l *localCacheImpl[K, V]) GetCacheHits() int64 {
	return atomic.LoadInt64(&l.cacheHits)
}

// GetCacheMisses returns the number of times a get missed the cache.
func (l *localCacheImpl[K, V]) GetCacheMisses() int64 {
	return atomic.LoadInt64(&l.cacheMisses)
}

// GetCacheMissesNanos returns the total time spent fetching missed entries.
func (l *localCacheImpl[K, V]) GetCacheMissesNanos() int64 {
	return atomic.LoadInt64(&l.cacheMissNanos)
}

// GetCachePuts returns the number of puts.
func (l *localCacheImpl[K, V]) GetCachePuts() int64 {
	return atomic.LoadInt64(&l.cachePuts)
}

// GetCachePrunes returns the number of prunes.
func (l *localCacheImpl[K, V]) GetCachePrunes() int64 {
	return atomic.LoadInt64(&l.cachePrunes)
}

// GetTotalGets returns the total gets against the cache.
func (l *localCacheImpl[K, V]) GetTotalGets() int64 {
	return l.GetCacheHits() + l.GetCacheMisses()
}

// GetHitRate returns the ratio of hits to total gets.
func (l *localCacheImpl[K, V]) GetHitRate() float32 {
	total := l.GetCacheHits() + l.GetCacheMisses()
	if total == 0 {
		return 0.0
	}
	return float32(l.GetCacheHits()) / float32(total)
}

// ResetStats resets the cache statistics.
func (l *localCacheImpl[K, V]) ResetStats() {
	atomic.StoreInt64(&l.cacheMissNanos, 0)
	atomic.StoreInt64(&l.cachePruneNanos, 0)
	atomic.StoreInt64(&l.cachePrunes, 0)
	atomic.StoreInt64(&l.cacheHits, 0)
	atomic.StoreInt64(&l.cacheMisses, 0)
	atomic.StoreInt64(&l.cachePuts, 0)
}

func (l *localCacheImpl[K, V]) String() string {
	return fmt.Sprintf("LocalCache{name=%s, size=%d, hits=%d, misses=%d, puts=%d, hitRate=%.2f, prunes=%d}",
		l.name, l.Size(), l.GetCacheHits(), l.GetCacheMisses(), l.GetCachePuts(), l.GetHitRate()*100, l.GetCachePrunes())
}
