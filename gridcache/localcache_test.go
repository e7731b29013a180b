/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package gridcache

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestBasicLocalCacheOperations(t *testing.T) {
	g := NewWithT(t)
	cache := newLocalCache[int, string]("basic")

	g.Expect(cache.Size()).To(Equal(0))
	g.Expect(cache.Get(1)).To(BeNil())

	old := cache.Put(1, "one")
	g.Expect(old).To(BeNil())
	g.Expect(cache.Size()).To(Equal(1))

	value := cache.Get(1)
	g.Expect(value).To(Not(BeNil()))
	g.Expect(*value).To(Equal("one"))

	old = cache.Put(1, "ONE")
	g.Expect(*old).To(Equal("one"))

	removed := cache.Remove(1)
	g.Expect(*removed).To(Equal("ONE"))
	g.Expect(cache.Size()).To(Equal(0))
	g.Expect(cache.Remove(1)).To(BeNil())
}

func TestLocalCacheExpiry(t *testing.T) {
	g := NewWithT(t)
	cache := newLocalCache[int, string]("expiring", withLocalCacheExpiry(50*time.Millisecond))

	cache.Put(1, "one")
	g.Expect(cache.Get(1)).To(Not(BeNil()))

	time.Sleep(100 * time.Millisecond)
	g.Expect(cache.Get(1)).To(BeNil())
	g.Expect(cache.Size()).To(Equal(0))
}

func TestLocalCachePutWithExpiryOverride(t *testing.T) {
	g := NewWithT(t)
	cache := newLocalCache[int, string]("override", withLocalCacheExpiry(time.Hour))

	cache.PutWithExpiry(1, "short", 50*time.Millisecond)
	cache.Put(2, "long")

	time.Sleep(100 * time.Millisecond)
	g.Expect(cache.Get(1)).To(BeNil())
	g.Expect(cache.Get(2)).To(Not(BeNil()))
}

func TestLocalCacheHighUnitsPruning(t *testing.T) {
	g := NewWithT(t)
	cache := newLocalCache[int, int]("pruned",
		withLocalCacheHighUnits(100), withLocalCachePruneFactor(0.8))

	for i := 0; i < 150; i++ {
		cache.Put(i, i)
		// spread insert times so eviction age ordering is stable
		if i%50 == 0 {
			time.Sleep(time.Millisecond)
		}
	}

	// the cache prunes down towards highUnits * pruneFactor
	g.Expect(cache.Size() <= 100).To(BeTrue(), "size %d should not exceed the high units", cache.Size())
	g.Expect(cache.GetCachePrunes() > 0).To(BeTrue())
}

func TestLocalCacheStats(t *testing.T) {
	g := NewWithT(t)
	cache := newLocalCache[int, string]("stats")

	cache.Put(1, "one")
	cache.registerHit()
	cache.registerMiss()
	cache.registerMiss()

	g.Expect(cache.GetCachePuts()).To(Equal(int64(1)))
	g.Expect(cache.GetCacheHits()).To(Equal(int64(1)))
	g.Expect(cache.GetCacheMisses()).To(Equal(int64(2)))
	g.Expect(cache.GetTotalGets()).To(Equal(int64(3)))
	g.Expect(cache.GetHitRate()).To(BeNumerically("~", 0.333, 0.01))

	cache.ResetStats()
	g.Expect(cache.GetTotalGets()).To(Equal(int64(0)))
}

func TestLocalCacheGetAll(t *testing.T) {
	g := NewWithT(t)
	cache := newLocalCache[int, string]("getall")

	cache.Put(1, "one")
	cache.Put(2, "two")

	results := cache.GetAll([]int{1, 2, 3})
	g.Expect(len(results)).To(Equal(2))
	g.Expect(*results[1]).To(Equal("one"))
	g.Expect(*results[2]).To(Equal("two"))
}

func TestNearCacheOptionsValidation(t *testing.T) {
	g := NewWithT(t)

	err := ensureNearCacheOptions(&NearCacheOptions{})
	g.Expect(err).To(HaveOccurred())

	options := &NearCacheOptions{TTL: time.Minute}
	g.Expect(ensureNearCacheOptions(options)).To(Succeed())
	g.Expect(options.PruneFactor).To(Equal(defaultPruneFactor))

	err = ensureNearCacheOptions(&NearCacheOptions{HighUnits: 10, PruneFactor: 2})
	g.Expect(err).To(HaveOccurred())
}
