/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package backend

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// DefaultInstanceName is the name of the instance used when no multi-tenant
// prefix is in play.
const DefaultInstanceName = ""

var instances = xsync.NewMapOf[string, *Instance]()

// Instance is a named registry of caches, one per tenant or application in a
// multi-tenant process. The resolver locates an instance by its derived name
// and obtains cache handles from it.
type Instance struct {
	name string
	svc  *LocalService

	mu     sync.Mutex
	caches map[string]Cache
	near   map[string]bool
}

// NewInstance creates and registers an instance backed by svc. Registering a
// second instance with the same name replaces the first.
func NewInstance(name string, svc *LocalService) *Instance {
	inst := &Instance{
		name:   name,
		svc:    svc,
		caches: make(map[string]Cache),
		near:   make(map[string]bool),
	}
	instances.Store(name, inst)
	return inst
}

// GetInstance returns the instance registered under name, or nil.
func GetInstance(name string) *Instance {
	inst, _ := instances.Load(name)
	return inst
}

// InstanceNames returns the names of all registered instances.
func InstanceNames() []string {
	var names []string
	instances.Range(func(name string, _ *Instance) bool {
		names = append(names, name)
		return true
	})
	return names
}

// RemoveInstance deregisters the instance with the given name.
func RemoveInstance(name string) {
	instances.Delete(name)
}

// Name returns the instance name.
func (i *Instance) Name() string { return i.name }

// Service returns the instance's cache service.
func (i *Instance) Service() *LocalService { return i.svc }

// SetNearCache marks a cache name so EnsureCache returns a near-cache wrapper
// around the partitioned store.
func (i *Instance) SetNearCache(cacheName string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.near[cacheName] = true
}

// EnsureCache returns the cache for (scope, name), creating it on first use.
// Equal (scope, name) pairs always yield the same handle until ReleaseCache
// drops it; destroying the cache alone does not.
func (i *Instance) EnsureCache(scope, name string) Cache {
	key := scope + "$" + name

	i.mu.Lock()
	defer i.mu.Unlock()

	// a destroyed cache stays in the store so every subsequent operation on
	// it fails until the handle is explicitly released
	if c, ok := i.caches[key]; ok {
		return c
	}

	var c Cache = NewLocalCache(name, i.svc)
	if i.near[name] {
		c = NewNearCache(c)
	}
	i.caches[key] = c
	return c
}

// ReleaseCache drops the instance's reference to a destroyed cache so a later
// EnsureCache creates a fresh one.
func (i *Instance) ReleaseCache(scope, name string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.caches, scope+"$"+name)
}

// NearCache is a front tier over a partitioned cache. When the hosting
// process is storage enabled the proxy bypasses the front tier and uses the
// back cache directly; leaving it in place would double listener delivery.
type NearCache struct {
	Cache

	mu    sync.RWMutex
	front map[string]Binary
}

// NewNearCache wraps back with a front tier.
func NewNearCache(back Cache) *NearCache {
	return &NearCache{Cache: back, front: make(map[string]Binary)}
}

// Back returns the wrapped partitioned cache.
func (n *NearCache) Back() Cache { return n.Cache }

// FrontSize returns the number of entries in the front tier.
func (n *NearCache) FrontSize() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.front)
}
