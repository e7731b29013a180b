/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"strings"

	"github.com/oracle/gridcache-go/backend"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ContainerContext carries the application identity of a container-managed
// deployment. Its presence changes how request scopes resolve to instances.
type ContainerContext struct {
	// AppName is the owning application's name.
	AppName string
	// Prefix separates the application name from a scope in derived names.
	Prefix string
}

// mtName derives the multi-tenant instance name for the context.
func (c *ContainerContext) mtName() string {
	return c.Prefix + c.AppName
}

// Resolver maps a request's (scope, cache) pair to backing cache handles.
// For equal pairs the same underlying handle is returned for the life of the
// cache.
type Resolver struct {
	// Context is nil outside a container deployment.
	Context *ContainerContext
	// DefaultScope is applied when a request omits its scope.
	DefaultScope string
}

// effectiveScope applies the container scoping rules: with a container
// context the effective scope is appName + scope, unless the requested scope
// is empty, already equal to the app name, or already the derived MT name —
// those must not be concatenated again.
func (r *Resolver) effectiveScope(scope string) string {
	if scope == "" {
		scope = r.DefaultScope
	}
	if r.Context == nil {
		return scope
	}
	appName := r.Context.AppName
	if scope == "" || scope == appName || scope == r.Context.mtName() {
		return appName
	}
	return appName + scope
}

// instanceName selects the registry entry to consult.
func (r *Resolver) instanceName() string {
	if r.Context == nil {
		return backend.DefaultInstanceName
	}
	return r.Context.mtName()
}

// GetCache resolves (scope, name) to a cache handle. The passThrough view
// keeps keys and values as raw bytes on the proxy; the regular view is used
// where the backend needs typed values, such as index construction.
//
// When the resolved cache is a near cache fronting a storage-enabled
// partitioned service in this process, the front tier is bypassed and the
// back cache used directly. This is a correctness concern, not an
// optimization: leaving the front tier in place doubles listener delivery
// and deserializes values on the proxy for no benefit.
func (r *Resolver) GetCache(scope, name string, passThrough bool) (backend.Cache, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errMissingCacheName()
	}

	instName := r.instanceName()
	inst := backend.GetInstance(instName)
	if inst == nil {
		names := strings.Join(backend.InstanceNames(), ",")
		return nil, status.Errorf(codes.Internal,
			"no instance exists with name %q [%s]", instName, names)
	}

	cache := inst.EnsureCache(r.effectiveScope(scope), name)

	if near, ok := cache.(*backend.NearCache); ok {
		svc := near.Service()
		if passThrough && svc.Partitioned() && svc.LocalStorageEnabled() {
			cache = near.Back()
		}
	}
	return cache, nil
}
