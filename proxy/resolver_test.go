/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"testing"

	"github.com/oracle/gridcache-go/backend"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestEffectiveScopeDerivation(t *testing.T) {
	ctx := &ContainerContext{AppName: "payments", Prefix: "$"}
	r := &Resolver{Context: ctx}

	tests := []struct {
		scope    string
		expected string
	}{
		{"", "payments"},
		{"payments", "payments"},
		{"$payments", "payments"}, // the derived MT name must not be concatenated again
		{"orders", "paymentsorders"},
	}
	for _, tc := range tests {
		if got := r.effectiveScope(tc.scope); got != tc.expected {
			t.Fatalf("effectiveScope(%q) = %q, expected %q", tc.scope, got, tc.expected)
		}
	}
}

func TestDefaultScopeApplied(t *testing.T) {
	r := &Resolver{DefaultScope: "tenant-a"}
	if got := r.effectiveScope(""); got != "tenant-a" {
		t.Fatalf("expected default scope, got %q", got)
	}
	if got := r.effectiveScope("explicit"); got != "explicit" {
		t.Fatalf("expected explicit scope, got %q", got)
	}
}

func TestResolverSameHandleForSamePair(t *testing.T) {
	svc := backend.NewLocalService(JSONCodec{}, backend.WithMembers(1))
	backend.NewInstance(backend.DefaultInstanceName, svc)
	defer backend.RemoveInstance(backend.DefaultInstanceName)

	r := &Resolver{}
	first, err := r.GetCache("s", "c", true)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	second, err := r.GetCache("s", "c", true)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if first != second {
		t.Fatal("expected the same handle for equal (scope, name)")
	}

	other, err := r.GetCache("other", "c", true)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if other == first {
		t.Fatal("expected a different handle for a different scope")
	}
}

func TestResolverEmptyCacheName(t *testing.T) {
	r := &Resolver{}
	for _, name := range []string{"", "   "} {
		_, err := r.GetCache("", name, true)
		if status.Code(err) != codes.InvalidArgument {
			t.Fatalf("expected INVALID_ARGUMENT for %q, got %v", name, err)
		}
	}
}

func TestResolverNoInstance(t *testing.T) {
	backend.RemoveInstance(backend.DefaultInstanceName)

	r := &Resolver{}
	_, err := r.GetCache("", "c", true)
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected INTERNAL for missing instance, got %v", err)
	}
}

func TestNearCacheBypassWhenStorageLocal(t *testing.T) {
	svc := backend.NewLocalService(JSONCodec{}, backend.WithMembers(1), backend.WithLocalStorage())
	inst := backend.NewInstance(backend.DefaultInstanceName, svc)
	defer backend.RemoveInstance(backend.DefaultInstanceName)

	inst.SetNearCache("fronted")

	r := &Resolver{}
	passThrough, err := r.GetCache("", "fronted", true)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	// the front tier is stripped on the pass-through path
	if _, isNear := passThrough.(*backend.NearCache); isNear {
		t.Fatal("expected the near cache front tier to be bypassed")
	}

	regular, err := r.GetCache("", "fronted", false)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if _, isNear := regular.(*backend.NearCache); !isNear {
		t.Fatal("expected the regular view to retain the near cache")
	}
}

func TestNearCacheKeptWhenStorageRemote(t *testing.T) {
	svc := backend.NewLocalService(JSONCodec{}, backend.WithMembers(1))
	inst := backend.NewInstance(backend.DefaultInstanceName, svc)
	defer backend.RemoveInstance(backend.DefaultInstanceName)

	inst.SetNearCache("fronted")

	r := &Resolver{}
	cache, err := r.GetCache("", "fronted", true)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if _, isNear := cache.(*backend.NearCache); !isNear {
		t.Fatal("expected the near cache to remain when storage is not local")
	}
}
