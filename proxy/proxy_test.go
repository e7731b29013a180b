/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"context"
	"testing"

	"github.com/oracle/gridcache-go/backend"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// newTestService builds a service over a fresh single-process instance with
// three members so ownership splits are observable.
func newTestService(t *testing.T, codec Codec) *NamedCacheService {
	t.Helper()

	svc := backend.NewLocalService(codec,
		backend.WithMembers(3), backend.WithPartitions(17), backend.WithLocalStorage())
	backend.NewInstance(backend.DefaultInstanceName, svc)
	t.Cleanup(func() {
		backend.RemoveInstance(backend.DefaultInstanceName)
	})

	cfg := DefaultConfig()
	cfg.WorkerThreads = 4
	cfg.EventBufferHighWater = 16
	cfg.TransferThreshold = 512

	service := NewNamedCacheService(cfg, &Resolver{}, nil)
	t.Cleanup(service.Close)
	return service
}

func mustEncode(t *testing.T, codec Codec, v any) []byte {
	t.Helper()
	data, err := codec.Encode(v)
	if err != nil {
		t.Fatalf("unable to encode %v: %v", v, err)
	}
	return data
}

func mustDecode(t *testing.T, codec Codec, data []byte) any {
	t.Helper()
	v, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("unable to decode: %v", err)
	}
	return v
}

// fakeServerStream satisfies grpc.ServerStream for handler tests.
type fakeServerStream struct {
	ctx context.Context
}

func newFakeServerStream(ctx context.Context) *fakeServerStream {
	return &fakeServerStream{ctx: ctx}
}

func (f *fakeServerStream) SetHeader(metadata.MD) error  { return nil }
func (f *fakeServerStream) SendHeader(metadata.MD) error { return nil }
func (f *fakeServerStream) SetTrailer(metadata.MD)       {}
func (f *fakeServerStream) Context() context.Context     { return f.ctx }
func (f *fakeServerStream) SendMsg(any) error            { return nil }
func (f *fakeServerStream) RecvMsg(any) error            { return nil }

var _ grpc.ServerStream = (*fakeServerStream)(nil)
