/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/oracle/gridcache-go/api"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fakeEventsStream drives the bidirectional events handler from a test.
type fakeEventsStream struct {
	*fakeServerStream
	requests  chan *api.MapListenerRequest
	responses chan *api.MapListenerResponse
	cancel    context.CancelFunc
}

func newFakeEventsStream() *fakeEventsStream {
	ctx, cancel := context.WithCancel(context.Background())
	return &fakeEventsStream{
		fakeServerStream: newFakeServerStream(ctx),
		requests:         make(chan *api.MapListenerRequest, 16),
		responses:        make(chan *api.MapListenerResponse, 1024),
		cancel:           cancel,
	}
}

func (f *fakeEventsStream) Send(resp *api.MapListenerResponse) error {
	f.responses <- resp
	return nil
}

func (f *fakeEventsStream) Recv() (*api.MapListenerRequest, error) {
	req, ok := <-f.requests
	if !ok {
		return nil, io.EOF
	}
	return req, nil
}

func (f *fakeEventsStream) close() {
	close(f.requests)
	f.cancel()
}

func (f *fakeEventsStream) expect(t *testing.T, wanted api.ListenerResponseType) *api.MapListenerResponse {
	t.Helper()
	select {
	case resp := <-f.responses:
		if resp.Type != wanted {
			t.Fatalf("expected response type %v, got %v (%+v)", wanted, resp.Type, resp)
		}
		return resp
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for response type %v", wanted)
		return nil
	}
}

func startEvents(t *testing.T, s *NamedCacheService) (*fakeEventsStream, chan error) {
	t.Helper()

	stream := newFakeEventsStream()
	done := make(chan error, 1)
	go func() {
		done <- s.Events(stream)
	}()

	stream.requests <- &api.MapListenerRequest{Type: api.ListenerInit, Format: "json"}
	stream.expect(t, api.ListenerSubscribed)
	return stream, done
}

func TestEventOrderingForKey(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
		key   = mustEncode(t, codec, "k")
	)

	stream, done := startEvents(t, s)
	defer func() {
		stream.close()
		<-done
	}()

	stream.requests <- &api.MapListenerRequest{
		Type: api.ListenerSubscribe, Cache: "orders", Format: "json", FilterID: 1}
	stream.expect(t, api.ListenerSubscribed)

	if _, err := s.Put(ctx, &api.PutRequest{Cache: "orders", Format: "json", Key: key, Value: mustEncode(t, codec, 1)}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err := s.Put(ctx, &api.PutRequest{Cache: "orders", Format: "json", Key: key, Value: mustEncode(t, codec, 2)}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err := s.Remove(ctx, &api.RemoveRequest{Cache: "orders", Format: "json", Key: key}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	// events for one key arrive in backend-observed order
	insert := stream.expect(t, api.ListenerEvent)
	if insert.Event.ID != api.EntryInserted {
		t.Fatalf("expected insert first, got %v", insert.Event.ID)
	}
	if mustDecode(t, codec, insert.Event.NewValue) != float64(1) {
		t.Fatalf("unexpected insert value %v", insert.Event.NewValue)
	}

	update := stream.expect(t, api.ListenerEvent)
	if update.Event.ID != api.EntryUpdated {
		t.Fatalf("expected update second, got %v", update.Event.ID)
	}
	if mustDecode(t, codec, update.Event.OldValue) != float64(1) || mustDecode(t, codec, update.Event.NewValue) != float64(2) {
		t.Fatalf("unexpected update values %+v", update.Event)
	}

	deleted := stream.expect(t, api.ListenerEvent)
	if deleted.Event.ID != api.EntryDeleted {
		t.Fatalf("expected delete last, got %v", deleted.Event.ID)
	}
	if mustDecode(t, codec, deleted.Event.OldValue) != float64(2) {
		t.Fatalf("unexpected delete old value %v", deleted.Event.OldValue)
	}
}

func TestDuplicateFilterIDRejected(t *testing.T) {
	s := newTestService(t, JSONCodec{})

	stream, done := startEvents(t, s)
	defer func() {
		stream.close()
		<-done
	}()

	stream.requests <- &api.MapListenerRequest{Type: api.ListenerSubscribe, Cache: "c", Format: "json", FilterID: 7}
	stream.expect(t, api.ListenerSubscribed)

	stream.requests <- &api.MapListenerRequest{Type: api.ListenerSubscribe, Cache: "c", Format: "json", FilterID: 7}
	stream.expect(t, api.ListenerError)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
	)

	stream, done := startEvents(t, s)
	defer func() {
		stream.close()
		<-done
	}()

	stream.requests <- &api.MapListenerRequest{Type: api.ListenerSubscribe, Cache: "c", Format: "json", FilterID: 1}
	stream.expect(t, api.ListenerSubscribed)

	stream.requests <- &api.MapListenerRequest{Type: api.ListenerUnsubscribe, Cache: "c", FilterID: 1}
	stream.expect(t, api.ListenerUnsubscribed)

	// a second unsubscribe is a no-op and produces no acknowledgment
	stream.requests <- &api.MapListenerRequest{Type: api.ListenerUnsubscribe, Cache: "c", FilterID: 1}

	// events no longer flow to the cancelled registration
	if _, err := s.Put(ctx, &api.PutRequest{Cache: "c", Format: "json",
		Key: mustEncode(t, codec, "k"), Value: mustEncode(t, codec, "v")}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	select {
	case resp := <-stream.responses:
		t.Fatalf("expected no response, got %+v", resp)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPrimingDeliversSyntheticInserts(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
	)

	for i := 0; i < 3; i++ {
		if _, err := s.Put(ctx, &api.PutRequest{Cache: "warm", Format: "json",
			Key: mustEncode(t, codec, i), Value: mustEncode(t, codec, i)}); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	stream, done := startEvents(t, s)
	defer func() {
		stream.close()
		<-done
	}()

	stream.requests <- &api.MapListenerRequest{
		Type: api.ListenerSubscribe, Cache: "warm", Format: "json", FilterID: 1, Priming: true}
	stream.expect(t, api.ListenerSubscribed)

	for i := 0; i < 3; i++ {
		event := stream.expect(t, api.ListenerEvent)
		if !event.Event.Synthetic || !event.Event.Priming {
			t.Fatalf("expected synthetic priming insert, got %+v", event.Event)
		}
		if event.Event.ID != api.EntryInserted {
			t.Fatalf("expected insert, got %v", event.Event.ID)
		}
	}
}

func TestLiteSubscriptionOmitsValues(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
	)

	stream, done := startEvents(t, s)
	defer func() {
		stream.close()
		<-done
	}()

	stream.requests <- &api.MapListenerRequest{
		Type: api.ListenerSubscribe, Cache: "lite", Format: "json", FilterID: 1, Lite: true}
	stream.expect(t, api.ListenerSubscribed)

	if _, err := s.Put(ctx, &api.PutRequest{Cache: "lite", Format: "json",
		Key: mustEncode(t, codec, "k"), Value: mustEncode(t, codec, "v")}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	event := stream.expect(t, api.ListenerEvent)
	if len(event.Event.Key) == 0 {
		t.Fatal("expected key on lite event")
	}
	if len(event.Event.NewValue) != 0 || len(event.Event.OldValue) != 0 {
		t.Fatalf("expected no values on lite event, got %+v", event.Event)
	}
}

func TestTruncateDeliveredOncePerStream(t *testing.T) {
	var (
		s   = newTestService(t, JSONCodec{})
		ctx = context.Background()
	)

	stream, done := startEvents(t, s)
	defer func() {
		stream.close()
		<-done
	}()

	// two filter registrations on the same cache
	stream.requests <- &api.MapListenerRequest{Type: api.ListenerSubscribe, Cache: "t", Format: "json", FilterID: 1}
	stream.expect(t, api.ListenerSubscribed)
	stream.requests <- &api.MapListenerRequest{Type: api.ListenerSubscribe, Cache: "t", Format: "json", FilterID: 2}
	stream.expect(t, api.ListenerSubscribed)

	if _, err := s.Truncate(ctx, &api.TruncateRequest{Cache: "t"}); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}

	stream.expect(t, api.ListenerTruncated)

	// exactly one TRUNCATED regardless of the registration count
	select {
	case resp := <-stream.responses:
		t.Fatalf("expected a single TRUNCATED, got extra %+v", resp)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDestroyClosesStream(t *testing.T) {
	var (
		s   = newTestService(t, JSONCodec{})
		ctx = context.Background()
	)

	stream, done := startEvents(t, s)

	stream.requests <- &api.MapListenerRequest{Type: api.ListenerSubscribe, Cache: "d", Format: "json", FilterID: 1}
	stream.expect(t, api.ListenerSubscribed)

	if _, err := s.Destroy(ctx, &api.DestroyRequest{Cache: "d"}); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}

	stream.expect(t, api.ListenerDestroyed)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean close after destroy, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not close after destroy")
	}
	stream.close()
}

func TestEventBufferOverflowClosesStream(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
	)

	// a stream whose Send blocks forever, so the buffer fills
	stream := newFakeEventsStream()
	stream.responses = make(chan *api.MapListenerResponse) // unbuffered, never drained after setup

	done := make(chan error, 1)
	go func() {
		done <- s.Events(stream)
	}()

	stream.requests <- &api.MapListenerRequest{Type: api.ListenerInit, Format: "json"}
	<-stream.responses // INIT ack

	stream.requests <- &api.MapListenerRequest{Type: api.ListenerSubscribe, Cache: "slow", Format: "json", FilterID: 1}
	<-stream.responses // SUBSCRIBED ack

	// overflow the bounded buffer; events must never be silently dropped, so
	// the stream terminates instead
	for i := 0; i < s.cfg.EventBufferHighWater*4; i++ {
		if _, err := s.Put(ctx, &api.PutRequest{Cache: "slow", Format: "json",
			Key: mustEncode(t, codec, i), Value: mustEncode(t, codec, i)}); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	select {
	case err := <-done:
		if status.Code(err) != codes.ResourceExhausted {
			t.Fatalf("expected RESOURCE_EXHAUSTED, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not terminate on buffer overflow")
	}
	stream.cancel()
	close(stream.requests)
}
