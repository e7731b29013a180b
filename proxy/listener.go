/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/oracle/gridcache-go/api"
	"github.com/oracle/gridcache-go/backend"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mapListenerProxy multiplexes N listener registrations over one
// bidirectional stream. Client messages subscribe, reconfigure and cancel
// filtered or per-key listeners; server messages acknowledge registrations
// and deliver events, truncation and destruction notifications.
//
// Outbound messages pass through a bounded buffer. A subscriber that cannot
// keep up has its stream terminated with RESOURCE_EXHAUSTED once the buffer
// high water mark is exceeded; events are never silently dropped.
type mapListenerProxy struct {
	service *NamedCacheService
	stream  api.NamedCacheService_EventsServer
	uid     string

	scope  string
	format string

	buffer   chan *api.MapListenerResponse
	done     chan error
	doneOnce sync.Once
	closed   atomic.Bool

	mu     sync.Mutex
	caches map[string]*cacheRegistrations
}

// cacheRegistrations tracks one cache's registrations on a stream. The
// lifecycle registration exists once per (stream, cache) so truncation and
// destruction produce exactly one notification regardless of how many
// filters are registered.
type cacheRegistrations struct {
	holder      *RequestHolder
	lifecycleID uint64
	filters     map[int64]uint64
	keys        map[string]uint64
}

func newMapListenerProxy(service *NamedCacheService, stream api.NamedCacheService_EventsServer) *mapListenerProxy {
	return &mapListenerProxy{
		service: service,
		stream:  stream,
		uid:     uuid.New().String(),
		buffer:  make(chan *api.MapListenerResponse, service.cfg.EventBufferHighWater),
		done:    make(chan error, 1),
		caches:  make(map[string]*cacheRegistrations),
	}
}

func (p *mapListenerProxy) run() error {
	p.service.metrics.eventStreams.Inc()
	defer p.service.metrics.eventStreams.Dec()

	go p.sendLoop()
	go p.recvLoop()

	err := <-p.done
	p.closed.Store(true)
	p.cleanup()
	return ensureStatusError(err)
}

func (p *mapListenerProxy) finish(err error) {
	p.doneOnce.Do(func() {
		p.done <- err
	})
}

// enqueue offers a response to the outbound buffer without blocking the
// caller, which may be a backend dispatch goroutine.
func (p *mapListenerProxy) enqueue(resp *api.MapListenerResponse) {
	if p.closed.Load() {
		return
	}
	select {
	case p.buffer <- resp:
	default:
		p.service.metrics.eventOverflow.Inc()
		logWarning("event stream %s exceeded buffer high water mark (%d), closing",
			p.uid, p.service.cfg.EventBufferHighWater)
		p.finish(status.Error(codes.ResourceExhausted, "event buffer overflow"))
	}
}

func (p *mapListenerProxy) sendLoop() {
	for {
		select {
		case resp := <-p.buffer:
			if err := p.stream.Send(resp); err != nil {
				p.finish(err)
				return
			}
			if resp.Type == api.ListenerDestroyed {
				// destruction is the final message on the stream
				p.finish(nil)
				return
			}
			if resp.Type == api.ListenerEvent {
				p.service.metrics.eventsEmitted.Inc()
			}
		case <-p.stream.Context().Done():
			return
		}
	}
}

func (p *mapListenerProxy) recvLoop() {
	for {
		req, err := p.stream.Recv()
		if err != nil {
			// io.EOF and client cancellation both end the stream
			p.finish(nil)
			return
		}
		switch req.Type {
		case api.ListenerInit:
			p.scope = req.Scope
			p.format = req.Format
			p.enqueue(&api.MapListenerResponse{Type: api.ListenerSubscribed, UID: p.uid})
		case api.ListenerSubscribe:
			p.subscribe(req)
		case api.ListenerUnsubscribe:
			p.unsubscribe(req)
		default:
			p.enqueue(&api.MapListenerResponse{
				Type:  api.ListenerError,
				Cache: req.Cache,
				Error: "unknown listener request type",
			})
		}
	}
}

// ensureCache lazily resolves the cache and installs the per-cache lifecycle
// registration on first touch.
func (p *mapListenerProxy) ensureCache(cacheName, format string) (*cacheRegistrations, error) {
	if format == "" {
		format = p.format
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if state, ok := p.caches[cacheName]; ok {
		return state, nil
	}

	holder, err := p.service.createHolder(p.scope, cacheName, format)
	if err != nil {
		return nil, err
	}

	// a never-matching filter keeps the lifecycle registration silent for
	// map events while still observing truncation and destruction
	never, err := holder.CacheCodec().Encode(map[string]any{"@class": "filter.NeverFilter"})
	if err != nil {
		return nil, err
	}
	lifecycleID, err := holder.Cache().AddListener(backend.ListenerRegistration{
		Filter:   never,
		Listener: &lifecycleListener{proxy: p, cache: cacheName},
	})
	if err != nil {
		return nil, err
	}

	state := &cacheRegistrations{
		holder:      holder,
		lifecycleID: lifecycleID,
		filters:     make(map[int64]uint64),
		keys:        make(map[string]uint64),
	}
	p.caches[cacheName] = state
	return state, nil
}

func (p *mapListenerProxy) subscribe(req *api.MapListenerRequest) {
	state, err := p.ensureCache(req.Cache, req.Format)
	if err != nil {
		p.sendError(req, err)
		return
	}

	isKey := len(req.Key) != 0

	p.mu.Lock()
	if isKey {
		if _, dup := state.keys[string(req.Key)]; dup {
			p.mu.Unlock()
			p.sendError(req, errInvalidArgument("duplicate key registration"))
			return
		}
	} else if _, dup := state.filters[req.FilterID]; dup {
		p.mu.Unlock()
		p.sendError(req, errInvalidArgument("duplicate filter id registration"))
		return
	}
	p.mu.Unlock()

	reg := backend.ListenerRegistration{
		Lite:    req.Lite,
		Priming: req.Priming,
		Listener: &eventListener{
			proxy:    p,
			holder:   state.holder,
			cache:    req.Cache,
			filterID: req.FilterID,
			keyed:    isKey,
		},
	}

	var convErr error
	if isKey {
		reg.Key, convErr = state.holder.ConvertKeyDown(req.Key)
	} else if len(req.Filter) != 0 {
		reg.Filter, convErr = state.holder.ConvertDown(req.Filter)
	}
	if convErr != nil {
		p.sendError(req, convErr)
		return
	}

	// acknowledge before registering so priming events follow the ack
	p.enqueue(&api.MapListenerResponse{
		Type:     api.ListenerSubscribed,
		Cache:    req.Cache,
		UID:      p.uid,
		FilterID: req.FilterID,
		Key:      req.Key,
	})

	id, err := state.holder.Cache().AddListener(reg)
	if err != nil {
		p.sendError(req, err)
		return
	}

	p.mu.Lock()
	if isKey {
		state.keys[string(req.Key)] = id
	} else {
		state.filters[req.FilterID] = id
	}
	p.mu.Unlock()
}

// unsubscribe cancels a registration; cancelling an unknown registration is
// a no-op and produces no second acknowledgment.
func (p *mapListenerProxy) unsubscribe(req *api.MapListenerRequest) {
	p.mu.Lock()
	state, ok := p.caches[req.Cache]
	if !ok {
		p.mu.Unlock()
		return
	}

	var (
		id    uint64
		found bool
	)
	if len(req.Key) != 0 {
		if id, found = state.keys[string(req.Key)]; found {
			delete(state.keys, string(req.Key))
		}
	} else if id, found = state.filters[req.FilterID]; found {
		delete(state.filters, req.FilterID)
	}
	p.mu.Unlock()

	if !found {
		return
	}

	state.holder.Cache().RemoveListener(id)
	p.enqueue(&api.MapListenerResponse{
		Type:     api.ListenerUnsubscribed,
		Cache:    req.Cache,
		UID:      p.uid,
		FilterID: req.FilterID,
		Key:      req.Key,
	})
}

func (p *mapListenerProxy) sendError(req *api.MapListenerRequest, err error) {
	p.enqueue(&api.MapListenerResponse{
		Type:     api.ListenerError,
		Cache:    req.Cache,
		UID:      p.uid,
		FilterID: req.FilterID,
		Error:    ensureStatusError(err).Error(),
	})
}

// cleanup removes every backend registration owned by the stream.
func (p *mapListenerProxy) cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, state := range p.caches {
		cache := state.holder.Cache()
		cache.RemoveListener(state.lifecycleID)
		for _, id := range state.filters {
			cache.RemoveListener(id)
		}
		for _, id := range state.keys {
			cache.RemoveListener(id)
		}
		delete(p.caches, name)
	}
}

// eventListener adapts backend events for one registration into responses on
// the owning stream. Events for a key are delivered in backend-observed order
// because dispatch happens on the mutating goroutine and the buffer preserves
// insertion order.
type eventListener struct {
	proxy    *mapListenerProxy
	holder   *RequestHolder
	cache    string
	filterID int64
	keyed    bool
}

func (l *eventListener) OnEvent(event backend.MapEvent) {
	keyUp, err := l.holder.ConvertUp(event.Key)
	if err != nil {
		logError("unable to convert event key: %v", err)
		return
	}
	resp := &api.MapEventResponse{
		ID:        api.MapEventID(event.Type),
		Key:       keyUp,
		Synthetic: event.Synthetic,
		Priming:   event.Priming,
	}
	if !l.keyed {
		resp.FilterIDs = []int64{l.filterID}
	}
	if len(event.OldValue) != 0 {
		if resp.OldValue, err = l.holder.ConvertUp(event.OldValue); err != nil {
			logError("unable to convert event old value: %v", err)
			return
		}
	}
	if len(event.NewValue) != 0 {
		if resp.NewValue, err = l.holder.ConvertUp(event.NewValue); err != nil {
			logError("unable to convert event new value: %v", err)
			return
		}
	}

	l.proxy.enqueue(&api.MapListenerResponse{
		Type:  api.ListenerEvent,
		Cache: l.cache,
		UID:   l.proxy.uid,
		Event: resp,
	})
}

func (l *eventListener) OnTruncated() {
	// lifecycle notifications are raised once per stream by the lifecycle
	// registration, not once per filter
}

func (l *eventListener) OnDestroyed() {
}

// lifecycleListener turns cache lifecycle callbacks into exactly one
// TRUNCATED or DESTROYED notification per stream.
type lifecycleListener struct {
	proxy *mapListenerProxy
	cache string
}

func (l *lifecycleListener) OnEvent(backend.MapEvent) {
}

func (l *lifecycleListener) OnTruncated() {
	l.proxy.enqueue(&api.MapListenerResponse{
		Type:  api.ListenerTruncated,
		Cache: l.cache,
		UID:   l.proxy.uid,
	})
}

func (l *lifecycleListener) OnDestroyed() {
	l.proxy.enqueue(&api.MapListenerResponse{
		Type:  api.ListenerDestroyed,
		Cache: l.cache,
		UID:   l.proxy.uid,
	})
}
