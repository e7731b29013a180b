/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package gridcache

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/oracle/gridcache-go/api"
	"github.com/oracle/gridcache-go/gridcache/filters"
)

// MapEventType describes an event that occurred against an entry.
type MapEventType string

// MapLifecycleEventType describes an event that occurred against a NamedMap
// or NamedCache as a whole.
type MapLifecycleEventType string

// SessionLifecycleEventType describes an event that occurred against a Session.
type SessionLifecycleEventType string

const (
	// EntryInserted indicates an entry was inserted.
	EntryInserted MapEventType = "insert"
	// EntryUpdated indicates an entry was updated.
	EntryUpdated MapEventType = "update"
	// EntryDeleted indicates an entry was deleted.
	EntryDeleted MapEventType = "delete"

	// Destroyed indicates the cache was destroyed.
	Destroyed MapLifecycleEventType = "map_destroyed"
	// Truncated indicates the cache was truncated.
	Truncated MapLifecycleEventType = "map_truncated"
	// Released indicates the local handle was released.
	Released MapLifecycleEventType = "map_released"

	// Connected indicates the session has connected.
	Connected SessionLifecycleEventType = "session_connected"
	// Disconnected indicates the session has disconnected.
	Disconnected SessionLifecycleEventType = "session_disconnected"
	// Reconnected indicates the session has re-connected.
	Reconnected SessionLifecycleEventType = "session_reconnected"
	// Closed indicates the session has been closed.
	Closed SessionLifecycleEventType = "session_closed"
)

// eventEmitter dispatches events of type E to callbacks registered under a
// label of type L.
type eventEmitter[L comparable, E any] struct {
	callbacks map[L][]func(E)
}

func newEventEmitter[L comparable, E any]() *eventEmitter[L, E] {
	return &eventEmitter[L, E]{callbacks: make(map[L][]func(E))}
}

func (ee *eventEmitter[L, E]) on(label L, callback func(E)) {
	ee.callbacks[label] = append(ee.callbacks[label], callback)
}

func (ee *eventEmitter[L, E]) emit(label L, event E) {
	if callbacks, ok := ee.callbacks[label]; ok {
		for _, c := range callbacks {
			c(event)
		}
	}
}

// SessionLifecycleEvent is an event raised against a Session.
type SessionLifecycleEvent interface {
	Type() SessionLifecycleEventType
	Source() *Session
}

type sessionLifecycleEvent struct {
	source    *Session
	eventType SessionLifecycleEventType
}

func newSessionLifecycleEvent(session *Session, eventType SessionLifecycleEventType) SessionLifecycleEvent {
	return &sessionLifecycleEvent{source: session, eventType: eventType}
}

func (se *sessionLifecycleEvent) Type() SessionLifecycleEventType {
	return se.eventType
}

func (se *sessionLifecycleEvent) Source() *Session {
	return se.source
}

func (se *sessionLifecycleEvent) String() string {
	return fmt.Sprintf("SessionLifecycleEvent{source=%v, type=%s}", se.source, se.eventType)
}

// SessionLifecycleListener receives session lifecycle events.
type SessionLifecycleListener interface {
	OnConnected(callback func(SessionLifecycleEvent)) SessionLifecycleListener
	OnDisconnected(callback func(SessionLifecycleEvent)) SessionLifecycleListener
	OnReconnected(callback func(SessionLifecycleEvent)) SessionLifecycleListener
	OnClosed(callback func(SessionLifecycleEvent)) SessionLifecycleListener
	OnAny(callback func(SessionLifecycleEvent)) SessionLifecycleListener
	getEmitter() *eventEmitter[SessionLifecycleEventType, SessionLifecycleEvent]
}

type sessionLifecycleListener struct {
	emitter *eventEmitter[SessionLifecycleEventType, SessionLifecycleEvent]
}

// NewSessionLifecycleListener creates and returns a pointer to a new
// SessionLifecycleListener.
func NewSessionLifecycleListener() SessionLifecycleListener {
	return &sessionLifecycleListener{emitter: newEventEmitter[SessionLifecycleEventType, SessionLifecycleEvent]()}
}

func (sl *sessionLifecycleListener) getEmitter() *eventEmitter[SessionLifecycleEventType, SessionLifecycleEvent] {
	return sl.emitter
}

func (sl *sessionLifecycleListener) on(event SessionLifecycleEventType, callback func(SessionLifecycleEvent)) SessionLifecycleListener {
	sl.emitter.on(event, callback)
	return sl
}

// OnConnected registers a callback for Connected events.
func (sl *sessionLifecycleListener) OnConnected(callback func(SessionLifecycleEvent)) SessionLifecycleListener {
	return sl.on(Connected, callback)
}

// OnDisconnected registers a callback for Disconnected events.
func (sl *sessionLifecycleListener) OnDisconnected(callback func(SessionLifecycleEvent)) SessionLifecycleListener {
	return sl.on(Disconnected, callback)
}

// OnReconnected registers a callback for Reconnected events.
func (sl *sessionLifecycleListener) OnReconnected(callback func(SessionLifecycleEvent)) SessionLifecycleListener {
	return sl.on(Reconnected, callback)
}

// OnClosed registers a callback for Closed events.
func (sl *sessionLifecycleListener) OnClosed(callback func(SessionLifecycleEvent)) SessionLifecycleListener {
	return sl.on(Closed, callback)
}

// OnAny registers a callback for every session lifecycle event.
func (sl *sessionLifecycleListener) OnAny(callback func(SessionLifecycleEvent)) SessionLifecycleListener {
	return sl.on(Connected, callback).
		OnDisconnected(callback).OnReconnected(callback).OnClosed(callback)
}

// MapLifecycleEvent is an event raised against a NamedMap as a whole.
type MapLifecycleEvent[K comparable, V any] interface {
	Type() MapLifecycleEventType
	Source() NamedMap[K, V]
}

type mapLifecycleEvent[K comparable, V any] struct {
	source    NamedMap[K, V]
	eventType MapLifecycleEventType
}

func newMapLifecycleEvent[K comparable, V any](nm NamedMap[K, V], eventType MapLifecycleEventType) MapLifecycleEvent[K, V] {
	return &mapLifecycleEvent[K, V]{source: nm, eventType: eventType}
}

// Type returns the type of this event.
func (l *mapLifecycleEvent[K, V]) Type() MapLifecycleEventType {
	return l.eventType
}

// Source returns the source of this event.
func (l *mapLifecycleEvent[K, V]) Source() NamedMap[K, V] {
	return l.source
}

func (l *mapLifecycleEvent[K, V]) String() string {
	return fmt.Sprintf("MapLifecycleEvent{source=%v, type=%s}", l.Source().Name(), l.Type())
}

// MapLifecycleListener receives map lifecycle events.
type MapLifecycleListener[K comparable, V any] interface {
	OnDestroyed(callback func(MapLifecycleEvent[K, V])) MapLifecycleListener[K, V]
	OnTruncated(callback func(MapLifecycleEvent[K, V])) MapLifecycleListener[K, V]
	OnReleased(callback func(MapLifecycleEvent[K, V])) MapLifecycleListener[K, V]
	OnAny(callback func(MapLifecycleEvent[K, V])) MapLifecycleListener[K, V]
	getEmitter() *eventEmitter[MapLifecycleEventType, MapLifecycleEvent[K, V]]
}

type mapLifecycleListener[K comparable, V any] struct {
	emitter *eventEmitter[MapLifecycleEventType, MapLifecycleEvent[K, V]]
}

// NewMapLifecycleListener creates and returns a pointer to a new
// MapLifecycleListener.
func NewMapLifecycleListener[K comparable, V any]() MapLifecycleListener[K, V] {
	return &mapLifecycleListener[K, V]{emitter: newEventEmitter[MapLifecycleEventType, MapLifecycleEvent[K, V]]()}
}

func (l *mapLifecycleListener[K, V]) getEmitter() *eventEmitter[MapLifecycleEventType, MapLifecycleEvent[K, V]] {
	return l.emitter
}

func (l *mapLifecycleListener[K, V]) on(event MapLifecycleEventType, callback func(MapLifecycleEvent[K, V])) MapLifecycleListener[K, V] {
	l.emitter.on(event, callback)
	return l
}

// OnDestroyed registers a callback for Destroyed events.
func (l *mapLifecycleListener[K, V]) OnDestroyed(callback func(MapLifecycleEvent[K, V])) MapLifecycleListener[K, V] {
	return l.on(Destroyed, callback)
}

// OnTruncated registers a callback for Truncated events.
func (l *mapLifecycleListener[K, V]) OnTruncated(callback func(MapLifecycleEvent[K, V])) MapLifecycleListener[K, V] {
	return l.on(Truncated, callback)
}

// OnReleased registers a callback for Released events.
func (l *mapLifecycleListener[K, V]) OnReleased(callback func(MapLifecycleEvent[K, V])) MapLifecycleListener[K, V] {
	return l.on(Released, callback)
}

// OnAny registers a callback for every map lifecycle event.
func (l *mapLifecycleListener[K, V]) OnAny(callback func(MapLifecycleEvent[K, V])) MapLifecycleListener[K, V] {
	return l.on(Destroyed, callback).OnTruncated(callback).OnReleased(callback)
}

// MapEvent is an event raised against a single entry.
type MapEvent[K comparable, V any] interface {
	Source() NamedMap[K, V]
	Key() (*K, error)
	OldValue() (*V, error)
	NewValue() (*V, error)
	Type() MapEventType
	IsSynthetic() bool
	IsPriming() bool
}

type mapEvent[K comparable, V any] struct {
	source   NamedMap[K, V]
	response *api.MapEventResponse
}

func newMapEvent[K comparable, V any](source NamedMap[K, V], response *api.MapEventResponse) *mapEvent[K, V] {
	return &mapEvent[K, V]{source: source, response: response}
}

// Key returns the key of the entry for which this event was raised.
func (e *mapEvent[K, V]) Key() (*K, error) {
	return e.source.getBaseClient().keySerializer.Deserialize(e.response.Key)
}

// OldValue returns the old value, if any; nil for inserts and lite events.
func (e *mapEvent[K, V]) OldValue() (*V, error) {
	if len(e.response.OldValue) == 0 {
		return nil, nil
	}
	return e.source.getBaseClient().valueSerializer.Deserialize(e.response.OldValue)
}

// NewValue returns the new value, if any; nil for deletes and lite events.
func (e *mapEvent[K, V]) NewValue() (*V, error) {
	if len(e.response.NewValue) == 0 {
		return nil, nil
	}
	return e.source.getBaseClient().valueSerializer.Deserialize(e.response.NewValue)
}

// Type returns the type of this event.
func (e *mapEvent[K, V]) Type() MapEventType {
	switch e.response.ID {
	case api.EntryInserted:
		return EntryInserted
	case api.EntryUpdated:
		return EntryUpdated
	default:
		return EntryDeleted
	}
}

// IsSynthetic returns true when the event was not caused by an actual mutation.
func (e *mapEvent[K, V]) IsSynthetic() bool {
	return e.response.Synthetic
}

// IsPriming returns true when the event was raised by a priming registration.
func (e *mapEvent[K, V]) IsPriming() bool {
	return e.response.Priming
}

func (e *mapEvent[K, V]) Source() NamedMap[K, V] {
	return e.source
}

func (e *mapEvent[K, V]) String() string {
	key, _ := e.Key()
	return fmt.Sprintf("MapEvent{source=%v, type=%s, key=%v}", e.source.Name(), e.Type(), key)
}

// MapListener receives map events.
type MapListener[K comparable, V any] interface {
	OnInserted(callback func(MapEvent[K, V])) MapListener[K, V]
	OnUpdated(callback func(MapEvent[K, V])) MapListener[K, V]
	OnDeleted(callback func(MapEvent[K, V])) MapListener[K, V]
	OnAny(callback func(MapEvent[K, V])) MapListener[K, V]
	dispatch(event MapEvent[K, V])
}

type mapListener[K comparable, V any] struct {
	emitter *eventEmitter[MapEventType, MapEvent[K, V]]
}

// NewMapListener creates and returns a pointer to a new MapListener.
func NewMapListener[K comparable, V any]() MapListener[K, V] {
	return &mapListener[K, V]{emitter: newEventEmitter[MapEventType, MapEvent[K, V]]()}
}

func (l *mapListener[K, V]) dispatch(event MapEvent[K, V]) {
	l.emitter.emit(event.Type(), event)
}

func (l *mapListener[K, V]) on(event MapEventType, callback func(MapEvent[K, V])) MapListener[K, V] {
	l.emitter.on(event, callback)
	return l
}

// OnInserted registers a callback for EntryInserted events.
func (l *mapListener[K, V]) OnInserted(callback func(MapEvent[K, V])) MapListener[K, V] {
	return l.on(EntryInserted, callback)
}

// OnUpdated registers a callback for EntryUpdated events.
func (l *mapListener[K, V]) OnUpdated(callback func(MapEvent[K, V])) MapListener[K, V] {
	return l.on(EntryUpdated, callback)
}

// OnDeleted registers a callback for EntryDeleted events.
func (l *mapListener[K, V]) OnDeleted(callback func(MapEvent[K, V])) MapListener[K, V] {
	return l.on(EntryDeleted, callback)
}

// OnAny registers a callback for every entry event.
func (l *mapListener[K, V]) OnAny(callback func(MapEvent[K, V])) MapListener[K, V] {
	return l.on(EntryInserted, callback).OnUpdated(callback).OnDeleted(callback)
}

// listenerGroup tracks the MapListeners registered under one key or filter
// registration so a single wire registration serves them all.
type listenerGroup[K comparable, V any] struct {
	listeners map[MapListener[K, V]]bool // true when registered lite
	filterID  int64
	key       []byte
	lite      bool
}

func (lg *listenerGroup[K, V]) notify(event MapEvent[K, V]) {
	for listener := range lg.listeners {
		listener.dispatch(event)
	}
}

// mapEventManager manages one cache's bidirectional event channel. All
// registrations for the cache are multiplexed over a single stream; the
// manager correlates acknowledgments, dispatches events to listener groups
// and raises lifecycle events for truncation and destruction.
type mapEventManager[K comparable, V any] struct {
	bc       *baseClient[K, V]
	namedMap NamedMap[K, V]
	session  *Session

	mutex              sync.Mutex
	stream             api.NamedCacheService_EventsClient
	cancel             context.CancelFunc
	filterGroups       map[string]*listenerGroup[K, V] // keyed by serialized filter
	keyGroups          map[string]*listenerGroup[K, V] // keyed by serialized key
	filterIDToGroup    map[int64]*listenerGroup[K, V]
	lifecycleListeners []*MapLifecycleListener[K, V]
	acks               map[string]chan error
	nextFilterID       atomic.Int64
	closed             bool
}

func newMapEventManager[K comparable, V any](bc *baseClient[K, V], nm NamedMap[K, V]) *mapEventManager[K, V] {
	return &mapEventManager[K, V]{
		bc:              bc,
		namedMap:        nm,
		session:         bc.session,
		filterGroups:    make(map[string]*listenerGroup[K, V]),
		keyGroups:       make(map[string]*listenerGroup[K, V]),
		filterIDToGroup: make(map[int64]*listenerGroup[K, V]),
		acks:            make(map[string]chan error),
	}
}

func (em *mapEventManager[K, V]) addLifecycleListener(listener MapLifecycleListener[K, V]) {
	for _, e := range em.lifecycleListeners {
		if *e == listener {
			return
		}
	}
	em.lifecycleListeners = append(em.lifecycleListeners, &listener)
}

func (em *mapEventManager[K, V]) removeLifecycleListener(listener MapLifecycleListener[K, V]) {
	idx := -1
	for i, c := range em.lifecycleListeners {
		if *c == listener {
			idx = i
			break
		}
	}
	if idx != -1 {
		em.lifecycleListeners = append(em.lifecycleListeners[:idx], em.lifecycleListeners[idx+1:]...)
	}
}

func (em *mapEventManager[K, V]) dispatch(eventType MapLifecycleEventType,
	creator func() MapLifecycleEvent[K, V]) {
	if len(em.lifecycleListeners) > 0 {
		event := creator()
		for _, l := range em.lifecycleListeners {
			e := *l
			e.getEmitter().emit(eventType, event)
		}
	}
}

// ensureStream lazily establishes the events channel, sending the INIT
// message and starting the receive loop.
func (em *mapEventManager[K, V]) ensureStream() (api.NamedCacheService_EventsClient, error) {
	em.mutex.Lock()
	defer em.mutex.Unlock()

	if em.stream != nil {
		return em.stream, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := em.bc.client.Events(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	err = stream.Send(&api.MapListenerRequest{
		Type:   api.ListenerInit,
		Scope:  em.bc.sessionOpts.Scope,
		Format: em.bc.format,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	// the INIT acknowledgment carries the stream uid
	if _, err = stream.Recv(); err != nil {
		cancel()
		return nil, err
	}

	em.stream = stream
	em.cancel = cancel

	go em.receiveLoop(stream)
	return stream, nil
}

func (em *mapEventManager[K, V]) receiveLoop(stream api.NamedCacheService_EventsClient) {
	for {
		response, err := stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			em.session.debug("event stream closed:", err)
			return
		}
		em.handleResponse(response)
	}
}

func (em *mapEventManager[K, V]) handleResponse(response *api.MapListenerResponse) {
	switch response.Type {
	case api.ListenerSubscribed:
		em.signalAck(ackKey(response.FilterID, response.Key), nil)
	case api.ListenerUnsubscribed:
		em.signalAck(ackKey(response.FilterID, response.Key), nil)
	case api.ListenerError:
		em.signalAck(ackKey(response.FilterID, response.Key), fmt.Errorf("listener registration failed: %s", response.Error))
	case api.ListenerEvent:
		em.dispatchEvent(response.Event)
	case api.ListenerTruncated:
		em.dispatch(Truncated, func() MapLifecycleEvent[K, V] {
			return newMapLifecycleEvent(em.namedMap, Truncated)
		})
	case api.ListenerDestroyed:
		em.dispatch(Destroyed, func() MapLifecycleEvent[K, V] {
			return newMapLifecycleEvent(em.namedMap, Destroyed)
		})
	}
}

func (em *mapEventManager[K, V]) dispatchEvent(response *api.MapEventResponse) {
	if response == nil {
		return
	}
	event := newMapEvent(em.namedMap, response)

	em.mutex.Lock()
	groups := make([]*listenerGroup[K, V], 0, len(response.FilterIDs)+1)
	for _, id := range response.FilterIDs {
		if group, ok := em.filterIDToGroup[id]; ok {
			groups = append(groups, group)
		}
	}
	if group, ok := em.keyGroups[string(response.Key)]; ok {
		groups = append(groups, group)
	}
	em.mutex.Unlock()

	for _, group := range groups {
		group.notify(event)
	}
}

func (em *mapEventManager[K, V]) signalAck(key string, err error) {
	em.mutex.Lock()
	ch, ok := em.acks[key]
	delete(em.acks, key)
	em.mutex.Unlock()
	if ok {
		ch <- err
	}
}

func ackKey(filterID int64, key []byte) string {
	if len(key) != 0 {
		return "key:" + string(key)
	}
	return fmt.Sprintf("filter:%d", filterID)
}

// subscribe sends a registration and waits for the acknowledgment.
func (em *mapEventManager[K, V]) subscribe(ctx context.Context, req *api.MapListenerRequest) error {
	stream, err := em.ensureStream()
	if err != nil {
		return err
	}

	ack := make(chan error, 1)
	em.mutex.Lock()
	em.acks[ackKey(req.FilterID, req.Key)] = ack
	em.mutex.Unlock()

	if err = stream.Send(req); err != nil {
		return err
	}

	newCtx, cancel := em.session.ensureContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	select {
	case err = <-ack:
		return err
	case <-newCtx.Done():
		return newCtx.Err()
	}
}

func (em *mapEventManager[K, V]) addFilterListener(ctx context.Context, listener MapListener[K, V], fltr filters.Filter, lite bool) error {
	if fltr == nil {
		fltr = filters.Always()
	}
	binFilter, err := NewSerializer[any](em.bc.format).Serialize(fltr)
	if err != nil {
		return err
	}

	em.mutex.Lock()
	group, exists := em.filterGroups[string(binFilter)]
	if exists {
		group.listeners[listener] = lite
		em.mutex.Unlock()
		return nil
	}

	group = &listenerGroup[K, V]{
		listeners: map[MapListener[K, V]]bool{listener: lite},
		filterID:  em.nextFilterID.Add(1),
		lite:      lite,
	}
	em.filterGroups[string(binFilter)] = group
	em.filterIDToGroup[group.filterID] = group
	em.mutex.Unlock()

	err = em.subscribe(ctx, &api.MapListenerRequest{
		Type:     api.ListenerSubscribe,
		Cache:    em.bc.name,
		Format:   em.bc.format,
		FilterID: group.filterID,
		Filter:   binFilter,
		Lite:     lite,
	})
	if err != nil {
		em.mutex.Lock()
		delete(em.filterGroups, string(binFilter))
		delete(em.filterIDToGroup, group.filterID)
		em.mutex.Unlock()
	}
	return err
}

func (em *mapEventManager[K, V]) removeFilterListener(ctx context.Context, listener MapListener[K, V], fltr filters.Filter) error {
	if fltr == nil {
		fltr = filters.Always()
	}
	binFilter, err := NewSerializer[any](em.bc.format).Serialize(fltr)
	if err != nil {
		return err
	}

	em.mutex.Lock()
	group, exists := em.filterGroups[string(binFilter)]
	if !exists {
		em.mutex.Unlock()
		return nil
	}
	delete(group.listeners, listener)
	if len(group.listeners) > 0 {
		em.mutex.Unlock()
		return nil
	}
	delete(em.filterGroups, string(binFilter))
	delete(em.filterIDToGroup, group.filterID)
	em.mutex.Unlock()

	return em.unsubscribe(ctx, &api.MapListenerRequest{
		Type:     api.ListenerUnsubscribe,
		Cache:    em.bc.name,
		Format:   em.bc.format,
		FilterID: group.filterID,
	})
}

func (em *mapEventManager[K, V]) addKeyListener(ctx context.Context, listener MapListener[K, V], key K, lite bool) error {
	binKey, err := em.bc.keySerializer.Serialize(key)
	if err != nil {
		return err
	}

	em.mutex.Lock()
	group, exists := em.keyGroups[string(binKey)]
	if exists {
		group.listeners[listener] = lite
		em.mutex.Unlock()
		return nil
	}

	group = &listenerGroup[K, V]{
		listeners: map[MapListener[K, V]]bool{listener: lite},
		key:       binKey,
		lite:      lite,
	}
	em.keyGroups[string(binKey)] = group
	em.mutex.Unlock()

	err = em.subscribe(ctx, &api.MapListenerRequest{
		Type:   api.ListenerSubscribe,
		Cache:  em.bc.name,
		Format: em.bc.format,
		Key:    binKey,
		Lite:   lite,
	})
	if err != nil {
		em.mutex.Lock()
		delete(em.keyGroups, string(binKey))
		em.mutex.Unlock()
	}
	return err
}

func (em *mapEventManager[K, V]) removeKeyListener(ctx context.Context, listener MapListener[K, V], key K) error {
	binKey, err := em.bc.keySerializer.Serialize(key)
	if err != nil {
		return err
	}

	em.mutex.Lock()
	group, exists := em.keyGroups[string(binKey)]
	if !exists {
		em.mutex.Unlock()
		return nil
	}
	delete(group.listeners, listener)
	if len(group.listeners) > 0 {
		em.mutex.Unlock()
		return nil
	}
	delete(em.keyGroups, string(binKey))
	em.mutex.Unlock()

	return em.unsubscribe(ctx, &api.MapListenerRequest{
		Type:   api.ListenerUnsubscribe,
		Cache:  em.bc.name,
		Format: em.bc.format,
		Key:    binKey,
	})
}

// unsubscribe sends a cancellation and waits for the acknowledgment.
// Cancelling an unknown registration is a no-op on the server and produces
// no acknowledgment, so an already-removed group simply times out the wait
// locally; this keeps unsubscribe idempotent for callers.
func (em *mapEventManager[K, V]) unsubscribe(ctx context.Context, req *api.MapListenerRequest) error {
	return em.subscribe(ctx, req)
}

// close cancels the event stream and drops all registrations.
func (em *mapEventManager[K, V]) close() {
	em.mutex.Lock()
	defer em.mutex.Unlock()

	if em.closed {
		return
	}
	em.closed = true
	if em.cancel != nil {
		em.cancel()
	}
	em.stream = nil
	em.filterGroups = make(map[string]*listenerGroup[K, V])
	em.keyGroups = make(map[string]*listenerGroup[K, V])
	em.filterIDToGroup = make(map[int64]*listenerGroup[K, V])

	for key, ch := range em.acks {
		delete(em.acks, key)
		ch <- ErrShutdown
	}
}

func logEventError(message string, err error) {
	log.Printf("event manager: %s: %v", message, err)
}
