/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package gridcache

import (
	"container/list"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/oracle/gridcache-go/api"
)

var (
	_ KeyPageIterator[int, string]   = &streamedKeyIterator[int, string]{}
	_ EntryPageIterator[int, string] = &streamedEntryIterator[int, string]{}
	_ ValuePageIterator[int, string] = &streamedValueIterator[int, string]{}

	// ErrDone indicates that there are no more entries to return.
	ErrDone = errors.New("iterator done")
)

// KeyPageIterator is an iterator of keys backed by the paged cursor RPCs.
// The data is paged internally so iterating a large cache does not return
// every key at once and cause memory pressure.
//
// Keep calling Next() until the error is ErrDone, which indicates there are
// no more keys to iterate.
type KeyPageIterator[K comparable, V any] interface {
	// Next returns the next key; the error is ErrDone when the iteration is
	// exhausted.
	Next() (*K, error)
}

// EntryPageIterator is an iterator of entries backed by the paged cursor RPCs.
type EntryPageIterator[K comparable, V any] interface {
	// Next returns the next entry; the error is ErrDone when the iteration is
	// exhausted.
	Next() (*Entry[K, V], error)
}

// ValuePageIterator is an iterator of values backed by the paged cursor RPCs.
type ValuePageIterator[K comparable, V any] interface {
	// Next returns the next value; the error is ErrDone when the iteration is
	// exhausted.
	Next() (*V, error)
}

type streamedKeyIterator[K comparable, V any] struct {
	exhausted bool
	dataList  *list.List
	ctx       context.Context
	bc        *baseClient[K, V]
	cookie    []byte
	sync.Mutex
}

func newKeyPageIterator[K comparable, V any](ctx context.Context, bc *baseClient[K, V]) KeyPageIterator[K, V] {
	return &streamedKeyIterator[K, V]{
		dataList: list.New(),
		ctx:      ctx,
		bc:       bc,
		cookie:   make([]byte, 0),
	}
}

func (it *streamedKeyIterator[K, V]) Next() (*K, error) {
	it.Lock()
	defer it.Unlock()

	if it.dataList.Len() == 0 && !it.exhausted {
		if err := it.getNextPage(); err != nil {
			return nil, err
		}
	}

	if it.exhausted && it.dataList.Len() == 0 {
		return nil, ErrDone
	}

	first := it.dataList.Front()
	key := first.Value.(K)
	it.dataList.Remove(first)

	return &key, nil
}

// getNextPage retrieves the next page of keys; the first frame of every page
// is the cookie for the following request, nil meaning exhausted.
func (it *streamedKeyIterator[K, V]) getNextPage() error {
	if err := it.bc.ensureClientConnection(); err != nil {
		return err
	}

	request := &api.PageRequest{
		Scope: it.bc.sessionOpts.Scope, Cache: it.bc.name,
		Format: it.bc.format, Cookie: it.cookie}

	stream, err := it.bc.client.NextKeySetPage(it.ctx, request)
	if err != nil {
		return err
	}

	it.dataList = list.New()
	first := true

	for {
		m, err1 := stream.Recv()
		if err1 == io.EOF {
			break
		} else if err1 != nil {
			return err1
		}

		if first {
			it.cookie = m.Value
			if len(it.cookie) == 0 {
				it.exhausted = true
			}
			first = false
			continue
		}

		key, err1 := it.bc.keySerializer.Deserialize(m.Value)
		if err1 != nil {
			return err1
		}
		it.dataList.PushBack(*key)
	}

	if it.dataList.Len() == 0 {
		it.exhausted = true
	}
	return nil
}

type streamedEntryIterator[K comparable, V any] struct {
	exhausted bool
	dataList  *list.List
	ctx       context.Context
	bc        *baseClient[K, V]
	cookie    []byte
	sync.Mutex
}

func newEntryPageIterator[K comparable, V any](ctx context.Context, bc *baseClient[K, V]) EntryPageIterator[K, V] {
	return &streamedEntryIterator[K, V]{
		dataList: list.New(),
		ctx:      ctx,
		bc:       bc,
		cookie:   make([]byte, 0),
	}
}

func (it *streamedEntryIterator[K, V]) Next() (*Entry[K, V], error) {
	it.Lock()
	defer it.Unlock()

	if it.dataList.Len() == 0 && !it.exhausted {
		if err := it.getNextPage(); err != nil {
			return nil, err
		}
	}

	if it.exhausted && it.dataList.Len() == 0 {
		return nil, ErrDone
	}

	first := it.dataList.Front()
	entry := first.Value.(Entry[K, V])
	it.dataList.Remove(first)

	return &entry, nil
}

// getNextPage retrieves the next page of entries.
func (it *streamedEntryIterator[K, V]) getNextPage() error {
	if err := it.bc.ensureClientConnection(); err != nil {
		return err
	}

	request := &api.PageRequest{
		Scope: it.bc.sessionOpts.Scope, Cache: it.bc.name,
		Format: it.bc.format, Cookie: it.cookie}

	stream, err := it.bc.client.NextEntrySetPage(it.ctx, request)
	if err != nil {
		return err
	}

	it.dataList = list.New()
	first := true

	for {
		m, err1 := stream.Recv()
		if err1 == io.EOF {
			break
		} else if err1 != nil {
			return err1
		}

		if first {
			it.cookie = m.Cookie
			if len(it.cookie) == 0 {
				it.exhausted = true
			}
			first = false
			continue
		}

		key, err1 := it.bc.keySerializer.Deserialize(m.Key)
		if err1 != nil {
			return err1
		}
		value, err1 := it.bc.valueSerializer.Deserialize(m.Value)
		if err1 != nil {
			return err1
		}
		it.dataList.PushBack(Entry[K, V]{Key: *key, Value: *value})
	}

	if it.dataList.Len() == 0 {
		it.exhausted = true
	}
	return nil
}

type streamedValueIterator[K comparable, V any] struct {
	entryIterator *streamedEntryIterator[K, V]
}

func newValuePageIterator[K comparable, V any](ctx context.Context, bc *baseClient[K, V]) ValuePageIterator[K, V] {
	return &streamedValueIterator[K, V]{
		entryIterator: &streamedEntryIterator[K, V]{
			dataList: list.New(),
			ctx:      ctx,
			bc:       bc,
			cookie:   make([]byte, 0),
		},
	}
}

func (it *streamedValueIterator[K, V]) Next() (*V, error) {
	entry, err := it.entryIterator.Next()
	if err != nil {
		return nil, err
	}
	return &entry.Value, nil
}
