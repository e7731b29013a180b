/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"context"
	"sort"

	"github.com/oracle/gridcache-go/api"
	"github.com/oracle/gridcache-go/backend"
	"github.com/vmihailenco/msgpack/v5"
)

// The paged cursor engine returns keys or entries in pages sized by the
// transfer threshold in bytes rather than by a fixed element count: element
// sizes vary by orders of magnitude, so an element budget would either starve
// or overflow a response. Each page walks an ordered snapshot of the keys
// from the resume position until the cumulative serialized payload reaches or
// exceeds the threshold, then emits a cookie encoding where to resume. Iteration is
// best-effort consistent, not a strict snapshot: keys inserted behind the
// resume position are never observed, keys inserted ahead of it may be.

// pageCookie is opaque to clients.
type pageCookie struct {
	Partition int32
	Key       []byte
	Epoch     uint64
}

func decodeCookie(data []byte) (*pageCookie, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var c pageCookie
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, errInvalidArgument("invalid page cookie")
	}
	return &c, nil
}

func encodeCookie(c *pageCookie) ([]byte, error) {
	return msgpack.Marshal(c)
}

// orderedKey is a key with its owning partition, the unit of cursor ordering.
type orderedKey struct {
	partition int32
	key       backend.Binary
}

func keyLess(a, b orderedKey) bool {
	if a.partition != b.partition {
		return a.partition < b.partition
	}
	return string(a.key) < string(b.key)
}

// snapshotKeys collects the cache's keys ordered by (partition, key).
func snapshotKeys(ctx context.Context, cache backend.Cache) ([]orderedKey, error) {
	svc, isLocal := cache.Service().(*backend.LocalService)

	var keys []orderedKey
	err := cache.KeySet(ctx, nil, func(key backend.Binary) {
		ok := orderedKey{key: key}
		if isLocal {
			ok.partition = int32(svc.PartitionOf(key))
		}
		keys = append(keys, ok)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys, nil
}

// page walks the snapshot from the cookie position, calling emit for every
// key until the byte budget is spent, and returns the cookie for the next
// page or nil when the iteration is exhausted. emit reports the serialized
// size its frame contributed; a page always carries at least one entry, so
// one oversized entry exceeds the threshold by only its own size.
func page(keys []orderedKey, cookie *pageCookie, threshold int, epoch uint64,
	emit func(k orderedKey) (int, bool, error)) (*pageCookie, error) {

	start := 0
	if cookie != nil {
		resume := orderedKey{partition: cookie.Partition, key: cookie.Key}
		start = sort.Search(len(keys), func(i int) bool {
			return !keyLess(keys[i], resume) && !equalKeys(keys[i], resume)
		})
	}

	var (
		budget = threshold
		last   *orderedKey
	)
	for i := start; i < len(keys); i++ {
		size, sent, err := emit(keys[i])
		if err != nil {
			return nil, err
		}
		if !sent {
			continue
		}
		k := keys[i]
		last = &k
		budget -= size
		if budget <= 0 {
			if i == len(keys)-1 {
				return nil, nil
			}
			return &pageCookie{Partition: last.partition, Key: last.key, Epoch: epoch}, nil
		}
	}
	return nil, nil
}

func equalKeys(a, b orderedKey) bool {
	return a.partition == b.partition && string(a.key) == string(b.key)
}

// keysPagedQuery serves one page of a key cursor. The first frame is always
// the cookie, nil meaning exhausted, followed by the page's keys.
func keysPagedQuery(ctx context.Context, h *RequestHolder, cookieBytes []byte, threshold int,
	send func(*api.BytesValue) error) error {

	cookie, err := decodeCookie(cookieBytes)
	if err != nil {
		return err
	}
	cache := h.Cache()
	keys, err := snapshotKeys(ctx, cache)
	if err != nil {
		return err
	}

	var frames []*api.BytesValue
	next, err := page(keys, cookie, threshold, cache.Epoch(), func(k orderedKey) (int, bool, error) {
		up, err1 := h.ConvertUp(k.key)
		if err1 != nil {
			return 0, false, err1
		}
		frames = append(frames, &api.BytesValue{Value: up})
		return len(up), true, nil
	})
	if err != nil {
		return err
	}

	nextBytes, err := cookieFrame(next)
	if err != nil {
		return err
	}
	if err = send(&api.BytesValue{Value: nextBytes}); err != nil {
		return err
	}
	for _, frame := range frames {
		if err = send(frame); err != nil {
			return err
		}
	}
	return nil
}

// entriesPagedQuery serves one page of an entry cursor. Keys whose mapping
// vanished between snapshot and read are skipped, never delivered partially.
func entriesPagedQuery(ctx context.Context, h *RequestHolder, cookieBytes []byte, threshold int,
	send func(*api.EntryResult) error) error {

	cookie, err := decodeCookie(cookieBytes)
	if err != nil {
		return err
	}
	cache := h.Cache()
	keys, err := snapshotKeys(ctx, cache)
	if err != nil {
		return err
	}

	var frames []*api.EntryResult
	next, err := page(keys, cookie, threshold, cache.Epoch(), func(k orderedKey) (int, bool, error) {
		value, present, err1 := cache.Get(ctx, k.key)
		if err1 != nil {
			return 0, false, err1
		}
		if !present {
			return 0, false, nil
		}
		keyUp, err1 := h.ConvertUp(k.key)
		if err1 != nil {
			return 0, false, err1
		}
		valueUp, err1 := h.ConvertUp(value)
		if err1 != nil {
			return 0, false, err1
		}
		frames = append(frames, &api.EntryResult{Key: keyUp, Value: valueUp})
		return len(keyUp) + len(valueUp), true, nil
	})
	if err != nil {
		return err
	}

	nextBytes, err := cookieFrame(next)
	if err != nil {
		return err
	}
	if err = send(&api.EntryResult{Cookie: nextBytes}); err != nil {
		return err
	}
	for _, frame := range frames {
		if err = send(frame); err != nil {
			return err
		}
	}
	return nil
}

func cookieFrame(next *pageCookie) ([]byte, error) {
	if next == nil {
		return nil, nil
	}
	return encodeCookie(next)
}
