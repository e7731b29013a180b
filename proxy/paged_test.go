/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"context"
	"fmt"
	"testing"

	"github.com/oracle/gridcache-go/api"
	"github.com/oracle/gridcache-go/backend"
)

func populate(t *testing.T, s *NamedCacheService, cache string, count int) map[string]bool {
	t.Helper()

	var (
		ctx   = context.Background()
		codec = JSONCodec{}
		keys  = make(map[string]bool, count)
	)
	for i := 0; i < count; i++ {
		key := fmt.Sprintf("key-%04d", i)
		_, err := s.Put(ctx, &api.PutRequest{Cache: cache, Format: "json",
			Key: mustEncode(t, codec, key), Value: mustEncode(t, codec, fmt.Sprintf("value-%04d", i))})
		if err != nil {
			t.Fatalf("put failed: %v", err)
		}
		keys[key] = true
	}
	return keys
}

// iterateKeyPages walks the key cursor to exhaustion, returning the pages.
func iterateKeyPages(t *testing.T, s *NamedCacheService, cache string) [][]string {
	t.Helper()

	var (
		ctx    = context.Background()
		codec  = JSONCodec{}
		cookie []byte
		pages  [][]string
	)

	for {
		h, err := s.createHolder("", cache, "json")
		if err != nil {
			t.Fatalf("holder failed: %v", err)
		}

		var frames []*api.BytesValue
		err = keysPagedQuery(ctx, h, cookie, s.cfg.TransferThreshold, func(v *api.BytesValue) error {
			frames = append(frames, v)
			return nil
		})
		if err != nil {
			t.Fatalf("page failed: %v", err)
		}
		if len(frames) == 0 {
			t.Fatal("expected at least the cookie frame")
		}

		page := make([]string, 0, len(frames)-1)
		for _, frame := range frames[1:] {
			decoded := mustDecode(t, codec, frame.Value)
			page = append(page, decoded.(string))
		}
		pages = append(pages, page)

		cookie = frames[0].Value
		if len(cookie) == 0 {
			return pages
		}
	}
}

func TestPagedKeySetCoversSnapshotWithoutDuplicates(t *testing.T) {
	s := newTestService(t, JSONCodec{})
	expected := populate(t, s, "paged", 200)

	pages := iterateKeyPages(t, s, "paged")
	if len(pages) < 2 {
		t.Fatalf("expected multiple pages with a %d byte threshold, got %d", s.cfg.TransferThreshold, len(pages))
	}

	seen := make(map[string]bool)
	for _, page := range pages {
		for _, key := range page {
			if seen[key] {
				t.Fatalf("duplicate key %q across pages", key)
			}
			seen[key] = true
		}
	}
	if len(seen) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(seen))
	}
	for key := range expected {
		if !seen[key] {
			t.Fatalf("missing key %q", key)
		}
	}
}

func TestPagedKeySetPageSizeBounded(t *testing.T) {
	s := newTestService(t, JSONCodec{})
	populate(t, s, "bounded", 200)

	h, err := s.createHolder("", "bounded", "json")
	if err != nil {
		t.Fatalf("holder failed: %v", err)
	}

	var (
		total     int
		entryMax  int
		threshold = s.cfg.TransferThreshold
		first     = true
	)
	err = keysPagedQuery(context.Background(), h, nil, threshold, func(v *api.BytesValue) error {
		if first {
			first = false
			return nil
		}
		total += len(v.Value)
		if len(v.Value) > entryMax {
			entryMax = len(v.Value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("page failed: %v", err)
	}

	// one page's payload never exceeds threshold plus the final entry
	if total > threshold+entryMax {
		t.Fatalf("page payload %d exceeds threshold %d plus last entry %d", total, threshold, entryMax)
	}
}

func TestPagedEntrySet(t *testing.T) {
	var (
		s        = newTestService(t, JSONCodec{})
		ctx      = context.Background()
		codec    = JSONCodec{}
		expected = populate(t, s, "entries", 100)
		cookie   []byte
		seen     = make(map[string]string)
	)

	for {
		h, err := s.createHolder("", "entries", "json")
		if err != nil {
			t.Fatalf("holder failed: %v", err)
		}

		var frames []*api.EntryResult
		err = entriesPagedQuery(ctx, h, cookie, s.cfg.TransferThreshold, func(e *api.EntryResult) error {
			frames = append(frames, e)
			return nil
		})
		if err != nil {
			t.Fatalf("page failed: %v", err)
		}

		for _, frame := range frames[1:] {
			key := mustDecode(t, codec, frame.Key).(string)
			if _, dup := seen[key]; dup {
				t.Fatalf("duplicate key %q", key)
			}
			seen[key] = mustDecode(t, codec, frame.Value).(string)
		}

		cookie = frames[0].Cookie
		if len(cookie) == 0 {
			break
		}
	}

	if len(seen) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(seen))
	}
}

func TestPagedInsertBehindResumeNotObserved(t *testing.T) {
	var (
		s     = newTestService(t, JSONCodec{})
		ctx   = context.Background()
		codec = JSONCodec{}
	)
	populate(t, s, "concurrent", 100)

	// take the first page only
	h, err := s.createHolder("", "concurrent", "json")
	if err != nil {
		t.Fatalf("holder failed: %v", err)
	}
	var frames []*api.BytesValue
	err = keysPagedQuery(ctx, h, nil, s.cfg.TransferThreshold, func(v *api.BytesValue) error {
		frames = append(frames, v)
		return nil
	})
	if err != nil {
		t.Fatalf("page failed: %v", err)
	}
	cookie := frames[0].Value
	if len(cookie) == 0 {
		t.Skip("cache fits in one page; nothing to resume")
	}

	firstPage := make(map[string]bool)
	for _, frame := range frames[1:] {
		firstPage[mustDecode(t, codec, frame.Value).(string)] = true
	}

	// insert a key whose bytes sort before every existing key; the partition
	// it hashes to decides whether it lies behind the resume position
	behind := "key-!!!!"
	behindKey := mustEncode(t, codec, behind)
	_, err = s.Put(ctx, &api.PutRequest{Cache: "concurrent", Format: "json",
		Key: behindKey, Value: mustEncode(t, codec, "late")})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}

	resume, err := decodeCookie(cookie)
	if err != nil {
		t.Fatalf("cookie decode failed: %v", err)
	}
	svc := h.Cache().Service().(*backend.LocalService)
	late := orderedKey{partition: int32(svc.PartitionOf(behindKey)), key: behindKey}
	lateIsBehind := keyLess(late, orderedKey{partition: resume.Partition, key: resume.Key})

	// drain the remaining pages; the late insert must not appear when its
	// position precedes the resume key
	var lateSeen bool
	for len(cookie) != 0 {
		h, err = s.createHolder("", "concurrent", "json")
		if err != nil {
			t.Fatalf("holder failed: %v", err)
		}
		frames = nil
		err = keysPagedQuery(ctx, h, cookie, s.cfg.TransferThreshold, func(v *api.BytesValue) error {
			frames = append(frames, v)
			return nil
		})
		if err != nil {
			t.Fatalf("page failed: %v", err)
		}
		for _, frame := range frames[1:] {
			key := mustDecode(t, codec, frame.Value).(string)
			if key == behind {
				lateSeen = true
			}
			if firstPage[key] {
				t.Fatalf("key %q delivered twice", key)
			}
		}
		cookie = frames[0].Value
	}

	// a key ordered behind the resume position is never delivered; one ahead
	// of it may be
	if lateIsBehind && lateSeen {
		t.Fatalf("key %q inserted behind the resume position was delivered", behind)
	}
}
