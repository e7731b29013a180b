/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package topic

import (
	"sync"
	"testing"
)

func TestPublishedCounters(t *testing.T) {
	s := NewStatistics("orders", 4, nil)

	s.OnPublished(0, 3, 17)
	s.OnPublished(1, 2, 9)
	s.OnPublished(0, 1, 21)

	if s.PublishedCount() != 6 {
		t.Fatalf("expected 6 published, got %d", s.PublishedCount())
	}
	if got := s.ChannelStatistics(0).PublishedCount(); got != 4 {
		t.Fatalf("expected 4 on channel 0, got %d", got)
	}
	if got := s.ChannelStatistics(0).Tail(); got != 21 {
		t.Fatalf("expected tail 21, got %d", got)
	}
	if got := s.ChannelStatistics(1).PublishedCount(); got != 2 {
		t.Fatalf("expected 2 on channel 1, got %d", got)
	}
}

func TestSubscriberGroupCreateOrGet(t *testing.T) {
	s := NewStatistics("orders", 2, nil)

	first := s.SubscriberGroupStatistics("group-a")
	if second := s.SubscriberGroupStatistics("group-a"); second != first {
		t.Fatal("expected create-or-get to return the same instance")
	}

	s.RemoveSubscriberGroupStatistics("group-a")
	if again := s.SubscriberGroupStatistics("group-a"); again == first {
		t.Fatal("expected a fresh instance after removal")
	}
}

func TestSubscriberGroupCreateOrGetConcurrent(t *testing.T) {
	s := NewStatistics("orders", 2, nil)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[*SubscriberGroupStatistics]bool)
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats := s.SubscriberGroupStatistics("shared")
			mu.Lock()
			results[stats] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(results) != 1 {
		t.Fatalf("expected one shared instance, got %d", len(results))
	}
}

func TestSubscriberGroupReceived(t *testing.T) {
	s := NewStatistics("orders", 3, nil)
	group := s.SubscriberGroupStatistics("g")

	group.OnReceived(0, 5)
	group.OnReceived(2, 7)
	group.OnReceived(0, 1)

	if got := group.ReceivedCount(0); got != 6 {
		t.Fatalf("expected 6 received on channel 0, got %d", got)
	}
	if got := group.ReceivedCount(2); got != 7 {
		t.Fatalf("expected 7 received on channel 2, got %d", got)
	}

	names := s.SubscriberGroupNames()
	if len(names) != 1 || names[0] != "g" {
		t.Fatalf("unexpected group names %v", names)
	}
}
