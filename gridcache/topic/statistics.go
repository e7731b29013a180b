/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

// Package topic holds the statistics for partitioned topics: per-channel
// publication counters and meters plus named subscriber-group statistics.
package topic

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Statistics holds the statistics for one topic. Channel statistics are
// created with the Statistics and read without locking. Subscriber-group
// statistics are created on first use under a lock; every subscriber-group
// lookup, including one for an existing group, takes that same lock.
type Statistics struct {
	channelCount int
	channels     []*ChannelStatistics

	published       atomic.Int64
	publishedMeter  prometheus.Counter
	subscriberGroup *prometheus.CounterVec

	mu     sync.Mutex
	groups map[string]*SubscriberGroupStatistics
}

// NewStatistics creates Statistics for a topic with the given channel count.
// A nil registerer yields working but unregistered collectors.
func NewStatistics(topicName string, channelCount int, reg prometheus.Registerer) *Statistics {
	s := &Statistics{
		channelCount: channelCount,
		channels:     make([]*ChannelStatistics, channelCount),
		groups:       make(map[string]*SubscriberGroupStatistics),
		publishedMeter: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "gridcache",
			Subsystem:   "topic",
			Name:        "published_total",
			Help:        "Messages published to the topic.",
			ConstLabels: prometheus.Labels{"topic": topicName},
		}),
		subscriberGroup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "gridcache",
			Subsystem:   "topic",
			Name:        "group_received_total",
			Help:        "Messages received, by subscriber group.",
			ConstLabels: prometheus.Labels{"topic": topicName},
		}, []string{"group"}),
	}
	for i := 0; i < channelCount; i++ {
		s.channels[i] = &ChannelStatistics{channel: i}
	}
	if reg != nil {
		reg.MustRegister(s.publishedMeter, s.subscriberGroup)
	}
	return s
}

// ChannelCount returns the number of channels.
func (s *Statistics) ChannelCount() int {
	return s.channelCount
}

// ChannelStatistics returns the statistics for a channel.
func (s *Statistics) ChannelStatistics(channel int) *ChannelStatistics {
	return s.channels[channel%s.channelCount]
}

// OnPublished records the publication of messages to a channel.
func (s *Statistics) OnPublished(channel int, count int64, tail int64) {
	s.published.Add(count)
	s.publishedMeter.Add(float64(count))
	s.ChannelStatistics(channel).onPublished(count, tail)
}

// PublishedCount returns the number of messages published to the topic.
func (s *Statistics) PublishedCount() int64 {
	return s.published.Load()
}

// SubscriberGroupStatistics returns the statistics for a subscriber group,
// creating them on first use.
func (s *Statistics) SubscriberGroupStatistics(name string) *SubscriberGroupStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, ok := s.groups[name]
	if !ok {
		stats = &SubscriberGroupStatistics{
			name:     name,
			channels: make([]atomic.Int64, s.channelCount),
			received: s.subscriberGroup.WithLabelValues(name),
		}
		s.groups[name] = stats
	}
	return stats
}

// RemoveSubscriberGroupStatistics removes the statistics for a subscriber group.
func (s *Statistics) RemoveSubscriberGroupStatistics(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.groups, name)
}

// SubscriberGroupNames returns the names of the known subscriber groups.
func (s *Statistics) SubscriberGroupNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.groups))
	for name := range s.groups {
		names = append(names, name)
	}
	return names
}

// ChannelStatistics holds the statistics for one topic channel.
type ChannelStatistics struct {
	channel   int
	published atomic.Int64
	tail      atomic.Int64
}

// Channel returns the channel number.
func (c *ChannelStatistics) Channel() int {
	return c.channel
}

// PublishedCount returns the number of messages published to the channel.
func (c *ChannelStatistics) PublishedCount() int64 {
	return c.published.Load()
}

// Tail returns the last observed tail position of the channel.
func (c *ChannelStatistics) Tail() int64 {
	return c.tail.Load()
}

func (c *ChannelStatistics) onPublished(count int64, tail int64) {
	c.published.Add(count)
	c.tail.Store(tail)
}

// SubscriberGroupStatistics holds the statistics for one subscriber group.
type SubscriberGroupStatistics struct {
	name     string
	channels []atomic.Int64
	received prometheus.Counter
}

// Name returns the subscriber group name.
func (g *SubscriberGroupStatistics) Name() string {
	return g.name
}

// OnReceived records messages received from a channel by the group.
func (g *SubscriberGroupStatistics) OnReceived(channel int, count int64) {
	g.channels[channel%len(g.channels)].Add(count)
	g.received.Add(float64(count))
}

// ReceivedCount returns the number of messages the group received from a
// channel.
func (g *SubscriberGroupStatistics) ReceivedCount(channel int) int64 {
	return g.channels[channel%len(g.channels)].Load()
}
