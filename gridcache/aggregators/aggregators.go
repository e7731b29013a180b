/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

// Package aggregators provides aggregators to process cache entries in
// parallel on the backend and return a single result.
package aggregators

import "github.com/oracle/gridcache-go/gridcache/extractors"

const (
	aggregatorPrefix = "aggregator."

	countAggregatorType    = aggregatorPrefix + "CountAggregator"
	sumAggregatorType      = aggregatorPrefix + "SumAggregator"
	averageAggregatorType  = aggregatorPrefix + "AverageAggregator"
	maxAggregatorType      = aggregatorPrefix + "MaxAggregator"
	minAggregatorType      = aggregatorPrefix + "MinAggregator"
	distinctAggregatorType = aggregatorPrefix + "DistinctValuesAggregator"
)

// Aggregator processes entries and returns a result of type R.
type Aggregator[R any] interface {
}

// Count returns an aggregator counting the matched entries.
func Count() Aggregator[int64] {
	return &simpleAggregator{Class: countAggregatorType}
}

// Sum returns an aggregator summing the named numeric property.
func Sum(property string) Aggregator[float64] {
	return newPropertyAggregator[float64](sumAggregatorType, property)
}

// Average returns an aggregator averaging the named numeric property.
func Average(property string) Aggregator[float64] {
	return newPropertyAggregator[float64](averageAggregatorType, property)
}

// Max returns an aggregator yielding the maximum of the named property.
func Max(property string) Aggregator[float64] {
	return newPropertyAggregator[float64](maxAggregatorType, property)
}

// Min returns an aggregator yielding the minimum of the named property.
func Min(property string) Aggregator[float64] {
	return newPropertyAggregator[float64](minAggregatorType, property)
}

// Distinct returns an aggregator collecting the distinct values of the named
// property.
func Distinct[E comparable](property string) Aggregator[[]E] {
	return newPropertyAggregator[[]E](distinctAggregatorType, property)
}

type simpleAggregator struct {
	Class string `json:"@class" msgpack:"@class"`
}

type propertyAggregator[R any] struct {
	Class     string `json:"@class" msgpack:"@class"`
	Extractor any    `json:"extractor" msgpack:"extractor"`
}

func newPropertyAggregator[R any](class, property string) Aggregator[R] {
	return &propertyAggregator[R]{Class: class, Extractor: extractors.Extract[any](property)}
}
