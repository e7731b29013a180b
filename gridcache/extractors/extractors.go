/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

// Package extractors provides extractors for working with queries, indexes
// and aggregations. An extractor selects a value from a cache entry's value;
// extractors are serialized and evaluated by the backend, never on the client.
package extractors

import "strings"

const (
	extractorPrefix = "extractor."

	identityExtractorType  = extractorPrefix + "IdentityExtractor"
	universalExtractorType = extractorPrefix + "UniversalExtractor"
	chainedExtractorType   = extractorPrefix + "ChainedExtractor"

	extractorComparatorType = "comparator.ExtractorComparator"
)

// ValueExtractor selects a value from an entry. The type parameters are
// T = the type the extractor is applied to and E = the type of the extracted
// value.
type ValueExtractor[T, E any] interface {
}

// Identity returns an extractor that yields the entry's value itself.
func Identity[T any]() ValueExtractor[T, T] {
	return &identityExtractor[T, T]{Class: identityExtractorType}
}

// Extract returns an extractor for the named property. A name containing a
// "." (period) produces a chained extractor walking the nested properties.
func Extract[E any](property string) ValueExtractor[any, E] {
	if strings.Contains(property, ".") {
		parts := strings.Split(property, ".")
		chain := make([]any, len(parts))
		for i, p := range parts {
			chain[i] = &universalExtractor[any, E]{Class: universalExtractorType, Name: p}
		}
		return &chainedExtractor[any, E]{Class: chainedExtractorType, Extractors: chain}
	}
	return &universalExtractor[any, E]{Class: universalExtractorType, Name: property}
}

// Chained returns an extractor that applies the given extractors in sequence.
func Chained[E any](extractors ...any) ValueExtractor[any, E] {
	return &chainedExtractor[any, E]{Class: chainedExtractorType, Extractors: extractors}
}

type identityExtractor[T, E any] struct {
	Class string `json:"@class" msgpack:"@class"`
}

type universalExtractor[T, E any] struct {
	Class string `json:"@class" msgpack:"@class"`
	Name  string `json:"name" msgpack:"name"`
}

type chainedExtractor[T, E any] struct {
	Class      string `json:"@class" msgpack:"@class"`
	Extractors []any  `json:"extractors" msgpack:"extractors"`
}

// Comparator imposes an ordering on entries by an extracted value.
type Comparator[E any] interface {
}

// ExtractorComparator returns a comparator ordering by the named property,
// descending when descending is true.
func ExtractorComparator[E any](property string, descending bool) Comparator[E] {
	return &extractorComparator[E]{
		Class:      extractorComparatorType,
		Extractor:  Extract[E](property),
		Descending: descending,
	}
}

type extractorComparator[E any] struct {
	Class      string `json:"@class" msgpack:"@class"`
	Extractor  any    `json:"extractor" msgpack:"extractor"`
	Descending bool   `json:"descending" msgpack:"descending"`
}
