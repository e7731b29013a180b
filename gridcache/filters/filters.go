/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

// Package filters provides filters for querying and listening to caches.
// Filters are serialized and evaluated by the backend, never on the client.
package filters

import "github.com/oracle/gridcache-go/gridcache/extractors"

const (
	filterPrefix = "filter."

	alwaysFilterType        = filterPrefix + "AlwaysFilter"
	neverFilterType         = filterPrefix + "NeverFilter"
	presentFilterType       = filterPrefix + "PresentFilter"
	equalsFilterType        = filterPrefix + "EqualsFilter"
	notEqualsFilterType     = filterPrefix + "NotEqualsFilter"
	greaterFilterType       = filterPrefix + "GreaterFilter"
	greaterEqualsFilterType = filterPrefix + "GreaterEqualsFilter"
	lessFilterType          = filterPrefix + "LessFilter"
	lessEqualsFilterType    = filterPrefix + "LessEqualsFilter"
	betweenFilterType       = filterPrefix + "BetweenFilter"
	andFilterType           = filterPrefix + "AndFilter"
	orFilterType            = filterPrefix + "OrFilter"
	notFilterType           = filterPrefix + "NotFilter"
	isNilFilterType         = filterPrefix + "IsNilFilter"
	isNotNilFilterType      = filterPrefix + "IsNotNilFilter"
)

// Filter selects entries by their values. Filters compose with And, Or and
// Not.
type Filter interface {
	// And returns a filter matching when both this filter and other match.
	And(other Filter) Filter

	// Or returns a filter matching when this filter or other matches.
	Or(other Filter) Filter
}

// Always returns a filter that matches every entry.
func Always() Filter {
	f := &simpleFilter{Class: alwaysFilterType}
	f.self = f
	return f
}

// Never returns a filter that matches no entry.
func Never() Filter {
	f := &simpleFilter{Class: neverFilterType}
	f.self = f
	return f
}

// Present returns a filter matching entries that exist.
func Present() Filter {
	f := &simpleFilter{Class: presentFilterType}
	f.self = f
	return f
}

// Equal returns a filter matching entries whose extracted property equals
// the given value.
func Equal[E comparable](property string, value E) Filter {
	return newComparisonFilter(equalsFilterType, property, value)
}

// NotEqual returns a filter matching entries whose extracted property does
// not equal the given value.
func NotEqual[E comparable](property string, value E) Filter {
	return newComparisonFilter(notEqualsFilterType, property, value)
}

// Greater returns a filter matching entries whose extracted property is
// greater than the given value.
func Greater[E any](property string, value E) Filter {
	return newComparisonFilter(greaterFilterType, property, value)
}

// GreaterEqual returns a filter matching entries whose extracted property is
// greater than or equal to the given value.
func GreaterEqual[E any](property string, value E) Filter {
	return newComparisonFilter(greaterEqualsFilterType, property, value)
}

// Less returns a filter matching entries whose extracted property is less
// than the given value.
func Less[E any](property string, value E) Filter {
	return newComparisonFilter(lessFilterType, property, value)
}

// LessEqual returns a filter matching entries whose extracted property is
// less than or equal to the given value.
func LessEqual[E any](property string, value E) Filter {
	return newComparisonFilter(lessEqualsFilterType, property, value)
}

// Between returns a filter matching entries whose extracted property lies in
// the closed range [from, to].
func Between[E any](property string, from, to E) Filter {
	f := &betweenFilter[E]{
		Class:     betweenFilterType,
		Extractor: extractors.Extract[E](property),
		From:      from,
		To:        to,
	}
	f.self = f
	return f
}

// IsNil returns a filter matching entries whose extracted property is nil.
func IsNil(property string) Filter {
	f := &propertyFilter{Class: isNilFilterType, Extractor: extractors.Extract[any](property)}
	f.self = f
	return f
}

// IsNotNil returns a filter matching entries whose extracted property is not nil.
func IsNotNil(property string) Filter {
	f := &propertyFilter{Class: isNotNilFilterType, Extractor: extractors.Extract[any](property)}
	f.self = f
	return f
}

// All returns a filter matching when every supplied filter matches.
func All(filters ...Filter) Filter {
	f := &compositeFilter{Class: andFilterType, Filters: filters}
	f.self = f
	return f
}

// Any returns a filter matching when at least one supplied filter matches.
func Any(filters ...Filter) Filter {
	f := &compositeFilter{Class: orFilterType, Filters: filters}
	f.self = f
	return f
}

// Not returns a filter matching when the supplied filter does not.
func Not(filter Filter) Filter {
	f := &notFilter{Class: notFilterType, Filter: filter}
	f.self = f
	return f
}

// baseFilter supplies composition for every concrete filter.
type baseFilter struct {
	self Filter
}

func (b *baseFilter) And(other Filter) Filter {
	return All(b.self, other)
}

func (b *baseFilter) Or(other Filter) Filter {
	return Any(b.self, other)
}

type simpleFilter struct {
	baseFilter `json:"-" msgpack:"-"`
	Class      string `json:"@class" msgpack:"@class"`
}

type comparisonFilter[E any] struct {
	baseFilter `json:"-" msgpack:"-"`
	Class      string `json:"@class" msgpack:"@class"`
	Extractor  any    `json:"extractor" msgpack:"extractor"`
	Value      E      `json:"value" msgpack:"value"`
}

func newComparisonFilter[E any](class, property string, value E) Filter {
	f := &comparisonFilter[E]{
		Class:     class,
		Extractor: extractors.Extract[E](property),
		Value:     value,
	}
	f.self = f
	return f
}

type betweenFilter[E any] struct {
	baseFilter `json:"-" msgpack:"-"`
	Class      string `json:"@class" msgpack:"@class"`
	Extractor  any    `json:"extractor" msgpack:"extractor"`
	From       E      `json:"from" msgpack:"from"`
	To         E      `json:"to" msgpack:"to"`
}

type propertyFilter struct {
	baseFilter `json:"-" msgpack:"-"`
	Class      string `json:"@class" msgpack:"@class"`
	Extractor  any    `json:"extractor" msgpack:"extractor"`
}

type compositeFilter struct {
	baseFilter `json:"-" msgpack:"-"`
	Class      string   `json:"@class" msgpack:"@class"`
	Filters    []Filter `json:"filters" msgpack:"filters"`
}

type notFilter struct {
	baseFilter `json:"-" msgpack:"-"`
	Class      string `json:"@class" msgpack:"@class"`
	Filter     Filter `json:"filter" msgpack:"filter"`
}
