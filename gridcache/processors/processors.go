/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

// Package processors provides entry processors executed atomically against
// cache entries. A processor is serialized on the client and applied by the
// backend against the owning partition, which enforces concurrency control
// without explicit locking.
package processors

import (
	"github.com/oracle/gridcache-go/gridcache/extractors"
	"github.com/oracle/gridcache-go/gridcache/filters"
)

const (
	processorPrefix = "processor."

	conditionalPutProcessorType    = processorPrefix + "ConditionalPut"
	conditionalRemoveProcessorType = processorPrefix + "ConditionalRemove"
	extractorProcessorType         = processorPrefix + "ExtractorProcessor"
	incrementProcessorType         = processorPrefix + "NumberIncrementor"
	updateProcessorType            = processorPrefix + "UpdaterProcessor"
	touchProcessorType             = processorPrefix + "TouchProcessor"
	preloadProcessorType           = processorPrefix + "PreloadRequest"
)

// Processor is an operation applied atomically against a cache entry.
// Instances are created with the factory functions in this package.
type Processor interface {
}

// Number represents a type that can be incremented.
type Number interface {
	~float32 | ~float64 | ~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// ConditionalPut puts the value if the filter returns true.
func ConditionalPut[V any](filter filters.Filter, value V, returnValue ...bool) Processor {
	rv := false
	if len(returnValue) != 0 {
		rv = returnValue[0]
	}
	return &conditionalPut[V]{Class: conditionalPutProcessorType, Filter: filter, Value: value, ReturnValue: rv}
}

// ConditionalRemove removes the entry if the filter evaluates to true. If
// returnCurrent is set and the remove does not occur, the current value is
// returned.
func ConditionalRemove(filter filters.Filter, returnCurrent ...bool) Processor {
	rc := false
	if len(returnCurrent) != 0 {
		rc = returnCurrent[0]
	}
	return &conditionalRemove{Class: conditionalRemoveProcessorType, Filter: filter, ReturnCurrent: rc}
}

// Extractor creates a processor extracting the named property from an
// entry's value.
func Extractor[E any](property string) Processor {
	return &extractorProcessor{Class: extractorProcessorType, Extractor: extractors.Extract[E](property)}
}

// Increment increments the numeric value of the named property by the given
// amount. When postIncrement is true the value before the increment is
// returned, otherwise the value after.
func Increment[I Number](property string, value I, postIncrement ...bool) Processor {
	post := false
	if len(postIncrement) != 0 {
		post = postIncrement[0]
	}
	return &incrementProcessor[I]{Class: incrementProcessorType, Property: property, Increment: value, PostIncrement: post}
}

// Update updates the named property of an entry's value.
func Update[V any](property string, value V) Processor {
	return &updateProcessor[V]{Class: updateProcessorType, Property: property, Value: value}
}

// Touch touches an entry, resetting its last-access time without changing it.
func Touch() Processor {
	return &simpleProcessor{Class: touchProcessorType}
}

// Preload loads an entry without incurring the cost of returning it.
func Preload() Processor {
	return &simpleProcessor{Class: preloadProcessorType}
}

type conditionalPut[V any] struct {
	Class       string         `json:"@class" msgpack:"@class"`
	Filter      filters.Filter `json:"filter" msgpack:"filter"`
	Value       V              `json:"value" msgpack:"value"`
	ReturnValue bool           `json:"returnValue" msgpack:"returnValue"`
}

type conditionalRemove struct {
	Class         string         `json:"@class" msgpack:"@class"`
	Filter        filters.Filter `json:"filter" msgpack:"filter"`
	ReturnCurrent bool           `json:"returnCurrent" msgpack:"returnCurrent"`
}

type extractorProcessor struct {
	Class     string `json:"@class" msgpack:"@class"`
	Extractor any    `json:"extractor" msgpack:"extractor"`
}

type incrementProcessor[I Number] struct {
	Class         string `json:"@class" msgpack:"@class"`
	Property      string `json:"property" msgpack:"property"`
	Increment     I      `json:"increment" msgpack:"increment"`
	PostIncrement bool   `json:"postIncrement" msgpack:"postIncrement"`
}

type updateProcessor[V any] struct {
	Class    string `json:"@class" msgpack:"@class"`
	Property string `json:"property" msgpack:"property"`
	Value    V      `json:"value" msgpack:"value"`
}

type simpleProcessor struct {
	Class string `json:"@class" msgpack:"@class"`
}
