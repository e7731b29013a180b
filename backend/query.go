/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package backend

import (
	"fmt"
	"sort"
	"strings"
)

// Filters, extractors, aggregators, comparators and logical processors arrive
// as serialized documents tagged with an @class marker. The evaluator below
// interprets the subset of classes the client library produces; an unknown
// class is an error, never a silent match.

const classKey = "@class"

func className(doc any) (string, map[string]any, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		// msgpack may decode maps with interface{} keys
		if mi, ok2 := doc.(map[any]any); ok2 {
			m = make(map[string]any, len(mi))
			for k, v := range mi {
				if ks, ok3 := k.(string); ok3 {
					m[ks] = v
				}
			}
		} else {
			return "", nil, fmt.Errorf("expected a tagged document, got %T", doc)
		}
	}
	class, ok := m[classKey].(string)
	if !ok {
		return "", nil, fmt.Errorf("document has no %q tag", classKey)
	}
	return class, m, nil
}

// decodeDoc decodes a serialized tagged document, returning nil for empty bytes.
func decodeDoc(codec Codec, data Binary) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return codec.Decode(data)
}

// evalFilter evaluates a decoded filter document against a decoded value.
// A nil filter matches everything.
func evalFilter(filter any, value any) (bool, error) {
	if filter == nil {
		return true, nil
	}

	class, m, err := className(filter)
	if err != nil {
		return false, err
	}

	switch class {
	case "filter.AlwaysFilter":
		return true, nil
	case "filter.NeverFilter":
		return false, nil
	case "filter.PresentFilter":
		return value != nil, nil
	case "filter.NotFilter":
		ok, err1 := evalFilter(m["filter"], value)
		return !ok, err1
	case "filter.AndFilter", "filter.AllFilter":
		return evalComposite(m, value, true)
	case "filter.OrFilter", "filter.AnyFilter":
		return evalComposite(m, value, false)
	case "filter.IsNilFilter":
		extracted, err1 := applyExtractor(m["extractor"], value)
		return extracted == nil, err1
	case "filter.IsNotNilFilter":
		extracted, err1 := applyExtractor(m["extractor"], value)
		return extracted != nil, err1
	case "filter.EqualsFilter", "filter.NotEqualsFilter",
		"filter.GreaterFilter", "filter.GreaterEqualsFilter",
		"filter.LessFilter", "filter.LessEqualsFilter":
		extracted, err1 := applyExtractor(m["extractor"], value)
		if err1 != nil {
			return false, err1
		}
		cmp, comparable1 := compareValues(extracted, m["value"])
		switch class {
		case "filter.EqualsFilter":
			return comparable1 && cmp == 0, nil
		case "filter.NotEqualsFilter":
			return !comparable1 || cmp != 0, nil
		case "filter.GreaterFilter":
			return comparable1 && cmp > 0, nil
		case "filter.GreaterEqualsFilter":
			return comparable1 && cmp >= 0, nil
		case "filter.LessFilter":
			return comparable1 && cmp < 0, nil
		default:
			return comparable1 && cmp <= 0, nil
		}
	case "filter.BetweenFilter":
		extracted, err1 := applyExtractor(m["extractor"], value)
		if err1 != nil {
			return false, err1
		}
		lo, okLo := compareValues(extracted, m["from"])
		hi, okHi := compareValues(extracted, m["to"])
		return okLo && okHi && lo >= 0 && hi <= 0, nil
	default:
		return false, fmt.Errorf("unsupported filter class %q", class)
	}
}

func evalComposite(m map[string]any, value any, all bool) (bool, error) {
	parts, ok := m["filters"].([]any)
	if !ok {
		return false, fmt.Errorf("composite filter has no filter list")
	}
	for _, f := range parts {
		ok1, err := evalFilter(f, value)
		if err != nil {
			return false, err
		}
		if all && !ok1 {
			return false, nil
		}
		if !all && ok1 {
			return true, nil
		}
	}
	return all, nil
}

// applyExtractor applies a decoded extractor document to a decoded value.
// A nil extractor is the identity.
func applyExtractor(extractor any, value any) (any, error) {
	if extractor == nil {
		return value, nil
	}

	class, m, err := className(extractor)
	if err != nil {
		return nil, err
	}

	switch class {
	case "extractor.IdentityExtractor":
		return value, nil
	case "extractor.UniversalExtractor":
		name, _ := m["name"].(string)
		return extractProperty(value, name), nil
	case "extractor.ChainedExtractor":
		chain, _ := m["extractors"].([]any)
		current := value
		for _, e := range chain {
			if current, err = applyExtractor(e, current); err != nil {
				return nil, err
			}
		}
		return current, nil
	default:
		return nil, fmt.Errorf("unsupported extractor class %q", class)
	}
}

func extractProperty(value any, name string) any {
	if name == "" {
		return value
	}
	// dotted names walk nested documents
	for _, part := range strings.Split(name, ".") {
		switch v := value.(type) {
		case map[string]any:
			value = v[part]
		case map[any]any:
			value = v[part]
		default:
			return nil
		}
	}
	return value
}

// evalAggregator evaluates a decoded aggregator over the matched values and
// returns the logical result to be re-encoded by the caller.
func evalAggregator(aggregator any, values []any) (any, error) {
	class, m, err := className(aggregator)
	if err != nil {
		return nil, err
	}

	switch class {
	case "aggregator.CountAggregator":
		return int64(len(values)), nil
	case "aggregator.DistinctValuesAggregator":
		return distinctValues(m["extractor"], values)
	case "aggregator.SumAggregator", "aggregator.AverageAggregator",
		"aggregator.MaxAggregator", "aggregator.MinAggregator":
		var (
			sum   float64
			count int
			best  *float64
		)
		for _, v := range values {
			extracted, err1 := applyExtractor(m["extractor"], v)
			if err1 != nil {
				return nil, err1
			}
			f, ok := toFloat(extracted)
			if !ok {
				continue
			}
			sum += f
			count++
			if best == nil {
				val := f
				best = &val
			} else if (class == "aggregator.MaxAggregator" && f > *best) ||
				(class == "aggregator.MinAggregator" && f < *best) {
				*best = f
			}
		}
		switch class {
		case "aggregator.SumAggregator":
			return sum, nil
		case "aggregator.AverageAggregator":
			if count == 0 {
				return nil, nil
			}
			return sum / float64(count), nil
		default:
			if best == nil {
				return nil, nil
			}
			return *best, nil
		}
	default:
		return nil, fmt.Errorf("unsupported aggregator class %q", class)
	}
}

func distinctValues(extractor any, values []any) (any, error) {
	seen := make(map[string]any)
	for _, v := range values {
		extracted, err := applyExtractor(extractor, v)
		if err != nil {
			return nil, err
		}
		seen[fmt.Sprint(extracted)] = extracted
	}
	result := make([]any, 0, len(seen))
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		result = append(result, seen[k])
	}
	return result, nil
}

// agentResult is the outcome of a logical processor applied to one entry.
type agentResult struct {
	result  any
	value   any
	changed bool
	removed bool
}

// applyAgent applies a decoded logical processor to a decoded entry value.
// present reports whether the entry currently exists.
func applyAgent(agent any, value any, present bool) (agentResult, error) {
	class, m, err := className(agent)
	if err != nil {
		return agentResult{}, err
	}

	switch class {
	case "processor.ConditionalPut":
		ok, err1 := evalFilter(m["filter"], value)
		if err1 != nil {
			return agentResult{}, err1
		}
		if ok {
			return agentResult{value: m["value"], changed: true}, nil
		}
		if rv, _ := m["returnValue"].(bool); rv {
			return agentResult{result: value}, nil
		}
		return agentResult{}, nil
	case "processor.ConditionalRemove":
		ok, err1 := evalFilter(m["filter"], value)
		if err1 != nil {
			return agentResult{}, err1
		}
		if ok && present {
			return agentResult{removed: true}, nil
		}
		if rc, _ := m["returnCurrent"].(bool); rc {
			return agentResult{result: value}, nil
		}
		return agentResult{}, nil
	case "processor.ExtractorProcessor":
		extracted, err1 := applyExtractor(m["extractor"], value)
		if err1 != nil {
			return agentResult{}, err1
		}
		return agentResult{result: extracted}, nil
	case "processor.NumberIncrementor":
		name, _ := m["property"].(string)
		inc, _ := toFloat(m["increment"])
		current, _ := toFloat(extractProperty(value, name))
		updated := setProperty(value, name, current+inc)
		result := current + inc
		if post, _ := m["postIncrement"].(bool); post {
			result = current
		}
		return agentResult{result: result, value: updated, changed: present}, nil
	case "processor.UpdaterProcessor":
		name, _ := m["property"].(string)
		if !present {
			return agentResult{}, nil
		}
		return agentResult{value: setProperty(value, name, m["value"]), changed: true}, nil
	case "processor.TouchProcessor", "processor.PreloadRequest":
		return agentResult{}, nil
	default:
		return agentResult{}, fmt.Errorf("unsupported processor class %q", class)
	}
}

func setProperty(value any, name string, v any) any {
	if name == "" {
		return v
	}
	m, ok := value.(map[string]any)
	if !ok {
		m = make(map[string]any)
	}
	m[name] = v
	return m
}

// compareValues compares two decoded scalars, returning the ordering and
// whether the pair is comparable at all.
func compareValues(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		if fb, ok2 := toFloat(b); ok2 {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), true
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0, true
			case av:
				return 1, true
			default:
				return -1, true
			}
		}
	case nil:
		if b == nil {
			return 0, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
