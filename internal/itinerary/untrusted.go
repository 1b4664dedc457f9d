package itinerary

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

var (
	errNotObject    = errors.New("top-level JSON value is not an object")
	errTrailingData = errors.New("unexpected data after top-level JSON value")
)

// Object is a decoded JSON object whose shape has not been checked. Every
// accessor reports absence or a wrong type instead of assuming a field exists.
type Object map[string]any

// decodeObject strictly decodes s as a single JSON object. Numbers are kept
// as json.Number so costs are not rounded by float conversion.
func decodeObject(s string) (Object, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return Object(obj), nil
}

// Lookup returns the first non-null value among keys.
func (o Object) Lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := o[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Text returns the first value among keys that is a string or a number,
// rendered as a string.
func (o Object) Text(keys ...string) (string, bool) {
	for _, k := range keys {
		switch v := o[k].(type) {
		case string:
			return v, true
		case json.Number:
			return v.String(), true
		}
	}
	return "", false
}

// Objects returns the object elements of the first array found among keys.
// Non-object elements are skipped.
func (o Object) Objects(keys ...string) []Object {
	for _, k := range keys {
		arr, ok := o[k].([]any)
		if !ok {
			continue
		}
		out := make([]Object, 0, len(arr))
		for _, item := range arr {
			if m, ok := item.(map[string]any); ok {
				out = append(out, Object(m))
			}
		}
		return out
	}
	return nil
}

// Child returns the nested object stored at key.
func (o Object) Child(key string) (Object, bool) {
	m, ok := o[key].(map[string]any)
	return Object(m), ok
}

// unwrap descends into a single wrapper object such as {"itinerary": {...}}
// when the top level does not itself carry days.
func (o Object) unwrap() Object {
	if _, ok := o["days"]; ok {
		return o
	}
	for _, key := range []string{"itinerary", "trip", "plan", "data", "result"} {
		if child, ok := o.Child(key); ok {
			if _, hasDays := child["days"]; hasDays {
				return child
			}
		}
	}
	return o
}
