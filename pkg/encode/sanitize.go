package encode

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// cycleMarker stands in for a container that refers back to itself.
const cycleMarker = "<cycle>"

// Sanitize reduces v to a value the JSON encoder is guaranteed to
// accept. The visitor handles the closed set {nil, bool, number,
// string, array, map}; times, durations, errors and Stringers get a
// canonical string form; anything else falls back to fmt's verb %v.
// Maps and slices are visited recursively; a container that appears
// on its own visit path is replaced with a "<cycle>" marker so a
// self-referential value can never recurse unboundedly.
func Sanitize(v any) any {
	return sanitize(v, make(map[uintptr]struct{}))
}

// sanitize carries the set of container pointers on the current visit
// path. Pointers are added on entry and removed on exit, so shared
// (but acyclic) containers are still visited normally.
func sanitize(v any, path map[uintptr]struct{}) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case time.Duration:
		return x.String()
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	case map[string]any:
		if len(x) == 0 {
			return map[string]any{}
		}
		p := reflect.ValueOf(x).Pointer()
		if !enter(path, p) {
			return cycleMarker
		}
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = sanitize(val, path)
		}
		delete(path, p)
		return out
	case []any:
		if len(x) == 0 {
			return []any{}
		}
		p := reflect.ValueOf(x).Pointer()
		if !enter(path, p) {
			return cycleMarker
		}
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = sanitize(val, path)
		}
		delete(path, p)
		return out
	}

	return sanitizeReflect(v, path)
}

// sanitizeReflect covers typed maps, slices, arrays and pointers that
// did not match the concrete cases above, e.g. []string or
// map[string]int.
func sanitizeReflect(v any, path map[uintptr]struct{}) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Len() == 0 {
			return []any{}
		}
		p := rv.Pointer()
		if !enter(path, p) {
			return cycleMarker
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitize(rv.Index(i).Interface(), path)
		}
		delete(path, p)
		return out

	case reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitize(rv.Index(i).Interface(), path)
		}
		return out

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.Len() == 0 {
			return map[string]any{}
		}
		p := rv.Pointer()
		if !enter(path, p) {
			return cycleMarker
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = sanitize(iter.Value().Interface(), path)
		}
		delete(path, p)
		return out

	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		p := rv.Pointer()
		if !enter(path, p) {
			return cycleMarker
		}
		out := sanitize(rv.Elem().Interface(), path)
		delete(path, p)
		return out

	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return sanitize(rv.Elem().Interface(), path)
	}

	// String fallback for everything outside the supported set.
	return fmt.Sprintf("%v", v)
}

// enter records p on the visit path; false means p is already there.
func enter(path map[uintptr]struct{}, p uintptr) bool {
	if _, ok := path[p]; ok {
		return false
	}
	path[p] = struct{}{}
	return true
}
