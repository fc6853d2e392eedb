// Package numnorm recursively normalizes non-native numeric types into
// native Go scalars before JSON serialization.
//
// Model-ensemble outputs in stages 3/4/6/7 can surface numeric types that
// don't round-trip cleanly through encoding/json — confidence scores wrapped
// in custom float types, map values decoded from another serializer, etc.
// §4.1 and §9 call this out as a critical correctness point: silently
// encoding (or failing to encode) a non-native numeric breaks everything
// downstream. Normalize defensively covers dict/list/native-numeric cases
// recursively, exactly as the design notes specify.
package numnorm

import "reflect"

// Normalize walks v and returns an equivalent value built only from the
// types encoding/json handles natively: map[string]any, []any, string,
// bool, float64, int64, and nil. It is safe to call on already-native
// values (it is then a no-op copy).
func Normalize(v any) any {
	if v == nil {
		return nil
	}

	switch t := v.(type) {
	case string, bool, nil:
		return t
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return int64(t)
	case int8, int16, int32, int64:
		return reflect.ValueOf(t).Int()
	case uint, uint8, uint16, uint32, uint64:
		return int64(reflect.ValueOf(t).Uint())
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	}

	// Fall back to reflection for named numeric types, pointers to numerics,
	// and slices/maps whose element type isn't `any` (the common shape of
	// ML-library outputs: a typed float32 slice, a map[string]float32, ...).
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key()
			var ks string
			if key.Kind() == reflect.String {
				ks = key.String()
			} else {
				ks = reflect.ValueOf(key.Interface()).String()
			}
			out[ks] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Struct:
		// Structs are expected to already carry json tags and marshal
		// natively; return as-is rather than flattening into a map, so
		// field ordering and omitempty semantics are preserved.
		return v
	}

	return v
}
