package sanitizer

import "reflect"

// maxWalkDepth bounds recursion on self-referencing values.
const maxWalkDepth = 64

// Body returns a copy of v with every string leaf escaped by Markup.
func Body(v any) any {
	return Walk(v, Markup)
}

// Walk returns a deep copy of v in which every string leaf is replaced by fn(leaf).
// Slices and arrays keep their order, maps keep their keys, structs keep their
// layout and only exported fields are visited. Non-string leaves are copied as is,
// which includes unexported embedded structs and []byte values such as
// json.RawMessage; use JSONBody for payloads that will be encoded as JSON.
// The input value is never modified.
func Walk(v any, fn func(string) string) any {
	if v == nil || fn == nil {
		return v
	}
	return walkValue(reflect.ValueOf(v), fn, 0).Interface()
}

func walkValue(v reflect.Value, fn func(string) string, depth int) reflect.Value {
	if depth > maxWalkDepth {
		return v
	}

	switch v.Kind() {
	case reflect.String:
		out := reflect.New(v.Type()).Elem()
		out.SetString(fn(v.String()))
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(walkValue(v.Elem(), fn, depth+1))
		return out

	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(walkValue(v.Elem(), fn, depth+1))
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			out.Index(i).Set(walkValue(v.Index(i), fn, depth+1))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := range v.Len() {
			out.Index(i).Set(walkValue(v.Index(i), fn, depth+1))
		}
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), walkValue(iter.Value(), fn, depth+1))
		}
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		t := v.Type()
		for i := range v.NumField() {
			if !t.Field(i).IsExported() {
				continue
			}
			out.Field(i).Set(walkValue(v.Field(i), fn, depth+1))
		}
		return out

	default:
		return v
	}
}
