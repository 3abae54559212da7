// Package serialize converts domain values into JSON-ready primitives
// with optional field selection, computed attributes and nested
// sub-object control.
package serialize

import (
	"reflect"
	"strings"
	"time"
)

// Marshal converts src into a structure of maps, slices and scalars
// suitable for JSON encoding.
//
// With no options the conversion is an identity as far as the JSON
// encoding is concerned. Options change which struct fields appear and
// how: Fields replaces the default set, Include and Exclude adjust it,
// Computed adds derived attributes, Nested recurses into related values
// with their own option set, and Fixup post-processes the resulting map.
//
// Slices, arrays and maps are converted element-wise with the same
// options, so marshalling a slice of structs applies the field selection
// to every element.
func Marshal(src any, opts ...Option) any {
	cfg := newConfig(opts)
	return marshal(reflect.ValueOf(src), cfg)
}

func marshal(v reflect.Value, cfg *config) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return marshal(v.Elem(), cfg)

	case reflect.Struct:
		if t, ok := v.Interface().(time.Time); ok {
			// RFC3339Nano keeps sub-second precision the way
			// encoding/json does.
			return t.Format(time.RFC3339Nano)
		}
		return marshalStruct(v, cfg)

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			// []byte stays as-is; the JSON encoder base64s it.
			return v.Interface()
		}
		fallthrough
	case reflect.Array:
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = marshal(v.Index(i), cfg)
		}
		return out

	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key, ok := iter.Key().Interface().(string)
			if !ok {
				return v.Interface()
			}
			out[key] = marshal(iter.Value(), cfg)
		}
		return out

	default:
		return v.Interface()
	}
}

func marshalStruct(v reflect.Value, cfg *config) any {
	order, byName := visibleFields(v)

	names := cfg.fields
	if names == nil {
		names = order
	}
	names = append(names, cfg.include...)

	data := make(map[string]any, len(names))
	for _, name := range names {
		if cfg.exclude[name] {
			continue
		}
		if nestedOpts, ok := cfg.nested[name]; ok {
			if fv, found := byName[name]; found {
				data[name] = Marshal(fv.Interface(), nestedOpts...)
			}
			continue
		}
		if fv, found := byName[name]; found {
			data[name] = marshal(fv, plainConfig)
		}
	}

	for key, fn := range cfg.computed {
		if cfg.exclude[key] {
			continue
		}
		data[key] = fn(v.Interface())
	}

	if cfg.fixup != nil {
		data = cfg.fixup(data)
	}
	return data
}

// plainConfig carries no field selection; sub-values of a struct convert
// with default behavior unless Nested overrides them.
var plainConfig = &config{exclude: map[string]bool{}}

// visibleFields returns the JSON-visible field names of v in declaration
// order together with their values, honoring json tags and promoting the
// exported fields of untagged embedded structs the way encoding/json
// does. Fields named at this level shadow promoted ones.
func visibleFields(v reflect.Value) ([]string, map[string]reflect.Value) {
	t := v.Type()

	named := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if promotes(f) || !f.IsExported() {
			continue
		}
		if name, skip := jsonName(f); !skip {
			named[name] = true
		}
	}

	order := make([]string, 0, t.NumField())
	byName := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fv := v.Field(i)

		if promotes(f) {
			if f.Type.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			subOrder, subByName := visibleFields(fv)
			for _, name := range subOrder {
				if named[name] {
					continue
				}
				if _, dup := byName[name]; dup {
					continue
				}
				order = append(order, name)
				byName[name] = subByName[name]
			}
			continue
		}

		if !f.IsExported() {
			continue
		}
		name, skip := jsonName(f)
		if skip {
			continue
		}
		if _, dup := byName[name]; !dup {
			order = append(order, name)
		}
		byName[name] = fv
	}
	return order, byName
}

// promotes reports whether f is an untagged embedded struct whose
// exported fields surface on the parent.
func promotes(f reflect.StructField) bool {
	if !f.Anonymous || f.Tag.Get("json") != "" {
		return false
	}
	t := f.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func jsonName(f reflect.StructField) (name string, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name = f.Name
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	if tag != "" {
		name = tag
	}
	return name, false
}
